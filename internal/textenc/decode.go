// Package textenc decodes externally supplied payloads whose encoding is
// not known up front.
package textenc

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// sniffLen and nulThreshold drive the BOM-less UTF-16LE heuristic: shells
// that pipe through UTF-16 leave every other byte zero for ASCII text.
const (
	sniffLen     = 64
	nulThreshold = 10
)

// Encoding names what Detect decided.
type Encoding string

const (
	UTF8    Encoding = "utf-8"
	UTF16LE Encoding = "utf-16le"
	UTF16BE Encoding = "utf-16be"
)

// Detect picks the encoding of b: a BOM wins, then the NUL heuristic,
// otherwise UTF-8.
func Detect(b []byte) Encoding {
	switch {
	case bytes.HasPrefix(b, bomUTF8):
		return UTF8
	case bytes.HasPrefix(b, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(b, bomUTF16BE):
		return UTF16BE
	}
	head := b
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if bytes.Count(head, []byte{0}) > nulThreshold {
		return UTF16LE
	}
	return UTF8
}

// Decode converts b to text. Byte order marks are removed and undecodable
// UTF-16 input falls back to the raw bytes read as UTF-8.
func Decode(b []byte) string {
	var s string
	switch Detect(b) {
	case UTF16LE:
		s = decode16(b, unicode.LittleEndian)
	case UTF16BE:
		s = decode16(b, unicode.BigEndian)
	default:
		s = string(bytes.TrimPrefix(b, bomUTF8))
	}
	return strings.TrimPrefix(s, "\uFEFF")
}

func decode16(b []byte, order unicode.Endianness) string {
	// UseBOM consumes a BOM when present and falls back to order otherwise.
	out, err := unicode.UTF16(order, unicode.UseBOM).NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
