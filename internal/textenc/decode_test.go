package textenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

const sample = `{"files":[{"file":"src/Buffer.Table.al","edits":[]}]} é😀`

func encode(t *testing.T, order unicode.Endianness, bom unicode.BOMPolicy, s string) []byte {
	t.Helper()
	b, err := unicode.UTF16(order, bom).NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		enc  Encoding
	}{
		{"plain utf-8", []byte(sample), UTF8},
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, sample...), UTF8},
		{"utf-16le bom", encode(t, unicode.LittleEndian, unicode.UseBOM, sample), UTF16LE},
		{"utf-16be bom", encode(t, unicode.BigEndian, unicode.UseBOM, sample), UTF16BE},
		{"utf-16le no bom", encode(t, unicode.LittleEndian, unicode.IgnoreBOM, sample), UTF16LE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.enc, Detect(tt.in))
			got := Decode(tt.in)
			assert.Equal(t, sample, got)
			assert.NotContains(t, got, "\uFEFF")
		})
	}
}

func TestDecode_FewNulsStayUTF8(t *testing.T) {
	in := []byte("ab\x00cd\x00ef")
	assert.Equal(t, UTF8, Detect(in))
	assert.Equal(t, string(in), Decode(in))
}

func TestDecode_Empty(t *testing.T) {
	assert.Equal(t, "", Decode(nil))
	assert.Equal(t, "", Decode([]byte{0xEF, 0xBB, 0xBF}))
}
