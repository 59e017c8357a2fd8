// Package fix turns findings into positional text edits and applies them.
//
// Positions are 0-based lines and UTF-16 columns with end-exclusive ranges,
// the same addressing editors use. Line terminators are tracked per line so
// files mixing CRLF and LF round-trip exactly. Edits for one file are
// checked for overlap and applied in descending position order; a batch
// with overlapping edits is rejected without touching the file.
package fix
