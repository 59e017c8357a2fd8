// Package alsyntax is the lightweight extraction layer over AL source text.
// It finds object headers, trigger and procedure declarations, documentation
// blocks and var sections with a small, fixed set of patterns. It does not
// parse the language: there is no scope resolution or type checking, and
// matches inside comments or strings are not told apart from code.
//
// It also owns the line table used to translate between 0-based
// (line, UTF-16 column) positions and byte offsets.
package alsyntax
