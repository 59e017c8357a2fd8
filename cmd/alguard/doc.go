// Package alguard provides the command-line interface for alguard. It
// configures subcommands (scan, propose, apply, fix, watch, etc.), parses
// flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/alguard/alguard/cmd/alguard"
//	func main() { alguard.Execute() }
package alguard
