// Package iocdefang provides the command-line interface for iocdefang. It
// configures subcommands (detect, defang, refang, scan, etc.), parses flags,
// and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/iocdefang/iocdefang/cmd/iocdefang"
//	func main() { iocdefang.Execute() }
package iocdefang
