package main

import "github.com/iocdefang/iocdefang/cmd/iocdefang"

func main() { iocdefang.Execute() }
