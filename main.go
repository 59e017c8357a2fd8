package main

import "github.com/alguard/alguard/cmd/alguard"

func main() { alguard.Execute() }
