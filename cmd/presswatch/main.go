// Package main provides the presswatch CLI.
package main

import "github.com/mesh-intelligence/presswatch/internal/cli"

func main() {
	cli.Execute()
}
