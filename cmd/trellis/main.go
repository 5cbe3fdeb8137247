package main

import "github.com/amterp/trellis/internal/cli"

func main() {
	cli.Run()
}
