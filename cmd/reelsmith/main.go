package main

import "github.com/reelsmith/reelsmith/internal/cli"

func main() {
	cli.Main()
}
