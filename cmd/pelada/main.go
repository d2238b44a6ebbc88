package main

import "github.com/mcoot/pelada/internal/cli"

func main() {
	cli.Execute()
}
