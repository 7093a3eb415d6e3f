package main

import "github.com/kevharv/stockscope/internal/cli"

func main() {
	cli.Execute()
}
