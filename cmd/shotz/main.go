package main

import (
	"github.com/ollieshotz/shotz/internal/cli"
)

func main() {
	cli.Execute()
}
