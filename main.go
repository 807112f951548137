package main

import (
	"os"

	"github.com/linealign/linealign/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args, nil))
}
