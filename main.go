package main

import (
	"os"

	"github.com/dpshade/pocket-prompt-panel/internal/cli"
)

var version = "0.1.0"

func main() {
	// Execute has already printed the error
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
