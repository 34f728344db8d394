package main

import (
	"os"

	"github.com/aipdev/aip/cmd/aip/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
