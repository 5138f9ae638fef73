package main

import (
	"os"

	"github.com/worldatlas/worldatlas-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
