package main

import (
	"os"

	"github.com/rustyeddy/posledger/cmd/posledger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
