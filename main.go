package main

import (
	"os"

	"github.com/chartel-dev/chartel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
