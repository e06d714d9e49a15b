package main

import (
	"os"

	"github.com/km-arc/go-rh-forms/cmd/rhforms/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
