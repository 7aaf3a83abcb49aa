package main

import (
	"os"

	"github.com/msto63/engcalc/cmd/engcalc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
