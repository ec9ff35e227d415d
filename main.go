package main

import (
	"os"

	"github.com/spigell/search-calculator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
