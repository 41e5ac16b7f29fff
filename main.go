package main

import (
	"os"

	"github.com/skillbit/skillbit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
