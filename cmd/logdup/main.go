package main

import (
	"os"

	"github.com/logdup/logdup/cmd/logdup/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(2)
	}
}
