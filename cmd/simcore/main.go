package main

import (
	"os"

	"github.com/wonny/simcore/cmd/simcore/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
