package main

import (
	"os"

	"github.com/spf13/afero"

	"github.com/notargets/kernelgen/cmd/kernelgen/command"
)

func main() {
	if err := command.NewCommand(afero.NewOsFs()).Execute(); err != nil {
		os.Exit(1)
	}
}
