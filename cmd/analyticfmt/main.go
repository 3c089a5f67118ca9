package main

import (
	"os"

	"github.com/Konsultn-Engineering/sqlexpr/cmd/analyticfmt/command"
)

func main() {
	if err := command.GetRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
