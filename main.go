package main

import (
	"os"

	"github.com/intakeflow/intakeflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
