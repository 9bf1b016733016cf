package main

import (
	"os"

	"dms_automation/presentation/terminal"
)

func main() {
	if err := terminal.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
