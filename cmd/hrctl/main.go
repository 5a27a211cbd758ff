package main

import (
	"os"

	"github.com/KunjGarala/Dayflow/cmd/hrctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
