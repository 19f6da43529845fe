package main

import (
	"os"

	"github.com/yukikurage/task-tracker-api/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
