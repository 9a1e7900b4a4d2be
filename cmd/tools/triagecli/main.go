package main

import (
	"os"

	"github.com/zhouzirui/care4u/backend/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
