package main

import (
	"os"

	"github.com/LT1923/4c2025/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
