package main

import (
	"log/slog"
	"os"

	"github.com/fdkevin0/htmlsketch/internal/cli"
)

func main() {
	// Run CLI entrypoint.
	if err := cli.Execute(); err != nil {
		slog.Error("htmlsketch failed", "error", err)
		os.Exit(1)
	}
}
