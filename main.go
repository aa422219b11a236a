package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/sergev/lox/cli"
	"github.com/sergev/lox/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		// Script diagnostics were already printed where they occurred.
		if !errors.Is(err, cli.ErrDiagnostics) {
			log.Error("run failed", slog.Any("error", err))
		}
		os.Exit(1)
	}
}
