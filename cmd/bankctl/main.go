package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/dtroode/cipherbank/internal/bankctl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := bankctl.NewApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		// A bare usage error has already printed the usage text.
		if err != bankctl.ErrUsage {
			fmt.Fprintln(os.Stderr, "bankctl:", err)
		}
		if errors.Is(err, bankctl.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
