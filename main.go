package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rakhulsr/ecommerce-api/app/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.RunCli(ctx, os.Args); err != nil {
		stop()
		cmd.Exit(err)
	}
}
