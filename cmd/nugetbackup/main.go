package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/nugetbackup/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	if err := root.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(cli.HandleError(os.Stderr, root, err))
	}
}
