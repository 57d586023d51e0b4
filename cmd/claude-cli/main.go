// Command claude-cli sends one prompt to Claude Code and streams the reply.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bazelment/claude-cli/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr, cli.NewClaudeClient)
	stop()
	os.Exit(code)
}
