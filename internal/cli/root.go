// Package cli implements the claude-cli command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bazelment/claude-cli/claude"
	"github.com/bazelment/claude-cli/internal/config"
	"github.com/bazelment/claude-cli/internal/logging"
	"github.com/bazelment/claude-cli/printer"
)

const (
	commandName = "claude-cli"
	version     = "0.1.0"
)

// QuerierFactory builds the agent client once settings are loaded.
type QuerierFactory func(s config.Settings, logger *slog.Logger) printer.Querier

// NewClaudeClient is the production QuerierFactory.
func NewClaudeClient(s config.Settings, logger *slog.Logger) printer.Querier {
	return claude.NewClient(
		claude.WithCLIPath(s.CLIPath),
		claude.WithLogger(logger),
	)
}

type rootFlags struct {
	cwd        string
	resume     string
	cliPath    string
	configPath string
	verbose    bool
	debug      bool
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer, newQuerier QuerierFactory) int {
	// --version wins over everything else on the line, bad flags included.
	if hasVersionFlag(args) {
		fmt.Fprintf(stdout, "%s %s\n", commandName, version)
		return printer.ExitOK
	}

	flags := &rootFlags{}
	code := printer.ExitOK

	cmd := &cobra.Command{
		Use:   commandName + " [prompt]",
		Short: "Send a prompt to Claude and stream the reply",
		Long:  "Claude CLI - A command-line tool powered by Claude Agent SDK",
		Example: `  claude-cli "Explain this repository"
  claude-cli -v -c ~/src/app "Fix the failing test"
  claude-cli -r 8f3c2a1e "Now add a changelog entry"`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var prompt string
			if len(args) > 0 {
				prompt = args[0]
			}
			if prompt == "" {
				_ = cmd.Help()
				code = printer.ExitFailure
				return nil
			}
			code = run(cmd.Context(), prompt, flags, stdout, stderr, newQuerier)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.cwd, "cwd", "c", "", "Working directory for Claude (default: current directory)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Show verbose output including tool usage and thinking")
	cmd.Flags().StringVarP(&flags.resume, "resume", "r", "", "Session ID to resume a previous conversation")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Write debug logs to stderr")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/claude-cli/config.yaml)")
	cmd.Flags().StringVar(&flags.cliPath, "cli-path", "", "Path to the claude binary")
	_ = cmd.Flags().MarkHidden("cli-path")

	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprint(stderr, cmd.UsageString())
		return printer.ExitUsage
	}
	return code
}

// hasVersionFlag reports whether --version appears before a "--" terminator.
func hasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "--version" {
			return true
		}
	}
	return false
}

func run(ctx context.Context, prompt string, flags *rootFlags, stdout, stderr io.Writer, newQuerier QuerierFactory) int {
	overrides := map[string]interface{}{}
	if flags.cliPath != "" {
		overrides["cli_path"] = flags.cliPath
	}
	if flags.debug {
		overrides["log_level"] = "debug"
	}

	settings, err := config.Load(config.LoadOptions{Path: flags.configPath, Overrides: overrides})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return printer.ExitFailure
	}

	level, err := logging.ParseLevel(settings.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return printer.ExitFailure
	}
	logger := logging.New(stderr, level)

	workDir := flags.cwd
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			fmt.Fprintf(stderr, "Error getting working directory: %v\n", err)
			return printer.ExitFailure
		}
	}

	cfg, err := printer.NewConfig(prompt, workDir, flags.verbose, flags.resume)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return printer.ExitFailure
	}

	p := printer.New(newQuerier(settings, logger), stdout, stderr,
		printer.WithLogger(logger),
		printer.WithColor(settings.Color),
	)
	return p.Run(ctx, cfg)
}
