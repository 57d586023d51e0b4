// Package printer runs one query and renders its stream as plain text.
package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/bazelment/claude-cli/claude"
)

// Exit codes returned by Run.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// previewLimit is how many characters of a tool result are shown.
const previewLimit = 200

// Querier starts a query. *claude.Client implements it.
type Querier interface {
	Query(ctx context.Context, prompt string, opts claude.Options) (*claude.Stream, error)
}

// Printer writes the agent's output to out and failures to errOut.
type Printer struct {
	querier  Querier
	out      io.Writer
	errOut   io.Writer
	logger   *slog.Logger
	tagStyle lipgloss.Style
	color    bool
	styled   bool
}

// Option configures a Printer.
type Option func(*Printer)

// WithLogger sets the logger for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(p *Printer) {
		p.logger = l
	}
}

// WithColor enables or disables dimming of verbose tags. Tags are only
// ever styled when out is a terminal.
func WithColor(enabled bool) Option {
	return func(p *Printer) {
		p.color = enabled
	}
}

// New creates a Printer.
func New(q Querier, out, errOut io.Writer, opts ...Option) *Printer {
	p := &Printer{
		querier: q,
		out:     out,
		errOut:  errOut,
		logger:  slog.Default(),
		color:   true,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.styled = p.color && isTerminal(out)
	if p.styled {
		p.tagStyle = lipgloss.NewRenderer(out).NewStyle().Faint(true)
	}
	return p
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run sends cfg.Prompt, prints the stream until it ends and returns the
// process exit code.
func (p *Printer) Run(ctx context.Context, cfg Config) int {
	p.logger.Debug("starting query", "model", cfg.Model, "dir", cfg.WorkDir, "resume", cfg.Resume, "verbose", cfg.Verbose)

	stream, err := p.querier.Query(ctx, cfg.Prompt, cfg.Options())
	if err != nil {
		return p.fail(ctx, err)
	}
	defer stream.Close()

	for stream.Next() {
		p.render(stream.Current(), cfg.Verbose)
	}
	if err := stream.Err(); err != nil {
		return p.fail(ctx, err)
	}
	return ExitOK
}

func (p *Printer) render(msg claude.Message, verbose bool) {
	switch m := msg.(type) {
	case claude.AssistantMessage:
		for _, block := range m.Content {
			p.renderBlock(block, verbose)
		}

	case claude.ResultMessage:
		fmt.Fprintln(p.out)
		fmt.Fprintf(p.out, "\n[Session: %s]\n", m.SessionID)
		if !verbose {
			return
		}
		fmt.Fprintf(p.out, "%s\n", p.tag(fmt.Sprintf("[Turns: %d]", m.NumTurns)))
		fmt.Fprintf(p.out, "%s\n", p.tag(fmt.Sprintf("[Duration: %dms]", m.DurationMs)))
		// A zero cost is not shown.
		if m.TotalCostUSD.Valid && !m.TotalCostUSD.Decimal.IsZero() {
			fmt.Fprintf(p.out, "%s\n", p.tag("[Cost: $"+m.TotalCostUSD.Decimal.StringFixed(4)+"]"))
		}

	default:
		p.logger.Debug("skipping message", "type", fmt.Sprintf("%T", msg))
	}
}

func (p *Printer) renderBlock(block claude.Block, verbose bool) {
	switch b := block.(type) {
	case claude.TextBlock:
		fmt.Fprint(p.out, b.Text)
	case claude.ThinkingBlock:
		if verbose {
			fmt.Fprintf(p.out, "\n%s %s\n\n", p.tag("[Thinking]"), b.Thinking)
		}
	case claude.ToolUseBlock:
		if verbose {
			fmt.Fprintf(p.out, "\n%s %s\n\n", p.tag("[Tool: "+b.Name+"]"), toolInput(b.Input))
		}
	case claude.ToolResultBlock:
		if verbose {
			fmt.Fprintf(p.out, "%s %s\n\n", p.tag("[Result]"), preview(b.Content))
		}
	}
}

func (p *Printer) tag(s string) string {
	if !p.styled {
		return s
	}
	return p.tagStyle.Render(s)
}

// fail reports err on errOut and picks the exit code.
func (p *Printer) fail(ctx context.Context, err error) int {
	p.logger.Debug("query failed", "error", err)

	var (
		notFound *claude.CLINotFoundError
		procErr  *claude.ProcessError
		protoErr *claude.ProtocolError
	)
	switch {
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		fmt.Fprintln(p.errOut, "Interrupted")
		return ExitInterrupted
	case errors.As(err, &notFound):
		fmt.Fprintln(p.errOut, "Error: Claude Code CLI not found. Please install it first.")
	case errors.As(err, &procErr):
		fmt.Fprintf(p.errOut, "Error: Process failed with exit code %d\n", procErr.ExitCode)
		if procErr.Stderr != "" {
			fmt.Fprintln(p.errOut, procErr.Stderr)
		}
	case errors.As(err, &protoErr):
		fmt.Fprintf(p.errOut, "Error: Failed to parse response: %v\n", protoErr)
	default:
		fmt.Fprintf(p.errOut, "Error: %v\n", err)
	}
	return ExitFailure
}

func toolInput(input map[string]interface{}) string {
	if input == nil {
		return "{}"
	}
	return compactJSON(input)
}

// preview shortens tool result content. Text gets "..." when cut;
// structured content is cut silently.
func preview(content interface{}) string {
	switch c := content.(type) {
	case nil:
		return ""
	case string:
		if r := []rune(c); len(r) > previewLimit {
			return string(r[:previewLimit]) + "..."
		}
		return c
	}

	text := compactJSON(content)
	if r := []rune(text); len(r) > previewLimit {
		return string(r[:previewLimit])
	}
	return text
}

// compactJSON renders v on one line without HTML escaping, falling back to
// fmt formatting for values JSON cannot represent.
func compactJSON(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
