package claude

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/bazelment/claude-cli/claude/protocol"
)

// Client starts Claude CLI queries. It holds no per-query state and may be
// shared.
type Client struct {
	config clientConfig
}

// NewClient creates a Client with the given options.
func NewClient(opts ...ClientOption) *Client {
	config := defaultClientConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Client{config: config}
}

// Query spawns the CLI for one prompt and returns its message stream.
// Failing to start returns *CLINotFoundError or *ProcessError. Cancelling
// ctx terminates the CLI; the stream then ends with ctx's error.
func (c *Client) Query(ctx context.Context, prompt string, opts Options) (*Stream, error) {
	procCtx, cancel := context.WithCancel(ctx)

	pm := newProcessManager(prompt, opts, c.config)
	c.config.Logger.Debug("starting claude CLI", "args", pm.BuildCLIArgs())
	if err := pm.Start(procCtx); err != nil {
		cancel()
		return nil, err
	}

	items := make(chan streamItem, c.config.BufferSize)
	stream := newStream(items, cancel, make(chan struct{}))
	go c.readLoop(ctx, pm, stream, items)
	return stream, nil
}

// readLoop decodes CLI output into the stream until EOF, a decode failure,
// or Close, then reaps the process and reports how it ended.
func (c *Client) readLoop(ctx context.Context, pm *processManager, stream *Stream, items chan<- streamItem) {
	defer close(stream.finished)
	defer close(items)

	var readErr error
	for {
		line, err := pm.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.config.Logger.Debug("reading claude CLI output", "error", err)
				readErr = err
			}
			break
		}

		msg, err := decodeLine(line)
		if err != nil {
			stream.cancel()
			_ = pm.Wait()
			stream.send(items, streamItem{err: err})
			return
		}

		if !stream.send(items, streamItem{msg: msg}) {
			stream.cancel()
			_ = pm.Wait()
			return
		}
	}

	waitErr := pm.Wait()
	if ctx.Err() != nil {
		stream.send(items, streamItem{err: ctx.Err()})
		return
	}
	if waitErr != nil {
		stream.send(items, streamItem{err: waitErr})
		return
	}
	if readErr != nil {
		stream.send(items, streamItem{err: &ProtocolError{Message: "failed to read CLI output", Cause: readErr}})
	}
}

// decodeLine parses one line of CLI output.
func decodeLine(line []byte) (Message, error) {
	wire, err := protocol.ParseMessage(line)
	if err != nil {
		return nil, &ProtocolError{Message: "failed to decode JSON", Line: string(line), Cause: err}
	}
	msg, err := fromWire(wire)
	if err != nil {
		return nil, &ProtocolError{Message: "failed to decode message", Line: string(line), Cause: err}
	}
	return msg, nil
}
