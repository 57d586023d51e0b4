package claude

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazelment/claude-cli/internal/ndjson"
)

// writeFakeCLI writes a shell script standing in for the claude binary.
func writeFakeCLI(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claude")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func collect(t *testing.T, s *Stream) []Message {
	t.Helper()
	var msgs []Message
	for s.Next() {
		msgs = append(msgs, s.Current())
	}
	return msgs
}

const sessionScript = `cat <<'JSON'
{"type":"system","subtype":"init","session_id":"abc123","model":"claude-opus-4-5-20251101","cwd":"/tmp","tools":["Read"]}

{"type":"assistant","session_id":"abc123","message":{"role":"assistant","model":"claude-opus-4-5-20251101","content":[{"type":"text","text":"Hello world"}]}}
{"type":"result","subtype":"success","session_id":"abc123","result":"Hello world","num_turns":1,"duration_ms":1200,"total_cost_usd":0.0123,"is_error":false}
JSON`

func TestQuery_StreamsMessagesInOrder(t *testing.T) {
	client := NewClient(WithCLIPath(writeFakeCLI(t, sessionScript)))

	stream, err := client.Query(context.Background(), "hi", Options{})
	require.NoError(t, err)
	defer stream.Close()

	msgs := collect(t, stream)
	require.NoError(t, stream.Err())
	require.Len(t, msgs, 3)

	sys, ok := msgs[0].(SystemMessage)
	require.True(t, ok)
	assert.Equal(t, "init", sys.Subtype)
	assert.Equal(t, "abc123", sys.SessionID)

	asst, ok := msgs[1].(AssistantMessage)
	require.True(t, ok)
	assert.Equal(t, []Block{TextBlock{Text: "Hello world"}}, asst.Content)

	res, ok := msgs[2].(ResultMessage)
	require.True(t, ok)
	assert.Equal(t, "abc123", res.SessionID)
	assert.Equal(t, 1, res.NumTurns)
	assert.Equal(t, int64(1200), res.DurationMs)
	require.True(t, res.TotalCostUSD.Valid)
	assert.Equal(t, "0.0123", res.TotalCostUSD.Decimal.String())
}

func TestQuery_PassesArgsAndEnv(t *testing.T) {
	out := filepath.Join(t.TempDir(), "args")
	cli := writeFakeCLI(t, `printf '%s\n' "$@" > "`+out+`"
echo "$CLAUDE_CODE_ENTRYPOINT" >> "`+out+`"
echo "$EXTRA_VAR" >> "`+out+`"
pwd >> "`+out+`"`)
	dir := t.TempDir()

	client := NewClient(WithCLIPath(cli), WithEnv(map[string]string{"EXTRA_VAR": "extra"}))
	stream, err := client.Query(context.Background(), "-starts with dash", Options{
		Model:          "m1",
		PermissionMode: PermissionModeAcceptEdits,
		WorkDir:        dir,
		AllowedTools:   []string{"Read", "Bash"},
	})
	require.NoError(t, err)
	assert.Empty(t, collect(t, stream))
	require.NoError(t, stream.Err())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	wantDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(lines[len(lines)-1])
	require.NoError(t, err)

	assert.Equal(t, []string{
		"--output-format", "stream-json",
		"--verbose",
		"--model", "m1",
		"--permission-mode", "acceptEdits",
		"--allowed-tools", "Read",
		"--allowed-tools", "Bash",
		"--print", "--", "-starts with dash",
		"sdk-go",
		"extra",
	}, lines[:len(lines)-1])
	assert.Equal(t, wantDir, gotDir)
}

func TestQuery_NonZeroExitIsProcessError(t *testing.T) {
	cli := writeFakeCLI(t, `echo '{"type":"system","subtype":"init","session_id":"s1"}'
echo "authentication failed" >&2
exit 3`)

	stream, err := NewClient(WithCLIPath(cli)).Query(context.Background(), "hi", Options{})
	require.NoError(t, err)
	defer stream.Close()

	msgs := collect(t, stream)
	assert.Len(t, msgs, 1)

	var procErr *ProcessError
	require.ErrorAs(t, stream.Err(), &procErr)
	assert.Equal(t, 3, procErr.ExitCode)
	assert.Equal(t, "authentication failed", procErr.Stderr)
}

func TestQuery_StderrIsBounded(t *testing.T) {
	cli := writeFakeCLI(t, `printf 'aaaaaaaaaaTAIL' >&2
exit 1`)

	stream, err := NewClient(WithCLIPath(cli), WithStderrLimit(4)).Query(context.Background(), "hi", Options{})
	require.NoError(t, err)
	collect(t, stream)

	var procErr *ProcessError
	require.ErrorAs(t, stream.Err(), &procErr)
	assert.Equal(t, "TAIL", procErr.Stderr)
}

func TestQuery_MalformedLineIsProtocolError(t *testing.T) {
	cli := writeFakeCLI(t, `echo '{"type":"system","subtype":"init","session_id":"s1"}'
echo 'not json'
echo '{"type":"result","subtype":"success","session_id":"s1"}'`)

	stream, err := NewClient(WithCLIPath(cli)).Query(context.Background(), "hi", Options{})
	require.NoError(t, err)
	defer stream.Close()

	msgs := collect(t, stream)
	assert.Len(t, msgs, 1, "nothing after the bad line is delivered")

	var protoErr *ProtocolError
	require.ErrorAs(t, stream.Err(), &protoErr)
	assert.Equal(t, "not json", protoErr.Line)
	assert.Error(t, protoErr.Cause)
}

func TestQuery_UnknownTypesDecode(t *testing.T) {
	cli := writeFakeCLI(t, `echo '{"type":"stream_event","event":{}}'
echo '{"type":"assistant","message":{"content":[{"type":"server_tool_use","id":"x"},{"type":"text","text":"ok"}]}}'`)

	stream, err := NewClient(WithCLIPath(cli)).Query(context.Background(), "hi", Options{})
	require.NoError(t, err)

	msgs := collect(t, stream)
	require.NoError(t, stream.Err())
	require.Len(t, msgs, 2)

	unknown, ok := msgs[0].(UnknownMessage)
	require.True(t, ok)
	assert.Equal(t, "stream_event", unknown.Type)

	asst, ok := msgs[1].(AssistantMessage)
	require.True(t, ok)
	require.Len(t, asst.Content, 2)
	assert.IsType(t, UnknownBlock{}, asst.Content[0])
	assert.Equal(t, TextBlock{Text: "ok"}, asst.Content[1])
}

func TestQuery_MissingBinaryIsCLINotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "claude")

	stream, err := NewClient(WithCLIPath(missing)).Query(context.Background(), "hi", Options{})
	assert.Nil(t, stream)

	var notFound *CLINotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, missing, notFound.Path)
}

func TestQuery_MissingWorkDir(t *testing.T) {
	cli := writeFakeCLI(t, sessionScript)

	_, err := NewClient(WithCLIPath(cli)).Query(context.Background(), "hi", Options{
		WorkDir: filepath.Join(t.TempDir(), "nope"),
	})
	require.Error(t, err)

	var notFound *CLINotFoundError
	assert.False(t, errors.As(err, &notFound))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestQuery_ContextCancelStopsProcess(t *testing.T) {
	cli := writeFakeCLI(t, `echo '{"type":"system","subtype":"init","session_id":"s1"}'
exec sleep 60`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := NewClient(WithCLIPath(cli)).Query(ctx, "hi", Options{})
	require.NoError(t, err)
	defer stream.Close()

	require.True(t, stream.Next())
	cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for stream.Next() {
		}
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("stream did not end after cancel")
	}
	assert.ErrorIs(t, stream.Err(), context.Canceled)
}

func TestStream_CloseBeforeEnd(t *testing.T) {
	cli := writeFakeCLI(t, `echo '{"type":"system","subtype":"init","session_id":"s1"}'
exec sleep 60`)

	stream, err := NewClient(WithCLIPath(cli)).Query(context.Background(), "hi", Options{})
	require.NoError(t, err)
	require.True(t, stream.Next())

	start := time.Now()
	require.NoError(t, stream.Close())
	assert.Less(t, time.Since(start), 10*time.Second)

	assert.False(t, stream.Next())
	assert.ErrorIs(t, stream.Err(), ErrStreamClosed)
	require.NoError(t, stream.Close())
}

func TestQuery_BackgroundChildHoldingStderr(t *testing.T) {
	cli := writeFakeCLI(t, `sleep 3 >/dev/null &
echo '{"type":"result","subtype":"success","session_id":"s1"}'
exit 0`)

	start := time.Now()
	stream, err := NewClient(WithCLIPath(cli)).Query(context.Background(), "hi", Options{})
	require.NoError(t, err)
	defer stream.Close()

	msgs := collect(t, stream)
	require.NoError(t, stream.Err())
	require.Len(t, msgs, 1)
	assert.Equal(t, "s1", msgs[0].(ResultMessage).SessionID)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestReadLoop_ReadErrorEndsStream(t *testing.T) {
	client := NewClient(WithCLIPath(writeFakeCLI(t, "exit 0")))
	pm := newProcessManager("hi", Options{}, client.config)

	procCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, pm.Start(procCtx))

	readErr := errors.New("read |0: input/output error")
	pm.reader = ndjson.NewReader(iotest.ErrReader(readErr))

	items := make(chan streamItem, 1)
	stream := newStream(items, cancel, make(chan struct{}))
	go client.readLoop(context.Background(), pm, stream, items)

	assert.False(t, stream.Next())

	var protoErr *ProtocolError
	require.ErrorAs(t, stream.Err(), &protoErr)
	assert.Equal(t, "failed to read CLI output", protoErr.Message)
	assert.ErrorIs(t, stream.Err(), readErr)
}
