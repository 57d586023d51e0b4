package claude

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bazelment/claude-cli/internal/ndjson"
	"github.com/bazelment/claude-cli/internal/procattr"
)

// entrypointEnv tells the CLI which front end launched it.
const entrypointEnv = "CLAUDE_CODE_ENTRYPOINT=sdk-go"

// processManager manages the Claude CLI process of a single query.
// The prompt goes on the command line, so there is no stdin writer.
type processManager struct {
	cmd     *exec.Cmd
	reader  *ndjson.Reader
	stderr  *stderrTail
	config  clientConfig
	opts    Options
	prompt  string
	cliPath string
}

func newProcessManager(prompt string, opts Options, config clientConfig) *processManager {
	return &processManager{
		config: config,
		opts:   opts,
		prompt: prompt,
		stderr: &stderrTail{limit: config.StderrLimit, logger: config.Logger},
	}
}

// BuildCLIArgs builds the CLI arguments from the options and prompt.
//
// claude --output-format stream-json --verbose [options] --print -- <prompt>
func (pm *processManager) BuildCLIArgs() []string {
	args := []string{
		"--output-format", "stream-json",
		"--verbose",
	}

	if pm.opts.Model != "" {
		args = append(args, "--model", pm.opts.Model)
	}

	if pm.opts.PermissionMode != "" {
		args = append(args, "--permission-mode", string(pm.opts.PermissionMode))
	}

	for _, tool := range pm.opts.AllowedTools {
		args = append(args, "--allowed-tools", tool)
	}

	if pm.opts.Resume != "" {
		args = append(args, "--resume", pm.opts.Resume)
	}

	// "--" keeps a prompt starting with "-" from being read as a flag.
	return append(args, "--print", "--", pm.prompt)
}

// Start spawns the CLI. A binary that cannot be found yields
// *CLINotFoundError; a missing working directory is reported as a plain error.
func (pm *processManager) Start(ctx context.Context) error {
	cliPath, err := resolveCLIPath(pm.config.CLIPath)
	if err != nil {
		return err
	}
	pm.cliPath = cliPath

	if dir := pm.opts.WorkDir; dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("working directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("working directory %q is not a directory", dir)
		}
	}

	pm.cmd = exec.CommandContext(ctx, cliPath, pm.BuildCLIArgs()...)
	pm.cmd.Dir = pm.opts.WorkDir

	pm.cmd.Env = append(os.Environ(), entrypointEnv)
	for k, v := range pm.config.Env {
		pm.cmd.Env = append(pm.cmd.Env, k+"="+v)
	}

	procattr.Configure(pm.cmd)
	pm.cmd.Stderr = pm.stderr

	stdout, err := pm.cmd.StdoutPipe()
	if err != nil {
		return &ProcessError{Message: "failed to create stdout pipe", Cause: err}
	}
	pm.reader = ndjson.NewReader(stdout)

	if err := pm.cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return &CLINotFoundError{Path: cliPath, Cause: err}
		}
		return &ProcessError{Message: "failed to start CLI process", Cause: err}
	}

	pm.config.Logger.Debug("claude CLI started", "path", cliPath, "pid", pm.cmd.Process.Pid, "dir", pm.opts.WorkDir)
	return nil
}

// ReadLine reads the next JSON line from stdout.
func (pm *processManager) ReadLine() ([]byte, error) {
	return pm.reader.ReadLine()
}

// Wait reaps the CLI and anything left in its process group. A non-zero
// exit yields *ProcessError carrying the captured stderr.
func (pm *processManager) Wait() error {
	err := pm.cmd.Wait()
	_ = procattr.KillGroup(pm.cmd.Process)

	if err == nil {
		pm.config.Logger.Debug("claude CLI exited", "code", 0)
		return nil
	}

	// A background child of the CLI can keep stderr open after the CLI
	// itself exited cleanly; exec gives up on it after WaitDelay.
	if errors.Is(err, exec.ErrWaitDelay) && pm.cmd.ProcessState != nil && pm.cmd.ProcessState.Success() {
		pm.config.Logger.Debug("claude CLI exited", "code", 0, "note", "output pipes held open by a child")
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		pm.config.Logger.Debug("claude CLI exited", "code", exitErr.ExitCode(), "state", exitErr.String())
		return &ProcessError{
			Message:  "CLI process exited with an error",
			ExitCode: exitErr.ExitCode(),
			Stderr:   pm.stderr.String(),
			Cause:    err,
		}
	}
	return &ProcessError{
		Message: "failed waiting for CLI process",
		Stderr:  pm.stderr.String(),
		Cause:   err,
	}
}

// resolveCLIPath finds the CLI binary: the configured path as is, else
// "claude" in PATH, else the locations the installers use.
func resolveCLIPath(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	path, err := exec.LookPath("claude")
	if err == nil {
		return path, nil
	}

	if home, herr := os.UserHomeDir(); herr == nil {
		candidates := []string{
			filepath.Join(home, ".claude", "local", "claude"),
			filepath.Join(home, ".local", "bin", "claude"),
			filepath.Join(home, ".npm-global", "bin", "claude"),
			filepath.Join(home, "node_modules", ".bin", "claude"),
			"/usr/local/bin/claude",
		}
		for _, c := range candidates {
			if info, serr := os.Stat(c); serr == nil && !info.IsDir() {
				return c, nil
			}
		}
	}

	return "", &CLINotFoundError{Path: "claude", Cause: err}
}

// stderrTail keeps the last limit bytes of the CLI's stderr and forwards
// each chunk to the debug log.
type stderrTail struct {
	logger *slog.Logger
	buf    []byte
	limit  int
	mu     sync.Mutex
}

func (t *stderrTail) Write(p []byte) (int, error) {
	if t.logger != nil {
		t.logger.Debug("claude CLI stderr", "data", strings.TrimRight(string(p), "\n"))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if t.limit > 0 && len(t.buf) > t.limit {
		t.buf = append([]byte(nil), t.buf[len(t.buf)-t.limit:]...)
	}
	return len(p), nil
}

// String returns the captured stderr without surrounding whitespace.
func (t *stderrTail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(string(t.buf))
}
