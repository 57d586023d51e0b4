package claude

import "log/slog"

// PermissionMode controls tool execution approval.
type PermissionMode string

const (
	// PermissionModeDefault prompts the user for each dangerous operation.
	PermissionModeDefault PermissionMode = "default"
	// PermissionModeAcceptEdits auto-approves file modifications.
	PermissionModeAcceptEdits PermissionMode = "acceptEdits"
	// PermissionModePlan reviews plan before execution.
	PermissionModePlan PermissionMode = "plan"
	// PermissionModeBypass auto-approves all tools (use with caution).
	PermissionModeBypass PermissionMode = "bypassPermissions"
)

// Options is the per-query record handed to the CLI. Empty fields are left
// to the CLI's own defaults.
type Options struct {
	// Model is the model identifier, e.g. "claude-opus-4-5-20251101".
	Model string

	// PermissionMode controls tool execution approval.
	PermissionMode PermissionMode

	// WorkDir is the working directory of the CLI process.
	WorkDir string

	// Resume is the session ID to continue instead of starting a new one.
	Resume string

	// AllowedTools are passed in order, one --allowed-tools flag each.
	AllowedTools []string
}

// clientConfig holds process-level settings shared by every query.
type clientConfig struct {
	Logger      *slog.Logger
	Env         map[string]string
	CLIPath     string
	StderrLimit int
	BufferSize  int
}

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*clientConfig)

// WithCLIPath sets a custom CLI binary path. By default "claude" is looked
// up in PATH and then in the usual install locations.
func WithCLIPath(path string) ClientOption {
	return func(c *clientConfig) {
		c.CLIPath = path
	}
}

// WithEnv sets additional environment variables for the CLI process.
func WithEnv(env map[string]string) ClientOption {
	return func(c *clientConfig) {
		c.Env = env
	}
}

// WithStderrLimit bounds how many trailing bytes of CLI stderr are kept for
// ProcessError.
func WithStderrLimit(n int) ClientOption {
	return func(c *clientConfig) {
		c.StderrLimit = n
	}
}

// WithLogger sets the logger used for debug output about the subprocess.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.Logger = l
	}
}

func defaultClientConfig() clientConfig {
	return clientConfig{
		StderrLimit: 64 * 1024,
		BufferSize:  100,
	}
}
