package printer

import (
	"errors"
	"slices"

	"github.com/bazelment/claude-cli/claude"
)

// Model is the model every query runs on.
const Model = "claude-opus-4-5-20251101"

// PermissionMode lets the agent edit files without asking.
const PermissionMode = claude.PermissionModeAcceptEdits

// allowedTools is passed to the CLI in this order.
var allowedTools = []string{
	"Read",
	"Write",
	"Edit",
	"Bash",
	"Glob",
	"Grep",
	"NotebookEdit",
	"WebFetch",
	"WebSearch",
	"TodoWrite",
	"Task",
	"ExitPlanMode",
	"EnterPlanMode",
	"ListMcpResources",
	"ReadMcpResource",
	"KillShell",
	"TaskOutput",
	"Skill",
}

// ErrEmptyPrompt is returned by NewConfig when there is nothing to send.
var ErrEmptyPrompt = errors.New("prompt is required")

// AllowedTools returns a copy of the fixed tool allow-list.
func AllowedTools() []string {
	return slices.Clone(allowedTools)
}

// Config is the validated record of one invocation. Build it with
// NewConfig; it is not modified afterwards.
type Config struct {
	Prompt         string
	WorkDir        string
	Resume         string
	Model          string
	PermissionMode claude.PermissionMode
	AllowedTools   []string
	Verbose        bool
}

// NewConfig fills in the fixed model, tools and permission mode. The
// working directory is taken as given; a bad one surfaces when the query
// starts.
func NewConfig(prompt, workDir string, verbose bool, resume string) (Config, error) {
	if prompt == "" {
		return Config{}, ErrEmptyPrompt
	}
	return Config{
		Prompt:         prompt,
		WorkDir:        workDir,
		Resume:         resume,
		Model:          Model,
		PermissionMode: PermissionMode,
		AllowedTools:   AllowedTools(),
		Verbose:        verbose,
	}, nil
}

// Options converts the config into per-query driver options.
func (c Config) Options() claude.Options {
	return claude.Options{
		Model:          c.Model,
		PermissionMode: c.PermissionMode,
		WorkDir:        c.WorkDir,
		Resume:         c.Resume,
		AllowedTools:   slices.Clone(c.AllowedTools),
	}
}
