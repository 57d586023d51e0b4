package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazelment/claude-cli/claude"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig("hello", "/tmp/work", true, "sess-1")
	require.NoError(t, err)

	assert.Equal(t, "hello", cfg.Prompt)
	assert.Equal(t, "/tmp/work", cfg.WorkDir)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "sess-1", cfg.Resume)
	assert.Equal(t, "claude-opus-4-5-20251101", cfg.Model)
	assert.Equal(t, claude.PermissionModeAcceptEdits, cfg.PermissionMode)
	assert.Equal(t, []string{
		"Read", "Write", "Edit", "Bash", "Glob", "Grep", "NotebookEdit",
		"WebFetch", "WebSearch", "TodoWrite", "Task", "ExitPlanMode",
		"EnterPlanMode", "ListMcpResources", "ReadMcpResource", "KillShell",
		"TaskOutput", "Skill",
	}, cfg.AllowedTools)
}

func TestNewConfig_EmptyPrompt(t *testing.T) {
	t.Parallel()

	_, err := NewConfig("", "/tmp", false, "")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestConfig_ListsAreCopies(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig("p", "", false, "")
	require.NoError(t, err)

	opts := cfg.Options()
	opts.AllowedTools[0] = "Changed"
	cfg.AllowedTools[1] = "Changed"

	assert.Equal(t, "Read", AllowedTools()[0])
	assert.Equal(t, "Write", AllowedTools()[1])
	assert.Equal(t, "Read", cfg.AllowedTools[0])
}
