package procattr

import (
	"context"
	"os"
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_SetsProcessGroup(t *testing.T) {
	t.Parallel()
	cmd := exec.CommandContext(context.Background(), "echo", "test")
	require.Nil(t, cmd.SysProcAttr)

	Configure(cmd)

	require.NotNil(t, cmd.SysProcAttr)
	assert.True(t, cmd.SysProcAttr.Setpgid)
	assert.NotNil(t, cmd.Cancel)
	assert.Equal(t, GracePeriod, cmd.WaitDelay)
}

func TestSignalGroup_NilProcess(t *testing.T) {
	t.Parallel()
	assert.NoError(t, SignalGroup(nil, syscall.SIGTERM))
	assert.NoError(t, KillGroup(nil))
}

func TestSignalGroup_ExitedProcess(t *testing.T) {
	t.Parallel()
	cmd := exec.CommandContext(context.Background(), "true")
	Configure(cmd)
	require.NoError(t, cmd.Run())

	assert.ErrorIs(t, SignalGroup(cmd.Process, syscall.SIGTERM), os.ErrProcessDone)
}

func TestConfigure_CancelStopsGroup(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, "sleep", "60")
	Configure(cmd)
	require.NoError(t, cmd.Start())

	start := time.Now()
	cancel()
	err := cmd.Wait()

	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
