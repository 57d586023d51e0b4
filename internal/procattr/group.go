// Package procattr runs a child CLI in its own process group so that the
// child and everything it spawns can be stopped together.
package procattr

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// GracePeriod is the time a process group gets between SIGTERM and SIGKILL.
const GracePeriod = 500 * time.Millisecond

// Configure places cmd in a new process group. cmd must come from
// exec.CommandContext: when the context is done the group receives SIGTERM,
// and exec kills the leader if it is still running after GracePeriod.
func Configure(cmd *exec.Cmd) {
	cmd.SysProcAttr = sysProcAttr()
	cmd.Cancel = func() error {
		return SignalGroup(cmd.Process, syscall.SIGTERM)
	}
	cmd.WaitDelay = GracePeriod
}

// SignalGroup delivers sig to every process in p's group.
// A group that has already exited reports os.ErrProcessDone.
func SignalGroup(p *os.Process, sig syscall.Signal) error {
	if p == nil {
		return nil
	}
	err := syscall.Kill(-p.Pid, sig)
	if errors.Is(err, syscall.ESRCH) {
		return os.ErrProcessDone
	}
	return err
}

// KillGroup sends SIGKILL to p's group. It is used after Wait returns to
// reap grandchildren that ignored SIGTERM.
func KillGroup(p *os.Process) error {
	return SignalGroup(p, syscall.SIGKILL)
}
