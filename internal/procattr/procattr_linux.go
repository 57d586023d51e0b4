//go:build linux

package procattr

import "syscall"

// On Linux the child also gets SIGTERM if this process dies without
// cleaning up (OOM kill, SIGKILL).
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}
