//go:build !windows

package process

import (
	"errors"
	"syscall"
)

// KillTree sends SIGKILL to the process group led by pid. The browser
// launcher starts Chrome as a group leader, so renderer and GPU helpers go
// with it. A group that is already gone is not an error.
func KillTree(pid int) error {
	// pid 0 or below would signal our own group or every process.
	if pid <= 0 {
		return ErrInvalidPID
	}
	err := syscall.Kill(-pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}
