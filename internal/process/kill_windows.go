//go:build windows

package process

import (
	"fmt"
	"os/exec"
	"strconv"
)

// KillTree force-kills pid and its children with taskkill.
func KillTree(pid int) error {
	if pid <= 0 {
		return ErrInvalidPID
	}
	out, err := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).CombinedOutput()
	if err != nil {
		// taskkill exits 128 when the process is already gone.
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 128 {
			return nil
		}
		return fmt.Errorf("taskkill %d: %w: %s", pid, err, out)
	}
	return nil
}
