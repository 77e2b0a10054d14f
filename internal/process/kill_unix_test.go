//go:build !windows

package process

import (
	"os/exec"
	"syscall"
	"testing"
	"time"
)

func TestKillTree_MissingGroupIsNotAnError(t *testing.T) {
	t.Parallel()

	// Above the Linux pid_max ceiling, so no such group exists.
	if err := KillTree(999999999); err != nil {
		t.Errorf("KillTree(missing) = %v, want nil", err)
	}
}

func TestKillTree_KillsGroupMembers(t *testing.T) {
	t.Parallel()

	// A shell leading its own group with a background child, as Chrome does
	// with its helpers.
	cmd := exec.Command("sh", "-c", "sleep 30 & wait")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start sh: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	if err := KillTree(cmd.Process.Pid); err != nil {
		t.Fatalf("KillTree: %v", err)
	}

	select {
	case err := <-done:
		if err == nil {
			t.Error("process exited cleanly, want killed")
		}
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatal("process group still running after KillTree")
	}
}
