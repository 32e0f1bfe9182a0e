//go:build !windows

package executor

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the child in its own process group so the whole
// group can be signaled together on cancellation (§4.8 step 2).
func setProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// terminateGroup sends a polite termination signal to the whole process
// group (§4.8 step 3).
func terminateGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
}

// killGroup force-kills the whole process group (§4.8 step 4).
func killGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
