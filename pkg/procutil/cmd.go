package procutil

import (
	"errors"
	"os/exec"
)

// CmdExitCode returns the exit status of a command that has been run. It is
// -1 when the command could not be started (for example, the executable is
// not in $PATH) or was killed by a signal.
func CmdExitCode(cmd *exec.Cmd, err error) int {
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.ExitCode()
	case err != nil:
		return -1
	case cmd.ProcessState != nil:
		return cmd.ProcessState.ExitCode()
	}
	return -1
}
