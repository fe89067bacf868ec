package procutil

import (
	"os/exec"
	"testing"
)

func TestCmdExitCode(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	for name, tc := range map[string]struct {
		cmd  *exec.Cmd
		want int
	}{
		"success":        {cmd: exec.Command("sh", "-c", "exit 0"), want: 0},
		"failure":        {cmd: exec.Command("sh", "-c", "exit 3"), want: 3},
		"not executable": {cmd: exec.Command("/nonexistent/python3"), want: -1},
	} {
		t.Run(name, func(t *testing.T) {
			err := tc.cmd.Run()
			if got := CmdExitCode(tc.cmd, err); got != tc.want {
				t.Errorf("exit code: want %d, got %d (err=%v)", tc.want, got, err)
			}
		})
	}
}
