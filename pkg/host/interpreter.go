package host

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/stackb/pyimports/pkg/importfs"
	"github.com/stackb/pyimports/pkg/procutil"
)

const (
	// DefaultInterpreter is run when no interpreter path is configured.
	DefaultInterpreter = "python3"
	// DefaultTimeout bounds one interpreter invocation.
	DefaultTimeout = 10 * time.Second

	printSysPath = "import json, sys; json.dump(sys.path, sys.stdout)"
)

// Interpreter asks a Python interpreter for its sys.path. Entries that are
// not existing directories (the script directory, zip files) are dropped.
type Interpreter struct {
	FS      importfs.FileSystem
	Logger  zerolog.Logger
	Timeout time.Duration
}

// PythonSearchPaths implements PathProvider. pythonPath names the
// interpreter; DefaultInterpreter is used when it is empty.
func (h *Interpreter) PythonSearchPaths(pythonPath string) ([]string, error) {
	if pythonPath == "" {
		pythonPath = DefaultInterpreter
	}
	timeout := h.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	fsys := h.FS
	if fsys == nil {
		fsys = importfs.NewOSFileSystem()
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	// -I keeps the user site and PYTHONPATH out of the answer
	cmd := exec.CommandContext(ctx, pythonPath, "-I", "-c", printSysPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if exitCode := procutil.CmdExitCode(cmd, err); exitCode != 0 {
		return nil, fmt.Errorf("%s exited %d: %v: %s", pythonPath, exitCode, err, stderr.String())
	}

	var sysPath []string
	if err := json.Unmarshal(stdout.Bytes(), &sysPath); err != nil {
		return nil, fmt.Errorf("parsing %s sys.path: %w", pythonPath, err)
	}

	var paths []string
	for _, p := range sysPath {
		if p == "" || !importfs.IsDirectory(fsys, p) {
			continue
		}
		paths = append(paths, p)
	}
	h.Logger.Debug().Str("interpreter", pythonPath).Strs("paths", paths).Msg("python search paths")
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", pythonPath, ErrNoSearchPaths)
	}
	return paths, nil
}
