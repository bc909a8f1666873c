package tools

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var ErrExecutableNotOnPath = errors.New("tools: executable not found on PATH")

// ExecutableName returns the bare program name the session server should
// use to relaunch this process. argv0 may be a path; only its base name is
// kept, and that name must resolve through $PATH.
func ExecutableName(argv0 string) (string, error) {
	name := filepath.Base(strings.TrimSpace(argv0))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("%w: empty executable name from %q", ErrExecutableNotOnPath, argv0)
	}
	resolved, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q (PATH=%q): %v", ErrExecutableNotOnPath, name, os.Getenv("PATH"), err)
	}
	if filepath.Base(resolved) != name {
		return "", fmt.Errorf("%w: %q resolved to %q", ErrExecutableNotOnPath, name, resolved)
	}
	return name, nil
}

// CurrentExecutableName is ExecutableName(os.Args[0]).
func CurrentExecutableName() (string, error) {
	if len(os.Args) == 0 {
		return "", fmt.Errorf("%w: no argv[0]", ErrExecutableNotOnPath)
	}
	return ExecutableName(os.Args[0])
}
