package tools

import (
	"os"

	"golang.org/x/sys/unix"
)

// KillSelf delivers SIGKILL to the current process. It returns only if the
// signal could not be sent.
func KillSelf() error {
	return unix.Kill(os.Getpid(), unix.SIGKILL)
}

// TerminateSelf delivers SIGTERM to the current process, the same signal a
// session server uses to stop a client.
func TerminateSelf() error {
	return unix.Kill(os.Getpid(), unix.SIGTERM)
}
