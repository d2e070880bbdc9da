//go:build unix

package vos

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
)

// ExecChild replaces the running process with the program named by argv[0],
// found through the search path. It only returns on failure, after reporting
// the error to stderr, with the status the process should exit with.
func ExecChild(argv []string, stderr io.Writer) int {
	if err := (HostEnv{}).Unsetenv(execChildEnv); err != nil {
		fmt.Fprintf(stderr, "liteshell: %v\n", err)
		return 1
	}

	if len(argv) == 0 {
		fmt.Fprintf(stderr, "liteshell: %v\n", ErrNoProgram)
		return 1
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		fmt.Fprintf(stderr, "liteshell: %v\n", err)
		return 1
	}

	err = syscall.Exec(path, argv, os.Environ())
	fmt.Fprintf(stderr, "liteshell: %s: %v\n", argv[0], err)
	return 1
}
