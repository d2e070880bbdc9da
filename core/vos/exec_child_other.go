//go:build !unix

package vos

import (
	"fmt"
	"io"
	"runtime"
)

// ExecChild reports that replacing the process image isn't supported.
func ExecChild(argv []string, stderr io.Writer) int {
	fmt.Fprintf(stderr, "liteshell: exec isn't supported on %s\n", runtime.GOOS)
	return 1
}
