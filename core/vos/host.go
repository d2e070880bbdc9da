package vos

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// execChildEnv marks a process started by HostOS.StartProcess, it must exec
// its arguments rather than run as a shell.
const execChildEnv = "LITESHELL_EXEC_CHILD"

// ErrNoProgram is returned when starting a process without a program name.
var ErrNoProgram = errors.New("no program given")

// IsExecChild returns true if the running process was started by
// HostOS.StartProcess and should call ExecChild.
func IsExecChild() bool {
	return os.Getenv(execChildEnv) == "1"
}

// HostOS implements VOS over the real operating system.
type HostOS struct {
	HostEnv
}

var _ VOS = (*HostOS)(nil)

// NewHostOS creates a VOS backed by the running process.
func NewHostOS() *HostOS {
	return &HostOS{}
}

// Getpid implements VProc.Getpid.
func (*HostOS) Getpid() int {
	return os.Getpid()
}

// Getwd implements VProc.Getwd.
func (*HostOS) Getwd() (string, error) {
	return os.Getwd()
}

// Chdir implements VProc.Chdir.
func (*HostOS) Chdir(dir string) error {
	return os.Chdir(dir)
}

// StartProcess implements VSpawn.StartProcess.
//
// The child is a copy of the running executable that resolves argv[0] through
// the search path and replaces itself with the program, keeping its process
// id. That way a missing program is reported by the child, the same way a
// fork followed by an exec would behave.
func (*HostOS) StartProcess(argv []string, attr *ProcAttr) (Process, error) {
	if len(argv) == 0 {
		return nil, ErrNoProgram
	}
	if attr == nil {
		attr = &ProcAttr{}
	}
	files := attr.Files
	if files == nil {
		files = NewNullIO()
	}

	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locating executable: %w", err)
	}

	cmd := exec.Command(self, argv...)
	cmd.Env = append(os.Environ(), execChildEnv+"=1")
	cmd.Stdin = files.Stdin()
	cmd.Stdout = files.Stdout()
	cmd.Stderr = files.Stderr()

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &hostProcess{cmd: cmd}, nil
}

type hostProcess struct {
	cmd *exec.Cmd
}

func (p *hostProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *hostProcess) Wait() (int, error) {
	err := p.cmd.Wait()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	default:
		return -1, err
	}
}
