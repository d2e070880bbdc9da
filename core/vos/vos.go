package vos

// VProc holds the identity and working directory of the current process.
type VProc interface {
	// Getpid returns the process id of the caller.
	Getpid() int

	// Getwd returns a rooted path name corresponding to the current directory.
	Getwd() (dir string, err error)

	// Chdir changes the current working directory to the named directory.
	Chdir(dir string) error
}

// VSpawn creates child processes.
type VSpawn interface {
	// StartProcess starts a child running the program named by argv[0],
	// resolved through the search path inside the child. Resolution failures
	// are reported by the child on its stderr and surface as a non-zero exit
	// status from Wait, not as an error here.
	StartProcess(argv []string, attr *ProcAttr) (Process, error)
}

// Process is a started child process.
type Process interface {
	// Pid returns the process id of the child.
	Pid() int

	// Wait blocks until the child exits and returns its exit status. Errors
	// are reserved for failures to wait, a non-zero status isn't one.
	Wait() (status int, err error)
}

// ProcAttr holds the attributes of a new process.
type ProcAttr struct {
	// Files specifies the standard streams inherited by the new process.
	// If nil, the process reads nothing and its output is discarded.
	Files VIO
}

// VOS provides the operating system capabilities the shell depends on.
type VOS interface {
	VEnv
	VProc
	VSpawn
}
