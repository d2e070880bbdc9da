// Package vostest provides deterministic fakes of the vos interfaces.
package vostest

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/josephlewis42/liteshell/core/vos"
)

// ShellPID is the process id of the fake shell.
const ShellPID = 4507

// Program is a fake executable, it returns the exit status of the process.
type Program func(argv []string, files vos.VIO) int

// FakeOS is a deterministic in-memory vos.VOS.
type FakeOS struct {
	*vos.MapEnv

	// PID of the calling process.
	PID int
	// Dir is the current working directory.
	Dir string
	// Dirs holds the directories Chdir accepts.
	Dirs map[string]bool
	// Programs maps names to fake executables.
	Programs map[string]Program

	// StartErr, if set, is returned by the next StartProcess call.
	StartErr error
	// WaitErr, if set, is returned by the next Wait call.
	WaitErr error

	// Spawned holds the argv of every started process.
	Spawned [][]string
	// Chdirs holds the directory of every successful Chdir call.
	Chdirs []string

	nextPID int
}

var _ vos.VOS = (*FakeOS)(nil)

// NewFakeOS creates a FakeOS rooted at "/" with an empty environment.
func NewFakeOS() *FakeOS {
	return &FakeOS{
		MapEnv:   vos.NewMapEnv(),
		PID:      ShellPID,
		Dir:      "/",
		Dirs:     map[string]bool{"/": true, "/tmp": true},
		Programs: make(map[string]Program),
		nextPID:  ShellPID,
	}
}

// NextPID returns the process id the next started process will get.
func (f *FakeOS) NextPID() int {
	return f.nextPID + 1
}

// Getpid implements vos.VProc.Getpid.
func (f *FakeOS) Getpid() int {
	return f.PID
}

// Getwd implements vos.VProc.Getwd.
func (f *FakeOS) Getwd() (string, error) {
	return f.Dir, nil
}

// Chdir implements vos.VProc.Chdir.
func (f *FakeOS) Chdir(dir string) error {
	if !path.IsAbs(dir) {
		dir = path.Join(f.Dir, dir)
	}
	dir = path.Clean(dir)

	if !f.Dirs[dir] {
		return &fs.PathError{Op: "chdir", Path: dir, Err: fs.ErrNotExist}
	}
	f.Dir = dir
	f.Chdirs = append(f.Chdirs, dir)
	return nil
}

// StartProcess implements vos.VSpawn.StartProcess.
func (f *FakeOS) StartProcess(argv []string, attr *vos.ProcAttr) (vos.Process, error) {
	if err := f.StartErr; err != nil {
		f.StartErr = nil
		return nil, err
	}
	if len(argv) == 0 {
		return nil, vos.ErrNoProgram
	}

	files := vos.NewNullIO()
	if attr != nil && attr.Files != nil {
		files = attr.Files
	}

	f.nextPID++
	f.Spawned = append(f.Spawned, append([]string(nil), argv...))

	proc := &fakeProcess{pid: f.nextPID, os: f}
	program, ok := f.Programs[path.Base(argv[0])]
	if !ok {
		fmt.Fprintf(files.Stderr(), "liteshell: exec: %q: executable file not found in $PATH\n", argv[0])
		proc.status = 1
		return proc, nil
	}

	proc.status = program(argv, files)
	return proc, nil
}

type fakeProcess struct {
	pid    int
	status int
	os     *FakeOS
}

func (p *fakeProcess) Pid() int {
	return p.pid
}

func (p *fakeProcess) Wait() (int, error) {
	if err := p.os.WaitErr; err != nil {
		p.os.WaitErr = nil
		return -1, err
	}
	return p.status, nil
}

// Echo is a Program that prints its arguments.
func Echo(argv []string, files vos.VIO) int {
	for i, arg := range argv[1:] {
		if i > 0 {
			fmt.Fprint(files.Stdout(), " ")
		}
		fmt.Fprint(files.Stdout(), arg)
	}
	fmt.Fprintln(files.Stdout())
	return 0
}

// Exit returns a Program that exits with status.
func Exit(status int) Program {
	return func([]string, vos.VIO) int {
		return status
	}
}
