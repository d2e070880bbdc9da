package core

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/josephlewis42/liteshell/core/shell"
	"github.com/pborman/getopt/v2"
)

// ErrMissingOperand is reported when cd isn't given a directory.
var ErrMissingOperand = errors.New("missing directory operand")

// Match controls which lines a builtin handles.
type Match int

const (
	// MatchLine handles lines equal to the builtin's name, ignoring trailing
	// whitespace.
	MatchLine Match = iota
	// MatchFirstToken handles lines whose first token is the builtin's name.
	MatchFirstToken
)

func (m Match) String() string {
	switch m {
	case MatchLine:
		return "line"
	case MatchFirstToken:
		return "first-token"
	default:
		return fmt.Sprintf("Match(%d)", int(m))
	}
}

type ShellBuiltin interface {
	Main(s *Shell, args shell.Argv) int
}

type ShellBuiltinFunc func(s *Shell, args shell.Argv) int

func (f ShellBuiltinFunc) Main(s *Shell, args shell.Argv) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// Builtin is a command the shell runs itself.
type Builtin struct {
	Name  string
	Match Match
	Short string

	ShellBuiltin
}

// Matches returns true if the builtin handles the line.
func (b *Builtin) Matches(line string, args shell.Argv) bool {
	switch b.Match {
	case MatchLine:
		return strings.TrimRightFunc(line, unicode.IsSpace) == b.Name
	case MatchFirstToken:
		return args.Name() == b.Name
	default:
		return false
	}
}

// AllBuiltins holds the shell builtins in the order they're matched.
var AllBuiltins = []*Builtin{
	{Name: "history", Match: MatchLine, Short: "Print each command with the pid that ran it.", ShellBuiltin: ShellBuiltinFunc(History)},
	{Name: "exit", Match: MatchLine, Short: "Exit the shell with status 0.", ShellBuiltin: ShellBuiltinFunc(Exit)},
	{Name: "cd", Match: MatchFirstToken, Short: "Change the working directory.", ShellBuiltin: ShellBuiltinFunc(Cd)},
}

// LookupBuiltin finds the first builtin that handles the line.
func LookupBuiltin(line string, args shell.Argv) (*Builtin, bool) {
	for _, builtin := range AllBuiltins {
		if builtin.Matches(line, args) {
			return builtin, true
		}
	}
	return nil, false
}

// History prints the history ledger.
func History(s *Shell, args shell.Argv) int {
	if err := s.History.Write(s.Files.Stdout()); err != nil {
		s.report(args.Name(), err)
		return 1
	}
	return 0
}

// Exit quits the shell
func Exit(s *Shell, args shell.Argv) int {
	s.exited = true
	return 0
}

// Cd is the cd shell builtin
func Cd(s *Shell, args shell.Argv) int {
	opts := getopt.New()
	opts.SetParameters("DIR")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.Files.Stderr()
		if err != nil {
			s.report(args.Name(), err)
		}
		opts.PrintUsage(w)
		fmt.Fprintln(w, "Change the shell working directory to DIR.")
		return 1
	}

	switch dirs := opts.Args(); len(dirs) {
	case 0:
		s.report(args.Name(), ErrMissingOperand)
		opts.PrintUsage(s.Files.Stderr())
		return 1
	case 1:
		if err := s.VirtualOS.Chdir(dirs[0]); err != nil {
			s.report(args.Name(), err)
			return 1
		}
		return 0
	default:
		s.report(args.Name(), shell.ErrTooManyArguments)
		return 1
	}
}
