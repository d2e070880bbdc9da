// Package shell splits command lines into argument vectors.
package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anmitsu/go-shlex"
)

// MaxArgs is the most arguments a single command line may hold.
const MaxArgs = 99

var (
	// ErrTooManyArguments is returned when a line holds more than MaxArgs tokens.
	ErrTooManyArguments = errors.New("too many arguments")
	// ErrSyntax is returned when a quoted line can't be split.
	ErrSyntax = errors.New("syntax error")
)

// Argv is the argument vector of one command, Argv[0] names the program.
type Argv []string

// Arg returns the i'th argument, ok is false past the last argument.
func (a Argv) Arg(i int) (arg string, ok bool) {
	if i < 0 || i >= len(a) {
		return "", false
	}
	return a[i], true
}

// Name returns the program name or the empty string if there are no
// arguments.
func (a Argv) Name() string {
	name, _ := a.Arg(0)
	return name
}

// Empty returns true if the line held no tokens.
func (a Argv) Empty() bool {
	return len(a) == 0
}

func (a Argv) String() string {
	return strings.Join(a, " ")
}

// Tokenizer splits lines into argument vectors.
type Tokenizer struct {
	// Quoting enables POSIX style quotes and escapes. When false, lines are
	// split on whitespace only.
	Quoting bool
}

// Tokenize splits line into tokens. Runs of whitespace collapse; blank lines
// produce an empty Argv and no error.
func (t Tokenizer) Tokenize(line string) (Argv, error) {
	var tokens []string
	if t.Quoting {
		var err error
		tokens, err = shlex.Split(line, true)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
	} else {
		tokens = strings.Fields(line)
	}

	if len(tokens) > MaxArgs {
		return nil, ErrTooManyArguments
	}
	return Argv(tokens), nil
}

// Tokenize splits line on whitespace.
func Tokenize(line string) (Argv, error) {
	return Tokenizer{}.Tokenize(line)
}
