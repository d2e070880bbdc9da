// Package core runs the interactive command loop.
package core

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/josephlewis42/liteshell/core/config"
	"github.com/josephlewis42/liteshell/core/history"
	"github.com/josephlewis42/liteshell/core/logger"
	"github.com/josephlewis42/liteshell/core/shell"
	"github.com/josephlewis42/liteshell/core/vos"
)

const (
	// StatusExit is returned by Run when the exit builtin ends the shell.
	StatusExit = 0
	// StatusInputClosed is returned by Run when input runs out.
	StatusInputClosed = 1
)

// ErrLineTooLong is reported for lines over the configured limit.
var ErrLineTooLong = errors.New("line too long")

// Shell reads command lines, runs builtins itself and everything else as a
// child process, one at a time.
type Shell struct {
	VirtualOS vos.VOS
	Files     vos.VIO
	Input     LineReader
	History   *history.Ledger
	Tokenizer shell.Tokenizer
	Events    *logger.SessionLogger
	Color     *ColorPrinter

	// MaxLineLength is the longest line in bytes that will be run.
	MaxLineLength int

	// Now is the clock used to time child processes.
	Now func() time.Time

	exited bool
}

// NewShell creates a shell from the configuration. Events are dropped until
// Events is set.
func NewShell(virtOS vos.VOS, files vos.VIO, input LineReader, cfg *config.Configuration) (*Shell, error) {
	overflow, err := history.ParseOverflow(cfg.HistoryOverflow)
	if err != nil {
		return nil, err
	}

	return &Shell{
		VirtualOS:     virtOS,
		Files:         files,
		Input:         input,
		History:       history.NewLedger(cfg.HistoryCapacity, cfg.MaxCommandLength, overflow),
		Tokenizer:     shell.Tokenizer{Quoting: cfg.PosixQuoting},
		Events:        logger.NewNopLogger().Sessionless(),
		Color:         &ColorPrinter{Mode: cfg.Color},
		MaxLineLength: cfg.MaxLineLength,
		Now:           time.Now,
	}, nil
}

// Run reads and runs commands until the exit builtin or the end of input and
// returns the shell's exit status.
func (s *Shell) Run() int {
	s.record(&logger.LogEntry{Type: logger.EventSessionStart, PID: s.VirtualOS.Getpid()})

	for {
		line, err := s.Input.ReadLine()
		switch {
		case err == io.EOF:
			fmt.Fprintln(s.Files.Stdout())
			return StatusInputClosed // Input closed, quit.

		case err != nil:
			s.report("read", err)
			return StatusInputClosed

		case len(line) == 0:
			continue // empty line

		case s.MaxLineLength > 0 && len(line) > s.MaxLineLength:
			err := fmt.Errorf("%w: %d bytes, limit is %d", ErrLineTooLong, len(line), s.MaxLineLength)
			s.report("read", err)
			s.record(&logger.LogEntry{Type: logger.EventLineTooLong, Error: err.Error()})
			continue
		}

		s.Execute(line)
		if s.exited {
			return StatusExit
		}
	}
}

// Execute records and runs a single line.
func (s *Shell) Execute(line string) {
	pending, err := s.History.Append(line)
	if err != nil {
		s.report("history", err)
		return
	}

	args, err := s.Tokenizer.Tokenize(line)
	if err != nil {
		s.discard(pending)
		s.report("parse", err)
		s.record(&logger.LogEntry{Type: logger.EventSyntaxError, Error: err.Error()})
		return
	}
	if args.Empty() {
		s.discard(pending)
		return
	}

	if builtin, ok := LookupBuiltin(line, args); ok {
		s.runBuiltin(pending, builtin, args)
		return
	}

	s.runExternal(pending, args)
}

func (s *Shell) runBuiltin(pending *history.Pending, builtin *Builtin, args shell.Argv) {
	pid := s.VirtualOS.Getpid()
	s.finalize(pending, pid)

	status := builtin.Main(s, args)
	s.record(&logger.LogEntry{
		Type:       logger.EventBuiltin,
		PID:        pid,
		Command:    args,
		Dir:        s.getwd(),
		ExitStatus: logger.Status(status),
	})
}

func (s *Shell) runExternal(pending *history.Pending, args shell.Argv) {
	dir := s.getwd()
	start := s.Now()

	proc, err := s.VirtualOS.StartProcess(args, &vos.ProcAttr{Files: s.Files})
	if err != nil {
		s.discard(pending)
		s.report(args.Name(), err)
		s.record(&logger.LogEntry{Type: logger.EventSpawnError, Command: args, Dir: dir, Error: err.Error()})
		return
	}

	pid := proc.Pid()
	s.finalize(pending, pid)

	status, err := proc.Wait()
	if err != nil {
		s.report("wait", err)
		s.record(&logger.LogEntry{Type: logger.EventWaitError, PID: pid, Command: args, Dir: dir, Error: err.Error()})
		return
	}

	s.record(&logger.LogEntry{
		Type:       logger.EventRunCommand,
		PID:        pid,
		Command:    args,
		Dir:        dir,
		ExitStatus: logger.Status(status),
		DurationMs: s.Now().Sub(start).Milliseconds(),
	})
}

func (s *Shell) finalize(pending *history.Pending, pid int) {
	if err := pending.Finalize(pid); err != nil {
		s.report("history", err)
	}
}

func (s *Shell) discard(pending *history.Pending) {
	if err := pending.Discard(); err != nil {
		s.report("history", err)
	}
}

func (s *Shell) getwd() string {
	dir, _ := s.VirtualOS.Getwd()
	return dir
}

// report prints an error to the shell's stderr.
func (s *Shell) report(context string, err error) {
	fmt.Fprintln(s.Files.Stderr(), s.Color.Sprintf(errorColor, "liteshell: %s: %v", context, err))
}

func (s *Shell) record(event *logger.LogEntry) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Record(event); err != nil {
		s.report("event log", err)
	}
}
