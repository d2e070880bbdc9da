// Package history records which process serviced each command the shell
// accepted.
package history

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"unicode/utf8"
)

var (
	// ErrPending is returned by Append while the previous entry is unresolved.
	ErrPending = errors.New("history: previous entry is still pending")
	// ErrNotLatest is returned when resolving an entry that isn't the most
	// recently appended one.
	ErrNotLatest = errors.New("history: entry is not the latest")
	// ErrResolved is returned when resolving an entry twice.
	ErrResolved = errors.New("history: entry already resolved")
)

// Overflow decides what happens when a full ledger receives a new entry.
type Overflow int

const (
	// Evict drops the oldest entry to make room.
	Evict Overflow = iota
	// Reject silently stops recording new entries.
	Reject
)

// ParseOverflow converts a configuration value into an Overflow.
func ParseOverflow(name string) (Overflow, error) {
	switch name {
	case "evict":
		return Evict, nil
	case "reject":
		return Reject, nil
	default:
		return Evict, fmt.Errorf("history: unknown overflow policy %q", name)
	}
}

// Entry is a finalized history record.
type Entry struct {
	// Seq numbers entries from 1 in finalization order, gaps mark evictions.
	Seq int
	// PID of the process that handled the command.
	PID int
	// Command holds the (possibly truncated) line the user entered.
	Command string
}

func (e Entry) String() string {
	return fmt.Sprintf("%d %s", e.PID, e.Command)
}

type pendingState int

const (
	statePending pendingState = iota
	stateFinalized
	stateDiscarded
)

// Pending is an appended entry that has no process assigned yet.
type Pending struct {
	ledger  *Ledger
	command string
	state   pendingState
}

// Command returns the truncated command text of the entry.
func (p *Pending) Command() string {
	return p.command
}

// Finalize assigns the process that serviced the command, making the entry
// visible.
func (p *Pending) Finalize(pid int) error {
	if err := p.ledger.resolve(p); err != nil {
		return err
	}
	p.state = stateFinalized
	p.ledger.push(Entry{PID: pid, Command: p.command})
	return nil
}

// Discard retracts the entry, it will never become visible.
func (p *Pending) Discard() error {
	if err := p.ledger.resolve(p); err != nil {
		return err
	}
	p.state = stateDiscarded
	return nil
}

// Ledger is a bounded, insertion ordered record of commands. It isn't safe
// for concurrent use.
type Ledger struct {
	capacity   int
	overflow   Overflow
	maxCommand int

	// entries is a ring buffer of finalized entries starting at head.
	entries []Entry
	head    int

	nextSeq int
	pending *Pending
}

// NewLedger creates an empty ledger holding at most capacity entries with
// command text truncated to maxCommand bytes.
func NewLedger(capacity, maxCommand int, overflow Overflow) *Ledger {
	if capacity < 1 {
		capacity = 1
	}
	if maxCommand < 1 {
		maxCommand = 1
	}
	return &Ledger{
		capacity:   capacity,
		overflow:   overflow,
		maxCommand: maxCommand,
		entries:    make([]Entry, 0, capacity),
	}
}

// Append records the text of a new command. The returned entry must be
// finalized or discarded before the next Append.
func (l *Ledger) Append(command string) (*Pending, error) {
	if l.pending != nil {
		return nil, ErrPending
	}
	l.pending = &Pending{
		ledger:  l,
		command: Truncate(command, l.maxCommand),
	}
	return l.pending, nil
}

func (l *Ledger) resolve(p *Pending) error {
	switch {
	case p.state != statePending:
		return ErrResolved
	case l.pending != p:
		return ErrNotLatest
	}
	l.pending = nil
	return nil
}

func (l *Ledger) push(e Entry) {
	if len(l.entries) == l.capacity {
		if l.overflow == Reject {
			return
		}
		l.nextSeq++
		e.Seq = l.nextSeq
		l.entries[l.head] = e
		l.head = (l.head + 1) % l.capacity
		return
	}

	l.nextSeq++
	e.Seq = l.nextSeq
	l.entries = append(l.entries, e)
}

// Len returns the number of visible entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Cap returns the maximum number of entries the ledger holds.
func (l *Ledger) Cap() int {
	return l.capacity
}

// All iterates over finalized entries, oldest first. The sequence may be
// iterated more than once.
func (l *Ledger) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for i := 0; i < len(l.entries); i++ {
			if !yield(l.entries[(l.head+i)%len(l.entries)]) {
				return
			}
		}
	}
}

// Write prints each entry as "<pid> <command>" on its own line.
func (l *Ledger) Write(w io.Writer) error {
	for e := range l.All() {
		if _, err := fmt.Fprintln(w, e.String()); err != nil {
			return err
		}
	}
	return nil
}

// Truncate returns the longest prefix of s that's at most n bytes and ends
// on a rune boundary.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
