package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// enumValue is a string flag restricted to a fixed set of values.
type enumValue struct {
	value   string
	allowed []string
}

var _ pflag.Value = (*enumValue)(nil)

func newEnumValue(value string, allowed ...string) *enumValue {
	return &enumValue{value: value, allowed: allowed}
}

func (e *enumValue) String() string {
	return e.value
}

func (e *enumValue) Set(value string) error {
	for _, allowed := range e.allowed {
		if value == allowed {
			e.value = value
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", e.Allowed())
}

func (e *enumValue) Type() string {
	return "mode"
}

// Allowed returns the accepted values separated by pipes.
func (e *enumValue) Allowed() string {
	return strings.Join(e.allowed, "|")
}
