package core

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/josephlewis42/liteshell/core/config"
)

var errorColor = newColor(color.FgRed)

// newColor creates a color that ignores the global color.NoColor setting,
// ColorPrinter decides when to apply it.
func newColor(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// ColorPrinter conditionally colorizes output.
type ColorPrinter struct {
	// Mode is one of config.ColorAlways, config.ColorAuto or config.ColorNever.
	Mode string
	// IsTerminal reports whether output goes to a terminal, it's consulted in
	// auto mode.
	IsTerminal func() bool
}

// ShouldColor returns true if output should be colorized.
func (c *ColorPrinter) ShouldColor() bool {
	if c == nil {
		return false
	}

	switch c.Mode {
	case config.ColorNever:
		return false
	case config.ColorAlways:
		return true
	default:
		return c.IsTerminal != nil && c.IsTerminal()
	}
}

func (c *ColorPrinter) Sprintf(color *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		return color.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}
