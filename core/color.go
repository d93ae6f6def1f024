package core

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/josephlewis42/myshell/core/config"
)

// ColorPrinter formats diagnostics, coloring them if the mode allows.
type ColorPrinter struct {
	mode string

	warn *color.Color
	err  *color.Color
	info *color.Color
}

// NewColorPrinter creates a printer for one of the config.Color* modes.
func NewColorPrinter(mode string) *ColorPrinter {
	c := &ColorPrinter{
		mode: mode,
		warn: color.New(color.FgYellow, color.Bold),
		err:  color.New(color.FgRed, color.Bold),
		info: color.New(color.FgCyan),
	}

	if c.ShouldColor() {
		for _, col := range []*color.Color{c.warn, c.err, c.info} {
			col.EnableColor()
		}
	}

	return c
}

// ShouldColor returns true if output gets colored.
func (c *ColorPrinter) ShouldColor() bool {
	switch c.mode {
	case config.ColorNever:
		return false
	case config.ColorAlways:
		return true
	default:
		return !color.NoColor
	}
}

func (c *ColorPrinter) sprintf(col *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		return col.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}

// Warning formats a recoverable problem.
func (c *ColorPrinter) Warning(format string, a ...interface{}) string {
	return c.sprintf(c.warn, format, a...)
}

// Error formats a failure.
func (c *ColorPrinter) Error(format string, a ...interface{}) string {
	return c.sprintf(c.err, format, a...)
}

// Info formats job notifications.
func (c *ColorPrinter) Info(format string, a ...interface{}) string {
	return c.sprintf(c.info, format, a...)
}
