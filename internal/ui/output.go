package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Output prints pgproto3cli's plain-text status and event lines —
// query/watch/copy have no tabular or JSON/YAML rendering to pick
// between, so unlike a data-management CLI this has exactly one
// format.
type Output struct {
	writer  io.Writer
	noColor bool
	quiet   bool
}

// NewOutput creates a new Output instance
func NewOutput(noColor, quiet bool) *Output {
	return &Output{
		writer:  os.Stdout,
		noColor: noColor,
		quiet:   quiet,
	}
}

// Print prints a message
func (o *Output) Print(msg string) {
	if o.quiet {
		return
	}
	_, err := fmt.Fprintln(o.writer, msg)
	if err != nil {
		return
	}
}

// Success prints a success message
func (o *Output) Success(msg string) {
	if o.quiet {
		return
	}
	if o.noColor {
		_, err := fmt.Fprintf(o.writer, "%s %s\n", IconSuccess, msg)
		if err != nil {
			return
		}
	} else {
		_, err := fmt.Fprintln(o.writer, Success.Render(IconSuccess)+" "+msg)
		if err != nil {
			return
		}
	}
}

// Title prints a title
func (o *Output) Title(msg string) {
	if o.quiet {
		return
	}
	if o.noColor {
		_, err := fmt.Fprintf(o.writer, "\n%s\n%s\n", msg, strings.Repeat("=", len(msg)))
		if err != nil {
			return
		}
	} else {
		_, err := fmt.Fprintln(o.writer, Title.Render(msg))
		if err != nil {
			return
		}
	}
}

// Event prints one pgproto3 event line, tagged with its wire name
// (e.g. "row_description", "notice") so a `watch` session reads as a
// timeline of what the backend sent.
func (o *Output) Event(name string, detail string) {
	if o.quiet {
		return
	}
	if o.noColor {
		_, err := fmt.Fprintf(o.writer, "[%s] %s\n", name, detail)
		if err != nil {
			return
		}
	} else {
		_, err := fmt.Fprintln(o.writer, Muted.Render("["+name+"]")+" "+detail)
		if err != nil {
			return
		}
	}
}
