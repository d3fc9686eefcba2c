package errors

import (
	"fmt"
	"io"
	"strings"
)

// Diagnostic is the interface implemented by every error reported to users.
type Diagnostic interface {
	error
	Pos() Position
	Kind() string // "Syntax", "Type" or "Config"
	// Message returns the message without position info.
	Message() string
	Unwrap() error
}

// SyntaxError represents an error during lexing, parsing or binding.
type SyntaxError struct {
	Position
	Msg   string
	Cause error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *SyntaxError) Pos() Position   { return e.Position }
func (e *SyntaxError) Kind() string    { return "Syntax" }
func (e *SyntaxError) Message() string { return e.Msg }
func (e *SyntaxError) Unwrap() error   { return e.Cause }

// TypeError represents a fatal error during static type checking.
type TypeError struct {
	Position
	Msg   string
	Cause error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("Type Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *TypeError) Pos() Position   { return e.Position }
func (e *TypeError) Kind() string    { return "Type" }
func (e *TypeError) Message() string { return e.Msg }
func (e *TypeError) Unwrap() error   { return e.Cause }
func (e *TypeError) CausedBy(cause error) *TypeError {
	e.Cause = cause
	return e
}

// ConfigError reports a problem loading configuration or reading input files.
// It usually has no meaningful position.
type ConfigError struct {
	Position
	Msg   string
	Cause error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Config Error: %s: %v", e.Msg, e.Cause)
	}
	return fmt.Sprintf("Config Error: %s", e.Msg)
}
func (e *ConfigError) Pos() Position   { return e.Position }
func (e *ConfigError) Kind() string    { return "Config" }
func (e *ConfigError) Message() string { return e.Msg }
func (e *ConfigError) Unwrap() error   { return e.Cause }

// DisplayErrors writes diagnostics to w with the offending source line and a
// caret under the reported column.
func DisplayErrors(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		pos := d.Pos()
		if !pos.IsValid() || pos.Source == nil {
			fmt.Fprintf(w, "%s Error: %s\n", d.Kind(), d.Message())
			continue
		}
		fmt.Fprintf(w, "%s:%d:%d: %s Error: %s\n", pos.Source.DisplayPath(), pos.Line, pos.Column, d.Kind(), d.Message())

		line := pos.Source.Line(pos.Line)
		if line == "" {
			continue
		}
		fmt.Fprintf(w, "  %s\n", line)

		// Tabs are kept so the caret lines up with the echoed line.
		var marker strings.Builder
		for i, r := range []rune(line) {
			if i >= pos.Column-1 {
				break
			}
			if r == '\t' {
				marker.WriteRune('\t')
			} else {
				marker.WriteRune(' ')
			}
		}
		marker.WriteRune('^')
		width := pos.EndPos - pos.StartPos
		if rest := len(line) - (pos.Column - 1); width > rest {
			width = rest
		}
		if width > 1 {
			marker.WriteString(strings.Repeat("~", width-1))
		}
		fmt.Fprintf(w, "  %s\n\n", marker.String())
	}
}
