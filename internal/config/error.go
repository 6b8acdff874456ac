package config

import "fmt"

// ErrorKind classifies configuration load failures.
type ErrorKind string

const (
	ErrSyntax             ErrorKind = "syntax error"
	ErrUnknownDirective   ErrorKind = "unknown directive"
	ErrInvalidArgument    ErrorKind = "invalid directive argument"
	ErrDuplicateDirective ErrorKind = "duplicate directive"
)

// ConfigError is the only error class raised by configuration loading.
// It aborts the load for the affected site; no partial configuration is
// produced. Request-time handling has no error path.
type ConfigError struct {
	Kind      ErrorKind
	File      string
	Line      int
	Directive string
	Detail    string
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Kind)
	if e.Directive != "" {
		msg += fmt.Sprintf(": directive %q", e.Directive)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// NewError builds a ConfigError positioned at the given node.
func NewError(node *Node, kind ErrorKind, format string, v ...interface{}) *ConfigError {
	return &ConfigError{
		Kind:      kind,
		File:      node.File,
		Line:      node.Line,
		Directive: node.Name,
		Detail:    fmt.Sprintf(format, v...),
	}
}

func newSyntaxError(file string, line int, format string, v ...interface{}) *ConfigError {
	return &ConfigError{
		Kind:   ErrSyntax,
		File:   file,
		Line:   line,
		Detail: fmt.Sprintf(format, v...),
	}
}
