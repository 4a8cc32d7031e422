package parse

import (
	"fmt"
	"strings"
)

// ValidationErrors contains multiple validation errors
type ValidationErrors struct {
	Errors []error
}

// Error implements the error interface
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString("  - ")
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Unwrap returns the collected errors for errors.Is/As.
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

// HasErrors returns true if there are any errors
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// ParseError represents an error while decoding a graph document
type ParseError struct {
	Source  string
	Line    int
	Column  int
	Message string
	Cause   error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Source, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

// Unwrap returns the underlying cause
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NodeError reports a problem with one node, addressed by its path in the
// document, e.g. nodes[0].inputs[DO].next.
type NodeError struct {
	Path    string
	NodeID  string
	Message string
}

// Error implements the error interface
func (e *NodeError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("%s (%s): %s", e.Path, e.NodeID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// NewParseError creates a new parse error
func NewParseError(source, message string, cause error) *ParseError {
	return &ParseError{
		Source:  source,
		Message: message,
		Cause:   cause,
	}
}

// CombineErrors combines multiple errors into one
func CombineErrors(errors ...error) error {
	var nonNil []error
	for _, err := range errors {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}

	if len(nonNil) == 0 {
		return nil
	}
	if len(nonNil) == 1 {
		return nonNil[0]
	}

	return &ValidationErrors{Errors: nonNil}
}
