package nelgen

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind is returned when no mapping function is registered for a node kind.
	ErrUnknownKind = errors.New("unknown node kind")
	// ErrUnknownOperator is returned when a selector field names an operation
	// the mapping function does not know.
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrUnhandledSlot is returned for an uncovered combination of mode and anchor fields.
	ErrUnhandledSlot = errors.New("unhandled slot configuration")
	// ErrFlowOutsideLoop is returned for break or continue outside any loop.
	ErrFlowOutsideLoop = errors.New("flow statement outside of a loop")
	// ErrExpectedValue is returned when a value input holds a statement node.
	ErrExpectedValue = errors.New("expected a value node")
	// ErrExpectedStatement is returned when a statement input holds a value node.
	ErrExpectedStatement = errors.New("expected a statement node")
)

// UnknownKindError reports a node kind absent from the registry.
type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("no generator registered for node kind %q", e.Kind)
}

// Is matches ErrUnknownKind.
func (e *UnknownKindError) Is(target error) bool {
	return target == ErrUnknownKind
}

// UnknownOperatorError reports a selector value missing from a dispatch table.
type UnknownOperatorError struct {
	Kind  Kind
	Field string
	Value string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("%s: unknown operator %s=%q", e.Kind, e.Field, e.Value)
}

// Is matches ErrUnknownOperator.
func (e *UnknownOperatorError) Is(target error) bool {
	return target == ErrUnknownOperator
}

// UnhandledSlotError reports a mode/anchor combination with no translation.
type UnhandledSlotError struct {
	Kind   Kind
	Fields map[string]string
}

func (e *UnhandledSlotError) Error() string {
	return fmt.Sprintf("%s: unhandled option %v", e.Kind, e.Fields)
}

// Is matches ErrUnhandledSlot.
func (e *UnhandledSlotError) Is(target error) bool {
	return target == ErrUnhandledSlot
}

// NodeError attaches the failing node to an error.
type NodeError struct {
	NodeID string
	Kind   Kind
	Cause  error
}

func (e *NodeError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("node %s (%s): %v", e.NodeID, e.Kind, e.Cause)
	}
	return fmt.Sprintf("node %s: %v", e.Kind, e.Cause)
}

// Unwrap returns the underlying cause
func (e *NodeError) Unwrap() error {
	return e.Cause
}

// UnknownOperator builds the error a mapping function returns when the
// named selector field holds an unexpected value.
func UnknownOperator(n *Node, field string) error {
	return &UnknownOperatorError{Kind: n.Kind, Field: field, Value: n.Field(field)}
}

// UnhandledSlot builds the error for an uncovered combination of the named fields.
func UnhandledSlot(n *Node, fields ...string) error {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f] = n.Field(f)
	}
	return &UnhandledSlotError{Kind: n.Kind, Fields: values}
}

func wrapNodeError(n *Node, err error) error {
	var ne *NodeError
	if errors.As(err, &ne) {
		return err
	}
	return &NodeError{NodeID: n.ID, Kind: n.Kind, Cause: err}
}
