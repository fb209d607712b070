package dialog

import (
	"errors"
	"fmt"
)

// DuplicateToolError reports a second registration under a name the tool
// set already holds.
type DuplicateToolError struct {
	Tool string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q already registered", e.Tool)
}

// UnknownToolError reports a dispatch to a name the active tool set does
// not contain.
type UnknownToolError struct {
	Tool string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Tool)
}

// ArgumentError reports a missing or mistyped tool argument. Dispatch
// raises it before the handler runs. Arg is empty when the argument
// payload as a whole could not be decoded.
type ArgumentError struct {
	Tool   string
	Arg    string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Arg == "" {
		return fmt.Sprintf("tool %q arguments: %s", e.Tool, e.Reason)
	}
	return fmt.Sprintf("tool %q argument %q: %s", e.Tool, e.Arg, e.Reason)
}

// NotFoundError is returned by handlers when a lookup misses: an unknown
// product, concept, or case. Message is spoken to the caller as-is.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError is returned by handlers when input breaks a domain rule,
// such as a quantity below one. Message is spoken to the caller as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// PersistenceError wraps a store failure together with the line to speak
// in its place.
type PersistenceError struct {
	Message string // spoken to the caller
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// recoveryLine is spoken for errors that carry no conversational phrasing
// of their own.
const recoveryLine = "Sorry, I couldn't complete that. Could you try again?"

// SpokenError maps a tool-boundary error to the line the assistant speaks
// for it. Handler errors carry their own phrasing; everything else gets a
// generic recovery line so raw error text never reaches the caller.
func SpokenError(err error) string {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Message
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return recoveryLine
}
