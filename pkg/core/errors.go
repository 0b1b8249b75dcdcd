// Package core defines sentinel errors.
package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two decode failure kinds.
var (
	// ErrIncomplete means the input ended before the header did. The caller
	// should retry the same decode with a longer slice.
	ErrIncomplete = errors.New("pktparse: incomplete input")

	// ErrMalformed means a field held a value the grammar does not allow.
	// More input will not help.
	ErrMalformed = errors.New("pktparse: malformed input")
)

// IncompleteError reports how many more bytes the failing read needed.
type IncompleteError struct {
	Layer  string // e.g. "ipv4", "tcp"
	Offset int    // offset of the failing read within the layer's input
	Needed int    // at least this many more bytes are required
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("pktparse: %s: incomplete input at offset %d: need %d more byte(s)",
		e.Layer, e.Offset, e.Needed)
}

// Is makes errors.Is(err, ErrIncomplete) true.
func (e *IncompleteError) Is(target error) bool { return target == ErrIncomplete }

// MalformedError reports a structurally invalid field.
type MalformedError struct {
	Layer  string
	Offset int
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("pktparse: %s: malformed input at offset %d: %s", e.Layer, e.Offset, e.Reason)
}

// Is makes errors.Is(err, ErrMalformed) true.
func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }

// NeededBytes extracts the byte deficit from an incomplete-input error,
// looking through any wrapping.
func NeededBytes(err error) (int, bool) {
	var ie *IncompleteError
	if errors.As(err, &ie) {
		return ie.Needed, true
	}
	return 0, false
}

// LayerOf returns the layer named by an incomplete or malformed error,
// looking through any wrapping.
func LayerOf(err error) (string, bool) {
	var ie *IncompleteError
	if errors.As(err, &ie) {
		return ie.Layer, true
	}
	var me *MalformedError
	if errors.As(err, &me) {
		return me.Layer, true
	}
	return "", false
}
