// Package speech abstracts text-to-speech behind a capability interface so
// nothing in the core depends on a concrete platform API. The server ships
// the no-op implementation; clients that can speak plug in their own.
package speech

import "github.com/google/uuid"

// Handle identifies an in-progress utterance.
type Handle string

// Synthesizer speaks assistant replies. Implementations must treat Cancel on
// an unknown handle as a no-op.
type Synthesizer interface {
	Speak(text string) (Handle, error)
	Cancel(h Handle)
}

// Noop is a Synthesizer that does nothing.
type Noop struct{}

func (Noop) Speak(string) (Handle, error) {
	return Handle(uuid.New().String()), nil
}

func (Noop) Cancel(Handle) {}
