package domain

import (
	"errors"
	"strings"
)

// Failure kinds. Every error leaving the data source or repository wraps
// exactly one of these.
var (
	ErrTransport       = errors.New("transport error")
	ErrDeserialization = errors.New("deserialization error")
	ErrNotFound        = errors.New("not found")
	ErrEmptyResult     = errors.New("empty result")
	ErrUnknown         = errors.New("unknown error")
)

// UnknownMessage is shown when an error carries no text of its own.
const UnknownMessage = "Unknown Error"

// Kind returns the sentinel err wraps, or ErrUnknown.
func Kind(err error) error {
	for _, k := range []error{ErrNotFound, ErrEmptyResult, ErrDeserialization, ErrTransport} {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrUnknown
}

// Message renders err for an Error view state.
func Message(err error) string {
	if err == nil {
		return UnknownMessage
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return UnknownMessage
}
