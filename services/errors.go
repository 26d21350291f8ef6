package services

import (
	"github.com/rotisserie/eris"
)

var (
	// ErrInvalidInput marks requests rejected before any upstream call.
	ErrInvalidInput = eris.New("invalid input")
	// ErrUpstream marks failures of the completion capability itself
	// (transport, auth, quota). Malformed output is never reported this way.
	ErrUpstream = eris.New("upstream completion failed")
)

func invalidInput(msg string) error {
	return eris.Wrap(ErrInvalidInput, msg)
}

func upstreamError(provider string, err error) error {
	return eris.Wrapf(ErrUpstream, "%s: %v", provider, err)
}

// IsInvalidInput reports whether err should surface as a client error.
func IsInvalidInput(err error) bool {
	return eris.Is(err, ErrInvalidInput)
}

// IsUpstream reports whether err came from the completion provider.
func IsUpstream(err error) bool {
	return eris.Is(err, ErrUpstream)
}
