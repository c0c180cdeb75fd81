package interest

import (
	"errors"
	"fmt"

	"gtrends-go/pkg/trends"
)

var (
	// ErrMalformedResponse matches every MalformedResponseError via errors.Is.
	ErrMalformedResponse = errors.New("malformed interest response")
	ErrNoKeywords        = trends.ErrNoKeywords
	ErrUnknownKeyword    = errors.New("keyword not present in table")
)

// MalformedResponseError reports a region value that cannot be reshaped:
// too few tokens, a non-integer token or a repeated region.
type MalformedResponseError struct {
	Region   string
	Position int // token index, -1 when not token specific
	Token    string
	Reason   string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	msg := fmt.Sprintf("malformed response for region %q", e.Region)
	if e.Position >= 0 {
		msg += fmt.Sprintf(" at token %d (%q)", e.Position, e.Token)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}
