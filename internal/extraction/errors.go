package extraction

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	// KindMissingInput means there was nothing to send, no call was made.
	KindMissingInput ErrorKind = "missing_input"
	// KindRemoteFailure covers transport errors and non-2xx answers.
	KindRemoteFailure ErrorKind = "remote_failure"
	// KindMalformedResponse means the answer had no usable text or the text did not decode.
	KindMalformedResponse ErrorKind = "malformed_response"
)

// Error is returned by every Client operation that fails.
type Error struct {
	Kind ErrorKind
	// Detail is shown to the user; for remote failures it carries the raw remote body.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed [%s]: %s: %s", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("extraction failed [%s]: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is a distinct, displayable message per error kind.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindMissingInput:
		return "Nothing to analyze: " + e.Detail
	case KindRemoteFailure:
		return "The AI service could not process the request: " + e.Detail
	case KindMalformedResponse:
		if e.Err != nil {
			return fmt.Sprintf("The AI service returned an answer that could not be read: %s: %s", e.Detail, e.Err)
		}
		return "The AI service returned an answer that could not be read: " + e.Detail
	default:
		return "Extraction failed."
	}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var extractionErr *Error
	return errors.As(err, &extractionErr) && extractionErr.Kind == kind
}

func missingInput(detail string) *Error {
	return &Error{Kind: KindMissingInput, Detail: detail}
}

func malformed(detail string, err error) *Error {
	return &Error{Kind: KindMalformedResponse, Detail: detail, Err: err}
}
