package extractor

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupported = errors.New("no extractor found for this URL")
)

// Error is returned by extractors when a page cannot be fetched or parsed
// into anything meaningful. Message is safe to show to end users.
type Error struct {
	Platform string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Platform, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Platform, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(platform, message string, err error) *Error {
	return &Error{Platform: platform, Message: message, Err: err}
}

// UserMessage extracts a human readable message from err.
func UserMessage(err error) string {
	var ee *Error
	if errors.As(err, &ee) && ee.Message != "" {
		return ee.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
