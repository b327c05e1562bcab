package extraction

import "fmt"

// Kind classifies an extraction failure.
type Kind string

const (
	// KindParse means the model replied but no usable reply object could be read.
	KindParse Kind = "parse"
	// KindService means the Completion Service call itself failed.
	KindService Kind = "service"
)

// Error is the only error type Extract returns.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction %s error: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction %s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
