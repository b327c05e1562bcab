package knowledge

import "fmt"

// LoadError is a failure to read or parse the knowledge document.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("knowledge load error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("knowledge load error for %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// EmbedError is a failure of the embedding model.
type EmbedError struct {
	Message string
	Cause   error
}

func (e *EmbedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding error: %s", e.Message)
}

func (e *EmbedError) Unwrap() error {
	return e.Cause
}
