package search

import "fmt"

// ServiceError is a failed request to a search backend: a transport error or a
// non-200 response.
type ServiceError struct {
	Service    string
	URL        string
	StatusCode int
	Cause      error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned status code %d", e.Service, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s request failed: %v", e.Service, e.Cause)
	}
	return fmt.Sprintf("%s request failed", e.Service)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}
