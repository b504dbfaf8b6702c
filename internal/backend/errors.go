package backend

import "fmt"

// AppError is returned when the backend answers with a failure status.
// Its message is the server-supplied text.
type AppError struct {
	Endpoint string
	Status   string
	Message  string
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %q", e.Status)
	}
	return e.Message
}

// TransportError is returned when a request could not be completed or its
// response could not be decoded.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return "connection error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
