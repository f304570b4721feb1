package api

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedResponse returned when transport gave no usable http response
	ErrMalformedResponse = errors.New("malformed response")
	// ErrNoData returned on successful response with empty body
	ErrNoData = errors.New("no data in response")
	// ErrDuplicateRequest returned when the same operation is already in progress
	ErrDuplicateRequest = errors.New("duplicate request")
	// ErrMissingToken returned when authenticated call attempted without bearer token
	ErrMissingToken = errors.New("missing bearer token")
	// ErrEmptyCode returned when authorization code to exchange is empty
	ErrEmptyCode = errors.New("empty authorization code")
)

// TransportError wraps underlying i/o failure
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport error: %v", e.Err) }

// Unwrap returns the original error
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a response with status code outside of 2xx
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("http status %d", e.Code) }

// DecodeError is a json shape mismatch, Body keeps the raw payload
type DecodeError struct {
	Err  error
	Body []byte
}

func (e *DecodeError) Error() string { return fmt.Sprintf("can't decode response: %v", e.Err) }

// Unwrap returns the original error
func (e *DecodeError) Unwrap() error { return e.Err }

// IsStatus checks if err is StatusError with the given code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
