package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned for input refused locally, before any request.
	ErrValidation = errors.New("title and description are required")
	// ErrRequest marks a response with a non-success status.
	ErrRequest = errors.New("request failed")
	// ErrNetwork marks a transport failure (no response at all).
	ErrNetwork = errors.New("network error")
	// ErrNotPersisted is returned when an operation needs a backend id.
	ErrNotPersisted = errors.New("item has no id yet")
)

// RequestError carries the status of a rejected request.
type RequestError struct {
	Op     string
	Status int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
}

func (e *RequestError) Is(target error) bool { return target == ErrRequest }
