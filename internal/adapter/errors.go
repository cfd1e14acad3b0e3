package adapter

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthFailed is returned when key generation is rejected
	ErrAuthFailed = errors.New("authentication failed")
	// ErrAPIStatus matches every *APIError
	ErrAPIStatus = errors.New("api returned an error status")
	// ErrNoAPIKey is returned by queries issued before a key is set
	ErrNoAPIKey = errors.New("no api key")
	// ErrInvalidScope is returned for a device group name that cannot be
	// put into an xpath
	ErrInvalidScope = errors.New("invalid device group name")
)

// APIError is an error response from the XML API
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unknown error"
	}
	if e.Code == "" {
		return fmt.Sprintf("panorama api error: %s", msg)
	}
	return fmt.Sprintf("panorama api error %s: %s", e.Code, msg)
}

// Unwrap lets errors.Is(err, ErrAPIStatus) match
func (e *APIError) Unwrap() error {
	return ErrAPIStatus
}
