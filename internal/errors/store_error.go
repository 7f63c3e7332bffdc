package errors

import (
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
)

// StoreError wraps a failure talking to the row store with the operation
// that was being attempted ("reading parking locations").
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// IsTLSMismatch reports whether err looks like an HTTPS client talking to a
// plain HTTP store endpoint, or the other way round.
func IsTLSMismatch(err error) bool {
	if err == nil {
		return false
	}
	var rhe tls.RecordHeaderError
	if errors.As(err, &rhe) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "HTTP response to HTTPS client") ||
		strings.Contains(msg, "tls: first record does not look like a TLS handshake")
}
