package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into the failure taxonomy shared by the
// server and the student client.
type Kind int

const (
	KindInvalidInput Kind = iota
	KindNotFound
	KindUnauthorized
	KindDecodeFailure
	KindTransportFailure
	KindInternal
)

type CustomError struct {
	Kind    Kind
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

func New(kind Kind, message string) error {
	return &CustomError{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) error {
	return &CustomError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, unwrapping as needed. Unclassified
// errors are treated as internal faults.
func KindOf(err error) Kind {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error kind to the status code the API returns for
// it. DecodeFailure and TransportFailure are client-local and should
// never reach the wire; they map to 500 only as a safety net.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
