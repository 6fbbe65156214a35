package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrInvalidDirection is returned when a submitted offer carries an
	// unsupported direction value. Programming error, never retried.
	ErrInvalidDirection = errors.New("invalid direction")

	// ErrInvalidQuantity is returned for a non-positive order quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidPrice is returned for a negative limit price.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrDuplicateOrder is returned when a new order reuses an id that
	// is still live on the book.
	ErrDuplicateOrder = errors.New("order id already active")

	// ErrUnknownRequest is returned for a request with an unset kind tag.
	ErrUnknownRequest = errors.New("unknown request kind")

	// ErrDuplicateParticipant is returned when a participant id is
	// registered twice.
	ErrDuplicateParticipant = errors.New("participant id already registered")
)

// RequestError wraps a rejected engine request with the offending order id.
type RequestError struct {
	Op  string // "submit", "register"
	ID  uuid.UUID
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
