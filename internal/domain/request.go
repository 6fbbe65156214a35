package domain

import "github.com/google/uuid"

// RequestKind tags the two operations a participant may submit.
type RequestKind int

const (
	RequestNew RequestKind = iota + 1
	RequestCancel
)

// String returns the string representation of RequestKind
func (k RequestKind) String() string {
	switch k {
	case RequestNew:
		return "NEW"
	case RequestCancel:
		return "CANCEL"
	default:
		return "UNKNOWN"
	}
}

// Request is a tagged submission: either a new order or a cancellation
// of a previously submitted one. The tag makes the intent explicit; the
// engine never infers a cancel from an id collision.
type Request struct {
	Kind     RequestKind
	Offer    *Offer    // set when Kind == RequestNew
	CancelID uuid.UUID // set when Kind == RequestCancel
}

// NewOrder wraps an offer as a new-order request.
func NewOrder(o *Offer) Request {
	return Request{Kind: RequestNew, Offer: o}
}

// Cancel builds a cancellation request for the given order id.
func Cancel(id uuid.UUID) Request {
	return Request{Kind: RequestCancel, CancelID: id}
}
