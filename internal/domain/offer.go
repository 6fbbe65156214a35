package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction is the side of an offer.
type Direction int

const (
	Buy Direction = iota + 1
	Sell
)

// String returns the string representation of Direction
func (d Direction) String() string {
	switch d {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether d is one of the supported directions.
func (d Direction) Valid() bool {
	return d == Buy || d == Sell
}

// Offer is a participant's standing intent to buy or sell Qty shares at
// a limit Price. Direction and Price never change after creation; only
// Qty decreases as fills are applied.
type Offer struct {
	ID            uuid.UUID
	ParticipantID string
	Direction     Direction
	Qty           int64
	Price         decimal.Decimal
}

// NewOffer creates an offer with a fresh random id. Ids are never reused.
func NewOffer(participantID string, dir Direction, qty int64, price decimal.Decimal) *Offer {
	return &Offer{
		ID:            uuid.New(),
		ParticipantID: participantID,
		Direction:     dir,
		Qty:           qty,
		Price:         price,
	}
}

func (o *Offer) String() string {
	return fmt.Sprintf("ID:%s Participant:%s %s %d @$%s",
		o.ID, o.ParticipantID, o.Direction, o.Qty, o.Price.StringFixed(2))
}
