package payment

import (
	"context"
	"time"
)

// SessionLine is one priced line on the hosted payment page.
type SessionLine struct {
	Name           string
	UnitPriceCents int64
	Quantity       int
}

// CreateSessionInput describes a hosted payment session request. ReferenceID
// is the order id and comes back on webhook callbacks as the correlation
// token.
type CreateSessionInput struct {
	ReferenceID        string
	Currency           string
	Lines              []SessionLine
	FeeCents           int64
	TotalCents         int64
	PayerEmail         string
	Description        string
	SuccessRedirectURL string
	FailureRedirectURL string
	ExpiresIn          time.Duration
}

// Session is the gateway's handle on a hosted payment page.
type Session struct {
	ID  string
	URL string
}

// Gateway creates hosted payment sessions with the external payment
// provider.
type Gateway interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*Session, error)
}
