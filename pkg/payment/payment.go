package payment

import (
	"context"
	"fmt"
)

type TokenizeStatus string

const (
	TokenizeOK       TokenizeStatus = "OK"
	TokenizeCanceled TokenizeStatus = "CANCELED"
)

type TokenizeResult struct {
	Status TokenizeStatus
	Token  string
	Detail string
}

// SDK is the uniform client-side boundary for one payment channel:
// an eligibility probe, a one-time attach of the channel's affordance,
// and a tokenize call exchanging instrument data for a single-use token.
type SDK interface {
	Probe(ctx context.Context, totalCents int64) (bool, error)
	Attach(node string) error
	Tokenize(ctx context.Context, totalCents int64) (*TokenizeResult, error)
	Detach()
}

// TotalUpdater is implemented by SDKs that can move an already-attached
// affordance to a new total without a detach/reattach cycle.
type TotalUpdater interface {
	UpdateTotal(totalCents int64) error
}

// ContextBound is implemented by SDKs whose provider holds a server-side
// payment context binding the amount. The secret is single-use per amount
// and must be replaced whenever the total changes.
type ContextBound interface {
	SetClientSecret(secret string)
}

type ChargeParams struct {
	SourceToken    string
	AmountCents    int64
	IdempotencyKey string
	Note           string
	BuyerEmail     string
}

type ChargeResult struct {
	ProviderRef string
	Status      string
	ReceiptURL  string
}

// ProcessorClient creates the actual charge upstream. Implementations must
// pass IdempotencyKey through so the processor dedups retried requests.
type ProcessorClient interface {
	CreateCharge(ctx context.Context, params ChargeParams) (*ChargeResult, error)
}

// ProcessorError is a rejection from the processor (declined card, outage).
// Detail is safe to surface to the buyer verbatim.
type ProcessorError struct {
	StatusCode int
	Detail     string
}

func (e *ProcessorError) Error() string {
	return fmt.Sprintf("processor: %s (status %d)", e.Detail, e.StatusCode)
}
