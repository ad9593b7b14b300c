package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrChannelIneligible is benign: the channel cannot work in this
	// environment and is hidden, nothing is shown to the buyer.
	ErrChannelIneligible = errors.New("channel ineligible")

	// ErrTokenizationCanceled is a deliberate buyer cancellation; the
	// channel returns to its ready state.
	ErrTokenizationCanceled = errors.New("tokenization canceled")

	// ErrMisconfigured means no channel can work at all (missing provider
	// credentials or SDK); fatal for the whole sheet.
	ErrMisconfigured = errors.New("payment integration misconfigured")

	ErrSessionClosed   = errors.New("checkout session closed")
	ErrSessionNotReady = errors.New("checkout session not ready")
	ErrUnknownChannel  = errors.New("unknown channel")
	ErrChannelNotReady = errors.New("channel not ready for submission")
)

// InvalidAmountError blocks submission and is never sent to the backend.
type InvalidAmountError struct {
	Raw string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %q: must be at least $1.00", e.Raw)
}

// TokenizationError is a provider or network failure during tokenize; the
// channel returns to ready and the buyer may retry.
type TokenizationError struct {
	Channel string
	Err     error
}

func (e *TokenizationError) Error() string {
	return fmt.Sprintf("tokenization failed on %s: %v", e.Channel, e.Err)
}

func (e *TokenizationError) Unwrap() error { return e.Err }

// ChargeError is a backend/processor rejection. Message carries the
// backend's error string verbatim for display.
type ChargeError struct {
	StatusCode int
	Message    string
}

func (e *ChargeError) Error() string { return e.Message }
