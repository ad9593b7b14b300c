package payment

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// StubSDK is a no-op SDK for development; always eligible, tokenizes
// instantly.
type StubSDK struct {
	Channel string
	seq     atomic.Int64
}

func (s *StubSDK) Probe(ctx context.Context, totalCents int64) (bool, error) {
	return true, nil
}

func (s *StubSDK) Attach(node string) error {
	if node == "" {
		return fmt.Errorf("stub: empty mount node")
	}
	return nil
}

func (s *StubSDK) Tokenize(ctx context.Context, totalCents int64) (*TokenizeResult, error) {
	n := s.seq.Add(1)
	return &TokenizeResult{
		Status: TokenizeOK,
		Token:  fmt.Sprintf("tok_stub_%s_%d", s.Channel, n),
	}, nil
}

func (s *StubSDK) Detach() {}

// StubProcessor approves every charge without calling anything upstream.
type StubProcessor struct{}

func (s *StubProcessor) CreateCharge(ctx context.Context, params ChargeParams) (*ChargeResult, error) {
	return &ChargeResult{
		ProviderRef: fmt.Sprintf("stub_%d", time.Now().UnixNano()),
		Status:      "COMPLETED",
	}, nil
}
