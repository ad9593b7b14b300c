package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"giveflow/internal/domain"
	"giveflow/internal/models"
	"giveflow/internal/repository"
	"giveflow/internal/ws"
	"giveflow/pkg/payment"
)

// ErrKeyTokenMismatch is an idempotency key replayed with a different
// token: a client bug, never silently honored.
var ErrKeyTokenMismatch = errors.New("idempotency key reused with a different token")

// DeclinedError is a processor rejection; Detail is surfaced to the buyer
// verbatim.
type DeclinedError struct {
	Detail string
}

func (e *DeclinedError) Error() string { return e.Detail }

type CreateChargeInput struct {
	Token          string
	AmountCents    int64
	Fund           string
	DonorName      string
	DonorEmail     string
	Note           string
	IdempotencyKey string
}

// ChargeService turns a token + amount + idempotency key into at most one
// upstream charge per key.
type ChargeService struct {
	repo      *repository.ChargeRepository
	processor payment.ProcessorClient
	hub       *ws.Hub
}

func NewChargeService(repo *repository.ChargeRepository, processor payment.ProcessorClient, hub *ws.Hub) *ChargeService {
	return &ChargeService{repo: repo, processor: processor, hub: hub}
}

// Create is idempotent on IdempotencyKey. A replay with the same key and
// token returns the original record without touching the processor; the
// unique index on the key closes the race between concurrent duplicates.
func (s *ChargeService) Create(ctx context.Context, in CreateChargeInput) (*models.Charge, error) {
	if existing, err := s.repo.GetByIdempotencyKey(in.IdempotencyKey); err == nil {
		return s.replay(ctx, existing, in)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	charge := &models.Charge{
		AmountCents:    in.AmountCents,
		Currency:       "USD",
		Fund:           in.Fund,
		DonorName:      in.DonorName,
		DonorEmail:     in.DonorEmail,
		Note:           buildNote(in),
		Token:          in.Token,
		IdempotencyKey: in.IdempotencyKey,
		Status:         domain.ChargeStatusPending,
	}
	if err := s.repo.Create(charge); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race to a concurrent duplicate; the winner row is
			// the attempt of record.
			winner, readErr := s.repo.GetByIdempotencyKey(in.IdempotencyKey)
			if readErr != nil {
				return nil, readErr
			}
			return s.replay(ctx, winner, in)
		}
		return nil, err
	}

	return s.execute(ctx, charge)
}

// execute drives the single upstream call for a PENDING row and persists
// the outcome.
func (s *ChargeService) execute(ctx context.Context, charge *models.Charge) (*models.Charge, error) {
	result, err := s.processor.CreateCharge(ctx, payment.ChargeParams{
		SourceToken:    charge.Token,
		AmountCents:    charge.AmountCents,
		IdempotencyKey: charge.IdempotencyKey,
		Note:           charge.Note,
		BuyerEmail:     charge.DonorEmail,
	})
	if err != nil {
		var procErr *payment.ProcessorError
		if errors.As(err, &procErr) {
			charge.Status = domain.ChargeStatusFailed
			charge.FailureReason = procErr.Detail
			if saveErr := s.repo.Update(charge); saveErr != nil {
				log.Printf("[Charge] failed to persist decline for key %s: %v", charge.IdempotencyKey, saveErr)
			}
			s.broadcast(charge)
			return nil, &DeclinedError{Detail: procErr.Detail}
		}
		// Transport failure: outcome unknown, leave the row PENDING so a
		// keyed retry reconciles against the processor's own dedup.
		return nil, fmt.Errorf("charge upstream: %w", err)
	}

	now := time.Now()
	charge.Status = domain.ChargeStatusCompleted
	charge.ProviderRef = result.ProviderRef
	charge.ReceiptURL = result.ReceiptURL
	charge.CompletedAt = &now
	if err := s.repo.Update(charge); err != nil {
		return nil, err
	}
	s.broadcast(charge)
	return charge, nil
}

// replay maps a stored attempt back to the caller. A PENDING row means the
// prior attempt's outcome never landed; it is re-driven under the same key
// and the processor's own dedup makes that safe.
func (s *ChargeService) replay(ctx context.Context, existing *models.Charge, in CreateChargeInput) (*models.Charge, error) {
	if existing.Token != in.Token {
		return nil, ErrKeyTokenMismatch
	}
	switch existing.Status {
	case domain.ChargeStatusCompleted:
		return existing, nil
	case domain.ChargeStatusFailed:
		return nil, &DeclinedError{Detail: existing.FailureReason}
	default:
		return s.execute(ctx, existing)
	}
}

// GetByProviderRef looks a recorded charge up by its processor reference,
// for receipt/status pages.
func (s *ChargeService) GetByProviderRef(ref string) (*models.Charge, error) {
	return s.repo.GetByProviderRef(ref)
}

func (s *ChargeService) broadcast(charge *models.Charge) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(charge.IdempotencyKey, map[string]interface{}{
		"type":   "charge.updated",
		"charge": charge,
	})
}

func buildNote(in CreateChargeInput) string {
	note := ""
	sep := func() {
		if note != "" {
			note += " | "
		}
	}
	if in.Fund != "" {
		note += "Fund: " + in.Fund
	}
	if in.DonorName != "" {
		sep()
		note += "Name: " + in.DonorName
	}
	if in.DonorEmail != "" {
		sep()
		note += "Email: " + in.DonorEmail
	}
	if in.Note != "" {
		sep()
		note += in.Note
	}
	return note
}
