package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"giveflow/config"
	"giveflow/internal/domain"
	"giveflow/internal/models"
	"giveflow/internal/repository"
)

var (
	ErrInvalidClientSecret = errors.New("invalid client secret")
	ErrAmountMismatch      = errors.New("amount_mismatch")
)

type IntentClaims struct {
	Reference   string `json:"ref"`
	AmountCents int64  `json:"amount_cents"`
	jwt.RegisteredClaims
}

type CreateIntentInput struct {
	AmountCents int64
	Fund        string
	DonorName   string
	DonorEmail  string
	Dedication  string
	// Previous is the reference of the context this one replaces after an
	// amount change.
	Previous string
}

// IntentService issues amount-bound payment contexts. The client secret is
// a signed token carrying the intent reference and amount; it is single-use
// per amount, so every total change mints a new one and supersedes the old.
type IntentService struct {
	repo *repository.IntentRepository
	cfg  *config.IntentConfig
}

func NewIntentService(repo *repository.IntentRepository, cfg *config.IntentConfig) *IntentService {
	return &IntentService{repo: repo, cfg: cfg}
}

func (s *IntentService) Create(in CreateIntentInput) (secret, reference string, err error) {
	reference = uuid.New().String()
	intent := &models.PaymentIntent{
		Reference:   reference,
		AmountCents: in.AmountCents,
		Fund:        in.Fund,
		DonorName:   in.DonorName,
		DonorEmail:  in.DonorEmail,
		Dedication:  in.Dedication,
		Status:      domain.IntentStatusActive,
		ExpiresAt:   time.Now().Add(s.cfg.Expiry),
	}
	if err = s.repo.Create(intent); err != nil {
		return "", "", err
	}
	if in.Previous != "" {
		if supErr := s.repo.Supersede(in.Previous); supErr != nil {
			return "", "", supErr
		}
	}

	claims := IntentClaims{
		Reference:   reference,
		AmountCents: in.AmountCents,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(intent.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	secret, err = token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", "", err
	}
	return secret, reference, nil
}

// Verify checks a client secret against the amount actually being charged.
// A secret minted for a different total is stale and must be re-requested.
func (s *IntentService) Verify(secret string, amountCents int64) (*IntentClaims, error) {
	token, err := jwt.ParseWithClaims(secret, &IntentClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidClientSecret
	}
	claims, ok := token.Claims.(*IntentClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClientSecret
	}
	if claims.AmountCents != amountCents {
		return nil, ErrAmountMismatch
	}
	intent, err := s.repo.GetByReference(claims.Reference)
	if err != nil {
		return nil, ErrInvalidClientSecret
	}
	if intent.Status != domain.IntentStatusActive {
		return nil, ErrInvalidClientSecret
	}
	return claims, nil
}

// Consume retires an intent once its charge settled.
func (s *IntentService) Consume(reference string) error {
	intent, err := s.repo.GetByReference(reference)
	if err != nil {
		return err
	}
	intent.Status = domain.IntentStatusConsumed
	return s.repo.Update(intent)
}
