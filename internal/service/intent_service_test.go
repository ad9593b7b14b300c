package service

import (
	"errors"
	"testing"
	"time"

	"giveflow/config"
	"giveflow/internal/domain"
	"giveflow/internal/repository"
)

func testIntentService(t *testing.T) (*IntentService, *repository.IntentRepository) {
	t.Helper()
	repo := repository.NewIntentRepository(testDB(t))
	cfg := &config.IntentConfig{Secret: "test-secret", Issuer: "giveflow", Expiry: 30 * time.Minute}
	return NewIntentService(repo, cfg), repo
}

func intentInput(amount int64) CreateIntentInput {
	return CreateIntentInput{AmountCents: amount, Fund: domain.FundMissions}
}

func TestClientSecretBindsAmount(t *testing.T) {
	svc, _ := testIntentService(t)
	secret, ref, err := svc.Create(intentInput(2603))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if secret == "" || ref == "" {
		t.Fatal("empty secret or reference")
	}

	claims, err := svc.Verify(secret, 2603)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Reference != ref {
		t.Errorf("reference = %s, want %s", claims.Reference, ref)
	}

	if _, err := svc.Verify(secret, 5000); !errors.Is(err, ErrAmountMismatch) {
		t.Errorf("Verify with changed amount = %v, want ErrAmountMismatch", err)
	}
}

func TestGarbageSecretRejected(t *testing.T) {
	svc, _ := testIntentService(t)
	if _, err := svc.Verify("not-a-token", 1000); !errors.Is(err, ErrInvalidClientSecret) {
		t.Errorf("error = %v, want ErrInvalidClientSecret", err)
	}
}

func TestAmountChangeSupersedesPriorContext(t *testing.T) {
	svc, _ := testIntentService(t)
	oldSecret, oldRef, err := svc.Create(intentInput(1000))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	in := intentInput(5000)
	in.Previous = oldRef
	newSecret, _, err := svc.Create(in)
	if err != nil {
		t.Fatalf("Create replacement: %v", err)
	}

	if _, err := svc.Verify(newSecret, 5000); err != nil {
		t.Errorf("new secret should verify: %v", err)
	}
	if _, err := svc.Verify(oldSecret, 1000); !errors.Is(err, ErrInvalidClientSecret) {
		t.Errorf("superseded secret accepted: %v", err)
	}
}

func TestConsumedIntentRejected(t *testing.T) {
	svc, _ := testIntentService(t)
	secret, ref, err := svc.Create(intentInput(2500))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Consume(ref); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if _, err := svc.Verify(secret, 2500); !errors.Is(err, ErrInvalidClientSecret) {
		t.Errorf("consumed secret accepted: %v", err)
	}
}
