package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSquareProcessorCreateCharge(t *testing.T) {
	var got squareChargeReq
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/payments" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk_test" {
			t.Errorf("authorization = %q", auth)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"payment": map[string]interface{}{"id": "pay_1", "status": "COMPLETED", "receipt_url": "https://r/1"},
		})
	}))
	defer server.Close()

	proc := NewSquareProcessor(server.URL, "sk_test", "loc_1")
	result, err := proc.CreateCharge(context.Background(), ChargeParams{
		SourceToken:    "tok_ok",
		AmountCents:    2500,
		IdempotencyKey: "key-1",
		Note:           "Fund: tithe",
		BuyerEmail:     "pat@example.com",
	})
	if err != nil {
		t.Fatalf("CreateCharge: %v", err)
	}
	if result.ProviderRef != "pay_1" || result.Status != "COMPLETED" {
		t.Errorf("result = %+v", result)
	}
	if got.SourceID != "tok_ok" || got.AmountMoney.Amount != 2500 || got.AmountMoney.Currency != "USD" {
		t.Errorf("request = %+v", got)
	}
	if got.IdempotencyKey != "key-1" {
		t.Errorf("idempotency key = %q", got.IdempotencyKey)
	}
	if got.LocationID != "loc_1" {
		t.Errorf("location = %q", got.LocationID)
	}
}

func TestSquareProcessorExtractsErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []map[string]string{{"code": "CARD_DECLINED", "detail": "card_declined"}},
		})
	}))
	defer server.Close()

	proc := NewSquareProcessor(server.URL, "sk_test", "loc_1")
	_, err := proc.CreateCharge(context.Background(), ChargeParams{SourceToken: "tok_bad", AmountCents: 2500, IdempotencyKey: "key-2"})
	var procErr *ProcessorError
	if !errors.As(err, &procErr) {
		t.Fatalf("error = %v, want *ProcessorError", err)
	}
	if procErr.Detail != "card_declined" || procErr.StatusCode != http.StatusPaymentRequired {
		t.Errorf("procErr = %+v", procErr)
	}
}
