package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"giveflow/config"
	"giveflow/internal/database"
	"giveflow/internal/repository"
	"giveflow/internal/service"
	"giveflow/pkg/payment"
)

type scriptedProcessor struct {
	fn func(ctx context.Context, params payment.ChargeParams) (*payment.ChargeResult, error)
}

func (p *scriptedProcessor) CreateCharge(ctx context.Context, params payment.ChargeParams) (*payment.ChargeResult, error) {
	if p.fn != nil {
		return p.fn(ctx, params)
	}
	return &payment.ChargeResult{ProviderRef: "pay_abc", Status: "COMPLETED"}, nil
}

func setupRouter(t *testing.T, proc payment.ProcessorClient) (*gin.Engine, *service.IntentService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	chargeSvc := service.NewChargeService(repository.NewChargeRepository(db), proc, nil)
	intentSvc := service.NewIntentService(repository.NewIntentRepository(db), &config.IntentConfig{
		Secret: "test-secret", Issuer: "giveflow", Expiry: 30 * time.Minute,
	})
	r := gin.New()
	r.POST("/api/pay", NewPayHandler(chargeSvc, intentSvc).Pay)
	r.POST("/api/create-payment-intent", NewIntentHandler(intentSvc).Create)
	r.GET("/api/charges/:reference", NewChargeHandler(chargeSvc).Get)
	return r, intentSvc
}

func postJSON(r *gin.Engine, path string, body map[string]interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func payBody(key string) map[string]interface{} {
	return map[string]interface{}{
		"token":          "tok_ok",
		"amount":         2500,
		"fund":           "tithe",
		"name":           "Pat",
		"email":          "pat@example.com",
		"idempotencyKey": key,
	}
}

func TestPaySuccess(t *testing.T) {
	r, _ := setupRouter(t, &scriptedProcessor{})
	w := postJSON(r, "/api/pay", payBody("key-1"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		OK     bool `json:"ok"`
		Charge struct {
			AmountCents int64  `json:"amount_cents"`
			Status      string `json:"status"`
		} `json:"charge"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.OK || resp.Charge.AmountCents != 2500 || resp.Charge.Status != "COMPLETED" {
		t.Errorf("response = %s", w.Body.String())
	}
}

func TestPayValidation(t *testing.T) {
	r, _ := setupRouter(t, &scriptedProcessor{})
	cases := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing token", func(b map[string]interface{}) { delete(b, "token") }},
		{"missing amount", func(b map[string]interface{}) { delete(b, "amount") }},
		{"below minimum", func(b map[string]interface{}) { b["amount"] = 99 }},
		{"missing key", func(b map[string]interface{}) { delete(b, "idempotencyKey") }},
		{"unknown fund", func(b map[string]interface{}) { b["fund"] = "slush" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := payBody("key-v")
			tc.mutate(body)
			if w := postJSON(r, "/api/pay", body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestPayDeclinedSurfacesBackendError(t *testing.T) {
	proc := &scriptedProcessor{fn: func(context.Context, payment.ChargeParams) (*payment.ChargeResult, error) {
		return nil, &payment.ProcessorError{StatusCode: 402, Detail: "card_declined"}
	}}
	r, _ := setupRouter(t, proc)
	w := postJSON(r, "/api/pay", payBody("key-declined"))
	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", w.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error != "card_declined" {
		t.Errorf("error = %q, want the processor detail verbatim", resp.Error)
	}
}

func TestPayReplayReturnsOriginalCharge(t *testing.T) {
	calls := 0
	proc := &scriptedProcessor{fn: func(context.Context, payment.ChargeParams) (*payment.ChargeResult, error) {
		calls++
		return &payment.ChargeResult{ProviderRef: "pay_once", Status: "COMPLETED"}, nil
	}}
	r, _ := setupRouter(t, proc)

	first := postJSON(r, "/api/pay", payBody("key-replay"))
	second := postJSON(r, "/api/pay", payBody("key-replay"))
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("statuses = %d, %d", first.Code, second.Code)
	}
	if calls != 1 {
		t.Errorf("processor called %d times, want 1", calls)
	}
	var a, b struct {
		Charge struct {
			ID uint `json:"id"`
		} `json:"charge"`
	}
	json.Unmarshal(first.Body.Bytes(), &a)
	json.Unmarshal(second.Body.Bytes(), &b)
	if a.Charge.ID != b.Charge.ID {
		t.Errorf("replay returned charge %d, want %d", b.Charge.ID, a.Charge.ID)
	}
}

func TestPayRejectsStaleClientSecret(t *testing.T) {
	r, intentSvc := setupRouter(t, &scriptedProcessor{})
	secret, _, err := intentSvc.Create(service.CreateIntentInput{AmountCents: 1000, Fund: "tithe"})
	if err != nil {
		t.Fatalf("intent: %v", err)
	}

	// Secret was minted for 1000 but the edited total is 2500.
	body := payBody("key-stale")
	body["clientSecret"] = secret
	w := postJSON(r, "/api/pay", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error != "amount_mismatch" {
		t.Errorf("error = %q, want amount_mismatch", resp.Error)
	}
}

func TestCreatePaymentIntentEndpoint(t *testing.T) {
	r, _ := setupRouter(t, &scriptedProcessor{})
	w := postJSON(r, "/api/create-payment-intent", map[string]interface{}{
		"amount": 2603,
		"fund":   "missions",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		ClientSecret string `json:"clientSecret"`
		Reference    string `json:"reference"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ClientSecret == "" || resp.Reference == "" {
		t.Errorf("response = %s", w.Body.String())
	}
}
