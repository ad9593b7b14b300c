package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"giveflow/internal/checkout"
	"giveflow/internal/domain"
	"giveflow/internal/service"
)

type PayHandler struct {
	charges *service.ChargeService
	intents *service.IntentService
}

func NewPayHandler(charges *service.ChargeService, intents *service.IntentService) *PayHandler {
	return &PayHandler{charges: charges, intents: intents}
}

// Pay creates one charge per idempotency key. Metadata (fund, donor,
// dedication) is advisory and goes into the note; it never affects the
// charge amount or dedup.
func (h *PayHandler) Pay(c *gin.Context) {
	var req struct {
		Token          string `json:"token"`
		Amount         int64  `json:"amount"`
		Fund           string `json:"fund"`
		Name           string `json:"name"`
		Email          string `json:"email"`
		IdempotencyKey string `json:"idempotencyKey"`
		Note           string `json:"note"`
		ClientSecret   string `json:"clientSecret"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	if req.Token == "" || req.Amount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token or amount"})
		return
	}
	if req.Amount < checkout.MinAmountCents {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount below minimum"})
		return
	}
	if req.IdempotencyKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing idempotencyKey"})
		return
	}
	if !domain.ValidFund(req.Fund) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown fund"})
		return
	}

	var intentRef string
	if req.ClientSecret != "" {
		claims, err := h.intents.Verify(req.ClientSecret, req.Amount)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, service.ErrAmountMismatch) {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		intentRef = claims.Reference
	}

	charge, err := h.charges.Create(c.Request.Context(), service.CreateChargeInput{
		Token:          req.Token,
		AmountCents:    req.Amount,
		Fund:           req.Fund,
		DonorName:      req.Name,
		DonorEmail:     req.Email,
		Note:           req.Note,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		var declined *service.DeclinedError
		switch {
		case errors.As(err, &declined):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": declined.Detail})
		case errors.Is(err, service.ErrKeyTokenMismatch):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payment error"})
		}
		return
	}

	if intentRef != "" {
		_ = h.intents.Consume(intentRef)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "charge": charge})
}
