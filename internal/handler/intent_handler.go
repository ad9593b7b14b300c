package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"giveflow/internal/checkout"
	"giveflow/internal/domain"
	"giveflow/internal/service"
)

type IntentHandler struct {
	intents *service.IntentService
}

func NewIntentHandler(intents *service.IntentService) *IntentHandler {
	return &IntentHandler{intents: intents}
}

// Create issues an amount-bound client secret. Callers re-request whenever
// the total changes; the superseded context is retired.
func (h *IntentHandler) Create(c *gin.Context) {
	var req struct {
		Amount     int64  `json:"amount"`
		Fund       string `json:"fund"`
		Name       string `json:"name"`
		Email      string `json:"email"`
		Dedication string `json:"dedication"`
		Previous   string `json:"previous"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	if req.Amount < checkout.MinAmountCents {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount below minimum"})
		return
	}
	if !domain.ValidFund(req.Fund) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown fund"})
		return
	}

	secret, reference, err := h.intents.Create(service.CreateIntentInput{
		AmountCents: req.Amount,
		Fund:        req.Fund,
		DonorName:   req.Name,
		DonorEmail:  req.Email,
		Dedication:  req.Dedication,
		Previous:    req.Previous,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create payment intent"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": secret, "reference": reference})
}
