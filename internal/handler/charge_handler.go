package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"giveflow/internal/service"
)

type ChargeHandler struct {
	charges *service.ChargeService
}

func NewChargeHandler(charges *service.ChargeService) *ChargeHandler {
	return &ChargeHandler{charges: charges}
}

// Get resolves a charge by its processor reference so a receipt page can
// show the final status after the checkout closed.
func (h *ChargeHandler) Get(c *gin.Context) {
	ref := c.Param("reference")
	charge, err := h.charges.GetByProviderRef(ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "charge not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"charge": charge})
}
