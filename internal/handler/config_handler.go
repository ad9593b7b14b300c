package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"giveflow/config"
	"giveflow/internal/domain"
)

type ConfigHandler struct {
	cfg *config.Config
}

func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

// Script serves the public provider config as executable JS for the
// checkout page. Only the public identifiers go out, never the access
// token.
func (h *ConfigHandler) Script(c *gin.Context) {
	js := fmt.Sprintf(
		`window.SQUARE_CONFIG = { appId: %q, locationId: %q, apiBaseUrl: "" };`,
		h.cfg.Square.AppID, h.cfg.Square.LocationID,
	)
	c.Data(http.StatusOK, "application/javascript", []byte(js))
}

// Funds lists the fund choices with their descriptions.
func (h *ConfigHandler) Funds(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"funds": domain.FundDescriptions})
}
