package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/influencerinsights/backend-go/internal/domain"
	"github.com/influencerinsights/backend-go/internal/service"
)

type CalculatorHandler struct {
	calculator *service.CalculatorService
	fx         *service.FXService
}

func NewCalculatorHandler(calculator *service.CalculatorService, fx *service.FXService) *CalculatorHandler {
	return &CalculatorHandler{calculator: calculator, fx: fx}
}

// Calculate runs the standalone pricing calculator.
func (h *CalculatorHandler) Calculate(c *gin.Context) {
	var in domain.CalculatorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	if in.QuotedFee < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quoted_fee must be non-negative"})
		return
	}
	if in.AgencyMarginPercent < 0 || in.AgencyMarginPercent > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agency_margin_percent must be between 0 and 100"})
		return
	}

	c.JSON(http.StatusOK, h.calculator.Calculate(c.Request.Context(), in))
}

// GetRates serves cached FX rates, e.g. /fx?base=USD&symbols=ZAR,EUR,GBP.
func (h *CalculatorHandler) GetRates(c *gin.Context) {
	base := c.DefaultQuery("base", "USD")

	var symbols []string
	if raw := strings.TrimSpace(c.DefaultQuery("symbols", "ZAR,EUR,GBP")); raw != "" {
		symbols = strings.Split(raw, ",")
	}

	rates, err := h.fx.GetRates(c.Request.Context(), base, symbols)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rates)
}
