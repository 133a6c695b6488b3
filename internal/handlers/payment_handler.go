package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/mealpass/internal/apperrors"
	"github.com/farellandr/mealpass/internal/gateway"
	"github.com/farellandr/mealpass/internal/helpers"
)

type PaymentValidationRequest struct {
	GatewayID string `json:"gateway_id"`
	Amount    int64  `json:"amount"`
}

func (h *Handler) ListGateways(c *gin.Context) {
	c.JSON(http.StatusOK, h.Gateway.Gateways())
}

func (h *Handler) GetGateway(c *gin.Context) {
	g, ok := h.Gateway.Gateway(c.Param("id"))
	if !ok {
		helpers.RespondWithDomainError(c, apperrors.NewNotFound(apperrors.KindGatewayMissing, c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, g)
}

// ValidatePayment reports every problem with a prospective gateway payment
// without charging anything.
func (h *Handler) ValidatePayment(c *gin.Context) {
	var req PaymentValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}
	c.JSON(http.StatusOK, h.Gateway.ValidateRequest(gateway.Request{
		GatewayID: req.GatewayID,
		Amount:    req.Amount,
	}))
}

func (h *Handler) GetPaymentStatus(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	status, err := h.Gateway.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	if status.UserID != userID {
		helpers.RespondWithDomainError(c, apperrors.NewNotFound(apperrors.KindPaymentMissing, c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, status)
}
