package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/mealpass/internal/helpers"
)

type RechargeRequest struct {
	Amount    int64  `json:"amount" binding:"required"`
	GatewayID string `json:"gateway_id" binding:"required"`
}

func (h *Handler) GetWallet(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	balance, err := h.Ledger.Balance(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	txs, err := h.Ledger.Transactions(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (h *Handler) Recharge(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	var req RechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	credit, result, err := h.Ledger.Recharge(c.Request.Context(), userID, req.Amount, req.GatewayID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	balance, err := h.Ledger.Balance(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transaction": credit,
		"payment":     result,
		"balance":     balance,
	})
}
