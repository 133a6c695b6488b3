package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/mealpass/internal/helpers"
	"github.com/farellandr/mealpass/internal/models"
)

type SelectMealRequest struct {
	Field string `json:"field" binding:"required,oneof=food restaurant"`
	Value string `json:"value" binding:"required"`
}

type DiscountRequest struct {
	Code string `json:"code" binding:"required"`
}

type PayRequest struct {
	Method    models.PaymentMethod `json:"method" binding:"required"`
	GatewayID string               `json:"gateway_id"`
}

// GetSchedule returns seven days starting at ?start=YYYY-MM-DD, today by default.
func (h *Handler) GetSchedule(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	start := c.DefaultQuery("start", time.Now().Format("2006-01-02"))
	week, err := h.Reservations.WeeklySchedule(c.Request.Context(), userID, start)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

func (h *Handler) ListReservations(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	list, err := h.Reservations.Reservations(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) SelectMeal(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	var req SelectMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Field must be food or restaurant.")
		return
	}

	date, meal := helpers.SlotParams(c)
	slot, err := h.Reservations.SelectMeal(c.Request.Context(), userID, date, meal, req.Field, req.Value)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (h *Handler) ConfirmReservation(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	date, meal := helpers.SlotParams(c)
	quote, err := h.Reservations.ConfirmReservation(c.Request.Context(), userID, date, meal)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handler) ApplyDiscount(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	var req DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}
	date, meal := helpers.SlotParams(c)
	slot, err := h.Reservations.ApplyDiscount(c.Request.Context(), userID, date, meal, req.Code)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (h *Handler) PayReservation(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}
	date, meal := helpers.SlotParams(c)
	outcome, err := h.Reservations.PayReservation(c.Request.Context(), userID, date, meal, req.Method, req.GatewayID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *Handler) CancelReservation(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	date, meal := helpers.SlotParams(c)
	outcome, err := h.Reservations.CancelReservation(c.Request.Context(), userID, date, meal)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}
