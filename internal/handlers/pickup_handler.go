package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/mealpass/internal/helpers"
	"github.com/farellandr/mealpass/internal/models"
	"github.com/farellandr/mealpass/internal/receipt"
)

type RedeemRequest struct {
	Code   string `json:"code"`
	QRData string `json:"qr_data"`
}

func (h *Handler) paidSlot(c *gin.Context) (*models.MealReservation, bool) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return nil, false
	}
	date, meal := helpers.SlotParams(c)
	slot, err := h.Reservations.Slot(c.Request.Context(), userID, date, meal)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return nil, false
	}
	if slot.FaramushiCode == "" {
		helpers.RespondWithError(c, http.StatusConflict, "Reservation is not paid yet.")
		return nil, false
	}
	return slot, true
}

func (h *Handler) GetPickupQR(c *gin.Context) {
	slot, ok := h.paidSlot(c)
	if !ok {
		return
	}
	png, err := h.Receipts.QRCode(slot)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) GetReceipt(c *gin.Context) {
	slot, ok := h.paidSlot(c)
	if !ok {
		return
	}
	holder := slot.UserID
	if user, err := h.Users.Get(c.Request.Context(), slot.UserID); err == nil {
		holder = receipt.HolderName(user.Name, user.Username, slot.UserID)
	}
	pdf, err := h.Receipts.PDF(slot, holder)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate receipt")
		return
	}
	c.Header("Content-Disposition", "attachment; filename=receipt-"+slot.FaramushiCode+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// RedeemPickup is used at the counter with either the five-digit code or the
// signed QR payload.
func (h *Handler) RedeemPickup(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Code == "" && req.QRData == "") {
		helpers.RespondWithError(c, http.StatusBadRequest, "Either code or qr_data is required.")
		return
	}

	code, reservationID := req.Code, ""
	if req.QRData != "" {
		ticket, err := h.Receipts.Verify(req.QRData)
		if errors.Is(err, receipt.ErrInvalidSignature) {
			helpers.RespondWithError(c, http.StatusForbidden, "Invalid QR code signature")
			return
		}
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid QR code format")
			return
		}
		code, reservationID = ticket.Code, ticket.ReservationID
	}

	slot, err := h.Reservations.RedeemTicket(c.Request.Context(), code, reservationID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Meal handed over successfully",
		"reservation": slot,
	})
}
