package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/mealpass/internal/helpers"
	"github.com/farellandr/mealpass/internal/models"
)

type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

func newProfile(u *models.User) Profile {
	return Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		Language:  u.Language,
		CreatedAt: u.CreatedAt,
	}
}

type LanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	user, err := h.Users.Get(c.Request.Context(), userID)
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
		"user":    newProfile(user),
		"balance": balance,
	})
}

func (h *Handler) SetLanguage(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	var req LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}
	settings, err := h.Users.SetLanguage(c.Request.Context(), userID, req.Language)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) GetNotificationPreferences(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	prefs, err := h.Notifications.Preferences(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *Handler) UpdateNotificationPreferences(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	var prefs models.NotificationPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}
	if err := h.Notifications.SetPreferences(c.Request.Context(), userID, prefs); err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}
