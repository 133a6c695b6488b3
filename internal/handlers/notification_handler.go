package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/farellandr/mealpass/internal/helpers"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ListNotifications accepts an optional ?limit=N.
func (h *Handler) ListNotifications(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	feed, err := h.Notifications.List(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	if q := c.Query("limit"); q != "" {
		limit, err := helpers.StringToInt(q)
		if err != nil || limit < 0 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
			return
		}
		if limit < len(feed) {
			feed = feed[:limit]
		}
	}
	c.JSON(http.StatusOK, feed)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	n, err := h.Notifications.MarkRead(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) NotificationsWS(c *gin.Context) {
	userID, ok := helpers.UserID(c)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	h.Hub.Serve(userID, conn)
}
