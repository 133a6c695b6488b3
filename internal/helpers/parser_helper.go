package helpers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/mealpass/internal/models"
)

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// UserID returns the authenticated user, or writes a 401 and returns false.
func UserID(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return "", false
	}
	return userID, true
}

// SlotParams reads the :date and :meal path parameters. The values are
// validated further down by the reservation manager.
func SlotParams(c *gin.Context) (string, models.MealType) {
	meal, ok := models.ParseMeal(c.Param("meal"))
	if !ok {
		meal = models.MealType(c.Param("meal"))
	}
	return c.Param("date"), meal
}
