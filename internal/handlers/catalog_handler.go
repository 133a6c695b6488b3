package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/mealpass/internal/helpers"
	"github.com/farellandr/mealpass/internal/models"
)

// ListFoods accepts an optional ?meal=breakfast|lunch|dinner filter.
func (h *Handler) ListFoods(c *gin.Context) {
	var meal models.MealType
	if q := c.Query("meal"); q != "" {
		parsed, ok := models.ParseMeal(q)
		if !ok {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid meal. Use breakfast, lunch or dinner.")
			return
		}
		meal = parsed
	}

	foods, err := h.Catalog.Foods(c.Request.Context(), meal)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	if foods == nil {
		foods = []models.FoodItem{}
	}
	c.JSON(http.StatusOK, foods)
}

func (h *Handler) ListRestaurants(c *gin.Context) {
	restaurants, err := h.Catalog.Restaurants(c.Request.Context())
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	if restaurants == nil {
		restaurants = []models.Restaurant{}
	}
	c.JSON(http.StatusOK, restaurants)
}

func (h *Handler) GetDiscount(c *gin.Context) {
	code := c.Param("code")
	pct, ok := h.Discounts.Lookup(code)
	if !ok {
		helpers.RespondWithError(c, http.StatusNotFound, "Discount code not found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    code,
		"percent": pct,
	})
}
