// Package catalog serves the food and restaurant reference data.
package catalog

import (
	"context"
	"fmt"

	"github.com/farellandr/mealpass/internal/apperrors"
	"github.com/farellandr/mealpass/internal/models"
	"github.com/farellandr/mealpass/internal/store"
)

type Provider struct {
	store store.Store
}

func NewProvider(s store.Store) *Provider {
	return &Provider{store: s}
}

// Seed writes the default catalog for every key that is not present yet.
func (p *Provider) Seed(ctx context.Context) error {
	return p.store.Update(ctx, func(tx store.Tx) error {
		var foods []models.FoodItem
		found, err := store.GetJSON(ctx, tx, store.FoodsKey, &foods)
		if err != nil {
			return err
		}
		if !found {
			if err := store.SetJSON(ctx, tx, store.FoodsKey, defaultFoods()); err != nil {
				return err
			}
		}

		var restaurants []models.Restaurant
		found, err = store.GetJSON(ctx, tx, store.RestaurantsKey, &restaurants)
		if err != nil {
			return err
		}
		if !found {
			return store.SetJSON(ctx, tx, store.RestaurantsKey, defaultRestaurants())
		}
		return nil
	})
}

// Foods lists the catalog, optionally narrowed to one meal category.
func (p *Provider) Foods(ctx context.Context, category models.MealType) ([]models.FoodItem, error) {
	var foods []models.FoodItem
	if _, err := store.GetJSON(ctx, p.store, store.FoodsKey, &foods); err != nil {
		return nil, fmt.Errorf("load foods: %w", err)
	}
	if category == "" {
		return foods, nil
	}
	filtered := make([]models.FoodItem, 0, len(foods))
	for _, f := range foods {
		if f.Category == category {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

func (p *Provider) Restaurants(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if _, err := store.GetJSON(ctx, p.store, store.RestaurantsKey, &restaurants); err != nil {
		return nil, fmt.Errorf("load restaurants: %w", err)
	}
	return restaurants, nil
}

// Food resolves a food by id or by its English or Persian name.
func (p *Provider) Food(ctx context.Context, ref string) (*models.FoodItem, error) {
	foods, err := p.Foods(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range foods {
		if foods[i].ID == ref || foods[i].Name.Matches(ref) {
			return &foods[i], nil
		}
	}
	return nil, apperrors.NewNotFound(apperrors.KindFoodMissing, ref)
}

func (p *Provider) Restaurant(ctx context.Context, ref string) (*models.Restaurant, error) {
	restaurants, err := p.Restaurants(ctx)
	if err != nil {
		return nil, err
	}
	for i := range restaurants {
		if restaurants[i].ID == ref || restaurants[i].Name.Matches(ref) {
			return &restaurants[i], nil
		}
	}
	return nil, apperrors.NewNotFound(apperrors.KindRestaurantMissing, ref)
}
