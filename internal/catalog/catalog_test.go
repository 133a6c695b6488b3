package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/farellandr/mealpass/internal/apperrors"
	"github.com/farellandr/mealpass/internal/models"
	"github.com/farellandr/mealpass/internal/store"
)

func seeded(t *testing.T) (*Provider, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	p := NewProvider(s)
	if err := p.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return p, s
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	p, s := seeded(t)

	custom := []models.FoodItem{{ID: "only", Name: models.LocalizedText{En: "Only"}, Category: models.Lunch}}
	if err := store.SetJSON(ctx, s, store.FoodsKey, custom); err != nil {
		t.Fatal(err)
	}
	if err := p.Seed(ctx); err != nil {
		t.Fatal(err)
	}
	foods, err := p.Foods(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(foods) != 1 || foods[0].ID != "only" {
		t.Fatalf("seed overwrote existing foods: %+v", foods)
	}
}

func TestFoodsByCategory(t *testing.T) {
	p, _ := seeded(t)
	lunch, err := p.Foods(context.Background(), models.Lunch)
	if err != nil {
		t.Fatal(err)
	}
	if len(lunch) == 0 {
		t.Fatal("expected lunch items")
	}
	for _, f := range lunch {
		if f.Category != models.Lunch {
			t.Errorf("%s has category %s", f.ID, f.Category)
		}
	}
}

func TestFoodLookup(t *testing.T) {
	ctx := context.Background()
	p, _ := seeded(t)

	for _, ref := range []string{"food-chelo-kabab", "Chelo Kabab", "chelo kabab", "چلوکباب"} {
		f, err := p.Food(ctx, ref)
		if err != nil {
			t.Fatalf("Food(%q): %v", ref, err)
		}
		if f.Price != 45000 {
			t.Errorf("Food(%q).Price = %d", ref, f.Price)
		}
	}

	_, err := p.Food(ctx, "Pizza")
	var nf *apperrors.NotFoundError
	if !errors.As(err, &nf) || nf.Kind != apperrors.KindFoodMissing {
		t.Fatalf("expected food-missing, got %v", err)
	}
}

func TestRestaurantHours(t *testing.T) {
	p, _ := seeded(t)
	r, err := p.Restaurant(context.Background(), "rest-engineering")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.OpenFor(models.Lunch); !ok {
		t.Error("engineering cafeteria should serve lunch")
	}
	if _, ok := r.OpenFor(models.Dinner); ok {
		t.Error("engineering cafeteria should not serve dinner")
	}
}
