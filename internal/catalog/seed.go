package catalog

import "github.com/farellandr/mealpass/internal/models"

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func defaultFoods() []models.FoodItem {
	return []models.FoodItem{
		{
			ID:          "food-omelette",
			Name:        models.LocalizedText{En: "Omelette", Fa: "املت"},
			Description: models.LocalizedText{En: "Tomato omelette with bread", Fa: "املت گوجه با نان"},
			Price:       18000,
			Category:    models.Breakfast,
			Nutrition:   models.Nutrition{Calories: 320, Protein: 14, Carbs: 22, Fat: 19},
			Available:   true,
			Vegetarian:  true,
		},
		{
			ID:          "food-bread-cheese",
			Name:        models.LocalizedText{En: "Bread and Cheese", Fa: "نان و پنیر"},
			Description: models.LocalizedText{En: "Feta, walnuts and herbs", Fa: "پنیر، گردو و سبزی"},
			Price:       12000,
			Category:    models.Breakfast,
			Nutrition:   models.Nutrition{Calories: 280, Protein: 11, Carbs: 30, Fat: 12},
			Available:   true,
			Popular:     true,
			Vegetarian:  true,
		},
		{
			ID:          "food-adasi",
			Name:        models.LocalizedText{En: "Adasi", Fa: "عدسی"},
			Description: models.LocalizedText{En: "Lentil stew", Fa: "خوراک عدس"},
			Price:       15000,
			Category:    models.Breakfast,
			Nutrition:   models.Nutrition{Calories: 250, Protein: 13, Carbs: 38, Fat: 4},
			Available:   false,
			Vegetarian:  true,
		},
		{
			ID:          "food-chelo-kabab",
			Name:        models.LocalizedText{En: "Chelo Kabab", Fa: "چلوکباب"},
			Description: models.LocalizedText{En: "Rice with grilled minced kebab", Fa: "برنج با کباب کوبیده"},
			Price:       45000,
			Category:    models.Lunch,
			Nutrition:   models.Nutrition{Calories: 780, Protein: 38, Carbs: 85, Fat: 28},
			Available:   true,
			Popular:     true,
		},
		{
			ID:            "food-ghormeh-sabzi",
			Name:          models.LocalizedText{En: "Ghormeh Sabzi", Fa: "قورمه سبزی"},
			Description:   models.LocalizedText{En: "Herb stew with rice", Fa: "خورش سبزی با برنج"},
			Price:         40000,
			OriginalPrice: int64Ptr(44000),
			Discount:      intPtr(9),
			Category:      models.Lunch,
			Nutrition:     models.Nutrition{Calories: 690, Protein: 30, Carbs: 80, Fat: 24},
			Available:     true,
			Popular:       true,
		},
		{
			ID:          "food-vegetable-pasta",
			Name:        models.LocalizedText{En: "Vegetable Pasta", Fa: "پاستا سبزیجات"},
			Description: models.LocalizedText{En: "Penne with seasonal vegetables", Fa: "پنه با سبزیجات فصل"},
			Price:       35000,
			Category:    models.Lunch,
			Nutrition:   models.Nutrition{Calories: 560, Protein: 18, Carbs: 90, Fat: 12},
			Available:   true,
			Vegetarian:  true,
		},
		{
			ID:          "food-zereshk-polo",
			Name:        models.LocalizedText{En: "Zereshk Polo", Fa: "زرشک پلو با مرغ"},
			Description: models.LocalizedText{En: "Barberry rice with chicken", Fa: "برنج زرشک با مرغ"},
			Price:       42000,
			Category:    models.Dinner,
			Nutrition:   models.Nutrition{Calories: 720, Protein: 40, Carbs: 82, Fat: 22},
			Available:   true,
		},
		{
			ID:          "food-kashk-bademjan",
			Name:        models.LocalizedText{En: "Kashk Bademjan", Fa: "کشک بادمجان"},
			Description: models.LocalizedText{En: "Eggplant with whey and bread", Fa: "بادمجان با کشک و نان"},
			Price:       28000,
			Category:    models.Dinner,
			Nutrition:   models.Nutrition{Calories: 430, Protein: 12, Carbs: 40, Fat: 24},
			Available:   true,
			Vegetarian:  true,
		},
	}
}

func defaultRestaurants() []models.Restaurant {
	fullDay := map[models.MealType]models.HoursWindow{
		models.Breakfast: {Open: "07:00", Close: "09:30"},
		models.Lunch:     {Open: "11:30", Close: "14:30"},
		models.Dinner:    {Open: "18:30", Close: "21:00"},
	}
	return []models.Restaurant{
		{
			ID:       "rest-central",
			Name:     models.LocalizedText{En: "Central Cafeteria", Fa: "سلف مرکزی"},
			Location: models.LocalizedText{En: "Main campus", Fa: "پردیس اصلی"},
			Capacity: 400,
			Hours:    fullDay,
			Active:   true,
		},
		{
			ID:       "rest-engineering",
			Name:     models.LocalizedText{En: "Engineering Cafeteria", Fa: "سلف دانشکده فنی"},
			Location: models.LocalizedText{En: "Faculty of Engineering", Fa: "دانشکده فنی"},
			Capacity: 150,
			Hours: map[models.MealType]models.HoursWindow{
				models.Lunch: {Open: "12:00", Close: "14:00"},
			},
			Active: true,
		},
		{
			ID:       "rest-dormitory",
			Name:     models.LocalizedText{En: "Dormitory Cafeteria", Fa: "سلف خوابگاه"},
			Location: models.LocalizedText{En: "Dormitory complex", Fa: "مجتمع خوابگاهی"},
			Capacity: 250,
			Hours:    fullDay,
			Active:   false,
		},
	}
}
