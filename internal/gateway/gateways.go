package gateway

import "github.com/farellandr/mealpass/internal/models"

func DefaultGateways() []models.PaymentGateway {
	return []models.PaymentGateway{
		{
			ID:             "zarinpal",
			Name:           models.LocalizedText{En: "ZarinPal", Fa: "زرین‌پال"},
			Fee:            1000,
			SuccessRate:    98,
			ProcessingTime: 2000,
			Active:         true,
		},
		{
			ID:             "mellat",
			Name:           models.LocalizedText{En: "Bank Mellat", Fa: "بانک ملت"},
			Fee:            1500,
			SuccessRate:    95,
			ProcessingTime: 3000,
			Active:         true,
		},
		{
			ID:             "saman",
			Name:           models.LocalizedText{En: "Saman Bank", Fa: "بانک سامان"},
			Fee:            1200,
			SuccessRate:    96,
			ProcessingTime: 2500,
			Active:         true,
		},
		{
			ID:             "idpay",
			Name:           models.LocalizedText{En: "IDPay", Fa: "آیدی‌پی"},
			Fee:            500,
			SuccessRate:    90,
			ProcessingTime: 1500,
			Active:         true,
		},
		{
			ID:             "parsian",
			Name:           models.LocalizedText{En: "Parsian Bank", Fa: "بانک پارسیان"},
			Fee:            800,
			SuccessRate:    92,
			ProcessingTime: 3500,
			Active:         false,
		},
	}
}
