package receipt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/farellandr/mealpass/internal/models"
)

func paidReservation() *models.MealReservation {
	pct := 20
	return &models.MealReservation{
		ID:             "res-1",
		UserID:         "user-1",
		Date:           "2026-10-17",
		Meal:           models.Lunch,
		FoodName:       "Ghormeh Sabzi",
		RestaurantName: "Central Cafeteria",
		OriginalPrice:  40000,
		Price:          32000,
		DiscountCode:   "WELCOME20",
		DiscountAmount: &pct,
		FaramushiCode:  "48213",
		Status:         models.StatusPaid,
		Paid:           true,
		PaymentMethod:  models.MethodWallet,
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	s := NewSigner("secret")
	payload, err := s.Payload(paidReservation())
	if err != nil {
		t.Fatal(err)
	}
	ticket, err := s.Verify(payload)
	if err != nil {
		t.Fatal(err)
	}
	if ticket.ReservationID != "res-1" || ticket.UserID != "user-1" || ticket.Code != "48213" {
		t.Errorf("ticket = %+v", ticket)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	s := NewSigner("secret")
	payload, _ := s.Payload(paidReservation())

	forged := strings.Replace(payload, "code:48213", "code:48214", 1)
	if _, err := s.Verify(forged); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("forged code: %v", err)
	}
	if _, err := NewSigner("other").Verify(payload); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("foreign key: %v", err)
	}
	if _, err := s.Verify("purchase:1;ticket:2"); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("garbage: %v", err)
	}
}

func TestUnpaidReservationHasNoQRCode(t *testing.T) {
	r := paidReservation()
	r.FaramushiCode = ""
	if _, err := NewSigner("secret").QRCode(r); !errors.Is(err, ErrNotPaid) {
		t.Errorf("err = %v", err)
	}
}

func TestRenderQRAndPDF(t *testing.T) {
	s := NewSigner("secret")
	png, err := s.QRCode(paidReservation())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("QR code is not a PNG")
	}

	pdf, err := s.PDF(paidReservation(), "Sara Ahmadi")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("receipt is not a PDF")
	}
}

func TestHolderNameFallsBackForPersianNames(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{[]string{"Sara Ahmadi", "sara"}, "Sara Ahmadi"},
		{[]string{"سارا احمدی", "sara"}, "sara"},
		{[]string{"René Müller", "rene"}, "René Müller"},
		{[]string{"سارا", "سارا", "user-1"}, "user-1"},
		{[]string{"", "  ", "sara"}, "sara"},
	}
	for _, c := range cases {
		if got := HolderName(c.in...); got != c.want {
			t.Errorf("HolderName(%q) = %q; want %q", c.in, got, c.want)
		}
	}

	pdf, err := NewSigner("secret").PDF(paidReservation(), HolderName("سارا احمدی", "sara"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("receipt is not a PDF")
	}
}
