// Package receipt renders the pickup QR code and PDF receipt of a paid
// reservation and verifies QR payloads presented at the counter.
package receipt

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/farellandr/mealpass/internal/models"
)

var (
	ErrNotPaid          = errors.New("reservation has no pickup code")
	ErrInvalidPayload   = errors.New("invalid QR data format")
	ErrInvalidSignature = errors.New("invalid QR code signature")
)

// Ticket is what a verified QR payload claims.
type Ticket struct {
	ReservationID string
	UserID        string
	Code          string
}

type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

func (s *Signer) signature(reservationID, userID, code string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(fmt.Sprintf("%s:%s:%s", reservationID, userID, code)))
	return hex.EncodeToString(h.Sum(nil))
}

// Payload encodes the pickup claim carried by the QR code.
func (s *Signer) Payload(r *models.MealReservation) (string, error) {
	if r.FaramushiCode == "" {
		return "", ErrNotPaid
	}
	return fmt.Sprintf("reservation:%s;user:%s;code:%s;signature:%s",
		r.ID, r.UserID, r.FaramushiCode, s.signature(r.ID, r.UserID, r.FaramushiCode)), nil
}

func (s *Signer) Verify(payload string) (*Ticket, error) {
	parts := strings.Split(strings.TrimSpace(payload), ";")
	prefixes := []string{"reservation:", "user:", "code:", "signature:"}
	if len(parts) != len(prefixes) {
		return nil, ErrInvalidPayload
	}
	values := make([]string, len(parts))
	for i, p := range parts {
		if !strings.HasPrefix(p, prefixes[i]) {
			return nil, ErrInvalidPayload
		}
		values[i] = strings.TrimPrefix(p, prefixes[i])
	}

	t := &Ticket{ReservationID: values[0], UserID: values[1], Code: values[2]}
	expected := s.signature(t.ReservationID, t.UserID, t.Code)
	if !hmac.Equal([]byte(expected), []byte(values[3])) {
		return nil, ErrInvalidSignature
	}
	return t, nil
}

func (s *Signer) QRCode(r *models.MealReservation) ([]byte, error) {
	payload, err := s.Payload(r)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(payload, qrcode.Medium, 256)
}

// latin1 reports whether the core PDF fonts can draw every rune of text.
func latin1(text string) bool {
	for _, r := range text {
		if r >= 0x80 && (r < 0xA0 || r > 0xFF) {
			return false
		}
	}
	return true
}

// HolderName returns the first non-empty candidate the receipt font can
// render, or the last candidate when none can.
func HolderName(candidates ...string) string {
	last := ""
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if latin1(c) {
			return c
		}
		last = c
	}
	return last
}

// PDF lays out a one-page receipt with the pickup QR code.
func (s *Signer) PDF(r *models.MealReservation, holder string) ([]byte, error) {
	qrPNG, err := s.QRCode(r)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Meal Reservation Receipt")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	lines := []string{
		fmt.Sprintf("Name: %s", holder),
		fmt.Sprintf("Date: %s (%s)", r.Date, r.Meal),
		fmt.Sprintf("Food: %s", r.FoodName),
		fmt.Sprintf("Restaurant: %s", r.RestaurantName),
		fmt.Sprintf("Price: %d toman", r.Price),
	}
	if r.DiscountAmount != nil {
		lines = append(lines, fmt.Sprintf("Discount: %s (%d%%, was %d)", r.DiscountCode, *r.DiscountAmount, r.OriginalPrice))
	}
	lines = append(lines,
		fmt.Sprintf("Paid with: %s", r.PaymentMethod),
		fmt.Sprintf("Status: %s", r.Status),
	)
	for _, line := range lines {
		pdf.Cell(0, 8, tr(line))
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(0, 12, "Pickup code: "+r.FaramushiCode)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 95, 20, 40, 40, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
