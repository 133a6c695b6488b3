package handlers

import (
	"github.com/farellandr/mealpass/internal/catalog"
	"github.com/farellandr/mealpass/internal/discount"
	"github.com/farellandr/mealpass/internal/gateway"
	"github.com/farellandr/mealpass/internal/ledger"
	"github.com/farellandr/mealpass/internal/logger"
	"github.com/farellandr/mealpass/internal/notify"
	"github.com/farellandr/mealpass/internal/receipt"
	"github.com/farellandr/mealpass/internal/reservation"
	"github.com/farellandr/mealpass/internal/users"
)

// Handler serves the HTTP API on top of the services built in server.Start.
type Handler struct {
	Users         *users.Service
	Catalog       *catalog.Provider
	Discounts     *discount.Engine
	Gateway       *gateway.Simulator
	Ledger        *ledger.Ledger
	Reservations  *reservation.Manager
	Notifications *notify.Service
	Hub           *notify.Hub
	Receipts      *receipt.Signer
	Log           *logger.Logger
}
