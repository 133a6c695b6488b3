package helpers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/mealpass/internal/apperrors"
)

type ErrorResponse struct {
	Error      string   `json:"error"`
	Message    string   `json:"message"`
	Kind       string   `json:"kind,omitempty"`
	Violations []string `json:"violations,omitempty"`
}

func HTTPStatusText(code int) string {
	return http.StatusText(code)
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   HTTPStatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithDomainError maps the typed errors of the reservation and
// payment flows onto HTTP statuses. Anything unrecognised is a 500.
func RespondWithDomainError(c *gin.Context, err error) {
	var (
		validation *apperrors.ValidationError
		funds      *apperrors.InsufficientFundsError
		payment    *apperrors.PaymentError
		notFound   *apperrors.NotFoundError
		conflict   *apperrors.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		status := http.StatusBadRequest
		switch validation.Kind {
		case apperrors.KindSlotLocked, apperrors.KindTerminal, apperrors.KindDuplicateUser:
			status = http.StatusConflict
		}
		c.JSON(status, ErrorResponse{
			Error:      HTTPStatusText(status),
			Message:    validation.Error(),
			Kind:       validation.Kind,
			Violations: validation.Violations,
		})
	case errors.As(err, &funds):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":    HTTPStatusText(http.StatusPaymentRequired),
			"message":  funds.Error(),
			"kind":     "insufficient-balance",
			"balance":  funds.Balance,
			"required": funds.Required,
		})
	case errors.As(err, &payment):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":          HTTPStatusText(http.StatusPaymentRequired),
			"message":        payment.Error(),
			"kind":           payment.Kind,
			"transaction_id": payment.TransactionID,
		})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   HTTPStatusText(http.StatusNotFound),
			Message: notFound.Error(),
			Kind:    notFound.Kind,
		})
	case errors.As(err, &conflict):
		RespondWithError(c, http.StatusConflict, "Another request for this account is in progress. Please retry.")
	default:
		_ = c.Error(err)
		RespondWithError(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
	}
}
