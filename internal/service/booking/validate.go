package booking

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinicdesk_backend/pkg/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// contactFields holds the free-text parts of a booking after trimming.
type contactFields struct {
	Name  string `validate:"max=100"`
	Email string `validate:"omitempty,email,max=254"`
	Notes string `validate:"max=2000"`
}

func checkContact(name, email, notes string) error {
	err := validate.Struct(contactFields{Name: name, Email: email, Notes: notes})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation(err.Error())
	}
	switch verrs[0].Field() {
	case "Email":
		return ErrInvalidEmail
	case "Name":
		return ErrNameTooLong
	default:
		return ErrNotesTooLong
	}
}

// maxAmount bounds amount_paid so every accepted value fits a Decimal128 and
// the ledger's numeric(12,2) column.
var maxAmount = decimal.New(1, 10)

// checkAmount rounds to cents and rejects negative or oversized amounts.
func checkAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	amount = amount.Round(2)
	if amount.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, ErrAmountTooLarge
	}
	return amount, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
