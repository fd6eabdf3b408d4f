package accounting

import "github.com/Alijeyrad/clinicdesk_backend/pkg/apperr"

var (
	ErrBlankDescription  = apperr.Validation("description must not be blank")
	ErrNonPositiveAmount = apperr.Validation("amount must be greater than zero")
	ErrAmountTooLarge    = apperr.Validation("amount exceeds 9,999,999,999.99")
	ErrInvalidDate       = apperr.Validation("date must be formatted YYYY-MM-DD")
	ErrInvalidMonth      = apperr.Validation("month must be formatted YYYY-MM")
	ErrInvalidYear       = apperr.Validation("year must be between 2000 and 2100")
	ErrIncomeNotFound    = apperr.NotFound("income entry not found")
	ErrExpenseNotFound   = apperr.NotFound("expense not found")
)
