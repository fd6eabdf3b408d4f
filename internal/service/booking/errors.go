package booking

import "github.com/Alijeyrad/clinicdesk_backend/pkg/apperr"

var (
	ErrNotFound       = apperr.NotFound("booking not found")
	ErrReportNotFound = apperr.NotFound("patient report not found")
	ErrReportExists   = apperr.Conflict("patient report already exists for this booking")

	ErrMissingFields            = apperr.Validation("Missing required fields: name, phone, date")
	ErrBlankName                = apperr.Validation("name must not be blank")
	ErrBlankPhone               = apperr.Validation("phone must not be blank")
	ErrInvalidEmail             = apperr.Validation("email must be a valid email address")
	ErrNameTooLong              = apperr.Validation("name must be at most 100 characters")
	ErrNotesTooLong             = apperr.Validation("notes must be at most 2000 characters")
	ErrInvalidDate              = apperr.Validation("date must be an ISO 8601 date or date-time")
	ErrNegativeAmount           = apperr.Validation("amount must not be negative")
	ErrAmountTooLarge           = apperr.Validationf("amount must be less than %s", maxAmount)
	ErrInvalidStatus            = apperr.Validation("status must be one of pending, confirmed, cancelled, rejected")
	ErrInvalidExaminationStatus = apperr.Validation("examination status must be one of waiting, done")
	ErrInvalidVisitType         = apperr.Validation("visit type must be one of checkup, followup")
	ErrInvalidType              = apperr.Validation("booking type must be one of online, clinic")
	ErrMissingCondition         = apperr.Validation("medicalCondition is required")
	ErrMedicationName           = apperr.Validation("every medication with a dosage needs a name")
	ErrTransitionNotAllowed     = apperr.Validation("status transition not allowed")
)
