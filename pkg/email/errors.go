package email

import "errors"

var (
	// ErrDisabled is returned by Send when email.enabled is false.
	ErrDisabled       = errors.New("email is disabled")
	ErrInvalidMessage = errors.New("invalid email message")
	ErrSend           = errors.New("email send failed")
)
