package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto the
// response envelope and HTTP status codes.
var (
	ErrValidation         = errors.New("validation failed")
	ErrPartnerNotFound    = errors.New("partner not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateQRCode    = errors.New("duplicate QR code")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is inactive")
)
