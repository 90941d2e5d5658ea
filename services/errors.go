package services

import "errors"

// Ошибки сервисного слоя. Ошибки хранилища (not found, duplicate, already
// byed) пробрасываются из repositories как есть.
var (
	ErrValidationFailed  = errors.New("validation failed")
	ErrSelfMatch         = errors.New("a player cannot be matched against themself")
	ErrStandingsDiverged = errors.New("participant counters diverge from the match log")

	ErrExportDisabled = errors.New("standings export storage is not configured")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthDisabled       = errors.New("token issuing is disabled")
)
