package client

import (
	"errors"
	"fmt"
)

// Errors the registry and lifecycle surface to callers. Policy failures
// predicted locally and failures reported by the server unwrap to the same
// sentinels, so callers never need to care which side caught the problem.
var (
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid invitation token")
	ErrInvitationUnusable = errors.New("invitation expired or already processed")
	ErrAlreadyMember      = errors.New("already a member of household")
	ErrRequestInFlight    = errors.New("request already in flight for token")
)

// APIError is a structured failure decoded from the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap maps server error codes onto the client taxonomy so errors.Is
// works across the wire boundary.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "forbidden":
		return ErrForbidden
	case "not_found", "household_not_found", "member_not_found", "invitation_not_found":
		return ErrNotFound
	case "validation_error", "invalid_request", "invalid_json":
		return ErrValidation
	case "invalid_token":
		return ErrInvalidToken
	case "invitation_unusable", "duplicate_invitation":
		return ErrInvitationUnusable
	case "already_member":
		return ErrAlreadyMember
	case "unauthorized":
		return ErrUnauthorized
	}
	return nil
}
