package invitation

import "errors"

var (
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrInvitationUnusable  = errors.New("invitation expired or already processed")
	ErrInvalidToken        = errors.New("invalid invitation token")
	ErrDuplicateInvitation = errors.New("pending invitation already exists for email")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidRole         = errors.New("invalid invitation role")
	ErrEmailMismatch       = errors.New("invitation addressed to a different email")
)
