package household

import "errors"

var (
	ErrHouseholdNotFound = errors.New("household not found")
	ErrMemberNotFound    = errors.New("member not found")
	ErrNotMember         = errors.New("not a member of household")
	ErrForbidden         = errors.New("forbidden")
	ErrOwnerCannotLeave  = errors.New("owner cannot leave household")
	ErrAlreadyMember     = errors.New("already a member of household")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidCurrency   = errors.New("invalid currency code")
)
