package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidState      = errors.New("invalid state")
	ErrChallengeNotFound = errors.New("no otp requested for this phone")
	ErrChallengeMismatch = errors.New("invalid otp")
	ErrRateLimited       = errors.New("rate limited")
)

var (
	ErrTableNotFound  = fmt.Errorf("table %w", ErrNotFound)
	ErrBidNotFound    = fmt.Errorf("bid %w", ErrNotFound)
	ErrMemberNotFound = fmt.Errorf("approved member %w", ErrNotFound)
	ErrNotTableHost   = fmt.Errorf("%w: not your table", ErrForbidden)
	ErrNotBidOwner    = fmt.Errorf("%w: not your bid", ErrForbidden)
)
