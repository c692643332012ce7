package application

import (
	"errors"
	"fmt"

	"github.com/oksasatya/volunteer-hub/internal/domain/access"
	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
)

// Classification sentinels. Services wrap them with a user-visible reason,
// e.g. fmt.Errorf("%w: event not found", ErrNotFound).
var (
	ErrValidation        = errors.New("validation error")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrEventNotApproved  = errors.New("event not approved")
	ErrAlreadyLiked      = errors.New("already liked")
	ErrUnavailable       = errors.New("feature unavailable")
)

// ErrInvalidCredentials is returned for any failed login or refresh.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)

// Reason returns the user-visible part of err: the text after the sentinel.
func Reason(err error) string {
	msg := err.Error()
	for _, s := range []error{
		ErrValidation, ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrInvalidState,
		ErrAlreadyRegistered, ErrEventNotApproved, ErrAlreadyLiked, ErrUnavailable,
	} {
		prefix := s.Error() + ": "
		if errors.Is(err, s) && len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

// denied turns a guard decision into a classified error, nil when allowed.
func denied(d access.Decision) error {
	if d.Allowed {
		return nil
	}
	var base error
	switch d.Code {
	case access.CodeUnauthenticated:
		base = ErrUnauthenticated
	case access.CodeState:
		base = ErrInvalidState
	case access.CodeNotApproved:
		base = ErrEventNotApproved
	case access.CodeDuplicate:
		base = ErrAlreadyRegistered
	default:
		base = ErrForbidden
	}
	return fmt.Errorf("%w: %s", base, d.Reason)
}

// lookup maps repository.ErrNotFound to a NotFound error naming what.
func lookup(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundf("%s not found", what)
	}
	return err
}
