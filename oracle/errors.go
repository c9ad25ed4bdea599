package oracle

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
	multierror "github.com/hashicorp/go-multierror"
)

// ErrorCode identifies the category of a DomainError, mirroring the
// enumerated failure reasons askrene.c's command handlers report.
type ErrorCode int

const (
	ErrUnknownLayer ErrorCode = iota
	ErrReservationOverflow
	ErrReservationUnderflow
	ErrChannelMismatch
	ErrConstraintAmbiguous
)

func (c ErrorCode) String() string {
	switch c {
	case ErrUnknownLayer:
		return "unknown_layer"
	case ErrReservationOverflow:
		return "reservation_overflow"
	case ErrReservationUnderflow:
		return "reservation_underflow"
	case ErrChannelMismatch:
		return "channel_mismatch"
	case ErrConstraintAmbiguous:
		return "constraint_ambiguous"
	default:
		return "unknown"
	}
}

// ParamError reports a malformed or missing request parameter. It is
// always the caller's fault and never wraps a stack trace, matching
// spec.md §7's split between parameter errors and domain errors.
type ParamError struct {
	Field string
	Msg   string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("parameter %q: %s", e.Field, e.Msg)
}

// DomainError reports a failure in the oracle's own state: an unknown
// layer, a reservation that over/underflowed, a channel redeclared
// with mismatched endpoints, or a constraint fold that could not be
// resolved unambiguously. Every DomainError is wrapped with
// go-errors/errors so a diagnostic stack trace survives across package
// boundaries (spec.md §7's expanded error-handling requirement).
type DomainError struct {
	Code ErrorCode
	Msg  string
	err  *goerrors.Error
}

func newDomainError(code ErrorCode, format string, args ...interface{}) *DomainError {
	msg := fmt.Sprintf(format, args...)
	return &DomainError{
		Code: code,
		Msg:  msg,
		err:  goerrors.Wrap(fmt.Errorf("%s: %s", code, msg), 1),
	}
}

func (e *DomainError) Error() string {
	return e.err.Error()
}

// Stack returns the captured stack trace, for diagnostic logging.
func (e *DomainError) Stack() []byte {
	return e.err.Stack()
}

// validationErrors aggregates multiple ParamErrors from a single
// request into one reportable error, the way CreateChannel must check
// every field of a LocalChannel before reporting (spec.md §4.9).
func validationErrors(errs ...*ParamError) error {
	var merr *multierror.Error
	for _, e := range errs {
		if e != nil {
			merr = multierror.Append(merr, e)
		}
	}
	return merr.ErrorOrNil()
}
