package usecase

import crerr "github.com/cockroachdb/errors"

var (
	ErrInvalidInput             = crerr.New("invalid input")
	ErrNotFound                 = crerr.New("resource not found")
	ErrInvalidState             = crerr.New("invalid competition state")
	ErrMissingConfiguration     = crerr.New("missing configuration")
	ErrInsufficientParticipants = crerr.New("insufficient participants")
	ErrInvalidConfiguration     = crerr.New("invalid configuration")
	ErrUnsupportedSystem        = crerr.New("unsupported competition system")
	ErrInvalidMatchState        = crerr.New("invalid match state")
	ErrInvalidMetric            = crerr.New("invalid stats metric")
	ErrInconsistency            = crerr.New("structure inconsistency")
	ErrUnauthorized             = crerr.New("unauthorized")
	ErrDependencyUnavailable    = crerr.New("dependency unavailable")
)
