package postgres

import (
	"errors"

	"github.com/lib/pq"

	apperrors "github.com/jwalitptl/kiliniks-api/pkg/errors"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// errNoRow aborts a write transaction whose target row does not exist.
var errNoRow = errors.New("row not found")

// classify turns constraint violations into conflicts; everything else is
// returned unchanged.
func classify(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case uniqueViolation:
		return apperrors.Conflict("resource already exists", err)
	case foreignKeyViolation:
		return apperrors.Conflict("referenced resource does not exist", err)
	}
	return err
}
