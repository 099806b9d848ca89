package readers

import (
	"errors"
	"fmt"

	"hrinsight/internal/domain/stats"
)

var (
	// ErrDataUnavailable marks infrastructure failures, never an empty result.
	ErrDataUnavailable = errors.New("storage unavailable")
	ErrNotFound        = errors.New("record not found")
	ErrInvalidPeriod   = fmt.Errorf("%w: period end is before period start", stats.ErrMalformedInput)
)

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDataUnavailable, op, err)
}
