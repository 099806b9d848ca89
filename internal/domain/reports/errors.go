package reports

import (
	"errors"
	"fmt"

	"hrinsight/internal/domain/stats"
)

var (
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported export format", stats.ErrMalformedInput)
	ErrInvalidMonths     = fmt.Errorf("%w: months must be between 1 and 12", stats.ErrMalformedInput)
	ErrHistoryUnset      = errors.New("export history store not configured")
)
