package benchmark

import (
	"errors"
	"fmt"

	"hrinsight/internal/domain/readers"
)

var (
	ErrInvalidScope        = errors.New("invalid benchmark scope")
	ErrNoEmployeesInScope  = errors.New("no employees found in selected scope")
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrBenchmarkStoreUnset = errors.New("benchmark store not configured")
)

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", readers.ErrDataUnavailable, op, err)
}
