package stats

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is the base of every input rejection raised before data is read.
var ErrMalformedInput = errors.New("malformed input")

var ErrNegativeWeight = fmt.Errorf("%w: weights must not be negative", ErrMalformedInput)
