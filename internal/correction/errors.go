package correction

import (
	"errors"
	"fmt"
)

// ErrMissingInput is matched by every request shape failure.
var ErrMissingInput = errors.New("missing input")

// MissingInputError reports a request field that is absent, duplicated or unusable.
type MissingInputError struct {
	Field  string
	Reason string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *MissingInputError) Unwrap() error { return ErrMissingInput }
