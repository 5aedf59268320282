package core

import (
	"errors"
	"fmt"
)

// Domain errors - the three failure classes of a profiling run
var (
	// ErrParse reports an upload that is not well-formed delimited text
	ErrParse = errors.New("malformed CSV upload")
	// ErrImputation reports a table the imputer cannot work with
	ErrImputation = errors.New("imputation failed")
	// ErrInvalidArgument reports a chart request outside the allowed selections
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error constructors with context
func NewParseError(line int, reason string) error {
	if line > 0 {
		return fmt.Errorf("%w: line %d: %s", ErrParse, line, reason)
	}
	return fmt.Errorf("%w: %s", ErrParse, reason)
}

func NewImputationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrImputation, reason)
}

func NewInvalidArgumentError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, field, reason)
}

// Error checking helpers
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}

func IsImputationError(err error) bool {
	return errors.Is(err, ErrImputation)
}

func IsInvalidArgumentError(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
