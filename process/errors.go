package process

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every ConfigurationError
	ErrConfiguration = errors.New("analytical reference not provided")

	// ErrUnsupportedMethod is matched by every UnsupportedMethodError
	ErrUnsupportedMethod = errors.New("unsupported method")

	// ErrDimensionMismatch is matched by every DimensionMismatchError
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNoSamples is returned by statistics before any samples exist
	ErrNoSamples = errors.New("no samples generated")

	// ErrInvalidArgument flags out-of-range arguments (counts, grids, orders)
	ErrInvalidArgument = errors.New("invalid argument")
)

// ConfigurationError reports an operation that needs a generator, covariance
// function or spectrum function that was never supplied
type ConfigurationError struct {
	Op      string
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: provide %s", e.Op, e.Missing)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// UnsupportedMethodError reports a method name an operation does not know
type UnsupportedMethodError struct {
	Op     string
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("%s: unsupported method %q", e.Op, e.Method)
}

func (e *UnsupportedMethodError) Is(target error) bool {
	return target == ErrUnsupportedMethod
}

// DimensionMismatchError reports a sample row whose length differs from the
// time grid
type DimensionMismatchError struct {
	Op   string
	Row  int
	Got  int
	Want int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: row %d has %d values, time grid has %d", e.Op, e.Row, e.Got, e.Want)
}

func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}
