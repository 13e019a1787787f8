package mc

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAlgorithm indicates an algorithm name missing from the registry.
	ErrUnknownAlgorithm = errors.New("mc: unknown algorithm")

	// ErrInvalidConfig indicates a driver configuration outside its valid range.
	ErrInvalidConfig = errors.New("mc: invalid config")

	// ErrNilModel indicates a step or run requested without a model.
	ErrNilModel = errors.New("mc: nil model")
)

// ConfigError names the offending Config field.
type ConfigError struct {
	Field string
	Value any
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s = %v", ErrInvalidConfig, e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
