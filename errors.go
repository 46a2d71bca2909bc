package morph

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrMappingNotFound indicates no mapping is registered for a type pair.
	ErrMappingNotFound = errors.New("mapping not found")

	// ErrMappingFailed indicates a compiled mapping or one of its hooks failed.
	ErrMappingFailed = errors.New("mapping failed")

	// ErrConfiguration indicates an invalid mapper configuration.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrValidation indicates a validation rule rejected a field value.
	ErrValidation = errors.New("validation failed")

	// ErrIncompatibleValue indicates a value cannot be assigned to a destination field.
	ErrIncompatibleValue = errors.New("incompatible value")

	// ErrUnknownField indicates a field name that does not exist on the destination type.
	ErrUnknownField = errors.New("unknown field")

	// ErrTransform indicates a value transformer failed.
	ErrTransform = errors.New("transform failed")

	// ErrInvalidKey indicates an encryption key has invalid size or format.
	ErrInvalidKey = errors.New("invalid key")

	// ErrBinding indicates a binder could not decode or encode a payload.
	ErrBinding = errors.New("binding failed")
)

// MappingNotFoundError is returned when Map is called for an unregistered type pair.
type MappingNotFoundError struct {
	Source      string
	Destination string
}

func (e *MappingNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrMappingNotFound.Error(), e.Source, e.Destination)
}

func (e *MappingNotFoundError) Unwrap() error {
	return ErrMappingNotFound
}

// MappingError wraps any failure raised while executing a compiled mapping
// or its before/after hooks. The original failure is available through Cause
// and through errors.Is / errors.As.
type MappingError struct {
	Source      string
	Destination string
	Cause       error
}

func (e *MappingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s -> %s: %v", ErrMappingFailed.Error(), e.Source, e.Destination, e.Cause)
	}
	return fmt.Sprintf("%s: %s -> %s", ErrMappingFailed.Error(), e.Source, e.Destination)
}

func (e *MappingError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrMappingFailed}
	}
	return []error{ErrMappingFailed, e.Cause}
}

// ConfigurationError represents an invalid registration request.
type ConfigurationError struct {
	Source      string
	Destination string
	Reason      string
	Cause       error // More specific failure, such as an ErrUnknownField
}

func (e *ConfigurationError) Error() string {
	if e.Source != "" || e.Destination != "" {
		return fmt.Sprintf("%s: %s -> %s: %s", ErrConfiguration.Error(), e.Source, e.Destination, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrConfiguration.Error(), e.Reason)
}

func (e *ConfigurationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrConfiguration, e.Cause}
	}
	return []error{ErrConfiguration}
}

// ValidationError reports the first rule that rejected a field.
type ValidationError struct {
	Type    string
	Field   string
	Message string
	Cause   error // Error returned by the rule itself, if any
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s.%s: %s: %v", ErrValidation.Error(), e.Type, e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s.%s: %s", ErrValidation.Error(), e.Type, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// newMappingError wraps cause unless it already describes the same type pair.
func newMappingError(source, destination string, cause error) error {
	var me *MappingError
	if errors.As(cause, &me) && me.Source == source && me.Destination == destination {
		return cause
	}
	return &MappingError{
		Source:      source,
		Destination: destination,
		Cause:       cause,
	}
}

// newFieldError annotates a sentinel with the destination field.
func newFieldError(sentinel error, field string, detail string) error {
	if detail == "" {
		return fmt.Errorf("%w: field %s", sentinel, field)
	}
	return fmt.Errorf("%w: field %s: %s", sentinel, field, detail)
}
