package morph

import (
	"errors"
	"fmt"
	"testing"
)

func TestMappingNotFoundError(t *testing.T) {
	err := &MappingNotFoundError{Source: "User", Destination: "UserDTO"}

	if !errors.Is(err, ErrMappingNotFound) {
		t.Error("should match ErrMappingNotFound")
	}
	if err.Error() != "mapping not found: User -> UserDTO" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestMappingError(t *testing.T) {
	cause := errors.New("boom")
	err := &MappingError{Source: "User", Destination: "UserDTO", Cause: cause}

	if !errors.Is(err, ErrMappingFailed) {
		t.Error("should match ErrMappingFailed")
	}
	if !errors.Is(err, cause) {
		t.Error("should match its cause")
	}
	if err.Error() != "mapping failed: User -> UserDTO: boom" {
		t.Errorf("Error() = %q", err.Error())
	}

	bare := &MappingError{Source: "User", Destination: "UserDTO"}
	if bare.Error() != "mapping failed: User -> UserDTO" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestNewMappingError(t *testing.T) {
	inner := newMappingError("A", "B", errors.New("x"))

	if got := newMappingError("A", "B", inner); got != inner {
		t.Error("same pair should not be wrapped twice")
	}

	outer := newMappingError("C", "D", fmt.Errorf("field X: %w", inner))
	var me *MappingError
	if !errors.As(outer, &me) || me.Source != "C" {
		t.Errorf("outer error = %v", outer)
	}
}

func TestConfigurationError(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigurationError
		want string
	}{
		{"with pair", &ConfigurationError{Source: "A", Destination: "B", Reason: "bad"}, "invalid configuration: A -> B: bad"},
		{"reason only", &ConfigurationError{Reason: "bad"}, "invalid configuration: bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.want)
			}
			if !errors.Is(tt.err, ErrConfiguration) {
				t.Error("should match ErrConfiguration")
			}
		})
	}
}

func TestConfigurationError_Cause(t *testing.T) {
	err := &ConfigurationError{Reason: "bad", Cause: ErrUnknownField}
	if !errors.Is(err, ErrConfiguration) || !errors.Is(err, ErrUnknownField) {
		t.Errorf("errors.Is should match both sentinels: %v", err)
	}
	if errors.Is(&ConfigurationError{Reason: "bad"}, ErrUnknownField) {
		t.Error("no cause should match only ErrConfiguration")
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Type: "UserDTO", Field: "Email", Message: "is required"}
	if err.Error() != "validation failed: UserDTO.Email: is required" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("should match ErrValidation")
	}

	withCause := &ValidationError{Type: "T", Field: "F", Message: "m", Cause: errors.New("c")}
	if withCause.Error() != "validation failed: T.F: m: c" {
		t.Errorf("Error() = %q", withCause.Error())
	}
}

func TestNewFieldError(t *testing.T) {
	err := newFieldError(ErrUnknownField, "Foo", "")
	if !errors.Is(err, ErrUnknownField) || err.Error() != "unknown field: field Foo" {
		t.Errorf("newFieldError() = %v", err)
	}

	err = newFieldError(ErrUnknownField, "Foo", "not declared on Bar")
	if err.Error() != "unknown field: field Foo: not declared on Bar" {
		t.Errorf("newFieldError() = %v", err)
	}
}
