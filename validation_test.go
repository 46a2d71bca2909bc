package morph

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	m := New()
	m.AddValidation(TypeOf[personDTO](), "Name", Required()).
		AddValidation(TypeOf[personDTO](), "Age", Predicate(func(v any) bool {
			return v.(int) >= 18
		}, "must be an adult"))

	tests := []struct {
		name      string
		v         any
		wantField string
		wantMsg   string
	}{
		{"valid", &personDTO{Name: "a", Age: 20}, "", ""},
		{"missing name", &personDTO{Age: 20}, "Name", "is required"},
		{"minor", personDTO{Name: "a", Age: 3}, "Age", "must be an adult"},
		{"first failure wins", &personDTO{}, "Name", "is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.Validate(context.Background(), tt.v)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if ve.Type != "personDTO" || ve.Field != tt.wantField || ve.Message != tt.wantMsg {
				t.Errorf("ValidationError = %+v", ve)
			}
		})
	}
}

func TestValidate_RuleOrderAndCause(t *testing.T) {
	var order []string
	rule := func(name string, err error) Rule {
		return Rule{
			Check: func(context.Context, any) (bool, error) {
				order = append(order, name)
				return err == nil, err
			},
			Message: name,
		}
	}
	broken := errors.New("lookup failed")

	m := New()
	m.AddValidation(TypeOf[personDTO](), "Name", rule("first", nil)).
		AddValidation(TypeOf[personDTO](), "Name", rule("second", broken)).
		AddValidation(TypeOf[personDTO](), "Name", rule("third", nil))

	err := m.Validate(context.Background(), &personDTO{})
	if strings.Join(order, ",") != "first,second" {
		t.Errorf("rules ran as %v", order)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || !errors.Is(ve.Cause, broken) {
		t.Errorf("expected cause to be kept, got %v", err)
	}
}

func TestValidate_KeyAndName(t *testing.T) {
	m := New()
	m.AddValidation(TypeOf[renamed](), "userName", Required())
	m.AddValidation(TypeOf[renamed](), "Middle", Required())

	err := m.Validate(context.Background(), &renamed{Middle: "x"})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "userName" {
		t.Fatalf("rule by key not applied: %v", err)
	}

	err = m.Validate(context.Background(), &renamed{UserName: "a"})
	if !errors.As(err, &ve) || ve.Field != "middle" {
		t.Errorf("rule by Go name not applied: %v", err)
	}
}

func TestValidate_Cancelled(t *testing.T) {
	m := New()
	m.AddValidation(TypeOf[personDTO](), "Name", Required())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Validate(ctx, &personDTO{Name: "a"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRequired(t *testing.T) {
	check := Required().Check
	for _, v := range []any{nil, Undefined, "", 0, (*int)(nil)} {
		if ok, _ := check(context.Background(), v); ok {
			t.Errorf("Required accepted %v", v)
		}
	}
	for _, v := range []any{"x", 1, []int{}} {
		if ok, _ := check(context.Background(), v); !ok {
			t.Errorf("Required rejected %v", v)
		}
	}
}
