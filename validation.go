package morph

import (
	"context"
	"reflect"
	"sync"
)

// Rule validates one field value. Check reports whether the value is valid;
// an error from Check fails validation with that error as the cause.
type Rule struct {
	Check   func(ctx context.Context, value any) (bool, error)
	Message string
}

// Predicate builds a Rule from a plain predicate.
func Predicate(fn func(value any) bool, message string) Rule {
	return Rule{
		Check: func(_ context.Context, value any) (bool, error) {
			return fn(value), nil
		},
		Message: message,
	}
}

// Required rejects null, undefined and zero values.
func Required() Rule {
	return Predicate(func(value any) bool {
		if IsNull(value) || IsUndefined(value) {
			return false
		}
		return !reflect.ValueOf(value).IsZero()
	}, "is required")
}

// ruleTable stores rules keyed by "TypeName.field".
type ruleTable struct {
	mu    sync.RWMutex
	rules map[string][]Rule
}

func newRuleTable() *ruleTable {
	return &ruleTable{rules: make(map[string][]Rule)}
}

func (r *ruleTable) add(key string, rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[key] = append(r.rules[key], rule)
}

func (r *ruleTable) get(key string) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules[key]
}

func (r *ruleTable) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = make(map[string][]Rule)
}

// AddValidation appends a rule for a field of t. Rules run in the order they
// were added.
func (m *Mapper) AddValidation(t Type, field string, rule Rule) *Mapper {
	m.rules.add(t.Name()+"."+field, rule)
	return m
}

// Validate checks every field of v against its rules and returns a
// *ValidationError for the first rule that fails. Fields are visited in
// declaration order; a field's rules are looked up by its key, then by its
// Go name.
func (m *Mapper) Validate(ctx context.Context, v any) error {
	rt := runtimeType(v)
	name := typeName(rt)
	ti := getTypeInfo(rt)

	for _, sf := range enumerate(v) {
		rules := m.rules.get(name + "." + sf.key)
		if f, ok := ti.lookup(sf.key); ok && f.name != sf.key {
			rules = append(rules[:len(rules):len(rules)], m.rules.get(name+"."+f.name)...)
		}
		for _, rule := range rules {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := rule.Check(ctx, sf.value)
			if ok && err == nil {
				continue
			}
			verr := &ValidationError{
				Type:    name,
				Field:   sf.key,
				Message: rule.Message,
				Cause:   err,
			}
			emitValidationFailed(ctx, name, sf.key, verr)
			return verr
		}
	}
	return nil
}
