package morph

import (
	"fmt"
	"reflect"
	"time"
)

// Result is the outcome of MapWithMetadata.
type Result struct {
	Data     any
	Metadata Metadata
}

// Metadata describes one mapping call.
type Metadata struct {
	Source      string
	Destination string

	// Mapped lists the source keys whose destination field is set.
	Mapped []string

	// Skipped lists the source keys with no set destination field.
	Skipped []string

	Duration time.Duration
	Err      error
}

// MapWithMetadata runs Map and reports which source keys reached the
// destination. A failure is recorded in the metadata and also returned.
func (m *Mapper) MapWithMetadata(src any, dst Type, opts ...CallOption) (*Result, error) {
	start := time.Now()
	out, err := m.Map(src, dst, opts...)

	res := &Result{
		Data: out,
		Metadata: Metadata{
			Source:      typeName(runtimeType(src)),
			Destination: dst.Name(),
			Duration:    time.Since(start),
			Err:         err,
		},
	}

	set := make(map[string]bool)
	if err == nil {
		dv := indirect(reflect.ValueOf(out))
		for _, f := range getTypeInfo(dv.Type()).fields {
			fv, ferr := dv.FieldByIndexErr(f.index)
			if ferr == nil && !fv.IsZero() {
				set[f.key] = true
				set[f.name] = true
			}
		}
	}
	for _, sf := range enumerate(src) {
		if set[sf.key] {
			res.Metadata.Mapped = append(res.Metadata.Mapped, sf.key)
		} else {
			res.Metadata.Skipped = append(res.Metadata.Skipped, sf.key)
		}
	}
	return res, err
}

// Condition overlays values onto a mapped destination when When holds.
type Condition struct {
	When func(src any) bool
	Map  func(src any) (map[string]any, error)
}

// MapConditional maps src to dst, then applies each condition in order,
// assigning the keys its Map returns onto the result. A later condition
// overwrites fields set by an earlier one. The result is never served from
// or stored in the instance cache.
func (m *Mapper) MapConditional(src any, dst Type, conds []Condition, opts ...CallOption) (any, error) {
	out, err := m.Map(src, dst, append(opts, WithoutCache())...)
	if err != nil {
		return nil, err
	}

	dv := indirect(reflect.ValueOf(out))
	ti := getTypeInfo(dv.Type())
	for _, cond := range conds {
		if cond.When == nil || cond.Map == nil || !cond.When(src) {
			continue
		}
		values, err := cond.Map(src)
		if err != nil {
			return nil, newMappingError(typeName(runtimeType(src)), dst.Name(), err)
		}
		for key, value := range values {
			f, ok := ti.lookup(key)
			if !ok {
				f, ok = ti.lookup(exportedName(key))
			}
			if !ok {
				continue
			}
			if err := assign(fieldByIndex(dv, f.index), value); err != nil {
				return nil, newMappingError(typeName(runtimeType(src)), dst.Name(), fmt.Errorf("field %s: %w", key, err))
			}
		}
	}
	return out, nil
}
