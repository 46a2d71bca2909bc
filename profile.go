package morph

import (
	"fmt"
)

// Profile groups related registrations.
type Profile interface {
	Configure(m *Mapper) error
}

// ProfileFunc adapts a function to Profile.
type ProfileFunc func(m *Mapper) error

// Configure implements Profile.
func (f ProfileFunc) Configure(m *Mapper) error {
	return f(m)
}

// AddProfile configures each profile in order, stopping at the first error.
func (m *Mapper) AddProfile(profiles ...Profile) error {
	for _, p := range profiles {
		if err := p.Configure(m); err != nil {
			return err
		}
	}
	return nil
}

// ProfileConfig is the declarative form of a profile.
//
//	name: users
//	mappings:
//	  - source: User
//	    destination: UserDTO
//	    fields:
//	      Contact: Email
//	    ignore: [Password]
//	    skipNulls: true
//	    naming: {from: snake_case, to: camelCase}
//	    reverse: true
type ProfileConfig struct {
	Name     string          `json:"name" yaml:"name" msgpack:"name" bson:"name"`
	Mappings []MappingConfig `json:"mappings" yaml:"mappings" msgpack:"mappings" bson:"mappings"`
}

// MappingConfig declares one mapping. Types are referenced by name.
type MappingConfig struct {
	Source        string            `json:"source" yaml:"source" msgpack:"source" bson:"source"`
	Destination   string            `json:"destination" yaml:"destination" msgpack:"destination" bson:"destination"`
	Fields        map[string]string `json:"fields,omitempty" yaml:"fields,omitempty" msgpack:"fields,omitempty" bson:"fields,omitempty"` // destination key -> source key
	Ignore        []string          `json:"ignore,omitempty" yaml:"ignore,omitempty" msgpack:"ignore,omitempty" bson:"ignore,omitempty"`
	Include       []string          `json:"include,omitempty" yaml:"include,omitempty" msgpack:"include,omitempty" bson:"include,omitempty"`
	SkipNulls     bool              `json:"skipNulls,omitempty" yaml:"skipNulls,omitempty" msgpack:"skipNulls,omitempty" bson:"skipNulls,omitempty"`
	SkipUndefined bool              `json:"skipUndefined,omitempty" yaml:"skipUndefined,omitempty" msgpack:"skipUndefined,omitempty" bson:"skipUndefined,omitempty"`
	DeepClone     bool              `json:"deepClone,omitempty" yaml:"deepClone,omitempty" msgpack:"deepClone,omitempty" bson:"deepClone,omitempty"`
	Strict        bool              `json:"strict,omitempty" yaml:"strict,omitempty" msgpack:"strict,omitempty" bson:"strict,omitempty"`
	Cache         *bool             `json:"cache,omitempty" yaml:"cache,omitempty" msgpack:"cache,omitempty" bson:"cache,omitempty"`
	Naming        *NamingConfig     `json:"naming,omitempty" yaml:"naming,omitempty" msgpack:"naming,omitempty" bson:"naming,omitempty"`
	Reverse       bool              `json:"reverse,omitempty" yaml:"reverse,omitempty" msgpack:"reverse,omitempty" bson:"reverse,omitempty"`
}

// NamingConfig is the declarative form of NamingConversion.
type NamingConfig struct {
	From string `json:"from" yaml:"from" msgpack:"from" bson:"from"`
	To   string `json:"to" yaml:"to" msgpack:"to" bson:"to"`
}

// LoadProfile decodes a ProfileConfig with c and resolves its type names
// against types. Unknown types and naming styles are reported here rather
// than when the profile is added.
func LoadProfile(c Codec, data []byte, types ...Type) (Profile, error) {
	var cfg ProfileConfig
	if err := c.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("decode %s profile: %v", c.ContentType(), err)}
	}
	return cfg.Compile(types...)
}

// Compile resolves the config into a Profile.
func (cfg ProfileConfig) Compile(types ...Type) (Profile, error) {
	byName := make(map[string]Type, len(types))
	for _, t := range types {
		byName[t.Name()] = t
	}

	type resolved struct {
		src, dst Type
		fields   Fields
		opts     Options
		reverse  bool
	}
	mappings := make([]resolved, 0, len(cfg.Mappings))

	for _, mc := range cfg.Mappings {
		src, ok := byName[mc.Source]
		if !ok {
			return nil, &ConfigurationError{Source: mc.Source, Destination: mc.Destination, Reason: fmt.Sprintf("profile %q: unknown source type", cfg.Name)}
		}
		dst, ok := byName[mc.Destination]
		if !ok {
			return nil, &ConfigurationError{Source: mc.Source, Destination: mc.Destination, Reason: fmt.Sprintf("profile %q: unknown destination type", cfg.Name)}
		}

		r := resolved{
			src:     src,
			dst:     dst,
			fields:  make(Fields, len(mc.Fields)),
			reverse: mc.Reverse,
			opts: Options{
				SkipNulls:     mc.SkipNulls,
				SkipUndefined: mc.SkipUndefined,
				DeepClone:     mc.DeepClone,
				Strict:        mc.Strict,
				Ignore:        mc.Ignore,
				Include:       mc.Include,
			},
		}
		for dest, from := range mc.Fields {
			r.fields[dest] = From(from)
		}
		if mc.Cache != nil {
			r.opts.Cache = &CacheOptions{Enabled: *mc.Cache}
		}
		if mc.Naming != nil {
			from, err := ParseNamingStyle(mc.Naming.From)
			if err != nil {
				return nil, err
			}
			to, err := ParseNamingStyle(mc.Naming.To)
			if err != nil {
				return nil, err
			}
			r.opts.ConvertNaming = &NamingConversion{From: from, To: to}
		}
		mappings = append(mappings, r)
	}

	return ProfileFunc(func(m *Mapper) error {
		for _, r := range mappings {
			m.CreateMap(r.src, r.dst, r.fields, r.opts)
			if r.reverse {
				if err := m.CreateReverseMap(r.src, r.dst); err != nil {
					return err
				}
			}
		}
		return nil
	}), nil
}
