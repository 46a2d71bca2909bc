package morph

import (
	"fmt"

	"github.com/ettle/strcase"
)

//go:generate go tool stringer -type=NamingStyle -linecomment -output=naming_string.go

// NamingStyle identifies an identifier naming convention.
type NamingStyle uint8

const (
	CamelCase  NamingStyle = iota // camelCase
	SnakeCase                     // snake_case
	PascalCase                    // PascalCase
	KebabCase                     // kebab-case
)

// NamingConversion renames source keys during default copy.
type NamingConversion struct {
	From NamingStyle
	To   NamingStyle
}

// ConvertName converts name between naming styles.
//
// Word boundaries are detected from case changes and separators regardless
// of from, so empty segments ("__a", "a--b") collapse instead of producing
// empty words. from is used to short-circuit identity conversions.
func ConvertName(name string, from, to NamingStyle) string {
	if name == "" || from == to {
		return name
	}
	switch to {
	case CamelCase:
		return strcase.ToCamel(name)
	case SnakeCase:
		return strcase.ToSnake(name)
	case PascalCase:
		return strcase.ToPascal(name)
	case KebabCase:
		return strcase.ToKebab(name)
	default:
		return name
	}
}

// ParseNamingStyle parses the string form of a NamingStyle.
func ParseNamingStyle(s string) (NamingStyle, error) {
	for style := CamelCase; style <= KebabCase; style++ {
		if style.String() == s {
			return style, nil
		}
	}
	return 0, &ConfigurationError{Reason: fmt.Sprintf("unknown naming style %q", s)}
}

// UnmarshalText implements encoding.TextUnmarshaler for config files.
func (s *NamingStyle) UnmarshalText(text []byte) error {
	style, err := ParseNamingStyle(string(text))
	if err != nil {
		return err
	}
	*s = style
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s NamingStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
