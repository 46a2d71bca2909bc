package morph

import (
	"context"
	"encoding/json"
	"strings"
)

type person struct {
	Name string
	Age  int
	Nick *string
}

type personDTO struct {
	Name string
	Age  int
}

type personView struct {
	FullName string
	Years    int
}

type address struct {
	City string
	Zip  string
}

type addressDTO struct {
	City string
}

type customer struct {
	Name     string
	Home     *address
	Previous []address
}

type customerDTO struct {
	Name     string
	Home     *addressDTO  `map.nested:"true"`
	Previous []addressDTO `map.nested:"true"`
	City     string       `map.from:"Home.City" map.transform:"upper"`
}

type renamed struct {
	UserName string `map:"userName"`
	Middle   string `map:"middle"`
}

type described struct {
	Name  string
	Town  string
	Label string
}

func (described) MappingDescriptor() Descriptor {
	return Descriptor{
		"Town":  {SourcePath: "Home.City"},
		"Label": {SourcePath: "Name", TransformName: TransformLower},
	}
}

func upper(s string) string { return strings.ToUpper(s) }

func strPtr(s string) *string { return &s }

// testCodec is a JSON codec for tests that cannot import morph/json.
type testCodec struct{}

func (testCodec) ContentType() string { return "application/json" }

func (testCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (testCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// nameFn returns a field function that reports each call.
func nameFn(calls *int) Field {
	return ComputeCtx(func(_ context.Context, p person) (any, error) {
		*calls++
		return p.Name, nil
	})
}
