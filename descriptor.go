package morph

// FieldMeta holds the annotation facts for one destination field.
type FieldMeta struct {
	// SourcePath is a dotted path resolved against the source value.
	SourcePath string

	// Nested returns the destination type the source sub-value is mapped to.
	// Slices of sub-values are mapped element by element.
	Nested func() Type

	// Transform converts the resolved value before assignment.
	Transform Transformer

	// TransformName names a transformer in the provider's table. Ignored
	// when Transform is set.
	TransformName string

	// Auto marks the field for resolution from the same-named source field
	// even when no other fact is set.
	Auto bool
}

// IsZero reports whether no fact is set.
func (f FieldMeta) IsZero() bool {
	return f.SourcePath == "" && f.Nested == nil && f.Transform == nil && f.TransformName == "" && !f.Auto
}

// overlay returns f with every fact set in o applied on top.
func (f FieldMeta) overlay(o FieldMeta) FieldMeta {
	if o.SourcePath != "" {
		f.SourcePath = o.SourcePath
	}
	if o.Nested != nil {
		f.Nested = o.Nested
	}
	if o.Transform != nil {
		f.Transform = o.Transform
		f.TransformName = ""
	}
	if o.TransformName != "" {
		f.TransformName = o.TransformName
		f.Transform = nil
	}
	if o.Auto {
		f.Auto = true
	}
	return f
}

// Descriptor maps destination field keys to their annotation facts.
type Descriptor map[string]FieldMeta

// Describer lets a destination type declare its annotations in code instead
// of struct tags. The method is called on the zero value, once per
// registration, and overrides tag facts field by field.
//
//	func (UserDTO) MappingDescriptor() morph.Descriptor {
//	    return morph.Descriptor{
//	        "City":    {SourcePath: "Address.City"},
//	        "Friends": {Nested: morph.TypeOf[FriendDTO]},
//	    }
//	}
type Describer interface {
	MappingDescriptor() Descriptor
}
