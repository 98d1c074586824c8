package schema

// Explicit descriptor builders for hand-declared schemas. Fields are required
// by default, matching the derivation rules; wrap with Optional or call
// AsOptional to relax that.

// String declares a required string scalar.
func String(name, description string) *Descriptor {
	return &Descriptor{Name: name, Kind: KindScalar, Scalar: ScalarString, Description: description, Required: true}
}

// Int declares a required integer scalar.
func Int(name, description string) *Descriptor {
	return &Descriptor{Name: name, Kind: KindScalar, Scalar: ScalarInt, Description: description, Required: true}
}

// Float declares a required floating point scalar.
func Float(name, description string) *Descriptor {
	return &Descriptor{Name: name, Kind: KindScalar, Scalar: ScalarFloat, Description: description, Required: true}
}

// Bool declares a required boolean scalar.
func Bool(name, description string) *Descriptor {
	return &Descriptor{Name: name, Kind: KindScalar, Scalar: ScalarBool, Description: description, Required: true}
}

// Enum declares a required scalar coerced by exact literal match.
func Enum(name, description string, literals ...string) *Descriptor {
	return &Descriptor{Name: name, Kind: KindScalar, Scalar: ScalarEnum, Description: description, Required: true, Enum: literals}
}

// Object declares a record with the given ordered fields.
func Object(name, description string, fields ...*Descriptor) *Descriptor {
	return &Descriptor{Name: name, Kind: KindObject, Description: description, Required: true, Fields: fields}
}

// List declares an ordered sequence whose elements bind to elem's tag name.
func List(name, description string, elem *Descriptor) *Descriptor {
	return &Descriptor{Name: name, Kind: KindList, Description: description, Required: true, Elem: elem}
}

// Union declares a tagged choice between the given alternatives. Each
// alternative's Name is the tag that commits the union to that branch;
// tags must be unique within one union.
func Union(name, description string, alternatives ...*Descriptor) *Descriptor {
	return &Descriptor{Name: name, Kind: KindUnion, Description: description, Required: true, Alternatives: alternatives}
}

// Optional wraps a descriptor so that absence at finalization yields
// "absent" rather than an error, in both modes.
func Optional(inner *Descriptor) *Descriptor {
	return &Descriptor{Name: inner.Name, Kind: KindOptional, Description: inner.Description, Required: false, Elem: inner}
}

// WithTypeName sets the source type name used by prompt rendering
// ("# Option 1: CreateAction") and returns the descriptor for chaining.
func (d *Descriptor) WithTypeName(name string) *Descriptor {
	d.TypeName = name
	return d
}

// AsOptional marks the descriptor non-required without changing its shape.
func (d *Descriptor) AsOptional() *Descriptor {
	d.Required = false
	return d
}
