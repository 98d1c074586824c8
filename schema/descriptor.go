package schema

import (
	"fmt"
	"reflect"

	"github.com/BaSui01/llmxml/types"
)

// Kind discriminates the five descriptor shapes.
type Kind uint8

const (
	KindScalar Kind = iota
	KindObject
	KindList
	KindUnion
	KindOptional
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	case KindUnion:
		return "union"
	case KindOptional:
		return "optional"
	default:
		return "unknown"
	}
}

// ScalarType declares the primitive a scalar descriptor coerces to.
type ScalarType uint8

const (
	ScalarString ScalarType = iota
	ScalarInt
	ScalarFloat
	ScalarBool
	ScalarEnum
)

func (s ScalarType) String() string {
	switch s {
	case ScalarString:
		return "str"
	case ScalarInt:
		return "int"
	case ScalarFloat:
		return "float"
	case ScalarBool:
		return "bool"
	case ScalarEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Descriptor describes one position of a schema: the tag name it binds to,
// its shape, and the nested descriptors that shape implies. Descriptors are
// immutable once built; builders and derivation return fresh trees.
type Descriptor struct {
	// Name is the tag name this position binds to. For union alternatives it
	// is the alternative's tag.
	Name string

	Kind        Kind
	Scalar      ScalarType // meaningful when Kind == KindScalar
	Description string     // prompt generation only

	// Required marks whether an object finalized without this field is a
	// final-mode error. It is meaningful on descriptors that appear inside
	// an object's Fields.
	Required bool

	// TypeName is the source type's name when one exists ("CreateAction").
	// Used for prompt rendering; empty for anonymous declarations.
	TypeName string

	// Enum holds the literal set for ScalarEnum descriptors.
	Enum []string

	// Fields is the ordered child set of an object.
	Fields []*Descriptor

	// Elem is the element descriptor of a list, or the inner descriptor of
	// an optional.
	Elem *Descriptor

	// Alternatives is the ordered branch set of a union, each keyed by its
	// own Name.
	Alternatives []*Descriptor

	// Type is the Go type this descriptor was derived from, when it was
	// derived via reflection. Nil for declarative trees.
	Type reflect.Type

	// Index is the struct field index path for reflect-derived object fields.
	Index []int
}

// Inner unwraps optional descriptors to the descriptor that actually binds
// content. It returns the receiver for every other kind.
func (d *Descriptor) Inner() *Descriptor {
	if d.Kind == KindOptional && d.Elem != nil {
		return d.Elem.Inner()
	}
	return d
}

// Field returns the object field bound to the given tag name, or nil.
func (d *Descriptor) Field(name string) *Descriptor {
	for _, f := range d.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Alternative returns the union branch bound to the given tag name, or nil.
// When duplicate tags slipped past validation, the first-declared branch wins.
func (d *Descriptor) Alternative(name string) *Descriptor {
	for _, a := range d.Alternatives {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Validate checks the structural invariants of the tree: no cycles, no
// duplicate tags within one object or union, and no empty composites.
// A violation is a DescriptorError: it indicates a broken supplier upstream,
// not malformed input, and always aborts parsing.
func (d *Descriptor) Validate() error {
	return d.validate(make(map[*Descriptor]bool), d.Name)
}

func (d *Descriptor) validate(ancestors map[*Descriptor]bool, path string) error {
	if d == nil {
		return types.NewError(types.ErrDescriptor, "nil descriptor").WithField(path)
	}
	if ancestors[d] {
		return types.NewError(types.ErrDescriptor, "descriptor references its own ancestor").WithField(path)
	}
	ancestors[d] = true
	defer delete(ancestors, d)

	switch d.Kind {
	case KindScalar:
		if d.Scalar == ScalarEnum && len(d.Enum) == 0 {
			return types.NewError(types.ErrDescriptor, "enum scalar declares no literals").WithField(path)
		}
	case KindObject:
		seen := make(map[string]bool, len(d.Fields))
		for _, f := range d.Fields {
			if f == nil || f.Inner().Name == "" {
				return types.NewError(types.ErrDescriptor, "object field has no tag name").WithField(path)
			}
			name := f.Inner().Name
			if seen[name] {
				return types.NewError(types.ErrDescriptor, fmt.Sprintf("duplicate field tag %q", name)).WithField(path)
			}
			seen[name] = true
			if err := f.validate(ancestors, path+"."+name); err != nil {
				return err
			}
		}
	case KindList:
		if d.Elem == nil {
			return types.NewError(types.ErrDescriptor, "list has no element descriptor").WithField(path)
		}
		if err := d.Elem.validate(ancestors, path+"[]"); err != nil {
			return err
		}
	case KindUnion:
		if len(d.Alternatives) == 0 {
			return types.NewError(types.ErrDescriptor, "union declares no alternatives").WithField(path)
		}
		seen := make(map[string]bool, len(d.Alternatives))
		for _, a := range d.Alternatives {
			if a == nil || a.Name == "" {
				return types.NewError(types.ErrDescriptor, "union alternative has no tag name").WithField(path)
			}
			if seen[a.Name] {
				return types.NewError(types.ErrDescriptor, fmt.Sprintf("duplicate union tag %q", a.Name)).WithField(path)
			}
			seen[a.Name] = true
			if err := a.validate(ancestors, path+"|"+a.Name); err != nil {
				return err
			}
		}
	case KindOptional:
		if d.Elem == nil {
			return types.NewError(types.ErrDescriptor, "optional has no inner descriptor").WithField(path)
		}
		if err := d.Elem.validate(ancestors, path); err != nil {
			return err
		}
	default:
		return types.NewError(types.ErrDescriptor, fmt.Sprintf("unknown descriptor kind %d", d.Kind)).WithField(path)
	}
	return nil
}
