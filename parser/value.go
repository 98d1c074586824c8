package parser

import "github.com/BaSui01/llmxml/schema"

// State is the tri-state of a parsed position. The distinction between
// Unset and Invalid matters to incremental consumers: Unset means the field
// has not been seen yet, Invalid means it was seen but its text does not
// (yet) coerce to the declared scalar type.
type State uint8

const (
	// Unset means no content has been observed for this position.
	Unset State = iota
	// Invalid means content was observed but failed scalar coercion.
	Invalid
	// Valid means content was observed and coerced successfully.
	Valid
)

func (s State) String() string {
	switch s {
	case Unset:
		return "unset"
	case Invalid:
		return "invalid"
	case Valid:
		return "valid"
	default:
		return "unknown"
	}
}

// Value is the in-progress value tree assembled for one descriptor. Its
// shape always matches the descriptor's kind. A Value is owned by the parse
// call that produced it; the parser retains nothing across calls.
type Value struct {
	// Desc is the descriptor this value instantiates. Union branch values
	// carry the branch alternative's descriptor.
	Desc *schema.Descriptor

	State State

	// Open reports that this position was still unterminated when input
	// ended. Open values may gain content on a later, longer parse.
	Open bool

	// Scalar leaves.
	Raw    string // accumulated text, outer whitespace trimmed
	Scalar any    // coerced value: string, int64, float64, bool, or enum literal
	Reason string // coercion failure reason when State == Invalid

	// Objects. Fields holds only the children actually observed; a
	// declared-but-unseen field is absent, not zero-valued.
	Fields map[string]*Value
	Order  []string // field insertion order

	// Lists.
	Items []*Value

	// Unions. Branch is empty until a matching alternative tag commits it.
	Branch string
	Child  *Value

	closedExplicitly bool
}

// Closed reports whether this position was terminated by its own closing
// tag, as opposed to being implied closed by an enclosing boundary or left
// open at end of input.
func (v *Value) Closed() bool {
	return v.closedExplicitly
}

// FieldValue returns the observed child for an object field tag, or nil if
// the field has not been seen.
func (v *Value) FieldValue(name string) *Value {
	if v == nil || v.Fields == nil {
		return nil
	}
	return v.Fields[name]
}

// FieldState reports the tri-state of an object field tag; unseen fields
// are Unset.
func (v *Value) FieldState(name string) State {
	fv := v.FieldValue(name)
	if fv == nil {
		return Unset
	}
	return fv.State
}

func (v *Value) setField(name string, fv *Value) {
	if v.Fields == nil {
		v.Fields = make(map[string]*Value)
	}
	if _, seen := v.Fields[name]; !seen {
		v.Order = append(v.Order, name)
	}
	v.Fields[name] = fv
}

// Interface renders the value tree as plain Go data: objects become maps,
// lists become slices, scalars become their coerced value (or raw text when
// invalid), committed unions become their branch value. Intended for
// declaratively-built descriptors where no Go struct type exists.
func (v *Value) Interface() any {
	if v == nil {
		return nil
	}
	switch v.Desc.Inner().Kind {
	case schema.KindScalar:
		if v.State == Valid {
			return v.Scalar
		}
		if v.Raw != "" {
			return v.Raw
		}
		return nil
	case schema.KindObject:
		m := make(map[string]any, len(v.Order))
		for _, name := range v.Order {
			m[name] = v.Fields[name].Interface()
		}
		return m
	case schema.KindList:
		items := make([]any, 0, len(v.Items))
		for _, item := range v.Items {
			items = append(items, item.Interface())
		}
		return items
	case schema.KindUnion:
		if v.Branch == "" {
			return nil
		}
		return map[string]any{v.Branch: v.Child.Interface()}
	default:
		return nil
	}
}

// Result is the externally visible output of one parse call.
type Result struct {
	// Value is the assembled (possibly partial) value tree.
	Value *Value

	// LastOpen names the chain of positions still open when input ended,
	// outermost first. Empty for a fully closed document. Incremental UIs
	// use it to highlight the leaf currently being produced.
	LastOpen []string
}

// lastOpenPath walks the rightmost open spine of the tree.
func lastOpenPath(v *Value) []string {
	var path []string
	for v != nil && v.Open {
		switch v.Desc.Inner().Kind {
		case schema.KindUnion:
			if v.Branch == "" {
				return append(path, v.Desc.Inner().Name)
			}
			// The committed branch carries its own tag name.
			v = v.Child
		case schema.KindObject:
			path = append(path, v.Desc.Inner().Name)
			if len(v.Order) == 0 {
				return path
			}
			v = v.Fields[v.Order[len(v.Order)-1]]
		case schema.KindList:
			path = append(path, v.Desc.Inner().Name)
			if len(v.Items) == 0 {
				return path
			}
			v = v.Items[len(v.Items)-1]
		default:
			return append(path, v.Desc.Inner().Name)
		}
	}
	return path
}
