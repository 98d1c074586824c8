package schema

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/BaSui01/llmxml/types"
)

// FromJSONSchema converts a JSON Schema (as produced by
// github.com/invopop/jsonschema reflection, or declared by hand) into a
// descriptor tree rooted at the given tag name. Property order is preserved,
// $defs references are resolved against the root schema, and oneOf/anyOf
// object choices become unions tagged by the snake_case of each branch title.
func FromJSONSchema(s *jsonschema.Schema, name string) (*Descriptor, error) {
	d, err := fromJSONSchema(s, s, name, "")
	if err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func fromJSONSchema(root, s *jsonschema.Schema, name, description string) (*Descriptor, error) {
	if s == nil {
		return nil, types.NewError(types.ErrDescriptor, "nil JSON schema").WithField(name)
	}
	if s.Ref != "" {
		resolved, refName, err := resolveRef(root, s.Ref)
		if err != nil {
			return nil, err
		}
		d, err := fromJSONSchema(root, resolved, name, description)
		if err != nil {
			return nil, err
		}
		if d.TypeName == "" {
			d.TypeName = refName
		}
		return d, nil
	}
	if description == "" {
		description = s.Description
	}

	if choices := unionBranches(s); choices != nil {
		d := &Descriptor{Name: name, Kind: KindUnion, Description: description, Required: true}
		for _, branch := range choices {
			tag, err := branchTag(root, branch)
			if err != nil {
				return nil, err
			}
			alt, err := fromJSONSchema(root, branch, tag, "")
			if err != nil {
				return nil, err
			}
			d.Alternatives = append(d.Alternatives, alt)
		}
		return d, nil
	}

	switch s.Type {
	case "object":
		d := &Descriptor{Name: name, Kind: KindObject, Description: description, Required: true, TypeName: s.Title}
		required := make(map[string]bool, len(s.Required))
		for _, r := range s.Required {
			required[r] = true
		}
		if s.Properties != nil {
			for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
				child, err := fromJSONSchema(root, pair.Value, pair.Key, "")
				if err != nil {
					return nil, err
				}
				child.Required = required[pair.Key]
				d.Fields = append(d.Fields, child)
			}
		}
		return d, nil
	case "array":
		elemName := singular(name)
		if s.Items != nil && s.Items.Title != "" {
			elemName = snakeCase(s.Items.Title)
		}
		elem, err := fromJSONSchema(root, s.Items, elemName, "")
		if err != nil {
			return nil, err
		}
		return &Descriptor{Name: name, Kind: KindList, Description: description, Required: true, Elem: elem}, nil
	case "string":
		if len(s.Enum) > 0 {
			literals := make([]string, 0, len(s.Enum))
			for _, v := range s.Enum {
				literals = append(literals, fmt.Sprintf("%v", v))
			}
			return &Descriptor{Name: name, Kind: KindScalar, Scalar: ScalarEnum, Description: description, Required: true, Enum: literals}, nil
		}
		return &Descriptor{Name: name, Kind: KindScalar, Scalar: ScalarString, Description: description, Required: true}, nil
	case "integer":
		return &Descriptor{Name: name, Kind: KindScalar, Scalar: ScalarInt, Description: description, Required: true}, nil
	case "number":
		return &Descriptor{Name: name, Kind: KindScalar, Scalar: ScalarFloat, Description: description, Required: true}, nil
	case "boolean":
		return &Descriptor{Name: name, Kind: KindScalar, Scalar: ScalarBool, Description: description, Required: true}, nil
	default:
		return nil, types.NewError(types.ErrDescriptor,
			fmt.Sprintf("unsupported JSON schema type %q", s.Type)).WithField(name)
	}
}

func unionBranches(s *jsonschema.Schema) []*jsonschema.Schema {
	if len(s.OneOf) > 0 {
		return s.OneOf
	}
	if len(s.AnyOf) > 0 {
		return s.AnyOf
	}
	return nil
}

func branchTag(root, branch *jsonschema.Schema) (string, error) {
	if branch.Ref != "" {
		_, refName, err := resolveRef(root, branch.Ref)
		if err != nil {
			return "", err
		}
		return snakeCase(refName), nil
	}
	if branch.Title != "" {
		return snakeCase(branch.Title), nil
	}
	return "", types.NewError(types.ErrDescriptor, "union branch has neither $ref nor title")
}

func resolveRef(root *jsonschema.Schema, ref string) (*jsonschema.Schema, string, error) {
	name, ok := strings.CutPrefix(ref, "#/$defs/")
	if !ok {
		return nil, "", types.NewError(types.ErrDescriptor, fmt.Sprintf("unsupported $ref %q", ref))
	}
	if root.Definitions != nil {
		if def, ok := root.Definitions[name]; ok {
			return def, name, nil
		}
	}
	return nil, "", types.NewError(types.ErrDescriptor, fmt.Sprintf("unresolved $ref %q", ref))
}
