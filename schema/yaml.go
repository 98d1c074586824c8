package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/BaSui01/llmxml/types"
)

// yamlNode is the on-disk declaration form of a descriptor. Kind may be
// omitted: fields imply object, element implies list, alternatives imply
// union, and everything else is a scalar (enum when literals are given).
type yamlNode struct {
	Name         string     `yaml:"name"`
	Kind         string     `yaml:"kind"`
	Scalar       string     `yaml:"scalar"`
	Description  string     `yaml:"description"`
	Required     *bool      `yaml:"required"`
	TypeName     string     `yaml:"type_name"`
	Enum         []string   `yaml:"enum"`
	Fields       []yamlNode `yaml:"fields"`
	Element      *yamlNode  `yaml:"element"`
	Alternatives []yamlNode `yaml:"alternatives"`
}

// FromYAML builds a descriptor tree from a YAML schema declaration.
//
//	name: response
//	description: The response object
//	fields:
//	  - name: movies
//	    description: A list of movies that match the query
//	    element:
//	      name: movie
//	      fields:
//	        - {name: title, scalar: string, description: The title}
//	        - {name: director, scalar: string, description: The director}
func FromYAML(data []byte) (*Descriptor, error) {
	var root yamlNode
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, types.NewError(types.ErrDescriptor, "invalid schema YAML").WithCause(err)
	}
	d, err := root.descriptor()
	if err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (n *yamlNode) descriptor() (*Descriptor, error) {
	d := &Descriptor{
		Name:        n.Name,
		Description: n.Description,
		Required:    n.Required == nil || *n.Required,
		TypeName:    n.TypeName,
		Enum:        n.Enum,
	}

	kind := n.Kind
	if kind == "" {
		switch {
		case len(n.Fields) > 0:
			kind = "object"
		case n.Element != nil:
			kind = "list"
		case len(n.Alternatives) > 0:
			kind = "union"
		default:
			kind = "scalar"
		}
	}

	switch kind {
	case "scalar":
		d.Kind = KindScalar
		switch n.Scalar {
		case "", "string", "str":
			d.Scalar = ScalarString
		case "int", "integer":
			d.Scalar = ScalarInt
		case "float", "number":
			d.Scalar = ScalarFloat
		case "bool", "boolean":
			d.Scalar = ScalarBool
		case "enum":
			d.Scalar = ScalarEnum
		default:
			return nil, types.NewError(types.ErrDescriptor,
				fmt.Sprintf("unknown scalar type %q", n.Scalar)).WithField(n.Name)
		}
		if len(n.Enum) > 0 {
			d.Scalar = ScalarEnum
		}
	case "object":
		d.Kind = KindObject
		for i := range n.Fields {
			child, err := n.Fields[i].descriptor()
			if err != nil {
				return nil, err
			}
			d.Fields = append(d.Fields, child)
		}
	case "list":
		d.Kind = KindList
		if n.Element == nil {
			return nil, types.NewError(types.ErrDescriptor, "list declares no element").WithField(n.Name)
		}
		elem, err := n.Element.descriptor()
		if err != nil {
			return nil, err
		}
		d.Elem = elem
	case "union":
		d.Kind = KindUnion
		for i := range n.Alternatives {
			alt, err := n.Alternatives[i].descriptor()
			if err != nil {
				return nil, err
			}
			d.Alternatives = append(d.Alternatives, alt)
		}
	default:
		return nil, types.NewError(types.ErrDescriptor,
			fmt.Sprintf("unknown kind %q", kind)).WithField(n.Name)
	}
	return d, nil
}
