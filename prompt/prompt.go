// Package prompt renders a descriptor tree as the canonical instructional
// text describing its schema to a model. Rendering is a pure, deterministic
// read of the tree: field order is declaration order and two calls on the
// same tree produce byte-identical output, which keeps snapshot tests
// honest and prompt caches effective.
package prompt

import (
	"fmt"
	"strings"

	"github.com/BaSui01/llmxml/schema"
)

// Render emits the schema description for a descriptor tree. An object
// root renders as its field blocks; any other root renders as a single
// block. When includeInstructions is set, the output is wrapped in the
// fixed <response_instructions> preamble and postamble.
func Render(d *schema.Descriptor, includeInstructions bool) string {
	root := d.Inner()
	var rendered string
	if root.Kind == schema.KindObject {
		blocks := make([]string, 0, len(root.Fields))
		for _, f := range root.Fields {
			blocks = append(blocks, renderField(f))
		}
		rendered = strings.Join(blocks, "\n")
	} else {
		rendered = renderField(d)
	}
	if includeInstructions {
		return wrapInstructions(rendered)
	}
	return rendered
}

// renderField emits one field block: tag, bracketed metadata, description,
// and nested structure where the kind implies one.
func renderField(d *schema.Descriptor) string {
	inner := d.Inner()
	var b strings.Builder
	b.WriteString("<" + inner.Name + ">\n")
	b.WriteString("[type: " + typeInfo(d) + "]\n")
	b.WriteString("[" + requirement(d) + "]\n")
	b.WriteString("[" + description(d) + "]")

	switch inner.Kind {
	case schema.KindObject:
		for _, f := range inner.Fields {
			b.WriteString("\n" + renderField(f))
		}
	case schema.KindList:
		elem := inner.Elem.Inner()
		switch elem.Kind {
		case schema.KindUnion:
			b.WriteString(renderAlternatives(elem.Alternatives))
		case schema.KindObject:
			b.WriteString("\n<" + elem.Name + ">")
			for _, f := range elem.Fields {
				b.WriteString("\n" + renderField(f))
			}
			b.WriteString("\n</" + elem.Name + ">")
		}
	case schema.KindUnion:
		b.WriteString(renderAlternatives(inner.Alternatives))
	}

	b.WriteString("\n</" + inner.Name + ">")
	return b.String()
}

// renderAlternatives emits the numbered option blocks of a union, joined
// by OR separators.
func renderAlternatives(alts []*schema.Descriptor) string {
	blocks := make([]string, 0, len(alts))
	for i, alt := range alts {
		var b strings.Builder
		fmt.Fprintf(&b, "# Option %d: %s\n", i+1, typeName(alt))
		b.WriteString("<" + alt.Name + ">")
		for _, f := range alt.Inner().Fields {
			b.WriteString("\n" + renderField(f))
		}
		b.WriteString("\n</" + alt.Name + ">")
		blocks = append(blocks, b.String())
	}
	return "\n" + strings.Join(blocks, "\n\nOR\n\n")
}

func typeInfo(d *schema.Descriptor) string {
	inner := d.Inner()
	switch inner.Kind {
	case schema.KindScalar:
		if inner.Scalar == schema.ScalarEnum {
			return "Literal[" + strings.Join(inner.Enum, ", ") + "]"
		}
		return inner.Scalar.String()
	case schema.KindObject:
		if inner.TypeName != "" {
			return inner.TypeName
		}
		return "object"
	case schema.KindList:
		elem := inner.Elem.Inner()
		if elem.Kind == schema.KindUnion {
			return "list of " + alternativeNames(elem.Alternatives)
		}
		return "list"
	case schema.KindUnion:
		return "one of " + alternativeNames(inner.Alternatives)
	default:
		return inner.Kind.String()
	}
}

func alternativeNames(alts []*schema.Descriptor) string {
	names := make([]string, 0, len(alts))
	for _, alt := range alts {
		names = append(names, "'"+typeName(alt)+"'")
	}
	return strings.Join(names, ", ")
}

func typeName(d *schema.Descriptor) string {
	if d.TypeName != "" {
		return d.TypeName
	}
	return d.Name
}

func requirement(d *schema.Descriptor) string {
	if d.Kind == schema.KindOptional || !d.Required {
		return "optional"
	}
	return "required"
}

func description(d *schema.Descriptor) string {
	if d.Description != "" {
		return d.Description
	}
	return "Description of " + d.Inner().Name
}
