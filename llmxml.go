// Package llmxml extracts structured data from the XML-like text large
// language models produce, and generates the schema descriptions that
// instruct a model to produce it.
//
// Usage:
//
//	import "github.com/BaSui01/llmxml"
//
//	type Movie struct {
//		Title    string `llmxml:"title" desc:"The title of the movie"`
//		Director string `llmxml:"director" desc:"The director of the movie"`
//	}
//	type Response struct {
//		Movies []Movie `llmxml:"movies" desc:"A list of movies that match the query"`
//	}
//
//	tmpl, err := llmxml.GeneratePromptTemplate[Response]()
//	resp, err := llmxml.Parse[Response](modelOutput)
//
// Streaming callers re-parse the growing buffer on every chunk:
//
//	partial, res, err := llmxml.ParsePartial[Response](bufferSoFar)
//
// ParsePartial never fails on truncated or malformed input; unresolved
// positions decode as zero values and the returned result tree carries the
// unset/invalid detail per field.
package llmxml

import (
	"go.uber.org/zap"

	"github.com/BaSui01/llmxml/parser"
	"github.com/BaSui01/llmxml/prompt"
	"github.com/BaSui01/llmxml/schema"
)

// Mode selects final or partial parse semantics.
type Mode = parser.Mode

const (
	// Partial tolerates truncated and malformed input.
	Partial = parser.Partial
	// Final validates the finished document.
	Final = parser.Final
)

// Option configures the parser used by Parse and ParsePartial.
type Option = parser.Option

// WithLogger sets a custom zap logger on the parser.
func WithLogger(logger *zap.Logger) Option {
	return parser.WithLogger(logger)
}

// Parse performs a final-mode parse of text into a value of type T. It
// fails on any unmet required field, unresolved non-optional union, or
// scalar coercion failure anywhere in the tree.
func Parse[T any](text string, opts ...Option) (T, error) {
	var out T
	desc, err := schema.ForType[T]()
	if err != nil {
		return out, err
	}
	p, err := parser.New(desc, opts...)
	if err != nil {
		return out, err
	}
	res, err := p.Parse(text, parser.Final)
	if err != nil {
		return out, err
	}
	if err := res.Value.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// ParsePartial performs a partial-mode parse of possibly-truncated text.
// It never fails on truncation, coercion failures, missing fields or
// unresolved unions; those positions stay zero-valued in the returned T
// and are distinguishable as Unset/Invalid in the result tree. The only
// error condition is a malformed descriptor tree.
func ParsePartial[T any](text string, opts ...Option) (T, *parser.Result, error) {
	var out T
	desc, err := schema.ForType[T]()
	if err != nil {
		return out, nil, err
	}
	p, err := parser.New(desc, opts...)
	if err != nil {
		return out, nil, err
	}
	res, err := p.Parse(text, parser.Partial)
	if err != nil {
		return out, nil, err
	}
	if err := res.Value.Decode(&out); err != nil {
		return out, nil, err
	}
	return out, res, nil
}

// PromptOption configures prompt template generation.
type PromptOption func(*promptOptions)

type promptOptions struct {
	includeInstructions bool
}

// WithoutInstructions omits the fixed instructional preamble and
// postamble, rendering only the schema blocks.
func WithoutInstructions() PromptOption {
	return func(o *promptOptions) { o.includeInstructions = false }
}

// GeneratePromptTemplate renders the canonical schema description for T.
// Output is deterministic for a given type: stable field order, byte
// identical across calls.
func GeneratePromptTemplate[T any](opts ...PromptOption) (string, error) {
	desc, err := schema.ForType[T]()
	if err != nil {
		return "", err
	}
	o := promptOptions{includeInstructions: true}
	for _, opt := range opts {
		opt(&o)
	}
	return prompt.Render(desc, o.includeInstructions), nil
}

// ParseValue parses text against an explicitly built descriptor tree,
// returning the raw result tree. Intended for declarative schemas
// (schema.FromYAML, schema.FromJSONSchema, or hand-built descriptors)
// where no Go struct type exists.
func ParseValue(desc *schema.Descriptor, text string, mode Mode, opts ...Option) (*parser.Result, error) {
	p, err := parser.New(desc, opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse(text, mode)
}

// RenderTemplate renders the schema description for an explicitly built
// descriptor tree.
func RenderTemplate(desc *schema.Descriptor, includeInstructions bool) string {
	return prompt.Render(desc, includeInstructions)
}
