package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/llmxml/types"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Descriptor
		wantErr string
	}{
		{
			name: "valid tree",
			build: func() *Descriptor {
				return Object("doc", "",
					String("title", ""),
					List("tags", "", String("tag", "")),
					Union("intent", "",
						Object("search", "", String("query", "")),
						Object("answer", "", String("text", "")),
					),
				)
			},
		},
		{
			name: "duplicate field tags",
			build: func() *Descriptor {
				return Object("doc", "", String("title", ""), Int("title", ""))
			},
			wantErr: `duplicate field tag "title"`,
		},
		{
			name: "duplicate union tags",
			build: func() *Descriptor {
				return Union("u", "",
					Object("a", "", String("x", "")),
					Object("a", "", String("y", "")),
				)
			},
			wantErr: `duplicate union tag "a"`,
		},
		{
			name:    "empty union",
			build:   func() *Descriptor { return Union("u", "") },
			wantErr: "no alternatives",
		},
		{
			name:    "list without element",
			build:   func() *Descriptor { return &Descriptor{Name: "l", Kind: KindList} },
			wantErr: "no element descriptor",
		},
		{
			name:    "optional without inner",
			build:   func() *Descriptor { return &Descriptor{Name: "o", Kind: KindOptional} },
			wantErr: "no inner descriptor",
		},
		{
			name:    "enum without literals",
			build:   func() *Descriptor { return &Descriptor{Name: "e", Kind: KindScalar, Scalar: ScalarEnum} },
			wantErr: "no literals",
		},
		{
			name: "cyclic tree",
			build: func() *Descriptor {
				d := Object("doc", "")
				d.Fields = []*Descriptor{d}
				return d
			},
			wantErr: "ancestor",
		},
		{
			name: "unnamed field",
			build: func() *Descriptor {
				return Object("doc", "", String("", ""))
			},
			wantErr: "no tag name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, types.IsErrorCode(err, types.ErrDescriptor))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInnerUnwrapsOptionals(t *testing.T) {
	s := String("title", "")
	opt := Optional(s)
	assert.Same(t, s, opt.Inner())
	assert.Same(t, s, Optional(opt).Inner())
	assert.Same(t, s, s.Inner())
}

func TestFieldAndAlternativeLookup(t *testing.T) {
	obj := Object("doc", "", String("a", ""), Int("b", ""))
	require.NotNil(t, obj.Field("b"))
	assert.Equal(t, KindScalar, obj.Field("b").Kind)
	assert.Nil(t, obj.Field("missing"))

	u := Union("u", "",
		Object("search", "", String("query", "")),
		Object("answer", "", String("text", "")),
	)
	require.NotNil(t, u.Alternative("answer"))
	assert.Equal(t, "answer", u.Alternative("answer").Name)
	assert.Nil(t, u.Alternative("other"))
}

func TestBuilderDefaults(t *testing.T) {
	s := String("title", "The title")
	assert.True(t, s.Required)
	assert.Equal(t, ScalarString, s.Scalar)
	assert.Equal(t, "The title", s.Description)

	assert.False(t, s.AsOptional().Required)

	opt := Optional(Int("year", "Release year"))
	assert.Equal(t, "year", opt.Name)
	assert.Equal(t, "Release year", opt.Description)
	assert.False(t, opt.Required)

	e := Enum("level", "", "low", "high")
	assert.Equal(t, ScalarEnum, e.Scalar)
	assert.Equal(t, []string{"low", "high"}, e.Enum)

	assert.Equal(t, "Movie", Object("movie", "").WithTypeName("Movie").TypeName)
}
