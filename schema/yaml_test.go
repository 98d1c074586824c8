package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/llmxml/types"
)

const movieSchemaYAML = `
name: response
description: The response object
fields:
  - name: movies
    description: A list of movies
    element:
      name: movie
      type_name: Movie
      fields:
        - name: title
          description: The title
        - name: year
          scalar: int
        - name: rating
          scalar: float
          required: false
        - name: genre
          enum: [action, drama]
`

func TestFromYAML(t *testing.T) {
	d, err := FromYAML([]byte(movieSchemaYAML))
	require.NoError(t, err)

	assert.Equal(t, "response", d.Name)
	assert.Equal(t, KindObject, d.Kind)
	assert.Equal(t, "The response object", d.Description)
	require.Len(t, d.Fields, 1)

	movies := d.Fields[0]
	assert.Equal(t, KindList, movies.Kind)
	assert.True(t, movies.Required)

	movie := movies.Elem
	assert.Equal(t, "movie", movie.Name)
	assert.Equal(t, "Movie", movie.TypeName)
	assert.Equal(t, KindObject, movie.Kind)
	require.Len(t, movie.Fields, 4)

	assert.Equal(t, ScalarString, movie.Field("title").Scalar)
	assert.Equal(t, ScalarInt, movie.Field("year").Scalar)
	assert.False(t, movie.Field("rating").Required)
	assert.Equal(t, ScalarFloat, movie.Field("rating").Scalar)
	assert.Equal(t, ScalarEnum, movie.Field("genre").Scalar)
	assert.Equal(t, []string{"action", "drama"}, movie.Field("genre").Enum)
}

func TestFromYAMLUnion(t *testing.T) {
	d, err := FromYAML([]byte(`
name: intent
alternatives:
  - name: search
    fields:
      - name: query
  - name: answer
    fields:
      - name: text
`))
	require.NoError(t, err)
	assert.Equal(t, KindUnion, d.Kind)
	require.Len(t, d.Alternatives, 2)
	assert.Equal(t, "search", d.Alternatives[0].Name)
	require.NotNil(t, d.Alternatives[1].Field("text"))
}

func TestFromYAMLErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"not yaml", "{unclosed", "invalid schema YAML"},
		{"unknown scalar", "name: x\nscalar: complex", `unknown scalar type "complex"`},
		{"unknown kind", "name: x\nkind: tuple", `unknown kind "tuple"`},
		{"list without element", "name: x\nkind: list", "no element"},
		{
			"duplicate fields rejected by validation",
			"name: x\nfields:\n  - name: a\n  - name: a",
			"duplicate field tag",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromYAML([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, types.IsErrorCode(err, types.ErrDescriptor))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
