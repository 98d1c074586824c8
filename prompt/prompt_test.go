package prompt

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/llmxml/schema"
)

type PromptMovie struct {
	Title string `llmxml:"title" desc:"The title of the movie"`
	Year  int    `llmxml:"year,optional" desc:"Release year"`
}

type PromptResponse struct {
	Movies []PromptMovie `llmxml:"movies" desc:"A list of movies that match the query"`
}

type PromptAction interface{ isPromptAction() }

type CommandAction struct {
	Command string `llmxml:"command" desc:"The command to run"`
}

func (CommandAction) isPromptAction() {}

type CreateAction struct {
	NewFilePath string `llmxml:"new_file_path" desc:"The path to the new file to create"`
}

func (CreateAction) isPromptAction() {}

type PromptAgent struct {
	Actions []PromptAction `llmxml:"actions" desc:"The actions to perform"`
}

type PromptMode string

func (PromptMode) EnumValues() []string { return []string{"fast", "slow"} }

type PromptConfig struct {
	Mode PromptMode `llmxml:"mode"`
}

func TestMain(m *testing.M) {
	if err := schema.RegisterUnion[PromptAction](
		schema.Alt[CommandAction]("command_action"),
		schema.Alt[CreateAction]("create_action"),
	); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestRenderObjectSchema(t *testing.T) {
	d, err := schema.ForType[PromptResponse]()
	require.NoError(t, err)

	want := strings.Join([]string{
		"<movies>",
		"[type: list]",
		"[required]",
		"[A list of movies that match the query]",
		"<prompt_movie>",
		"<title>",
		"[type: str]",
		"[required]",
		"[The title of the movie]",
		"</title>",
		"<year>",
		"[type: int]",
		"[optional]",
		"[Release year]",
		"</year>",
		"</prompt_movie>",
		"</movies>",
	}, "\n")
	assert.Equal(t, want, Render(d, false))
}

func TestRenderUnionOptions(t *testing.T) {
	d, err := schema.ForType[PromptAgent]()
	require.NoError(t, err)

	want := strings.Join([]string{
		"<actions>",
		"[type: list of 'CommandAction', 'CreateAction']",
		"[required]",
		"[The actions to perform]",
		"# Option 1: CommandAction",
		"<command_action>",
		"<command>",
		"[type: str]",
		"[required]",
		"[The command to run]",
		"</command>",
		"</command_action>",
		"",
		"OR",
		"",
		"# Option 2: CreateAction",
		"<create_action>",
		"<new_file_path>",
		"[type: str]",
		"[required]",
		"[The path to the new file to create]",
		"</new_file_path>",
		"</create_action>",
		"</actions>",
	}, "\n")
	assert.Equal(t, want, Render(d, false))
}

func TestRenderEnumLiteral(t *testing.T) {
	d, err := schema.ForType[PromptConfig]()
	require.NoError(t, err)

	out := Render(d, false)
	assert.Contains(t, out, "[type: Literal[fast, slow]]")
	// No desc tag: the default description kicks in.
	assert.Contains(t, out, "[Description of mode]")
}

func TestRenderNonListUnion(t *testing.T) {
	d := schema.Object("doc", "",
		schema.Union("intent", "What to do",
			schema.Object("search", "", schema.String("query", "")).WithTypeName("Search"),
			schema.Object("answer", "", schema.String("text", "")).WithTypeName("Answer"),
		),
	)
	out := Render(d, false)
	assert.Contains(t, out, "[type: one of 'Search', 'Answer']")
	assert.Contains(t, out, "# Option 1: Search")
	assert.Contains(t, out, "# Option 2: Answer")
}

func TestRenderScalarRoot(t *testing.T) {
	out := Render(schema.String("answer", "The answer"), false)
	want := strings.Join([]string{
		"<answer>",
		"[type: str]",
		"[required]",
		"[The answer]",
		"</answer>",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestRenderDeterministic(t *testing.T) {
	d, err := schema.ForType[PromptResponse]()
	require.NoError(t, err)
	assert.Equal(t, Render(d, true), Render(d, true))
	assert.Equal(t, Render(d, false), Render(d, false))
}

func TestRenderWithInstructions(t *testing.T) {
	d, err := schema.ForType[PromptResponse]()
	require.NoError(t, err)

	out := Render(d, true)
	assert.True(t, strings.HasPrefix(out, "<response_instructions>\n"))
	assert.True(t, strings.HasSuffix(out, "\n</response_instructions>"))
	assert.Contains(t, out, "Requested Response Schema:")
	assert.Contains(t, out, Render(d, false))
	assert.Contains(t, out, "# Option 2: CreateAction")
	assert.Contains(t, out, "NOT the schema itself")
}
