package prompt

// adherePreamble explains the schema notation to the model, with one worked
// example. Rendered output embeds it verbatim when instructions are
// requested, so it must stay byte-stable.
const adherePreamble = `You are to provide your output in the following xml-like format EXACTLY as described in the schema provided.
Each field in the schema has a description, type, and requirement status enclosed in square brackets, denoting that they are metadata.
Format instructions:
<field_name>
[type: object_type]
[required/optional]
[description]
</field_name>

Basic example:
<EXAMPLE>
<EXAMPLE_SCHEMA>
<thinking>
[type: str]
[optional]
[Chain of thought]
</thinking>
<actions>
[type: list of 'CommandAction', 'CreateAction', 'EditAction']
[required]
[The actions to perform]
# Option 1: CommandAction
<command_action>
<action_type>
[type: Literal[command]]
[required]
[The type of action to perform]
</action_type>
<command>
[type: str]
[required]
[The command to run]
</command>
</command_action>

OR

# Option 2: CreateAction
<create_action>
<action_type>
[type: Literal[create]]
[required]
[The type of action to perform]
</action_type>
<new_file_path>
[type: str]
[required]
[The path to the new file to create]
</new_file_path>
<file_contents>
[type: str]
[required]
[The contents of the new file to create]
</file_contents>
</create_action>

OR

# Option 3: EditAction
<edit_action>
<action_type>
[type: Literal[edit]]
[required]
[The type of action to perform]
</action_type>
<original_file_path>
[type: str]
[required]
[The path to the original file to edit]
</original_file_path>
<new_file_contents>
[type: str]
[required]
[The contents of the edited file]
</new_file_contents>
</edit_action>
</actions>
</EXAMPLE_SCHEMA>

<EXAMPLE_OUTPUT>
<thinking>
First, I need to create a new configuration file. Then, I'll modify an existing source file to use the new configuration.
</thinking>
<actions>
<create_action>
<action_type>create</action_type>
<new_file_path>config/settings.json</new_file_path>
<file_contents>{
  "apiKey": "your-api-key-here",
  "baseUrl": "https://api.example.com",
  "timeout": 30
}</file_contents>
</create_action>
<edit_action>
<action_type>edit</action_type>
<original_file_path>src/main.py</original_file_path>
<new_file_contents>import json

def load_config():
    with open('config/settings.json', 'r') as f:
        return json.load(f)
</new_file_contents>
</edit_action>
</actions>
</EXAMPLE_OUTPUT>
</EXAMPLE>`

const adherePostamble = `Make sure to return an instance of the output, NOT the schema itself. Do NOT include any schema metadata (like [type: ...]) in your output.`

// wrapInstructions surrounds a rendered schema with the fixed instructional
// preamble and postamble.
func wrapInstructions(rendered string) string {
	return "<response_instructions>\n" +
		adherePreamble +
		"\n\nRequested Response Schema:\n" +
		rendered +
		"\n" + adherePostamble +
		"\n</response_instructions>"
}
