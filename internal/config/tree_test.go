package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTree_Literals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Value
	}{
		{
			name: "bare directive",
			src:  "example_handler",
			want: nil,
		},
		{
			name: "true literal",
			src:  "example_handler #true",
			want: []Value{BoolValue(true)},
		},
		{
			name: "false literal",
			src:  "example_handler #false",
			want: []Value{BoolValue(false)},
		},
		{
			name: "quoted string",
			src:  `static_root "./public"`,
			want: []Value{StringValue("./public")},
		},
		{
			name: "quoted string with escapes",
			src:  `static_root "a\"b\\c"`,
			want: []Value{StringValue(`a"b\c`)},
		},
		{
			name: "integer",
			src:  "max_requests 42",
			want: []Value{IntValue(42)},
		},
		{
			name: "negative integer",
			src:  "offset -7",
			want: []Value{IntValue(-7)},
		},
		{
			name: "bare word is a string",
			src:  "example_handler yes",
			want: []Value{StringValue("yes")},
		},
		{
			name: "multiple arguments",
			src:  `redirect "/old" "/new" 301`,
			want: []Value{StringValue("/old"), StringValue("/new"), IntValue(301)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := ParseTree("test.conf", tt.src)
			require.NoError(t, err)
			require.Len(t, nodes, 1)
			assert.Equal(t, tt.want, nodes[0].Args)
		})
	}
}

func TestParseTree_Blocks(t *testing.T) {
	src := `
// default site
site "*" {
	example_handler #true
	static_root "./public"
}

site "example.com" {
	example_handler #false
}
`
	nodes, err := ParseTree("sites.conf", src)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	assert.Equal(t, "site", nodes[0].Name)
	assert.Equal(t, []Value{StringValue("*")}, nodes[0].Args)
	require.Len(t, nodes[0].Children, 2)
	assert.Equal(t, "example_handler", nodes[0].Children[0].Name)
	assert.Equal(t, []Value{BoolValue(true)}, nodes[0].Children[0].Args)
	assert.Equal(t, "static_root", nodes[0].Children[1].Name)

	assert.Equal(t, []Value{StringValue("example.com")}, nodes[1].Args)
	require.Len(t, nodes[1].Children, 1)
	assert.Equal(t, []Value{BoolValue(false)}, nodes[1].Children[0].Args)
}

func TestParseTree_LineNumbers(t *testing.T) {
	src := "site \"*\" {\n\texample_handler\n}"
	nodes, err := ParseTree("sites.conf", src)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, 1, nodes[0].Line)
	require.Len(t, nodes[0].Children, 1)
	assert.Equal(t, 2, nodes[0].Children[0].Line)
	assert.Equal(t, "sites.conf", nodes[0].Children[0].File)
}

func TestParseTree_Comments(t *testing.T) {
	src := `example_handler #true // enables the handler`
	nodes, err := ParseTree("test.conf", src)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, []Value{BoolValue(true)}, nodes[0].Args)

	// a comment inside a quoted string is content, not a comment
	nodes, err = ParseTree("test.conf", `static_root "//not-a-comment"`)
	require.NoError(t, err)
	assert.Equal(t, []Value{StringValue("//not-a-comment")}, nodes[0].Args)
}

func TestParseTree_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"invalid hash literal", "example_handler #yes"},
		{"unterminated string", `static_root "public`},
		{"unmatched close brace", "}"},
		{"unclosed block", `site "*" {`},
		{"content after close brace", "site \"*\" {\n} example_handler"},
		{"quoted directive name", `"site" {` + "\n}"},
		{"block without name", "{"},
		{"trailing backslash", `static_root "a\`},
		{"unsupported escape", `static_root "a\q"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTree("test.conf", tt.src)
			require.Error(t, err)

			var confErr *ConfigError
			require.ErrorAs(t, err, &confErr)
			assert.Equal(t, ErrSyntax, confErr.Kind)
			assert.Equal(t, "test.conf", confErr.File)
		})
	}
}
