package config

import (
	"regexp"
	"strconv"
	"strings"
)

// Node is one directive in the configuration tree: a name, zero or more
// typed arguments and, for block directives, child nodes.
type Node struct {
	Name     string
	Args     []Value
	Children []*Node
	File     string
	Line     int
}

var directiveNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
var intLiteralRe = regexp.MustCompile(`^-?[0-9]+$`)

// token is a lexed fragment of a directive line. Quoted tokens have had
// their escapes resolved and always parse as string values.
type token struct {
	text   string
	quoted bool
}

// ParseTree parses the contents of one site configuration file into a
// list of top-level directive nodes.
func ParseTree(file string, src string) ([]*Node, error) {
	var root []*Node
	stack := []*[]*Node{&root}

	for i, raw := range strings.Split(src, "\n") {
		line := i + 1
		tokens, err := lexLine(file, line, raw)
		if err != nil {
			return nil, err
		}
		if len(tokens) == 0 {
			continue
		}

		if tokens[0].text == "}" && !tokens[0].quoted {
			if len(tokens) > 1 {
				return nil, newSyntaxError(file, line, "unexpected content after '}'")
			}
			if len(stack) == 1 {
				return nil, newSyntaxError(file, line, "unmatched '}'")
			}
			stack = stack[:len(stack)-1]
			continue
		}

		opensBlock := false
		last := tokens[len(tokens)-1]
		if last.text == "{" && !last.quoted {
			opensBlock = true
			tokens = tokens[:len(tokens)-1]
			if len(tokens) == 0 {
				return nil, newSyntaxError(file, line, "block has no directive name")
			}
		}

		if tokens[0].quoted || !directiveNameRe.MatchString(tokens[0].text) {
			return nil, newSyntaxError(file, line, "invalid directive name %q", tokens[0].text)
		}

		node := &Node{Name: tokens[0].text, File: file, Line: line}
		for _, tok := range tokens[1:] {
			val, err := parseLiteral(file, line, tok)
			if err != nil {
				return nil, err
			}
			node.Args = append(node.Args, val)
		}

		parent := stack[len(stack)-1]
		*parent = append(*parent, node)
		if opensBlock {
			stack = append(stack, &node.Children)
		}
	}

	if len(stack) != 1 {
		return nil, newSyntaxError(file, len(strings.Split(src, "\n")), "unclosed block")
	}
	return root, nil
}

// lexLine splits one line into tokens, honouring double-quoted strings
// with backslash escapes and '//' comments outside of quotes. Braces are
// standalone tokens.
func lexLine(file string, line int, raw string) ([]token, error) {
	var tokens []token
	var cur strings.Builder
	inQuote := false
	curQuoted := false

	flush := func() {
		if cur.Len() > 0 || curQuoted {
			tokens = append(tokens, token{text: cur.String(), quoted: curQuoted})
			cur.Reset()
			curQuoted = false
		}
	}

	for pos := 0; pos < len(raw); pos++ {
		c := raw[pos]
		if inQuote {
			switch c {
			case '\\':
				if pos+1 >= len(raw) {
					return nil, newSyntaxError(file, line, "trailing backslash in string literal")
				}
				pos++
				switch raw[pos] {
				case '"':
					cur.WriteByte('"')
				case '\\':
					cur.WriteByte('\\')
				case 'n':
					cur.WriteByte('\n')
				case 't':
					cur.WriteByte('\t')
				default:
					return nil, newSyntaxError(file, line, "unsupported escape '\\%c'", raw[pos])
				}
			case '"':
				inQuote = false
				flush()
			default:
				cur.WriteByte(c)
			}
			continue
		}

		switch {
		case c == '"':
			if cur.Len() > 0 {
				return nil, newSyntaxError(file, line, "unexpected '\"' inside token")
			}
			inQuote = true
			curQuoted = true
		case c == '/' && pos+1 < len(raw) && raw[pos+1] == '/':
			flush()
			pos = len(raw) // comment runs to end of line
		case c == '{' || c == '}':
			flush()
			tokens = append(tokens, token{text: string(c)})
		case c == ' ' || c == '\t' || c == '\r':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	if inQuote {
		return nil, newSyntaxError(file, line, "unterminated string literal")
	}
	flush()
	return tokens, nil
}

// parseLiteral converts one argument token into a typed Value.
func parseLiteral(file string, line int, tok token) (Value, error) {
	if tok.quoted {
		return StringValue(tok.text), nil
	}
	if strings.HasPrefix(tok.text, "#") {
		switch tok.text {
		case "#true":
			return BoolValue(true), nil
		case "#false":
			return BoolValue(false), nil
		default:
			return Value{}, newSyntaxError(file, line, "invalid literal %q (expected #true or #false)", tok.text)
		}
	}
	if intLiteralRe.MatchString(tok.text) {
		n, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return Value{}, newSyntaxError(file, line, "integer literal out of range: %s", tok.text)
		}
		return IntValue(n), nil
	}
	return StringValue(tok.text), nil
}
