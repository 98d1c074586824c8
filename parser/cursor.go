package parser

import (
	"strings"

	"github.com/BaSui01/llmxml/lexer"
)

// cursor is a read position in a token slice. Past the end it yields EOF.
type cursor struct {
	toks []lexer.Token
	i    int
}

func (c *cursor) peek() lexer.Token {
	if c.i < len(c.toks) {
		return c.toks[c.i]
	}
	return lexer.Token{Type: lexer.EOF}
}

func (c *cursor) next() lexer.Token {
	t := c.peek()
	if c.i < len(c.toks) {
		c.i++
	}
	return t
}

// peekName returns the tag name of the pending open tag. The lexer always
// emits TagName immediately after OpenTagStart.
func (c *cursor) peekName() string {
	if c.i+1 < len(c.toks) {
		return c.toks[c.i+1].Lexeme
	}
	return ""
}

// frame records one enclosing open tag and the set of tag names that can
// open at the level where it lives (its siblings).
type frame struct {
	name  string
	opens map[string]bool
}

// stack is the chain of enclosing open tags, outermost first. It drives
// implicit-close detection: a closing tag matching any enclosing name, or
// an opening tag matching any enclosing level's siblings, terminates every
// construct inside it.
type stack []frame

func (s stack) closes(name string) bool {
	for i := range s {
		if s[i].name == name {
			return true
		}
	}
	return false
}

func (s stack) opensAbove(name string) bool {
	for i := range s {
		if s[i].opens[name] {
			return true
		}
	}
	return false
}

// push returns a new stack with one more frame; the receiver is unchanged
// so sibling descents never see each other's frames.
func (s stack) push(name string, opens map[string]bool) stack {
	ns := make(stack, len(s), len(s)+1)
	copy(ns, s)
	return append(ns, frame{name: name, opens: opens})
}

// readOpenTag consumes a pending open tag through its terminator. complete
// is false when the tag was truncated by end of input; attributes are
// consumed and discarded, since schema positions bind on tag names only.
func readOpenTag(cur *cursor) (name string, selfClosed, complete bool) {
	cur.next() // OpenTagStart
	name = cur.next().Lexeme
	for {
		switch t := cur.peek(); t.Type {
		case lexer.AttrName, lexer.AttrValue:
			cur.next()
		case lexer.TagEnd:
			cur.next()
			return name, false, true
		case lexer.SelfClosing:
			cur.next()
			return name, true, true
		case lexer.Incomplete:
			cur.next()
			return name, false, false
		default:
			return name, false, false
		}
	}
}

// skipSubtree consumes an unknown open tag together with its subtree. Two
// escapes keep a malformed unknown tag from eating the rest of the
// document: a closing tag matching an enclosing known construct stops the
// skip (and is left unconsumed), and a known sibling opening directly under
// the skipped tag treats it as a void element.
func skipSubtree(cur *cursor, st stack, opens map[string]bool) {
	name, selfClosed, complete := readOpenTag(cur)
	if selfClosed || !complete {
		return
	}
	open := []string{name}
	for len(open) > 0 {
		switch t := cur.peek(); t.Type {
		case lexer.EOF:
			return
		case lexer.Incomplete:
			cur.next()
			return
		case lexer.OpenTagStart:
			n := cur.peekName()
			if len(open) == 1 && opens != nil && opens[n] {
				return
			}
			n2, sc, c := readOpenTag(cur)
			if c && !sc {
				open = append(open, n2)
			}
		case lexer.CloseTag:
			if idx := lastIndex(open, t.Lexeme); idx >= 0 {
				cur.next()
				open = open[:idx]
			} else if st.closes(t.Lexeme) {
				return
			} else {
				cur.next()
			}
		default:
			cur.next()
		}
	}
}

func lastIndex(names []string, name string) int {
	for i := len(names) - 1; i >= 0; i-- {
		if names[i] == name {
			return i
		}
	}
	return -1
}

// reserializeTag consumes a pending open tag and renders it back to text,
// for markup that turned out to be scalar content rather than structure.
func reserializeTag(cur *cursor) string {
	var b strings.Builder
	cur.next() // OpenTagStart
	b.WriteString("<")
	b.WriteString(cur.next().Lexeme)
	for {
		switch t := cur.peek(); t.Type {
		case lexer.AttrName:
			cur.next()
			b.WriteString(" ")
			b.WriteString(t.Lexeme)
			if vt := cur.peek(); vt.Type == lexer.AttrValue {
				cur.next()
				b.WriteString(`="`)
				b.WriteString(vt.Lexeme)
				b.WriteString(`"`)
			}
		case lexer.TagEnd:
			cur.next()
			b.WriteString(">")
			return b.String()
		case lexer.SelfClosing:
			cur.next()
			b.WriteString("/>")
			return b.String()
		case lexer.Incomplete:
			// Truncated mid-tag: drop the partial construct, never
			// complete it speculatively.
			cur.next()
			return b.String()
		default:
			return b.String()
		}
	}
}
