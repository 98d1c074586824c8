// Package lexer turns raw model output into a stream of XML-like tokens.
//
// The lexer is deliberately lenient: models emit stray angle brackets in
// prose, truncate output mid-token, and invent markup the schema never asked
// for. Anything inside <...> that does not lex as a tag is demoted to literal
// text, and when the buffer ends inside an open construct the lexer emits a
// single Incomplete token carrying whatever partial lexeme it had collected.
//
// A Lexer is restartable only from the beginning of its input; incremental
// callers re-lex the full buffer on every call.
package lexer

import "strings"

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

const (
	cdataOpen  = "<![CDATA["
	cdataClose = "]]>"

	commentOpen  = "<!--"
	commentClose = "-->"
)

// Lexer scans one input buffer into tokens.
type Lexer struct {
	input string
	pos   int
	queue []Token
	done  bool
}

// New creates a Lexer over the given input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize lexes the whole input and returns every token including the
// terminal EOF or Incomplete.
func Tokenize(input string) []Token {
	l := New(input)
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == EOF || tok.Type == Incomplete {
			return toks
		}
	}
}

// Next returns the next token. After the terminal EOF or Incomplete token it
// keeps returning EOF.
func (l *Lexer) Next() Token {
	for len(l.queue) == 0 && !l.done {
		l.scan()
	}
	if len(l.queue) == 0 {
		return Token{Type: EOF, Pos: len(l.input)}
	}
	tok := l.queue[0]
	l.queue = l.queue[1:]
	return tok
}

func (l *Lexer) emit(tok Token) {
	if tok.Type == EOF || tok.Type == Incomplete {
		l.done = true
	}
	l.queue = append(l.queue, tok)
}

// scan lexes one construct starting at l.pos. It may emit zero tokens (for
// skipped comments) in which case the Next loop calls it again.
func (l *Lexer) scan() {
	if l.pos >= len(l.input) {
		l.emit(Token{Type: EOF, Pos: l.pos})
		return
	}
	if l.input[l.pos] == '<' {
		l.scanAngle()
		return
	}
	l.scanText()
}

// scanText collects character data up to the next '<'. A text run that hits
// the end of the buffer is unterminated by definition and becomes the
// stream's Incomplete token.
func (l *Lexer) scanText() {
	start := l.pos
	end := strings.IndexByte(l.input[l.pos:], '<')
	if end < 0 {
		lexeme := entityReplacer.Replace(l.input[start:])
		l.pos = len(l.input)
		l.emit(Token{Type: Incomplete, Lexeme: lexeme, Construct: ConstructText, Pos: start})
		return
	}
	l.pos += end
	l.emit(Token{Type: Text, Lexeme: entityReplacer.Replace(l.input[start:l.pos]), Pos: start})
}

// scanAngle dispatches on the character after '<'.
func (l *Lexer) scanAngle() {
	start := l.pos
	if l.pos+1 >= len(l.input) {
		l.pos = len(l.input)
		l.emit(Token{Type: Incomplete, Construct: ConstructTagName, Pos: start})
		return
	}
	switch c := l.input[l.pos+1]; {
	case c == '/':
		l.scanCloseTag()
	case c == '!':
		l.scanBang()
	case isNameStart(c):
		l.scanOpenTag()
	default:
		// Stray '<' in prose.
		l.demoteAngle()
	}
}

// demoteAngle emits the '<' at l.pos as literal text and resumes after it.
func (l *Lexer) demoteAngle() {
	l.emit(Token{Type: Text, Lexeme: "<", Pos: l.pos})
	l.pos++
}

func (l *Lexer) scanOpenTag() {
	start := l.pos
	i := l.pos + 1
	for i < len(l.input) && isNameChar(l.input[i]) {
		i++
	}
	name := l.input[l.pos+1 : i]
	if i >= len(l.input) {
		l.pos = i
		l.emit(Token{Type: Incomplete, Lexeme: name, Construct: ConstructTagName, Pos: start})
		return
	}
	switch l.input[i] {
	case '>', '/', ' ', '\t', '\n', '\r':
		// A real tag.
	default:
		// "<name?" with an unexpected character: not a tag, keep the '<'
		// literal and let the name re-lex as text.
		l.demoteAngle()
		return
	}
	l.emit(Token{Type: OpenTagStart, Pos: start})
	l.emit(Token{Type: TagName, Lexeme: name, Pos: start + 1})
	l.pos = i
	l.scanTagRest()
}

// scanTagRest lexes attributes and the tag terminator after a tag name.
// Garbage inside the tag is skipped rather than rejected.
func (l *Lexer) scanTagRest() {
	for {
		l.skipSpace()
		if l.pos >= len(l.input) {
			l.emit(Token{Type: Incomplete, Construct: ConstructAttr, Pos: l.pos})
			return
		}
		switch c := l.input[l.pos]; {
		case c == '>':
			l.emit(Token{Type: TagEnd, Pos: l.pos})
			l.pos++
			return
		case c == '/':
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == '>' {
				l.emit(Token{Type: SelfClosing, Pos: l.pos})
				l.pos += 2
				return
			}
			if l.pos+1 >= len(l.input) {
				l.pos++
				l.emit(Token{Type: Incomplete, Lexeme: "/", Construct: ConstructAttr, Pos: l.pos - 1})
				return
			}
			l.pos++ // stray '/', skip
		case isNameStart(c):
			l.scanAttr()
			if l.done {
				return
			}
		default:
			l.pos++ // garbage inside tag, skip
		}
	}
}

func (l *Lexer) scanAttr() {
	start := l.pos
	i := l.pos
	for i < len(l.input) && isNameChar(l.input[i]) {
		i++
	}
	name := l.input[l.pos:i]
	if i >= len(l.input) {
		l.pos = i
		l.emit(Token{Type: Incomplete, Lexeme: name, Construct: ConstructAttr, Pos: start})
		return
	}
	l.emit(Token{Type: AttrName, Lexeme: name, Pos: start})
	l.pos = i
	l.skipSpace()
	if l.pos >= len(l.input) || l.input[l.pos] != '=' {
		return // valueless attribute
	}
	l.pos++
	l.skipSpace()
	if l.pos >= len(l.input) {
		l.emit(Token{Type: Incomplete, Construct: ConstructAttr, Pos: l.pos})
		return
	}
	if q := l.input[l.pos]; q == '"' || q == '\'' {
		vstart := l.pos + 1
		end := strings.IndexByte(l.input[vstart:], q)
		if end < 0 {
			lexeme := entityReplacer.Replace(l.input[vstart:])
			l.pos = len(l.input)
			l.emit(Token{Type: Incomplete, Lexeme: lexeme, Construct: ConstructAttr, Pos: vstart})
			return
		}
		l.emit(Token{Type: AttrValue, Lexeme: entityReplacer.Replace(l.input[vstart : vstart+end]), Pos: vstart})
		l.pos = vstart + end + 1
		return
	}
	// Unquoted value: up to whitespace or tag terminator.
	vstart := l.pos
	for l.pos < len(l.input) && !isSpace(l.input[l.pos]) && l.input[l.pos] != '>' && l.input[l.pos] != '/' {
		l.pos++
	}
	if l.pos >= len(l.input) {
		l.emit(Token{Type: Incomplete, Lexeme: l.input[vstart:], Construct: ConstructAttr, Pos: vstart})
		return
	}
	l.emit(Token{Type: AttrValue, Lexeme: l.input[vstart:l.pos], Pos: vstart})
}

func (l *Lexer) scanCloseTag() {
	start := l.pos
	i := l.pos + 2
	if i >= len(l.input) {
		l.pos = len(l.input)
		l.emit(Token{Type: Incomplete, Construct: ConstructCloseTag, Pos: start})
		return
	}
	if !isNameStart(l.input[i]) {
		l.demoteAngle()
		return
	}
	nstart := i
	for i < len(l.input) && isNameChar(l.input[i]) {
		i++
	}
	name := l.input[nstart:i]
	for i < len(l.input) && isSpace(l.input[i]) {
		i++
	}
	if i >= len(l.input) {
		l.pos = i
		l.emit(Token{Type: Incomplete, Lexeme: name, Construct: ConstructCloseTag, Pos: start})
		return
	}
	if l.input[i] != '>' {
		l.demoteAngle()
		return
	}
	l.emit(Token{Type: CloseTag, Lexeme: name, Pos: start})
	l.pos = i + 1
}

// scanBang handles CDATA sections and comments. Anything else after "<!" is
// demoted to text.
func (l *Lexer) scanBang() {
	start := l.pos
	rest := l.input[l.pos:]
	switch {
	case strings.HasPrefix(rest, cdataOpen):
		body := l.input[l.pos+len(cdataOpen):]
		end := strings.Index(body, cdataClose)
		if end < 0 {
			l.pos = len(l.input)
			l.emit(Token{Type: Incomplete, Lexeme: body, Construct: ConstructCDATA, Pos: start})
			return
		}
		// CDATA content is raw: no entity decoding.
		if end > 0 {
			l.emit(Token{Type: Text, Lexeme: body[:end], Pos: start + len(cdataOpen)})
		}
		l.pos += len(cdataOpen) + end + len(cdataClose)
	case strings.HasPrefix(cdataOpen, rest):
		// Buffer ends inside the "<![CDATA[" opener itself.
		l.pos = len(l.input)
		l.emit(Token{Type: Incomplete, Construct: ConstructCDATA, Pos: start})
	case strings.HasPrefix(rest, commentOpen):
		body := l.input[l.pos+len(commentOpen):]
		end := strings.Index(body, commentClose)
		if end < 0 {
			l.pos = len(l.input)
			l.emit(Token{Type: Incomplete, Construct: ConstructComment, Pos: start})
			return
		}
		l.pos += len(commentOpen) + end + len(commentClose)
		// Comment skipped; no token.
	case strings.HasPrefix(commentOpen, rest):
		l.pos = len(l.input)
		l.emit(Token{Type: Incomplete, Construct: ConstructComment, Pos: start})
	default:
		l.demoteAngle()
	}
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.pos++
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c == '-' || (c >= '0' && c <= '9')
}
