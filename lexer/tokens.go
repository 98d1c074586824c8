package lexer

// TokenType represents the lexical token kinds produced by the Lexer.
type TokenType int

const (
	// EOF marks a clean end of input, at a construct boundary.
	EOF TokenType = iota

	// OpenTagStart is the '<' that begins a well-formed opening tag.
	OpenTagStart

	// TagName is the name of an opening tag. Always follows OpenTagStart.
	TagName

	// AttrName is an attribute name inside an opening tag.
	AttrName

	// AttrValue is an attribute value inside an opening tag.
	AttrValue

	// TagEnd is the '>' closing an opening tag.
	TagEnd

	// SelfClosing is the '/>' closing a self-closing tag.
	SelfClosing

	// Text is a run of character data. Lexeme carries the run with the five
	// predefined XML entities decoded; unknown entities pass through literally.
	Text

	// CloseTag is a complete closing tag. Lexeme carries the tag name.
	CloseTag

	// Incomplete replaces the final token when input ends mid-construct.
	// Lexeme carries the partial lexeme collected so far and Construct names
	// the construct that was being built. It is only ever the last token of
	// a stream.
	Incomplete
)

// Construct identifies which construct an Incomplete token was building.
type Construct int

const (
	ConstructNone Construct = iota
	ConstructText
	ConstructTagName
	ConstructAttr
	ConstructCloseTag
	ConstructCDATA
	ConstructComment
)

// Token is one lexical unit of the input.
type Token struct {
	Type      TokenType
	Lexeme    string
	Construct Construct // set on Incomplete tokens only
	Pos       int       // byte offset of the token start in the input
}

func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case OpenTagStart:
		return "OpenTagStart"
	case TagName:
		return "TagName"
	case AttrName:
		return "AttrName"
	case AttrValue:
		return "AttrValue"
	case TagEnd:
		return "TagEnd"
	case SelfClosing:
		return "SelfClosing"
	case Text:
		return "Text"
	case CloseTag:
		return "CloseTag"
	case Incomplete:
		return "Incomplete"
	default:
		return "Unknown"
	}
}
