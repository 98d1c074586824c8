// Package parser assembles token streams into value trees driven by a
// schema descriptor. It is the tolerant core of the module: unknown tags
// are skipped with their subtrees, missing closing tags are implied by a
// parent's close or a sibling's open, truncated constructs leave their
// position open, and in partial mode no malformed leaf ever aborts the
// surrounding parse.
//
// Each Parse call is stateless with respect to prior calls: incremental
// callers pass the full text accumulated so far on every invocation.
package parser

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/llmxml/lexer"
	"github.com/BaSui01/llmxml/schema"
	"github.com/BaSui01/llmxml/types"
)

// Mode selects final or partial parse semantics.
type Mode uint8

const (
	// Partial tolerates truncated, unresolved and malformed positions,
	// encoding them as Unset/Invalid states instead of errors.
	Partial Mode = iota
	// Final validates the finished document: unmet required fields,
	// unresolved unions and coercion failures become errors.
	Final
)

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets a custom zap logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// Parser parses documents against one descriptor tree. It is stateless
// across Parse calls and safe for concurrent use.
type Parser struct {
	desc   *schema.Descriptor
	logger *zap.Logger
}

// New creates a Parser for the given descriptor tree. The tree is validated
// once here; a malformed tree is a DescriptorError and never retried.
func New(desc *schema.Descriptor, opts ...Option) (*Parser, error) {
	if desc == nil {
		return nil, types.NewError(types.ErrDescriptor, "nil descriptor tree")
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	p := &Parser{desc: desc, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Parse lexes text and assembles it against the parser's descriptor tree.
// In Partial mode the only possible error is a DescriptorError; every
// malformed-input condition is encoded in the returned value tree instead.
func (p *Parser) Parse(text string, mode Mode) (*Result, error) {
	cur := &cursor{toks: lexer.Tokenize(text)}
	root := p.desc.Inner()
	opens := containerOpens(root)
	opens[root.Name] = true

	var v *Value
scan:
	for v == nil {
		switch t := cur.peek(); t.Type {
		case lexer.EOF, lexer.Incomplete:
			break scan
		case lexer.OpenTagStart:
			name := cur.peekName()
			switch {
			case name == root.Name && root.Kind != schema.KindUnion:
				// Input wrapped in the root tag: parse its body.
				_, selfClosed, complete := readOpenTag(cur)
				st := stack{{name: name, opens: opens}}
				v = p.parseAfterOpen(root, cur, st, selfClosed, complete)
			case p.matchesBare(root, name):
				// Bare content: the root's own fields at top level.
				st := stack{{name: root.Name, opens: opens}}
				v = p.parseBody(root, cur, st)
			default:
				p.logger.Debug("skipping unknown top-level tag", zap.String("tag", name))
				skipSubtree(cur, nil, opens)
			}
		default:
			cur.next()
		}
	}
	if v == nil {
		v = &Value{Desc: p.desc, State: Unset, Open: cur.peek().Type == lexer.Incomplete}
	}

	res := &Result{Value: v, LastOpen: lastOpenPath(v)}
	if mode == Final {
		if err := p.validate(p.desc, v, p.desc.Inner().Name); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// matchesBare reports whether an open tag can start the root's content
// directly, without the root's own wrapping tag.
func (p *Parser) matchesBare(root *schema.Descriptor, name string) bool {
	switch root.Kind {
	case schema.KindObject:
		f, _ := fieldFor(root, name)
		return f != nil
	case schema.KindUnion:
		return root.Alternative(name) != nil
	case schema.KindList:
		return elemMatches(root, name)
	default:
		return false
	}
}

// parseAfterOpen assembles the value for a descriptor whose opening tag was
// just consumed. selfClosed and complete describe how that tag ended.
func (p *Parser) parseAfterOpen(d *schema.Descriptor, cur *cursor, st stack, selfClosed, complete bool) *Value {
	d = d.Inner()
	if !complete {
		// The opening tag itself was truncated; nothing inside it yet.
		return &Value{Desc: d, State: Unset, Open: true}
	}
	if selfClosed {
		v := &Value{Desc: d, closedExplicitly: true}
		if d.Kind == schema.KindScalar {
			coerce(v, d, "", false)
		}
		return v
	}
	return p.parseBody(d, cur, st)
}

func (p *Parser) parseBody(d *schema.Descriptor, cur *cursor, st stack) *Value {
	switch d.Kind {
	case schema.KindScalar:
		return p.parseScalarBody(d, cur, st)
	case schema.KindObject:
		return p.parseObjectBody(d, cur, st)
	case schema.KindList:
		return p.parseListBody(d, cur, st)
	case schema.KindUnion:
		// Unions have no tag of their own; they resolve at the matching
		// site. Reaching here means the root itself is a union.
		return p.parseUnionAt(d, cur, st)
	default:
		return &Value{Desc: d, State: Unset}
	}
}

// parseObjectBody consumes tokens until the object's own closing tag, an
// enclosing construct's boundary, or end of input.
func (p *Parser) parseObjectBody(d *schema.Descriptor, cur *cursor, st stack) *Value {
	v := &Value{Desc: d, State: Valid}
	opens := containerOpens(d)
	for {
		switch t := cur.peek(); t.Type {
		case lexer.EOF:
			v.Open = true
			return v
		case lexer.Incomplete:
			cur.next()
			v.Open = true
			return v
		case lexer.Text:
			cur.next() // prose between fields carries no data
		case lexer.CloseTag:
			switch {
			case t.Lexeme == d.Name:
				cur.next()
				v.closedExplicitly = true
				return v
			case st.closes(t.Lexeme):
				// Our own closing tag is missing; the ancestor's close
				// implies ours.
				return v
			default:
				cur.next() // unmatched closing tag, tolerated
			}
		case lexer.OpenTagStart:
			name := cur.peekName()
			f, branch := fieldFor(d, name)
			if f == nil {
				if st.opensAbove(name) {
					// A sibling of an enclosing construct: this object was
					// never closed properly.
					return v
				}
				p.logger.Debug("skipping unknown tag", zap.String("tag", name), zap.String("in", d.Name))
				skipSubtree(cur, st, opens)
				continue
			}
			p.parseField(v, f, branch, cur, st.push(name, opens))
		default:
			cur.next()
		}
	}
}

// parseField descends into one matched field. Union fields commit to the
// first matching alternative permanently for this parse; tags for other
// alternatives observed later are skipped.
func (p *Parser) parseField(v *Value, f, branch *schema.Descriptor, cur *cursor, st stack) {
	inner := f.Inner()
	key := inner.Name
	if branch == nil {
		_, selfClosed, complete := readOpenTag(cur)
		v.setField(key, p.parseAfterOpen(f, cur, st, selfClosed, complete))
		return
	}

	existing := v.FieldValue(key)
	if existing != nil && existing.Branch != "" && existing.Branch != branch.Name {
		p.logger.Debug("union already committed, skipping branch",
			zap.String("union", key),
			zap.String("committed", existing.Branch),
			zap.String("skipped", branch.Name))
		skipSubtree(cur, st, nil)
		return
	}
	p.logger.Debug("union resolved", zap.String("union", key), zap.String("branch", branch.Name))
	_, selfClosed, complete := readOpenTag(cur)
	child := p.parseAfterOpen(branch, cur, st, selfClosed, complete)
	uv := &Value{Desc: f, State: Valid, Branch: branch.Name, Child: child, Open: child.Open}
	v.setField(key, uv)
}

// parseListBody accumulates elements; the list closes only on its own
// closing tag or on an enclosing boundary.
func (p *Parser) parseListBody(d *schema.Descriptor, cur *cursor, st stack) *Value {
	v := &Value{Desc: d, State: Valid, Items: []*Value{}}
	elem := d.Elem.Inner()
	opens := containerOpens(d)
	for {
		switch t := cur.peek(); t.Type {
		case lexer.EOF:
			v.Open = true
			return v
		case lexer.Incomplete:
			cur.next()
			v.Open = true
			return v
		case lexer.Text:
			cur.next()
		case lexer.CloseTag:
			switch {
			case t.Lexeme == d.Name:
				cur.next()
				v.closedExplicitly = true
				return v
			case st.closes(t.Lexeme):
				return v
			default:
				cur.next()
			}
		case lexer.OpenTagStart:
			name := cur.peekName()
			if !elemMatches(d, name) {
				if st.opensAbove(name) {
					return v
				}
				p.logger.Debug("skipping unknown tag", zap.String("tag", name), zap.String("in", d.Name))
				skipSubtree(cur, st, opens)
				continue
			}
			childStack := st.push(name, opens)
			if elem.Kind == schema.KindUnion {
				branch := elem.Alternative(name)
				_, selfClosed, complete := readOpenTag(cur)
				child := p.parseAfterOpen(branch, cur, childStack, selfClosed, complete)
				v.Items = append(v.Items, &Value{Desc: d.Elem, State: Valid, Branch: branch.Name, Child: child, Open: child.Open})
			} else {
				_, selfClosed, complete := readOpenTag(cur)
				v.Items = append(v.Items, p.parseAfterOpen(d.Elem, cur, childStack, selfClosed, complete))
			}
		default:
			cur.next()
		}
	}
}

// parseUnionAt handles a union in root position: the next open tag matching
// an alternative commits it.
func (p *Parser) parseUnionAt(d *schema.Descriptor, cur *cursor, st stack) *Value {
	for {
		switch t := cur.peek(); t.Type {
		case lexer.EOF:
			return &Value{Desc: d, State: Unset, Open: true}
		case lexer.Incomplete:
			cur.next()
			return &Value{Desc: d, State: Unset, Open: true}
		case lexer.OpenTagStart:
			name := cur.peekName()
			branch := d.Alternative(name)
			if branch == nil {
				skipSubtree(cur, st, nil)
				continue
			}
			_, selfClosed, complete := readOpenTag(cur)
			child := p.parseAfterOpen(branch, cur, st.push(name, containerOpens(d)), selfClosed, complete)
			return &Value{Desc: d, State: Valid, Branch: branch.Name, Child: child, Open: child.Open}
		default:
			cur.next()
		}
	}
}

// parseScalarBody accumulates text until the scalar's closing tag. Markup
// that belongs to no enclosing construct is folded back into the text, so
// code-bearing fields survive unescaped angle brackets.
func (p *Parser) parseScalarBody(d *schema.Descriptor, cur *cursor, st stack) *Value {
	v := &Value{Desc: d}
	var b strings.Builder
	for {
		switch t := cur.peek(); t.Type {
		case lexer.EOF:
			coerce(v, d, b.String(), true)
			return v
		case lexer.Incomplete:
			cur.next()
			switch t.Construct {
			case lexer.ConstructText, lexer.ConstructCDATA:
				b.WriteString(t.Lexeme)
			default:
				// A truncated tag at the very end: most likely this
				// scalar's own closing tag being produced. Never complete
				// it speculatively.
			}
			coerce(v, d, b.String(), true)
			return v
		case lexer.Text:
			cur.next()
			b.WriteString(t.Lexeme)
		case lexer.CloseTag:
			switch {
			case t.Lexeme == d.Name:
				cur.next()
				coerce(v, d, b.String(), false)
				v.closedExplicitly = true
				return v
			case st.closes(t.Lexeme):
				coerce(v, d, b.String(), false)
				return v
			default:
				// Stray closing tag inside a text field: literal content.
				cur.next()
				b.WriteString("</" + t.Lexeme + ">")
			}
		case lexer.OpenTagStart:
			name := cur.peekName()
			if st.opensAbove(name) {
				// A sibling's opening tag implies this scalar's close.
				coerce(v, d, b.String(), false)
				return v
			}
			b.WriteString(reserializeTag(cur))
		default:
			cur.next()
		}
	}
}

// validate walks the final value tree against the descriptor tree and
// surfaces the conditions partial mode encodes as states.
func (p *Parser) validate(d *schema.Descriptor, v *Value, path string) error {
	inner := d.Inner()
	switch inner.Kind {
	case schema.KindScalar:
		if v.State == Invalid {
			return types.NewError(types.ErrTypeCoercion, v.Reason).WithField(path)
		}
		if v.State == Unset && d.Required {
			return types.NewError(types.ErrMissingRequiredField, "no value observed").WithField(path)
		}
	case schema.KindObject:
		if v.State == Unset {
			// Root never observed: every required field is missing.
			if len(inner.Fields) > 0 {
				for _, f := range inner.Fields {
					if f.Required {
						return p.missingFieldError(f, path+"."+f.Inner().Name)
					}
				}
			}
			return nil
		}
		for _, f := range inner.Fields {
			name := f.Inner().Name
			fv := v.FieldValue(name)
			fieldPath := path + "." + name
			if fv == nil {
				if f.Required {
					return p.missingFieldError(f, fieldPath)
				}
				continue
			}
			if err := p.validate(f, fv, fieldPath); err != nil {
				return err
			}
		}
	case schema.KindList:
		for i, item := range v.Items {
			if err := p.validate(d.Inner().Elem, item, fieldPath(path, i)); err != nil {
				return err
			}
		}
	case schema.KindUnion:
		if v.Branch == "" {
			if d.Required {
				return types.NewError(types.ErrUnresolvedUnion, "no alternative matched").WithField(path)
			}
			return nil
		}
		branch := inner.Alternative(v.Branch)
		if branch == nil {
			return types.NewError(types.ErrUnresolvedUnion, "committed branch not in union").WithField(path)
		}
		return p.validate(branch, v.Child, path+"."+v.Branch)
	}
	return nil
}

func (p *Parser) missingFieldError(f *schema.Descriptor, path string) error {
	if f.Inner().Kind == schema.KindUnion {
		return types.NewError(types.ErrUnresolvedUnion, "no alternative matched").WithField(path)
	}
	return types.NewError(types.ErrMissingRequiredField, "required field not observed").WithField(path)
}

func fieldPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

// fieldFor resolves an open tag name against an object's fields. Union
// fields (and optional unions) match on their alternative tags; the second
// return value carries the matched alternative.
func fieldFor(d *schema.Descriptor, name string) (field, branch *schema.Descriptor) {
	for _, f := range d.Fields {
		inner := f.Inner()
		if inner.Kind == schema.KindUnion {
			if alt := inner.Alternative(name); alt != nil {
				return f, alt
			}
			continue
		}
		if inner.Name == name {
			return f, nil
		}
	}
	return nil, nil
}

// elemMatches reports whether an open tag starts a new element of the list.
func elemMatches(list *schema.Descriptor, name string) bool {
	elem := list.Elem.Inner()
	if elem.Kind == schema.KindUnion {
		return elem.Alternative(name) != nil
	}
	return elem.Name == name
}

// containerOpens is the set of tag names that can legitimately open inside
// the given container; it drives implicit-close detection.
func containerOpens(d *schema.Descriptor) map[string]bool {
	opens := make(map[string]bool)
	switch d.Kind {
	case schema.KindObject:
		for _, f := range d.Fields {
			inner := f.Inner()
			if inner.Kind == schema.KindUnion {
				for _, alt := range inner.Alternatives {
					opens[alt.Name] = true
				}
				continue
			}
			opens[inner.Name] = true
		}
	case schema.KindList:
		elem := d.Elem.Inner()
		if elem.Kind == schema.KindUnion {
			for _, alt := range elem.Alternatives {
				opens[alt.Name] = true
			}
		} else {
			opens[elem.Name] = true
		}
	case schema.KindUnion:
		for _, alt := range d.Alternatives {
			opens[alt.Name] = true
		}
	}
	return opens
}
