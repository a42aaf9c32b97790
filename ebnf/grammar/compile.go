package grammar

import (
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/packrat/peg"
)

type Option func(*compiler)

// WithoutEOF lets a parse succeed without consuming the whole input.
func WithoutEOF() Option {
	return func(c *compiler) {
		c.requireEOF = false
	}
}

// WithoutWhitespace disables whitespace skipping between the tokens of
// non-lexical productions.
func WithoutWhitespace() Option {
	return func(c *compiler) {
		c.whitespace = false
	}
}

// WithInline replaces the nodes of the named productions by their
// children in the tree.
func WithInline(names ...string) Option {
	return func(c *compiler) {
		for _, n := range names {
			c.inline[n] = true
		}
	}
}

// Grammar is a compiled EBNF grammar. It is safe for concurrent use.
type Grammar struct {
	start       string
	productions []string
	parser      *peg.Grammar[*Node]
}

// Start returns the name of the start production.
func (g *Grammar) Start() string { return g.start }

// Productions returns the production names in sorted order.
func (g *Grammar) Productions() []string { return g.productions }

// Parse parses input and returns the tree of the start production.
func (g *Grammar) Parse(input string) (*Node, error) {
	return g.parser.Parse(input)
}

// Suggest returns the completion candidates at the furthest point a
// parse of input from offset start reaches, and that point.
func (g *Grammar) Suggest(input string, start int) (int, []string) {
	return g.parser.Suggest(input, start)
}

// Compile verifies g from start and builds its parser.
func Compile(g ebnf.Grammar, start string, opts ...Option) (*Grammar, error) {
	if err := ebnf.Verify(g, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	c := &compiler{
		grammar:    g,
		dict:       peg.NewDictionary[peg.Text](),
		atoms:      make(map[string]peg.Atom[*Node], len(g)),
		inline:     make(map[string]bool),
		requireEOF: true,
		whitespace: true,
		children:   peg.NewAtom[*childList]("children"),
		start:      peg.NewAtom[int]("start"),
	}
	for _, opt := range opts {
		opt(c)
	}

	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.atoms[name] = peg.NewAtom[*Node](name)
	}
	for _, name := range names {
		if err := c.production(g[name]); err != nil {
			return nil, err
		}
	}

	body := []peg.Term[peg.Text]{peg.Named(c.dict, c.atoms[start])}
	if c.requireEOF {
		if c.whitespace && !isLexical(start) {
			body = append(body, skipWhitespace)
		}
		body = append(body, peg.EndOfInput())
	}
	startAtom := c.atoms[start]
	top := peg.PutTerm(c.dict, peg.NewAtom[*Node]("top"), peg.Sequence(body...), func(s *peg.Scope) (*Node, bool) {
		return peg.Get(s, startAtom)
	})
	parser, err := peg.NewGrammar(c.dict, top)
	if err != nil {
		return nil, fmt.Errorf("compile grammar: %w", err)
	}

	log := commonlog.GetLogger("packrat.ebnf")
	log.Debugf("compiled %d productions, start %s, %d rules", len(names), start, c.dict.Len())

	return &Grammar{start: start, productions: names, parser: parser}, nil
}

type compiler struct {
	grammar    ebnf.Grammar
	dict       *peg.Dictionary[peg.Text]
	atoms      map[string]peg.Atom[*Node]
	inline     map[string]bool
	requireEOF bool
	whitespace bool
	children   peg.Atom[*childList]
	start      peg.Atom[int]
	loops      int
}

// isLexical follows the ebnf package: lower-case names are tokens.
func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}

func (c *compiler) production(p *ebnf.Production) error {
	name := p.Name.String
	lexical := isLexical(name)
	body, err := c.expression(p.Expr, lexical)
	if err != nil {
		return fmt.Errorf("production %s: %w", name, err)
	}

	var terms []peg.Term[peg.Text]
	if c.whitespace && !lexical {
		terms = append(terms, skipWhitespace)
	}
	terms = append(terms, c.beginNode(), body)

	peg.PutComplex(c.dict, c.atoms[name], peg.Sequence(terms...), func(st peg.ParseState[peg.Text]) (*Node, bool) {
		return c.node(st, name), true
	})
	return nil
}

// beginNode resets the children and records where the node starts.
func (c *compiler) beginNode() peg.Term[peg.Text] {
	return peg.TermFunc[peg.Text](func(st peg.ParseState[peg.Text], scope *peg.Scope, _ peg.Control) bool {
		peg.Put(scope, c.start, st.Mark())
		peg.Put[*childList](scope, c.children, nil)
		return true
	})
}

func (c *compiler) node(st peg.ParseState[peg.Text], kind string) *Node {
	scope := st.Scope()
	input := st.Input().String()
	start, end := peg.MustGet(scope, c.start), st.Mark()
	return &Node{
		Kind:     kind,
		Text:     input[start:end],
		Span:     Span{Start: positionAt(input, start), End: positionAt(input, end)},
		Children: peg.GetOrDefault(scope, c.children, nil).nodes(),
	}
}

func (c *compiler) expression(expr ebnf.Expression, lexical bool) (peg.Term[peg.Text], error) {
	switch e := expr.(type) {
	case nil:
		return peg.Empty[peg.Text](), nil

	case *ebnf.Token:
		return c.token(peg.Literal(e.String), lexical), nil

	case *ebnf.Range:
		lo, _ := utf8.DecodeRuneInString(e.Begin.String)
		hi, _ := utf8.DecodeRuneInString(e.End.String)
		return c.token(peg.CharRange(lo, hi), lexical), nil

	case *ebnf.Name:
		atom, ok := c.atoms[e.String]
		if !ok {
			return nil, fmt.Errorf("undefined production %s", e.String)
		}
		ref := &childRef{rule: peg.Forward(c.dict, atom), children: c.children, inline: c.inline[e.String]}
		if c.whitespace && !lexical && isLexical(e.String) {
			return peg.Sequence[peg.Text](skipWhitespace, ref), nil
		}
		return ref, nil

	case ebnf.Sequence:
		terms := make([]peg.Term[peg.Text], len(e))
		for i, item := range e {
			t, err := c.expression(item, lexical)
			if err != nil {
				return nil, err
			}
			terms[i] = t
		}
		return peg.Sequence(terms...), nil

	case ebnf.Alternative:
		terms := make([]peg.Term[peg.Text], len(e))
		for i, alt := range e {
			t, err := c.expression(alt, lexical)
			if err != nil {
				return nil, err
			}
			terms[i] = t
		}
		return peg.Alternative(terms...), nil

	case *ebnf.Group:
		return c.expression(e.Body, lexical)

	case *ebnf.Option:
		body, err := c.expression(e.Body, lexical)
		if err != nil {
			return nil, err
		}
		return peg.Alternative(body, peg.Empty[peg.Text]()), nil

	case *ebnf.Repetition:
		body, err := c.expression(e.Body, lexical)
		if err != nil {
			return nil, err
		}
		return c.repetition(body), nil

	case *ebnf.Bad:
		return nil, fmt.Errorf("bad expression: %s", e.Error)

	default:
		return nil, fmt.Errorf("unsupported expression %T", expr)
	}
}

func (c *compiler) token(t peg.Term[peg.Text], lexical bool) peg.Term[peg.Text] {
	if c.whitespace && !lexical {
		return peg.Sequence[peg.Text](skipWhitespace, t)
	}
	return t
}

// repetition matches body as often as possible through an element rule
// of its own, then appends the children of every iteration.
func (c *compiler) repetition(body peg.Term[peg.Text]) peg.Term[peg.Text] {
	c.loops++
	element := peg.NewAtom[*childList](fmt.Sprintf("loop#%d", c.loops))
	list := peg.NewAtom[[]*childList](fmt.Sprintf("loop#%d.items", c.loops))
	rule := peg.PutTerm(c.dict, element, peg.Sequence(c.beginNode(), body), func(s *peg.Scope) (*childList, bool) {
		return peg.GetOrDefault(s, c.children, nil), true
	})
	splice := peg.TermFunc[peg.Text](func(_ peg.ParseState[peg.Text], scope *peg.Scope, _ peg.Control) bool {
		acc := peg.GetOrDefault(scope, c.children, nil)
		for _, iteration := range peg.MustGet(scope, list) {
			for _, n := range iteration.nodes() {
				acc = acc.push(n)
			}
		}
		peg.Put(scope, c.children, acc)
		return true
	})
	return peg.Sequence[peg.Text](peg.Repeated(rule, list, 0), splice)
}

// childRef parses a production and appends its node to the children of
// the enclosing one.
type childRef struct {
	rule     *peg.NamedRule[peg.Text, *Node]
	children peg.Atom[*childList]
	inline   bool
}

func (r *childRef) Parse(st peg.ParseState[peg.Text], scope *peg.Scope, _ peg.Control) bool {
	n, ok := peg.Parse(st, r.rule)
	if !ok {
		return false
	}
	acc := peg.GetOrDefault(scope, r.children, nil)
	if r.inline {
		for _, child := range n.Children {
			acc = acc.push(child)
		}
	} else {
		acc = acc.push(n)
	}
	peg.Put(scope, r.children, acc)
	return true
}

var skipWhitespace = peg.TermFunc[peg.Text](func(st peg.ParseState[peg.Text], _ *peg.Scope, _ peg.Control) bool {
	in := st.Input()
	for {
		ch, size := in.Peek()
		if size == 0 || !unicode.IsSpace(ch) {
			return true
		}
		in.SetCursor(in.Cursor() + size)
	}
})
