package defs

import (
	"strings"

	"github.com/zanderlang/zander/ebnf"
	"github.com/zanderlang/zander/grammar"
	"github.com/zanderlang/zander/lex"
	"github.com/zanderlang/zander/perr"
	"github.com/zanderlang/zander/token"
)

// endOfInputName is the synthetic terminal appended after every declared and
// literal terminal, occupying the grammar's last terminal slot by the
// convention parse.fillShiftsAndAccepts relies on.
const endOfInputName = "$"

// rootRuleName is the reserved nonterminal name a definition file's start
// rule must use.
const rootRuleName = "root"

// Definitions is a compiled definition file: its declared terminals (plus
// any literal terminals introduced inline in a rule body) and its EBNF
// rules, ready to normalize into a grammar.Grammar and to compile into a
// lex.Tokenizer.
type Definitions struct {
	termNames    []string // declared + literal terminals, in first-seen order
	termPatterns []string // parallel to termNames
	ruleNames    []string
	ebnfRules    []ebnf.Rule
	startRule    int
	newlineTerm  string // declared terminal name playing the newline role, or ""
}

// compiler accumulates terminal/nonterminal tables while a definition file's
// rule bodies are parsed into ebnf.Node trees.
type compiler struct {
	termNames    []string
	termPatterns []string
	termIndex    map[string]int
	litIndex     map[string]int // literal token lexeme ('...') -> terminal index

	ruleNames []string
	ruleIndex map[string]int
}

func (c *compiler) addLiteral(lexeme string) int {
	if idx, ok := c.litIndex[lexeme]; ok {
		return idx
	}
	raw := unquoteLiteral(lexeme)
	idx := len(c.termNames)
	c.termNames = append(c.termNames, lexeme)
	c.termPatterns = append(c.termPatterns, escapeLiteral(raw))
	c.litIndex[lexeme] = idx
	return idx
}

// unquoteLiteral strips the surrounding quotes from a 'literal' token and
// turns its \' escape back into a plain quote.
func unquoteLiteral(lexeme string) string {
	inner := lexeme[1 : len(lexeme)-1]
	return strings.ReplaceAll(inner, `\'`, `'`)
}

// escapeLiteral turns raw literal text into a regex pattern matching it
// exactly, by backslash-escaping every byte: the regex parser's escape
// fallback treats '\' followed by any byte as that literal byte, so this is
// safe regardless of which bytes in raw happen to be regex metacharacters.
func escapeLiteral(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		b.WriteByte('\\')
		b.WriteByte(raw[i])
	}
	return b.String()
}

type termDecl struct {
	name    string
	pattern string
}

type nontermDecl struct {
	name   string
	tokens []token.Token
}

// Read scans definition-file text, collecting terminal and nonterminal
// declarations in file order, then compiles every rule body into an
// ebnf.Node tree against the full terminal/nonterminal tables (so a rule may
// reference a nonterminal declared later in the file).
func Read(text string) (*Definitions, error) {
	mt, err := buildMetaTokenizer()
	if err != nil {
		return nil, err
	}
	stream := lex.NewStream(mt, strings.NewReader(text))

	var terms []termDecl
	var nonterms []nontermDecl

	for {
		tok := stream.Peek()
		if tok.Class().ID() == token.End.ID() {
			break
		}
		if tok.Class().Equal(clsNewline) {
			stream.Next()
			continue
		}

		switch {
		case tok.Class().Equal(clsNonterm):
			name := strings.Trim(tok.Lexeme(), "<>")
			stream.Next()
			if err := expect(stream, clsColon, "':'"); err != nil {
				return nil, err
			}
			body, err := collectLine(stream)
			if err != nil {
				return nil, err
			}
			nonterms = append(nonterms, nontermDecl{name: name, tokens: body})

		case tok.Class().Equal(clsIdent):
			name := tok.Lexeme()
			stream.Next()
			if err := expect(stream, clsColon, "':'"); err != nil {
				return nil, err
			}
			stream.SetConfiguration(configPattern)
			patTok := stream.Next()
			if !patTok.Class().Equal(clsPatternTxt) {
				return nil, perr.NewSyntaxErrorFromToken("expected a regex pattern after ':'", patTok)
			}
			if nl := stream.Next(); !nl.Class().Equal(clsNewline) && nl.Class().ID() != token.End.ID() {
				return nil, perr.NewSyntaxErrorFromToken("expected end of line after pattern", nl)
			}
			stream.SetConfiguration(configDirective)
			terms = append(terms, termDecl{name: name, pattern: strings.Trim(patTok.Lexeme(), " \t\r")})

		default:
			return nil, perr.NewSyntaxErrorFromToken("expected a terminal name or <nonterminal> at start of line", tok)
		}
	}

	return compile(terms, nonterms)
}

// expect consumes and validates the next token's class, the way a
// hand-rolled recursive-descent reader checks required punctuation.
func expect(s *lex.Stream, cls token.Class, human string) error {
	tok := s.Next()
	if !tok.Class().Equal(cls) {
		return perr.NewSyntaxErrorFromToken("expected "+human, tok)
	}
	return nil
}

// collectLine gathers every directive-configuration token up to (and
// excluding) the line's terminating newline or end-of-input.
func collectLine(s *lex.Stream) ([]token.Token, error) {
	var out []token.Token
	for {
		tok := s.Peek()
		if tok.Class().Equal(clsNewline) || tok.Class().ID() == token.End.ID() {
			if tok.Class().Equal(clsNewline) {
				s.Next()
			}
			return out, nil
		}
		if tok.Class().ID() == token.Error.ID() {
			return nil, perr.NewSyntaxErrorFromToken("unexpected character", tok)
		}
		out = append(out, tok)
		s.Next()
	}
}

func compile(terms []termDecl, nonterms []nontermDecl) (*Definitions, error) {
	c := &compiler{
		termIndex: map[string]int{},
		litIndex:  map[string]int{},
		ruleIndex: map[string]int{},
	}

	newlineTerm := ""
	for _, td := range terms {
		if _, ok := c.termIndex[td.name]; ok {
			return nil, perr.NewParseError(0, "terminal %q declared more than once", td.name)
		}
		c.termIndex[td.name] = len(c.termNames)
		c.termNames = append(c.termNames, td.name)
		c.termPatterns = append(c.termPatterns, td.pattern)
		if td.name == "NEWLINE" {
			newlineTerm = td.name
		}
	}

	for _, nd := range nonterms {
		if _, ok := c.ruleIndex[nd.name]; ok {
			return nil, perr.NewParseError(0, "nonterminal %q declared more than once", nd.name)
		}
		c.ruleIndex[nd.name] = len(c.ruleNames)
		c.ruleNames = append(c.ruleNames, nd.name)
	}

	startRule, ok := c.ruleIndex[rootRuleName]
	if !ok {
		return nil, perr.NewParseError(0, "no %q rule declared", rootRuleName)
	}

	rules := make([]ebnf.Rule, len(nonterms))
	for i, nd := range nonterms {
		p := &rhsParser{toks: nd.tokens, c: c}
		rhs, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if !p.eof() {
			return nil, perr.NewSyntaxErrorFromToken("unexpected trailing token in rule body", p.peek())
		}
		rules[i] = ebnf.Rule{Name: nd.name, RHS: rhs}
	}

	return &Definitions{
		termNames:    c.termNames,
		termPatterns: c.termPatterns,
		ruleNames:    c.ruleNames,
		ebnfRules:    rules,
		startRule:    startRule,
		newlineTerm:  newlineTerm,
	}, nil
}

// Tokenizer compiles the declared terminal patterns (not including the
// synthetic end-of-input terminal, which no tokenizer pattern ever
// produces) into a one-configuration lex.Tokenizer. A terminal named
// NEWLINE, if declared, is passed as the reserved newline class so its
// matches increment the line counter instead of being surfaced as tokens,
// mirroring how a terminal named IGNORE is dropped by class ID alone.
func (d *Definitions) Tokenizer() (*lex.Tokenizer, error) {
	classes := make([]token.Class, len(d.termNames))
	for i, name := range d.termNames {
		classes[i] = token.NewClass(name)
	}
	var newlineClass token.Class
	if d.newlineTerm != "" {
		newlineClass = token.NewClass(d.newlineTerm)
	}
	cfg := lex.Configuration{Name: "main", Classes: classes, Patterns: d.termPatterns}
	return lex.Build([]lex.Configuration{cfg}, newlineClass)
}

// Grammar normalizes the EBNF rules into a BNF grammar.Grammar, with the
// synthetic end-of-input terminal appended as the grammar's last terminal.
func (d *Definitions) Grammar() *grammar.Grammar {
	terminals := append(append([]string(nil), d.termNames...), endOfInputName)
	return ebnf.Normalize(terminals, d.ebnfRules, d.startRule)
}

// EndOfInput returns the terminal index the end-of-input sentinel occupies
// in Grammar()'s terminal list.
func (d *Definitions) EndOfInput() int {
	return len(d.termNames)
}
