package defs

import (
	"strings"

	"github.com/zanderlang/zander/ebnf"
	"github.com/zanderlang/zander/perr"
	"github.com/zanderlang/zander/token"
)

// rhsParser is a recursive-descent parser over a collected line's worth of
// directive tokens, shaped the same way as regex.parser: Sequence -> Suffix
// -> OneOf -> Symbol, with grouping and alternation spelled with '(' '|' ')'
// instead of regex's bare '|' inside parens, and '?' '*' '+' meaning the same
// thing they do in a regex pattern.
type rhsParser struct {
	toks []token.Token
	pos  int
	c    *compiler
}

func (p *rhsParser) eof() bool { return p.pos >= len(p.toks) }

func (p *rhsParser) peek() token.Token {
	if p.eof() {
		return nil
	}
	return p.toks[p.pos]
}

func (p *rhsParser) peekIs(cls token.Class) bool {
	return !p.eof() && p.peek().Class().Equal(cls)
}

func (p *rhsParser) parseAlt() (*ebnf.Node, error) {
	first, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if !p.peekIs(clsAlt) {
		return first, nil
	}
	alts := []*ebnf.Node{first}
	for p.peekIs(clsAlt) {
		p.pos++
		next, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	return &ebnf.Node{Kind: ebnf.Alt, Children: alts}, nil
}

func (p *rhsParser) atClose() bool {
	return p.eof() || p.peekIs(clsRParen) || p.peekIs(clsAlt)
}

func (p *rhsParser) parseSequence() (*ebnf.Node, error) {
	var children []*ebnf.Node
	for !p.atClose() {
		n, err := p.parseSuffix()
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	if len(children) == 0 {
		return &ebnf.Node{Kind: ebnf.Symbol, SymKind: ebnf.SymEpsilon}, nil
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return &ebnf.Node{Kind: ebnf.Sequence, Children: children}, nil
}

func (p *rhsParser) parseSuffix() (*ebnf.Node, error) {
	n, err := p.parseOneOf()
	if err != nil {
		return nil, err
	}
	for !p.eof() {
		switch {
		case p.peekIs(clsStar):
			p.pos++
			n = &ebnf.Node{Kind: ebnf.ZeroOrMore, Child: n}
		case p.peekIs(clsPlus):
			p.pos++
			n = &ebnf.Node{Kind: ebnf.OneOrMore, Child: n}
		case p.peekIs(clsQMark):
			p.pos++
			n = &ebnf.Node{Kind: ebnf.ZeroOrOne, Child: n}
		default:
			return n, nil
		}
	}
	return n, nil
}

func (p *rhsParser) parseOneOf() (*ebnf.Node, error) {
	if p.eof() {
		return nil, perr.NewParseError(p.pos, "unexpected end of rule body, expected a symbol")
	}
	if p.peekIs(clsLParen) {
		p.pos++
		n, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if !p.peekIs(clsRParen) {
			return nil, perr.NewParseError(p.pos, "unterminated group, expected ')'")
		}
		p.pos++
		return n, nil
	}
	return p.parseSymbol()
}

func (p *rhsParser) parseSymbol() (*ebnf.Node, error) {
	t := p.peek()
	switch {
	case t.Class().Equal(clsEpsilon):
		p.pos++
		return &ebnf.Node{Kind: ebnf.Symbol, SymKind: ebnf.SymEpsilon}, nil

	case t.Class().Equal(clsNonterm):
		name := strings.Trim(t.Lexeme(), "<>")
		idx, ok := p.c.ruleIndex[name]
		if !ok {
			return nil, perr.NewParseError(p.pos, "reference to undefined nonterminal <%s>", name)
		}
		p.pos++
		return &ebnf.Node{Kind: ebnf.Symbol, SymKind: ebnf.SymNonterminal, Index: idx}, nil

	case t.Class().Equal(clsIdent):
		name := t.Lexeme()
		idx, ok := p.c.termIndex[name]
		if !ok {
			return nil, perr.NewParseError(p.pos, "reference to undefined terminal %q", name)
		}
		p.pos++
		return &ebnf.Node{Kind: ebnf.Symbol, SymKind: ebnf.SymTerminal, Index: idx}, nil

	case t.Class().Equal(clsLiteral):
		idx := p.c.addLiteral(t.Lexeme())
		p.pos++
		return &ebnf.Node{Kind: ebnf.Symbol, SymKind: ebnf.SymTerminal, Index: idx}, nil

	default:
		return nil, perr.NewParseError(p.pos, "unexpected %q in rule body", t.Lexeme())
	}
}
