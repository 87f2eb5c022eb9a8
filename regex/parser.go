package regex

import (
	"fmt"

	"github.com/zanderlang/zander/encoding"
	"github.com/zanderlang/zander/perr"
)

// MaxByte is the highest byte value regex text can reference directly or via
// class inversion; the engine's declared input alphabet is [0, MaxByte].
const MaxByte = 127

type parser struct {
	src []byte
	pos int
}

// Parse parses regex text into an AST, following operator precedence
// (low to high) Sequence -> Suffix -> OneOf -> Symbol.
func Parse(text string) (*Node, error) {
	p := &parser{src: []byte(text)}
	n, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, perr.NewParseError(p.pos, "unexpected character %q", p.peekByte())
	}
	return n, nil
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peekByte() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) atClose() bool {
	return p.eof() || p.peekByte() == ')' || p.peekByte() == '|'
}

func (p *parser) parseSequence() (*Node, error) {
	var children []*Node
	for !p.atClose() {
		n, err := p.parseSuffix()
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return &Node{Kind: Sequence, Children: children}, nil
}

func (p *parser) parseSuffix() (*Node, error) {
	n, err := p.parseOneOf()
	if err != nil {
		return nil, err
	}
	for !p.eof() {
		switch p.peekByte() {
		case '*':
			p.pos++
			n = &Node{Kind: ZeroOrMore, Children: []*Node{n}}
		case '+':
			p.pos++
			n = &Node{Kind: OneOrMore, Children: []*Node{n}}
		case '?':
			p.pos++
			n = &Node{Kind: ZeroOrOne, Children: []*Node{n}}
		default:
			return n, nil
		}
	}
	return n, nil
}

func (p *parser) parseOneOf() (*Node, error) {
	if p.eof() {
		return nil, perr.NewParseError(p.pos, "incomplete escape or unterminated group at end of input")
	}

	switch p.peekByte() {
	case ')', '|', '*', '+', '?':
		return nil, perr.NewParseError(p.pos, "unexpected character %q where a symbol was expected", p.peekByte())
	case '(':
		p.pos++
		var alts []*Node
		first, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		alts = append(alts, first)
		for !p.eof() && p.peekByte() == '|' {
			p.pos++
			next, err := p.parseSequence()
			if err != nil {
				return nil, err
			}
			alts = append(alts, next)
		}
		if p.eof() || p.peekByte() != ')' {
			return nil, perr.NewParseError(p.pos, "unterminated group, expected ')'")
		}
		p.pos++
		if len(alts) == 1 {
			return alts[0], nil
		}
		return &Node{Kind: Alt, Children: alts}, nil
	default:
		return p.parseSymbol()
	}
}

func (p *parser) parseSymbol() (*Node, error) {
	switch p.peekByte() {
	case '[':
		return p.parseClass()
	case '\\':
		return p.parseEscape()
	default:
		b := p.peekByte()
		p.pos++
		return &Node{Kind: Symbol, Byte: b}, nil
	}
}

// escapeRanges maps the escapes with multi-byte meaning to the ranges they
// expand to; \t \n \r are single control bytes handled separately.
func escapeRanges(c byte) ([]encoding.ByteRange, bool) {
	switch c {
	case 's':
		return []encoding.ByteRange{{Lo: ' ', Hi: ' '}, {Lo: '\t', Hi: '\t'}, {Lo: '\n', Hi: '\n'}, {Lo: '\r', Hi: '\r'}, {Lo: '\f', Hi: '\f'}, {Lo: '\v', Hi: '\v'}}, true
	case 'w':
		return []encoding.ByteRange{{Lo: 'a', Hi: 'z'}, {Lo: 'A', Hi: 'Z'}, {Lo: '0', Hi: '9'}, {Lo: '_', Hi: '_'}}, true
	default:
		return nil, false
	}
}

func (p *parser) parseEscape() (*Node, error) {
	start := p.pos
	p.pos++ // consume backslash
	if p.eof() {
		return nil, perr.NewParseError(start, "incomplete escape at end of input")
	}
	c := p.peekByte()
	p.pos++

	switch c {
	case 't':
		return &Node{Kind: Symbol, Byte: '\t'}, nil
	case 'n':
		return &Node{Kind: Symbol, Byte: '\n'}, nil
	case 'r':
		return &Node{Kind: Symbol, Byte: '\r'}, nil
	case 's', 'w':
		ranges, _ := escapeRanges(c)
		return &Node{Kind: CharClass, Ranges: ranges}, nil
	case 'S', 'W':
		ranges, _ := escapeRanges(toLower(c))
		return &Node{Kind: CharClass, Ranges: invertRanges(ranges), Invert: true}, nil
	default:
		return &Node{Kind: Symbol, Byte: c}, nil
	}
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

// invertRanges subtracts the given sorted-or-not ranges from [0, MaxByte].
func invertRanges(ranges []encoding.ByteRange) []encoding.ByteRange {
	covered := make([]bool, MaxByte+1)
	for _, r := range ranges {
		for b := int(r.Lo); b <= int(r.Hi) && b <= MaxByte; b++ {
			covered[b] = true
		}
	}
	var out []encoding.ByteRange
	b := 0
	for b <= MaxByte {
		if covered[b] {
			b++
			continue
		}
		lo := b
		for b <= MaxByte && !covered[b] {
			b++
		}
		out = append(out, encoding.ByteRange{Lo: byte(lo), Hi: byte(b - 1)})
	}
	return out
}

func (p *parser) parseClass() (*Node, error) {
	start := p.pos
	p.pos++ // consume '['
	invert := false
	if !p.eof() && p.peekByte() == '^' {
		invert = true
		p.pos++
	}

	// Inside a class, \t, \n and \r name the control bytes as they do
	// outside one; any other escaped byte stands for itself.
	classEscape := func(c byte) byte {
		switch c {
		case 't':
			return '\t'
		case 'n':
			return '\n'
		case 'r':
			return '\r'
		}
		return c
	}

	var ranges []encoding.ByteRange
	first := true
	for {
		if p.eof() {
			return nil, perr.NewParseError(start, "unterminated character class at end of input")
		}
		if p.peekByte() == ']' && !first {
			p.pos++
			break
		}
		first = false

		var lo byte
		if p.peekByte() == '\\' {
			p.pos++
			if p.eof() {
				return nil, perr.NewParseError(p.pos, "incomplete escape in character class")
			}
			lo = classEscape(p.peekByte())
			p.pos++
		} else {
			lo = p.peekByte()
			p.pos++
		}

		hi := lo
		if !p.eof() && p.peekByte() == '-' {
			savedPos := p.pos
			p.pos++
			if p.eof() || p.peekByte() == ']' {
				// trailing literal '-'
				p.pos = savedPos
			} else {
				if p.peekByte() == '\\' {
					p.pos++
					if p.eof() {
						return nil, perr.NewParseError(p.pos, "incomplete escape in character class")
					}
					hi = classEscape(p.peekByte())
					p.pos++
				} else {
					hi = p.peekByte()
					p.pos++
				}
			}
		}

		if hi < lo {
			return nil, perr.NewParseError(start, "invalid range %q-%q in character class", lo, hi)
		}
		ranges = append(ranges, encoding.ByteRange{Lo: lo, Hi: hi})
	}

	if invert {
		ranges = invertRanges(ranges)
	}

	return &Node{Kind: CharClass, Ranges: ranges, Invert: invert}, nil
}

// Print renders an AST back into regex text; print(parse(r)) should parse
// back to an AST equal to parse(r) for any r this parser accepts.
func Print(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case Symbol:
		return printSymbolByte(n.Byte)
	case CharClass:
		// inversion was expanded at parse time; re-invert so the printed
		// form reparses to the same expanded ranges with the same flag.
		ranges := n.Ranges
		s := "["
		if n.Invert {
			s += "^"
			ranges = invertRanges(n.Ranges)
		}
		for _, r := range ranges {
			if r.Lo == r.Hi {
				s += printClassByte(r.Lo)
			} else {
				s += printClassByte(r.Lo) + "-" + printClassByte(r.Hi)
			}
		}
		return s + "]"
	case Sequence:
		s := ""
		for _, c := range n.Children {
			s += printGroupedIfNeeded(c)
		}
		return s
	case Alt:
		s := "("
		for i, c := range n.Children {
			if i > 0 {
				s += "|"
			}
			s += Print(c)
		}
		return s + ")"
	case ZeroOrOne:
		return printGroupedIfNeeded(n.Children[0]) + "?"
	case ZeroOrMore:
		return printGroupedIfNeeded(n.Children[0]) + "*"
	case OneOrMore:
		return printGroupedIfNeeded(n.Children[0]) + "+"
	default:
		return ""
	}
}

func printGroupedIfNeeded(n *Node) string {
	if n.Kind == Sequence || n.Kind == Alt {
		return "(" + Print(n) + ")"
	}
	return Print(n)
}

func printSymbolByte(b byte) string {
	switch b {
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '(', ')', '|', '*', '+', '?', '[', ']', '\\':
		return `\` + string(b)
	default:
		return string(b)
	}
}

func printClassByte(b byte) string {
	if b == ']' || b == '\\' || b == '-' || b == '^' {
		return `\` + string(b)
	}
	return fmt.Sprintf("%c", b)
}
