package parse

import "github.com/zanderlang/zander/perr"

// LRSession drives one parse against an LRTable.
type LRSession struct {
	table      *LRTable
	decorators map[int]TerminalDecorator
	reducers   map[int]Reducer
}

// NewLRSession builds a parse session over the given table.
func NewLRSession(table *LRTable) *LRSession {
	return &LRSession{
		table:      table,
		decorators: map[int]TerminalDecorator{},
		reducers:   map[int]Reducer{},
	}
}

func (s *LRSession) AddTerminalDecorator(term int, fn TerminalDecorator) { s.decorators[term] = fn }
func (s *LRSession) AddReducer(rule int, fn Reducer)                     { s.reducers[rule] = fn }

// Parse runs the classic shift/reduce driver: a
// parallel state stack and parse stack, looping until an accept action is
// reached.
func (s *LRSession) Parse(in InputStream) (any, error) {
	stateStack := []int{s.table.Automaton.Start}
	var parseStack []any
	pos := 0

	for {
		state := stateStack[len(stateStack)-1]
		tok := in.Peek()

		action := s.table.Action(state, tok.TermIndex)

		switch action.Type {
		case LRShift:
			var decorated any
			if dec, ok := s.decorators[tok.TermIndex]; ok {
				decorated = dec(tok.TermIndex, tok.Lexeme)
			} else {
				decorated = tok.Lexeme
			}
			parseStack = append(parseStack, decorated)
			stateStack = append(stateStack, action.State)
			in.Next()
			pos++

		case LRReduce:
			rhsLen := NonEpsilonLen(s.table.g.Rule(action.Rule).Productions[action.Prod])
			children := append([]any(nil), parseStack[len(parseStack)-rhsLen:]...)
			parseStack = parseStack[:len(parseStack)-rhsLen]
			stateStack = stateStack[:len(stateStack)-rhsLen]

			var reduced any
			if r, ok := s.reducers[action.Rule]; ok {
				reduced = r(action.Rule, children)
			}
			parseStack = append(parseStack, reduced)

			exposed := stateStack[len(stateStack)-1]
			next := s.table.Goto(exposed, s.table.g.NumTerminals()+action.Rule)
			if next < 0 {
				return nil, &perr.ParseError{Pos: pos, Message: "no goto entry after reducing rule"}
			}
			stateStack = append(stateStack, next)

		case LRAccept:
			if len(parseStack) != 1 {
				return nil, &perr.ParseError{Pos: pos, Message: "parse did not reduce to a single result"}
			}
			return parseStack[0], nil

		default:
			return nil, &perr.ParseError{Pos: pos, Message: "no applicable action on current lookahead"}
		}
	}
}
