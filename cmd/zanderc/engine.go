package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/zanderlang/zander/defs"
	"github.com/zanderlang/zander/glr"
	"github.com/zanderlang/zander/grammar"
	"github.com/zanderlang/zander/lex"
	"github.com/zanderlang/zander/parse"
	"github.com/zanderlang/zander/persist"
	"github.com/zanderlang/zander/token"
)

// engine is a compiled definition file ready to drive parses: a tokenizer,
// a grammar, and exactly one of the four table kinds mode selects.
type engine struct {
	tok        *lex.Tokenizer
	g          *grammar.Grammar
	endOfInput int
	mode       string

	ll1 *parse.LL1Table
	lr  *parse.LRTable
	glr *glr.Table
}

// build reads *grammarFile, compiles its tokenizer and grammar, and
// constructs the table named by *mode, consulting *cacheFile first when the
// mode supports caching.
func build() (*engine, error) {
	data, err := os.ReadFile(*grammarFile)
	if err != nil {
		return nil, fmt.Errorf("read definition file: %w", err)
	}

	d, err := defs.Read(string(data))
	if err != nil {
		return nil, fmt.Errorf("compile definition file: %w", err)
	}

	tok, err := d.Tokenizer()
	if err != nil {
		return nil, fmt.Errorf("build tokenizer: %w", err)
	}

	e := &engine{tok: tok, g: d.Grammar(), endOfInput: d.EndOfInput(), mode: strings.ToLower(*mode)}

	switch e.mode {
	case "ll1":
		sets := e.g.ComputeSets()
		t, err := parse.BuildLL1(e.g, sets)
		if err != nil {
			return nil, fmt.Errorf("build LL(1) table: %w", err)
		}
		e.ll1 = t

	case "slr":
		sets := e.g.ComputeSets()
		t, err := parse.BuildSLR(e.g, sets)
		if err != nil {
			return nil, fmt.Errorf("build SLR(1) table: %w", err)
		}
		e.lr = t

	case "lalr":
		if cached, ok := e.tryLoadCache(); ok {
			e.lr = cached
		} else {
			sets := e.g.ComputeSets()
			t, err := parse.BuildLALR(e.g, sets, e.endOfInput)
			if err != nil {
				return nil, fmt.Errorf("build LALR(1) table: %w", err)
			}
			e.lr = t
			e.writeCache(t)
		}

	case "glr":
		sets := e.g.ComputeSets()
		e.glr = glr.Build(e.g, sets, e.endOfInput)

	default:
		return nil, fmt.Errorf("unknown mode %q (want ll1, slr, lalr, or glr)", *mode)
	}

	return e, nil
}

// tryLoadCache attempts to load *cacheFile as a persisted table, rebuilding
// the grammar from the snapshot rather than trusting e.g to still match -
// the cache is only honored if its snapshotted grammar equals the one just
// compiled from the definition file.
func (e *engine) tryLoadCache() (*parse.LRTable, bool) {
	if *cacheFile == "" {
		return nil, false
	}
	data, err := os.ReadFile(*cacheFile)
	if err != nil {
		return nil, false
	}
	snap, err := persist.DecodeTable(data)
	if err != nil {
		return nil, false
	}
	g, t := snap.Table()
	if !sameGrammar(g, e.g) {
		return nil, false
	}
	return t, true
}

func (e *engine) writeCache(t *parse.LRTable) {
	if *cacheFile == "" {
		return
	}
	snap := persist.SnapshotTable(e.g, t, e.endOfInput)
	_ = os.WriteFile(*cacheFile, persist.EncodeTable(snap), 0o644)
}

// sameGrammar compares two grammars by their externally visible shape:
// terminal names, rule names, productions, and start rule. Good enough to
// detect "the definition file changed since this cache was written" without
// needing the Grammar type to expose an Equal method of its own.
func sameGrammar(a, b *grammar.Grammar) bool {
	if a.NumTerminals() != b.NumTerminals() || a.NumRules() != b.NumRules() || a.StartRule() != b.StartRule() {
		return false
	}
	for i, t := range a.Terminals() {
		if b.Terminals()[i] != t {
			return false
		}
	}
	for i, r := range a.Rules() {
		br := b.Rules()[i]
		if r.Name != br.Name || len(r.Productions) != len(br.Productions) {
			return false
		}
		for j, p := range r.Productions {
			if !p.Equal(br.Productions[j]) {
				return false
			}
		}
	}
	return true
}

// tokenStream adapts a token.Stream into parse.InputStream, translating a
// lexed token's class into the grammar's terminal index by name and mapping
// end-of-input to the grammar's synthetic "$" terminal slot.
type tokenStream struct {
	ts         token.Stream
	g          *grammar.Grammar
	endOfInput int
}

func (a *tokenStream) translate(t token.Token) parse.InputToken {
	if t.Class().ID() == token.End.ID() {
		return parse.InputToken{TermIndex: a.endOfInput, Lexeme: ""}
	}
	return parse.InputToken{TermIndex: a.g.TerminalIndex(t.Class().Human()), Lexeme: t.Lexeme()}
}

func (a *tokenStream) Peek() parse.InputToken { return a.translate(a.ts.Peek()) }
func (a *tokenStream) Next() parse.InputToken { return a.translate(a.ts.Next()) }

// parseAndPrint lexes and parses input against e's table and mode, printing
// every resulting parse tree (more than one only in glr mode against an
// ambiguous grammar) to stdout.
func (e *engine) parseAndPrint(input string) error {
	stream := lex.NewStream(e.tok, strings.NewReader(input))
	in := &tokenStream{ts: stream, g: e.g, endOfInput: e.endOfInput}

	switch e.mode {
	case "ll1":
		sess := parse.NewLL1Session(e.g, e.ll1)
		attachTreeReducers(e.g, sess)
		tree, err := sess.Parse(in)
		if err != nil {
			return err
		}
		fmt.Println(formatTree(tree))

	case "slr", "lalr":
		sess := parse.NewLRSession(e.lr)
		attachTreeReducers(e.g, sess)
		tree, err := sess.Parse(in)
		if err != nil {
			return err
		}
		fmt.Println(formatTree(tree))

	case "glr":
		sess := glr.NewSession(e.glr, e.endOfInput)
		attachTreeReducers(e.g, sess)
		trees, err := sess.Parse(in)
		if err != nil {
			return err
		}
		for i, tree := range trees {
			fmt.Printf("parse %d: %s\n", i+1, formatTree(tree))
		}
	}
	return nil
}
