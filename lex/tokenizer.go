// Package lex builds a multi-configuration Tokenizer from compiled match
// Matchers and streams tokens from an io.Reader, tracking line numbers and
// supporting mid-stream configuration switches (used by a definition-file
// reader to lex a rule's own body with a second set of patterns).
package lex

import (
	"github.com/zanderlang/zander/match"
	"github.com/zanderlang/zander/token"
)

// Configuration is one named set of patterns a Tokenizer can scan with; its
// Classes and Patterns are parallel, ordered by declaration (also the
// longest-match tie-break order).
type Configuration struct {
	Name     string
	Classes  []token.Class
	Patterns []string
}

// Tokenizer holds one compiled Matcher per configuration.
type Tokenizer struct {
	configs      []Configuration
	matchers     []*match.Matcher
	nameToIndex  map[string]int
	newlineClass token.Class
}

// Build compiles every configuration's patterns into a Matcher. newlineClass
// names the reserved class whose matches increment the line counter and are
// discarded, same as the IGNORE class; pass nil if the tokenizer has no
// dedicated newline class.
func Build(configurations []Configuration, newlineClass token.Class) (*Tokenizer, error) {
	t := &Tokenizer{
		configs:      configurations,
		matchers:     make([]*match.Matcher, len(configurations)),
		nameToIndex:  map[string]int{},
		newlineClass: newlineClass,
	}
	for i, cfg := range configurations {
		m, err := match.Build(cfg.Patterns)
		if err != nil {
			return nil, err
		}
		t.matchers[i] = m
		t.nameToIndex[cfg.Name] = i
	}
	return t, nil
}

// ConfigurationIndex returns the index of the named configuration, or -1.
func (t *Tokenizer) ConfigurationIndex(name string) int {
	if i, ok := t.nameToIndex[name]; ok {
		return i
	}
	return -1
}
