package parser

import (
	_ "embed"
	"strings"

	"golang.org/x/exp/ebnf"
)

// Grammar is the EBNF of the declaration skeleton this package parses.
// Productions are named after the node kinds they produce.
//
//go:embed grammar.ebnf
var Grammar string

// VerifyGrammar parses Grammar and checks that every production reachable
// from CompilationUnit is defined and every defined production is used.
func VerifyGrammar() (ebnf.Grammar, error) {
	g, err := ebnf.Parse("grammar.ebnf", strings.NewReader(Grammar))
	if err != nil {
		return nil, err
	}
	if err := ebnf.Verify(g, KindCompilationUnit.String()); err != nil {
		return nil, err
	}
	return g, nil
}
