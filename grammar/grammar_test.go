package grammar_test

import (
	"testing"

	"github.com/dekarrin/ictiobus/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nt string

func (n nt) String() string { return string(n) }

type tm string

func (t tm) String() string { return string(t) }

const (
	ntStart nt = "S"

	tmA tm = "a"
	tmB tm = "b"
)

// buildNestedGrammar builds S -> a S b | ε, spec.md §8 scenario 5.
func buildNestedGrammar(t *testing.T) *grammar.Grammar[tm, nt, string] {
	t.Helper()

	recurse, err := grammar.NewProductionBuilder[tm, nt, string]().
		Produces(ntStart).
		WithBody(grammar.Seq(
			grammar.FromTerm[tm, nt](tmA),
			grammar.FromNonterm[tm, nt](ntStart),
			grammar.FromTerm[tm, nt](tmB),
		)).
		WithReducer(func(children []string) string { return "(a " + children[0] + " b)" }).
		Build()
	require.NoError(t, err)

	empty, err := grammar.NewProductionBuilder[tm, nt, string]().
		Produces(ntStart).
		WithBody(grammar.EpsilonSeq[tm, nt]()).
		WithReducer(func(children []string) string { return "" }).
		Build()
	require.NoError(t, err)

	g, err := grammar.NewBuilder[tm, nt, string]().
		WithProductions(recurse, empty).
		WithStartSymbol(ntStart).
		Build()
	require.NoError(t, err)
	return g
}

func TestBuilder_Build_NestedGrammar_First(t *testing.T) {
	g := buildNestedGrammar(t)

	first := g.First()
	assert.True(t, first.Has(ntStart, grammar.PossiblyEmpty[tm]{Term: tmA}))
	assert.True(t, first.Has(ntStart, grammar.PossiblyEmpty[tm]{Epsilon: true}))
}

func TestBuilder_Build_NestedGrammar_Follow(t *testing.T) {
	g := buildNestedGrammar(t)

	follow := g.Follow()
	assert.True(t, follow.Has(ntStart, grammar.PossiblyEndOfInput[tm]{EndOfInput: true}))
	assert.True(t, follow.Has(ntStart, grammar.PossiblyEndOfInput[tm]{Term: tmB}))
}

// expr grammar types for the classic E/T/F scenario, spec.md §8 scenario 6.
type exprNT string

func (n exprNT) String() string { return string(n) }

type exprT string

func (t exprT) String() string { return string(t) }

const (
	ntE  exprNT = "E"
	ntEp exprNT = "E'"
	ntT  exprNT = "T"
	ntTp exprNT = "T'"
	ntF  exprNT = "F"

	tPlus   exprT = "+"
	tStar   exprT = "*"
	tLParen exprT = "("
	tRParen exprT = ")"
	tID     exprT = "id"
)

func noopReduce(children []string) string { return "" }

// buildExprGrammar builds the textbook left-recursion-eliminated expression
// grammar:
//
//	E  -> T E'
//	E' -> + T E' | ε
//	T  -> F T'
//	T' -> * F T' | ε
//	F  -> ( E ) | id
func buildExprGrammar(t *testing.T) *grammar.Grammar[exprT, exprNT, string] {
	t.Helper()

	pb := func() *grammar.ProductionBuilder[exprT, exprNT, string] {
		return grammar.NewProductionBuilder[exprT, exprNT, string]()
	}

	pE, err := pb().Produces(ntE).WithBody(grammar.Seq(
		grammar.FromNonterm[exprT, exprNT](ntT),
		grammar.FromNonterm[exprT, exprNT](ntEp),
	)).WithReducer(noopReduce).Build()
	require.NoError(t, err)

	pEpPlus, err := pb().Produces(ntEp).WithBody(grammar.Seq(
		grammar.FromTerm[exprT, exprNT](tPlus),
		grammar.FromNonterm[exprT, exprNT](ntT),
		grammar.FromNonterm[exprT, exprNT](ntEp),
	)).WithReducer(noopReduce).Build()
	require.NoError(t, err)

	pEpEmpty, err := pb().Produces(ntEp).WithBody(grammar.EpsilonSeq[exprT, exprNT]()).WithReducer(noopReduce).Build()
	require.NoError(t, err)

	pT, err := pb().Produces(ntT).WithBody(grammar.Seq(
		grammar.FromNonterm[exprT, exprNT](ntF),
		grammar.FromNonterm[exprT, exprNT](ntTp),
	)).WithReducer(noopReduce).Build()
	require.NoError(t, err)

	pTpStar, err := pb().Produces(ntTp).WithBody(grammar.Seq(
		grammar.FromTerm[exprT, exprNT](tStar),
		grammar.FromNonterm[exprT, exprNT](ntF),
		grammar.FromNonterm[exprT, exprNT](ntTp),
	)).WithReducer(noopReduce).Build()
	require.NoError(t, err)

	pTpEmpty, err := pb().Produces(ntTp).WithBody(grammar.EpsilonSeq[exprT, exprNT]()).WithReducer(noopReduce).Build()
	require.NoError(t, err)

	pFParen, err := pb().Produces(ntF).WithBody(grammar.Seq(
		grammar.FromTerm[exprT, exprNT](tLParen),
		grammar.FromNonterm[exprT, exprNT](ntE),
		grammar.FromTerm[exprT, exprNT](tRParen),
	)).WithReducer(noopReduce).Build()
	require.NoError(t, err)

	pFId, err := pb().Produces(ntF).WithBody(grammar.FromTerm[exprT, exprNT](tID)).WithReducer(noopReduce).Build()
	require.NoError(t, err)

	g, err := grammar.NewBuilder[exprT, exprNT, string]().
		WithProductions(pE, pEpPlus, pEpEmpty, pT, pTpStar, pTpEmpty, pFParen, pFId).
		WithStartSymbol(ntE).
		Build()
	require.NoError(t, err)
	return g
}

func TestBuilder_Build_ExprGrammar_First(t *testing.T) {
	g := buildExprGrammar(t)
	first := g.First()

	for _, n := range []exprNT{ntE, ntT, ntF} {
		assert.True(t, first.Has(n, grammar.PossiblyEmpty[exprT]{Term: tID}), "FIRST(%s) should contain id", n)
		assert.True(t, first.Has(n, grammar.PossiblyEmpty[exprT]{Term: tLParen}), "FIRST(%s) should contain (", n)
		assert.False(t, first.Has(n, grammar.PossiblyEmpty[exprT]{Epsilon: true}), "FIRST(%s) should not contain epsilon", n)
	}

	assert.True(t, first.Has(ntEp, grammar.PossiblyEmpty[exprT]{Term: tPlus}))
	assert.True(t, first.Has(ntEp, grammar.PossiblyEmpty[exprT]{Epsilon: true}))
	assert.True(t, first.Has(ntTp, grammar.PossiblyEmpty[exprT]{Term: tStar}))
	assert.True(t, first.Has(ntTp, grammar.PossiblyEmpty[exprT]{Epsilon: true}))
}

func TestBuilder_Build_ExprGrammar_Follow(t *testing.T) {
	g := buildExprGrammar(t)
	follow := g.Follow()

	assert.True(t, follow.Has(ntE, grammar.PossiblyEndOfInput[exprT]{EndOfInput: true}))
	assert.True(t, follow.Has(ntE, grammar.PossiblyEndOfInput[exprT]{Term: tRParen}))

	assert.True(t, follow.Has(ntEp, grammar.PossiblyEndOfInput[exprT]{EndOfInput: true}))
	assert.True(t, follow.Has(ntEp, grammar.PossiblyEndOfInput[exprT]{Term: tRParen}))

	assert.True(t, follow.Has(ntT, grammar.PossiblyEndOfInput[exprT]{Term: tPlus}))
	assert.True(t, follow.Has(ntT, grammar.PossiblyEndOfInput[exprT]{EndOfInput: true}))
	assert.True(t, follow.Has(ntT, grammar.PossiblyEndOfInput[exprT]{Term: tRParen}))

	assert.True(t, follow.Has(ntF, grammar.PossiblyEndOfInput[exprT]{Term: tStar}))
	assert.True(t, follow.Has(ntF, grammar.PossiblyEndOfInput[exprT]{Term: tPlus}))
	assert.True(t, follow.Has(ntF, grammar.PossiblyEndOfInput[exprT]{EndOfInput: true}))
	assert.True(t, follow.Has(ntF, grammar.PossiblyEndOfInput[exprT]{Term: tRParen}))
}

func TestBuilder_Build_RequiresStartSymbol(t *testing.T) {
	_, err := grammar.NewBuilder[tm, nt, string]().Build()
	assert.Error(t, err)
}

func TestBuilder_Build_RequiresProductionForStart(t *testing.T) {
	onlyB, err := grammar.NewProductionBuilder[tm, nt, string]().
		Produces(nt("B")).
		WithBody(grammar.FromTerm[tm, nt](tmB)).
		WithReducer(func(children []string) string { return "" }).
		Build()
	require.NoError(t, err)

	_, err = grammar.NewBuilder[tm, nt, string]().
		WithProductions(onlyB).
		WithStartSymbol(ntStart).
		Build()
	assert.Error(t, err)
}

func TestProductionBuilder_Build_FailsWhenIncomplete(t *testing.T) {
	_, err := grammar.NewProductionBuilder[tm, nt, string]().Produces(ntStart).Build()
	assert.Error(t, err)
}

func TestSymbolSequence_Seq_PanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() {
		grammar.Seq[tm, nt]()
	})
}

func TestSymbolSequence_Either_PanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() {
		grammar.Either[tm, nt]()
	})
}

func TestSymbolSequence_Display(t *testing.T) {
	seq := grammar.Seq(
		grammar.FromTerm[tm, nt](tmA),
		grammar.Maybe(grammar.FromTerm[tm, nt](tmB)),
		grammar.Many(grammar.FromNonterm[tm, nt](ntStart)),
	)
	assert.Equal(t, "a [ b ] { S }", seq.Display())
}

func TestGrammar_SaveLoad_RoundTrip(t *testing.T) {
	g := buildExprGrammar(t)
	data := g.SaveSets()
	require.NotEmpty(t, data)

	fresh, err := grammar.NewBuilder[exprT, exprNT, string]().
		WithProductions(g.Productions()...).
		WithStartSymbol(g.Start()).
		Build()
	require.NoError(t, err)

	require.NoError(t, fresh.LoadSets(data))
	assert.Equal(t, g.First(), fresh.First())
	assert.Equal(t, g.Follow(), fresh.Follow())
}
