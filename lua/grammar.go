package lua

import (
	"github.com/dekarrin/ictiobus/ast"
	"github.com/dekarrin/ictiobus/grammar"
)

type sym = grammar.SymbolSequence[Terminal, Nonterminal]

func t(term Terminal) sym { return grammar.FromTerm[Terminal, Nonterminal](term) }
func n(nt Nonterminal) sym { return grammar.FromNonterm[Terminal, Nonterminal](nt) }

func seq(parts ...sym) sym   { return grammar.Seq(parts...) }
func either(alts ...sym) sym { return grammar.Either(alts...) }
func maybe(x sym) sym        { return grammar.Maybe(x) }
func many(x sym) sym         { return grammar.Many(x) }

// reduceAs builds a Reducer that tags its children under kind, the one
// nonterminal-to-Kind mapping every Lua production reducer uses; which
// alternative of a one_of body actually matched is recovered later by
// inspecting Children, same as phobos's own reduce_production stub did for
// every production uniformly.
func reduceAs(kind ast.Kind) grammar.Reducer[ast.Node] {
	return func(children []ast.Node) ast.Node {
		return ast.Branch(kind, children...)
	}
}

func mustProduction(produced Nonterminal, body sym, kind ast.Kind) grammar.Production[Terminal, Nonterminal, ast.Node] {
	p, err := grammar.NewProductionBuilder[Terminal, Nonterminal, ast.Node]().
		Produces(produced).
		WithBody(body).
		WithReducer(reduceAs(kind)).
		Build()
	if err != nil {
		panic(err)
	}
	return p
}

// BuildGrammar assembles the full Lua 5.3 grammar, grounded production for
// production on original_source/src/lua/parser.rs's get_lua_parser: every
// production there becomes one call to mustProduction here, in the same
// order, using the Exp1..Exp13 precedence-climbing layers in place of the
// reference manual's single ambiguous exp rule.
func BuildGrammar() (*grammar.Grammar[Terminal, Nonterminal, ast.Node], error) {
	b := grammar.NewBuilder[Terminal, Nonterminal, ast.Node]()

	b.WithProduction(mustProduction(NontChunk, n(NontBlock), ast.KindChunk))

	b.WithProduction(mustProduction(NontBlock,
		seq(many(n(NontStat)), maybe(n(NontRetStat))),
		ast.KindBlock))

	b.WithProduction(mustProduction(NontStat,
		either(
			t(TermSemicolon),
			seq(n(NontVarList), t(TermEquals), n(NontExpList)),
			n(NontFunctionCall),
			n(NontLabel),
			t(TermBreak),
			seq(t(TermGoto), t(TermIdentifier)),
			seq(t(TermDo), n(NontBlock), t(TermEnd)),
			seq(t(TermWhile), n(NontExp), t(TermDo), n(NontBlock), t(TermEnd)),
			seq(t(TermRepeat), n(NontBlock), t(TermUntil), n(NontExp)),
			seq(
				t(TermIf),
				n(NontExp),
				t(TermThen),
				n(NontBlock),
				many(seq(t(TermElseif), n(NontExp), t(TermThen), n(NontBlock))),
				maybe(seq(t(TermElse), n(NontBlock))),
				t(TermEnd)),
			seq(
				t(TermFor),
				t(TermIdentifier),
				t(TermEquals),
				n(NontExp),
				t(TermComma),
				n(NontExp),
				maybe(seq(t(TermComma), n(NontExp))),
				t(TermDo),
				n(NontBlock),
				t(TermEnd)),
			seq(t(TermFor), n(NontNameList), t(TermIn), n(NontExpList), t(TermDo), n(NontBlock), t(TermEnd)),
			seq(t(TermFunction), n(NontFuncName), n(NontFuncBody)),
			seq(t(TermLocal), t(TermFunction), t(TermIdentifier), n(NontFuncBody)),
			seq(
				t(TermLocal),
				n(NontAttNameList),
				maybe(seq(t(TermEquals), n(NontExpList))))),
		ast.KindStat))

	b.WithProduction(mustProduction(NontAttNameList,
		seq(
			t(TermIdentifier),
			n(NontAttrib),
			many(seq(t(TermComma), t(TermIdentifier), n(NontAttrib)))),
		ast.KindAttNameList))

	b.WithProduction(mustProduction(NontAttrib,
		maybe(seq(t(TermLessThan), t(TermIdentifier), t(TermGreaterThan))),
		ast.KindAttrib))

	b.WithProduction(mustProduction(NontRetStat,
		seq(t(TermReturn), maybe(n(NontExpList)), maybe(t(TermSemicolon))),
		ast.KindRetStat))

	b.WithProduction(mustProduction(NontLabel,
		seq(t(TermDoubleColon), t(TermIdentifier), t(TermDoubleColon)),
		ast.KindLabel))

	b.WithProduction(mustProduction(NontFuncName,
		seq(
			t(TermIdentifier),
			many(seq(t(TermDot), t(TermIdentifier))),
			maybe(seq(t(TermColon), t(TermIdentifier)))),
		ast.KindFuncName))

	b.WithProduction(mustProduction(NontVarList,
		seq(n(NontVar), many(seq(t(TermComma), n(NontVar)))),
		ast.KindVarList))

	b.WithProduction(mustProduction(NontVar,
		either(
			t(TermIdentifier),
			seq(n(NontPrefixExp), t(TermLeftBracket), n(NontExp), t(TermRightBracket)),
			seq(n(NontPrefixExp), t(TermDot), t(TermIdentifier))),
		ast.KindVar))

	b.WithProduction(mustProduction(NontNameList,
		seq(t(TermIdentifier), many(seq(t(TermComma), t(TermIdentifier)))),
		ast.KindNameList))

	b.WithProduction(mustProduction(NontExpList,
		seq(n(NontExp), many(seq(t(TermComma), n(NontExp)))),
		ast.KindExpList))

	b.WithProduction(mustProduction(NontExp,
		either(
			seq(n(NontExp), t(TermOr), n(NontExp2)),
			n(NontExp2)),
		ast.KindExp))

	b.WithProduction(mustProduction(NontExp2,
		either(
			seq(n(NontExp2), t(TermAnd), n(NontExp3)),
			n(NontExp3)),
		ast.KindExp2))

	b.WithProduction(mustProduction(NontExp3,
		either(
			seq(n(NontExp3), t(TermLessThan), n(NontExp4)),
			seq(n(NontExp3), t(TermGreaterThan), n(NontExp4)),
			seq(n(NontExp3), t(TermLessEq), n(NontExp4)),
			seq(n(NontExp3), t(TermGreaterEq), n(NontExp4)),
			seq(n(NontExp3), t(TermNotEq), n(NontExp4)),
			seq(n(NontExp3), t(TermDoubleEquals), n(NontExp4)),
			n(NontExp4)),
		ast.KindExp3))

	b.WithProduction(mustProduction(NontExp4,
		either(
			seq(n(NontExp4), t(TermBitwiseOr), n(NontExp5)),
			n(NontExp5)),
		ast.KindExp4))

	b.WithProduction(mustProduction(NontExp5,
		either(
			seq(n(NontExp5), t(TermBitwiseNeg), n(NontExp6)),
			n(NontExp6)),
		ast.KindExp5))

	b.WithProduction(mustProduction(NontExp6,
		either(
			seq(n(NontExp6), t(TermBitwiseAnd), n(NontExp7)),
			n(NontExp7)),
		ast.KindExp6))

	b.WithProduction(mustProduction(NontExp7,
		either(
			seq(n(NontExp7), t(TermLeftShift), n(NontExp8)),
			seq(n(NontExp7), t(TermRightShift), n(NontExp8)),
			n(NontExp8)),
		ast.KindExp7))

	b.WithProduction(mustProduction(NontExp8,
		either(
			seq(n(NontExp9), t(TermConcat), n(NontExp8)),
			n(NontExp9)),
		ast.KindExp8))

	b.WithProduction(mustProduction(NontExp9,
		either(
			seq(n(NontExp9), t(TermPlus), n(NontExp10)),
			seq(n(NontExp9), t(TermMinus), n(NontExp10)),
			n(NontExp10)),
		ast.KindExp9))

	b.WithProduction(mustProduction(NontExp10,
		either(
			seq(n(NontExp10), t(TermMultiply), n(NontExp11)),
			seq(n(NontExp10), t(TermDivide), n(NontExp11)),
			seq(n(NontExp10), t(TermFloorDivide), n(NontExp11)),
			seq(n(NontExp10), t(TermModulo), n(NontExp11)),
			n(NontExp11)),
		ast.KindExp10))

	b.WithProduction(mustProduction(NontExp11,
		either(
			seq(t(TermNot), n(NontExp12)),
			seq(t(TermLength), n(NontExp12)),
			seq(t(TermMinus), n(NontExp12)),
			seq(t(TermBitwiseNeg), n(NontExp12)),
			n(NontExp12)),
		ast.KindExp11))

	b.WithProduction(mustProduction(NontExp12,
		either(
			seq(n(NontExp13), t(TermPower), n(NontExp12)),
			n(NontExp13)),
		ast.KindExp12))

	b.WithProduction(mustProduction(NontExp13,
		either(
			t(TermNil),
			t(TermFalse),
			t(TermTrue),
			t(TermNumberLiteral),
			t(TermStringLiteral),
			t(TermVarargs),
			n(NontFunctionDef),
			n(NontPrefixExp),
			n(NontTableConstructor)),
		ast.KindExp13))

	b.WithProduction(mustProduction(NontPrefixExp,
		either(
			n(NontVar),
			n(NontFunctionCall),
			seq(t(TermLeftParenthesis), n(NontExp), t(TermRightParenthesis))),
		ast.KindPrefixExp))

	b.WithProduction(mustProduction(NontFunctionCall,
		either(
			seq(n(NontPrefixExp), n(NontArgs)),
			seq(n(NontPrefixExp), t(TermColon), t(TermIdentifier), n(NontArgs))),
		ast.KindFunctionCall))

	b.WithProduction(mustProduction(NontArgs,
		either(
			seq(t(TermLeftParenthesis), maybe(n(NontExpList)), t(TermRightParenthesis)),
			n(NontTableConstructor),
			t(TermStringLiteral)),
		ast.KindArgs))

	b.WithProduction(mustProduction(NontFunctionDef,
		seq(t(TermFunction), n(NontFuncBody)),
		ast.KindFunctionDef))

	b.WithProduction(mustProduction(NontFuncBody,
		seq(t(TermLeftParenthesis), maybe(n(NontParList)), t(TermRightParenthesis), n(NontBlock), t(TermEnd)),
		ast.KindFuncBody))

	b.WithProduction(mustProduction(NontParList,
		either(
			seq(n(NontNameList), maybe(seq(t(TermComma), t(TermVarargs)))),
			t(TermVarargs)),
		ast.KindParList))

	b.WithProduction(mustProduction(NontTableConstructor,
		seq(t(TermLeftBrace), maybe(n(NontFieldList)), t(TermRightBrace)),
		ast.KindTableConstructor))

	b.WithProduction(mustProduction(NontFieldList,
		seq(n(NontField), many(seq(n(NontFieldSep), n(NontField))), maybe(n(NontFieldSep))),
		ast.KindFieldList))

	b.WithProduction(mustProduction(NontField,
		either(
			seq(t(TermLeftBracket), n(NontExp), t(TermRightBracket), t(TermEquals), n(NontExp)),
			seq(t(TermIdentifier), t(TermEquals), n(NontExp)),
			n(NontExp)),
		ast.KindField))

	b.WithProduction(mustProduction(NontFieldSep,
		either(t(TermComma), t(TermSemicolon)),
		ast.KindFieldSep))

	b.WithStartSymbol(NontChunk)
	b.WithEmptySymbol(TermEmpty)

	return b.Build()
}
