package lua_test

import (
	"testing"

	"github.com/dekarrin/ictiobus/icterrors"
	"github.com/dekarrin/ictiobus/lex"
	"github.com/dekarrin/ictiobus/lua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLexer_Succeeds(t *testing.T) {
	tk, ok := lua.BuildLexer()
	require.True(t, ok, "BuildLexer must succeed")
	require.NotNil(t, tk)
}

func TestBuildLexer_KeywordsPrecedeIdentifiers(t *testing.T) {
	tk, ok := lua.BuildLexer()
	require.True(t, ok)

	toks, err := tk.Tokenise("and android")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, lua.TermAnd, toks[0].Terminal)
	assert.Equal(t, lua.TermIdentifier, toks[1].Terminal)
	assert.Equal(t, "android", toks[1].Payload)
}

func TestBuildLexer_NotEqOperatorBeforeBitwiseNeg(t *testing.T) {
	// ~= must tokenise as one NotEq token, not BitwiseNeg followed by Equals;
	// the operator table lists ~= ahead of ~ for exactly this reason.
	tk, ok := lua.BuildLexer()
	require.True(t, ok)

	toks, err := tk.Tokenise("a ~= b")
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, lua.TermNotEq, toks[1].Terminal)
}

func TestBuildLexer_BitwiseNegStandsAlone(t *testing.T) {
	tk, ok := lua.BuildLexer()
	require.True(t, ok)

	toks, err := tk.Tokenise("~a")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, lua.TermBitwiseNeg, toks[0].Terminal)
	assert.Equal(t, lua.TermIdentifier, toks[1].Terminal)
}

func TestBuildLexer_ShortStrings(t *testing.T) {
	tk, ok := lua.BuildLexer()
	require.True(t, ok)

	toks, err := tk.Tokenise(`"hello\tworld"`)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, lua.TermStringLiteral, toks[0].Terminal)
	assert.Equal(t, "hello\tworld", toks[0].Payload)
}

func TestBuildLexer_ShortStringHexAndDecimalEscapes(t *testing.T) {
	tk, ok := lua.BuildLexer()
	require.True(t, ok)

	toks, err := tk.Tokenise(`"\x41\66"`)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "AB", toks[0].Payload)
}

func TestBuildLexer_ShortStringUnfinishedErrors(t *testing.T) {
	tk, ok := lua.BuildLexer()
	require.True(t, ok)

	_, err := tk.Tokenise(`"unfinished`)
	assert.Error(t, err)
}

func TestBuildLexer_LongBracketString(t *testing.T) {
	tk, ok := lua.BuildLexer()
	require.True(t, ok)

	toks, err := tk.Tokenise("[==[line one\nline two]==]")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, lua.TermStringLiteral, toks[0].Terminal)
	assert.Equal(t, "line one\nline two", toks[0].Payload)
}

func TestBuildLexer_LongBracketComment(t *testing.T) {
	// A long comment's body is discarded entirely: spec.md §4.2's "whitespace
	// and line-comments do not appear in the output but do advance the
	// location."
	tk, ok := lua.BuildLexer()
	require.True(t, ok)

	toks, err := tk.Tokenise("--[[ a\nmultiline comment ]] x")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, lua.TermIdentifier, toks[0].Terminal)
	assert.Equal(t, 2, toks[0].Loc.Line)
}

func TestBuildLexer_LineComment(t *testing.T) {
	tk, ok := lua.BuildLexer()
	require.True(t, ok)

	toks, err := tk.Tokenise("-- a line comment\nx")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, lua.TermIdentifier, toks[0].Terminal)
	assert.Equal(t, 2, toks[0].Loc.Line)
}

// TestBuildLexer_EndToEndScenario1 is spec.md §8's scenario 1 verbatim.
func TestBuildLexer_EndToEndScenario1(t *testing.T) {
	tk, ok := lua.BuildLexer()
	require.True(t, ok)

	toks, err := tk.Tokenise("local x = 42")
	require.NoError(t, err)
	require.Len(t, toks, 5)

	assert.Equal(t, lua.TermLocal, toks[0].Terminal)
	assert.Equal(t, lua.TermIdentifier, toks[1].Terminal)
	assert.Equal(t, "x", toks[1].Payload)
	assert.Equal(t, lex.Location{Line: 1, Column: 7}, toks[1].Loc)

	assert.Equal(t, lua.TermEquals, toks[2].Terminal)
	assert.Equal(t, lex.Location{Line: 1, Column: 9}, toks[2].Loc)

	assert.Equal(t, lua.TermNumberLiteral, toks[3].Terminal)
	n, ok := toks[3].Payload.(lua.Numeral)
	require.True(t, ok)
	assert.Equal(t, int64(42), n.Int)
	assert.Equal(t, lex.Location{Line: 1, Column: 11}, toks[3].Loc)

	assert.Equal(t, lua.TermEndOfFile, toks[4].Terminal)
}

// TestBuildLexer_EndToEndScenario2 is spec.md §8's scenario 2 verbatim: a
// double-quoted string containing a raw newline never closes, since short
// strings cannot span lines.
func TestBuildLexer_EndToEndScenario2(t *testing.T) {
	tk, ok := lua.BuildLexer()
	require.True(t, ok)

	_, err := tk.Tokenise("\"hello\nworld\"")
	require.Error(t, err)

	var lexErr *icterrors.LexError[lua.Terminal]
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, icterrors.UnfinishedString, lexErr.Kind)
	assert.Equal(t, "\"hello", lexErr.Text)
	assert.Equal(t, lex.Location{Line: 1, Column: 1}, lexErr.Loc)
}

// TestBuildLexer_EndToEndScenario3 is spec.md §8's scenario 3 verbatim: a
// depth-2 long string whose body contains a shallower close bracket that
// must not be mistaken for the real close.
func TestBuildLexer_EndToEndScenario3(t *testing.T) {
	tk, ok := lua.BuildLexer()
	require.True(t, ok)

	toks, err := tk.Tokenise("[==[ body ]=] still ]==]")
	require.NoError(t, err)
	require.Len(t, toks, 2)

	assert.Equal(t, lua.TermStringLiteral, toks[0].Terminal)
	assert.Equal(t, " body ]=] still ", toks[0].Payload)
	assert.Equal(t, lua.TermEndOfFile, toks[1].Terminal)
}

// TestBuildLexer_EndToEndScenario4 is spec.md §8's scenario 4 verbatim: a
// line comment followed by an arithmetic expression on the next line.
func TestBuildLexer_EndToEndScenario4(t *testing.T) {
	tk, ok := lua.BuildLexer()
	require.True(t, ok)

	toks, err := tk.Tokenise("-- comment\n1 + 2")
	require.NoError(t, err)
	require.Len(t, toks, 4)

	assert.Equal(t, lua.TermNumberLiteral, toks[0].Terminal)
	assert.Equal(t, lex.Location{Line: 2, Column: 1}, toks[0].Loc)

	assert.Equal(t, lua.TermPlus, toks[1].Terminal)
	assert.Equal(t, lex.Location{Line: 2, Column: 3}, toks[1].Loc)

	assert.Equal(t, lua.TermNumberLiteral, toks[2].Terminal)
	assert.Equal(t, lex.Location{Line: 2, Column: 5}, toks[2].Loc)

	assert.Equal(t, lua.TermEndOfFile, toks[3].Terminal)
}

func TestBuildLexer_NumberLiteral(t *testing.T) {
	tk, ok := lua.BuildLexer()
	require.True(t, ok)

	toks, err := tk.Tokenise("3.14")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, lua.TermNumberLiteral, toks[0].Terminal)
	n, ok := toks[0].Payload.(lua.Numeral)
	require.True(t, ok)
	assert.Equal(t, lua.NumeralFloat, n.Kind)
}

func TestBuildLexer_EmptyInputIsEOF(t *testing.T) {
	tk, ok := lua.BuildLexer()
	require.True(t, ok)

	toks, err := tk.Tokenise("")
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, lua.TermEndOfFile, toks[0].Terminal)
}

func TestBuildLexer_UnexpectedSymbol(t *testing.T) {
	tk, ok := lua.BuildLexer()
	require.True(t, ok)

	_, err := tk.Tokenise("@")
	assert.Error(t, err)
}
