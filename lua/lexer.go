package lua

import (
	"errors"
	"regexp"
	"strings"

	"github.com/dekarrin/ictiobus/icterrors"
	"github.com/dekarrin/ictiobus/lex"
	"golang.org/x/text/unicode/norm"
)

// multilineCloseRegex matches a Lua long bracket close, `]`, followed by
// zero or more `=`, followed by `]`.
var multilineCloseRegex = regexp.MustCompile(`\]=*\]`)

// multilineClose finds the first closing bracket sequence of a given depth.
func multilineClose(line string, depth int) int {
	for _, loc := range multilineCloseRegex.FindAllStringIndex(line, -1) {
		if loc[1]-loc[0]-2 == depth {
			return loc[1]
		}
	}
	return -1
}

// BuildLexer assembles the Lua 5.3 Tokeniser, grounded on
// original_source/src/lua/tokeniser.rs: keyword rules precede the
// identifier rule, longer operators precede their prefixes, and the long
// comment opener precedes the bare line-comment rule.
func BuildLexer() (*lex.Tokeniser[Terminal], bool) {
	b := lex.NewBuilder[Terminal]()

	keywords := []struct {
		pat  string
		term Terminal
	}{
		{`end\b`, TermEnd},
		{`do\b`, TermDo},
		{`while\b`, TermWhile},
		{`repeat\b`, TermRepeat},
		{`until\b`, TermUntil},
		{`if\b`, TermIf},
		{`in\b`, TermIn},
		{`then\b`, TermThen},
		{`elseif\b`, TermElseif},
		{`else\b`, TermElse},
		{`for\b`, TermFor},
		{`function\b`, TermFunction},
		{`local\b`, TermLocal},
		{`return\b`, TermReturn},
		{`break\b`, TermBreak},
		{`true\b`, TermTrue},
		{`false\b`, TermFalse},
		{`nil\b`, TermNil},
		{`and\b`, TermAnd},
		{`or\b`, TermOr},
		{`not\b`, TermNot},
		{`goto\b`, TermGoto},
	}
	for _, kw := range keywords {
		if err := b.Static(kw.pat, kw.term); err != nil {
			return nil, false
		}
	}

	if err := b.Dynamic(`[a-zA-Z_]\w*`, parseIdentifier); err != nil {
		return nil, false
	}

	operators := []struct {
		pat  string
		term Terminal
	}{
		{`\.{3}`, TermVarargs},
		{`\.{2}`, TermConcat},
		{`==`, TermDoubleEquals},
		{`=`, TermEquals},
		{`::`, TermDoubleColon},
		{`:`, TermColon},
		{`,`, TermComma},
		{`\]`, TermRightBracket},
		{`\(`, TermLeftParenthesis},
		{`\)`, TermRightParenthesis},
		{`\{`, TermLeftBrace},
		{`\}`, TermRightBrace},
		{`<<`, TermLeftShift},
		{`>>`, TermRightShift},
		{`&`, TermBitwiseAnd},
		{`\|`, TermBitwiseOr},
		{`~=`, TermNotEq},
		{`~`, TermBitwiseNeg},
		{`;`, TermSemicolon},
		{`\+`, TermPlus},
		{`\*`, TermMultiply},
		{`//`, TermFloorDivide},
		{`/`, TermDivide},
		{`\^`, TermPower},
		{`%`, TermModulo},
		{`<=`, TermLessEq},
		{`<`, TermLessThan},
		{`>=`, TermGreaterEq},
		{`>`, TermGreaterThan},
		{`#`, TermLength},
	}
	for _, op := range operators {
		if err := b.Static(op.pat, op.term); err != nil {
			return nil, false
		}
	}

	if err := b.Dynamic(`"(\\"|[^"\n])*"`, parseShortString); err != nil {
		return nil, false
	}
	if err := b.Dynamic(`'(\\'|[^'\n])*'`, parseShortString); err != nil {
		return nil, false
	}

	if err := b.Complicated(`\[=*\[`, parseMultilineString); err != nil {
		return nil, false
	}
	if err := b.ComplicatedSkip(`-{2}\[=*\[`, skipMultilineComment); err != nil {
		return nil, false
	}
	if err := b.Skip(`-{2}.*`); err != nil {
		return nil, false
	}
	if err := b.Static(`-`, TermMinus); err != nil {
		return nil, false
	}
	if err := b.Static(`\[`, TermLeftBracket); err != nil {
		return nil, false
	}

	if err := b.Dynamic(numeralPattern, parseNumber); err != nil {
		return nil, false
	}
	if err := b.Static(`\.`, TermDot); err != nil {
		return nil, false
	}

	b.OnError('"', unfinishedStringHandler('"'))
	b.OnError('\'', unfinishedStringHandler('\''))
	b.OnEOF(func(loc lex.Location) lex.Token[Terminal] {
		return lex.Token[Terminal]{Terminal: TermEndOfFile, Loc: loc}
	})
	b.OnUnexpected(func(ch rune, loc lex.Location) error {
		return icterrors.NewLexError[Terminal](icterrors.UnexpectedSymbol, loc, string(ch))
	})

	return b.Build()
}

// numeralPattern recognizes decimal and hex numerals, with optional
// fractional and exponent parts, per Lua 5.3's numeral grammar.
const numeralPattern = `0[xX][0-9a-fA-F]*(\.[0-9a-fA-F]*)?([pP][+-]?[0-9]+)?|[0-9]*\.?[0-9]+([eE][+-]?[0-9]+)?|[0-9]+\.[0-9]*([eE][+-]?[0-9]+)?`

func parseIdentifier(matched string, start lex.Location) (lex.Token[Terminal], error) {
	return lex.Token[Terminal]{Terminal: TermIdentifier, Payload: normalizeText(matched), Loc: start}, nil
}

// normalizeText NFC-normalizes payload text before it reaches the client
// reducer; matching itself is untouched, per the distinction drawn in
// SPEC_FULL.md's domain stack.
func normalizeText(s string) string {
	return norm.NFC.String(s)
}

// KindMalformedStringEscape is a client-extended icterrors.Kind (spec.md
// §7's "client-extensible kinds") for a short string containing an invalid
// escape sequence.
const KindMalformedStringEscape = icterrors.FirstClientKind

func parseShortString(matched string, start lex.Location) (lex.Token[Terminal], error) {
	body := matched[1 : len(matched)-1]
	unescaped, err := unescapeLuaString(body)
	if err != nil {
		lexErr := icterrors.NewLexError[Terminal](KindMalformedStringEscape, start, matched)
		lexErr.Wrapped = err
		return lex.Token[Terminal]{}, lexErr
	}
	return lex.Token[Terminal]{Terminal: TermStringLiteral, Payload: normalizeText(unescaped), Loc: start}, nil
}

func parseNumber(matched string, start lex.Location) (lex.Token[Terminal], error) {
	n, err := ParseLuaNumeral(matched)
	if err != nil {
		return lex.Token[Terminal]{}, icterrors.NewLexError[Terminal](icterrors.MalformedNumber, start, matched)
	}
	return lex.Token[Terminal]{Terminal: TermNumberLiteral, Payload: n, Loc: start}, nil
}

func parseMultilineString(opener string, cur lex.Cursor, start lex.Location) (lex.Token[Terminal], error) {
	value, ok := consumeMultiline(opener, cur)
	if !ok {
		return lex.Token[Terminal]{}, icterrors.NewLexError[Terminal](icterrors.UnfinishedLongString, start, opener)
	}
	return lex.Token[Terminal]{Terminal: TermStringLiteral, Payload: normalizeText(value), Loc: start}, nil
}

// skipMultilineComment consumes a long comment's body and close bracket
// without producing a token, per spec.md §4.2's "whitespace and
// line-comments do not appear in the output but do advance the location."
func skipMultilineComment(opener string, cur lex.Cursor, start lex.Location) error {
	// opener here is "--" followed by the bracket; strip the leading "--"
	// before measuring bracket depth.
	bracketOpener := strings.TrimPrefix(opener, "--")
	_, ok := consumeMultiline(bracketOpener, cur)
	if !ok {
		return icterrors.NewLexError[Terminal](icterrors.UnfinishedLongComment, start, opener)
	}
	return nil
}

// consumeMultiline scans forward from just after opener (already consumed by
// the driver) for a closing bracket sequence of the same equals-sign depth,
// crossing line boundaries via the Cursor as needed, per spec.md §4.2's
// "Multi-line handling" algorithm.
func consumeMultiline(opener string, cur lex.Cursor) (string, bool) {
	depth := len(opener) - 2

	var body strings.Builder
	for {
		line := cur.LineBuffer()
		if end := multilineClose(line, depth); end >= 0 {
			body.WriteString(line[:end-(depth+2)])
			cur.ConsumeChars(len([]rune(line[:end])))
			return body.String(), true
		}

		if !cur.HasNextLine() {
			body.WriteString(line)
			cur.ConsumeChars(len([]rune(line)))
			return "", false
		}

		// PopLine discards whatever remains of the current line buffer
		// (here, all of line) and bumps the line counter itself, so the
		// trailing "\n" must not also be walked via ConsumeChars first or
		// the line count would advance twice.
		body.WriteString(strings.TrimSuffix(line, "\n"))
		body.WriteString("\n")
		cur.PopLine()
	}
}

func unfinishedStringHandler(quote rune) lex.ErrorHandler[Terminal] {
	return func(remaining string, loc lex.Location) error {
		// remaining includes the trailing "\n" line-continuation marker the
		// driver appends to a buffered line when another follows it; a short
		// string can never span that boundary, so the offending lexeme is
		// only what precedes it.
		partial := strings.TrimSuffix(remaining, "\n")
		return icterrors.NewLexError[Terminal](icterrors.UnfinishedString, loc, partial)
	}
}

var (
	errTrailingBackslash  = errors.New("lua: trailing backslash in string")
	errMalformedHexEscape = errors.New("lua: malformed \\x escape in string")
)

// unescapeLuaString expands the escape sequences recognized inside Lua
// short strings: \a \b \f \n \r \t \v \\ \' \", a backslash before a
// newline, \ddd (decimal byte) \xXX (hex byte) and \z (skip following
// whitespace, including newlines); any other escaped character is kept
// without its backslash. Grounded on
// original_source/src/lua/tokeniser.rs and the Lua 5.3 reference manual §3.1.
func unescapeLuaString(s string) (string, error) {
	var out strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' {
			out.WriteRune(runes[i])
			continue
		}
		i++
		if i >= len(runes) {
			return "", errTrailingBackslash
		}
		switch runes[i] {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case 'r':
			out.WriteByte('\r')
		case 'a':
			out.WriteByte('\a')
		case 'b':
			out.WriteByte('\b')
		case 'f':
			out.WriteByte('\f')
		case 'v':
			out.WriteByte('\v')
		case '\\', '\'', '"', '\n':
			out.WriteRune(runes[i])
		case 'z':
			i++
			for i < len(runes) && isLuaSpace(runes[i]) {
				i++
			}
			i--
		case 'x':
			if i+2 >= len(runes) {
				return "", errMalformedHexEscape
			}
			v, ok := hexDigitValue(runes[i+1])
			v2, ok2 := hexDigitValue(runes[i+2])
			if !ok || !ok2 {
				return "", errMalformedHexEscape
			}
			out.WriteByte(byte(v*16 + v2))
			i += 2
		default:
			if runes[i] >= '0' && runes[i] <= '9' {
				val := 0
				digits := 0
				for digits < 3 && i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
					val = val*10 + int(runes[i]-'0')
					i++
					digits++
				}
				i--
				out.WriteByte(byte(val))
			} else {
				out.WriteRune(runes[i])
			}
		}
	}
	return out.String(), nil
}

func isLuaSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}
