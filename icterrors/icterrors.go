// Package icterrors holds the error types shared by the lex and grammar
// subsystems, following the same wrap-and-classify pattern as tunaq's
// tqerrors package.
package icterrors

import "fmt"

// Location is a 1-indexed {line, column} pair. Both fields are always
// positive for a valid Location.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Kind classifies a lexing failure.
type Kind int

const (
	KindUnknown Kind = iota
	MalformedNumber
	UnfinishedString
	UnfinishedLongString
	UnfinishedLongComment
	UnexpectedSymbol

	// FirstClientKind is the first Kind value available to client packages
	// for their own extended failure kinds (spec.md §7, "client-extensible
	// kinds via the generic error parameter"). A client Kind should be
	// declared as FirstClientKind + n and given a String() case of its own;
	// LexError.Error falls back to Kind.String's "Unknown" otherwise.
	FirstClientKind
)

func (k Kind) String() string {
	switch k {
	case MalformedNumber:
		return "MalformedNumber"
	case UnfinishedString:
		return "UnfinishedString"
	case UnfinishedLongString:
		return "UnfinishedLongString"
	case UnfinishedLongComment:
		return "UnfinishedLongComment"
	case UnexpectedSymbol:
		return "UnexpectedSymbol"
	default:
		return "Unknown"
	}
}

// LexError is the error returned by a tokeniser when a rule's builder, an
// error handler, or the unexpected-symbol handler fails to produce a token.
// It carries the offending lexeme text and the Location it started at, per
// spec.md §7.
//
// Partial is a best-effort classification of what the token would have been
// had lexing succeeded; client code that doesn't need the extra
// classification can leave it at T's zero value.
type LexError[T any] struct {
	Kind    Kind
	Partial T
	Text    string
	Loc     Location
	Wrapped error
}

func (e *LexError[T]) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("%s at %s", e.Kind, e.Loc)
	}
	return fmt.Sprintf("%s at %s: %q", e.Kind, e.Loc, e.Text)
}

func (e *LexError[T]) Unwrap() error {
	return e.Wrapped
}

// NewLexError builds a LexError of the given kind at loc, with the offending
// text attached.
func NewLexError[T any](kind Kind, loc Location, text string) *LexError[T] {
	return &LexError[T]{Kind: kind, Loc: loc, Text: text}
}

// NewLexErrorf is like NewLexError but builds Text from a format string.
func NewLexErrorf[T any](kind Kind, loc Location, format string, args ...any) *LexError[T] {
	return &LexError[T]{Kind: kind, Loc: loc, Text: fmt.Sprintf(format, args...)}
}

// One line, user-visible rendering of a lexing error: "line N: KIND near LEXEME".
func (e *LexError[T]) UserMessage() string {
	return fmt.Sprintf("line %d: %s near %q", e.Loc.Line, e.Kind, e.Text)
}

// grammarError is a sentinel construction-time failure for the grammar
// builder. It has no Location; §7 treats malformed grammar construction as a
// "not built" result rather than a positioned error.
type grammarError string

func (e grammarError) Error() string { return string(e) }

var (
	// ErrNoStartSymbol is returned by Builder.Build when with_start_symbol
	// was never called.
	ErrNoStartSymbol = grammarError("grammar has no start symbol set")

	// ErrNoProductionForStart is returned by Builder.Build when no
	// production produces the configured start symbol.
	ErrNoProductionForStart = grammarError("no production produces the start symbol")

	// ErrIncompleteProduction is returned by a ProductionBuilder's Build
	// method when produced nonterminal, body, or reducer were never set.
	ErrIncompleteProduction = grammarError("production is missing produced nonterminal, body, or reducer")
)
