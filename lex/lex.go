// Package lex implements the generic, declarative tokeniser described in
// spec.md §4.1-4.2: an ordered list of pattern rules consulted in priority
// order, driving a line-at-a-time scan over source text.
//
// The package is polymorphic over the client's terminal symbol type T, the
// same way tunaq's internal/ictiobus/lex package was polymorphic over
// types.TokenClass, except here the type parameter is a Go generic instead
// of an interface, so a client gets a concretely-typed token stream back.
package lex

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dekarrin/ictiobus/icterrors"
	"github.com/google/uuid"
)

// Location is a 1-indexed {line, column} pair, attached to every token and
// every error.
type Location = icterrors.Location

// Terminal is the constraint a client's terminal symbol type must satisfy: a
// finite, enumerable, hashable atom with a printable name. Lua's terminal
// enumeration (package lua) is the motivating example.
type Terminal interface {
	comparable
	String() string
}

// Token is a lexeme read from source combined with the terminal it was
// classified as, an optional payload (identifier text, numeric value, string
// body), and the Location of its first character.
type Token[T Terminal] struct {
	Terminal T
	Payload  any
	Loc      Location
}

func (t Token[T]) String() string {
	if t.Payload != nil {
		return fmt.Sprintf("%v(%v)@%s", t.Terminal, t.Payload, t.Loc)
	}
	return fmt.Sprintf("%v@%s", t.Terminal, t.Loc)
}

// Cursor is the narrow, documented interface a Complicated rule's builder
// function receives. It gives mutable access to the tokeniser's scanning
// position without leaking the rest of the driver's state, per spec.md §5
// and §9 ("model as passing an opaque handle").
//
// A builder that calls ConsumeChars(0) in a loop without making progress
// will spin the driver forever; this is a caller bug per spec.md §5 and is
// not detected here.
type Cursor interface {
	// ConsumeChars removes and returns the next n characters from the
	// current line buffer, crossing into subsequent lines via PopLine as
	// needed. Returns fewer than n characters only at end of input.
	ConsumeChars(n int) string

	// HasNextLine reports whether another source line remains beyond the
	// one currently buffered.
	HasNextLine() bool

	// PopLine discards whatever remains of the current line buffer,
	// pulls the next line in, and appends a trailing "\n" if a line
	// after that one also exists. It is a no-op if !HasNextLine().
	PopLine()

	// Location returns the current scan position.
	Location() Location

	// LineBuffer returns the text not yet consumed on the current line,
	// including a trailing "\n" if another line follows it.
	LineBuffer() string
}

// DynamicBuilder receives the text matched by a Dynamic rule's pattern (the
// driver has already consumed it) and the Location it started at, and
// returns the Token to emit, or an error.
type DynamicBuilder[T Terminal] func(matched string, start Location) (Token[T], error)

// ComplicatedBuilder receives the text of the matched opening (so it can
// measure, e.g., a long bracket's equals-sign depth) and a Cursor positioned
// just after it, and drives consumption of the rest of the construct itself,
// returning the completed Token or an error.
type ComplicatedBuilder[T Terminal] func(opener string, cur Cursor, start Location) (Token[T], error)

// SkipComplicatedBuilder is ComplicatedBuilder's counterpart for a multi-line
// construct that, like a long comment, is discarded rather than emitted as a
// token: it drives consumption the same way but returns only an error.
type SkipComplicatedBuilder[T Terminal] func(opener string, cur Cursor, start Location) error

// ErrorHandler is consulted, keyed by the first rune of the unconsumed
// buffer, when no rule in the table matches. It is given the full remaining
// line buffer (so it can, e.g., report an unterminated quote using the rest
// of the line) and the current Location.
type ErrorHandler[T Terminal] func(remaining string, loc Location) error

// EOFHandler builds the terminal EOF token. It is mandatory; Build fails
// without one.
type EOFHandler[T Terminal] func(loc Location) Token[T]

// UnexpectedHandler builds the error returned when no rule and no
// ErrorHandler matched the current position. It is mandatory; Build fails
// without one.
type UnexpectedHandler[T Terminal] func(ch rune, loc Location) error

type ruleKind int

const (
	ruleStatic ruleKind = iota
	ruleDynamic
	ruleComplicated
	ruleSkip
	ruleComplicatedSkip
)

type rule[T Terminal] struct {
	kind            ruleKind
	pattern         *regexp.Regexp
	src             string
	staticTerm      T
	dynamic         DynamicBuilder[T]
	complicated     ComplicatedBuilder[T]
	complicatedSkip SkipComplicatedBuilder[T]
}

// anchor ensures a pattern is matched only at the start of the remaining
// input. spec.md §9 flags the source's unanchored "[" rule as a bug;
// implementations must start-anchor every matcher, so Builder does it for
// the client rather than trusting the supplied pattern string.
func anchor(pat string) string {
	if strings.HasPrefix(pat, "^") {
		return pat
	}
	return "^(?:" + pat + ")"
}

// Builder assembles an ordered Lexeme rule table (spec.md §4.1) and, once all
// mandatory pieces are present, produces a Tokeniser.
type Builder[T Terminal] struct {
	rules        []rule[T]
	errHandlers  map[rune]ErrorHandler[T]
	eofHandler   EOFHandler[T]
	unexpHandler UnexpectedHandler[T]
}

// NewBuilder returns an empty rule-table builder.
func NewBuilder[T Terminal]() *Builder[T] {
	return &Builder[T]{errHandlers: make(map[rune]ErrorHandler[T])}
}

// Static adds a rule that, on match, emits a token of the fixed terminal
// term with no payload. Earlier-added rules take priority over later ones.
func (b *Builder[T]) Static(pat string, term T) error {
	compiled, err := regexp.Compile(anchor(pat))
	if err != nil {
		return fmt.Errorf("compiling static rule %q: %w", pat, err)
	}
	b.rules = append(b.rules, rule[T]{kind: ruleStatic, pattern: compiled, src: pat, staticTerm: term})
	return nil
}

// Dynamic adds a rule whose matched text and start Location are handed to
// build, which returns the Token (or error) to emit. The driver consumes the
// matched length before invoking build.
func (b *Builder[T]) Dynamic(pat string, build DynamicBuilder[T]) error {
	compiled, err := regexp.Compile(anchor(pat))
	if err != nil {
		return fmt.Errorf("compiling dynamic rule %q: %w", pat, err)
	}
	b.rules = append(b.rules, rule[T]{kind: ruleDynamic, pattern: compiled, src: pat, dynamic: build})
	return nil
}

// Complicated adds a rule whose pattern identifies only the opening of a
// multi-line construct (a long string or long comment's bracket, say); build
// receives a Cursor and drives consumption of the remainder itself.
func (b *Builder[T]) Complicated(openPat string, build ComplicatedBuilder[T]) error {
	compiled, err := regexp.Compile(anchor(openPat))
	if err != nil {
		return fmt.Errorf("compiling complicated rule %q: %w", openPat, err)
	}
	b.rules = append(b.rules, rule[T]{kind: ruleComplicated, pattern: compiled, src: openPat, complicated: build})
	return nil
}

// Skip adds a rule whose match is discarded: the matched text advances the
// Location like any other rule, but no token is emitted and scanning resumes
// immediately for the next real token. This is how a client expresses a
// line comment, per spec.md §4.2's "whitespace and line-comments do not
// appear in the output but do advance the location."
func (b *Builder[T]) Skip(pat string) error {
	compiled, err := regexp.Compile(anchor(pat))
	if err != nil {
		return fmt.Errorf("compiling skip rule %q: %w", pat, err)
	}
	b.rules = append(b.rules, rule[T]{kind: ruleSkip, pattern: compiled, src: pat})
	return nil
}

// ComplicatedSkip is Complicated's discarded counterpart, for a multi-line
// construct — a long comment — whose content is consumed but never emitted
// as a token.
func (b *Builder[T]) ComplicatedSkip(openPat string, build SkipComplicatedBuilder[T]) error {
	compiled, err := regexp.Compile(anchor(openPat))
	if err != nil {
		return fmt.Errorf("compiling complicated skip rule %q: %w", openPat, err)
	}
	b.rules = append(b.rules, rule[T]{kind: ruleComplicatedSkip, pattern: compiled, src: openPat, complicatedSkip: build})
	return nil
}

// OnError registers h to be consulted when no rule matches and the
// unconsumed buffer starts with firstChar.
func (b *Builder[T]) OnError(firstChar rune, h ErrorHandler[T]) {
	b.errHandlers[firstChar] = h
}

// OnEOF sets the mandatory end-of-input handler.
func (b *Builder[T]) OnEOF(h EOFHandler[T]) {
	b.eofHandler = h
}

// OnUnexpected sets the mandatory unexpected-symbol handler.
func (b *Builder[T]) OnUnexpected(h UnexpectedHandler[T]) {
	b.unexpHandler = h
}

// Build produces a Tokeniser from the configured rule table. It fails (ok is
// false) unless both the EOF handler and the unexpected-symbol handler have
// been set, per spec.md §4.1.
func (b *Builder[T]) Build() (t *Tokeniser[T], ok bool) {
	if b.eofHandler == nil || b.unexpHandler == nil {
		return nil, false
	}

	rulesCopy := make([]rule[T], len(b.rules))
	copy(rulesCopy, b.rules)

	errCopy := make(map[rune]ErrorHandler[T], len(b.errHandlers))
	for k, v := range b.errHandlers {
		errCopy[k] = v
	}

	return &Tokeniser[T]{
		rules:        rulesCopy,
		errHandlers:  errCopy,
		eofHandler:   b.eofHandler,
		unexpHandler: b.unexpHandler,
	}, true
}

// Tokeniser walks a source text one logical token at a time, dispatching to
// the first matching rule in its table, per spec.md §4.2.
type Tokeniser[T Terminal] struct {
	rules        []rule[T]
	errHandlers  map[rune]ErrorHandler[T]
	eofHandler   EOFHandler[T]
	unexpHandler UnexpectedHandler[T]
}

// Lex starts a lazy token Stream over src. The Tokeniser borrows src for the
// stream's lifetime; returned tokens own their payload data independently,
// so src may be discarded once the stream is drained.
func (tk *Tokeniser[T]) Lex(src string) *Stream[T] {
	lines := splitLines(src)
	s := &Stream[T]{tk: tk, lines: lines, lineIdx: 0, curLine: 1, curCol: 1, SessionID: uuid.New()}
	if len(lines) > 0 {
		s.buf = lines[0]
		if len(lines) > 1 {
			s.buf += "\n"
		}
		s.lineIdx = 1
	}
	return s
}

// Tokenise drives Lex to completion, collecting tokens until EOF or the
// first error, matching spec.md §4.2 ("tokenise(src) -> sequence<Token> |
// Error").
func (tk *Tokeniser[T]) Tokenise(src string) ([]Token[T], error) {
	stream := tk.Lex(src)
	var toks []Token[T]
	for {
		tok, err := stream.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if !stream.HasNext() {
			break
		}
	}
	return toks, nil
}

// splitLines splits on "\n" without discarding empty trailing lines, mirroring
// "the driver takes a full string and splits on \n" (spec.md §6).
func splitLines(src string) []string {
	if src == "" {
		return nil
	}
	return strings.Split(src, "\n")
}

// Stream is the lazy token stream returned by Tokeniser.Lex.
type Stream[T Terminal] struct {
	tk      *Tokeniser[T]
	lines   []string
	lineIdx int // index of the next not-yet-buffered line

	buf  string // unconsumed text of the current logical line
	done bool

	curLine int
	curCol  int

	// SessionID distinguishes this Stream's diagnostics from any other
	// concurrent lex session sharing the same Tokeniser, for callers that
	// log token errors across multiple in-flight files.
	SessionID uuid.UUID
}

// HasNext reports whether the stream has not yet emitted its EOF token.
func (s *Stream[T]) HasNext() bool {
	return !s.done
}

func (s *Stream[T]) location() Location {
	return Location{Line: s.curLine, Column: s.curCol}
}

// advance moves the cursor forward by the given text, which may contain
// embedded newlines (only expected for Complicated-consumed text).
func (s *Stream[T]) advance(text string) {
	for _, r := range text {
		if r == '\n' {
			s.curLine++
			s.curCol = 1
		} else {
			s.curCol++
		}
	}
}

// trimAndRefill implements spec.md §4.2 steps 1-2: trim leading whitespace,
// pull more lines in while the buffer is empty and input remains.
func (s *Stream[T]) trimAndRefill() {
	for {
		// "\n" is included here because it is always the trailing marker
		// appended to a buffered line, never real content; consuming it via
		// advance (below) is what crosses the line boundary, so the refill
		// step itself must not also bump the line counter.
		trimmed := strings.TrimLeft(s.buf, " \t\r\n")
		s.advance(s.buf[:len(s.buf)-len(trimmed)])
		s.buf = trimmed

		if s.buf != "" || s.lineIdx >= len(s.lines) {
			return
		}

		next := s.lines[s.lineIdx]
		s.lineIdx++
		if s.lineIdx < len(s.lines) {
			next += "\n"
		}
		s.buf = next
	}
}

// Next returns the next token in the stream and advances it by one token. If
// this call returns an error, the stream has been short-circuited per
// spec.md §4.2/§7 and no further call to Next will make progress.
func (s *Stream[T]) Next() (tok Token[T], err error) {
	if s.done {
		return s.tk.eofHandler(s.location()), nil
	}

	// A rule's build function is client code; a panic there is a bug in
	// that rule, not a condition Next can recover and keep scanning past, so
	// it is reported with the Stream's SessionID attached and the stream is
	// marked done the same as any other build error.
	defer func() {
		if r := recover(); r != nil {
			s.done = true
			err = fmt.Errorf("lex: rule callback panicked (session %s): %v", s.SessionID, r)
		}
	}()

	// The outer loop re-trims and re-scans after a Skip/ComplicatedSkip
	// match, since a discarded lexeme (whitespace, a comment) never produces
	// a token of its own and scanning must resume for the next real one.
	for {
		s.trimAndRefill()

		if s.buf == "" {
			s.done = true
			return s.tk.eofHandler(s.location()), nil
		}

		start := s.location()
		skipped := false

		for i := range s.tk.rules {
			r := &s.tk.rules[i]
			loc := r.pattern.FindStringIndex(s.buf)
			if loc == nil || loc[0] != 0 {
				continue
			}
			matched := s.buf[:loc[1]]

			switch r.kind {
			case ruleStatic:
				s.buf = s.buf[loc[1]:]
				s.advance(matched)
				return Token[T]{Terminal: r.staticTerm, Loc: start}, nil
			case ruleDynamic:
				s.buf = s.buf[loc[1]:]
				s.advance(matched)
				tok, err := r.dynamic(matched, start)
				if err != nil {
					s.done = true
					return Token[T]{}, err
				}
				return tok, nil
			case ruleComplicated:
				s.buf = s.buf[loc[1]:]
				s.advance(matched)
				cur := &cursorImpl[T]{s: s}
				tok, err := r.complicated(matched, cur, start)
				if err != nil {
					s.done = true
					return Token[T]{}, err
				}
				return tok, nil
			case ruleSkip:
				s.buf = s.buf[loc[1]:]
				s.advance(matched)
				skipped = true
			case ruleComplicatedSkip:
				s.buf = s.buf[loc[1]:]
				s.advance(matched)
				cur := &cursorImpl[T]{s: s}
				if err := r.complicatedSkip(matched, cur, start); err != nil {
					s.done = true
					return Token[T]{}, err
				}
				skipped = true
			}
			if skipped {
				break
			}
		}

		if skipped {
			continue
		}

		// no rule matched; consult the error-handler map keyed by first
		// character, else fall through to the unexpected-symbol handler.
		firstRune, _ := utf8.DecodeRuneInString(s.buf)
		if h, ok := s.tk.errHandlers[firstRune]; ok {
			err := h(s.buf, start)
			s.done = true
			return Token[T]{}, err
		}

		err := s.tk.unexpHandler(firstRune, start)
		s.done = true
		return Token[T]{}, err
	}
}

// Peek returns the next token without advancing the stream. It works by
// snapshotting and restoring the stream's scan position around a call to
// Next, mirroring the teacher's lazyLex.Peek.
func (s *Stream[T]) Peek() (Token[T], error) {
	saved := *s
	tok, err := s.Next()
	*s = saved
	return tok, err
}

// cursorImpl implements Cursor against a Stream's live scan position.
type cursorImpl[T Terminal] struct {
	s *Stream[T]
}

func (c *cursorImpl[T]) ConsumeChars(n int) string {
	var sb strings.Builder
	for n > 0 {
		if c.s.buf == "" {
			if !c.HasNextLine() {
				break
			}
			// the trailing "\n" just consumed via advance already moved the
			// location to the start of the next line, so PopLine's own bump
			// must not count that crossing a second time.
			line, col := c.s.curLine, c.s.curCol
			c.PopLine()
			c.s.curLine, c.s.curCol = line, col
			if c.s.buf == "" {
				break
			}
		}
		r, size := utf8.DecodeRuneInString(c.s.buf)
		sb.WriteRune(r)
		c.s.advance(c.s.buf[:size])
		c.s.buf = c.s.buf[size:]
		n--
	}
	return sb.String()
}

func (c *cursorImpl[T]) HasNextLine() bool {
	return c.s.lineIdx < len(c.s.lines)
}

func (c *cursorImpl[T]) PopLine() {
	if !c.HasNextLine() {
		return
	}
	next := c.s.lines[c.s.lineIdx]
	c.s.lineIdx++
	c.s.curLine++
	c.s.curCol = 1
	if c.s.lineIdx < len(c.s.lines) {
		next += "\n"
	}
	c.s.buf = next
}

func (c *cursorImpl[T]) Location() Location {
	return c.s.location()
}

func (c *cursorImpl[T]) LineBuffer() string {
	return c.s.buf
}
