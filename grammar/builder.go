package grammar

import (
	"fmt"

	"github.com/dekarrin/ictiobus/icterrors"
	"github.com/dekarrin/rezi"
	"github.com/dekarrin/rosed"
)

// Grammar is the built, queryable result of a Builder: the production set
// together with its derived FIRST and FOLLOW sets, per spec.md §4.6.
type Grammar[T Terminal, N Nonterminal, A any] struct {
	productions []Production[T, N, A]
	start       N

	first  FirstSets[T, N]
	follow FollowSets[T, N]
}

// Productions returns the productions that make up the grammar, in
// declaration order.
func (g *Grammar[T, N, A]) Productions() []Production[T, N, A] {
	return g.productions
}

// Start returns the grammar's start symbol.
func (g *Grammar[T, N, A]) Start() N {
	return g.start
}

// First returns the derived FIRST sets.
func (g *Grammar[T, N, A]) First() FirstSets[T, N] {
	return g.first
}

// Follow returns the derived FOLLOW sets.
func (g *Grammar[T, N, A]) Follow() FollowSets[T, N] {
	return g.follow
}

// FormatSets renders FIRST and FOLLOW as a pair of bordered tables, one
// nonterminal per row, at the default width of 100 columns.
func (g *Grammar[T, N, A]) FormatSets() string {
	return g.FormatSetsWidth(100)
}

// FormatSetsWidth is FormatSets with a caller-chosen table width, for CLI
// callers that size it to the terminal or a config file setting.
func (g *Grammar[T, N, A]) FormatSetsWidth(width int) string {
	nts := make([]N, 0, len(g.first))
	for n := range g.first {
		nts = append(nts, n)
	}

	firstData := [][]string{{"NONTERMINAL", "FIRST"}}
	followData := [][]string{{"NONTERMINAL", "FOLLOW"}}
	for _, n := range nts {
		firstData = append(firstData, []string{n.String(), formatMembers(g.first[n])})
		followData = append(followData, []string{n.String(), formatMembers(g.follow[n])})
	}

	tableOpts := rosed.Options{TableHeaders: true, TableBorders: true}

	first := rosed.Edit("FIRST sets:\n").
		InsertTableOpts(0, firstData, width, tableOpts).
		String()
	follow := rosed.Edit("\nFOLLOW sets:\n").
		InsertTableOpts(0, followData, width, tableOpts).
		String()

	return first + "\n" + follow
}

func formatMembers[M fmt.Stringer](members []M) string {
	s := "{ "
	for i, m := range members {
		if i > 0 {
			s += ", "
		}
		s += m.String()
	}
	return s + " }"
}

// SaveSets encodes the grammar's derived FIRST and FOLLOW sets in REZI binary
// format. Production bodies and reducers are not persisted; LoadSets requires
// the same productions to be supplied to Builder as when the grammar was
// first built. T and N must themselves be REZI-encodable (built from
// strings, ints, or structs composed of those).
func (g *Grammar[T, N, A]) SaveSets() []byte {
	return rezi.EncBinary(grammarCache[T, N]{First: g.first, Follow: g.follow})
}

// LoadSets decodes FIRST/FOLLOW sets previously produced by SaveSets directly into
// the grammar, skipping re-derivation. The productions and start symbol used
// to construct g via Builder are left untouched.
func (g *Grammar[T, N, A]) LoadSets(data []byte) error {
	var cache grammarCache[T, N]
	n, err := rezi.DecBinary(data, &cache)
	if err != nil {
		return fmt.Errorf("decode cached sets: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("decode cached sets: consumed %d/%d bytes", n, len(data))
	}
	g.first = cache.First
	g.follow = cache.Follow
	return nil
}

type grammarCache[T Terminal, N Nonterminal] struct {
	First  FirstSets[T, N]
	Follow FollowSets[T, N]
}

// Builder assembles a Grammar from productions and a start symbol, deriving
// FIRST and FOLLOW sets on Build, per spec.md §4.3 and §4.6.
type Builder[T Terminal, N Nonterminal, A any] struct {
	productions []Production[T, N, A]
	start       N
	hasStart    bool
	emptyTerm   T
	hasEmpty    bool
}

// NewBuilder returns an empty Builder.
func NewBuilder[T Terminal, N Nonterminal, A any]() *Builder[T, N, A] {
	return &Builder[T, N, A]{}
}

// WithProduction appends a single production.
func (b *Builder[T, N, A]) WithProduction(p Production[T, N, A]) *Builder[T, N, A] {
	b.productions = append(b.productions, p)
	return b
}

// WithProductions appends every production in ps, in order.
func (b *Builder[T, N, A]) WithProductions(ps ...Production[T, N, A]) *Builder[T, N, A] {
	b.productions = append(b.productions, ps...)
	return b
}

// WithStartSymbol sets the nonterminal from which FOLLOW derivation seeds
// the end-of-input marker.
func (b *Builder[T, N, A]) WithStartSymbol(start N) *Builder[T, N, A] {
	b.start = start
	b.hasStart = true
	return b
}

// WithEmptySymbol declares which terminal value a client's grammar uses to
// spell ε explicitly in a production body (e.g. a dedicated `Empty`
// terminal variant), as an alternative to building bodies with EpsilonSeq
// directly. Build normalizes every occurrence of that terminal into the
// tagged ε symbol before deriving FIRST/FOLLOW, so the two spellings behave
// identically.
func (b *Builder[T, N, A]) WithEmptySymbol(t T) *Builder[T, N, A] {
	b.emptyTerm = t
	b.hasEmpty = true
	return b
}

// Build derives FIRST and FOLLOW over the accumulated productions and
// returns the resulting Grammar. It fails with icterrors.ErrNoStartSymbol if
// WithStartSymbol was never called, or icterrors.ErrNoProductionForStart if
// no production produces the declared start symbol.
func (b *Builder[T, N, A]) Build() (*Grammar[T, N, A], error) {
	if !b.hasStart {
		return nil, icterrors.ErrNoStartSymbol
	}

	startHasProduction := false
	for _, p := range b.productions {
		if p.Produced == b.start {
			startHasProduction = true
			break
		}
	}
	if !startHasProduction {
		return nil, icterrors.ErrNoProductionForStart
	}

	productions := b.productions
	if b.hasEmpty {
		productions = make([]Production[T, N, A], len(b.productions))
		for i, p := range b.productions {
			p.Body = normalizeEmptyTerm(p.Body, b.emptyTerm)
			productions[i] = p
		}
	}

	first := computeFirst(productions)
	follow := computeFollow(productions, b.start, first)

	return &Grammar[T, N, A]{
		productions: productions,
		start:       b.start,
		first:       first,
		follow:      follow,
	}, nil
}

// normalizeEmptyTerm rewrites every Single(FromTerminal(empty)) node in seq
// into the tagged ε symbol.
func normalizeEmptyTerm[T Terminal, N Nonterminal](seq SymbolSequence[T, N], empty T) SymbolSequence[T, N] {
	switch seq.kind {
	case seqSingle:
		if seq.single.IsTerminal() && seq.single.Term() == empty {
			return EpsilonSeq[T, N]()
		}
		return seq
	default:
		cp := seq
		cp.children = make([]SymbolSequence[T, N], len(seq.children))
		for i, c := range seq.children {
			cp.children[i] = normalizeEmptyTerm(c, empty)
		}
		return cp
	}
}
