package grammar

import "fmt"

// PossiblyEmpty is T or the sentinel ε, used inside FIRST sets per spec.md §3.
type PossiblyEmpty[T Terminal] struct {
	Term    T
	Epsilon bool
}

func (p PossiblyEmpty[T]) String() string {
	if p.Epsilon {
		return "ε"
	}
	return p.Term.String()
}

func epsilonMember[T Terminal]() PossiblyEmpty[T] {
	return PossiblyEmpty[T]{Epsilon: true}
}

func termMember[T Terminal](t T) PossiblyEmpty[T] {
	return PossiblyEmpty[T]{Term: t}
}

// PossiblyEndOfInput is T or the sentinel $, used inside FOLLOW sets per
// spec.md §3.
type PossiblyEndOfInput[T Terminal] struct {
	Term       T
	EndOfInput bool
}

func (p PossiblyEndOfInput[T]) String() string {
	if p.EndOfInput {
		return "$"
	}
	return p.Term.String()
}

func endOfInputMember[T Terminal]() PossiblyEndOfInput[T] {
	return PossiblyEndOfInput[T]{EndOfInput: true}
}

func endOfInputTerm[T Terminal](t T) PossiblyEndOfInput[T] {
	return PossiblyEndOfInput[T]{Term: t}
}

// FirstSets is the total function N -> set(PossiblyEmpty[T]) exposed by a
// built grammar. Missing keys (a nonterminal with no production, per the
// tolerated-malformed-grammar rule of spec.md §7) contribute the empty set.
type FirstSets[T Terminal, N Nonterminal] map[N][]PossiblyEmpty[T]

// Of returns FIRST(n), or nil if n has no known production.
func (f FirstSets[T, N]) Of(n N) []PossiblyEmpty[T] {
	return f[n]
}

// Has reports whether member is in FIRST(n).
func (f FirstSets[T, N]) Has(n N, member PossiblyEmpty[T]) bool {
	for _, m := range f[n] {
		if m == member {
			return true
		}
	}
	return false
}

// FollowSets is the total function N -> set(PossiblyEndOfInput[T]) exposed
// by a built grammar.
type FollowSets[T Terminal, N Nonterminal] map[N][]PossiblyEndOfInput[T]

// Of returns FOLLOW(n), or nil if n has no known production.
func (f FollowSets[T, N]) Of(n N) []PossiblyEndOfInput[T] {
	return f[n]
}

// Has reports whether member is in FOLLOW(n).
func (f FollowSets[T, N]) Has(n N, member PossiblyEndOfInput[T]) bool {
	for _, m := range f[n] {
		if m == member {
			return true
		}
	}
	return false
}

func (f FirstSets[T, N]) String() string {
	return fmt.Sprintf("%v", map[N][]PossiblyEmpty[T](f))
}

func (f FollowSets[T, N]) String() string {
	return fmt.Sprintf("%v", map[N][]PossiblyEndOfInput[T](f))
}
