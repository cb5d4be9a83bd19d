package grammar

import "github.com/dekarrin/ictiobus/internal/collect"

// followOccurrence records one syntactic occurrence of nonterminal B inside
// the body of a production headed by A, together with the "remainder" β
// that honestly follows B at that position in the symbol-sequence algebra
// (spec.md §4.5).
type followOccurrence[T Terminal, N Nonterminal] struct {
	head      N
	occurs    N
	remainder []SymbolSequence[T, N]
}

// walkForFollow finds every nonterminal occurrence in seq and records, for
// each, the continuation that syntactically follows it: cont is the list of
// SymbolSequence nodes (concatenated) that come after seq's position in its
// parent, so a nested occurrence's remainder is its own internal tail
// followed by cont.
//
// Sequence: β for position i is the later siblings, then cont.
// Alternatives: β for any alternative is cont itself — siblings within the
// same alternative never follow an occurrence in a different alternative.
// Optional: β is cont, since the wrapped contents occur at most once.
// Repeated: β is the wrapper itself (zero or more further repetitions) plus
// cont, since the wrapper can loop back on itself before whatever follows it.
func walkForFollow[T Terminal, N Nonterminal](seq SymbolSequence[T, N], cont []SymbolSequence[T, N], record func(b N, remainder []SymbolSequence[T, N])) {
	switch seq.kind {
	case seqSingle:
		if seq.single.IsNonterminal() {
			record(seq.single.Nonterm(), cont)
		}

	case seqSequence:
		for i, child := range seq.children {
			tail := append(append([]SymbolSequence[T, N]{}, seq.children[i+1:]...), cont...)
			walkForFollow(child, tail, record)
		}

	case seqAlternatives:
		for _, alt := range seq.children {
			walkForFollow(alt, cont, record)
		}

	case seqOptional:
		walkForFollow(seq.children[0], cont, record)

	case seqRepeated:
		wrapped := append([]SymbolSequence[T, N]{seq}, cont...)
		walkForFollow(seq.children[0], wrapped, record)
	}
}

// computeFollow derives FOLLOW for every nonterminal, seeded from the start
// symbol with $, per spec.md §4.5. Like computeFirst, it iterates every
// production's occurrences to a fixed point rather than relying on a single
// pass, since a later production's FOLLOW(A) can feed an earlier one's
// FOLLOW(B) in a mutually recursive grammar.
func computeFollow[T Terminal, N Nonterminal, A any](productions []Production[T, N, A], start N, first FirstSets[T, N]) FollowSets[T, N] {
	working := map[N]collect.KeySet[PossiblyEndOfInput[T]]{}
	ensure := func(n N) {
		if _, ok := working[n]; !ok {
			working[n] = collect.NewKeySet[PossiblyEndOfInput[T]]()
		}
	}
	for _, p := range productions {
		ensure(p.Produced)
	}
	ensure(start)
	working[start].Add(endOfInputMember[T]())

	firstWorking := map[N]collect.KeySet[PossiblyEmpty[T]]{}
	for n, members := range first {
		firstWorking[n] = collect.KeySetOf(members)
	}

	var occs []followOccurrence[T, N]
	for _, p := range productions {
		walkForFollow(p.Body, nil, func(b N, remainder []SymbolSequence[T, N]) {
			occs = append(occs, followOccurrence[T, N]{head: p.Produced, occurs: b, remainder: remainder})
		})
	}

	changed := true
	for changed {
		changed = false
		for _, occ := range occs {
			ensure(occ.occurs)
			remFirst := firstOfConcat(occ.remainder, firstWorking)

			before := working[occ.occurs].Len()
			for _, m := range remFirst.Elements() {
				if !m.Epsilon {
					working[occ.occurs].Add(endOfInputTerm(m.Term))
				}
			}
			if len(occ.remainder) == 0 || remFirst.Has(epsilonMember[T]()) {
				working[occ.occurs].AddAll(working[occ.head])
			}
			if working[occ.occurs].Len() != before {
				changed = true
			}
		}
	}

	result := make(FollowSets[T, N], len(working))
	for n, set := range working {
		result[n] = set.Elements()
	}
	return result
}
