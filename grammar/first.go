package grammar

import "github.com/dekarrin/ictiobus/internal/collect"

// firstOfSymbol computes FIRST of a single Symbol against the current
// (possibly still-growing) map of per-nonterminal FIRST sets, per spec.md
// §4.4.
func firstOfSymbol[T Terminal, N Nonterminal](sym Symbol[T, N], working map[N]collect.KeySet[PossiblyEmpty[T]]) collect.KeySet[PossiblyEmpty[T]] {
	result := collect.NewKeySet[PossiblyEmpty[T]]()
	switch {
	case sym.IsEpsilon():
		result.Add(epsilonMember[T]())
	case sym.IsTerminal():
		result.Add(termMember(sym.Term()))
	case sym.IsNonterminal():
		if s, ok := working[sym.Nonterm()]; ok {
			result.AddAll(s)
		}
		// an unknown nonterminal (no production) contributes the empty
		// set, per spec.md §7's tolerance for malformed grammars.
	}
	return result
}

// firstOfSeq computes FIRST of a SymbolSequence node, per the inductive
// rules of spec.md §4.4.
func firstOfSeq[T Terminal, N Nonterminal](seq SymbolSequence[T, N], working map[N]collect.KeySet[PossiblyEmpty[T]]) collect.KeySet[PossiblyEmpty[T]] {
	switch seq.kind {
	case seqSingle:
		return firstOfSymbol(seq.single, working)

	case seqSequence:
		return firstOfConcat(seq.children, working)

	case seqAlternatives:
		result := collect.NewKeySet[PossiblyEmpty[T]]()
		for _, alt := range seq.children {
			result.AddAll(firstOfSeq(alt, working))
		}
		return result

	case seqOptional, seqRepeated:
		result := firstOfSeq(seq.children[0], working)
		result.Add(epsilonMember[T]())
		return result
	}
	return collect.NewKeySet[PossiblyEmpty[T]]()
}

// firstOfConcat computes FIRST of the concatenation x1 x2 ... xn (spec.md
// §4.4's Sequence rule): start with FIRST(x1); while each prefix so far can
// derive ε, keep unioning in the next element's FIRST; ε is in the result
// only if every element can derive ε. An empty concatenation (used when
// computing FIRST of what syntactically follows the last symbol in a body,
// during FOLLOW derivation) derives ε.
func firstOfConcat[T Terminal, N Nonterminal](parts []SymbolSequence[T, N], working map[N]collect.KeySet[PossiblyEmpty[T]]) collect.KeySet[PossiblyEmpty[T]] {
	result := collect.NewKeySet[PossiblyEmpty[T]]()
	if len(parts) == 0 {
		result.Add(epsilonMember[T]())
		return result
	}

	allEpsilon := true
	for _, part := range parts {
		partFirst := firstOfSeq(part, working)
		hasEpsilon := partFirst.Has(epsilonMember[T]())
		for _, m := range partFirst.Elements() {
			if !m.Epsilon {
				result.Add(m)
			}
		}
		if !hasEpsilon {
			allEpsilon = false
			break
		}
	}
	if allEpsilon {
		result.Add(epsilonMember[T]())
	}
	return result
}

// computeFirst derives FIRST for every nonterminal that produces at least
// one production, by iterating to a fixed point (spec.md §4.4's
// "Termination" note: a single pass with a visited-set guard is not
// sufficient for mutually recursive grammars, so every production is
// re-examined until no set changes in a full pass).
func computeFirst[T Terminal, N Nonterminal, A any](productions []Production[T, N, A]) FirstSets[T, N] {
	working := map[N]collect.KeySet[PossiblyEmpty[T]]{}
	for _, p := range productions {
		if _, ok := working[p.Produced]; !ok {
			working[p.Produced] = collect.NewKeySet[PossiblyEmpty[T]]()
		}
	}

	changed := true
	for changed {
		changed = false
		for _, p := range productions {
			bodyFirst := firstOfSeq(p.Body, working)
			before := working[p.Produced].Len()
			working[p.Produced].AddAll(bodyFirst)
			if working[p.Produced].Len() != before {
				changed = true
			}
		}
	}

	result := make(FirstSets[T, N], len(working))
	for n, set := range working {
		result[n] = set.Elements()
	}
	return result
}
