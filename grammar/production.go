package grammar

import "github.com/dekarrin/ictiobus/icterrors"

// Reducer turns the parsed children of a production's body into the AST
// node type A the client's grammar is parameterized over.
type Reducer[A any] func(children []A) A

// Production binds a nonterminal to a symbol-sequence body and the reducer
// that turns parsed children into an AST node, per spec.md §3. Two
// Productions may share the same Produced nonterminal; this is how
// alternatives expressed as separate rules (rather than one Alternatives
// body) are modeled.
type Production[T Terminal, N Nonterminal, A any] struct {
	Produced N
	Body     SymbolSequence[T, N]
	Reduce   Reducer[A]
}

// ProductionBuilder assembles a Production, requiring all three of Produced,
// Body, and Reduce before Build succeeds, per spec.md §4.3.
type ProductionBuilder[T Terminal, N Nonterminal, A any] struct {
	produced N
	hasProd  bool
	body     SymbolSequence[T, N]
	hasBody  bool
	reduce   Reducer[A]
}

// NewProductionBuilder returns an empty ProductionBuilder.
func NewProductionBuilder[T Terminal, N Nonterminal, A any]() *ProductionBuilder[T, N, A] {
	return &ProductionBuilder[T, N, A]{}
}

// Produces sets the nonterminal the production produces.
func (pb *ProductionBuilder[T, N, A]) Produces(n N) *ProductionBuilder[T, N, A] {
	pb.produced = n
	pb.hasProd = true
	return pb
}

// WithBody sets the production's right-hand side.
func (pb *ProductionBuilder[T, N, A]) WithBody(body SymbolSequence[T, N]) *ProductionBuilder[T, N, A] {
	pb.body = body
	pb.hasBody = true
	return pb
}

// WithReducer sets the function that reduces parsed children to an AST node.
func (pb *ProductionBuilder[T, N, A]) WithReducer(r Reducer[A]) *ProductionBuilder[T, N, A] {
	pb.reduce = r
	return pb
}

// Build assembles the Production. It fails with icterrors.ErrIncompleteProduction
// if the produced nonterminal, the body, or the reducer were never set.
func (pb *ProductionBuilder[T, N, A]) Build() (Production[T, N, A], error) {
	if !pb.hasProd || !pb.hasBody || pb.reduce == nil {
		return Production[T, N, A]{}, icterrors.ErrIncompleteProduction
	}
	return Production[T, N, A]{Produced: pb.produced, Body: pb.body, Reduce: pb.reduce}, nil
}
