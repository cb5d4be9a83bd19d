// Package ast holds the syntax tree node type built up by the Lua grammar's
// production reducers. It is a deliberately flattened rendering of phobos's
// LuaNode enum (original_source/src/syntax_tree/node/lua_node.rs): rather
// than one Go type per Rust variant, Node carries a Kind tag plus whatever
// children, text, or numeral payload that Kind needs, matching one nonterminal
// to one Kind so a production's reducer never needs a type switch.
package ast

// Kind tags which grammar rule produced a Node. Most values name a Lua
// nonterminal directly; Leaf, Name, Number, and String tag the handful of
// terminal payloads a reducer keeps around verbatim.
type Kind int

const (
	KindUnknown Kind = iota
	KindChunk
	KindBlock
	KindStat
	KindAttNameList
	KindAttrib
	KindRetStat
	KindLabel
	KindFuncName
	KindVarList
	KindVar
	KindNameList
	KindExpList
	KindExp
	KindExp2
	KindExp3
	KindExp4
	KindExp5
	KindExp6
	KindExp7
	KindExp8
	KindExp9
	KindExp10
	KindExp11
	KindExp12
	KindExp13
	KindPrefixExp
	KindFunctionCall
	KindArgs
	KindFunctionDef
	KindFuncBody
	KindParList
	KindTableConstructor
	KindFieldList
	KindField
	KindFieldSep

	// Leaf kinds: terminals a reducer wants to keep the text or value of
	// rather than discard.
	KindLeaf
	KindName
	KindNumber
	KindString
)

// Node is a single syntax tree node. Not every field is meaningful for every
// Kind; Text holds identifiers/operators/string literals, Num holds a parsed
// number literal (a lua.Numeral, kept as any so this package stays independent
// of the lua package's grammar-building side and avoids an import cycle with
// it), and Children holds sub-nodes in source order.
type Node struct {
	Kind     Kind
	Text     string
	Num      any
	Children []Node
}

// Leaf builds a childless Node carrying only text (identifiers, operators,
// literal punctuation kept around for error messages).
func Leaf(kind Kind, text string) Node {
	return Node{Kind: kind, Text: text}
}

// NumberNode builds a KindNumber leaf wrapping an already-parsed numeral
// (typically a lua.Numeral produced by the lexer).
func NumberNode(n any) Node {
	return Node{Kind: KindNumber, Num: n}
}

// Branch builds a Node of kind with the given children in order.
func Branch(kind Kind, children ...Node) Node {
	return Node{Kind: kind, Children: children}
}

// First returns the first child, or the zero Node if there are none.
func (n Node) First() Node {
	if len(n.Children) == 0 {
		return Node{}
	}
	return n.Children[0]
}
