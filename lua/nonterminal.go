package lua

// Nonterminal enumerates every nonterminal symbol of the Lua 5.3 grammar,
// grounded on phobos's LuaNonterminal (original_source/src/lua/nonterminals.rs).
// Exp1 through Exp13 are the precedence-climbing layers standing in for the
// single ambiguous `exp` rule of the reference manual's EBNF.
type Nonterminal int

const (
	NontChunk Nonterminal = iota
	NontBlock
	NontStat
	NontAttNameList
	NontAttrib
	NontRetStat
	NontLabel
	NontFuncName
	NontVarList
	NontVar
	NontNameList
	NontExpList
	NontExp
	NontExp2
	NontExp3
	NontExp4
	NontExp5
	NontExp6
	NontExp7
	NontExp8
	NontExp9
	NontExp10
	NontExp11
	NontExp12
	NontExp13
	NontPrefixExp
	NontFunctionCall
	NontArgs
	NontFunctionDef
	NontFuncBody
	NontParList
	NontTableConstructor
	NontFieldList
	NontField
	NontFieldSep
)

var nonterminalNames = map[Nonterminal]string{
	NontChunk:            "chunk",
	NontBlock:            "block",
	NontStat:             "stat",
	NontAttNameList:      "attnamelist",
	NontAttrib:           "attrib",
	NontRetStat:          "retstat",
	NontLabel:            "label",
	NontFuncName:         "funcname",
	NontVarList:          "varlist",
	NontVar:              "var",
	NontNameList:         "namelist",
	NontExpList:          "explist",
	NontExp:              "exp",
	NontExp2:             "exp2",
	NontExp3:             "exp3",
	NontExp4:             "exp4",
	NontExp5:             "exp5",
	NontExp6:             "exp6",
	NontExp7:             "exp7",
	NontExp8:             "exp8",
	NontExp9:             "exp9",
	NontExp10:            "exp10",
	NontExp11:            "exp11",
	NontExp12:            "exp12",
	NontExp13:            "exp13",
	NontPrefixExp:        "prefixexp",
	NontFunctionCall:     "functioncall",
	NontArgs:             "args",
	NontFunctionDef:      "functiondef",
	NontFuncBody:         "funcbody",
	NontParList:          "parlist",
	NontTableConstructor: "tableconstructor",
	NontFieldList:        "fieldlist",
	NontField:            "field",
	NontFieldSep:         "fieldsep",
}

// String returns the reference-manual rule name of n.
func (n Nonterminal) String() string {
	if name, ok := nonterminalNames[n]; ok {
		return name
	}
	return "UNKNOWN"
}
