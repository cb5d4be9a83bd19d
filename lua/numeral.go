package lua

import (
	"fmt"
	"strconv"
	"strings"
)

// NumeralKind distinguishes the two numeric subtypes of Lua 5.3: integers
// (64-bit, two's-complement, wrapping on overflow) and floats (IEEE 754
// double precision).
type NumeralKind int

const (
	NumeralInt NumeralKind = iota
	NumeralFloat
)

// Numeral is the parsed value of a Lua 5.3 number literal.
type Numeral struct {
	Kind  NumeralKind
	Int   int64
	Float float64
}

func (n Numeral) String() string {
	if n.Kind == NumeralInt {
		return strconv.FormatInt(n.Int, 10)
	}
	return strconv.FormatFloat(n.Float, 'g', -1, 64)
}

// ParseLuaNumeral parses text as a Lua 5.3 Numeral: decimal integer, decimal
// float (with optional e/E exponent), hex integer (0x/0X prefix, wrapping
// two's-complement on overflow per §3.1 of the reference manual), or hex
// float (0x/0X prefix, with optional fractional part and optional p/P
// binary exponent). text must not include surrounding whitespace.
func ParseLuaNumeral(text string) (Numeral, error) {
	if text == "" {
		return Numeral{}, fmt.Errorf("lua: empty numeral")
	}

	if isHexNumeral(text) {
		return parseHexNumeral(text)
	}
	return parseDecimalNumeral(text)
}

func isHexNumeral(text string) bool {
	return len(text) > 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X')
}

func parseDecimalNumeral(text string) (Numeral, error) {
	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Numeral{}, fmt.Errorf("lua: malformed number %q: %w", text, err)
		}
		return Numeral{Kind: NumeralFloat, Float: f}, nil
	}

	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// Lua wraps decimal integer literals that overflow int64 into a
		// float, per §3.1: "if the value of the numeral does not fit
		// exactly as an integer, it is represented as a float".
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil {
			return Numeral{}, fmt.Errorf("lua: malformed number %q: %w", text, err)
		}
		return Numeral{Kind: NumeralFloat, Float: f}, nil
	}
	return Numeral{Kind: NumeralInt, Int: i}, nil
}

func parseHexNumeral(text string) (Numeral, error) {
	body := text[2:]
	if !strings.ContainsAny(body, ".pP") {
		u, err := strconv.ParseUint(body, 16, 64)
		if err != nil {
			// wraps via two's-complement on overflow, same as the decimal
			// integer case's widening but in the other direction: any
			// sequence of hex digits is a valid Lua hex integer, so reparse
			// with a wrapping accumulator instead of failing.
			return parseWrappingHexInt(body)
		}
		return Numeral{Kind: NumeralInt, Int: int64(u)}, nil
	}

	// Go's ParseFloat requires the p exponent on a hex float; Lua makes it
	// optional when a fractional part is present, defaulting to p0.
	normalized := text
	if !strings.ContainsAny(body, "pP") {
		normalized = text + "p0"
	}
	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return Numeral{}, fmt.Errorf("lua: malformed number %q: %w", text, err)
	}
	return Numeral{Kind: NumeralFloat, Float: f}, nil
}

func parseWrappingHexInt(digits string) (Numeral, error) {
	var acc uint64
	for _, r := range digits {
		v, ok := hexDigitValue(r)
		if !ok {
			return Numeral{}, fmt.Errorf("lua: malformed number with hex digits %q", digits)
		}
		acc = acc*16 + uint64(v)
	}
	return Numeral{Kind: NumeralInt, Int: int64(acc)}, nil
}

func hexDigitValue(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, true
	default:
		return 0, false
	}
}
