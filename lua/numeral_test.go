package lua_test

import (
	"testing"

	"github.com/dekarrin/ictiobus/lua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLuaNumeral_DecimalInt(t *testing.T) {
	n, err := lua.ParseLuaNumeral("42")
	require.NoError(t, err)
	assert.Equal(t, lua.NumeralInt, n.Kind)
	assert.Equal(t, int64(42), n.Int)
}

func TestParseLuaNumeral_DecimalFloat(t *testing.T) {
	n, err := lua.ParseLuaNumeral("3.14")
	require.NoError(t, err)
	assert.Equal(t, lua.NumeralFloat, n.Kind)
	assert.InDelta(t, 3.14, n.Float, 0.0001)
}

func TestParseLuaNumeral_DecimalFloatExponent(t *testing.T) {
	n, err := lua.ParseLuaNumeral("1e10")
	require.NoError(t, err)
	assert.Equal(t, lua.NumeralFloat, n.Kind)
	assert.InDelta(t, 1e10, n.Float, 1)
}

func TestParseLuaNumeral_HexInt(t *testing.T) {
	n, err := lua.ParseLuaNumeral("0xFF")
	require.NoError(t, err)
	assert.Equal(t, lua.NumeralInt, n.Kind)
	assert.Equal(t, int64(255), n.Int)
}

func TestParseLuaNumeral_HexIntWraps(t *testing.T) {
	// 0xFFFFFFFFFFFFFFFF is 2^64 - 1, which wraps to -1 as a signed int64,
	// per the reference manual's "wraps around" footnote for hex literals.
	n, err := lua.ParseLuaNumeral("0xFFFFFFFFFFFFFFFF")
	require.NoError(t, err)
	assert.Equal(t, lua.NumeralInt, n.Kind)
	assert.Equal(t, int64(-1), n.Int)
}

func TestParseLuaNumeral_HexFloatWithExponent(t *testing.T) {
	n, err := lua.ParseLuaNumeral("0x1.8p1")
	require.NoError(t, err)
	assert.Equal(t, lua.NumeralFloat, n.Kind)
	assert.InDelta(t, 3.0, n.Float, 0.0001)
}

func TestParseLuaNumeral_HexFloatWithoutExponent(t *testing.T) {
	n, err := lua.ParseLuaNumeral("0x1.8")
	require.NoError(t, err)
	assert.Equal(t, lua.NumeralFloat, n.Kind)
	assert.InDelta(t, 1.5, n.Float, 0.0001)
}

func TestParseLuaNumeral_DecimalOverflowWidensToFloat(t *testing.T) {
	n, err := lua.ParseLuaNumeral("99999999999999999999")
	require.NoError(t, err)
	assert.Equal(t, lua.NumeralFloat, n.Kind)
}

func TestParseLuaNumeral_EmptyIsError(t *testing.T) {
	_, err := lua.ParseLuaNumeral("")
	assert.Error(t, err)
}

func TestNumeral_String(t *testing.T) {
	assert.Equal(t, "42", lua.Numeral{Kind: lua.NumeralInt, Int: 42}.String())
	assert.Equal(t, "3.5", lua.Numeral{Kind: lua.NumeralFloat, Float: 3.5}.String())
}
