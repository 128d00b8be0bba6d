package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"b": 1,
		"a": "x",
		"c": []string{"z", "y"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":1,"c":["z","y"]}`, string(got))
}

func TestMarshalCanonicalValues(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"list": NewList(Integer(1), Double(2.5), String("s"), Bool(false), Null{}),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"list":[1,2.5,"s",false,null]}`, string(got))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	got, err := MarshalCanonical("<a & b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(got))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" + combining acute accent normalizes to a single code point.
	got, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	got, err := MarshalCanonical("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(got))

	// A literal backslash followed by the text u2028 stays escaped.
	got, err = MarshalCanonical(`a\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028"`, string(got))
}

func TestMarshalCanonicalRejectsNonFinite(t *testing.T) {
	_, err := MarshalCanonical(Double(math.Inf(1)))
	assert.Error(t, err)

	_, err = MarshalCanonical([]Value{Integer(1), Double(math.NaN())})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "array[1]")
}

func TestMarshalCanonicalUnsupported(t *testing.T) {
	_, err := MarshalCanonical(struct{}{})
	assert.Error(t, err)
}

func TestCompareKeysUTF16(t *testing.T) {
	// U+1F600 sorts after U+FF61 in UTF-8 but before it in UTF-16.
	assert.Less(t, compareKeysUTF16("\U0001F600", "\uFF61"), 0)
	assert.Equal(t, 0, compareKeysUTF16("same", "same"))
}

func TestScriptHash(t *testing.T) {
	a := ScriptHash("Start 1 0 0\n")
	b := ScriptHash("Start 1 0 0\n")
	c := ScriptHash("Start 2 0 0\n")

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, ScriptHash("\u00e9"), ScriptHash("e\u0301"), "normalization independent")
}
