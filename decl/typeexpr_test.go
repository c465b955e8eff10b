package decl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTypeExpr(t *testing.T) {
	testCases := map[string]string{
		"String":              "String",
		"  String ":           "String",
		"java.util.List<E>":   "java.util.List<E>",
		"Map<K,List<V>>":      "Map<K, List<V>>",
		"Map<K, List<V>>[][]": "Map<K, List<V>>[][]",
		"int[]":               "int[]",
		"List<String[]>":      "List<String[]>",
	}
	for text, expected := range testCases {
		t.Run(text, func(t *testing.T) {
			n, err := parseTypeExpr(text)
			assert.NoError(t, err)
			assert.Equal(t, expected, n.String())
		})
	}
}

func TestParseTypeExprStructure(t *testing.T) {
	n, err := parseTypeExpr("Map<K, List<V>>[]")
	assert.NoError(t, err)
	assert.Equal(t, "Map", n.name)
	assert.Equal(t, 1, n.dims)
	assert.Len(t, n.args, 2)
	assert.Equal(t, "List", n.args[1].name)
	assert.Equal(t, 7, n.args[1].offset)
	assert.Equal(t, "V", n.args[1].args[0].name)
}

func TestParseTypeExprErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"List<",
		"List<>",
		"List<A,>",
		"A B",
		"A[",
		"A.",
		"A<B>>",
		"List<?>",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := parseTypeExpr(text)
			assert.Error(t, err)
			var syntax syntaxError
			assert.True(t, errors.As(err, &syntax))
		})
	}

	_, err := parseTypeExpr("A B")
	var syntax syntaxError
	if assert.True(t, errors.As(err, &syntax)) {
		assert.Equal(t, 2, syntax.offset)
		assert.Contains(t, syntax.reason, "unexpected 'B'")
	}
}
