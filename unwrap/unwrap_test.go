package unwrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

var testSchema = gqlparser.MustLoadSchema(&ast.Source{Name: "test.graphql", Input: `
type Query { pet: Pet }
type Pet { name: String }
enum Species { DOG CAT }
`})

func TestUnwrap(t *testing.T) {
	testCases := []struct {
		Name      string
		Type      string
		Stack     []WrapperType
		Inner     string
		Primitive bool
	}{
		{Name: "Nullable", Type: "String", Stack: []WrapperType{Optional}, Inner: "String", Primitive: true},
		{Name: "NonNull", Type: "String!", Inner: "String", Primitive: true},
		{Name: "Object", Type: "Pet", Stack: []WrapperType{Optional}, Inner: "Pet"},
		{Name: "Enum", Type: "Species!", Inner: "Species", Primitive: true},
		{Name: "NullableList", Type: "[Pet]", Stack: []WrapperType{Optional, List, Optional}, Inner: "Pet"},
		{Name: "NonNullList", Type: "[Pet!]!", Stack: []WrapperType{List}, Inner: "Pet"},
		{Name: "ListOfNonNull", Type: "[Int!]", Stack: []WrapperType{Optional, List}, Inner: "Int", Primitive: true},
		{Name: "Nested", Type: "[[String!]!]!", Stack: []WrapperType{List, List}, Inner: "String", Primitive: true},
		{Name: "NestedNullable", Type: "[[Pet]]", Stack: []WrapperType{Optional, List, Optional, List, Optional}, Inner: "Pet"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(subT *testing.T) {
			typ := parseType(subT, testCase.Type)

			res := Unwrap(testSchema, typ)
			assert.Equal(subT, testCase.Stack, res.WrapperStack)
			assert.Equal(subT, testCase.Inner, res.Name)
			require.NotNil(subT, res.Inner)
			assert.Equal(subT, testCase.Inner, res.Inner.Name)
			assert.Equal(subT, testCase.Primitive, res.IsPrimitive)

			// Reapplying the stack reproduces the input type.
			assert.Equal(subT, typ.String(), Rewrap(res.WrapperStack, res.Name).String())
		})
	}
}

func TestUnwrap_UnknownType(t *testing.T) {
	res := Unwrap(testSchema, ast.NamedType("Missing", nil))

	assert.Nil(t, res.Inner)
	assert.False(t, res.IsPrimitive)
	assert.Equal(t, []WrapperType{Optional}, res.WrapperStack)
}

func TestWrapperType_String(t *testing.T) {
	assert.Equal(t, "List", List.String())
	assert.Equal(t, "Optional", Optional.String())
}

// parseType builds a type from its GraphQL notation, e.g. [Int!]!.
func parseType(t *testing.T, s string) *ast.Type {
	t.Helper()

	switch {
	case len(s) > 1 && s[len(s)-1] == '!':
		inner := parseType(t, s[:len(s)-1])
		inner.NonNull = true
		return inner
	case len(s) > 1 && s[0] == '[' && s[len(s)-1] == ']':
		return ast.ListType(parseType(t, s[1:len(s)-1]), nil)
	}
	return ast.NamedType(s, nil)
}
