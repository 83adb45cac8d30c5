package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeExpr_String(t *testing.T) {
	testCases := []struct {
		Name string
		Expr *TypeExpr
		Ex   string
	}{
		{Name: "Name", Expr: Name("str"), Ex: "str"},
		{Name: "Optional", Expr: Optional(Name("int")), Ex: "Optional[int]"},
		{Name: "List", Expr: List(Optional(Name("Pet"))), Ex: "list[Optional[Pet]]"},
		{Name: "Union", Expr: Optional(Union(Name("Dog"), Name("Cat"), Name("Pet"))), Ex: "Optional[Union[Dog, Cat, Pet]]"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(subT *testing.T) {
			assert.Equal(subT, testCase.Ex, testCase.Expr.String())
		})
	}
}

func TestTypeExpr_Substitute(t *testing.T) {
	orig := Optional(List(Optional(Name("Pet"))))

	out, err := orig.Substitute("Pet", Union(Name("Dog"), Name("Pet")))
	require.NoError(t, err)
	assert.Equal(t, "Optional[list[Optional[Union[Dog, Pet]]]]", out.String())

	// The receiver is left untouched.
	assert.Equal(t, "Optional[list[Optional[Pet]]]", orig.String())

	// Only whole leaves match, never substrings.
	_, err = Optional(Name("PetOwner")).Substitute("Pet", Name("X"))
	assert.ErrorIs(t, err, ErrNoSubstitution)
}

func TestTree_Add(t *testing.T) {
	tree := NewTree()
	op := tree.Add(RootIndex, Node{Kind: Operation})
	a := tree.Add(op, Node{Kind: Class, GQLKey: "a"})
	f := tree.Add(op, Node{Kind: InlineFragment})
	b := tree.Add(op, Node{Kind: Class, GQLKey: "b"})

	assert.Equal(t, -1, tree.Node(RootIndex).Parent)
	assert.Equal(t, []int{op}, tree.Node(RootIndex).Fields)
	assert.Equal(t, []int{a, f, b}, tree.Node(op).Fields)
	assert.Equal(t, op, tree.Node(b).Parent)
	assert.Equal(t, []int{a, b}, tree.Children(op, Class))
	assert.Equal(t, []int{f}, tree.Children(op, InlineFragment))
	assert.Equal(t, "InlineFragment", tree.Node(f).Kind.String())
}
