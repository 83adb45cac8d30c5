package pydantic

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qenerate/qenerate/gen"
	"github.com/qenerate/qenerate/introspection"
	"github.com/qenerate/qenerate/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "Update expected output files")

func loadPets(t *testing.T) *introspection.Result {
	t.Helper()

	f, err := os.Open("../introspection/testdata/pets.json")
	require.NoError(t, err)
	defer f.Close()

	raw, err := introspection.Decode(f)
	require.NoError(t, err)
	return raw
}

func TestGenerator_Generate(t *testing.T) {
	raw := loadPets(t)

	queries, err := filepath.Glob("testdata/*.gql")
	require.NoError(t, err)
	require.NotEmpty(t, queries)

	for _, q := range queries {
		exPath := strings.TrimSuffix(q, ".gql") + ".py"

		t.Run(filepath.Base(q), func(subT *testing.T) {
			src, err := os.ReadFile(q)
			require.NoError(subT, err)

			var g Generator
			out, err := g.Generate(gen.WithFile(context.Background(), q), string(src), raw)
			require.NoError(subT, err)

			if *update {
				subT.Logf("updating expected python output file: %s", exPath)
				require.NoError(subT, os.WriteFile(exPath, []byte(out), 0644))
				return
			}

			ex, err := os.ReadFile(exPath)
			require.NoError(subT, err)
			gen.CompareBytes(subT, ex, []byte(out))
		})
	}
}

func TestGenerator_Order(t *testing.T) {
	var g Generator
	out, err := g.Generate(context.Background(), `query Q { a { b { c { value } } } }`, loadPets(t))
	require.NoError(t, err)

	c := strings.Index(out, "class C(BaseModel):")
	b := strings.Index(out, "class B(BaseModel):")
	q := strings.Index(out, "class QQuery(BaseModel):")
	require.True(t, c >= 0 && b >= 0 && q >= 0, out)
	assert.Less(t, c, b)
	assert.Less(t, b, q)
}

func TestGenerator_Declarations(t *testing.T) {
	testCases := []struct {
		Name  string
		Query string
		Count int
	}{
		{Name: "PrimitivesOnly", Query: `query Now { now }`, Count: 1},
		{Name: "Nested", Query: `query Q { a { id b { id c { value } } } }`, Count: 4},
		{Name: "Siblings", Query: `query Q { owners { id } clusters_v1 { owner { id } } }`, Count: 4},
		{Name: "Fragments", Query: `query Q { pets { name ... on Dog { bark } ... on Cat { meow } } }`, Count: 4},
	}

	raw := loadPets(t)
	for _, testCase := range testCases {
		t.Run(testCase.Name, func(subT *testing.T) {
			var g Generator
			out, err := g.Generate(context.Background(), testCase.Query, raw)
			require.NoError(subT, err)

			assert.Equal(subT, testCase.Count, strings.Count(out, "\nclass "))
			assert.Equal(subT, testCase.Count, strings.Count(out, "class Config:"))
			assert.True(subT, strings.HasSuffix(out, "extra = Extra.forbid\n"))
		})
	}
}

func TestGenerator_Collisions(t *testing.T) {
	var g Generator
	out, err := g.Generate(context.Background(), `query Q { owners { id } clusters_v1 { owner { name } } }`, loadPets(t))
	require.NoError(t, err)

	assert.Contains(t, out, "class Owner(BaseModel):")
	assert.Contains(t, out, "class ClusterV1_Owner(BaseModel):")
	assert.Contains(t, out, `owner: Optional[ClusterV1_Owner] = Field(..., alias="owner")`)
}

func TestGenerator_ImportedNames(t *testing.T) {
	raw, err := introspection.Unmarshal([]byte(`{"__schema": {"queryType": {"name": "Query"}, "types": [
		{"kind": "OBJECT", "name": "Query", "fields": [
			{"name": "field", "args": [], "type": {"kind": "OBJECT", "name": "Field"}}
		]},
		{"kind": "OBJECT", "name": "Field", "fields": [
			{"name": "id", "args": [], "type": {"kind": "NON_NULL", "ofType": {"kind": "SCALAR", "name": "ID"}}}
		]}
	]}}`))
	require.NoError(t, err)

	var g Generator
	out, err := g.Generate(context.Background(), `query Q { field { id } }`, raw)
	require.NoError(t, err)

	assert.Contains(t, out, "class Q_Field(BaseModel):")
	assert.Contains(t, out, `field: Optional[Q_Field] = Field(..., alias="field")`)
	assert.NotContains(t, out, "class Field(")
}

func TestGenerator_Typename(t *testing.T) {
	var g Generator
	out, err := g.Generate(context.Background(), `query Q { pets { __typename name } }`, loadPets(t))
	require.NoError(t, err)

	assert.Contains(t, out, "class Pet(BaseModel):\n    __typename: str = Field(..., alias=\"__typename\")\n")
	assert.NotContains(t, out, "Optional[str] = Field(..., alias=\"__typename\")")
}

func TestGenerator_Errors(t *testing.T) {
	raw := loadPets(t)

	t.Run("Anonymous", func(subT *testing.T) {
		var g Generator
		out, err := g.Generate(context.Background(), `{ now }`, raw)
		assert.ErrorIs(subT, err, gen.ErrAnonymousQuery)
		assert.Empty(subT, out)
	})

	t.Run("Invalid", func(subT *testing.T) {
		var g Generator
		out, err := g.Generate(context.Background(), `query Q { doesNotExist }`, raw)

		var invalid *gen.InvalidQueryError
		require.True(subT, errors.As(err, &invalid))
		assert.NotEmpty(subT, invalid.Errors)
		assert.Empty(subT, out)
	})

	t.Run("Schema", func(subT *testing.T) {
		bad, err := introspection.Unmarshal([]byte(`{"__schema": {"types": []}}`))
		require.NoError(subT, err)

		var g Generator
		_, err = g.Generate(context.Background(), `query Q { now }`, bad)
		assert.Error(subT, err)
	})
}

func TestGenerator_Render(t *testing.T) {
	tree := query.NewTree()
	op := tree.Add(query.RootIndex, query.Node{
		Kind: query.Operation,
		Type: query.FieldType{Unwrapped: "Q", Wrapped: query.Optional(query.List(query.Name("Q")))},
	})
	tree.Add(op, query.Node{
		Kind:   query.Class,
		Type:   query.FieldType{Unwrapped: "int", Wrapped: query.Name("int"), IsPrimitive: true},
		PyKey:  "class_",
		GQLKey: "class",
	})

	var g Generator
	out, err := g.Render(tree)
	require.NoError(t, err)
	assert.Contains(t, out, "class QQuery(BaseModel):\n    class_: int = Field(..., alias=\"class\")\n\n    class Config:\n")

	t.Run("MissingUnionLeaf", func(subT *testing.T) {
		tree := query.NewTree()
		op := tree.Add(query.RootIndex, query.Node{Kind: query.Operation, Type: query.FieldType{Unwrapped: "Q"}})
		pet := tree.Add(op, query.Node{
			Kind:   query.Class,
			Type:   query.FieldType{Unwrapped: "Pet", Wrapped: query.Optional(query.Name("Animal"))},
			PyKey:  "pet",
			GQLKey: "pet",
		})
		tree.Add(pet, query.Node{
			Kind: query.InlineFragment,
			Type: query.FieldType{Unwrapped: "Dog", Wrapped: query.Optional(query.Name("Dog"))},
		})

		var g Generator
		_, err := g.Render(tree)
		assert.ErrorIs(subT, err, query.ErrNoSubstitution)
	})
}
