package introspection

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaPrefix = "schema {\n  query: Query\n}\n"

func TestWriteIDL(t *testing.T) {
	testCases := []struct {
		Name string
		JSON string
		IDL  string
	}{
		{
			Name: "SCALAR",
			JSON: `{"__schema": {"queryType": {"name": "Query"}, "directives": [], "types": [
				{"kind": "SCALAR", "name": "Time", "description": null}
			]}}`,
			IDL: schemaPrefix + "\nscalar Time\n",
		},
		{
			Name: "Builtins",
			JSON: `{"__schema": {"queryType": {"name": "Query"}, "directives": [
				{"name": "include", "locations": ["FIELD"], "args": []},
				{"name": "deprecated", "locations": ["FIELD_DEFINITION"], "args": []}
			], "types": [
				{"kind": "SCALAR", "name": "String"},
				{"kind": "SCALAR", "name": "Float"},
				{"kind": "OBJECT", "name": "__Type", "fields": []}
			]}}`,
			IDL: schemaPrefix,
		},
		{
			Name: "OBJECT",
			JSON: `{"__schema": {"queryType": {"name": "Query"}, "directives": [], "types": [
				{"kind": "OBJECT", "name": "Test", "interfaces": [{"kind": "INTERFACE", "name": "A"}, {"kind": "INTERFACE", "name": "B"}], "fields": [
					{"name": "a", "args": [{"name": "b", "type": {"kind": "SCALAR", "name": "Int"}}], "type": {"kind": "SCALAR", "name": "String"}, "isDeprecated": false},
					{"name": "b", "args": [], "type": {"kind": "LIST", "name": null, "ofType": {"kind": "SCALAR", "name": "Int"}}, "isDeprecated": false},
					{"name": "c", "args": [{"name": "d", "type": {"kind": "SCALAR", "name": "Int"}, "defaultValue": "0"}],
					 "type": {"kind": "NON_NULL", "ofType": {"kind": "SCALAR", "name": "String"}}, "isDeprecated": true, "deprecationReason": "gone"}
				]}
			]}}`,
			IDL: schemaPrefix + "\ntype Test implements A & B {\n  a(b: Int): String\n  b: [Int]\n  c(d: Int = 0): String! @deprecated(reason: \"gone\")\n}\n",
		},
		{
			Name: "ENUM",
			JSON: `{"__schema": {"queryType": {"name": "Query"}, "directives": [], "types": [
				{"kind": "ENUM", "name": "Color", "description": "Colors.", "enumValues": [
					{"name": "RED", "isDeprecated": false},
					{"name": "GREEN", "description": "The green one", "isDeprecated": false}
				]}
			]}}`,
			IDL: schemaPrefix + "\n\"\"\"Colors.\"\"\"\nenum Color {\n  RED\n  \"\"\"The green one\"\"\"\n  GREEN\n}\n",
		},
		{
			Name: "UNION",
			JSON: `{"__schema": {"queryType": {"name": "Query"}, "directives": [], "types": [
				{"kind": "UNION", "name": "U", "possibleTypes": [{"kind": "OBJECT", "name": "A"}, {"kind": "OBJECT", "name": "B"}]}
			]}}`,
			IDL: schemaPrefix + "\nunion U = A | B\n",
		},
		{
			Name: "INPUT_OBJECT",
			JSON: `{"__schema": {"queryType": {"name": "Query"}, "directives": [], "types": [
				{"kind": "INPUT_OBJECT", "name": "F", "inputFields": [
					{"name": "name", "type": {"kind": "SCALAR", "name": "String"}, "defaultValue": null},
					{"name": "species", "type": {"kind": "LIST", "ofType": {"kind": "NON_NULL", "ofType": {"kind": "ENUM", "name": "Species"}}}, "defaultValue": "[DOG]"}
				]}
			]}}`,
			IDL: schemaPrefix + "\ninput F {\n  name: String\n  species: [Species!] = [DOG]\n}\n",
		},
		{
			Name: "DIRECTIVE",
			JSON: `{"__schema": {"queryType": {"name": "Query"}, "directives": [
				{"name": "cached", "locations": ["FIELD_DEFINITION", "OBJECT"], "args": [{"name": "ttl", "type": {"kind": "SCALAR", "name": "Int"}, "defaultValue": "60"}]}
			], "types": []}}`,
			IDL: schemaPrefix + "\ndirective @cached(ttl: Int = 60) on FIELD_DEFINITION | OBJECT\n",
		},
		{
			Name: "RootTypes",
			JSON: `{"__schema": {"queryType": {"name": "Q"}, "mutationType": {"name": "M"}, "subscriptionType": null, "directives": [], "types": []}}`,
			IDL:  "schema {\n  query: Q\n  mutation: M\n}\n",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(subT *testing.T) {
			res, err := Unmarshal([]byte(testCase.JSON))
			require.NoError(subT, err)

			var b bytes.Buffer
			require.NoError(subT, WriteIDL(&b, res.Schema))
			assert.Equal(subT, testCase.IDL, b.String())
		})
	}
}

func TestWriteIDL_Errors(t *testing.T) {
	testCases := []struct {
		Name   string
		Schema *Schema
	}{
		{Name: "NilSchema"},
		{Name: "NoQueryType", Schema: &Schema{}},
		{Name: "UnknownKind", Schema: &Schema{
			QueryType: &TypeName{Name: "Query"},
			Types:     []*Type{{Kind: "BOGUS", Name: "X"}},
		}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(subT *testing.T) {
			var b bytes.Buffer
			assert.Error(subT, WriteIDL(&b, testCase.Schema))
		})
	}
}

func TestWriteDescr(t *testing.T) {
	var b bytes.Buffer
	writeDescr(&b, `Say """hi" to "me"`, "")

	assert.Equal(t, "\"\"\"Say \\\"\"\"hi\" to \"me\"\n\"\"\"\n", b.String())
}
