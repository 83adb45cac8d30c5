package introspection

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// idlSourceName names the generated IDL in schema error positions.
const idlSourceName = "introspection.graphql"

// Result is a decoded introspection result, i.e. the value of the
// "data" key of an introspection query response.
//
// The schema built from it is memoized, so a single Result can be shared
// by any number of concurrent generations.
type Result struct {
	Schema *Schema `json:"__schema"`

	// Raw holds the undecoded data object, so it can be handed to
	// external plugins unchanged.
	Raw json.RawMessage `json:"-"`

	once   sync.Once
	schema *ast.Schema
	err    error
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

// Decode reads an introspection document from r. Both a full response,
// {"data": {"__schema": ...}}, and a bare data object are accepted.
//
func Decode(r io.Reader) (*Result, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(b)
}

// Unmarshal is like Decode for an in-memory document.
func Unmarshal(b []byte) (*Result, error) {
	var resp response
	if err := json.Unmarshal(b, &resp); err != nil {
		return nil, fmt.Errorf("introspection: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("introspection: response contains errors: %s", resp.Errors[0].Message)
	}

	data := []byte(resp.Data)
	if len(resp.Data) == 0 || bytes.Equal(resp.Data, []byte("null")) {
		data = b
	}

	res := new(Result)
	if err := json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("introspection: %w", err)
	}
	if res.Schema == nil {
		return nil, errors.New("introspection: document has no __schema")
	}
	res.Raw = append(json.RawMessage(nil), data...)
	return res, nil
}

// IDL returns the schema as GraphQL schema definition language.
func (r *Result) IDL() (string, error) {
	var b bytes.Buffer
	err := WriteIDL(&b, r.Schema)
	return b.String(), err
}

// Build returns the queryable schema described by r. The schema is
// built once and must be treated as read-only.
//
func (r *Result) Build() (*ast.Schema, error) {
	r.once.Do(func() {
		idl, err := r.IDL()
		if err != nil {
			r.err = err
			return
		}

		r.schema, err = gqlparser.LoadSchema(&ast.Source{Name: idlSourceName, Input: idl})
		if err != nil {
			r.err = fmt.Errorf("introspection: invalid schema: %w", err)
		}
	})
	return r.schema, r.err
}
