// Package unwrap strips the list and non-null wrappers off GraphQL output types.
package unwrap

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// WrapperType is a single unwrap step.
type WrapperType uint8

const (
	// List marks a list wrapper.
	List WrapperType = iota + 1

	// Optional marks the absence of a non-null wrapper.
	Optional
)

func (w WrapperType) String() string {
	switch w {
	case List:
		return "List"
	case Optional:
		return "Optional"
	}
	return "WrapperType(?)"
}

// Result is the outcome of unwrapping a type.
type Result struct {
	// WrapperStack lists the removed wrappers, outermost first.
	WrapperStack []WrapperType

	// Name is the innermost named type.
	Name string

	// Inner is the schema definition of Name, nil if the schema does not define it.
	Inner *ast.Definition

	// IsPrimitive reports whether Inner is a leaf (scalar or enum) type.
	IsPrimitive bool
}

// Unwrap strips every wrapper off t. A type without a non-null wrapper
// records Optional; each list records List followed by the wrappers of
// its element type.
//
func Unwrap(schema *ast.Schema, t *ast.Type) Result {
	var res Result
	for {
		if !t.NonNull {
			res.WrapperStack = append(res.WrapperStack, Optional)
		}
		if t.Elem == nil {
			break
		}
		res.WrapperStack = append(res.WrapperStack, List)
		t = t.Elem
	}

	res.Name = t.NamedType
	if schema != nil {
		res.Inner = schema.Types[t.NamedType]
	}
	res.IsPrimitive = IsPrimitive(res.Inner)
	return res
}

// IsPrimitive reports whether def is a leaf type.
func IsPrimitive(def *ast.Definition) bool {
	return def != nil && def.IsLeafType()
}

// Rewrap applies stack, innermost-out, to the named type name.
// Rewrap(Unwrap(s, t).WrapperStack, name) reproduces t.
//
func Rewrap(stack []WrapperType, name string) *ast.Type {
	t := &ast.Type{NamedType: name, NonNull: true}
	for i := len(stack) - 1; i >= 0; i-- {
		switch stack[i] {
		case Optional:
			t.NonNull = false
		case List:
			t = &ast.Type{Elem: t, NonNull: true}
		}
	}
	return t
}
