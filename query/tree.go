// Package query validates GraphQL query documents and builds the selection
// tree that code generators walk.
package query

import (
	"errors"
	"strings"
)

// Kind is the variant of a selection tree Node.
type Kind uint8

// Node kinds.
const (
	Root Kind = iota
	Operation
	Class
	InlineFragment
)

func (k Kind) String() string {
	switch k {
	case Root:
		return "Root"
	case Operation:
		return "Operation"
	case Class:
		return "Class"
	case InlineFragment:
		return "InlineFragment"
	}
	return "Kind(?)"
}

// ExprKind is the variant of a TypeExpr.
type ExprKind uint8

// Type expression kinds.
const (
	NameExpr ExprKind = iota
	OptionalExpr
	ListExpr
	UnionExpr
)

// TypeExpr is a target language type expression: a name, possibly
// wrapped in optional and list layers, or a union of expressions.
type TypeExpr struct {
	Kind    ExprKind
	Name    string
	Elem    *TypeExpr
	Members []*TypeExpr
}

// Name returns a name expression.
func Name(name string) *TypeExpr { return &TypeExpr{Kind: NameExpr, Name: name} }

// Optional wraps elem in an optional layer.
func Optional(elem *TypeExpr) *TypeExpr { return &TypeExpr{Kind: OptionalExpr, Elem: elem} }

// List wraps elem in a list layer.
func List(elem *TypeExpr) *TypeExpr { return &TypeExpr{Kind: ListExpr, Elem: elem} }

// Union returns a union of members, tried in order.
func Union(members ...*TypeExpr) *TypeExpr { return &TypeExpr{Kind: UnionExpr, Members: members} }

// String renders e, e.g. Optional[list[Union[Dog, Pet]]].
func (e *TypeExpr) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *TypeExpr) write(b *strings.Builder) {
	switch e.Kind {
	case NameExpr:
		b.WriteString(e.Name)
	case OptionalExpr:
		b.WriteString("Optional[")
		e.Elem.write(b)
		b.WriteByte(']')
	case ListExpr:
		b.WriteString("list[")
		e.Elem.write(b)
		b.WriteByte(']')
	case UnionExpr:
		b.WriteString("Union[")
		for i, m := range e.Members {
			if i > 0 {
				b.WriteString(", ")
			}
			m.write(b)
		}
		b.WriteByte(']')
	}
}

// ErrNoSubstitution is returned by Substitute when e has no matching name leaf.
var ErrNoSubstitution = errors.New("type expression does not contain name")

// Substitute returns a copy of e where every name leaf equal to name is
// replaced by repl. e itself is never modified.
//
func (e *TypeExpr) Substitute(name string, repl *TypeExpr) (*TypeExpr, error) {
	out, n := e.substitute(name, repl)
	if n == 0 {
		return nil, ErrNoSubstitution
	}
	return out, nil
}

func (e *TypeExpr) substitute(name string, repl *TypeExpr) (*TypeExpr, int) {
	switch e.Kind {
	case NameExpr:
		if e.Name == name {
			return repl, 1
		}
		return e, 0
	case OptionalExpr, ListExpr:
		elem, n := e.Elem.substitute(name, repl)
		return &TypeExpr{Kind: e.Kind, Elem: elem}, n
	case UnionExpr:
		total := 0
		members := make([]*TypeExpr, len(e.Members))
		for i, m := range e.Members {
			var n int
			members[i], n = m.substitute(name, repl)
			total += n
		}
		return &TypeExpr{Kind: UnionExpr, Members: members}, total
	}
	return e, 0
}

// FieldType is the resolved type of a selection.
type FieldType struct {
	// Unwrapped is the bare class or primitive name.
	Unwrapped string

	// Wrapped is the fully wrapped type. Its name leaf is Unwrapped.
	Wrapped *TypeExpr

	// IsPrimitive reports whether the innermost type is a leaf type.
	IsPrimitive bool
}

// Node is a single selection in the tree.
type Node struct {
	Kind Kind

	// Parent is the index of the parent node, -1 for the root.
	Parent int

	// Fields holds the child indices in selection order.
	Fields []int

	// Type is empty for the root.
	Type FieldType

	// PyKey and GQLKey are only set for Class nodes. PyKey is the
	// target language identifier, GQLKey the key in the response.
	PyKey  string
	GQLKey string
}

// Tree is a selection tree. Nodes are stored in an arena and reference
// each other by index; index 0 is the root.
//
type Tree struct {
	Nodes []Node
}

// RootIndex is the index of the root node.
const RootIndex = 0

// NewTree returns a tree with an empty root node.
func NewTree() *Tree {
	return &Tree{Nodes: []Node{{Kind: Root, Parent: -1}}}
}

// Node returns the node at index i.
func (t *Tree) Node(i int) *Node { return &t.Nodes[i] }

// Add appends n as the last child of parent and returns its index.
func (t *Tree) Add(parent int, n Node) int {
	n.Parent = parent
	t.Nodes = append(t.Nodes, n)
	i := len(t.Nodes) - 1
	t.Nodes[parent].Fields = append(t.Nodes[parent].Fields, i)
	return i
}

// Children returns the children of node i that are of kind k.
func (t *Tree) Children(i int, k Kind) []int {
	var out []int
	for _, c := range t.Nodes[i].Fields {
		if t.Nodes[c].Kind == k {
			out = append(out, c)
		}
	}
	return out
}
