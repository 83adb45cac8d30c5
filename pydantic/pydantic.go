// Package pydantic contains a Python generator emitting pydantic v1
// models for GraphQL queries.
package pydantic

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/qenerate/qenerate/gen"
	"github.com/qenerate/qenerate/introspection"
	"github.com/qenerate/qenerate/query"
	"github.com/vektah/gqlparser/v2/ast"
)

// Name is the plugin name the generator registers under.
const Name = gen.DefaultPlugin

const (
	header = `"""
THIS IS AN AUTO-GENERATED FILE. DO NOT MODIFY MANUALLY!
"""`
	typingImports   = "from typing import Optional, Union  # noqa: F401 # pylint: disable=W0611"
	pydanticImports = "from pydantic import BaseModel, Extra, Field, Json  # noqa: F401  # pylint: disable=W0611"
)

var indent = []byte("    ")

// Generator generates pydantic models for a query.
type Generator struct {
	sync.Mutex
	bytes.Buffer

	indent []byte
	tree   *query.Tree
}

// Reset overrides the bytes.Buffer Reset method to assist in cleaning up some Generator state.
func (g *Generator) Reset() {
	g.Buffer.Reset()
	if g.indent == nil {
		g.indent = make([]byte, 0, 2*len(indent))
	}
	g.indent = g.indent[0:0]
	g.tree = nil
}

// Generate implements gen.Plugin. The query file name is taken from ctx,
// see gen.WithFile.
func (g *Generator) Generate(ctx context.Context, q string, raw *introspection.Result) (string, error) {
	schema, err := raw.Build()
	if err != nil {
		return "", err
	}

	name := gen.File(ctx)
	if name == "" {
		name = "query.gql"
	}

	tree, err := query.Parse(&ast.Source{Name: name, Input: q}, schema, Names{})
	if err != nil {
		return "", err
	}
	return g.Render(tree)
}

// Render renders tree as a Python module.
func (g *Generator) Render(tree *query.Tree) (string, error) {
	g.Lock()
	defer g.Unlock()
	g.Reset()
	g.tree = tree

	g.P(header)
	g.P(typingImports)
	g.P()
	g.P(pydanticImports)

	if err := g.traverse(query.RootIndex); err != nil {
		return "", err
	}
	return g.String(), nil
}

// traverse emits plain children first, then i itself and finally its
// inline fragments. Nested classes are thereby declared before use and
// fragment subclasses after their base class.
//
func (g *Generator) traverse(i int) error {
	n := g.tree.Node(i)
	for _, c := range n.Fields {
		if g.tree.Node(c).Kind == query.InlineFragment {
			continue
		}
		if err := g.traverse(c); err != nil {
			return err
		}
	}

	if err := g.declare(i); err != nil {
		return err
	}

	for _, c := range g.tree.Children(i, query.InlineFragment) {
		if err := g.traverse(c); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) declare(i int) error {
	n := g.tree.Node(i)

	var base string
	switch n.Kind {
	case query.Root:
		return nil
	case query.Operation:
		base = "BaseModel"
	case query.Class:
		if n.Type.IsPrimitive {
			return nil
		}
		base = "BaseModel"
	case query.InlineFragment:
		if n.Type.IsPrimitive || n.Parent < 0 {
			return nil
		}
		base = g.className(n.Parent)
	default:
		return fmt.Errorf("pydantic: unknown node kind: %s", n.Kind)
	}

	g.P()
	g.P()
	g.P("class ", g.className(i), "(", base, "):")
	g.In()
	for _, c := range g.tree.Children(i, query.Class) {
		field := g.tree.Node(c)
		typ, err := g.fieldType(c)
		if err != nil {
			return fmt.Errorf("pydantic: field %s: %w", field.GQLKey, err)
		}
		g.P(field.PyKey, ": ", typ, ` = Field(..., alias="`, field.GQLKey, `")`)
	}
	g.P()
	g.P("class Config:")
	g.In()
	g.P("smart_union = True")
	g.P("extra = Extra.forbid")
	g.Out()
	g.Out()
	return nil
}

// className is the name node i is declared under.
func (g *Generator) className(i int) string {
	n := g.tree.Node(i)
	if n.Kind == query.Operation {
		return n.Type.Unwrapped + "Query"
	}
	return n.Type.Unwrapped
}

// fieldType renders the type of field i. A field with inline fragments
// becomes a union of the fragment classes, those selecting the most
// fields first, followed by its own class as the fallback.
//
func (g *Generator) fieldType(i int) (string, error) {
	n := g.tree.Node(i)

	frags := g.tree.Children(i, query.InlineFragment)
	if len(frags) == 0 {
		return n.Type.Wrapped.String(), nil
	}

	sort.SliceStable(frags, func(a, b int) bool {
		return len(g.tree.Node(frags[a]).Fields) > len(g.tree.Node(frags[b]).Fields)
	})

	members := make([]*query.TypeExpr, 0, len(frags)+1)
	for _, f := range frags {
		members = append(members, query.Name(g.tree.Node(f).Type.Unwrapped))
	}
	members = append(members, query.Name(n.Type.Unwrapped))

	union, err := n.Type.Wrapped.Substitute(n.Type.Unwrapped, query.Union(members...))
	if err != nil {
		return "", err
	}
	return union.String(), nil
}

// P prints the arguments to the generated output, indented. Blank lines
// carry no indentation.
func (g *Generator) P(str ...interface{}) {
	if len(str) > 0 {
		g.Write(g.indent)
	}
	for _, s := range str {
		switch v := s.(type) {
		case []byte:
			g.Write(v)
		case byte:
			g.WriteByte(v)
		case rune:
			g.WriteRune(v)
		case string:
			g.WriteString(v)
		case fmt.Stringer:
			g.WriteString(v.String())
		case int:
			fmt.Fprint(g, v)
		}
	}
	g.WriteByte('\n')
}

// In increases the indent.
func (g *Generator) In() {
	g.indent = append(g.indent, indent...)
}

// Out decreases the indent.
func (g *Generator) Out() {
	if len(g.indent) >= len(indent) {
		g.indent = g.indent[:len(g.indent)-len(indent)]
	}
}
