package query

import (
	"fmt"

	"github.com/qenerate/qenerate/gen"
	"github.com/qenerate/qenerate/unwrap"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/zap"
)

// typenameField is the meta field every composite type has, typed String!.
const typenameField = "__typename"

// item is a pending selection together with the node it belongs to.
type item struct {
	parent int
	op     *ast.OperationDefinition
	sel    ast.Selection
}

type builder struct {
	schema *ast.Schema
	mapper Mapper
	tree   *Tree

	// seen holds every class name handed out so far.
	seen map[string]bool

	log *zap.Logger
}

// build walks doc depth first in document order. Pending selections are
// kept on an explicit stack, children pushed in reverse so they pop in order.
//
func (b *builder) build(doc *ast.QueryDocument) error {
	stack := make([]item, 0, len(doc.Operations))
	for i := len(doc.Operations) - 1; i >= 0; i-- {
		stack = append(stack, item{parent: RootIndex, op: doc.Operations[i]})
	}
	if len(doc.Fragments) > 0 {
		b.log.Warn("named fragment definitions are not supported, skipping", zap.Int("count", len(doc.Fragments)))
	}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var (
			idx int
			set ast.SelectionSet
			err error
		)
		switch {
		case it.op != nil:
			idx, err = b.operation(it.op)
			set = it.op.SelectionSet
		default:
			switch sel := it.sel.(type) {
			case *ast.Field:
				idx, err = b.field(it.parent, sel)
				set = sel.SelectionSet
			case *ast.InlineFragment:
				idx, err = b.inlineFragment(it.parent, sel)
				set = sel.SelectionSet
			case *ast.FragmentSpread:
				b.log.Warn("fragment spreads are not supported, skipping", zap.String("fragment", sel.Name))
				continue
			}
		}
		if err != nil {
			return err
		}

		for i := len(set) - 1; i >= 0; i-- {
			stack = append(stack, item{parent: idx, sel: set[i]})
		}
	}
	return nil
}

func (b *builder) operation(op *ast.OperationDefinition) (int, error) {
	if op.Name == "" {
		return 0, fmt.Errorf("query: %s operation at line %d: %w", op.Operation, line(op.Position), gen.ErrAnonymousQuery)
	}

	b.log.Debug("operation", zap.String("name", op.Name))
	return b.tree.Add(RootIndex, Node{
		Kind: Operation,
		Type: FieldType{
			Unwrapped: op.Name,
			Wrapped:   Optional(List(Name(op.Name))),
		},
	}), nil
}

func (b *builder) field(parent int, f *ast.Field) (int, error) {
	if f.Definition == nil || f.Definition.Type == nil {
		return 0, fmt.Errorf("query: field %q at line %d: %w", f.Name, line(f.Position), gen.ErrUnresolvedType)
	}

	t := f.Definition.Type
	if f.Name == typenameField {
		// gqlparser declares the meta field nullable.
		t = ast.NonNullNamedType("String", nil)
	}

	typ, err := b.resolve(parent, t)
	if err != nil {
		return 0, fmt.Errorf("query: field %q at line %d: %w", f.Name, line(f.Position), err)
	}

	key := f.Alias
	if key == "" {
		key = f.Name
	}
	return b.tree.Add(parent, Node{
		Kind:   Class,
		Type:   typ,
		PyKey:  b.mapper.FieldName(key),
		GQLKey: key,
	}), nil
}

func (b *builder) inlineFragment(parent int, frag *ast.InlineFragment) (int, error) {
	def := frag.ObjectDefinition
	if frag.TypeCondition != "" {
		def = b.schema.Types[frag.TypeCondition]
	}
	if def == nil {
		return 0, fmt.Errorf("query: inline fragment at line %d: %w", line(frag.Position), gen.ErrUnresolvedType)
	}

	typ, err := b.resolve(parent, ast.NamedType(def.Name, nil))
	if err != nil {
		return 0, fmt.Errorf("query: inline fragment on %s at line %d: %w", def.Name, line(frag.Position), err)
	}
	return b.tree.Add(parent, Node{Kind: InlineFragment, Type: typ}), nil
}

// resolve unwraps t, names its innermost type and rebuilds the wrapping
// around that name.
func (b *builder) resolve(parent int, t *ast.Type) (FieldType, error) {
	res := unwrap.Unwrap(b.schema, t)
	if res.Inner == nil {
		return FieldType{}, gen.ErrUnresolvedType
	}

	var name string
	if res.IsPrimitive {
		name = b.mapper.Primitive(res.Inner)
	} else {
		name = b.className(parent, b.mapper.ClassName(res.Inner))
	}

	expr := Name(name)
	for i := len(res.WrapperStack) - 1; i >= 0; i-- {
		switch res.WrapperStack[i] {
		case unwrap.List:
			expr = List(expr)
		case unwrap.Optional:
			expr = Optional(expr)
		}
	}

	return FieldType{
		Unwrapped:   name,
		Wrapped:     expr,
		IsPrimitive: res.IsPrimitive,
	}, nil
}

// className returns a name no earlier class in the tree uses. Collisions
// are resolved by prefixing the unwrapped names of the enclosing nodes,
// nearest first, and as a last resort a numeric suffix.
//
func (b *builder) className(parent int, name string) string {
	for cur := parent; b.seen[name] && b.tree.Nodes[cur].Kind != Root; cur = b.tree.Nodes[cur].Parent {
		name = b.tree.Nodes[cur].Type.Unwrapped + "_" + name
	}

	if b.seen[name] {
		base := name
		for i := 2; b.seen[name]; i++ {
			name = fmt.Sprintf("%s%d", base, i)
		}
	}

	b.seen[name] = true
	return name
}

func line(pos *ast.Position) int {
	if pos == nil {
		return 0
	}
	return pos.Line
}
