package query

import (
	"github.com/qenerate/qenerate/gen"
	_ "github.com/vektah/gqlparser/v2" // registers the standard validation rules
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
	"go.uber.org/zap"
)

// Mapper maps GraphQL names onto target language names.
type Mapper interface {
	// Primitive returns the target type for a scalar or enum definition.
	Primitive(def *ast.Definition) string

	// ClassName returns the canonical class name for a composite type.
	// Collisions are resolved by the builder.
	ClassName(def *ast.Definition) string

	// FieldName returns the target identifier for a response key.
	FieldName(key string) string

	// Reserved returns names classes must not be declared under, e.g.
	// names imported by the generated module. A type mapping onto one of
	// them is renamed like any other collision.
	Reserved() []string
}

// Parse parses, validates and builds the selection tree of a query document.
//
// A document consisting of a single unnamed operation yields
// gen.ErrAnonymousQuery. Validation failures yield a *gen.InvalidQueryError.
// Syntax errors are returned as reported by the parser.
//
func Parse(src *ast.Source, schema *ast.Schema, mapper Mapper) (*Tree, error) {
	doc, err := parser.ParseQuery(src)
	if err != nil {
		return nil, err
	}

	if len(doc.Operations) == 1 && doc.Operations[0].Name == "" {
		return nil, gen.ErrAnonymousQuery
	}

	if errs := validator.Validate(schema, doc); len(errs) > 0 {
		return nil, &gen.InvalidQueryError{Errors: errs}
	}

	b := &builder{
		schema: schema,
		mapper: mapper,
		tree:   NewTree(),
		seen:   make(map[string]bool),
		log:    zap.L().Named("query").With(zap.String("source", src.Name)),
	}
	for _, name := range mapper.Reserved() {
		b.seen[name] = true
	}
	if berr := b.build(doc); berr != nil {
		return nil, berr
	}
	return b.tree, nil
}
