package pydantic

import (
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/vektah/gqlparser/v2/ast"
)

var primitives = map[string]string{
	"ID":       "str",
	"String":   "str",
	"Int":      "int",
	"Float":    "float",
	"Boolean":  "bool",
	"DateTime": "str",
	"JSON":     "Json",
}

var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// imported are the names the generated module imports.
var imported = []string{"Optional", "Union", "BaseModel", "Extra", "Field", "Json"}

// Names maps GraphQL names onto Python ones.
type Names struct{}

// Primitive maps scalars through the primitive table. Enums and
// unknown custom scalars become str.
func (Names) Primitive(def *ast.Definition) string {
	if def.Kind == ast.Scalar {
		if py, ok := primitives[def.Name]; ok {
			return py
		}
	}
	return "str"
}

// Reserved returns the imported names, so no class shadows an import.
func (Names) Reserved() []string { return imported }

// ClassName returns the PascalCase form of the type name, e.g. Cluster_v1
// becomes ClusterV1.
func (Names) ClassName(def *ast.Definition) string {
	return strcase.ToCamel(def.Name)
}

// FieldName returns the snake_case form of key. Words are split at case
// changes only, so digits stay attached: clusters_v1 is kept as is,
// firstName becomes first_name and rawJSONData raw_json_data. Python
// keywords get a trailing underscore.
//
func (Names) FieldName(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 2)
	for i := 0; i < len(key); i++ {
		c := key[i]
		if isUpper(c) {
			if i > 0 && (isLowerOrDigit(key[i-1]) || isUpper(key[i-1]) && i+1 < len(key) && isLower(key[i+1])) {
				b.WriteByte('_')
			}
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}

	name := b.String()
	if keywords[name] {
		name += "_"
	}
	return name
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

func isLowerOrDigit(c byte) bool { return isLower(c) || c >= '0' && c <= '9' }
