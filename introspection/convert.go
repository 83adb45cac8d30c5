// convert.go contains a converter from JSON introspection results to IDL.

package introspection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

var (
	preludeOnce       sync.Once
	preludeTypes      map[string]bool
	preludeDirectives map[string]bool
)

// loadPrelude collects the type and directive names gqlparser declares
// itself. Redeclaring them in the converted IDL is a schema error.
func loadPrelude() {
	preludeTypes = make(map[string]bool)
	preludeDirectives = make(map[string]bool)

	doc, err := parser.ParseSchema(validator.Prelude)
	if err != nil {
		panic(fmt.Errorf("introspection: unable to parse prelude: %w", err))
	}
	for _, def := range doc.Definitions {
		preludeTypes[def.Name] = true
	}
	for _, dir := range doc.Directives {
		preludeDirectives[dir.Name] = true
	}
}

func isBuiltinType(name string) bool {
	preludeOnce.Do(loadPrelude)
	return strings.HasPrefix(name, "__") || preludeTypes[name]
}

func isBuiltinDirective(name string) bool {
	preludeOnce.Do(loadPrelude)
	return preludeDirectives[name]
}

// WriteIDL writes s as GraphQL schema definition language to w.
// Introspection and builtin types and directives are skipped.
//
func WriteIDL(w io.Writer, s *Schema) error {
	if s == nil {
		return fmt.Errorf("introspection: missing __schema")
	}
	if s.QueryType == nil || s.QueryType.Name == "" {
		return fmt.Errorf("introspection: schema has no query type")
	}

	var b bytes.Buffer
	writeSchemaDef(&b, s)

	for _, d := range s.Directives {
		if isBuiltinDirective(d.Name) {
			continue
		}
		b.WriteByte('\n')
		writeDirective(&b, d)
		b.WriteByte('\n')
	}

	for _, t := range s.Types {
		if isBuiltinType(t.Name) {
			continue
		}
		b.WriteByte('\n')
		if err := writeTyp(&b, t); err != nil {
			return err
		}
		b.WriteByte('\n')
	}

	_, err := b.WriteTo(w)
	return err
}

func writeSchemaDef(b *bytes.Buffer, s *Schema) {
	b.WriteString("schema {\n  query: ")
	b.WriteString(s.QueryType.Name)
	if s.MutationType != nil && s.MutationType.Name != "" {
		b.WriteString("\n  mutation: ")
		b.WriteString(s.MutationType.Name)
	}
	if s.SubscriptionType != nil && s.SubscriptionType.Name != "" {
		b.WriteString("\n  subscription: ")
		b.WriteString(s.SubscriptionType.Name)
	}
	b.WriteString("\n}\n")
}

func writeDirective(b *bytes.Buffer, d *Directive) {
	writeDescr(b, d.Description, "")
	b.WriteString("directive @")
	b.WriteString(d.Name)

	if len(d.Args) > 0 {
		b.WriteByte('(')
		writeArgs(b, d.Args, ", ")
		b.WriteByte(')')
	}

	if d.IsRepeatable {
		b.WriteString(" repeatable")
	}
	b.WriteString(" on ")
	b.WriteString(strings.Join(d.Locations, " | "))
}

func writeTyp(b *bytes.Buffer, t *Type) error {
	writeDescr(b, t.Description, "")

	switch t.Kind {
	case scalarKind:
		b.WriteString("scalar ")
		b.WriteString(t.Name)
	case objectKind:
		b.WriteString("type ")
		b.WriteString(t.Name)
		writeImplements(b, t.Interfaces)
		writeFields(b, t.Fields)
	case interfaceKind:
		b.WriteString("interface ")
		b.WriteString(t.Name)
		writeImplements(b, t.Interfaces)
		writeFields(b, t.Fields)
	case unionKind:
		b.WriteString("union ")
		b.WriteString(t.Name)
		if len(t.PossibleTypes) == 0 {
			break
		}
		b.WriteString(" = ")

		l := len(t.PossibleTypes) - 1
		for i, m := range t.PossibleTypes {
			b.WriteString(m.Name)
			if i != l {
				b.WriteString(" | ")
			}
		}
	case enumKind:
		b.WriteString("enum ")
		b.WriteString(t.Name)
		if len(t.EnumValues) == 0 {
			break
		}
		b.WriteString(" {\n")
		for _, v := range t.EnumValues {
			writeDescr(b, v.Description, "  ")
			b.WriteString("  ")
			b.WriteString(v.Name)
			writeDeprecated(b, v.IsDeprecated, v.DeprecationReason)
			b.WriteByte('\n')
		}
		b.WriteByte('}')
	case inputObjectKind:
		b.WriteString("input ")
		b.WriteString(t.Name)
		if len(t.InputFields) == 0 {
			break
		}
		b.WriteString(" {\n")
		for _, f := range t.InputFields {
			writeDescr(b, f.Description, "  ")
			b.WriteString("  ")
			writeArg(b, f)
			b.WriteByte('\n')
		}
		b.WriteByte('}')
	default:
		return fmt.Errorf("introspection: type %s has unknown kind %q", t.Name, t.Kind)
	}
	return nil
}

func writeImplements(b *bytes.Buffer, interfaces []*Type) {
	if len(interfaces) == 0 {
		return
	}
	b.WriteString(" implements ")

	l := len(interfaces) - 1
	for i, it := range interfaces {
		b.WriteString(it.Name)
		if i != l {
			b.WriteString(" & ")
		}
	}
}

func writeFields(b *bytes.Buffer, fields []*Field) {
	if len(fields) == 0 {
		return
	}
	b.WriteString(" {\n")
	for _, f := range fields {
		writeField(b, f)
		b.WriteByte('\n')
	}
	b.WriteByte('}')
}

func writeField(b *bytes.Buffer, f *Field) {
	writeDescr(b, f.Description, "  ")
	b.WriteString("  ")
	b.WriteString(f.Name)

	if len(f.Args) > 0 {
		b.WriteByte('(')
		writeArgs(b, f.Args, ", ")
		b.WriteByte(')')
	}
	b.WriteString(": ")

	writeTypSig(b, f.Type)
	writeDeprecated(b, f.IsDeprecated, f.DeprecationReason)
}

func writeArgs(b *bytes.Buffer, args []*InputValue, sep string) {
	l := len(args) - 1
	for i, a := range args {
		writeArg(b, a)
		if i != l {
			b.WriteString(sep)
		}
	}
}

// writeArg writes a. Default values are GraphQL literals already.
func writeArg(b *bytes.Buffer, a *InputValue) {
	b.WriteString(a.Name)
	b.WriteString(": ")
	writeTypSig(b, a.Type)

	if a.DefaultValue != nil {
		b.WriteString(" = ")
		b.WriteString(*a.DefaultValue)
	}
}

func writeDeprecated(b *bytes.Buffer, deprecated bool, reason string) {
	if !deprecated {
		return
	}
	b.WriteString(" @deprecated")
	if reason == "" {
		return
	}

	// JSON string escapes are valid GraphQL string escapes.
	q, _ := json.Marshal(reason)
	b.WriteString("(reason: ")
	b.Write(q)
	b.WriteByte(')')
}

// writeDescr writes descr as a block string.
func writeDescr(b *bytes.Buffer, descr, indent string) {
	if descr == "" {
		return
	}
	b.WriteString(indent)
	b.WriteString(`"""`)
	b.WriteString(strings.ReplaceAll(descr, `"""`, `\"""`))
	if strings.HasSuffix(descr, `"`) {
		b.WriteByte('\n')
	}
	b.WriteString(`"""`)
	b.WriteByte('\n')
}

func writeTypSig(b *bytes.Buffer, t *Type) {
	switch t.Kind {
	case nonNullKind:
		writeTypSig(b, t.OfType)
		b.WriteByte('!')
	case listKind:
		b.WriteByte('[')
		writeTypSig(b, t.OfType)
		b.WriteByte(']')
	default:
		b.WriteString(t.Name)
	}
}
