// Package introspection loads GraphQL introspection results and builds
// schemas from them.
package introspection

// Kinds of the __Type introspection type.
const (
	scalarKind      = "SCALAR"
	objectKind      = "OBJECT"
	interfaceKind   = "INTERFACE"
	unionKind       = "UNION"
	enumKind        = "ENUM"
	inputObjectKind = "INPUT_OBJECT"
	listKind        = "LIST"
	nonNullKind     = "NON_NULL"
)

// InputValue is an argument or input object field.
type InputValue struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	DefaultValue *string `json:"defaultValue,omitempty"`
	Type         *Type   `json:"type"`
}

// Field is a field of an object or interface type.
type Field struct {
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	Args              []*InputValue `json:"args"`
	Type              *Type         `json:"type"`
	IsDeprecated      bool          `json:"isDeprecated"`
	DeprecationReason string        `json:"deprecationReason,omitempty"`
}

// EnumValue is a single value of an enum type.
type EnumValue struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	IsDeprecated      bool   `json:"isDeprecated"`
	DeprecationReason string `json:"deprecationReason,omitempty"`
}

// Type is either a full type definition or, inside a type
// reference, a wrapper (LIST/NON_NULL) with OfType set.
type Type struct {
	Kind          string        `json:"kind"`
	Name          string        `json:"name,omitempty"`
	Description   string        `json:"description,omitempty"`
	OfType        *Type         `json:"ofType,omitempty"`
	Fields        []*Field      `json:"fields,omitempty"`
	Interfaces    []*Type       `json:"interfaces,omitempty"`
	PossibleTypes []*Type       `json:"possibleTypes,omitempty"`
	EnumValues    []*EnumValue  `json:"enumValues,omitempty"`
	InputFields   []*InputValue `json:"inputFields,omitempty"`
}

// Directive is a directive definition.
type Directive struct {
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Locations    []string      `json:"locations"`
	IsRepeatable bool          `json:"isRepeatable,omitempty"`
	Args         []*InputValue `json:"args"`
}

// TypeName references a root operation type.
type TypeName struct {
	Name string `json:"name"`
}

// Schema is the value of the __schema introspection field.
type Schema struct {
	QueryType        *TypeName    `json:"queryType"`
	MutationType     *TypeName    `json:"mutationType,omitempty"`
	SubscriptionType *TypeName    `json:"subscriptionType,omitempty"`
	Types            []*Type      `json:"types"`
	Directives       []*Directive `json:"directives"`
}
