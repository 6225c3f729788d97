package schema

import (
	"pdu-generator/internal/common"
	"pdu-generator/primitive"
)

// Model is a whole protocol description. Class order is declaration order.
type Model struct {
	Version string
	Classes []*GeneratedClass
}

// GeneratedClass is one message type.
type GeneratedClass struct {
	Name string
	// Parent names the parent type, or "root" / empty for none.
	Parent        string
	Comment       string
	Attributes    []*ClassAttribute
	InitialValues []*InitialValue

	// Set by the resolver.
	ParentClass *GeneratedClass
}

// ClassAttribute is one field of a message type.
type ClassAttribute struct {
	Name string
	Kind AttributeKind
	// Type is the primitive name or class name, or the element type for lists.
	Type    string
	Default *string
	Comment string

	ShouldSerialize          bool
	IsDynamicListLengthField bool
	// Counts names the variable list this count field sizes.
	Counts string
	// CountFieldName names the count field of a variable list.
	CountFieldName string
	CouldBeString  bool

	// Set by the resolver.
	Owner       *GeneratedClass
	Primitive   *primitive.Type
	Class       *GeneratedClass
	CountField  *ClassAttribute
	CountedList *ClassAttribute
}

// InitialValue is a (setter, literal) pair applied after defaults at
// construction.
type InitialValue struct {
	Setter string
	Value  string

	// Set by the resolver.
	Target *ClassAttribute
}

// Class returns the first class declared with name.
func (m *Model) Class(name string) *GeneratedClass {
	for _, c := range m.Classes {
		if c.Name == name {
			return c
		}
	}

	return nil
}

// ClassNames returns class names in declaration order.
func (m *Model) ClassNames() []string {
	names := make([]string, 0, len(m.Classes))
	for _, c := range m.Classes {
		names = append(names, c.Name)
	}

	return names
}

// HasParent reports whether the class extends another message type.
func (c *GeneratedClass) HasParent() bool {
	return !common.IsRoot(c.Parent)
}

// Attribute returns the class's own attribute called name.
func (c *GeneratedClass) Attribute(name string) *ClassAttribute {
	for _, a := range c.Attributes {
		if a.Name == name {
			return a
		}
	}

	return nil
}

// LookupAttribute searches the class and then its resolved ancestors.
func (c *GeneratedClass) LookupAttribute(name string) (*ClassAttribute, *GeneratedClass) {
	seen := map[*GeneratedClass]bool{}
	for cur := c; cur != nil && !seen[cur]; cur = cur.ParentClass {
		seen[cur] = true

		if a := cur.Attribute(name); a != nil {
			return a, cur
		}
	}

	return nil, nil
}

// Ancestors returns the resolved parent chain, nearest first. A cyclic
// chain is cut at the first repeat.
func (c *GeneratedClass) Ancestors() []*GeneratedClass {
	var out []*GeneratedClass

	seen := map[*GeneratedClass]bool{c: true}
	for p := c.ParentClass; p != nil && !seen[p]; p = p.ParentClass {
		seen[p] = true
		out = append(out, p)
	}

	return out
}

// IsVariableList reports whether the attribute is a runtime-length list.
func (a *ClassAttribute) IsVariableList() bool {
	_, ok := a.Kind.(VariableList)
	return ok
}

// IsFixedList reports whether the attribute is a fixed-length list.
func (a *ClassAttribute) IsFixedList() bool {
	_, ok := a.Kind.(FixedList)
	return ok
}

// IsPrimitive reports whether the attribute is a single primitive value.
func (a *ClassAttribute) IsPrimitive() bool {
	_, ok := a.Kind.(Primitive)
	return ok
}

// IsReference reports whether the attribute is a by-value message type.
func (a *ClassAttribute) IsReference() bool {
	_, ok := a.Kind.(Reference)
	return ok
}

// IsList reports whether the attribute is a fixed or variable list.
func (a *ClassAttribute) IsList() bool {
	return a.IsFixedList() || a.IsVariableList()
}

// ListLength is the declared length of a fixed list, 0 otherwise.
func (a *ClassAttribute) ListLength() int {
	if fl, ok := a.Kind.(FixedList); ok {
		return fl.Length
	}

	return 0
}

// IsCountField reports whether the attribute only carries a list length.
func (a *ClassAttribute) IsCountField() bool {
	return a.IsDynamicListLengthField
}

// ElementIsClass reports whether the value or list element is a message type.
// Valid only after resolution.
func (a *ClassAttribute) ElementIsClass() bool {
	return a.Class != nil
}

// Qualified returns "Class.attr" for messages.
func (a *ClassAttribute) Qualified() string {
	if a.Owner == nil {
		return a.Name
	}

	return a.Owner.Name + "." + a.Name
}
