package schema

import "fmt"

// AttributeKind is the closed set of field shapes: Primitive, Reference,
// FixedList and VariableList. The marker method is unexported so no other
// package can add a variant.
type AttributeKind interface {
	fmt.Stringer
	attributeKind()
}

// Primitive is a single catalog-typed value.
type Primitive struct{}

// Reference is a by-value instance of another message type.
type Reference struct{}

// FixedList is exactly Length elements, known at schema time.
type FixedList struct {
	Length int
}

// VariableList is a runtime-length sequence whose count travels in a
// separate count field.
type VariableList struct{}

func (Primitive) attributeKind()    {}
func (Reference) attributeKind()    {}
func (FixedList) attributeKind()    {}
func (VariableList) attributeKind() {}

func (Primitive) String() string    { return "primitive" }
func (Reference) String() string    { return "class" }
func (k FixedList) String() string  { return fmt.Sprintf("fixed_list[%d]", k.Length) }
func (VariableList) String() string { return "variable_list" }

// KindVisitor has one method per AttributeKind variant. Stages that depend on
// the kind implement it, so introducing a variant fails to compile until
// every stage handles it.
type KindVisitor[R any] interface {
	Primitive(Primitive) R
	Reference(Reference) R
	FixedList(FixedList) R
	VariableList(VariableList) R
}

// VisitKind dispatches k to the matching visitor method. It panics on a nil
// kind; the validator reports those before any stage visits them.
func VisitKind[R any](k AttributeKind, v KindVisitor[R]) R {
	switch k := k.(type) {
	case Primitive:
		return v.Primitive(k)
	case Reference:
		return v.Reference(k)
	case FixedList:
		return v.FixedList(k)
	case VariableList:
		return v.VariableList(k)
	default:
		panic(fmt.Sprintf("schema: attribute kind %T outside the closed set", k))
	}
}

// IsKnownKind reports whether k is one of the four variants.
func IsKnownKind(k AttributeKind) bool {
	switch k.(type) {
	case Primitive, Reference, FixedList, VariableList:
		return true
	default:
		return false
	}
}
