package plan

import (
	"pdu-generator/internal/common"
	"pdu-generator/internal/schema"
	"pdu-generator/primitive"
)

// MarshalPlan is the backend-agnostic description of how to encode, decode,
// size, compare and default-construct one message type. It is never
// modified after DeriveAll returns.
type MarshalPlan struct {
	// Name is the message type name.
	Name string
	// ParentName is empty when the type has no parent.
	ParentName string
	Comment    string
	// Fields are the type's own attributes in declaration order.
	Fields []*Field

	Encode    []EncodeStep
	Decode    []DecodeStep
	Size      *SizeExpression
	Equality  EqualityPlan
	Construct ConstructPlan
	Accessors []TextAccessor

	// Parent is the parent's plan, linked after derivation.
	Parent *MarshalPlan
	// Class is the resolved declaration this plan was derived from.
	Class *schema.GeneratedClass
}

// HasParent reports whether the plan delegates to a parent plan.
func (p *MarshalPlan) HasParent() bool {
	return p.ParentName != ""
}

// Field returns the plan's own field called name.
func (p *MarshalPlan) Field(name string) *Field {
	for _, f := range p.Fields {
		if f.Name == name {
			return f
		}
	}

	return nil
}

// LookupField searches the plan and its linked parents.
func (p *MarshalPlan) LookupField(name string) *Field {
	for cur := p; cur != nil; cur = cur.Parent {
		if f := cur.Field(name); f != nil {
			return f
		}
	}

	return nil
}

// Chain returns the plan followed by its ancestors' plans, nearest first.
func (p *MarshalPlan) Chain() []*MarshalPlan {
	var out []*MarshalPlan
	for cur := p; cur != nil; cur = cur.Parent {
		out = append(out, cur)
	}

	return out
}

// Element is the value type of a reference or of list entries: either a
// catalog primitive or a message type.
type Element struct {
	Primitive *primitive.Type
	Class     string
}

// IsClass reports whether the element is a message type.
func (e Element) IsClass() bool {
	return e.Primitive == nil
}

func (e Element) String() string {
	if e.Primitive != nil {
		return e.Primitive.Name
	}

	return e.Class
}

// Field is the storage view of one attribute.
type Field struct {
	Name    string
	Kind    schema.AttributeKind
	Elem    Element
	Length  int
	Comment string

	// Stored is false for count fields: their value is the list length.
	Stored     bool
	Serialized bool
	// CountOf names the list a count field sizes.
	CountOf string
	// CountField names the count field of a variable list.
	CountField string
	// Default is the parsed default literal, nil when absent.
	Default any
}

// IsCount reports whether the field only carries a list length.
func (f *Field) IsCount() bool {
	return f.CountOf != ""
}

// IsFixedList reports whether the field is a fixed-length list.
func (f *Field) IsFixedList() bool {
	_, ok := f.Kind.(schema.FixedList)
	return ok
}

// IsVariableList reports whether the field is a runtime-length list.
func (f *Field) IsVariableList() bool {
	_, ok := f.Kind.(schema.VariableList)
	return ok
}

// IsList reports whether the field holds a sequence of elements.
func (f *Field) IsList() bool {
	return f.IsFixedList() || f.IsVariableList()
}

// SizeTermKind classifies a per-field size contribution.
type SizeTermKind int

const (
	// SizeStatic is a fixed byte count known at derivation.
	SizeStatic SizeTermKind = iota
	// SizeReference is the referenced instance's own marshalled size.
	SizeReference
	// SizeCountTimesWidth is live list length times a primitive width.
	SizeCountTimesWidth
	// SizeElementSum is the sum of each list element's own size.
	SizeElementSum
)

// String returns a human-readable term kind.
func (k SizeTermKind) String() string {
	switch k {
	case SizeStatic:
		return "static"
	case SizeReference:
		return "reference"
	case SizeCountTimesWidth:
		return "count_times_width"
	case SizeElementSum:
		return "element_sum"
	default:
		return common.UnknownStr
	}
}

// SizeTerm is one field's contribution to the marshalled size.
type SizeTerm struct {
	Kind  SizeTermKind
	Field string
	// Bytes is the total for SizeStatic and the element width for
	// SizeCountTimesWidth.
	Bytes int
	// Class is the element type for SizeReference and SizeElementSum.
	Class string
	// Length is set for fixed lists.
	Length int
}

// IsStatic reports whether the term is known at derivation.
func (t SizeTerm) IsStatic() bool {
	return t.Kind == SizeStatic
}

// SizeExpression is parent size + Fixed + the dynamic terms. Terms keeps
// every serialized field's term in declaration order, static ones included.
type SizeExpression struct {
	// Parent is the parent type whose size is added first; empty for none.
	Parent string
	// Fixed is the constant-folded sum of the static terms.
	Fixed int
	Terms []SizeTerm
}

// Dynamic returns the terms that must be evaluated on an instance.
func (s *SizeExpression) Dynamic() []SizeTerm {
	var out []SizeTerm

	for _, t := range s.Terms {
		if !t.IsStatic() {
			out = append(out, t)
		}
	}

	return out
}

// CompareKind is how one field takes part in equality.
type CompareKind int

const (
	CompareValue CompareKind = iota
	CompareReference
	CompareFixedList
	CompareVariableList
)

// String returns a human-readable comparison kind.
func (k CompareKind) String() string {
	switch k {
	case CompareValue:
		return "value"
	case CompareReference:
		return "reference"
	case CompareFixedList:
		return "fixed_list"
	case CompareVariableList:
		return "variable_list"
	default:
		return common.UnknownStr
	}
}

// Comparison is one field's equality check.
type Comparison struct {
	Field  string
	Kind   CompareKind
	Elem   Element
	Length int
}

// EqualityPlan compares the parent part first when DelegateParent is set,
// then Comparisons in declaration order. Count fields never appear.
type EqualityPlan struct {
	DelegateParent bool
	Comparisons    []Comparison
}

// DefaultKind is how a field reaches its default state.
type DefaultKind int

const (
	// DefaultValue assigns a primitive default literal or zero.
	DefaultValue DefaultKind = iota
	// DefaultConstruct default-constructs a referenced message type.
	DefaultConstruct
	// DefaultZeroList sets every fixed-list slot to the element zero value.
	DefaultZeroList
	// DefaultEmptyList leaves a variable list empty.
	DefaultEmptyList
)

// String returns a human-readable default kind.
func (k DefaultKind) String() string {
	switch k {
	case DefaultValue:
		return "value"
	case DefaultConstruct:
		return "construct"
	case DefaultZeroList:
		return "zero_list"
	case DefaultEmptyList:
		return "empty_list"
	default:
		return common.UnknownStr
	}
}

// FieldDefault is one stored field's initial state.
type FieldDefault struct {
	Field string
	Kind  DefaultKind
	Elem  Element
	// Length is set for fixed lists.
	Length int
	// Value is the typed primitive value for DefaultValue.
	Value any
	// Explicit is true when Value came from a schema default literal.
	Explicit bool
}

// Assignment is one InitialValue bound to its target field.
type Assignment struct {
	Setter string
	Field  string
	// Owner is the type that declares Field: the plan's own type or an
	// ancestor.
	Owner string
	Type  *primitive.Type
	Value any
}

// ConstructPlan runs the parent construct plan first when DelegateParent is
// set, then Defaults, then InitialValues in declared order.
type ConstructPlan struct {
	DelegateParent bool
	Defaults       []FieldDefault
	InitialValues  []Assignment
}

// TextAccessor exposes a byte fixed list as text. Writes copy at most
// Length bytes, truncating longer input and zero-padding shorter input.
type TextAccessor struct {
	Field  string
	Length int
	Type   *primitive.Type
}
