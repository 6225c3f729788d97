package plan

import (
	"pdu-generator/primitive"
)

// EncodeStep is one wire write. The set of steps is closed; backends handle
// each through EncodeVisitor.
type EncodeStep interface {
	Accept(v EncodeVisitor) error
	// FieldName is the attribute the step writes, empty for the parent step.
	FieldName() string
}

// DecodeStep is one wire read; see EncodeStep.
type DecodeStep interface {
	Accept(v DecodeVisitor) error
	FieldName() string
}

// EncodeVisitor has one method per encode step.
type EncodeVisitor interface {
	EncodeParent(EncodeParent) error
	WritePrimitive(WritePrimitive) error
	WriteCount(WriteCount) error
	EncodeReference(EncodeReference) error
	EncodeFixedList(EncodeFixedList) error
	EncodeVariableList(EncodeVariableList) error
}

// DecodeVisitor has one method per decode step.
type DecodeVisitor interface {
	DecodeParent(DecodeParent) error
	ReadPrimitive(ReadPrimitive) error
	ReadCount(ReadCount) error
	DecodeReference(DecodeReference) error
	DecodeFixedList(DecodeFixedList) error
	DecodeVariableList(DecodeVariableList) error
}

// EncodeParent writes the parent's whole layout.
type EncodeParent struct {
	Parent string
}

// WritePrimitive writes one stored primitive value.
type WritePrimitive struct {
	Field string
	Type  *primitive.Type
}

// WriteCount writes len(List) cast to Type. No stored value is read.
type WriteCount struct {
	Field string
	List  string
	Type  *primitive.Type
}

// EncodeReference runs the referenced instance's own encode.
type EncodeReference struct {
	Field string
	Class string
}

// EncodeFixedList writes exactly Length elements.
type EncodeFixedList struct {
	Field  string
	Length int
	Elem   Element
}

// EncodeVariableList writes every element present at encode time.
type EncodeVariableList struct {
	Field string
	Elem  Element
}

// DecodeParent reads the parent's whole layout.
type DecodeParent struct {
	Parent string
}

// ReadPrimitive reads one primitive into its stored field.
type ReadPrimitive struct {
	Field string
	Type  *primitive.Type
}

// ReadCount reads a count into the transient variable Var. The value bounds
// the decode loop of List and is never stored. Discard is set when List is
// not on the wire, leaving the count unused.
type ReadCount struct {
	Field   string
	List    string
	Var     string
	Type    *primitive.Type
	Discard bool
}

// DecodeReference decodes into the referenced instance in place.
type DecodeReference struct {
	Field string
	Class string
}

// DecodeFixedList reads exactly Length elements.
type DecodeFixedList struct {
	Field  string
	Length int
	Elem   Element
}

// DecodeVariableList clears the list and then reads CountVar elements,
// default-constructing message elements before decoding each one.
type DecodeVariableList struct {
	Field    string
	Elem     Element
	CountVar string
}

func (s EncodeParent) Accept(v EncodeVisitor) error       { return v.EncodeParent(s) }
func (s WritePrimitive) Accept(v EncodeVisitor) error     { return v.WritePrimitive(s) }
func (s WriteCount) Accept(v EncodeVisitor) error         { return v.WriteCount(s) }
func (s EncodeReference) Accept(v EncodeVisitor) error    { return v.EncodeReference(s) }
func (s EncodeFixedList) Accept(v EncodeVisitor) error    { return v.EncodeFixedList(s) }
func (s EncodeVariableList) Accept(v EncodeVisitor) error { return v.EncodeVariableList(s) }

func (s DecodeParent) Accept(v DecodeVisitor) error       { return v.DecodeParent(s) }
func (s ReadPrimitive) Accept(v DecodeVisitor) error      { return v.ReadPrimitive(s) }
func (s ReadCount) Accept(v DecodeVisitor) error          { return v.ReadCount(s) }
func (s DecodeReference) Accept(v DecodeVisitor) error    { return v.DecodeReference(s) }
func (s DecodeFixedList) Accept(v DecodeVisitor) error    { return v.DecodeFixedList(s) }
func (s DecodeVariableList) Accept(v DecodeVisitor) error { return v.DecodeVariableList(s) }

func (EncodeParent) FieldName() string         { return "" }
func (s WritePrimitive) FieldName() string     { return s.Field }
func (s WriteCount) FieldName() string         { return s.Field }
func (s EncodeReference) FieldName() string    { return s.Field }
func (s EncodeFixedList) FieldName() string    { return s.Field }
func (s EncodeVariableList) FieldName() string { return s.Field }

func (DecodeParent) FieldName() string         { return "" }
func (s ReadPrimitive) FieldName() string      { return s.Field }
func (s ReadCount) FieldName() string          { return s.Field }
func (s DecodeReference) FieldName() string    { return s.Field }
func (s DecodeFixedList) FieldName() string    { return s.Field }
func (s DecodeVariableList) FieldName() string { return s.Field }
