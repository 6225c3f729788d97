package plan

import (
	"fmt"

	"pdu-generator/internal/schema"
)

// Options controls derivation.
type Options struct {
	// Size requests a SizeExpression per plan.
	Size bool
}

// Derive builds the plan of one resolved class. The class should have passed
// ValidateClass; Derive only reports what it cannot express at all.
// The returned plan's Parent link is left nil; DeriveAll sets it.
func Derive(c *schema.GeneratedClass, opts Options) (*MarshalPlan, error) {
	p := &MarshalPlan{
		Name:    c.Name,
		Comment: c.Comment,
		Class:   c,
	}

	if opts.Size {
		p.Size = &SizeExpression{}
	}

	if c.HasParent() {
		p.ParentName = c.Parent
		p.Encode = append(p.Encode, EncodeParent{Parent: c.Parent})
		p.Decode = append(p.Decode, DecodeParent{Parent: c.Parent})
		p.Equality.DelegateParent = true
		p.Construct.DelegateParent = true

		if p.Size != nil {
			p.Size.Parent = c.Parent
		}
	}

	d := &deriver{plan: p}

	for _, a := range c.Attributes {
		if !schema.IsKnownKind(a.Kind) {
			return nil, fmt.Errorf("%s: attribute kind %v is not supported", a.Qualified(), a.Kind)
		}

		f, err := newField(a)
		if err != nil {
			return nil, err
		}

		d.attr, d.field = a, f
		p.Fields = append(p.Fields, f)

		if err := schema.VisitKind[error](a.Kind, d); err != nil {
			return nil, err
		}
	}

	for _, iv := range c.InitialValues {
		a := iv.Target
		if a == nil || a.Primitive == nil {
			return nil, fmt.Errorf("%s: initial value %s is not bound", c.Name, iv.Setter)
		}

		v, err := a.Primitive.ParseLiteral(iv.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: initial value %s: %w", c.Name, iv.Setter, err)
		}

		p.Construct.InitialValues = append(p.Construct.InitialValues, Assignment{
			Setter: iv.Setter,
			Field:  a.Name,
			Owner:  a.Owner.Name,
			Type:   a.Primitive,
			Value:  v,
		})
	}

	return p, nil
}

func newField(a *schema.ClassAttribute) (*Field, error) {
	f := &Field{
		Name:       a.Name,
		Kind:       a.Kind,
		Elem:       elementOf(a),
		Length:     a.ListLength(),
		Comment:    a.Comment,
		Stored:     !a.IsDynamicListLengthField,
		Serialized: a.ShouldSerialize,
	}

	if a.IsDynamicListLengthField && a.CountedList != nil {
		f.CountOf = a.CountedList.Name
	}

	if a.IsVariableList() && a.CountField != nil {
		f.CountField = a.CountField.Name
	}

	if a.Default != nil && a.IsPrimitive() && f.Stored && a.Primitive != nil {
		v, err := a.Primitive.ParseLiteral(*a.Default)
		if err != nil {
			return nil, fmt.Errorf("%s: default: %w", a.Qualified(), err)
		}

		f.Default = v
	}

	return f, nil
}

func elementOf(a *schema.ClassAttribute) Element {
	if a.Primitive != nil {
		return Element{Primitive: a.Primitive}
	}

	if a.Class != nil {
		return Element{Class: a.Class.Name}
	}

	return Element{Class: a.Type}
}

// deriver emits the steps, size terms, comparisons and defaults of one
// attribute at a time, in declaration order.
type deriver struct {
	plan  *MarshalPlan
	attr  *schema.ClassAttribute
	field *Field
}

func (d *deriver) encode(s EncodeStep) {
	if d.attr.ShouldSerialize {
		d.plan.Encode = append(d.plan.Encode, s)
	}
}

func (d *deriver) decode(s DecodeStep) {
	if d.attr.ShouldSerialize {
		d.plan.Decode = append(d.plan.Decode, s)
	}
}

func (d *deriver) size(t SizeTerm) {
	if d.plan.Size == nil || !d.attr.ShouldSerialize {
		return
	}

	t.Field = d.attr.Name
	if t.IsStatic() {
		d.plan.Size.Fixed += t.Bytes
	}

	d.plan.Size.Terms = append(d.plan.Size.Terms, t)
}

func (d *deriver) compare(c Comparison) {
	c.Field = d.attr.Name
	d.plan.Equality.Comparisons = append(d.plan.Equality.Comparisons, c)
}

func (d *deriver) construct(fd FieldDefault) {
	fd.Field = d.attr.Name
	d.plan.Construct.Defaults = append(d.plan.Construct.Defaults, fd)
}

func (d *deriver) Primitive(schema.Primitive) error {
	a, f := d.attr, d.field
	if a.Primitive == nil {
		return fmt.Errorf("%s: primitive type %q is not resolved", a.Qualified(), a.Type)
	}

	if a.IsDynamicListLengthField {
		if a.CountedList == nil {
			return fmt.Errorf("%s: count field is not bound to a list", a.Qualified())
		}

		list := a.CountedList.Name
		d.encode(WriteCount{Field: a.Name, List: list, Type: a.Primitive})
		d.decode(ReadCount{
			Field:   a.Name,
			List:    list,
			Var:     a.Name,
			Type:    a.Primitive,
			Discard: !a.CountedList.ShouldSerialize,
		})
		d.size(SizeTerm{Kind: SizeStatic, Bytes: a.Primitive.WireBytes})

		return nil
	}

	d.encode(WritePrimitive{Field: a.Name, Type: a.Primitive})
	d.decode(ReadPrimitive{Field: a.Name, Type: a.Primitive})
	d.size(SizeTerm{Kind: SizeStatic, Bytes: a.Primitive.WireBytes})
	d.compare(Comparison{Kind: CompareValue, Elem: f.Elem})

	fd := FieldDefault{Kind: DefaultValue, Elem: f.Elem, Value: a.Primitive.Zero()}
	if f.Default != nil {
		fd.Value, fd.Explicit = f.Default, true
	}

	d.construct(fd)

	return nil
}

func (d *deriver) Reference(schema.Reference) error {
	a, f := d.attr, d.field
	if a.Class == nil {
		return fmt.Errorf("%s: referenced type %q is not resolved", a.Qualified(), a.Type)
	}

	d.encode(EncodeReference{Field: a.Name, Class: a.Class.Name})
	d.decode(DecodeReference{Field: a.Name, Class: a.Class.Name})
	d.size(SizeTerm{Kind: SizeReference, Class: a.Class.Name})
	d.compare(Comparison{Kind: CompareReference, Elem: f.Elem})
	d.construct(FieldDefault{Kind: DefaultConstruct, Elem: f.Elem})

	return nil
}

func (d *deriver) FixedList(k schema.FixedList) error {
	a, f := d.attr, d.field
	if a.Primitive == nil && a.Class == nil {
		return fmt.Errorf("%s: element type %q is not resolved", a.Qualified(), a.Type)
	}

	d.encode(EncodeFixedList{Field: a.Name, Length: k.Length, Elem: f.Elem})
	d.decode(DecodeFixedList{Field: a.Name, Length: k.Length, Elem: f.Elem})

	if f.Elem.IsClass() {
		d.size(SizeTerm{Kind: SizeElementSum, Class: f.Elem.Class, Length: k.Length})
	} else {
		d.size(SizeTerm{Kind: SizeStatic, Bytes: k.Length * f.Elem.Primitive.WireBytes, Length: k.Length})
	}

	d.compare(Comparison{Kind: CompareFixedList, Elem: f.Elem, Length: k.Length})
	d.construct(FieldDefault{Kind: DefaultZeroList, Elem: f.Elem, Length: k.Length})

	if a.CouldBeString && !f.Elem.IsClass() && f.Elem.Primitive.Bits == 8 && f.Elem.Primitive.Kind.IsInteger() {
		d.plan.Accessors = append(d.plan.Accessors, TextAccessor{
			Field:  a.Name,
			Length: k.Length,
			Type:   f.Elem.Primitive,
		})
	}

	return nil
}

func (d *deriver) VariableList(schema.VariableList) error {
	a, f := d.attr, d.field
	if a.Primitive == nil && a.Class == nil {
		return fmt.Errorf("%s: element type %q is not resolved", a.Qualified(), a.Type)
	}

	if a.CountField == nil {
		return fmt.Errorf("%s: variable list has no bound count field", a.Qualified())
	}

	d.encode(EncodeVariableList{Field: a.Name, Elem: f.Elem})
	d.decode(DecodeVariableList{Field: a.Name, Elem: f.Elem, CountVar: a.CountField.Name})

	if f.Elem.IsClass() {
		d.size(SizeTerm{Kind: SizeElementSum, Class: f.Elem.Class})
	} else {
		d.size(SizeTerm{Kind: SizeCountTimesWidth, Bytes: f.Elem.Primitive.WireBytes})
	}

	d.compare(Comparison{Kind: CompareVariableList, Elem: f.Elem})
	d.construct(FieldDefault{Kind: DefaultEmptyList, Elem: f.Elem})

	return nil
}
