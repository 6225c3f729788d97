package gen

import (
	"fmt"
	"strings"

	"pdu-generator/internal/plan"
)

// block accumulates statements of one method body, one tab deep.
type block struct {
	sb strings.Builder
}

func (b *block) line(format string, args ...any) {
	b.sb.WriteByte('\t')
	fmt.Fprintf(&b.sb, format, args...)
	b.sb.WriteByte('\n')
}

func (b *block) blank() {
	if b.sb.Len() > 0 {
		b.sb.WriteByte('\n')
	}
}

func (b *block) String() string {
	return b.sb.String()
}

func renderEncode(p *plan.MarshalPlan) (string, error) {
	enc := &goEncoder{}
	for _, s := range p.Encode {
		if err := s.Accept(enc); err != nil {
			return "", fmt.Errorf("%s: encode %s: %w", p.Name, s.FieldName(), err)
		}
	}

	return enc.b.String(), nil
}

func renderDecode(p *plan.MarshalPlan) (string, error) {
	dec := &goDecoder{}
	for _, s := range p.Decode {
		if err := s.Accept(dec); err != nil {
			return "", fmt.Errorf("%s: decode %s: %w", p.Name, s.FieldName(), err)
		}
	}

	return dec.b.String(), nil
}

type goEncoder struct {
	b block
}

func (e *goEncoder) EncodeParent(s plan.EncodeParent) error {
	e.b.line("m.%s.%s(w)", goTypeName(s.Parent), marshalMethod)
	return nil
}

func (e *goEncoder) WritePrimitive(s plan.WritePrimitive) error {
	e.b.line("w.%s(m.%s)", s.Type.Kind.Method(), fieldIdent(s.Field))
	return nil
}

func (e *goEncoder) WriteCount(s plan.WriteCount) error {
	e.b.line("w.%s(%s(len(m.%s)))", s.Type.Kind.Method(), s.Type.GoType(), fieldIdent(s.List))
	return nil
}

func (e *goEncoder) EncodeReference(s plan.EncodeReference) error {
	e.b.line("m.%s.%s(w)", fieldIdent(s.Field), marshalMethod)
	return nil
}

func (e *goEncoder) EncodeFixedList(s plan.EncodeFixedList) error {
	e.elements(s.Field, s.Elem)
	return nil
}

func (e *goEncoder) EncodeVariableList(s plan.EncodeVariableList) error {
	e.elements(s.Field, s.Elem)
	return nil
}

func (e *goEncoder) elements(field string, elem plan.Element) {
	id := fieldIdent(field)
	if elem.IsClass() {
		e.b.line("for i := range m.%s {", id)
		e.b.line("\tm.%s[i].%s(w)", id, marshalMethod)
	} else {
		e.b.line("for _, v := range m.%s {", id)
		e.b.line("\tw.%s(v)", elem.Primitive.Kind.Method())
	}

	e.b.line("}")
}

type goDecoder struct {
	b block
}

func (d *goDecoder) check(call string) {
	d.b.line("if err := %s; err != nil {", call)
	d.b.line("\treturn err")
	d.b.line("}")
}

func (d *goDecoder) DecodeParent(s plan.DecodeParent) error {
	d.check(fmt.Sprintf("m.%s.%s(r)", goTypeName(s.Parent), unmarshalMethod))
	d.b.blank()

	return nil
}

func (d *goDecoder) ReadPrimitive(s plan.ReadPrimitive) error {
	d.b.line("m.%s = r.%s()", fieldIdent(s.Field), s.Type.Kind.Method())
	return nil
}

func (d *goDecoder) ReadCount(s plan.ReadCount) error {
	if s.Discard {
		d.b.line("_ = r.%s()", s.Type.Kind.Method())
		return nil
	}

	d.b.line("%s := r.%s()", countVar(s.Var), s.Type.Kind.Method())

	return nil
}

func (d *goDecoder) DecodeReference(s plan.DecodeReference) error {
	d.check(fmt.Sprintf("m.%s.%s(r)", fieldIdent(s.Field), unmarshalMethod))
	return nil
}

func (d *goDecoder) DecodeFixedList(s plan.DecodeFixedList) error {
	id := fieldIdent(s.Field)

	d.b.line("for i := range m.%s {", id)

	if s.Elem.IsClass() {
		d.b.line("\tif err := m.%s[i].%s(r); err != nil {", id, unmarshalMethod)
		d.b.line("\t\treturn err")
		d.b.line("\t}")
	} else {
		d.b.line("\tm.%s[i] = r.%s()", id, s.Elem.Primitive.Kind.Method())
	}

	d.b.line("}")

	return nil
}

func (d *goDecoder) DecodeVariableList(s plan.DecodeVariableList) error {
	if s.CountVar == "" {
		return fmt.Errorf("variable list %s has no count", s.Field)
	}

	id := fieldIdent(s.Field)
	n := countVar(s.CountVar)

	d.b.blank()

	if s.Elem.IsClass() {
		d.b.line("m.%s = nil", id)
		d.b.line("for range r.Count(uint64(%s), 0) {", n)
		d.b.line("\te := New%s()", goTypeName(s.Elem.Class))
		d.b.line("\tif err := e.%s(r); err != nil {", unmarshalMethod)
		d.b.line("\t\treturn err")
		d.b.line("\t}")
		d.b.line("")
		d.b.line("\tm.%s = append(m.%s, *e)", id, id)
		d.b.line("}")

		return nil
	}

	size := listLenVar(s.Field)
	d.b.line("%s := r.Count(uint64(%s), %d)", size, n, s.Elem.Primitive.WireBytes)
	d.b.line("m.%s = make([]%s, 0, %s)", id, s.Elem.Primitive.GoType(), size)
	d.b.line("for range %s {", size)
	d.b.line("\tm.%s = append(m.%s, r.%s())", id, id, s.Elem.Primitive.Kind.Method())
	d.b.line("}")

	return nil
}

func renderSize(s *plan.SizeExpression) string {
	var b block

	dynamic := s.Dynamic()
	if s.Parent == "" && len(dynamic) == 0 {
		b.line("return %d", s.Fixed)
		return b.String()
	}

	switch {
	case s.Parent != "" && s.Fixed == 0:
		b.line("n := m.%s.%s()", goTypeName(s.Parent), sizeMethod)
	case s.Parent != "":
		b.line("n := m.%s.%s() + %d", goTypeName(s.Parent), sizeMethod, s.Fixed)
	default:
		b.line("n := %d", s.Fixed)
	}

	for _, t := range dynamic {
		id := fieldIdent(t.Field)

		switch t.Kind {
		case plan.SizeReference:
			b.line("n += m.%s.%s()", id, sizeMethod)
		case plan.SizeCountTimesWidth:
			b.line("n += len(m.%s) * %d", id, t.Bytes)
		case plan.SizeElementSum:
			b.line("for i := range m.%s {", id)
			b.line("\tn += m.%s[i].%s()", id, sizeMethod)
			b.line("}")
		}
	}

	b.blank()
	b.line("return n")

	return b.String()
}

// renderEqual returns the comparison statements and whether they use the
// slices package.
func renderEqual(p *plan.MarshalPlan) (string, bool) {
	var (
		b         block
		useSlices bool
	)

	notEqual := func(cond string) {
		b.line("if %s {", cond)
		b.line("\treturn false")
		b.line("}")
	}

	if p.Equality.DelegateParent {
		notEqual(fmt.Sprintf("!m.%[1]s.%[2]s(&o.%[1]s)", goTypeName(p.ParentName), equalMethod))
	}

	for _, c := range p.Equality.Comparisons {
		id := fieldIdent(c.Field)

		switch {
		case c.Kind == plan.CompareReference:
			notEqual(fmt.Sprintf("!m.%[1]s.%[2]s(&o.%[1]s)", id, equalMethod))
		case c.Kind == plan.CompareValue,
			c.Kind == plan.CompareFixedList && !c.Elem.IsClass():
			notEqual(fmt.Sprintf("m.%[1]s != o.%[1]s", id))
		case c.Kind == plan.CompareVariableList && !c.Elem.IsClass():
			notEqual(fmt.Sprintf("!slices.Equal(m.%[1]s, o.%[1]s)", id))

			useSlices = true
		default:
			if c.Kind == plan.CompareVariableList {
				notEqual(fmt.Sprintf("len(m.%[1]s) != len(o.%[1]s)", id))
			}

			b.line("for i := range m.%s {", id)
			b.line("\tif !m.%[1]s[i].%[2]s(&o.%[1]s[i]) {", id, equalMethod)
			b.line("\t\treturn false")
			b.line("\t}")
			b.line("}")
		}
	}

	return b.String(), useSlices
}

func renderConstruct(p *plan.MarshalPlan) (string, error) {
	var b block

	if p.Construct.DelegateParent {
		b.line("m.%s.%s()", goTypeName(p.ParentName), constructMethod)
	}

	for _, d := range p.Construct.Defaults {
		id := fieldIdent(d.Field)

		switch d.Kind {
		case plan.DefaultValue:
			if d.Explicit {
				b.line("m.%s = %s", id, d.Elem.Primitive.FormatLiteral(d.Value))
			}
		case plan.DefaultConstruct:
			b.line("m.%s.%s()", id, constructMethod)
		case plan.DefaultZeroList:
			if d.Elem.IsClass() {
				b.line("for i := range m.%s {", id)
				b.line("\tm.%s[i].%s()", id, constructMethod)
				b.line("}")
			}
		case plan.DefaultEmptyList:
		}
	}

	for _, a := range p.Construct.InitialValues {
		if f := p.LookupField(a.Field); f != nil && f.IsCount() {
			return "", fmt.Errorf("%s: initial value %s targets count field %s", p.Name, a.Setter, a.Field)
		}

		b.line("m.Set%s(%s)", exportedName(a.Field), a.Type.FormatLiteral(a.Value))
	}

	return b.String(), nil
}
