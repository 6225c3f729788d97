package plan

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// LayoutReport is a reviewable YAML rendering of a PlanSet: the wire layout
// and companion plans of every accepted type.
type LayoutReport struct {
	Version  string       `yaml:"version"`
	Types    []TypeReport `yaml:"types"`
	Rejected []string     `yaml:"rejected,omitempty"`
}

// TypeReport describes one plan.
type TypeReport struct {
	Name      string   `yaml:"name"`
	Parent    string   `yaml:"parent,omitempty"`
	Encode    []string `yaml:"encode"`
	Decode    []string `yaml:"decode"`
	Size      string   `yaml:"size,omitempty"`
	Equality  []string `yaml:"equality"`
	Construct []string `yaml:"construct"`
	Text      []string `yaml:"text_accessors,omitempty"`
}

// Export builds the layout report of a plan set.
func Export(set *PlanSet) *LayoutReport {
	rep := &LayoutReport{Version: "1", Rejected: set.Rejected}

	for _, p := range set.Plans {
		rep.Types = append(rep.Types, exportPlan(p))
	}

	return rep
}

// ExportYAML renders the layout report as YAML.
func ExportYAML(set *PlanSet) ([]byte, error) {
	return yaml.Marshal(Export(set))
}

func exportPlan(p *MarshalPlan) TypeReport {
	tr := TypeReport{
		Name:      p.Name,
		Parent:    p.ParentName,
		Encode:    []string{},
		Decode:    []string{},
		Equality:  []string{},
		Construct: []string{},
	}

	for _, s := range p.Encode {
		tr.Encode = append(tr.Encode, DescribeEncode(s))
	}

	for _, s := range p.Decode {
		tr.Decode = append(tr.Decode, DescribeDecode(s))
	}

	if p.Size != nil {
		tr.Size = p.Size.String()
	}

	if p.Equality.DelegateParent {
		tr.Equality = append(tr.Equality, "parent")
	}

	for _, c := range p.Equality.Comparisons {
		tr.Equality = append(tr.Equality, fmt.Sprintf("%s %s", c.Kind, c.Field))
	}

	if p.Construct.DelegateParent {
		tr.Construct = append(tr.Construct, "parent")
	}

	for _, d := range p.Construct.Defaults {
		switch d.Kind {
		case DefaultValue:
			tr.Construct = append(tr.Construct, fmt.Sprintf("%s = %s", d.Field, d.Elem.Primitive.FormatLiteral(d.Value)))
		default:
			tr.Construct = append(tr.Construct, fmt.Sprintf("%s: %s", d.Field, d.Kind))
		}
	}

	for _, a := range p.Construct.InitialValues {
		tr.Construct = append(tr.Construct, fmt.Sprintf("%s(%s)", a.Setter, a.Type.FormatLiteral(a.Value)))
	}

	for _, t := range p.Accessors {
		tr.Text = append(tr.Text, fmt.Sprintf("%s[%d]", t.Field, t.Length))
	}

	return tr
}

// String renders the expression as a sum, e.g.
// "size(Pdu) + 4 + size(entityID) + 2*len(data)".
func (s *SizeExpression) String() string {
	var parts []string

	if s.Parent != "" {
		parts = append(parts, "size("+s.Parent+")")
	}

	if s.Fixed > 0 || (s.Parent == "" && len(s.Dynamic()) == 0) {
		parts = append(parts, fmt.Sprint(s.Fixed))
	}

	for _, t := range s.Dynamic() {
		switch t.Kind {
		case SizeReference:
			parts = append(parts, fmt.Sprintf("size(%s)", t.Field))
		case SizeCountTimesWidth:
			parts = append(parts, fmt.Sprintf("%d*len(%s)", t.Bytes, t.Field))
		case SizeElementSum:
			parts = append(parts, fmt.Sprintf("sum(size(%s[i]))", t.Field))
		}
	}

	return strings.Join(parts, " + ")
}

// DescribeEncode renders one encode step for logs and reports.
func DescribeEncode(s EncodeStep) string {
	switch s := s.(type) {
	case EncodeParent:
		return "parent " + s.Parent
	case WritePrimitive:
		return fmt.Sprintf("write %s %s", s.Type.Name, s.Field)
	case WriteCount:
		return fmt.Sprintf("write %s len(%s) as %s", s.Type.Name, s.List, s.Field)
	case EncodeReference:
		return fmt.Sprintf("encode %s %s", s.Class, s.Field)
	case EncodeFixedList:
		return fmt.Sprintf("write %s[%d] %s", s.Elem, s.Length, s.Field)
	case EncodeVariableList:
		return fmt.Sprintf("write %s[] %s", s.Elem, s.Field)
	default:
		return fmt.Sprintf("%T", s)
	}
}

// DescribeDecode renders one decode step for logs and reports.
func DescribeDecode(s DecodeStep) string {
	switch s := s.(type) {
	case DecodeParent:
		return "parent " + s.Parent
	case ReadPrimitive:
		return fmt.Sprintf("read %s %s", s.Type.Name, s.Field)
	case ReadCount:
		if s.Discard {
			return fmt.Sprintf("skip %s %s", s.Type.Name, s.Field)
		}

		return fmt.Sprintf("read %s count %s", s.Type.Name, s.Var)
	case DecodeReference:
		return fmt.Sprintf("decode %s %s", s.Class, s.Field)
	case DecodeFixedList:
		return fmt.Sprintf("read %s[%d] %s", s.Elem, s.Length, s.Field)
	case DecodeVariableList:
		return fmt.Sprintf("read %s[%s] %s", s.Elem, s.CountVar, s.Field)
	default:
		return fmt.Sprintf("%T", s)
	}
}
