package plan

import (
	"fmt"
	"slices"

	"pdu-generator/internal/diagnostic"
	"pdu-generator/internal/schema"
)

// ValidateClass checks everything about one class that does not depend on
// whether other classes were accepted. Errors reject the class only.
func ValidateClass(c *schema.GeneratedClass, opts Options) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	if c.HasParent() && c.ParentClass == nil {
		diags.AddError(diagnostic.CodeUnknownType,
			fmt.Sprintf("parent type %q is not resolved", c.Parent), c.Name, "")
	}

	for _, a := range c.Attributes {
		if !schema.IsKnownKind(a.Kind) {
			diags.AddError(diagnostic.CodeUnsupportedShape,
				fmt.Sprintf("attribute kind %s is not one of primitive, class, fixed_list, variable_list", describeKind(a.Kind)),
				c.Name, a.Name)

			continue
		}

		schema.VisitKind[struct{}](a.Kind, &shapeChecker{class: c, attr: a, opts: opts, diags: &diags})
	}

	checkCountFields(c, &diags)

	for _, iv := range c.InitialValues {
		if iv.Target == nil {
			diags.AddError(diagnostic.CodeUnknownSetter,
				fmt.Sprintf("initial value setter %q is not bound", iv.Setter), c.Name, iv.Setter)
		}
	}

	return diags
}

func describeKind(k schema.AttributeKind) string {
	if k == nil {
		return "(missing)"
	}

	return fmt.Sprintf("%T", k)
}

// shapeChecker applies the per-kind shape rules to one attribute.
type shapeChecker struct {
	class *schema.GeneratedClass
	attr  *schema.ClassAttribute
	opts  Options
	diags *diagnostic.Diagnostics
}

func (s *shapeChecker) unresolved(what string) {
	s.diags.AddError(diagnostic.CodeUnknownType,
		fmt.Sprintf("%s %q is not resolved", what, s.attr.Type), s.class.Name, s.attr.Name)
}

func (s *shapeChecker) Primitive(schema.Primitive) struct{} {
	if s.attr.Primitive == nil {
		s.unresolved("primitive type")
	}

	return struct{}{}
}

func (s *shapeChecker) Reference(schema.Reference) struct{} {
	if s.attr.Class == nil {
		s.unresolved("referenced type")
	}

	return struct{}{}
}

func (s *shapeChecker) FixedList(k schema.FixedList) struct{} {
	if s.attr.Primitive == nil && s.attr.Class == nil {
		s.unresolved("list element type")
	}

	if k.Length <= 0 {
		s.diags.AddError(diagnostic.CodeUnsupportedShape,
			fmt.Sprintf("fixed list length must be positive, got %d", k.Length), s.class.Name, s.attr.Name)
	}

	if s.opts.Size && s.attr.Class != nil {
		s.diags.AddError(diagnostic.CodeUnsupportedShape,
			fmt.Sprintf("fixed list of message type %s has no closed-form size; use a variable list or disable size methods", s.attr.Class.Name),
			s.class.Name, s.attr.Name)
	}

	return struct{}{}
}

func (s *shapeChecker) VariableList(schema.VariableList) struct{} {
	if s.attr.Primitive == nil && s.attr.Class == nil {
		s.unresolved("list element type")
	}

	return struct{}{}
}

// checkCountFields enforces the count binding invariants and that every
// serialized list's count is decoded before the list itself.
func checkCountFields(c *schema.GeneratedClass, diags *diagnostic.Diagnostics) {
	for i, a := range c.Attributes {
		switch {
		case a.IsVariableList():
			p := a.CountField
			if p == nil || p.CountedList != a || !slices.Contains(c.Attributes, p) {
				diags.AddError(diagnostic.CodeUnresolvedCountField,
					"variable list is not bound to exactly one count field of the same type", c.Name, a.Name)

				continue
			}

			if !a.ShouldSerialize {
				continue
			}

			if !p.ShouldSerialize {
				diags.AddError(diagnostic.CodeUnsupportedShape,
					fmt.Sprintf("count field %q is not serialized, so the list length is unknown when decoding", p.Name),
					c.Name, a.Name)
			} else if j := slices.Index(c.Attributes, p); j > i {
				diags.AddError(diagnostic.CodeUnsupportedShape,
					fmt.Sprintf("count field %q is declared after the list, so the list length is unknown when decoding", p.Name),
					c.Name, a.Name)
			}

		case a.IsDynamicListLengthField:
			if a.CountedList == nil {
				diags.AddError(diagnostic.CodeUnresolvedCountField,
					"count field sizes no list", c.Name, a.Name)

				continue
			}

			n := 0

			for _, l := range c.Attributes {
				if l.IsVariableList() && l.CountField == a {
					n++
				}
			}

			if n > 1 {
				diags.AddError(diagnostic.CodeUnresolvedCountField,
					fmt.Sprintf("count field sizes %d lists", n), c.Name, a.Name)
			}

			if !a.IsPrimitive() || (a.Primitive != nil && !a.Primitive.Kind.IsInteger()) {
				diags.AddError(diagnostic.CodeUnresolvedCountField,
					"count field must be an integer primitive", c.Name, a.Name)
			}
		}
	}
}

// dependencies lists the message types whose generated code a plan calls:
// its parent and every referenced or element type.
func dependencies(c *schema.GeneratedClass) []string {
	var out []string

	if c.HasParent() {
		out = append(out, c.Parent)
	}

	for _, a := range c.Attributes {
		if a.Class != nil && !slices.Contains(out, a.Class.Name) {
			out = append(out, a.Class.Name)
		}
	}

	return out
}
