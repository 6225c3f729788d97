package resolve

import (
	"fmt"

	"pdu-generator/internal/common"
	"pdu-generator/internal/diagnostic"
	"pdu-generator/internal/schema"
)

// resolveInitialValues binds each (setter, literal) pair to the attribute the
// setter assigns, looking through the parent chain.
func (r *Resolver) resolveInitialValues(c *schema.GeneratedClass) {
	for _, iv := range c.InitialValues {
		iv.Target = nil

		a, _ := c.LookupAttribute(common.SetterField(iv.Setter))
		if a == nil {
			r.diags.AddError(diagnostic.CodeUnknownSetter,
				fmt.Sprintf("setter %q does not match any attribute of %s or its parents", iv.Setter, c.Name),
				c.Name, iv.Setter, r.suggest(iv.Setter, setterNames(c))...)

			continue
		}

		if a.IsDynamicListLengthField {
			r.diags.AddError(diagnostic.CodeUnknownSetter,
				fmt.Sprintf("setter %q targets count field %q, which has no setter", iv.Setter, a.Name),
				c.Name, iv.Setter)

			continue
		}

		if !a.IsPrimitive() {
			r.diags.AddError(diagnostic.CodeUnknownSetter,
				fmt.Sprintf("setter %q targets %s attribute %q; initial values only set primitives", iv.Setter, kindName(a), a.Name),
				c.Name, iv.Setter)

			continue
		}

		if a.Primitive == nil {
			// unknown primitive, reported on the attribute
			continue
		}

		if _, err := a.Primitive.ParseLiteral(iv.Value); err != nil {
			r.diags.AddError(diagnostic.CodeInvalidLiteral, err.Error(), c.Name, iv.Setter)
			continue
		}

		iv.Target = a
	}
}

// setterNames lists the setters available on c, own attributes first.
func setterNames(c *schema.GeneratedClass) []string {
	var out []string

	for _, cls := range append([]*schema.GeneratedClass{c}, c.Ancestors()...) {
		for _, a := range cls.Attributes {
			if a.IsPrimitive() && !a.IsDynamicListLengthField {
				out = append(out, common.SetterName(a.Name))
			}
		}
	}

	return out
}
