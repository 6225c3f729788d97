package resolve

import (
	"fmt"

	"pdu-generator/internal/common"
	"pdu-generator/internal/diagnostic"
	"pdu-generator/internal/schema"
)

// bindCounts links every variable list of c to its unique count field.
//
// Candidates for a list L are the count-flagged attributes whose Counts names
// L plus the attribute named by L's CountFieldName. Exactly one must exist.
func (r *Resolver) bindCounts(c *schema.GeneratedClass) {
	for _, a := range c.Attributes {
		a.CountField, a.CountedList = nil, nil
	}

	for _, list := range c.Attributes {
		if !list.IsVariableList() {
			continue
		}

		cands, ok := r.countCandidates(c, list)
		if !ok {
			continue
		}

		switch len(cands) {
		case 0:
			r.diags.AddError(diagnostic.CodeUnresolvedCountField,
				fmt.Sprintf("variable list %q has no count field", list.Name), c.Name, list.Name,
				r.suggest(list.Name+"Count", integerAttributeNames(c))...)

			continue

		case 1:

		default:
			names := make([]string, len(cands))
			for i, p := range cands {
				names[i] = p.Name
			}

			r.diags.AddError(diagnostic.CodeUnresolvedCountField,
				fmt.Sprintf("variable list %q has %d count fields: %s", list.Name, len(cands), quoteAll(names)),
				c.Name, list.Name)

			continue
		}

		p := cands[0]
		p.IsDynamicListLengthField = true

		if !validCountType(p) {
			// reported once below
			continue
		}

		if p.CountedList != nil {
			r.diags.AddError(diagnostic.CodeUnresolvedCountField,
				fmt.Sprintf("count field %q sizes both %q and %q", p.Name, p.CountedList.Name, list.Name),
				c.Name, p.Name)

			continue
		}

		list.CountField = p
		p.CountedList = list

		if p.Counts == "" {
			p.Counts = list.Name
		}
	}

	for _, p := range c.Attributes {
		if p.IsDynamicListLengthField {
			r.checkCountField(c, p)
		}
	}
}

// countCandidates reports false when the list names a count field that does
// not exist; that error is already recorded.
func (r *Resolver) countCandidates(c *schema.GeneratedClass, list *schema.ClassAttribute) ([]*schema.ClassAttribute, bool) {
	var cands []*schema.ClassAttribute

	for _, p := range c.Attributes {
		if p != list && p.IsDynamicListLengthField && p.Counts == list.Name {
			cands = append(cands, p)
		}
	}

	if list.CountFieldName == "" {
		return cands, true
	}

	named := c.Attribute(list.CountFieldName)
	if named == nil || named == list {
		r.diags.AddError(diagnostic.CodeUnresolvedCountField,
			fmt.Sprintf("count field %q of list %q is not declared in %s", list.CountFieldName, list.Name, c.Name),
			c.Name, list.Name, r.suggest(list.CountFieldName, integerAttributeNames(c))...)

		return nil, false
	}

	return common.AppendUnique(cands, named), true
}

func (r *Resolver) checkCountField(c *schema.GeneratedClass, p *schema.ClassAttribute) {
	if !validCountType(p) {
		r.diags.AddError(diagnostic.CodeUnresolvedCountField,
			fmt.Sprintf("count field %q must be an integer primitive, got %s %q", p.Name, kindName(p), p.Type),
			c.Name, p.Name)

		return
	}

	if p.Default != nil {
		r.diags.AddWarning(diagnostic.CodeDefaultIgnored,
			fmt.Sprintf("default %q ignored on count field; its value is the list length", *p.Default),
			c.Name, p.Name)
	}

	if p.CountedList != nil {
		return
	}

	switch target := c.Attribute(p.Counts); {
	case p.Counts == "":
		r.diags.AddError(diagnostic.CodeUnresolvedCountField,
			fmt.Sprintf("count field %q does not name the list it sizes", p.Name), c.Name, p.Name)
	case target == nil:
		r.diags.AddError(diagnostic.CodeUnresolvedCountField,
			fmt.Sprintf("count field %q sizes %q, which is not declared in %s", p.Name, p.Counts, c.Name),
			c.Name, p.Name, r.suggest(p.Counts, variableListNames(c))...)
	case !target.IsVariableList():
		r.diags.AddError(diagnostic.CodeUnresolvedCountField,
			fmt.Sprintf("count field %q sizes %q, which is a %s, not a variable list", p.Name, p.Counts, kindName(target)),
			c.Name, p.Name)
	}
	// otherwise the list itself had an ambiguous binding, already reported
}

func validCountType(p *schema.ClassAttribute) bool {
	return p.IsPrimitive() && (p.Primitive == nil || p.Primitive.Kind.IsInteger())
}

func kindName(a *schema.ClassAttribute) string {
	if a.Kind == nil {
		return "untyped"
	}

	return a.Kind.String()
}

func integerAttributeNames(c *schema.GeneratedClass) []string {
	var out []string

	for _, a := range c.Attributes {
		if a.IsPrimitive() {
			out = append(out, a.Name)
		}
	}

	return out
}

func variableListNames(c *schema.GeneratedClass) []string {
	var out []string

	for _, a := range c.Attributes {
		if a.IsVariableList() {
			out = append(out, a.Name)
		}
	}

	return out
}
