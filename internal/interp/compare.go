package interp

import (
	"github.com/pkg/errors"

	"pdu-generator/internal/plan"
)

// Size evaluates the plan's size expression on the instance.
func (in *Instance) Size() (int, error) {
	s := in.plan.Size
	if s == nil {
		return 0, errors.Wrap(ErrNoSize, in.plan.Name)
	}

	total := s.Fixed

	if s.Parent != "" {
		n, err := in.parent.Size()
		if err != nil {
			return 0, err
		}

		total += n
	}

	for _, t := range s.Dynamic() {
		switch t.Kind {
		case plan.SizeReference:
			n, err := in.fields[t.Field].(*Instance).Size()
			if err != nil {
				return 0, err
			}

			total += n

		case plan.SizeCountTimesWidth:
			total += len(in.list(t.Field)) * t.Bytes

		case plan.SizeElementSum:
			for _, el := range in.list(t.Field) {
				n, err := el.(*Instance).Size()
				if err != nil {
					return 0, err
				}

				total += n
			}
		}
	}

	return total, nil
}

// Equal follows the equality plan: parent part first, then every compared
// field in declaration order. Instances of different types are never equal.
func (in *Instance) Equal(other *Instance) bool {
	if in == nil || other == nil {
		return in == other
	}

	if in.plan != other.plan {
		return false
	}

	eq := in.plan.Equality
	if eq.DelegateParent && !in.parent.Equal(other.parent) {
		return false
	}

	for _, c := range eq.Comparisons {
		a, b := in.fields[c.Field], other.fields[c.Field]

		switch c.Kind {
		case plan.CompareValue:
			if a != b {
				return false
			}

		case plan.CompareReference:
			if !a.(*Instance).Equal(b.(*Instance)) {
				return false
			}

		case plan.CompareFixedList, plan.CompareVariableList:
			if !equalLists(c.Elem, a.([]any), b.([]any)) {
				return false
			}
		}
	}

	return true
}

// NotEqual is the negation of Equal.
func (in *Instance) NotEqual(other *Instance) bool {
	return !in.Equal(other)
}

func equalLists(elem plan.Element, a, b []any) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if elem.IsClass() {
			if !a[i].(*Instance).Equal(b[i].(*Instance)) {
				return false
			}

			continue
		}

		if a[i] != b[i] {
			return false
		}
	}

	return true
}
