package interp

import (
	"github.com/pkg/errors"

	"pdu-generator/internal/plan"
	"pdu-generator/primitive"
	"pdu-generator/wire"
)

// Instance is a dynamic value of one message type. Primitive fields hold
// their Go storage type, references hold *Instance and lists hold []any.
// The parent part is a separate Instance, mirroring an embedded struct.
type Instance struct {
	rt     *Runtime
	plan   *plan.MarshalPlan
	parent *Instance
	fields map[string]any
}

// Type returns the message type name.
func (in *Instance) Type() string {
	return in.plan.Name
}

// Plan returns the plan the instance executes.
func (in *Instance) Plan() *plan.MarshalPlan {
	return in.plan
}

// Parent returns the parent part, nil for root types.
func (in *Instance) Parent() *Instance {
	return in.parent
}

// owner finds the part of the chain that declares field.
func (in *Instance) owner(field string) (*Instance, *plan.Field) {
	for cur := in; cur != nil; cur = cur.parent {
		if f := cur.plan.Field(field); f != nil {
			return cur, f
		}
	}

	return nil, nil
}

// Get returns a field value. A count field reads as the governed list's
// length in the count field's own type.
func (in *Instance) Get(field string) (any, error) {
	part, f := in.owner(field)
	if f == nil {
		return nil, errors.Wrapf(ErrNoField, "%s.%s", in.plan.Name, field)
	}

	if f.IsCount() {
		return primitive.FromUint(f.Elem.Primitive.Kind, uint64(len(part.list(f.CountOf)))), nil
	}

	return part.fields[field], nil
}

// MustGet is Get for fields known to exist.
func (in *Instance) MustGet(field string) any {
	v, err := in.Get(field)
	if err != nil {
		panic(err)
	}

	return v
}

// Set assigns a field. Count fields have no setter; primitive values must
// have the field's exact Go storage type.
func (in *Instance) Set(field string, v any) error {
	part, f := in.owner(field)
	if f == nil {
		return errors.Wrapf(ErrNoField, "%s.%s", in.plan.Name, field)
	}

	return part.set(f, v)
}

// setOn assigns field on the part of the chain declared by owner.
func (in *Instance) setOn(owner, field string, v any) error {
	for cur := in; cur != nil; cur = cur.parent {
		if cur.plan.Name == owner {
			if f := cur.plan.Field(field); f != nil {
				return cur.set(f, v)
			}
		}
	}

	return errors.Wrapf(ErrNoField, "%s.%s", owner, field)
}

func (in *Instance) set(f *plan.Field, v any) error {
	name := in.plan.Name + "." + f.Name

	switch {
	case f.IsCount():
		return errors.Wrapf(ErrNoSetter, "%s is a count field", name)

	case f.IsList():
		list, ok := v.([]any)
		if !ok {
			return errors.Wrapf(ErrTypeMismatch, "%s wants []any, got %T", name, v)
		}

		if f.IsFixedList() && len(list) != f.Length {
			return errors.Wrapf(ErrTypeMismatch, "%s wants %d elements, got %d", name, f.Length, len(list))
		}

		for i, e := range list {
			if err := checkElem(f.Elem, e); err != nil {
				return errors.Wrapf(err, "%s[%d]", name, i)
			}
		}

	case f.Elem.IsClass():
		if err := checkElem(f.Elem, v); err != nil {
			return errors.Wrap(err, name)
		}

	default:
		if err := checkValue(f.Elem.Primitive, v); err != nil {
			return errors.Wrap(err, name)
		}
	}

	in.fields[f.Name] = v

	return nil
}

// list returns a list field of this part.
func (in *Instance) list(field string) []any {
	l, _ := in.fields[field].([]any)
	return l
}

// Append adds one element to a variable list.
func (in *Instance) Append(field string, v any) error {
	part, f := in.owner(field)
	if f == nil || !f.IsVariableList() {
		return errors.Wrapf(ErrNoField, "%s.%s is not a variable list", in.plan.Name, field)
	}

	if err := checkElem(f.Elem, v); err != nil {
		return errors.Wrapf(err, "%s.%s", part.plan.Name, field)
	}

	part.fields[field] = append(part.list(field), v)

	return nil
}

// Text returns a text-capable byte list as a string of all its slots.
func (in *Instance) Text(field string) (string, error) {
	part, acc, err := in.accessor(field)
	if err != nil {
		return "", err
	}

	b := make([]byte, acc.Length)
	for i, e := range part.list(field) {
		b[i] = byte(primitive.AsUint(e))
	}

	return string(b), nil
}

// SetText copies at most the list length of bytes from s, zero-padding the
// rest.
func (in *Instance) SetText(field, s string) error {
	part, acc, err := in.accessor(field)
	if err != nil {
		return err
	}

	buf := make([]uint8, acc.Length)
	wire.CopyText(buf, s)

	list := make([]any, acc.Length)
	for i, b := range buf {
		list[i] = primitive.FromUint(acc.Type.Kind, uint64(b))
	}

	part.fields[field] = list

	return nil
}

func (in *Instance) accessor(field string) (*Instance, plan.TextAccessor, error) {
	for cur := in; cur != nil; cur = cur.parent {
		for _, a := range cur.plan.Accessors {
			if a.Field == field {
				return cur, a, nil
			}
		}
	}

	return nil, plan.TextAccessor{}, errors.Wrapf(ErrNoField, "%s.%s has no text accessor", in.plan.Name, field)
}
