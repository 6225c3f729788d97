package interp

import (
	"reflect"

	"github.com/pkg/errors"

	"pdu-generator/internal/plan"
	"pdu-generator/primitive"
)

var (
	// ErrUnknownType is returned for a type with no accepted plan.
	ErrUnknownType = errors.New("interp: unknown type")
	// ErrNoField is returned for a field the instance does not have.
	ErrNoField = errors.New("interp: no such field")
	// ErrNoSetter is returned when assigning a count field.
	ErrNoSetter = errors.New("interp: field has no setter")
	// ErrTypeMismatch is returned when a value does not match the field type.
	ErrTypeMismatch = errors.New("interp: value type mismatch")
	// ErrNoSize is returned when plans were derived without size expressions.
	ErrNoSize = errors.New("interp: plan has no size expression")
	// ErrCountOverflow is returned when a list is longer than its count
	// field can represent on the wire.
	ErrCountOverflow = errors.New("interp: list too long for its count field")
)

// Runtime executes a set of linked plans.
type Runtime struct {
	plans map[string]*plan.MarshalPlan
}

// NewRuntime indexes plans by type name. Parent links must be set, as done
// by plan.DeriveAll.
func NewRuntime(plans []*plan.MarshalPlan) *Runtime {
	rt := &Runtime{plans: make(map[string]*plan.MarshalPlan, len(plans))}
	for _, p := range plans {
		rt.plans[p.Name] = p
	}

	return rt
}

// Plan returns the plan for a type name.
func (rt *Runtime) Plan(name string) (*plan.MarshalPlan, bool) {
	p, ok := rt.plans[name]
	return p, ok
}

// New constructs a default instance: parent part first, then field
// defaults, then initial values in declared order.
func (rt *Runtime) New(typeName string) (*Instance, error) {
	p, ok := rt.plans[typeName]
	if !ok {
		return nil, errors.Wrap(ErrUnknownType, typeName)
	}

	return rt.construct(p)
}

func (rt *Runtime) construct(p *plan.MarshalPlan) (*Instance, error) {
	inst := &Instance{rt: rt, plan: p, fields: make(map[string]any, len(p.Fields))}

	if p.Construct.DelegateParent {
		if p.Parent == nil {
			return nil, errors.Wrapf(ErrUnknownType, "parent %s of %s", p.ParentName, p.Name)
		}

		parent, err := rt.construct(p.Parent)
		if err != nil {
			return nil, err
		}

		inst.parent = parent
	}

	for _, d := range p.Construct.Defaults {
		v, err := rt.defaultValue(d)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", p.Name, d.Field)
		}

		inst.fields[d.Field] = v
	}

	for _, a := range p.Construct.InitialValues {
		if err := inst.setOn(a.Owner, a.Field, a.Value); err != nil {
			return nil, errors.Wrapf(err, "%s initial value %s", p.Name, a.Setter)
		}
	}

	return inst, nil
}

func (rt *Runtime) defaultValue(d plan.FieldDefault) (any, error) {
	switch d.Kind {
	case plan.DefaultValue:
		return d.Value, nil

	case plan.DefaultConstruct:
		return rt.New(d.Elem.Class)

	case plan.DefaultZeroList:
		list := make([]any, d.Length)
		for i := range list {
			v, err := rt.zero(d.Elem)
			if err != nil {
				return nil, err
			}

			list[i] = v
		}

		return list, nil

	case plan.DefaultEmptyList:
		return []any{}, nil

	default:
		return nil, errors.Errorf("interp: default kind %v", d.Kind)
	}
}

// zero is the element zero value: typed zero for primitives, a default
// instance for message types.
func (rt *Runtime) zero(e plan.Element) (any, error) {
	if e.IsClass() {
		return rt.New(e.Class)
	}

	return e.Primitive.Zero(), nil
}

// checkValue reports whether v has the Go storage type of t.
func checkValue(t *primitive.Type, v any) error {
	if reflect.TypeOf(v) != reflect.TypeOf(t.Zero()) {
		return errors.Wrapf(ErrTypeMismatch, "want %s, got %T", t.GoType(), v)
	}

	return nil
}

// checkElem reports whether v can be stored as one element of e: an
// *Instance of the element type, or a primitive of the exact storage type.
func checkElem(e plan.Element, v any) error {
	if !e.IsClass() {
		return checkValue(e.Primitive, v)
	}

	ref, ok := v.(*Instance)
	if !ok || ref == nil {
		return errors.Wrapf(ErrTypeMismatch, "want a %s instance, got %T", e.Class, v)
	}

	if ref.Type() != e.Class {
		return errors.Wrapf(ErrTypeMismatch, "want a %s instance, got %s", e.Class, ref.Type())
	}

	return nil
}
