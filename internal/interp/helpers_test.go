package interp

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"pdu-generator/internal/plan"
	"pdu-generator/internal/resolve"
	"pdu-generator/internal/schema"
	"pdu-generator/primitive"
)

const testSchema = `
classes:
  - name: Pdu
    attributes:
      - {name: protocolVersion, primitive: unsigned byte, default: "6"}
      - {name: pduType, primitive: unsigned byte}
      - {name: timestamp, primitive: unsigned int}
  - name: EntityStatePdu
    parent: Pdu
    attributes:
      - {name: numberOfParameters, primitive: unsigned byte, count_of: parameters}
      - {name: entityID, class: EntityID}
      - {name: marking, fixed_list: "byte[11]", could_be_string: true}
      - {name: parameters, variable_list: Parameter}
      - {name: scratch, primitive: unsigned short, serialize: false, default: "7"}
      - {name: capabilities, primitive: unsigned int}
    initial_values:
      - {setter: setPduType, value: "1"}
  - name: EntityID
    attributes:
      - {name: site, primitive: unsigned short}
      - {name: application, primitive: unsigned short}
      - {name: entity, primitive: unsigned short}
  - name: Parameter
    attributes:
      - {name: typeDesignator, primitive: unsigned byte}
      - {name: value, primitive: double}
  - name: Kitchen
    parent: EntityStatePdu
    attributes:
      - {name: u8, primitive: unsigned byte}
      - {name: u16, primitive: unsigned short}
      - {name: u32, primitive: unsigned int}
      - {name: u64, primitive: unsigned long}
      - {name: i8, primitive: byte}
      - {name: i16, primitive: short}
      - {name: i32, primitive: int}
      - {name: i64, primitive: long}
      - {name: f32, primitive: float}
      - {name: f64, primitive: double}
      - {name: words, fixed_list: "unsigned short[3]"}
      - {name: sampleCount, primitive: short}
      - {name: samples, variable_list: {type: float, count_field: sampleCount}}
      - {name: idCount, primitive: unsigned long}
      - {name: ids, variable_list: {type: EntityID, count_field: idCount}}
  - name: Tree
    attributes:
      - {name: childCount, primitive: unsigned short, count_of: children}
      - {name: label, primitive: int}
      - {name: children, variable_list: Tree}
  - name: Base
    attributes:
      - {name: kind, primitive: unsigned byte}
  - name: Kinded
    parent: Base
    initial_values:
      - {setter: setKind, value: "7"}
      - {setter: setKind, value: "9"}
`

func newRuntime(t *testing.T, src string) (*Runtime, *plan.PlanSet) {
	t.Helper()

	m, err := schema.Parse([]byte(src))
	require.NoError(t, err)

	_, err = resolve.Resolve(m, nil)
	require.NoError(t, err)

	set, err := plan.DeriveAll(context.Background(), m, plan.SetOptions{
		Options: plan.Options{Size: true},
		Workers: 2,
	})
	require.NoError(t, err)

	return NewRuntime(set.Plans), set
}

func mustNew(t *testing.T, rt *Runtime, name string) *Instance {
	t.Helper()

	in, err := rt.New(name)
	require.NoError(t, err)

	return in
}

// randomize fills every serialized stored field of in with pseudo-random
// values. Fields that are not on the wire keep their defaults so that a
// decoded copy compares equal.
func randomize(t *testing.T, rng *rand.Rand, in *Instance, depth int) {
	t.Helper()

	for part := in; part != nil; part = part.Parent() {
		for _, f := range part.Plan().Fields {
			if f.IsCount() || !f.Serialized {
				continue
			}

			require.NoError(t, part.Set(f.Name, randomField(t, rng, in.rt, f, depth)))
		}
	}
}

func randomField(t *testing.T, rng *rand.Rand, rt *Runtime, f *plan.Field, depth int) any {
	switch {
	case f.IsFixedList():
		list := make([]any, f.Length)
		for i := range list {
			list[i] = randomElem(t, rng, rt, f.Elem, depth)
		}

		return list

	case f.IsVariableList():
		n := 0
		if depth < 3 {
			n = rng.IntN(4)
		}

		list := make([]any, n)
		for i := range list {
			list[i] = randomElem(t, rng, rt, f.Elem, depth)
		}

		return list

	default:
		return randomElem(t, rng, rt, f.Elem, depth)
	}
}

func randomElem(t *testing.T, rng *rand.Rand, rt *Runtime, e plan.Element, depth int) any {
	if e.IsClass() {
		in := mustNew(t, rt, e.Class)
		randomize(t, rng, in, depth+1)

		return in
	}

	return randomValue(rng, e.Primitive)
}

func randomValue(rng *rand.Rand, p *primitive.Type) any {
	switch p.Kind {
	case primitive.KindFloat32:
		return float32(rng.NormFloat64() * 1000)
	case primitive.KindFloat64:
		return rng.NormFloat64() * 1e6
	default:
		return primitive.FromUint(p.Kind, rng.Uint64())
	}
}

// bump returns a value of the same type that differs from v.
func bump(p *primitive.Type, v any) any {
	switch x := v.(type) {
	case float32:
		return x + 1
	case float64:
		return x + 1
	default:
		return primitive.FromUint(p.Kind, primitive.AsUint(v)+1)
	}
}
