package gen

import (
	"context"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"

	"pdu-generator/internal/plan"
	"pdu-generator/internal/resolve"
	"pdu-generator/internal/schema"
	"pdu-generator/primitive"
)

const disSchema = `
classes:
  - name: Pdu
    comment: Header shared by all PDUs.
    attributes:
      - {name: protocolVersion, primitive: unsigned byte, default: "6"}
      - {name: pduType, primitive: unsigned byte}
      - {name: length, primitive: unsigned short}
  - name: EntityStatePdu
    parent: Pdu
    attributes:
      - {name: numberOfParameters, primitive: unsigned byte, count_of: parameters}
      - {name: entityID, class: EntityID, comment: Unique entity ID}
      - {name: marking, fixed_list: "byte[11]", could_be_string: true}
      - {name: parameters, variable_list: Parameter}
      - {name: scratch, primitive: unsigned short, serialize: false}
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
  - name: Signal
    attributes:
      - {name: sampleCount, primitive: short}
      - {name: samples, variable_list: {type: float, count_field: sampleCount}}
      - {name: type, primitive: int}
`

// trackSchema needs size methods disabled: a fixed list of message types
// has no closed-form size.
const trackSchema = `
classes:
  - name: Point
    attributes:
      - {name: x, primitive: float}
      - {name: y, primitive: float}
  - name: Track
    attributes:
      - {name: history, fixed_list: {type: Point, length: 2}}
      - {name: id, primitive: unsigned int, default: "0x10"}
`

func plansFor(t *testing.T, src string, size bool) []*plan.MarshalPlan {
	t.Helper()

	m, err := schema.Parse([]byte(src))
	require.NoError(t, err)

	_, err = resolve.Resolve(m, primitive.DefaultCatalog())
	require.NoError(t, err)

	set, err := plan.DeriveAll(context.Background(), m, plan.SetOptions{
		Options: plan.Options{Size: size},
		Workers: 2,
	})
	require.NoError(t, err)
	require.Empty(t, set.Rejected, "diagnostics: %v", set.Diagnostics.Error())

	return set.Plans
}

func planNamed(t *testing.T, plans []*plan.MarshalPlan, name string) *plan.MarshalPlan {
	t.Helper()

	for _, p := range plans {
		if p.Name == name {
			return p
		}
	}

	require.Failf(t, "plan not found", "no plan for %s", name)

	return nil
}

func newTestEmitter(t *testing.T) *GoEmitter {
	t.Helper()

	e, err := NewGoEmitter(Config{PackageName: "pdu", Comments: true})
	require.NoError(t, err)

	return e
}

// mustParse checks that src is syntactically valid Go.
func mustParse(t *testing.T, name string, src []byte) {
	t.Helper()

	_, err := parser.ParseFile(token.NewFileSet(), name, src, parser.ParseComments)
	require.NoError(t, err, "generated source:\n%s", src)
}
