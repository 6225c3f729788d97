package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pdu-generator/internal/resolve"
	"pdu-generator/internal/schema"
	"pdu-generator/primitive"
)

var catalog = primitive.DefaultCatalog()

const disSchema = `
classes:
  - name: EntityStatePdu
    parent: Pdu
    attributes:
      - {name: numberOfParameters, primitive: unsigned byte, count_of: parameters}
      - {name: entityID, class: EntityID}
      - {name: marking, fixed_list: "byte[11]", could_be_string: true}
      - {name: parameters, variable_list: Parameter}
      - {name: scratch, primitive: unsigned short, serialize: false}
      - {name: capabilities, primitive: unsigned int}
    initial_values:
      - {setter: setPduType, value: "1"}
  - name: Pdu
    attributes:
      - {name: protocolVersion, primitive: unsigned byte, default: "6"}
      - {name: pduType, primitive: unsigned byte}
      - {name: length, primitive: unsigned short}
  - name: EntityID
    attributes:
      - {name: site, primitive: unsigned short}
      - {name: application, primitive: unsigned short}
      - {name: entity, primitive: unsigned short}
  - name: Parameter
    attributes:
      - {name: typeDesignator, primitive: unsigned byte}
      - {name: value, primitive: double}
`

// resolved parses and resolves src, failing the test on any error.
func resolved(t *testing.T, src string) *schema.Model {
	t.Helper()

	m, err := schema.Parse([]byte(src))
	require.NoError(t, err)

	_, err = resolve.Resolve(m, catalog)
	require.NoError(t, err)

	return m
}

func deriveSet(t *testing.T, src string, size bool) *PlanSet {
	t.Helper()

	set, err := DeriveAll(context.Background(), resolved(t, src), SetOptions{
		Options: Options{Size: size},
		Workers: 4,
	})
	require.NoError(t, err)

	return set
}

func prim(name string) *primitive.Type {
	return catalog.MustLookup(name)
}
