package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdu-generator/internal/diagnostic"
	"pdu-generator/internal/schema"
)

func TestValidateClass_FixedListOfClass(t *testing.T) {
	m := resolved(t, `
classes:
  - name: Vec
    attributes:
      - {name: x, primitive: float}
  - name: Path
    attributes:
      - {name: points, fixed_list: {type: Vec, length: 4}}
`)

	d := ValidateClass(m.Class("Path"), Options{Size: true})
	require.Len(t, d.Errors, 1)
	assert.Equal(t, diagnostic.CodeUnsupportedShape, d.Errors[0].Code)
	assert.Equal(t, "Path", d.Errors[0].TypeName)
	assert.Equal(t, "points", d.Errors[0].Field)

	// without size derivation the shape is fine
	d = ValidateClass(m.Class("Path"), Options{})
	assert.True(t, d.IsValid())
}

func TestValidateClass_DecodeOrder(t *testing.T) {
	m := resolved(t, `
classes:
  - name: After
    attributes:
      - {name: items, variable_list: {type: int, count_field: n}}
      - {name: n, primitive: unsigned byte}
  - name: Hidden
    attributes:
      - {name: n, primitive: unsigned byte, count_of: items, serialize: false}
      - {name: items, variable_list: int}
  - name: BothHidden
    attributes:
      - {name: n, primitive: unsigned byte, count_of: items, serialize: false}
      - {name: items, variable_list: int, serialize: false}
`)

	d := ValidateClass(m.Class("After"), Options{})
	require.Len(t, d.Errors, 1)
	assert.Equal(t, diagnostic.CodeUnsupportedShape, d.Errors[0].Code)
	assert.Contains(t, d.Errors[0].Message, "declared after the list")

	d = ValidateClass(m.Class("Hidden"), Options{})
	require.Len(t, d.Errors, 1)
	assert.Contains(t, d.Errors[0].Message, "is not serialized")

	d = ValidateClass(m.Class("BothHidden"), Options{})
	assert.True(t, d.IsValid())
}

func TestValidateClass_UnresolvedModel(t *testing.T) {
	// a model that never went through the resolver
	m, err := schema.Parse([]byte(`
classes:
  - name: A
    parent: Base
    attributes:
      - {name: n, primitive: unsigned byte, count_of: items}
      - {name: items, variable_list: int}
      - {name: ref, class: B}
      - {name: empty, fixed_list: "int[0]"}
    initial_values:
      - {setter: setN, value: "1"}
`))
	require.NoError(t, err)

	d := ValidateClass(m.Class("A"), Options{})

	codes := map[string]int{}
	for _, e := range d.Errors {
		assert.Equal(t, "A", e.TypeName)
		codes[e.Code]++
	}

	assert.Equal(t, map[string]int{
		diagnostic.CodeUnknownType:          5, // parent, n, items, ref, empty
		diagnostic.CodeUnresolvedCountField: 2, // items and n
		diagnostic.CodeUnsupportedShape:     1, // zero length
		diagnostic.CodeUnknownSetter:        1,
	}, codes)
}

func TestValidateClass_KindOutsideClosedSet(t *testing.T) {
	c := &schema.GeneratedClass{
		Name:       "A",
		Attributes: []*schema.ClassAttribute{{Name: "x", Type: "int"}},
	}

	d := ValidateClass(c, Options{})
	require.Len(t, d.Errors, 1)
	assert.Equal(t, diagnostic.CodeUnsupportedShape, d.Errors[0].Code)
	assert.Contains(t, d.Errors[0].Message, "(missing)")
}

func TestValidateClass_CountSizesTwoLists(t *testing.T) {
	m := resolved(t, `
classes:
  - name: A
    attributes:
      - {name: n, primitive: unsigned byte, count_of: a}
      - {name: a, variable_list: int}
      - {name: b, variable_list: {type: int, count_field: m}}
      - {name: m, primitive: unsigned byte}
`)

	// force an illegal binding the resolver would have refused
	c := m.Class("A")
	c.Attribute("b").CountField = c.Attribute("n")

	d := ValidateClass(c, Options{})

	var fields []string
	for _, e := range d.ByCode(diagnostic.CodeUnresolvedCountField) {
		fields = append(fields, e.Field)
	}

	assert.ElementsMatch(t, []string{"b", "n"}, fields)
}
