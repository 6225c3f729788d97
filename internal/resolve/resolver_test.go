package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdu-generator/internal/diagnostic"
	"pdu-generator/internal/schema"
	"pdu-generator/primitive"
)

func parse(t *testing.T, src string) *schema.Model {
	t.Helper()

	m, err := schema.Parse([]byte(src))
	require.NoError(t, err)

	return m
}

func resolveErr(t *testing.T, src string) *Result {
	t.Helper()

	res, err := Resolve(parse(t, src), primitive.DefaultCatalog())
	require.ErrorIs(t, err, ErrUnresolved)
	require.NotNil(t, res)

	return res
}

const validSchema = `
classes:
  - name: EntityStatePdu
    parent: Pdu
    attributes:
      - name: numberOfParameters
        primitive: unsigned byte
        count_of: parameters
      - name: entityID
        class: EntityID
      - name: marking
        fixed_list: byte[11]
        could_be_string: true
      - name: parameters
        variable_list: Parameter
    initial_values:
      - {setter: setPduType, value: "1"}
  - name: Pdu
    attributes:
      - name: protocolVersion
        primitive: Unsigned  Byte
        default: "6"
      - name: pduType
        primitive: unsigned byte
  - name: EntityID
    attributes:
      - name: site
        primitive: unsigned short
  - name: Parameter
    attributes:
      - name: id
        primitive: unsigned int
      - name: children
        variable_list: {type: Parameter, count_field: childCount}
      - name: childCount
        primitive: unsigned short
`

func TestResolve_Valid(t *testing.T) {
	m := parse(t, validSchema)

	res, err := Resolve(m, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics.Errors)
	assert.Empty(t, res.Diagnostics.Warnings)

	es := m.Class("EntityStatePdu")
	pdu := m.Class("Pdu")
	assert.Same(t, pdu, es.ParentClass)

	count := es.Attribute("numberOfParameters")
	params := es.Attribute("parameters")
	assert.Same(t, params, count.CountedList)
	assert.Same(t, count, params.CountField)
	assert.Same(t, m.Class("Parameter"), params.Class)
	assert.Nil(t, params.Primitive)

	assert.Same(t, m.Class("EntityID"), es.Attribute("entityID").Class)
	assert.Equal(t, primitive.KindInt8, es.Attribute("marking").Primitive.Kind)
	assert.Equal(t, "unsigned byte", pdu.Attribute("protocolVersion").Primitive.Name)

	// count_field on the list flags the named attribute
	param := m.Class("Parameter")
	childCount := param.Attribute("childCount")
	assert.True(t, childCount.IsDynamicListLengthField)
	assert.Equal(t, "children", childCount.Counts)
	assert.Same(t, childCount, param.Attribute("children").CountField)

	require.Len(t, es.InitialValues, 1)
	assert.Same(t, pdu.Attribute("pduType"), es.InitialValues[0].Target)

	names := make([]string, len(res.Order))
	for i, c := range res.Order {
		names[i] = c.Name
	}

	assert.Equal(t, []string{"Pdu", "EntityID", "EntityStatePdu", "Parameter"}, names)
}

func TestResolve_UnknownTypes(t *testing.T) {
	res := resolveErr(t, `
classes:
  - name: Pdu
  - name: Child
    parent: Pdus
    attributes:
      - name: a
        primitive: unsigned shrt
      - name: b
        class: EntityId
      - name: c
        fixed_list: Nothing[2]
      - name: d
        primitive: EntityID
  - name: EntityID
`)

	errs := res.Diagnostics.ByCode(diagnostic.CodeUnknownType)
	require.Len(t, errs, 5)

	byField := map[string]diagnostic.Diagnostic{}
	for _, d := range errs {
		assert.Equal(t, "Child", d.TypeName)
		byField[d.Field] = d
	}

	assert.Contains(t, byField[""].Suggestions, "Pdu")
	assert.Equal(t, "unsigned short", byField["a"].Suggestions[0])
	assert.Equal(t, []string{"EntityID"}, byField["b"].Suggestions)
	assert.Contains(t, byField["c"].Message, "list element type")
	assert.Contains(t, byField["d"].Message, "declare the attribute with class:")
}

func TestResolve_DuplicateNames(t *testing.T) {
	res := resolveErr(t, `
classes:
  - name: A
    attributes:
      - {name: x, primitive: int}
      - {name: x, primitive: short}
  - name: A
`)

	dups := res.Diagnostics.ByCode(diagnostic.CodeDuplicateName)
	require.Len(t, dups, 2)
}

func TestResolve_CountBinding(t *testing.T) {
	tests := []struct {
		name      string
		attrs     string
		wantField string
		wantMsg   string
	}{
		{
			name: "list without count",
			attrs: `
      - {name: items, variable_list: int}`,
			wantField: "items",
			wantMsg:   "has no count field",
		},
		{
			name: "two count fields",
			attrs: `
      - {name: n1, primitive: unsigned byte, count_of: items}
      - {name: n2, primitive: unsigned byte, count_of: items}
      - {name: items, variable_list: int}`,
			wantField: "items",
			wantMsg:   "has 2 count fields",
		},
		{
			name: "count field sizes two lists",
			attrs: `
      - {name: n, primitive: unsigned byte, count_of: a}
      - {name: a, variable_list: int}
      - {name: b, variable_list: {type: int, count_field: n}}`,
			wantField: "n",
			wantMsg:   `sizes both "a" and "b"`,
		},
		{
			name: "count field names nothing",
			attrs: `
      - {name: n, primitive: unsigned byte, count_of: itemz}
      - {name: m, primitive: unsigned byte, count_of: items}
      - {name: items, variable_list: int}`,
			wantField: "n",
			wantMsg:   "which is not declared",
		},
		{
			name: "count field is not integer",
			attrs: `
      - {name: n, primitive: float, count_of: items}
      - {name: items, variable_list: int}`,
			wantField: "n",
			wantMsg:   "must be an integer primitive",
		},
		{
			name: "named count field missing",
			attrs: `
      - {name: items, variable_list: {type: int, count_field: numItems}}`,
			wantField: "items",
			wantMsg:   `count field "numItems" of list "items" is not declared`,
		},
		{
			name: "count of a non list",
			attrs: `
      - {name: n, primitive: unsigned byte, count_of: other}
      - {name: other, primitive: int}`,
			wantField: "n",
			wantMsg:   "not a variable list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := resolveErr(t, "classes:\n  - name: A\n    attributes:"+tt.attrs+"\n")

			errs := res.Diagnostics.ByCode(diagnostic.CodeUnresolvedCountField)
			require.Len(t, errs, 1, "%v", res.Diagnostics.Errors)
			assert.Equal(t, "A", errs[0].TypeName)
			assert.Equal(t, tt.wantField, errs[0].Field)
			assert.Contains(t, errs[0].Message, tt.wantMsg)
		})
	}
}

func TestResolve_Cycles(t *testing.T) {
	t.Run("composition", func(t *testing.T) {
		res := resolveErr(t, `
classes:
  - name: A
    attributes:
      - {name: b, class: B}
  - name: B
    attributes:
      - {name: a, fixed_list: {type: A, length: 2}}
  - name: C
    attributes:
      - {name: a, class: A}
`)

		errs := res.Diagnostics.ByCode(diagnostic.CodeCompositionCycle)
		require.Len(t, errs, 2)
		assert.Equal(t, "A", errs[0].TypeName)
		assert.Contains(t, errs[0].Message, "A -> B -> A")
		assert.Equal(t, "B", errs[1].TypeName)
		assert.Empty(t, res.Order)
	})

	t.Run("inheritance", func(t *testing.T) {
		res := resolveErr(t, `
classes:
  - {name: A, parent: B}
  - {name: B, parent: A}
`)
		assert.Len(t, res.Diagnostics.ByCode(diagnostic.CodeCompositionCycle), 2)
	})

	t.Run("self reference through variable list", func(t *testing.T) {
		_, err := Resolve(parse(t, `
classes:
  - name: Node
    attributes:
      - {name: n, primitive: unsigned short, count_of: kids}
      - {name: kids, variable_list: Node}
`), nil)
		require.NoError(t, err)
	})
}

func TestResolve_InitialValues(t *testing.T) {
	m := parse(t, `
classes:
  - name: Base
    attributes:
      - {name: pduType, primitive: unsigned byte}
      - {name: n, primitive: unsigned byte, count_of: items}
      - {name: items, variable_list: int}
      - {name: id, class: Id}
  - name: Id
  - name: Child
    parent: Base
    initial_values:
      - {setter: setPduTyp, value: "1"}
      - {setter: setPduType, value: "300"}
      - {setter: setN, value: "1"}
      - {setter: setId, value: "1"}
      - {setter: pduType, value: "0x10"}
`)

	res, err := Resolve(m, nil)
	require.ErrorIs(t, err, ErrUnresolved)

	// sorted by field
	setters := res.Diagnostics.ByCode(diagnostic.CodeUnknownSetter)
	require.Len(t, setters, 3)
	assert.Equal(t, "setId", setters[0].Field)
	assert.Contains(t, setters[0].Message, "initial values only set primitives")
	assert.Equal(t, "setN", setters[1].Field)
	assert.Contains(t, setters[1].Message, "which has no setter")
	assert.Equal(t, "setPduTyp", setters[2].Field)
	assert.Equal(t, []string{"setPduType"}, setters[2].Suggestions)

	literals := res.Diagnostics.ByCode(diagnostic.CodeInvalidLiteral)
	require.Len(t, literals, 1)
	assert.Equal(t, "setPduType", literals[0].Field)

	// the bare field name form binds through the parent chain
	ivs := m.Class("Child").InitialValues
	assert.Same(t, m.Class("Base").Attribute("pduType"), ivs[4].Target)
	assert.Nil(t, ivs[0].Target)
}

func TestResolve_Hints(t *testing.T) {
	m := parse(t, `
classes:
  - name: A
    attributes:
      - {name: s, fixed_list: "unsigned short[4]", could_be_string: true}
      - {name: r, class: B, default: "1"}
  - name: B
  - name: C
    attributes:
      - {name: n, primitive: unsigned byte, default: "2"}
      - {name: l, variable_list: {type: short, count_field: n}}
`)

	res, err := Resolve(m, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics.Errors)

	text := res.Diagnostics.ByCode(diagnostic.CodeCouldBeStringIgnored)
	require.Len(t, text, 1)
	assert.Equal(t, diagnostic.DiagnosticWarning, text[0].Severity)
	assert.Equal(t, "s", text[0].Field)

	defaults := res.Diagnostics.ByCode(diagnostic.CodeDefaultIgnored)
	require.Len(t, defaults, 2)

	var fields []string
	for _, d := range defaults {
		assert.Equal(t, diagnostic.DiagnosticWarning, d.Severity)
		fields = append(fields, d.TypeName+"."+d.Field)
	}

	assert.ElementsMatch(t, []string{"A.r", "C.n"}, fields)

	res = resolveErr(t, `
classes:
  - name: A
    attributes:
      - {name: v, primitive: short, default: "abc"}
`)
	assert.Len(t, res.Diagnostics.ByCode(diagnostic.CodeInvalidLiteral), 1)
}
