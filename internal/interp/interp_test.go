package interp

import (
	"bytes"
	"encoding/hex"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdu-generator/wire"
)

var wireTypes = []string{"Pdu", "EntityStatePdu", "EntityID", "Parameter", "Kitchen", "Tree", "Kinded"}

func TestEntityState_Bytes(t *testing.T) {
	rt, _ := newRuntime(t, testSchema)

	es := mustNew(t, rt, "EntityStatePdu")

	id := es.MustGet("entityID").(*Instance)
	require.NoError(t, id.Set("site", uint16(1)))
	require.NoError(t, id.Set("application", uint16(2)))
	require.NoError(t, id.Set("entity", uint16(3)))
	require.NoError(t, es.SetText("marking", "AB"))

	param := mustNew(t, rt, "Parameter")
	require.NoError(t, param.Set("typeDesignator", uint8(5)))
	require.NoError(t, param.Set("value", 1.0))
	require.NoError(t, es.Append("parameters", param))
	require.NoError(t, es.Set("capabilities", uint32(0x01020304)))

	data, err := es.Marshal()
	require.NoError(t, err)

	want := "06" + "01" + "00000000" + // Pdu
		"01" + // numberOfParameters, from len(parameters)
		"000100020003" + // entityID
		"4142" + strings.Repeat("00", 9) + // marking
		"05" + "3ff0000000000000" + // parameter
		"01020304" // capabilities
	assert.Equal(t, want, hex.EncodeToString(data))

	size, err := es.Size()
	require.NoError(t, err)
	assert.Equal(t, 37, size)
	assert.Len(t, data, size)
}

func TestRoundTrip(t *testing.T) {
	rt, _ := newRuntime(t, testSchema)
	rng := rand.New(rand.NewPCG(1, 2))

	for _, name := range wireTypes {
		t.Run(name, func(t *testing.T) {
			for range 50 {
				x := mustNew(t, rt, name)
				randomize(t, rng, x, 0)

				data, err := x.Marshal()
				require.NoError(t, err)

				// size fidelity
				size, err := x.Size()
				require.NoError(t, err)
				require.Len(t, data, size)

				y := mustNew(t, rt, name)
				require.NoError(t, y.Unmarshal(data))
				require.True(t, x.Equal(y), "decoded copy differs:\n%s", spew.Sdump(data))
				require.False(t, x.NotEqual(y))

				again, err := y.Marshal()
				require.NoError(t, err)
				require.Equal(t, data, again)
			}
		})
	}
}

func TestLayoutPrefix(t *testing.T) {
	rt, _ := newRuntime(t, testSchema)
	rng := rand.New(rand.NewPCG(3, 4))

	for range 20 {
		k := mustNew(t, rt, "Kitchen")
		randomize(t, rng, k, 0)

		data, err := k.Marshal()
		require.NoError(t, err)

		for part := k.Parent(); part != nil; part = part.Parent() {
			prefix, err := part.Marshal()
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, prefix), "%s layout is not a prefix", part.Type())
		}
	}
}

func TestCountConsistency(t *testing.T) {
	rt, _ := newRuntime(t, testSchema)
	rng := rand.New(rand.NewPCG(5, 6))

	for range 20 {
		x := mustNew(t, rt, "Kitchen")
		randomize(t, rng, x, 0)

		data, err := x.Marshal()
		require.NoError(t, err)

		y := mustNew(t, rt, "Kitchen")
		require.NoError(t, y.Unmarshal(data))

		samples, _ := y.MustGet("samples").([]any)
		assert.Equal(t, int16(len(samples)), y.MustGet("sampleCount"))

		ids, _ := y.MustGet("ids").([]any)
		assert.Equal(t, uint64(len(ids)), y.MustGet("idCount"))

		// growing the list changes the encoded count without touching it
		require.NoError(t, y.Append("samples", float32(1.5)))
		assert.Equal(t, int16(len(samples)+1), y.MustGet("sampleCount"))

		grown, err := y.Marshal()
		require.NoError(t, err)

		z := mustNew(t, rt, "Kitchen")
		require.NoError(t, z.Unmarshal(grown))
		assert.Equal(t, int16(len(samples)+1), z.MustGet("sampleCount"))
		assert.True(t, y.Equal(z))
	}
}

func TestCountField_HasNoSetter(t *testing.T) {
	rt, _ := newRuntime(t, testSchema)
	es := mustNew(t, rt, "EntityStatePdu")

	err := es.Set("numberOfParameters", uint8(3))
	require.Error(t, err)
	assert.Equal(t, ErrNoSetter, errors.Cause(err))
	assert.Equal(t, uint8(0), es.MustGet("numberOfParameters"))
}

func TestEqualitySensitivity(t *testing.T) {
	rt, _ := newRuntime(t, testSchema)
	rng := rand.New(rand.NewPCG(7, 8))

	x := mustNew(t, rt, "Kitchen")
	randomize(t, rng, x, 0)

	data, err := x.Marshal()
	require.NoError(t, err)

	for part := x; part != nil; part = part.Parent() {
		for _, f := range part.Plan().Fields {
			if f.IsCount() {
				continue
			}

			y := mustNew(t, rt, "Kitchen")
			require.NoError(t, y.Unmarshal(data))
			require.True(t, x.Equal(y))

			v := y.MustGet(f.Name)

			switch {
			case f.IsVariableList():
				elem := randomElem(t, rng, rt, f.Elem, 0)
				require.NoError(t, y.Append(f.Name, elem))

			case f.IsFixedList() && !f.Elem.IsClass():
				list := append([]any(nil), v.([]any)...)
				list[0] = bump(f.Elem.Primitive, list[0])
				require.NoError(t, y.Set(f.Name, list))

			case f.Elem.IsClass():
				ref := v.(*Instance)
				first := ref.Plan().Fields[0]
				require.NoError(t, ref.Set(first.Name, bump(first.Elem.Primitive, ref.MustGet(first.Name))))

			default:
				require.NoError(t, y.Set(f.Name, bump(f.Elem.Primitive, v)))
			}

			assert.True(t, x.NotEqual(y), "changing %s.%s went unnoticed", part.Type(), f.Name)
		}
	}
}

func TestEqual_DifferentTypes(t *testing.T) {
	rt, _ := newRuntime(t, testSchema)

	assert.False(t, mustNew(t, rt, "Pdu").Equal(mustNew(t, rt, "Base")))
	assert.False(t, mustNew(t, rt, "Pdu").Equal(nil))
}

func TestConstructionDefaults(t *testing.T) {
	rt, _ := newRuntime(t, testSchema)

	es := mustNew(t, rt, "EntityStatePdu")
	assert.Equal(t, uint8(6), es.MustGet("protocolVersion"))
	assert.Equal(t, uint8(1), es.MustGet("pduType"))
	assert.Equal(t, uint32(0), es.MustGet("timestamp"))
	assert.Equal(t, uint16(7), es.MustGet("scratch"))
	assert.Equal(t, []any{}, es.MustGet("parameters"))

	marking := es.MustGet("marking").([]any)
	require.Len(t, marking, 11)

	for _, b := range marking {
		assert.Equal(t, int8(0), b)
	}

	id := es.MustGet("entityID").(*Instance)
	assert.Equal(t, "EntityID", id.Type())
	assert.Equal(t, uint16(0), id.MustGet("site"))

	k := mustNew(t, rt, "Kitchen")
	assert.Equal(t, float32(0), k.MustGet("f32"))
	assert.Equal(t, float64(0), k.MustGet("f64"))
	assert.Equal(t, []any{uint16(0), uint16(0), uint16(0)}, k.MustGet("words"))

	// later initial values overwrite earlier ones
	kinded := mustNew(t, rt, "Kinded")
	assert.Equal(t, uint8(9), kinded.MustGet("kind"))

	// a plain parent keeps its own default
	assert.Equal(t, uint8(0), mustNew(t, rt, "Base").MustGet("kind"))
}

func TestNonSerializedFieldIsCompared(t *testing.T) {
	rt, _ := newRuntime(t, testSchema)

	a := mustNew(t, rt, "EntityStatePdu")
	b := mustNew(t, rt, "EntityStatePdu")
	require.True(t, a.Equal(b))

	require.NoError(t, b.Set("scratch", uint16(8)))

	// same bytes on the wire, yet not equal
	da, err := a.Marshal()
	require.NoError(t, err)
	db, err := b.Marshal()
	require.NoError(t, err)

	assert.Equal(t, da, db)
	assert.True(t, a.NotEqual(b))
}

func TestTextAccessor(t *testing.T) {
	rt, _ := newRuntime(t, testSchema)
	es := mustNew(t, rt, "EntityStatePdu")

	require.NoError(t, es.SetText("marking", "TANK"))
	text, err := es.Text("marking")
	require.NoError(t, err)
	assert.Equal(t, "TANK\x00\x00\x00\x00\x00\x00\x00", text)

	require.NoError(t, es.SetText("marking", "A VERY LONG MARKING"))
	text, err = es.Text("marking")
	require.NoError(t, err)
	assert.Equal(t, "A VERY LONG", text)

	size, err := es.Size()
	require.NoError(t, err)
	assert.Equal(t, 6+16+6, size)

	_, err = es.Text("capabilities")
	assert.Equal(t, ErrNoField, errors.Cause(err))
}

func TestDecode_ShortInput(t *testing.T) {
	rt, _ := newRuntime(t, testSchema)

	es := mustNew(t, rt, "EntityStatePdu")
	param := mustNew(t, rt, "Parameter")
	require.NoError(t, es.Append("parameters", param))

	data, err := es.Marshal()
	require.NoError(t, err)

	for _, n := range []int{0, 3, 7, len(data) - 1} {
		y := mustNew(t, rt, "EntityStatePdu")
		err := y.Unmarshal(data[:n])
		require.Error(t, err, "prefix of %d bytes", n)
		assert.Equal(t, wire.ErrShortRead, errors.Cause(err))
	}
}

func TestDecode_HugeCount(t *testing.T) {
	rt, _ := newRuntime(t, testSchema)

	// idCount claims 2^40 entity IDs
	k := mustNew(t, rt, "Kitchen")
	data, err := k.Marshal()
	require.NoError(t, err)

	idCountAt := len(data) - 8
	copy(data[idCountAt:], []byte{0, 0, 1, 0, 0, 0, 0, 0})

	y := mustNew(t, rt, "Kitchen")
	err = y.Unmarshal(data)
	require.Error(t, err)
	assert.Equal(t, wire.ErrShortRead, errors.Cause(err))
}

func TestSetTypeChecks(t *testing.T) {
	rt, _ := newRuntime(t, testSchema)
	es := mustNew(t, rt, "EntityStatePdu")

	assert.Equal(t, ErrTypeMismatch, errors.Cause(es.Set("capabilities", 5)))
	assert.Equal(t, ErrTypeMismatch, errors.Cause(es.Set("marking", []any{int8(1)})))
	assert.Equal(t, ErrTypeMismatch, errors.Cause(es.Set("entityID", mustNew(t, rt, "Parameter"))))
	assert.Equal(t, ErrNoField, errors.Cause(es.Set("nope", uint8(1))))

	_, err := rt.New("Nope")
	assert.Equal(t, ErrUnknownType, errors.Cause(err))
}

func TestListElementTypeChecks(t *testing.T) {
	rt, _ := newRuntime(t, testSchema)
	es := mustNew(t, rt, "EntityStatePdu")

	tests := []struct {
		name string
		run  func() error
	}{
		{"append wrong message type", func() error { return es.Append("parameters", mustNew(t, rt, "EntityID")) }},
		{"append non-instance", func() error { return es.Append("parameters", "not a parameter") }},
		{"append nil instance", func() error { return es.Append("parameters", (*Instance)(nil)) }},
		{"set list with wrong message type", func() error {
			return es.Set("parameters", []any{mustNew(t, rt, "Parameter"), mustNew(t, rt, "EntityID")})
		}},
		{"set fixed list with wrong primitive", func() error {
			marking := make([]any, 11)
			for i := range marking {
				marking[i] = int8(0)
			}

			marking[4] = uint8(1)

			return es.Set("marking", marking)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, ErrTypeMismatch, errors.Cause(tt.run()))
		})
	}

	// rejected values leave the instance encodable
	assert.Equal(t, uint8(0), es.MustGet("numberOfParameters"))

	_, err := es.Marshal()
	require.NoError(t, err)

	require.NoError(t, es.Set("parameters", []any{mustNew(t, rt, "Parameter")}))
	assert.Equal(t, uint8(1), es.MustGet("numberOfParameters"))
}

func TestEncode_CountOverflow(t *testing.T) {
	rt, _ := newRuntime(t, testSchema)
	es := mustNew(t, rt, "EntityStatePdu")

	for range 255 {
		require.NoError(t, es.Append("parameters", mustNew(t, rt, "Parameter")))
	}

	_, err := es.Marshal()
	require.NoError(t, err, "255 elements fit an unsigned byte count")

	require.NoError(t, es.Append("parameters", mustNew(t, rt, "Parameter")))

	_, err = es.Marshal()
	require.Error(t, err)
	assert.Equal(t, ErrCountOverflow, errors.Cause(err))
	assert.Contains(t, err.Error(), "parameters has 256 elements")
}
