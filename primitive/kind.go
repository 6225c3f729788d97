package primitive

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum identifies a wire primitive independently of the name the schema
// uses for it.
type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

func (k KindEnum) IsValid() bool {
	return k > 0 && int(k) < KindTotal
}

func (k KindEnum) IsInteger() bool {
	switch k {
	default:
		return false
	case KindUint8, KindUint16, KindUint32, KindUint64,
		KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt8, KindInt16, KindInt32, KindInt64, KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("bits requested for invalid kind: " + k.String())
	case KindUint8, KindInt8:
		return 8
	case KindUint16, KindInt16:
		return 16
	case KindUint32, KindInt32, KindFloat32:
		return 32
	case KindUint64, KindInt64, KindFloat64:
		return 64
	}
}

// MaxUint is the largest non-negative integer the kind holds, 0 for floats.
func (k KindEnum) MaxUint() uint64 {
	if !k.IsInteger() {
		return 0
	}

	bits := k.Bits()
	if k.IsSigned() {
		bits--
	}

	return ^uint64(0) >> (64 - bits)
}

// GoType is the Go spelling of the storage type.
func (k KindEnum) GoType() string {
	switch k {
	default:
		panic("go type requested for invalid kind: " + k.String())
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	}
}

// Method is the suffix shared by the wire.Reader and wire.Writer methods for
// this kind (Uint16, Float64, ...).
func (k KindEnum) Method() string {
	return methodNames[k]
}

var methodNames = map[KindEnum]string{
	KindUint8:   "Uint8",
	KindUint16:  "Uint16",
	KindUint32:  "Uint32",
	KindUint64:  "Uint64",
	KindInt8:    "Int8",
	KindInt16:   "Int16",
	KindInt32:   "Int32",
	KindInt64:   "Int64",
	KindFloat32: "Float32",
	KindFloat64: "Float64",
}
