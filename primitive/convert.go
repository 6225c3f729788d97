package primitive

import "fmt"

// FromUint converts u to the Go storage type of kind, truncating to its width.
func FromUint(kind KindEnum, u uint64) any {
	switch kind {
	case KindUint8:
		return uint8(u)
	case KindUint16:
		return uint16(u)
	case KindUint32:
		return uint32(u)
	case KindUint64:
		return u
	case KindInt8:
		return int8(u)
	case KindInt16:
		return int16(u)
	case KindInt32:
		return int32(u)
	case KindInt64:
		return int64(u)
	case KindFloat32:
		return float32(u)
	case KindFloat64:
		return float64(u)
	default:
		panic("conversion to invalid kind: " + kind.String())
	}
}

// FromInt converts i to the Go storage type of kind.
func FromInt(kind KindEnum, i int64) any {
	if kind.IsFloat() {
		return FromFloat(kind, float64(i))
	}

	return FromUint(kind, uint64(i))
}

// FromFloat converts f to the Go storage type of kind.
func FromFloat(kind KindEnum, f float64) any {
	switch kind {
	case KindFloat32:
		return float32(f)
	case KindFloat64:
		return f
	}

	if kind.IsSigned() {
		return FromUint(kind, uint64(int64(f)))
	}

	return FromUint(kind, uint64(f))
}

// AsUint widens any integer storage value to uint64.
func AsUint(v any) uint64 {
	switch x := v.(type) {
	case uint8:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint32:
		return uint64(x)
	case uint64:
		return x
	case int8:
		return uint64(x)
	case int16:
		return uint64(x)
	case int32:
		return uint64(x)
	case int64:
		return uint64(x)
	case int:
		return uint64(x)
	default:
		panic(fmt.Sprintf("not an integer storage value: %T", v))
	}
}

// AsInt widens any integer storage value to int64.
func AsInt(v any) int64 {
	switch x := v.(type) {
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	default:
		return int64(AsUint(v))
	}
}
