package interp

import (
	"github.com/pkg/errors"

	"pdu-generator/internal/plan"
	"pdu-generator/primitive"
	"pdu-generator/wire"
)

// Marshal encodes the instance into a fresh byte slice.
func (in *Instance) Marshal() ([]byte, error) {
	w := wire.NewWriter(0)
	if err := in.Encode(w); err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}

// Unmarshal decodes p into the instance. Trailing bytes are not an error.
func (in *Instance) Unmarshal(p []byte) error {
	return in.Decode(wire.NewReader(p))
}

// Encode runs the plan's encode steps.
func (in *Instance) Encode(w *wire.Writer) error {
	enc := &encoder{in: in, w: w}
	for _, s := range in.plan.Encode {
		if err := s.Accept(enc); err != nil {
			return errors.Wrapf(err, "encode %s", in.plan.Name)
		}
	}

	return nil
}

// Decode runs the plan's decode steps and reports the first read error.
func (in *Instance) Decode(r *wire.Reader) error {
	dec := &decoder{in: in, r: r, counts: map[string]uint64{}}
	for _, s := range in.plan.Decode {
		if err := s.Accept(dec); err != nil {
			return errors.Wrapf(err, "decode %s", in.plan.Name)
		}

		if err := r.Err(); err != nil {
			return errors.Wrapf(err, "decode %s.%s", in.plan.Name, s.FieldName())
		}
	}

	return nil
}

type encoder struct {
	in *Instance
	w  *wire.Writer
}

func (e *encoder) EncodeParent(plan.EncodeParent) error {
	return e.in.parent.Encode(e.w)
}

func (e *encoder) WritePrimitive(s plan.WritePrimitive) error {
	return writeValue(e.w, s.Type, e.in.fields[s.Field])
}

func (e *encoder) WriteCount(s plan.WriteCount) error {
	n := uint64(len(e.in.list(s.List)))
	if limit := s.Type.Kind.MaxUint(); n > limit {
		return errors.Wrapf(ErrCountOverflow, "%s has %d elements, %s holds at most %d", s.List, n, s.Field, limit)
	}

	return writeValue(e.w, s.Type, primitive.FromUint(s.Type.Kind, n))
}

func (e *encoder) EncodeReference(s plan.EncodeReference) error {
	return e.in.fields[s.Field].(*Instance).Encode(e.w)
}

func (e *encoder) EncodeFixedList(s plan.EncodeFixedList) error {
	return e.elements(s.Elem, e.in.list(s.Field))
}

func (e *encoder) EncodeVariableList(s plan.EncodeVariableList) error {
	return e.elements(s.Elem, e.in.list(s.Field))
}

func (e *encoder) elements(elem plan.Element, list []any) error {
	for _, v := range list {
		var err error
		if elem.IsClass() {
			err = v.(*Instance).Encode(e.w)
		} else {
			err = writeValue(e.w, elem.Primitive, v)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

type decoder struct {
	in     *Instance
	r      *wire.Reader
	counts map[string]uint64
}

func (d *decoder) DecodeParent(plan.DecodeParent) error {
	return d.in.parent.Decode(d.r)
}

func (d *decoder) ReadPrimitive(s plan.ReadPrimitive) error {
	d.in.fields[s.Field] = readValue(d.r, s.Type)
	return nil
}

func (d *decoder) ReadCount(s plan.ReadCount) error {
	v := readValue(d.r, s.Type)
	if !s.Discard {
		d.counts[s.Var] = primitive.AsUint(v)
	}

	return nil
}

func (d *decoder) DecodeReference(s plan.DecodeReference) error {
	return d.in.fields[s.Field].(*Instance).Decode(d.r)
}

func (d *decoder) DecodeFixedList(s plan.DecodeFixedList) error {
	list := d.in.list(s.Field)
	for i := range s.Length {
		if s.Elem.IsClass() {
			if err := list[i].(*Instance).Decode(d.r); err != nil {
				return err
			}

			continue
		}

		list[i] = readValue(d.r, s.Elem.Primitive)
	}

	return nil
}

func (d *decoder) DecodeVariableList(s plan.DecodeVariableList) error {
	n, ok := d.counts[s.CountVar]
	if !ok {
		return errors.Errorf("count %s of %s was not decoded", s.CountVar, s.Field)
	}

	width := 0
	if !s.Elem.IsClass() {
		width = s.Elem.Primitive.WireBytes
	}

	count := d.r.Count(n, width)
	if d.r.Err() != nil {
		return nil
	}

	list := make([]any, 0, count)

	for range count {
		if s.Elem.IsClass() {
			el, err := d.in.rt.New(s.Elem.Class)
			if err != nil {
				return err
			}

			if err := el.Decode(d.r); err != nil {
				return err
			}

			list = append(list, el)

			continue
		}

		list = append(list, readValue(d.r, s.Elem.Primitive))

		if d.r.Err() != nil {
			break
		}
	}

	d.in.fields[s.Field] = list

	return nil
}

func writeValue(w *wire.Writer, t *primitive.Type, v any) error {
	if err := checkValue(t, v); err != nil {
		return err
	}

	switch x := v.(type) {
	case uint8:
		w.Uint8(x)
	case uint16:
		w.Uint16(x)
	case uint32:
		w.Uint32(x)
	case uint64:
		w.Uint64(x)
	case int8:
		w.Int8(x)
	case int16:
		w.Int16(x)
	case int32:
		w.Int32(x)
	case int64:
		w.Int64(x)
	case float32:
		w.Float32(x)
	case float64:
		w.Float64(x)
	}

	return nil
}

func readValue(r *wire.Reader, t *primitive.Type) any {
	switch t.Kind {
	case primitive.KindUint8:
		return r.Uint8()
	case primitive.KindUint16:
		return r.Uint16()
	case primitive.KindUint32:
		return r.Uint32()
	case primitive.KindUint64:
		return r.Uint64()
	case primitive.KindInt8:
		return r.Int8()
	case primitive.KindInt16:
		return r.Int16()
	case primitive.KindInt32:
		return r.Int32()
	case primitive.KindInt64:
		return r.Int64()
	case primitive.KindFloat32:
		return r.Float32()
	case primitive.KindFloat64:
		return r.Float64()
	default:
		r.SetError(errors.Errorf("interp: read of invalid kind %v", t.Kind))
		return nil
	}
}
