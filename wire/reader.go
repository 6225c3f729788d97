package wire

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// ErrShortRead is the cause reported when the input ends inside a value.
var ErrShortRead = errors.New("wire: short read")

// Reader decodes values from a byte slice.
type Reader struct {
	buf []byte
	off int
	err error
}

// NewReader returns a Reader over p. The slice is not copied.
func NewReader(p []byte) *Reader {
	return &Reader{buf: p}
}

// Err returns the error that stopped reading, or nil.
func (r *Reader) Err() error {
	return r.err
}

// SetError stops the reader with err unless it already failed.
func (r *Reader) SetError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Offset is the number of bytes consumed.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining is the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

func (r *Reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}

	if r.Remaining() < n {
		r.err = errors.Wrapf(ErrShortRead, "need %d bytes at offset %d, have %d", n, r.off, r.Remaining())
		return nil
	}

	p := r.buf[r.off : r.off+n]
	r.off += n

	return p
}

// Data fills p from the stream.
func (r *Reader) Data(p []byte) {
	if b := r.next(len(p)); b != nil {
		copy(p, b)
	}
}

func (r *Reader) Uint8() uint8 {
	if b := r.next(1); b != nil {
		return b[0]
	}

	return 0
}

func (r *Reader) Uint16() uint16 {
	if b := r.next(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}

	return 0
}

func (r *Reader) Uint32() uint32 {
	if b := r.next(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}

	return 0
}

func (r *Reader) Uint64() uint64 {
	if b := r.next(8); b != nil {
		return binary.BigEndian.Uint64(b)
	}

	return 0
}

func (r *Reader) Int8() int8 {
	return int8(r.Uint8())
}

func (r *Reader) Int16() int16 {
	return int16(r.Uint16())
}

func (r *Reader) Int32() int32 {
	return int32(r.Uint32())
}

func (r *Reader) Int64() int64 {
	return int64(r.Uint64())
}

func (r *Reader) Float32() float32 {
	return math.Float32frombits(r.Uint32())
}

func (r *Reader) Float64() float64 {
	return math.Float64frombits(r.Uint64())
}
