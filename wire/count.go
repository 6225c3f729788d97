package wire

import "github.com/pkg/errors"

// MaxListLen bounds a decoded variable list so corrupt counts fail fast.
const MaxListLen = 1 << 24

// Count validates a decoded element count before a list is read. width is
// the wire size of one element, or 0 when elements have no fixed size.
// A count that cannot fit the remaining input stops the reader and yields 0.
func (r *Reader) Count(n uint64, width int) int {
	if r.err != nil {
		return 0
	}

	if n > MaxListLen || (width > 0 && n*uint64(width) > uint64(r.Remaining())) {
		r.err = errors.Wrapf(ErrShortRead, "%d elements of %d bytes at offset %d, have %d",
			n, width, r.off, r.Remaining())

		return 0
	}

	return int(n)
}
