package primitive

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Type is one entry of the catalog. Values are shared by pointer across a
// whole run and must not be modified.
type Type struct {
	// Name is the canonical schema spelling, e.g. "unsigned short".
	Name string
	// Kind is the storage kind.
	Kind KindEnum
	// Bits is the storage width.
	Bits int
	// WireBytes is the number of octets written on the wire.
	WireBytes int
	// Signed is true for signed integers and floating point kinds.
	Signed bool
}

// IsFloat reports whether the type is a floating point kind.
func (t *Type) IsFloat() bool {
	return t.Kind.IsFloat()
}

// GoType is the Go storage type.
func (t *Type) GoType() string {
	return t.Kind.GoType()
}

func (t *Type) String() string {
	return t.Name
}

// Catalog maps canonical primitive names to their storage and wire properties.
type Catalog struct {
	byName map[string]*Type
	names  []string
}

// DefaultEntries is the primitive set understood by the protocol description
// format. Widths follow the original DIS/XMLPG conventions.
var DefaultEntries = map[string]KindEnum{
	"unsigned byte":  KindUint8,
	"unsigned short": KindUint16,
	"unsigned int":   KindUint32,
	"unsigned long":  KindUint64,
	"byte":           KindInt8,
	"short":          KindInt16,
	"int":            KindInt32,
	"long":           KindInt64,
	"float":          KindFloat32,
	"double":         KindFloat64,
}

// NewCatalog builds a catalog from name -> kind entries. It panics on an
// invalid kind since catalogs are constructed from static tables.
func NewCatalog(entries map[string]KindEnum) *Catalog {
	c := &Catalog{byName: make(map[string]*Type, len(entries))}

	for name, kind := range entries {
		if !kind.IsValid() {
			panic(fmt.Sprintf("primitive %q has invalid kind %d", name, int(kind)))
		}

		norm := Normalize(name)
		c.byName[norm] = &Type{
			Name:      norm,
			Kind:      kind,
			Bits:      kind.Bits(),
			WireBytes: kind.Bits() / 8,
			Signed:    kind.IsSigned(),
		}
		c.names = append(c.names, norm)
	}

	sort.Strings(c.names)

	return c
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	return NewCatalog(DefaultEntries)
})

// DefaultCatalog returns the process-wide catalog built from DefaultEntries.
func DefaultCatalog() *Catalog {
	return defaultCatalog()
}

// Lookup finds a primitive by name. Matching ignores case and collapses
// whitespace.
func (c *Catalog) Lookup(name string) (*Type, bool) {
	t, ok := c.byName[Normalize(name)]
	return t, ok
}

// MustLookup is Lookup for names known to exist.
func (c *Catalog) MustLookup(name string) *Type {
	t, ok := c.Lookup(name)
	if !ok {
		panic("unknown primitive: " + name)
	}

	return t
}

// Names returns all canonical names in sorted order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Normalize canonicalises a primitive name.
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Zero returns the zero value of the type's Go storage type.
func (t *Type) Zero() any {
	switch t.Kind {
	case KindUint8:
		return uint8(0)
	case KindUint16:
		return uint16(0)
	case KindUint32:
		return uint32(0)
	case KindUint64:
		return uint64(0)
	case KindInt8:
		return int8(0)
	case KindInt16:
		return int16(0)
	case KindInt32:
		return int32(0)
	case KindInt64:
		return int64(0)
	case KindFloat32:
		return float32(0)
	case KindFloat64:
		return float64(0)
	default:
		panic("zero requested for invalid kind: " + t.Kind.String())
	}
}

// ParseLiteral parses a schema literal into the type's Go storage type.
// Integer literals accept Go prefixes (0x, 0o, 0b) and must fit the width.
func (t *Type) ParseLiteral(lit string) (any, error) {
	lit = strings.TrimSpace(lit)

	switch {
	case t.Kind.IsFloat():
		f, err := strconv.ParseFloat(lit, t.Bits)
		if err != nil {
			return nil, fmt.Errorf("parse %s literal %q: %w", t.Name, lit, err)
		}

		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("parse %s literal %q: non-finite value", t.Name, lit)
		}

		return FromFloat(t.Kind, f), nil

	case t.Signed:
		i, err := strconv.ParseInt(lit, 0, t.Bits)
		if err != nil {
			return nil, fmt.Errorf("parse %s literal %q: %w", t.Name, lit, err)
		}

		return FromInt(t.Kind, i), nil

	default:
		u, err := strconv.ParseUint(lit, 0, t.Bits)
		if err != nil {
			return nil, fmt.Errorf("parse %s literal %q: %w", t.Name, lit, err)
		}

		return FromUint(t.Kind, u), nil
	}
}

// FormatLiteral renders a value produced by ParseLiteral as a Go literal.
func (t *Type) FormatLiteral(v any) string {
	switch x := v.(type) {
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}

	if t.Signed {
		return strconv.FormatInt(AsInt(v), 10)
	}

	return strconv.FormatUint(AsUint(v), 10)
}
