package analyze

import (
	"fmt"
	"slices"
	"strings"
)

// PackageReport describes one loaded package.
type PackageReport struct {
	Path string
	Name string
	// Types holds the package's named struct types by name.
	Types map[string]*TypeReport
	// Funcs lists the package-level functions, sorted.
	Funcs []string
}

// TypeReport describes one named struct type.
type TypeReport struct {
	Name   string
	Fields []FieldReport
	// Methods is the pointer method set, promoted methods included, sorted.
	Methods []string
}

// FieldReport is one struct field.
type FieldReport struct {
	Name     string
	Type     string
	Embedded bool
}

// Type returns the named type or nil.
func (r *PackageReport) Type(name string) *TypeReport {
	return r.Types[name]
}

// HasFunc reports whether the package declares a function called name.
func (r *PackageReport) HasFunc(name string) bool {
	_, ok := slices.BinarySearch(r.Funcs, name)
	return ok
}

// HasMethod reports whether *T has a method called name.
func (t *TypeReport) HasMethod(name string) bool {
	_, ok := slices.BinarySearch(t.Methods, name)
	return ok
}

// Embedded returns the names of embedded fields.
func (t *TypeReport) Embedded() []string {
	var out []string

	for _, f := range t.Fields {
		if f.Embedded {
			out = append(out, f.Name)
		}
	}

	return out
}

// MessageAPI is the method set every generated message type provides.
var MessageAPI = []string{"MarshalWire", "UnmarshalWire", "Equal"}

// VerifyMessages checks that each named type exists with a New<T>
// constructor and the message methods, plus MarshalledSize when withSize is
// set. All problems are reported together.
func (r *PackageReport) VerifyMessages(names []string, withSize bool) error {
	required := MessageAPI
	if withSize {
		required = append(slices.Clone(MessageAPI), "MarshalledSize")
	}

	var problems []string

	for _, name := range names {
		t := r.Type(name)
		if t == nil {
			problems = append(problems, fmt.Sprintf("type %s is missing", name))
			continue
		}

		if !r.HasFunc("New" + name) {
			problems = append(problems, fmt.Sprintf("constructor New%s is missing", name))
		}

		for _, m := range required {
			if !t.HasMethod(m) {
				problems = append(problems, fmt.Sprintf("method %s.%s is missing", name, m))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("package %s: %s", r.Path, strings.Join(problems, "; "))
	}

	return nil
}
