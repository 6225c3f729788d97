package gen

import (
	"text/template"
)

// typeData holds everything the type template renders.
type typeData struct {
	Package    string
	// StdImports and Imports are rendered as separate groups.
	StdImports []string
	Imports    []string
	Type       string
	Parent     string
	Doc        []string
	Fields     []fieldData
	Texts      []textData

	// Method bodies, already indented.
	Construct string
	Encode    string
	Decode    string
	Size      string
	Equal     string
}

// fieldData is one attribute's storage and accessors.
type fieldData struct {
	Name       string
	Ident      string
	Getter     string
	Setter     string
	Appender   string
	Type       string
	Elem       string
	Doc        []string
	Serialized bool

	// Count fields have no storage; their getter reports len(CountOf).
	Count   bool
	CountOf string
	// ByPointer getters return the address of the stored value.
	ByPointer bool
	Variable  bool
}

type textData struct {
	Getter string
	Setter string
	Ident  string
	Field  string
	Length int
}

type supportData struct {
	Package    string
	WireImport string
	Types      []string
	Names      []string
	Size       bool
}

var typeTemplate = template.Must(template.New("type").Parse(`// Code generated by pdu-generator. DO NOT EDIT.

package {{.Package}}

import (
{{range .StdImports}}	"{{.}}"
{{end}}{{if .StdImports}}
{{end}}{{range .Imports}}	"{{.}}"
{{end}})

{{if .Doc}}{{range .Doc}}// {{.}}
{{end}}{{else}}// {{.Type}} is a wire message.
{{end}}type {{.Type}} struct {
{{if .Parent}}	{{.Parent}}

{{end}}{{range .Fields}}{{if not .Count}}{{range .Doc}}	// {{.}}
{{end}}	{{.Ident}} {{.Type}}{{if not .Serialized}} // not serialized{{end}}
{{end}}{{end}}}

// New{{.Type}} returns a new {{.Type}} with its defaults and initial values applied.
func New{{.Type}}() *{{.Type}} {
	m := &{{.Type}}{}
	m.construct()

	return m
}

func (m *{{.Type}}) construct() {
{{.Construct}}}
{{range .Fields}}{{if .Count}}
// {{.Getter}} is the number of elements in {{.CountOf}}. The wire carries it
// as {{.Type}}, so a longer list is truncated by MarshalWire.
func (m *{{$.Type}}) {{.Getter}}() {{.Type}} {
	return {{.Type}}(len(m.{{.CountOf}}))
}
{{else if .ByPointer}}
// {{.Getter}} returns {{.Name}} for in-place modification.
func (m *{{$.Type}}) {{.Getter}}() *{{.Type}} {
	return &m.{{.Ident}}
}

func (m *{{$.Type}}) {{.Setter}}(v {{.Type}}) {
	m.{{.Ident}} = v
}
{{else}}
func (m *{{$.Type}}) {{.Getter}}() {{.Type}} {
	return m.{{.Ident}}
}

func (m *{{$.Type}}) {{.Setter}}(v {{.Type}}) {
	m.{{.Ident}} = v
}
{{if .Variable}}
func (m *{{$.Type}}) {{.Appender}}(v ...{{.Elem}}) {
	m.{{.Ident}} = append(m.{{.Ident}}, v...)
}
{{end}}{{end}}{{end}}{{range .Texts}}
// {{.Getter}} returns {{.Field}} as text, all {{.Length}} bytes included.
func (m *{{$.Type}}) {{.Getter}}() string {
	return wire.Text(m.{{.Ident}}[:])
}

// {{.Setter}} copies s into {{.Field}}, truncating or zero-padding it to {{.Length}} bytes.
func (m *{{$.Type}}) {{.Setter}}(s string) {
	wire.CopyText(m.{{.Ident}}[:], s)
}
{{end}}
// MarshalWire writes {{.Type}} in wire order.
func (m *{{.Type}}) MarshalWire(w *wire.Writer) {
{{.Encode}}}

// UnmarshalWire reads {{.Type}} in wire order and reports the first read error.
func (m *{{.Type}}) UnmarshalWire(r *wire.Reader) error {
{{.Decode}}
	return r.Err()
}
{{if .Size}}
// MarshalledSize is the number of bytes MarshalWire writes.
func (m *{{.Type}}) MarshalledSize() int {
{{.Size}}}
{{end}}
// Equal compares every field, parent part first.
func (m *{{.Type}}) Equal(o *{{.Type}}) bool {
	if m == o {
		return true
	}

	if m == nil || o == nil {
		return false
	}

{{.Equal}}
	return true
}
`))

var supportTemplate = template.Must(template.New("support").Parse(`// Code generated by pdu-generator. DO NOT EDIT.

package {{.Package}}

import (
	"{{.WireImport}}"
)

// Message is implemented by every generated type.
type Message interface {
	MarshalWire(w *wire.Writer)
	UnmarshalWire(r *wire.Reader) error
{{- if .Size}}
	MarshalledSize() int
{{- end}}
}

// TypeNames lists the generated types, parents before children.
var TypeNames = []string{
{{range .Names}}	{{printf "%q" .}},
{{end}}}

// NewMessage default-constructs the named type.
func NewMessage(name string) (Message, bool) {
	switch name {
{{range $i, $t := .Types}}	case {{printf "%q" (index $.Names $i)}}:
		return New{{$t}}(), true
{{end}}	}

	return nil, false
}

// Marshal encodes m into a new byte slice.
func Marshal(m Message) []byte {
	w := wire.NewWriter({{if .Size}}m.MarshalledSize(){{else}}0{{end}})
	m.MarshalWire(w)

	return w.Bytes()
}

// Unmarshal decodes p into m. Trailing bytes are ignored.
func Unmarshal(p []byte, m Message) error {
	return m.UnmarshalWire(wire.NewReader(p))
}
`))
