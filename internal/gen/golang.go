package gen

import (
	"bytes"
	"fmt"
	"go/token"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"pdu-generator/internal/common"
	"pdu-generator/internal/plan"
	"pdu-generator/internal/schema"
)

// GoBackend is the registry name of the Go emitter.
const GoBackend = "go"

// DefaultWireImport is the runtime package generated Go code depends on.
const DefaultWireImport = "pdu-generator/wire"

// supportFilename holds the Message interface and the type factory.
const supportFilename = "messages.go"

// Methods every generated type defines.
const (
	constructMethod = "construct"
	marshalMethod   = "MarshalWire"
	unmarshalMethod = "UnmarshalWire"
	sizeMethod      = "MarshalledSize"
	equalMethod     = "Equal"
)

// GoEmitter renders plans as Go source, one file per type.
type GoEmitter struct {
	config     Config
	wireImport string
}

// GoOption customises a GoEmitter.
type GoOption func(*GoEmitter)

// WithWireImport overrides the import path of the wire runtime.
func WithWireImport(path string) GoOption {
	return func(e *GoEmitter) {
		e.wireImport = path
	}
}

// NewGoEmitter creates a Go emitter for the configured package.
func NewGoEmitter(cfg Config, opts ...GoOption) (*GoEmitter, error) {
	if !token.IsIdentifier(cfg.PackageName) {
		return nil, fmt.Errorf("invalid Go package name %q", cfg.PackageName)
	}

	e := &GoEmitter{config: cfg, wireImport: DefaultWireImport}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Name implements Emitter.
func (e *GoEmitter) Name() string {
	return GoBackend
}

// Emit implements Emitter.
func (e *GoEmitter) Emit(p *plan.MarshalPlan) (*GeneratedFile, error) {
	data, err := e.buildTypeData(p)
	if err != nil {
		return nil, err
	}

	return e.render(typeTemplate, goFilename(p.Name), p.Name, data)
}

// Support implements SupportEmitter. It emits the Message interface and a
// factory over every generated type.
func (e *GoEmitter) Support(plans []*plan.MarshalPlan) ([]GeneratedFile, error) {
	if err := checkPackageNames(plans); err != nil {
		return nil, err
	}

	data := &supportData{
		Package:    e.config.PackageName,
		WireImport: e.wireImport,
		Size:       len(plans) > 0,
	}

	for _, p := range plans {
		data.Types = append(data.Types, goTypeName(p.Name))
		data.Names = append(data.Names, p.Name)

		if p.Size == nil {
			data.Size = false
		}
	}

	f, err := e.render(supportTemplate, supportFilename, "", data)
	if err != nil {
		return nil, err
	}

	return []GeneratedFile{*f}, nil
}

func (e *GoEmitter) render(tmpl *template.Template, filename, typeName string, data any) (*GeneratedFile, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		if e.config.OutputDir != "" {
			_ = writeDebugUnformatted(e.config.OutputDir, filename, buf.Bytes())
		}

		return &GeneratedFile{
			Filename: filename,
			Content:  buf.Bytes(),
			Type:     typeName,
			Backend:  GoBackend,
		}, fmt.Errorf("formatting %s: %w (unformatted code returned)", filename, err)
	}

	return &GeneratedFile{
		Filename: filename,
		Content:  formatted,
		Type:     typeName,
		Backend:  GoBackend,
	}, nil
}

func (e *GoEmitter) buildTypeData(p *plan.MarshalPlan) (*typeData, error) {
	if err := checkTypeNames(p); err != nil {
		return nil, err
	}

	data := &typeData{
		Package: e.config.PackageName,
		Type:    goTypeName(p.Name),
		Imports: []string{e.wireImport},
	}

	if p.HasParent() {
		data.Parent = goTypeName(p.ParentName)
	}

	if e.config.Comments {
		data.Doc = commentLines(p.Comment)
	}

	for _, f := range p.Fields {
		data.Fields = append(data.Fields, e.fieldData(f))
	}

	for _, ta := range p.Accessors {
		data.Texts = append(data.Texts, textData{
			Getter: exportedName(ta.Field) + "Text",
			Setter: "Set" + exportedName(ta.Field) + "Text",
			Ident:  fieldIdent(ta.Field),
			Field:  ta.Field,
			Length: ta.Length,
		})
	}

	var err error
	if data.Construct, err = renderConstruct(p); err != nil {
		return nil, err
	}

	if data.Encode, err = renderEncode(p); err != nil {
		return nil, err
	}

	if data.Decode, err = renderDecode(p); err != nil {
		return nil, err
	}

	if p.Size != nil {
		data.Size = renderSize(p.Size)
	}

	var needsSlices bool
	data.Equal, needsSlices = renderEqual(p)

	if needsSlices {
		data.StdImports = append(data.StdImports, "slices")
	}

	return data, nil
}

func (e *GoEmitter) fieldData(f *plan.Field) fieldData {
	fd := fieldData{
		Name:       f.Name,
		Ident:      fieldIdent(f.Name),
		Getter:     exportedName(f.Name),
		Setter:     "Set" + exportedName(f.Name),
		Serialized: f.Serialized,
		Type:       storageType(f),
	}

	if e.config.Comments {
		fd.Doc = commentLines(f.Comment)
	}

	switch {
	case f.IsCount():
		fd.Count = true
		fd.CountOf = fieldIdent(f.CountOf)
	case f.IsVariableList():
		fd.Variable = true
		fd.Appender = "Append" + exportedName(f.Name)
		fd.Elem = elemType(f.Elem)
	case f.IsFixedList():
		fd.ByPointer = true
	default:
		_, fd.ByPointer = f.Kind.(schema.Reference)
	}

	return fd
}

// goFilename is the lower-cased type name; EmitAll rejects clashes.
func goFilename(typeName string) string {
	return strings.ToLower(typeName) + ".go"
}

func goTypeName(name string) string {
	return common.InitialCap(name)
}

func exportedName(field string) string {
	return common.InitialCap(field)
}

// fieldIdent is the unexported struct field holding an attribute.
func fieldIdent(field string) string {
	id := common.LowerFirst(field)
	if token.IsKeyword(id) || id == constructMethod {
		id += "_"
	}

	return id
}

// countVar is the local variable a decoded count is kept in.
func countVar(field string) string {
	return common.LowerFirst(field) + "Count"
}

// listLenVar is the local variable holding a validated list length.
func listLenVar(field string) string {
	return common.LowerFirst(field) + "Len"
}

func elemType(e plan.Element) string {
	if e.IsClass() {
		return goTypeName(e.Class)
	}

	return e.Primitive.GoType()
}

func storageType(f *plan.Field) string {
	switch f.Kind.(type) {
	case schema.FixedList:
		return fmt.Sprintf("[%d]%s", f.Length, elemType(f.Elem))
	case schema.VariableList:
		return "[]" + elemType(f.Elem)
	default:
		return elemType(f.Elem)
	}
}

func commentLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}

	return lines
}

// checkTypeNames reports identifiers that cannot be rendered and generated
// methods that would collide with each other.
func checkTypeNames(p *plan.MarshalPlan) error {
	if !token.IsIdentifier(goTypeName(p.Name)) {
		return fmt.Errorf("type name %q is not a valid Go identifier", p.Name)
	}

	methods := map[string]string{
		constructMethod: "constructor",
		marshalMethod:   "encoder",
		unmarshalMethod: "decoder",
		sizeMethod:      "size method",
		equalMethod:     "equality method",
	}

	if p.HasParent() {
		methods[goTypeName(p.ParentName)] = "embedded parent"
	}

	claim := func(name, owner string) error {
		if prev, ok := methods[name]; ok {
			return fmt.Errorf("%s: %s %s collides with %s", p.Name, owner, name, prev)
		}

		methods[name] = owner

		return nil
	}

	idents := make(map[string]string, len(p.Fields))

	for _, f := range p.Fields {
		// keywords are escaped by fieldIdent and capitalised in accessors
		id := fieldIdent(f.Name)
		if !token.IsIdentifier(id) || !token.IsIdentifier(exportedName(f.Name)) {
			return fmt.Errorf("%s: field name %q is not a valid Go identifier", p.Name, f.Name)
		}

		if prev, ok := idents[id]; ok {
			return fmt.Errorf("%s: fields %s and %s map to the same Go field %s", p.Name, prev, f.Name, id)
		}

		idents[id] = f.Name

		if err := claim(exportedName(f.Name), "getter of "+f.Name); err != nil {
			return err
		}

		if f.IsCount() {
			continue
		}

		if err := claim("Set"+exportedName(f.Name), "setter of "+f.Name); err != nil {
			return err
		}

		if f.IsVariableList() {
			if err := claim("Append"+exportedName(f.Name), "appender of "+f.Name); err != nil {
				return err
			}
		}
	}

	for _, ta := range p.Accessors {
		if err := claim(exportedName(ta.Field)+"Text", "text getter of "+ta.Field); err != nil {
			return err
		}

		if err := claim("Set"+exportedName(ta.Field)+"Text", "text setter of "+ta.Field); err != nil {
			return err
		}
	}

	return nil
}

// checkPackageNames reports package-level identifiers shared by two types
// or by a type and the support file.
func checkPackageNames(plans []*plan.MarshalPlan) error {
	names := map[string]string{
		"Message":    "support file",
		"NewMessage": "support file",
		"TypeNames":  "support file",
		"Marshal":    "support file",
		"Unmarshal":  "support file",
	}

	claim := func(name, owner string) error {
		if prev, ok := names[name]; ok {
			return fmt.Errorf("identifier %s of %s collides with %s", name, owner, prev)
		}

		names[name] = owner

		return nil
	}

	for _, p := range plans {
		if err := claim(goTypeName(p.Name), p.Name); err != nil {
			return err
		}

		if err := claim("New"+goTypeName(p.Name), p.Name); err != nil {
			return err
		}
	}

	return nil
}
