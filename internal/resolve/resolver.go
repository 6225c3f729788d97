package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"pdu-generator/internal/diagnostic"
	"pdu-generator/internal/match"
	"pdu-generator/internal/schema"
	"pdu-generator/primitive"
)

// ErrUnresolved is returned when the model has resolution errors.
var ErrUnresolved = errors.New("schema does not resolve")

// Config holds configuration for the resolution process.
type Config struct {
	// MaxSuggestions caps "did you mean" candidates per diagnostic.
	MaxSuggestions int
	Logger         zerolog.Logger
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() Config {
	return Config{
		MaxSuggestions: 3,
		Logger:         zerolog.Nop(),
	}
}

// Result is the outcome of a resolution pass.
type Result struct {
	Diagnostics diagnostic.Diagnostics
	// Order lists classes with parents and by-value dependencies first;
	// ties keep declaration order. Empty when a cycle was found.
	Order []*schema.GeneratedClass
}

// Resolver performs the resolution pipeline.
type Resolver struct {
	catalog *primitive.Catalog
	config  Config

	model  *schema.Model
	byName map[string]*schema.GeneratedClass
	diags  *diagnostic.Diagnostics
}

// NewResolver creates a Resolver over a shared read-only catalog.
func NewResolver(catalog *primitive.Catalog, config Config) *Resolver {
	if catalog == nil {
		catalog = primitive.DefaultCatalog()
	}

	return &Resolver{catalog: catalog, config: config}
}

// Resolve is a shorthand for NewResolver(catalog, DefaultConfig()).Resolve(m).
func Resolve(m *schema.Model, catalog *primitive.Catalog) (*Result, error) {
	return NewResolver(catalog, DefaultConfig()).Resolve(m)
}

// Resolve binds every name in m. The returned error wraps ErrUnresolved and
// the collected diagnostics when anything failed to bind.
func (r *Resolver) Resolve(m *schema.Model) (*Result, error) {
	if m == nil {
		return nil, errors.New("model is required")
	}

	res := &Result{}
	r.model = m
	r.diags = &res.Diagnostics
	r.byName = make(map[string]*schema.GeneratedClass, len(m.Classes))

	r.indexClasses()

	for _, c := range m.Classes {
		r.resolveParent(c)
	}

	for _, c := range m.Classes {
		r.resolveAttributes(c)
		r.bindCounts(c)
	}

	// initial values may target inherited attributes, so every class must
	// have its own attributes resolved first
	for _, c := range m.Classes {
		r.resolveInitialValues(c)
	}

	res.Order = r.checkCycles()

	res.Diagnostics.Sort()

	log := r.config.Logger
	log.Debug().
		Int("classes", len(m.Classes)).
		Int("errors", len(res.Diagnostics.Errors)).
		Int("warnings", len(res.Diagnostics.Warnings)).
		Msg("schema resolved")

	if res.Diagnostics.HasErrors() {
		return res, fmt.Errorf("%w: %w", ErrUnresolved, res.Diagnostics.Error())
	}

	return res, nil
}

func (r *Resolver) indexClasses() {
	for _, c := range r.model.Classes {
		if _, dup := r.byName[c.Name]; dup {
			r.diags.AddError(diagnostic.CodeDuplicateName,
				fmt.Sprintf("message type %q is declared more than once", c.Name), c.Name, "")

			continue
		}

		r.byName[c.Name] = c

		seen := make(map[string]bool, len(c.Attributes))
		for _, a := range c.Attributes {
			if seen[a.Name] {
				r.diags.AddError(diagnostic.CodeDuplicateName,
					fmt.Sprintf("attribute %q is declared more than once", a.Name), c.Name, a.Name)
			}

			seen[a.Name] = true
			a.Owner = c
		}
	}
}

func (r *Resolver) resolveParent(c *schema.GeneratedClass) {
	c.ParentClass = nil
	if !c.HasParent() {
		return
	}

	p, ok := r.byName[c.Parent]
	if !ok {
		r.diags.AddError(diagnostic.CodeUnknownType,
			fmt.Sprintf("parent type %q is not declared", c.Parent), c.Name, "",
			r.suggest(c.Parent, r.model.ClassNames())...)

		return
	}

	c.ParentClass = p
}

func (r *Resolver) resolveAttributes(c *schema.GeneratedClass) {
	for _, a := range c.Attributes {
		a.Primitive, a.Class = nil, nil

		if !schema.IsKnownKind(a.Kind) {
			// reported per type by the plan validator
			continue
		}

		schema.VisitKind[struct{}](a.Kind, &attributeBinder{r: r, class: c, attr: a})

		r.checkHints(c, a)
	}
}

// attributeBinder resolves the type name of one attribute according to its
// kind.
type attributeBinder struct {
	r     *Resolver
	class *schema.GeneratedClass
	attr  *schema.ClassAttribute
}

func (b *attributeBinder) Primitive(schema.Primitive) struct{} {
	if t, ok := b.r.catalog.Lookup(b.attr.Type); ok {
		b.attr.Primitive = t
		return struct{}{}
	}

	msg := fmt.Sprintf("primitive type %q is not in the type catalog", b.attr.Type)
	if _, isClass := b.r.byName[b.attr.Type]; isClass {
		msg += " (it names a message type; declare the attribute with class:)"
	}

	b.r.diags.AddError(diagnostic.CodeUnknownType, msg, b.class.Name, b.attr.Name,
		b.r.suggest(b.attr.Type, b.r.catalog.Names())...)

	return struct{}{}
}

func (b *attributeBinder) Reference(schema.Reference) struct{} {
	if c, ok := b.r.byName[b.attr.Type]; ok {
		b.attr.Class = c
		return struct{}{}
	}

	msg := fmt.Sprintf("referenced type %q is not declared", b.attr.Type)
	if _, isPrim := b.r.catalog.Lookup(b.attr.Type); isPrim {
		msg += " (it names a primitive; declare the attribute with primitive:)"
	}

	b.r.diags.AddError(diagnostic.CodeUnknownType, msg, b.class.Name, b.attr.Name,
		b.r.suggest(b.attr.Type, b.r.model.ClassNames())...)

	return struct{}{}
}

func (b *attributeBinder) FixedList(schema.FixedList) struct{} {
	b.element()
	return struct{}{}
}

func (b *attributeBinder) VariableList(schema.VariableList) struct{} {
	b.element()
	return struct{}{}
}

// element resolves a list element type: catalog first, then message types.
func (b *attributeBinder) element() {
	if t, ok := b.r.catalog.Lookup(b.attr.Type); ok {
		b.attr.Primitive = t
		return
	}

	if c, ok := b.r.byName[b.attr.Type]; ok {
		b.attr.Class = c
		return
	}

	known := append(b.r.catalog.Names(), b.r.model.ClassNames()...)
	b.r.diags.AddError(diagnostic.CodeUnknownType,
		fmt.Sprintf("list element type %q is neither a primitive nor a declared message type", b.attr.Type),
		b.class.Name, b.attr.Name, b.r.suggest(b.attr.Type, known)...)
}

// checkHints validates defaults and text hints once types are known.
func (r *Resolver) checkHints(c *schema.GeneratedClass, a *schema.ClassAttribute) {
	if a.CouldBeString && !isByteFixedList(a) {
		r.diags.AddWarning(diagnostic.CodeCouldBeStringIgnored,
			"could_be_string only applies to fixed lists of 8-bit integers", c.Name, a.Name)
	}

	if a.Default == nil {
		return
	}

	if !a.IsPrimitive() {
		r.diags.AddWarning(diagnostic.CodeDefaultIgnored,
			fmt.Sprintf("default %q ignored on %s attribute", *a.Default, a.Kind), c.Name, a.Name)

		return
	}

	if a.Primitive == nil {
		return
	}

	if _, err := a.Primitive.ParseLiteral(*a.Default); err != nil {
		r.diags.AddError(diagnostic.CodeInvalidLiteral, err.Error(), c.Name, a.Name)
	}
}

func isByteFixedList(a *schema.ClassAttribute) bool {
	return a.IsFixedList() && a.Primitive != nil && a.Primitive.Bits == 8 && a.Primitive.Kind.IsInteger()
}

func (r *Resolver) suggest(name string, known []string) []string {
	return match.Suggest(name, known, r.config.MaxSuggestions)
}

func quoteAll(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = fmt.Sprintf("%q", n)
	}

	return strings.Join(q, ", ")
}
