package analyze

import (
	"errors"
	"fmt"
	"go/types"
	"sort"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// ErrPackage wraps the parse and type errors of a loaded package.
var ErrPackage = errors.New("package has errors")

// CheckDir loads the package in dir and type-checks it. The directory must
// live inside a module that can resolve its imports.
func CheckDir(dir string) (*PackageReport, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  dir,
	}

	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load package in %s: %w", dir, err)
	}

	if len(pkgs) != 1 {
		return nil, fmt.Errorf("expected one package in %s, found %d", dir, len(pkgs))
	}

	pkg := pkgs[0]

	var errs []error
	for _, e := range pkg.Errors {
		errs = append(errs, e)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s: %w", ErrPackage, pkg.PkgPath, errors.Join(errs...))
	}

	return buildReport(pkg), nil
}

func buildReport(pkg *packages.Package) *PackageReport {
	report := &PackageReport{
		Path:  pkg.PkgPath,
		Name:  pkg.Name,
		Types: make(map[string]*TypeReport),
	}

	qualifier := types.RelativeTo(pkg.Types)
	scope := pkg.Types.Scope()

	for _, name := range scope.Names() {
		switch obj := scope.Lookup(name).(type) {
		case *types.Func:
			report.Funcs = append(report.Funcs, name)

		case *types.TypeName:
			named, ok := obj.Type().(*types.Named)
			if !ok {
				continue
			}

			st, ok := named.Underlying().(*types.Struct)
			if !ok {
				continue
			}

			report.Types[name] = structReport(named, st, qualifier)
		}
	}

	sort.Strings(report.Funcs)

	return report
}

func structReport(named *types.Named, st *types.Struct, q types.Qualifier) *TypeReport {
	t := &TypeReport{Name: named.Obj().Name()}

	for i := range st.NumFields() {
		f := st.Field(i)
		t.Fields = append(t.Fields, FieldReport{
			Name:     f.Name(),
			Type:     types.TypeString(f.Type(), q),
			Embedded: f.Embedded(),
		})
	}

	mset := types.NewMethodSet(types.NewPointer(named))
	for i := range mset.Len() {
		t.Methods = append(t.Methods, mset.At(i).Obj().Name())
	}

	sort.Strings(t.Methods)

	return t
}
