package generator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ImportSet collects import specs for one generated file. Standard library
// imports come first, sorted; package imports follow, sorted by path.
type ImportSet struct {
	standardImports map[string]bool
	packageImports  map[string]string // path -> alias, empty when unaliased
	aliases         map[string]string // alias -> path
}

// NewImportSet creates an empty import set
func NewImportSet() *ImportSet {
	return &ImportSet{
		standardImports: make(map[string]bool),
		packageImports:  make(map[string]string),
		aliases:         make(map[string]string),
	}
}

// Add records one import spec, `"fmt"` or `alias "example.com/pkg"`
func (s *ImportSet) Add(spec string) error {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}
	alias, quoted := "", spec
	if i := strings.IndexByte(spec, ' '); i > 0 {
		alias, quoted = spec[:i], strings.TrimSpace(spec[i+1:])
	}
	path, err := strconv.Unquote(quoted)
	if err != nil || path == "" {
		return fmt.Errorf("invalid import spec %q", spec)
	}

	if alias == "" && isStandardLibrary(path) {
		s.standardImports[path] = true
		return nil
	}
	if existing, ok := s.packageImports[path]; ok {
		if existing != alias {
			return fmt.Errorf("import %q used with aliases %q and %q", path, existing, alias)
		}
		return nil
	}
	if alias != "" {
		if other, ok := s.aliases[alias]; ok && other != path {
			return fmt.Errorf("alias %q used for %q and %q", alias, other, path)
		}
		s.aliases[alias] = path
	}
	s.packageImports[path] = alias
	return nil
}

// AddAll records every spec, stopping at the first invalid one
func (s *ImportSet) AddAll(specs ...string) error {
	for _, spec := range specs {
		if err := s.Add(spec); err != nil {
			return err
		}
	}
	return nil
}

// AddPackage records an aliased package import
func (s *ImportSet) AddPackage(alias, path string) error {
	return s.Add(alias + " " + strconv.Quote(path))
}

// Len returns the number of distinct imports
func (s *ImportSet) Len() int {
	return len(s.standardImports) + len(s.packageImports)
}

// Specs returns the import specs in output order
func (s *ImportSet) Specs() []string {
	std, pkgs := s.groups()
	return append(std, pkgs...)
}

func (s *ImportSet) groups() (std, pkgs []string) {
	for path := range s.standardImports {
		std = append(std, strconv.Quote(path))
	}
	sort.Strings(std)

	paths := make([]string, 0, len(s.packageImports))
	for path := range s.packageImports {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if alias := s.packageImports[path]; alias != "" {
			pkgs = append(pkgs, alias+" "+strconv.Quote(path))
		} else {
			pkgs = append(pkgs, strconv.Quote(path))
		}
	}
	return std, pkgs
}

// GenerateImports renders the import declaration, empty when there is nothing to import
func (s *ImportSet) GenerateImports() string {
	std, pkgs := s.groups()
	if len(std)+len(pkgs) == 0 {
		return ""
	}
	if len(std)+len(pkgs) == 1 {
		return fmt.Sprintf("import %s\n", append(std, pkgs...)[0])
	}

	var result strings.Builder
	result.WriteString("import (\n")
	for _, imp := range std {
		result.WriteString(fmt.Sprintf("\t%s\n", imp))
	}
	if len(std) > 0 && len(pkgs) > 0 {
		result.WriteString("\n")
	}
	for _, imp := range pkgs {
		result.WriteString(fmt.Sprintf("\t%s\n", imp))
	}
	result.WriteString(")\n")
	return result.String()
}

// isStandardLibrary reports whether path has no domain in its first element
func isStandardLibrary(path string) bool {
	first := path
	if i := strings.IndexByte(path, '/'); i >= 0 {
		first = path[:i]
	}
	return !strings.Contains(first, ".")
}
