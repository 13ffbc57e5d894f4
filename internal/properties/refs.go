package properties

import (
	"strconv"

	"github.com/toyz/metagen/internal/models"
	"github.com/toyz/metagen/internal/utils"
)

// importSpec returns the Go import spec for the generated package of module
func importSpec(module *models.Module) string {
	return module.PackageName() + " " + strconv.Quote(module.Path)
}

// moduleImports lists import specs for objects generated outside from
func moduleImports(from *models.Module, objects ...*models.DataObject) []string {
	var specs []string
	seen := make(map[*models.Module]bool)
	for _, object := range objects {
		module := object.Module()
		if module == nil || module == from || seen[module] {
			continue
		}
		seen[module] = true
		specs = append(specs, importSpec(module))
	}
	return specs
}

// typeRef returns the generated type of object as seen from module from
func typeRef(from *models.Module, object *models.DataObject) string {
	if object.Module() == nil || object.Module() == from {
		return object.ClassName()
	}
	return object.Module().PackageName() + "." + object.ClassName()
}

func quote(s string) string {
	return strconv.Quote(s)
}

// identityField is the generated field holding the UNIQUEIDENTIFIED state
var identityField = utils.ClassName(KindUniqueIdentified)

// methodOf returns the data access method of kind owned by p
func methodOf(p models.Property, kind models.MethodKind) (models.DataAccessMethod, bool) {
	for _, m := range p.DataAccessMethods() {
		if m.Kind == kind {
			return m, true
		}
	}
	return models.DataAccessMethod{}, false
}
