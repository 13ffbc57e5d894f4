package properties

import (
	"fmt"

	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/models"
)

// Versioned keeps a version counter on an identified object. Updates and
// deletes check the stored version.
type Versioned struct {
	*models.BaseProperty
}

// NewVersioned creates the property; it requires UNIQUEIDENTIFIED on the same object
func NewVersioned() *Versioned {
	p := &Versioned{BaseProperty: models.NewBaseProperty(KindVersioned, "")}
	p.DeclareCapabilities(models.CapabilityVersioned)
	p.DeclareDataAccessMethods(models.MethodUpdate, models.MethodDelete)
	_ = p.AddDependencyOnCode(KindUniqueIdentified)
	return p
}

// ControlAfterParentDefinition takes over the update and delete of
// UNIQUEIDENTIFIED, so every write of a versioned object checks its version
// and runs the hooks attached here.
func (p *Versioned) ControlAfterParentDefinition(ctx models.DefinitionContext) error {
	identity, err := p.Parent().PropertyByName(KindUniqueIdentified)
	if err != nil {
		return errors.NewMissingDependencyError(p.Parent().QualifiedName(), p.Code(), KindUniqueIdentified)
	}
	unique, ok := identity.(*UniqueIdentified)
	if !ok {
		return errors.NewIllegalStateError(p.Parent().QualifiedName(), "control "+p.Code(),
			fmt.Sprintf("%s is a %T", KindUniqueIdentified, identity))
	}
	return unique.HandOverDataAccessMethods(models.MethodUpdate, models.MethodDelete)
}

func (p *Versioned) GoType() (string, error) {
	return "*rt.Versioned", nil
}

func (p *Versioned) InitStatements() []string {
	return []string{"o." + p.FieldName() + " = rt.NewVersioned()"}
}

func (p *Versioned) ExtractStatements() []string {
	return []string{"o." + p.FieldName() + ".Version = row.Int(\"VERSION\")"}
}

func (p *Versioned) DeepCopyStatements() []string {
	return []string{"c." + p.FieldName() + " = o." + p.FieldName() + ".Copy()"}
}

func (p *Versioned) PayloadExtractor() string {
	return "o." + p.FieldName() + ".Version"
}

func (p *Versioned) PayloadTypeName() string {
	return "int64"
}

func (p *Versioned) DataAccessBody(method models.DataAccessMethod) []string {
	table := quote(p.Parent().TableName())
	id := "o." + identityField + ".ID"
	var calls []string
	switch method.Kind {
	case models.MethodUpdate:
		calls = []string{
			"store.UpdateVersion(ctx, " + table + ", " + id + ", o." + p.FieldName() + ")",
			"store.Update(ctx, " + table + ", " + id + ", o)",
		}
	case models.MethodDelete:
		calls = []string{"store.DeleteVersion(ctx, " + table + ", " + id + ", o." + p.FieldName() + ".Version)"}
	default:
		return nil
	}
	var body []string
	for _, call := range calls {
		body = append(body, "if err := "+call+"; err != nil {", "return err", "}")
	}
	return body
}
