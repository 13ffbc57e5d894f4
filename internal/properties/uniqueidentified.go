package properties

import (
	"github.com/toyz/metagen/internal/models"
)

// UniqueIdentified gives its object a stored identifier and owns the
// create, update and delete methods. VERSIONED takes over update and delete.
type UniqueIdentified struct {
	*models.BaseProperty
}

// NewUniqueIdentified creates the property
func NewUniqueIdentified() *UniqueIdentified {
	p := &UniqueIdentified{BaseProperty: models.NewBaseProperty(KindUniqueIdentified, "")}
	p.DeclareCapabilities(models.CapabilityIdentity)
	p.DeclareDataAccessMethods(models.MethodCreate, models.MethodUpdate, models.MethodDelete)
	return p
}

func (p *UniqueIdentified) GoType() (string, error) {
	return "*rt.UniqueIdentified", nil
}

func (p *UniqueIdentified) InitStatements() []string {
	return []string{"o." + p.FieldName() + " = rt.NewUniqueIdentified(" + p.Parent().ClassName() + "TypeID)"}
}

func (p *UniqueIdentified) ExtractStatements() []string {
	return []string{"o." + p.FieldName() + ".ID = row.ObjectID(\"ID\")"}
}

func (p *UniqueIdentified) DeepCopyStatements() []string {
	return []string{"c." + p.FieldName() + " = o." + p.FieldName() + ".Copy()"}
}

func (p *UniqueIdentified) LabelExtractor() string {
	return "o." + p.FieldName() + ".ID.String()"
}

func (p *UniqueIdentified) PayloadExtractor() string {
	return "o." + p.FieldName() + ".ID"
}

func (p *UniqueIdentified) PayloadTypeName() string {
	return "rt.ObjectID"
}

func (p *UniqueIdentified) DataAccessBody(method models.DataAccessMethod) []string {
	table := quote(p.Parent().TableName())
	var call string
	switch method.Kind {
	case models.MethodCreate:
		call = "store.Insert(ctx, " + table + ", o)"
	case models.MethodUpdate:
		call = "store.Update(ctx, " + table + ", o." + p.FieldName() + ".ID, o)"
	case models.MethodDelete:
		call = "store.Delete(ctx, " + table + ", o." + p.FieldName() + ".ID)"
	default:
		return nil
	}
	return []string{
		"if err := " + call + "; err != nil {",
		"return err",
		"}",
	}
}
