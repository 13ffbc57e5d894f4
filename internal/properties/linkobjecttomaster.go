package properties

import (
	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/models"
	"github.com/toyz/metagen/internal/utils"
)

// Generic roles of LINKOBJECTTOMASTER
const (
	RoleLeftObject  = "LEFTOBJECT"
	RoleRightObject = "RIGHTOBJECT"
)

// LinkObjectToMaster turns its object into a link from a left (master)
// object to a right object. It installs RIGHTFORLINKTOMASTER on the right
// object so the right side can list and protect its links.
type LinkObjectToMaster struct {
	*models.BaseProperty
	left          *models.DataObject
	right         *models.DataObject
	rightProperty *RightForLinkToMaster
	rightPriority int
}

// NewLinkObjectToMaster creates the property for a link between left and right
func NewLinkObjectToMaster(left, right *models.DataObject) *LinkObjectToMaster {
	p := &LinkObjectToMaster{
		BaseProperty: models.NewBaseProperty(KindLinkObjectToMaster, ""),
		left:         left,
		right:        right,
	}
	p.DeclareCapabilities(models.CapabilityLink)
	p.DeclareGenericParameters(
		models.GenericParameter{Role: RoleLeftObject, PropertyKind: KindUniqueIdentified, Capabilities: []models.Capability{models.CapabilityIdentity}},
		models.GenericParameter{Role: RoleRightObject, PropertyKind: KindUniqueIdentified, Capabilities: []models.Capability{models.CapabilityIdentity}},
	)
	_ = p.AddDependencyOnCode(KindUniqueIdentified)
	return p
}

// LeftObject returns the master object of the link
func (p *LinkObjectToMaster) LeftObject() *models.DataObject { return p.left }

// RightObject returns the linked object
func (p *LinkObjectToMaster) RightObject() *models.DataObject { return p.right }

// SetRightTablePriority sets the display priority of the link table shown on the right object
func (p *LinkObjectToMaster) SetRightTablePriority(priority int) { p.rightPriority = priority }

// RightProperty returns the property installed on the right object, nil before control
func (p *LinkObjectToMaster) RightProperty() *RightForLinkToMaster { return p.rightProperty }

func (p *LinkObjectToMaster) ControlAfterParentDefinition(ctx models.DefinitionContext) error {
	if p.left == nil || p.right == nil {
		return errors.NewIllegalStateError(p.Parent().QualifiedName(), "control "+p.Code(), "left and right objects are required")
	}

	left, err := ctx.Bind(p, RoleLeftObject, p.left)
	if err != nil {
		return err
	}
	right, err := ctx.Bind(p, RoleRightObject, p.right)
	if err != nil {
		return err
	}
	if err := p.AddPropertyGenerics(left); err != nil {
		return err
	}
	if err := p.AddPropertyGenerics(right); err != nil {
		return err
	}
	p.AddExternalObjectDependence(p.left, p.right)

	template := NewRightForLinkToMaster(p.Parent(), p.left)
	if p.rightPriority > 0 {
		template.SetDisplayPriority(p.rightPriority)
	}
	linkBinding, err := ctx.Bind(template, RoleLinkObjectToMaster, p.Parent())
	if err != nil {
		return err
	}
	leftBinding, err := ctx.Bind(template, RoleLeftObjectForLinkToMaster, p.left)
	if err != nil {
		return err
	}
	if err := ctx.Instantiate(template, p.right, linkBinding, leftBinding); err != nil {
		return err
	}
	p.rightProperty = template
	return nil
}

func (p *LinkObjectToMaster) GoType() (string, error) {
	return "*rt.LinkToMaster", nil
}

func (p *LinkObjectToMaster) ImportStatements() []string {
	return append([]string{quote("context")}, moduleImports(p.Parent().Module(), p.left)...)
}

func (p *LinkObjectToMaster) InitStatements() []string {
	return []string{"o." + p.FieldName() + " = rt.NewLinkToMaster(" + quote(p.left.TableName()) + ", " + quote(p.right.TableName()) + ")"}
}

func (p *LinkObjectToMaster) ExtractStatements() []string {
	return []string{
		"o." + p.FieldName() + ".LeftID = row.ObjectID(\"LFID\")",
		"o." + p.FieldName() + ".RightID = row.ObjectID(\"RGID\")",
	}
}

func (p *LinkObjectToMaster) DeepCopyStatements() []string {
	return []string{"c." + p.FieldName() + " = o." + p.FieldName() + ".Copy()"}
}

func (p *LinkObjectToMaster) LabelExtractor() string {
	return "o." + p.FieldName() + ".RightID.String()"
}

func (p *LinkObjectToMaster) PayloadExtractor() string {
	return "o." + p.FieldName() + ".RightID"
}

func (p *LinkObjectToMaster) PayloadTypeName() string {
	return "rt.ObjectID"
}

// DependentCode emits typed accessors to both ends of the link
func (p *LinkObjectToMaster) DependentCode() []string {
	class := p.Parent().ClassName()
	module := p.Parent().Module()
	leftName := utils.ClassName(p.left.Name)
	rightName := utils.ClassName(p.right.Name)
	return []string{
		"// Set" + leftName + "And" + rightName + " sets both ends of the link.",
		"func (o *" + class + ") Set" + leftName + "And" + rightName + "(left, right rt.ObjectID) {",
		"o." + p.FieldName() + ".LeftID = left",
		"o." + p.FieldName() + ".RightID = right",
		"}",
		"",
		"// Load" + leftName + " reads the master " + typeRef(module, p.left) + " of the link.",
		"func (o *" + class + ") Load" + leftName + "(ctx context.Context, store rt.Store, into *" + typeRef(module, p.left) + ") error {",
		"return store.Load(ctx, " + quote(p.left.TableName()) + ", o." + p.FieldName() + ".LeftID, into)",
		"}",
	}
}
