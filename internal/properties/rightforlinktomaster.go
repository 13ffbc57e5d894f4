package properties

import (
	"fmt"

	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/models"
	"github.com/toyz/metagen/internal/utils"
)

// Generic roles of RIGHTFORLINKTOMASTER
const (
	RoleLinkObjectToMaster        = "LINKOBJECTTOMASTER"
	RoleLeftObjectForLinkToMaster = "LEFTOBJECTFORLINKTOMASTER"
)

// DefaultLinkTablePriority is the display priority of the link table on the right object page
const DefaultLinkTablePriority = 500

// RightForLinkToMaster lives on the right object of a link. It blocks
// deleting or updating a right object that is still linked and shows the
// links in a table on the right object page.
type RightForLinkToMaster struct {
	*models.BaseProperty

	link     *models.DataObject
	left     *models.DataObject
	priority int

	actionsOnObjectID       []*models.Action
	actionsOnSelectedLinkID []*models.Action
	actionsOnSelectedLeftID []*models.Action
}

// NewRightForLinkToMaster creates the property for links held by link towards left
func NewRightForLinkToMaster(link, left *models.DataObject) *RightForLinkToMaster {
	p := &RightForLinkToMaster{
		BaseProperty: models.NewBaseProperty(KindRightForLinkToMaster, utils.ConstantName(link.Name)),
		link:         link,
		left:         left,
		priority:     DefaultLinkTablePriority,
	}
	p.DeclareGenericParameters(
		models.GenericParameter{Role: RoleLinkObjectToMaster, PropertyKind: KindLinkObjectToMaster, Capabilities: []models.Capability{models.CapabilityLink}},
		models.GenericParameter{Role: RoleLeftObjectForLinkToMaster, PropertyKind: KindUniqueIdentified, Capabilities: []models.Capability{models.CapabilityIdentity}},
	)
	return p
}

// LinkObject returns the link data object
func (p *RightForLinkToMaster) LinkObject() *models.DataObject { return p.link }

// LeftObject returns the master object at the other end of the link
func (p *RightForLinkToMaster) LeftObject() *models.DataObject { return p.left }

// SetDisplayPriority sets the priority of the link table widget
func (p *RightForLinkToMaster) SetDisplayPriority(priority int) { p.priority = priority }

// DisplayPriority returns the priority of the link table widget
func (p *RightForLinkToMaster) DisplayPriority() int { return p.priority }

// ControlAfterParentDefinition hooks the VERSIONED update and delete of the
// right object and records the link and left bindings when they are not set yet.
func (p *RightForLinkToMaster) ControlAfterParentDefinition(ctx models.DefinitionContext) error {
	parent := p.Parent()
	versioned, err := parent.PropertyByName(KindVersioned)
	if err != nil {
		return errors.NewMissingDependencyError(parent.QualifiedName(), p.Code(), KindVersioned)
	}
	if err := p.AddDependentProperty(versioned); err != nil {
		return err
	}

	for _, kind := range []models.MethodKind{models.MethodDelete, models.MethodUpdate} {
		target, ok := methodOf(versioned, kind)
		if !ok {
			return errors.NewUnresolvedHookTargetError(p.QualifiedCode(), versioned.QualifiedCode(), string(kind),
				"target property does not own this method")
		}
		if err := p.AddMethodAdditionalProcessing(models.NewMethodAdditionalProcessing(models.Before, target)); err != nil {
			return err
		}
	}

	if _, bound := p.GenericsFor(RoleLinkObjectToMaster); !bound {
		binding, err := ctx.Bind(p, RoleLinkObjectToMaster, p.link)
		if err != nil {
			return err
		}
		if err := p.AddPropertyGenerics(binding); err != nil {
			return err
		}
	}
	if _, bound := p.GenericsFor(RoleLeftObjectForLinkToMaster); !bound {
		binding, err := ctx.Bind(p, RoleLeftObjectForLinkToMaster, p.left)
		if err != nil {
			return err
		}
		if err := p.AddPropertyGenerics(binding); err != nil {
			return err
		}
	}

	p.AddExternalObjectDependence(p.link, p.left)
	p.AddWidget(NewLinkToMasterFromRightTable(p))
	return nil
}

// SetFinalSettings checks the recorded bindings still point at the link and left objects
func (p *RightForLinkToMaster) SetFinalSettings() error {
	if binding, ok := p.GenericsFor(RoleLinkObjectToMaster); ok && binding.Object != p.link {
		return errors.NewIncompatibleGenericsError(p.QualifiedCode(), RoleLinkObjectToMaster,
			p.link.QualifiedName(), binding.Object.QualifiedName())
	}
	if binding, ok := p.GenericsFor(RoleLeftObjectForLinkToMaster); ok && binding.Object != p.left {
		return errors.NewIncompatibleGenericsError(p.QualifiedCode(), RoleLeftObjectForLinkToMaster,
			p.left.QualifiedName(), binding.Object.QualifiedName())
	}
	return nil
}

// AddActionOnObjectID adds an action taking the id of the right object
func (p *RightForLinkToMaster) AddActionOnObjectID(action *models.Action) error {
	if err := p.checkAction(action, p.Parent()); err != nil {
		return err
	}
	p.actionsOnObjectID = append(p.actionsOnObjectID, action)
	return nil
}

// AddActionOnSelectedLinkID adds an action taking the id of a selected link
func (p *RightForLinkToMaster) AddActionOnSelectedLinkID(action *models.Action) error {
	if err := p.checkAction(action, p.link); err != nil {
		return err
	}
	p.actionsOnSelectedLinkID = append(p.actionsOnSelectedLinkID, action)
	return nil
}

// AddActionOnSelectedLeftObjectID adds an action taking the id of the left object of a selected link
func (p *RightForLinkToMaster) AddActionOnSelectedLeftObjectID(action *models.Action) error {
	if err := p.checkAction(action, p.left); err != nil {
		return err
	}
	p.actionsOnSelectedLeftID = append(p.actionsOnSelectedLeftID, action)
	return nil
}

// ActionsOnObjectID returns the actions on the right object id
func (p *RightForLinkToMaster) ActionsOnObjectID() []*models.Action { return p.actionsOnObjectID }

// ActionsOnSelectedLinkID returns the actions on selected link ids
func (p *RightForLinkToMaster) ActionsOnSelectedLinkID() []*models.Action {
	return p.actionsOnSelectedLinkID
}

// ActionsOnSelectedLeftObjectID returns the actions on left object ids of selected links
func (p *RightForLinkToMaster) ActionsOnSelectedLeftObjectID() []*models.Action {
	return p.actionsOnSelectedLeftID
}

// checkAction requires exactly one input argument holding the id of expected
func (p *RightForLinkToMaster) checkAction(action *models.Action, expected *models.DataObject) error {
	parent := p.Parent()
	if expected == nil || parent == nil {
		return errors.NewIllegalStateError("<unattached>", "add action "+action.Name, "property is not attached")
	}
	if parent.IsFinalized() {
		return errors.NewIllegalStateError(parent.QualifiedName(), "add action "+action.Name, "data object is finalized")
	}
	object, property := parent.QualifiedName(), p.QualifiedCode()
	if len(action.Inputs) != 1 {
		return errors.NewArgumentCountError(object, property, action.Name, 1, len(action.Inputs))
	}

	argument, ok := action.Inputs[0].(*models.ObjectIDArgument)
	if !ok {
		return errors.NewActionArgumentError(object, property, action.Name,
			fmt.Sprintf("the first argument should be an object id argument, it is actually %s", action.Inputs[0].TypeName()))
	}
	if argument.Object == nil {
		return errors.NewActionArgumentError(object, property, action.Name,
			fmt.Sprintf("object id argument '%s' has no data object, expected type = %s", argument.Name(), expected.QualifiedName()))
	}
	if argument.Object != expected {
		return errors.NewActionArgumentError(object, property, action.Name,
			fmt.Sprintf("object id should be of consistent type, action id type = %s, expected type = %s",
				argument.Object.QualifiedName(), expected.QualifiedName()))
	}
	return nil
}

func (p *RightForLinkToMaster) GoType() (string, error) {
	return "*rt.RightForLinkToMaster", nil
}

func (p *RightForLinkToMaster) ImportStatements() []string {
	return []string{quote("context"), quote("fmt")}
}

func (p *RightForLinkToMaster) InitStatements() []string {
	return []string{"o." + p.FieldName() + " = rt.NewRightForLinkToMaster(" + quote(p.link.TableName()) + ")"}
}

func (p *RightForLinkToMaster) DeepCopyStatements() []string {
	return []string{"c." + p.FieldName() + " = o." + p.FieldName() + ".Copy()"}
}

// HookStatements refuses to delete a right object that is still linked and
// checks link constraints before an update
func (p *RightForLinkToMaster) HookStatements(hook *models.MethodAdditionalProcessing) []string {
	id := "o." + identityField + ".ID"
	link := quote(p.link.TableName())
	label := p.link.Label
	switch hook.Method.Kind {
	case models.MethodDelete:
		return []string{
			"n, err := store.Count(ctx, " + link + ", \"RGID\", " + id + ")",
			"if err != nil {",
			"return err",
			"}",
			"if n > 0 {",
			"return fmt.Errorf(" + quote(p.Parent().Name+" %s is still referenced by %d "+label+" link(s)") + ", " + id + ", n)",
			"}",
		}
	case models.MethodUpdate:
		return []string{
			"if err := o." + p.FieldName() + ".CheckLinks(ctx, store, " + id + "); err != nil {",
			"return fmt.Errorf(" + quote(p.Parent().Name+" %s: "+label+" link constraints: %w") + ", " + id + ", err)",
			"}",
		}
	}
	return nil
}
