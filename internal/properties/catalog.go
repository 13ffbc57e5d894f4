// Package properties holds the built-in property kinds and the catalog that
// creates properties by kind.
package properties

import (
	"strconv"

	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/models"
	"github.com/toyz/metagen/internal/utils"
)

// Property kinds shipped with metagen
const (
	KindUniqueIdentified     = "UNIQUEIDENTIFIED"
	KindVersioned            = "VERSIONED"
	KindLinkObjectToMaster   = "LINKOBJECTTOMASTER"
	KindRightForLinkToMaster = "RIGHTFORLINKTOMASTER"
)

// Arguments carries what a definition gives a factory
type Arguments struct {
	Name   string            // instance name, empty for singleton kinds
	Values map[string]string // named arguments, e.g. "left" -> "Order"
	// Lookup resolves an object reference, "Object" or "module/Object"
	Lookup func(ref string) (*models.DataObject, error)
}

// Object resolves the named argument as a data object reference
func (a Arguments) Object(kind, key string) (*models.DataObject, error) {
	ref, ok := a.Values[key]
	if !ok || ref == "" {
		err := errors.NewUnknownPropertyError(kind, key)
		err.WithSuggestion("Pass '" + key + "' as an argument of " + kind)
		return nil, err
	}
	if a.Lookup == nil {
		return nil, errors.NewUnknownPropertyError(kind, ref)
	}
	return a.Lookup(ref)
}

// Factory creates a property from definition arguments
type Factory func(args Arguments) (models.Property, error)

// Catalog maps property kinds to factories
type Catalog struct {
	factories *utils.BaseRegistry[string, Factory]
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	factories := utils.NewBaseRegistry[string, Factory]("property catalog", "property kind", "factory")
	factories.SetValidator(utils.ChainValidators(
		utils.NotEmptyKeyValidator[Factory]("property kind"),
		utils.NoDuplicateValidator[string, Factory]("property kind"),
	))
	return &Catalog{factories: factories}
}

// DefaultCatalog creates a catalog with the built-in kinds registered
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	_ = c.Register(KindUniqueIdentified, func(Arguments) (models.Property, error) {
		return NewUniqueIdentified(), nil
	})
	_ = c.Register(KindVersioned, func(Arguments) (models.Property, error) {
		return NewVersioned(), nil
	})
	_ = c.Register(KindLinkObjectToMaster, func(args Arguments) (models.Property, error) {
		left, err := args.Object(KindLinkObjectToMaster, "left")
		if err != nil {
			return nil, err
		}
		right, err := args.Object(KindLinkObjectToMaster, "right")
		if err != nil {
			return nil, err
		}
		link := NewLinkObjectToMaster(left, right)
		if raw, ok := args.Values["priority"]; ok {
			priority, err := strconv.Atoi(raw)
			if err != nil {
				return nil, errors.NewArgumentMismatchError(KindLinkObjectToMaster, "priority should be an integer, got "+quote(raw))
			}
			link.SetRightTablePriority(priority)
		}
		return link, nil
	})
	_ = c.Register(KindRightForLinkToMaster, func(args Arguments) (models.Property, error) {
		link, err := args.Object(KindRightForLinkToMaster, "link")
		if err != nil {
			return nil, err
		}
		left, err := args.Object(KindRightForLinkToMaster, "left")
		if err != nil {
			return nil, err
		}
		return NewRightForLinkToMaster(link, left), nil
	})
	return c
}

// Register adds a factory for kind; kinds are registered once
func (c *Catalog) Register(kind string, factory Factory) error {
	return c.factories.Register(kind, factory)
}

// Create builds a property of kind
func (c *Catalog) Create(kind string, args Arguments) (models.Property, error) {
	factory, ok := c.factories.Get(kind)
	if !ok {
		err := errors.NewUnknownPropertyError("property catalog", kind)
		err.WithSuggestion("Register a factory for '" + kind + "' before using it")
		return nil, err
	}
	return factory(args)
}

// Kinds returns the registered kinds in registration order
func (c *Catalog) Kinds() []string {
	return c.factories.List()
}
