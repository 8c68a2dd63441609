package resolver

import (
	"context"
	"strings"

	"crmrbac/internal/rbac/model"
	"crmrbac/internal/rbac/repository"
)

// OwnershipStrategy resolves the ownership fields of one resource type.
type OwnershipStrategy interface {
	Ownership(ctx context.Context, resourceID string) (*model.Ownership, error)
}

// OwnershipRegistry maps permission-code resource prefixes
// ("lead.update_own" -> "lead") to ownership strategies. Adding a resource
// type is a registration, not a string convention; unknown prefixes deny.
type OwnershipRegistry struct {
	strategies map[string]OwnershipStrategy
}

func NewOwnershipRegistry() *OwnershipRegistry {
	return &OwnershipRegistry{strategies: make(map[string]OwnershipStrategy)}
}

func (g *OwnershipRegistry) Register(resource string, strategy OwnershipStrategy) {
	g.strategies[resource] = strategy
}

// IsOwner reports whether userID is assignee, co-assignee or creator of
// the resource the permission code refers to. Unknown resource prefixes
// and missing resources deny.
func (g *OwnershipRegistry) IsOwner(ctx context.Context, userID, resourceID, permissionCode string) (bool, error) {
	ownership, err := g.OwnershipFor(ctx, permissionCode, resourceID)
	if err != nil {
		return false, err
	}
	if ownership == nil {
		return false, nil
	}
	if ownership.AssignedTo == userID || ownership.CreatedBy == userID {
		return true, nil
	}
	for _, co := range ownership.CoAssignees {
		if co == userID {
			return true, nil
		}
	}
	return false, nil
}

// OwnershipFor resolves the ownership fields behind a permission code.
// Returns (nil, nil) for unknown prefixes and missing resources.
func (g *OwnershipRegistry) OwnershipFor(ctx context.Context, permissionCode, resourceID string) (*model.Ownership, error) {
	strategy, ok := g.strategies[resourcePrefix(permissionCode)]
	if !ok {
		return nil, nil
	}
	return strategy.Ownership(ctx, resourceID)
}

func resourcePrefix(permissionCode string) string {
	if i := strings.IndexByte(permissionCode, '.'); i > 0 {
		return permissionCode[:i]
	}
	return permissionCode
}

// documentOwnership reads ownership fields from a document collection.
type documentOwnership struct {
	resources  repository.ResourceRepository
	collection string
}

func NewDocumentOwnership(resources repository.ResourceRepository, collection string) OwnershipStrategy {
	return &documentOwnership{resources: resources, collection: collection}
}

func (d *documentOwnership) Ownership(ctx context.Context, resourceID string) (*model.Ownership, error) {
	return d.resources.GetOwnership(ctx, d.collection, resourceID)
}

// RegisterDefaultStrategies wires the standard CRM resource types.
func RegisterDefaultStrategies(registry *OwnershipRegistry, resources repository.ResourceRepository) {
	registry.Register(model.ResourceTypeLead, NewDocumentOwnership(resources, model.CollectionLeads))
	registry.Register(model.ResourceTypeContact, NewDocumentOwnership(resources, model.CollectionContacts))
	registry.Register(model.ResourceTypeBatch, NewDocumentOwnership(resources, model.CollectionBatches))
	registry.Register(model.ResourceTypeCampaign, NewDocumentOwnership(resources, model.CollectionCampaigns))
}
