// Package inventory manages relief supply stock levels.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/reliefhub/internal/app/store/activity"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/app/system/normalize"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	MsgNotFound         = "Inventory item not found"
	MsgInvalidPayload   = "Invalid inventory payload"
	MsgInvalidQuantity  = "Invalid quantity"
	MsgInvalidThreshold = "Invalid low stock threshold"
)

// Store is the inventory persistence the service needs.
type Store interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
	Create(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error)
	Update(ctx context.Context, id primitive.ObjectID, upd models.InventoryUpdate) (models.InventoryItem, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.InventoryItem, error)
}

// Auditor records admin actions.
type Auditor interface {
	Record(ctx context.Context, actor models.Actor, action, details string) error
}

type Service struct {
	store Store
	audit Auditor
	log   *zap.Logger
}

func New(store Store, audit Auditor, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, audit: audit, log: log}
}

// List returns every item, most recently updated first.
func (s *Service) List(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to load inventory", err)
	}
	return items, nil
}

// CreateInput is the new-item form. A missing or negative threshold
// falls back to models.DefaultLowStockThreshold.
type CreateInput struct {
	Name              string `json:"name" validate:"required,max=120"`
	Category          string `json:"category" validate:"required,max=60"`
	Quantity          *int   `json:"quantity" validate:"required,gte=0"`
	Location          string `json:"location" validate:"max=120"`
	LowStockThreshold *int   `json:"lowStockThreshold"`
}

func (s *Service) Create(ctx context.Context, actor models.Actor, in CreateInput) (models.InventoryItem, error) {
	in.Name = normalize.Name(in.Name)
	in.Category = normalize.Name(in.Category)
	in.Location = normalize.Name(in.Location)
	if res := inputval.Validate(in); res.HasErrors() {
		return models.InventoryItem{}, apperr.Validation(MsgInvalidPayload)
	}

	threshold := models.DefaultLowStockThreshold
	if in.LowStockThreshold != nil && *in.LowStockThreshold >= 0 {
		threshold = *in.LowStockThreshold
	}

	item, err := s.store.Create(ctx, models.InventoryItem{
		Name:              in.Name,
		Category:          in.Category,
		Quantity:          *in.Quantity,
		Location:          in.Location,
		LowStockThreshold: threshold,
	})
	if err != nil {
		return models.InventoryItem{}, apperr.Internal("Failed to save inventory item", err)
	}
	details := fmt.Sprintf("Inventory item %s created with qty %d", item.Name, item.Quantity)
	if err := s.record(ctx, actor, activity.ActionInventoryCreated, details); err != nil {
		return models.InventoryItem{}, err
	}
	return item, nil
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Name              *string `json:"name"`
	Category          *string `json:"category"`
	Location          *string `json:"location"`
	Quantity          *int    `json:"quantity"`
	LowStockThreshold *int    `json:"lowStockThreshold"`
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := normalize.Name(*p)
	return &v
}

func (s *Service) Update(ctx context.Context, actor models.Actor, id string, in UpdateInput) (models.InventoryItem, error) {
	oid, err := primitive.ObjectIDFromHex(normalize.Name(id))
	if err != nil {
		return models.InventoryItem{}, apperr.NotFound(MsgNotFound)
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return models.InventoryItem{}, apperr.Validation(MsgInvalidQuantity)
	}
	if in.LowStockThreshold != nil && *in.LowStockThreshold < 0 {
		return models.InventoryItem{}, apperr.Validation(MsgInvalidThreshold)
	}

	item, err := s.store.Update(ctx, oid, models.InventoryUpdate{
		Name:              trimmed(in.Name),
		Category:          trimmed(in.Category),
		Location:          trimmed(in.Location),
		Quantity:          in.Quantity,
		LowStockThreshold: in.LowStockThreshold,
	})
	if err != nil {
		return models.InventoryItem{}, storeErr(err)
	}
	if err := s.record(ctx, actor, activity.ActionInventoryUpdated, fmt.Sprintf("Inventory item %s updated", item.Name)); err != nil {
		return models.InventoryItem{}, err
	}
	return item, nil
}

// Delete removes an item and returns its id.
func (s *Service) Delete(ctx context.Context, actor models.Actor, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(normalize.Name(id))
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound(MsgNotFound)
	}
	item, err := s.store.Delete(ctx, oid)
	if err != nil {
		return primitive.NilObjectID, storeErr(err)
	}
	if err := s.record(ctx, actor, activity.ActionInventoryDeleted, fmt.Sprintf("Inventory item %s removed", item.Name)); err != nil {
		return primitive.NilObjectID, err
	}
	return item.ID, nil
}

func (s *Service) record(ctx context.Context, actor models.Actor, action, details string) error {
	if err := s.audit.Record(ctx, actor, action, details); err != nil {
		return apperr.Internal("Failed to record activity", err)
	}
	return nil
}

func storeErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(MsgNotFound)
	}
	return apperr.Internal("Database error", err)
}
