package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dukapos/dukapos/internal/domain"
)

// Validation failures for inventory writes
var (
	ErrNameRequired  = errors.New("item name is required")
	ErrInvalidPrice  = errors.New("price must be greater than zero")
	ErrNegativeStock = errors.New("quantity must not be negative")
)

// InventoryService manages the item catalogue. Stock quantities are only
// ever mutated here by explicit restock; decrements happen on the sale path.
type InventoryService struct {
	itemRepo domain.ItemRepository
	logger   *slog.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(itemRepo domain.ItemRepository, logger *slog.Logger) *InventoryService {
	if logger == nil {
		logger = slog.Default()
	}

	return &InventoryService{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// AddItem creates a new inventory item
func (s *InventoryService) AddItem(ctx context.Context, name string, quantity int, price float64) (*domain.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if quantity < 0 {
		return nil, ErrNegativeStock
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}

	item := &domain.Item{
		Name:     name,
		Quantity: quantity,
		Price:    price,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("item added",
		slog.Int64("item_id", item.ID),
		slog.String("name", item.Name),
		slog.Int("quantity", item.Quantity),
	)
	return item, nil
}

// Restock increments an item's stock by a positive quantity
func (s *InventoryService) Restock(ctx context.Context, id int64, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	if err := s.itemRepo.Restock(ctx, id, quantity); err != nil {
		return err
	}

	s.logger.Info("item restocked",
		slog.Int64("item_id", id),
		slog.Int("quantity", quantity),
	)
	return nil
}

// ListItems returns the full catalogue
func (s *InventoryService) ListItems(ctx context.Context) ([]*domain.Item, error) {
	return s.itemRepo.List(ctx)
}

// DeleteItem removes an item. The repository blocks deletion while sales
// reference the item.
func (s *InventoryService) DeleteItem(ctx context.Context, id int64) error {
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("item deleted", slog.Int64("item_id", id))
	return nil
}
