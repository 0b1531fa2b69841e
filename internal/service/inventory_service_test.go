package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dukapos/dukapos/internal/domain"
)

func TestAddItemValidation(t *testing.T) {
	s := NewInventoryService(&memItemRepo{}, nil)

	tests := []struct {
		name     string
		itemName string
		quantity int
		price    float64
		wantErr  error
	}{
		{"empty name", "", 1, 10, ErrNameRequired},
		{"whitespace name", "   ", 1, 10, ErrNameRequired},
		{"negative quantity", "Soap", -1, 10, ErrNegativeStock},
		{"zero price", "Soap", 1, 0, ErrInvalidPrice},
		{"negative price", "Soap", 1, -5, ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddItem(context.Background(), tt.itemName, tt.quantity, tt.price)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAddItemSuccess(t *testing.T) {
	repo := &memItemRepo{}
	s := NewInventoryService(repo, nil)

	item, err := s.AddItem(context.Background(), "  Soap  ", 10, 50.0)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if item.ID == 0 {
		t.Fatalf("expected assigned item id")
	}
	if item.Name != "Soap" {
		t.Fatalf("expected trimmed name, got %q", item.Name)
	}
}

func TestRestockValidation(t *testing.T) {
	repo := &memItemRepo{items: []*domain.Item{{ID: 1, Name: "Soap", Quantity: 2, Price: 50}}}
	s := NewInventoryService(repo, nil)

	for _, qty := range []int{0, -3} {
		if err := s.Restock(context.Background(), 1, qty); !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Fatalf("quantity %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}

	if err := s.Restock(context.Background(), 1, 5); err != nil {
		t.Fatalf("restock failed: %v", err)
	}
	if repo.items[0].Quantity != 7 {
		t.Fatalf("expected quantity 7 after restock, got %d", repo.items[0].Quantity)
	}
}

func TestRestockUnknownItem(t *testing.T) {
	s := NewInventoryService(&memItemRepo{}, nil)

	if err := s.Restock(context.Background(), 42, 5); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

type blockedDeleteRepo struct {
	memItemRepo
}

func (b *blockedDeleteRepo) Delete(_ context.Context, id int64) error {
	return domain.ErrItemHasSales
}

func TestDeleteItemBlockedBySales(t *testing.T) {
	s := NewInventoryService(&blockedDeleteRepo{}, nil)

	if err := s.DeleteItem(context.Background(), 1); !errors.Is(err, domain.ErrItemHasSales) {
		t.Fatalf("expected ErrItemHasSales, got %v", err)
	}
}
