package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven/mocks"
	"github.com/edutech/edutech-core/internal/core/ports/driving"
)

func TestCategoryService_Create(t *testing.T) {
	store := mocks.NewMockCategoryStore()
	svc := NewCategoryService(store, nil)
	ctx := context.Background()

	desc := "Everything about graphs"
	category, err := svc.Create(ctx, testUserID, driving.CreateCategoryRequest{Name: "  Graphs ", Description: &desc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if category.Name != "Graphs" {
		t.Errorf("expected trimmed name, got %q", category.Name)
	}
	if category.UserID != testUserID {
		t.Errorf("expected owner %d, got %d", testUserID, category.UserID)
	}

	for _, name := range []string{"", "   ", strings.Repeat("x", 101)} {
		if _, err := svc.Create(ctx, testUserID, driving.CreateCategoryRequest{Name: name}); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("name %q: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestCategoryService_List(t *testing.T) {
	store := mocks.NewMockCategoryStore()
	store.Put(&domain.Category{ID: 1, UserID: testUserID, Name: "A"})
	store.Put(&domain.Category{ID: 2, UserID: otherUserID, Name: "B"})
	store.Put(&domain.Category{ID: 3, UserID: testUserID, Name: "C"})
	svc := NewCategoryService(store, nil)

	categories, err := svc.List(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories[0].Name != "A" || categories[1].Name != "C" {
		t.Errorf("unexpected categories %q, %q", categories[0].Name, categories[1].Name)
	}
}

func TestResolveCategory(t *testing.T) {
	ctx := context.Background()
	owned := int64(5)
	foreign := int64(6)
	missing := int64(99)

	tests := []struct {
		name        string
		id          *int64
		wantName    string
		wantCreated bool
	}{
		{name: "owned category", id: &owned, wantName: "Mine"},
		{name: "no category requested", id: nil, wantName: domain.DefaultCategoryName, wantCreated: true},
		{name: "foreign category", id: &foreign, wantName: domain.DefaultCategoryName, wantCreated: true},
		{name: "unknown category", id: &missing, wantName: domain.DefaultCategoryName, wantCreated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockCategoryStore()
			store.Put(&domain.Category{ID: owned, UserID: testUserID, Name: "Mine", CreatedAt: time.Now()})
			store.Put(&domain.Category{ID: foreign, UserID: otherUserID, Name: domain.DefaultCategoryName, CreatedAt: time.Now()})
			before := store.Count()

			category, err := resolveCategory(ctx, store, slog.Default(), testUserID, tt.id)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if category.Name != tt.wantName {
				t.Errorf("expected %q, got %q", tt.wantName, category.Name)
			}
			if category.UserID != testUserID {
				t.Errorf("resolved category must belong to the user, got owner %d", category.UserID)
			}
			if created := store.Count() > before; created != tt.wantCreated {
				t.Errorf("expected created=%v, got %v", tt.wantCreated, created)
			}
		})
	}
}

func TestResolveCategory_ReusesOldestDefault(t *testing.T) {
	store := mocks.NewMockCategoryStore()
	store.Put(&domain.Category{ID: 8, UserID: testUserID, Name: domain.DefaultCategoryName})
	store.Put(&domain.Category{ID: 9, UserID: testUserID, Name: domain.DefaultCategoryName})

	category, err := resolveCategory(context.Background(), store, slog.Default(), testUserID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if category.ID != 8 {
		t.Errorf("expected oldest default category 8, got %d", category.ID)
	}
	if store.Count() != 2 {
		t.Error("no category should be created")
	}
}

func TestResolveCategory_CreateFails(t *testing.T) {
	store := mocks.NewMockCategoryStore()
	store.CreateFn = func(category *domain.Category) error {
		return errors.New("insert failed")
	}

	if _, err := resolveCategory(context.Background(), store, slog.Default(), testUserID, nil); err == nil {
		t.Error("expected error")
	}
}
