package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"expenses/internal/core"
	"expenses/internal/records"
)

func expense(id string, desc string) core.Expense {
	return core.Expense{
		ID:          id,
		User:        core.UserMatt,
		Amount:      core.AmountFromFloat(10),
		Description: desc,
		Date:        "2024-01-05",
		Category:    core.DefaultCategory,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestInsertPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, id := range []string{"a", "b", "c"} {
		if err := s.Insert(ctx, expense(id, "x")); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}
	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, id := range []string{"a", "b", "c"} {
		if items[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, items[i].ID)
		}
	}
}

func TestUpdateUnknownID(t *testing.T) {
	s := New()
	_, err := s.Update(context.Background(), "missing", core.Patch{})
	if !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateAppliesPatch(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Insert(ctx, expense("a", "Lunch")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	cat := "Dining"
	updated, err := s.Update(ctx, "a", core.Patch{Category: &cat, UpdatedBy: "Eileen"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Category != "Dining" || updated.UpdatedBy != "Eileen" {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.UpdatedAt == nil {
		t.Fatalf("updatedAt not stamped")
	}
	if updated.Description != "Lunch" {
		t.Fatalf("untouched field changed: %s", updated.Description)
	}
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Insert(ctx, expense("a", "one"))
	_ = s.Insert(ctx, expense("b", "two"))

	removed, err := s.Delete(ctx, "a")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.ID != "a" || removed.Description != "one" {
		t.Fatalf("wrong record removed: %+v", removed)
	}

	items, _ := s.List(ctx)
	if len(items) != 1 || items[0].ID != "b" {
		t.Fatalf("store left in bad state: %+v", items)
	}

	if _, err := s.Delete(ctx, "a"); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Insert(ctx, expense("a", "one"))
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	items, _ := s.List(ctx)
	if len(items) != 0 {
		t.Fatalf("expected empty store after reset, got %d items", len(items))
	}
}

func TestListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Insert(ctx, expense("a", "one"))
	items, _ := s.List(ctx)
	items[0].Description = "mutated"
	again, _ := s.List(ctx)
	if again[0].Description != "one" {
		t.Fatalf("List leaked internal state")
	}
}
