package services

import (
	"context"
	"errors"
	"testing"

	"expenses/internal/core"
	"expenses/internal/records"
	"expenses/internal/records/memory"
)

func newService() *TrackerService {
	return NewTrackerService(memory.New(), nil)
}

func draft(user core.User, amount float64, desc string) core.Draft {
	return core.Draft{
		User:        user,
		Amount:      core.AmountFromFloat(amount),
		Description: desc,
		Date:        "2024-01-05",
	}
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := newService()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		e, err := s.Create(ctx, draft(core.UserMatt, 1, "x"))
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if seen[e.ID] {
			t.Fatalf("duplicate id %s", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestCreateDefaultsCategory(t *testing.T) {
	ctx := context.Background()
	s := newService()

	e, err := s.Create(ctx, draft(core.UserMatt, 5, "Lunch"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.Category != core.DefaultCategory {
		t.Fatalf("category = %q, want %q", e.Category, core.DefaultCategory)
	}
	if e.CreatedAt.IsZero() {
		t.Fatalf("createdAt not stamped")
	}
}

func TestCreateInvalidUserDoesNotMutateStore(t *testing.T) {
	ctx := context.Background()
	s := newService()

	_, err := s.Create(ctx, draft("bob", 5, "Lunch"))
	if !errors.Is(err, core.ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser, got %v", err)
	}
	items, _ := s.List(ctx)
	if len(items) != 0 {
		t.Fatalf("store mutated by rejected create: %+v", items)
	}
}

func TestUpdateUnknownIDWinsOverInvalidPatch(t *testing.T) {
	ctx := context.Background()
	s := newService()

	bad := core.User("bob")
	_, err := s.Update(ctx, "missing", core.Patch{User: &bad})
	if !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestUpdateInvalidUser(t *testing.T) {
	ctx := context.Background()
	s := newService()
	e, _ := s.Create(ctx, draft(core.UserMatt, 5, "Lunch"))

	bad := core.User("bob")
	if _, err := s.Update(ctx, e.ID, core.Patch{User: &bad}); !errors.Is(err, core.ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser, got %v", err)
	}

	items, _ := s.List(ctx)
	if items[0].User != core.UserMatt || items[0].UpdatedAt != nil {
		t.Fatalf("store mutated by rejected update: %+v", items[0])
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newService()
	e, _ := s.Create(ctx, draft(core.UserEileen, 3, "Tea"))

	removed, err := s.Delete(ctx, e.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.ID != e.ID {
		t.Fatalf("wrong record removed: %+v", removed)
	}
	if _, err := s.Delete(ctx, e.ID); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestImportCSVStampsOwnerAndAppends(t *testing.T) {
	ctx := context.Background()
	s := newService()

	data := "Date,Description,Amount,Category\n" +
		`2024-01-05,"Coffee Shop",12.50,Dining` + "\n" +
		"2024-01-06,Refund,-9.00,\n" +
		"2024-01-07,BadAmount,N/A,Misc\n"

	imported, err := s.ImportCSV(ctx, core.UserMatt, data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(imported) != 2 {
		t.Fatalf("expected 2 imported records, got %d", len(imported))
	}

	first := imported[0]
	if first.User != core.UserMatt || first.Description != "Coffee Shop" ||
		first.Date != "2024-01-05" || first.Category != "Dining" {
		t.Fatalf("unexpected record: %+v", first)
	}
	if first.Amount.String() != "12.5" {
		t.Fatalf("amount = %s, want 12.5", first.Amount)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Fatalf("record not stamped: %+v", first)
	}

	second := imported[1]
	if second.Amount.IsNegative() || second.Amount.String() != "9" {
		t.Fatalf("negative amount not normalized: %s", second.Amount)
	}
	if second.Category != core.ImportedCategory {
		t.Fatalf("category = %q, want %q", second.Category, core.ImportedCategory)
	}

	items, _ := s.List(ctx)
	if len(items) != 2 {
		t.Fatalf("store holds %d records, want 2", len(items))
	}
}

func TestBulkInsert(t *testing.T) {
	ctx := context.Background()
	s := newService()

	batch := []core.Draft{
		{Amount: core.AmountFromFloat(-4.5), Description: "A", Date: "2024-01-01"},
		{Amount: core.AmountFromFloat(2), Description: "B", Date: "2024-01-02", Category: "Travel"},
	}
	inserted, err := s.BulkInsert(ctx, core.UserEileen, batch)
	if err != nil {
		t.Fatalf("bulk insert: %v", err)
	}
	if len(inserted) != 2 {
		t.Fatalf("expected 2 inserted, got %d", len(inserted))
	}
	if inserted[0].Amount.IsNegative() {
		t.Fatalf("bulk amount not normalized: %s", inserted[0].Amount)
	}
	if inserted[0].Category != core.DefaultCategory || inserted[1].Category != "Travel" {
		t.Fatalf("categories wrong: %q / %q", inserted[0].Category, inserted[1].Category)
	}
	for _, e := range inserted {
		if e.User != core.UserEileen {
			t.Fatalf("owner not stamped: %+v", e)
		}
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := newService()
	_, _ = s.Create(ctx, draft(core.UserMatt, 5, "Lunch"))

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	items, _ := s.List(ctx)
	if len(items) != 0 {
		t.Fatalf("expected empty store after reset, got %d", len(items))
	}
}
