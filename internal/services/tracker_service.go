// Package services orchestrates record storage and event publishing.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"expenses/internal/amqp"
	"expenses/internal/core"
	"expenses/internal/csvimport"
	"expenses/internal/records"
)

// TrackerService owns id generation and timestamps, writes through the
// record store, and publishes lifecycle events. A nil AMQP client disables
// eventing; publish failures are logged and never fail the request.
type TrackerService struct {
	store  records.Store
	events *amqp.Client
	seq    atomic.Int64
}

func NewTrackerService(store records.Store, events *amqp.Client) *TrackerService {
	return &TrackerService{store: store, events: events}
}

// nextID builds a composite id: owner, creation millis, process-wide
// sequence. The sequence keeps ids unique within one millisecond and
// doubles as the batch position for bulk inserts.
func (s *TrackerService) nextID(u core.User) string {
	return fmt.Sprintf("%s-%d-%d", strings.ToLower(string(u)), time.Now().UnixMilli(), s.seq.Add(1))
}

// List returns all records in insertion order.
func (s *TrackerService) List(ctx context.Context) ([]core.Expense, error) {
	return s.store.List(ctx)
}

// Create validates the draft, stamps it, and appends it to the store.
func (s *TrackerService) Create(ctx context.Context, d core.Draft) (core.Expense, error) {
	if strings.TrimSpace(d.Category) == "" {
		d.Category = core.DefaultCategory
	}
	if err := d.Validate(); err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		ID:          s.nextID(d.User),
		User:        d.User,
		Amount:      d.Amount,
		Description: d.Description,
		Date:        d.Date,
		Category:    d.Category,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense created", "id", e.ID, "user", e.User, "amount", e.Amount.String())
	s.publish(ctx, amqp.NewTransactionEvent(amqp.ActionCreated, e.ID, string(e.User)))
	return e, nil
}

// Update patches an existing record. The id is resolved before the patch
// is validated, so an unknown id wins over an invalid patch.
func (s *TrackerService) Update(ctx context.Context, id string, p core.Patch) (core.Expense, error) {
	if err := s.exists(ctx, id); err != nil {
		return core.Expense{}, err
	}
	if err := p.Validate(); err != nil {
		return core.Expense{}, err
	}

	e, err := s.store.Update(ctx, id, p)
	if err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense updated", "id", e.ID, "updated_by", e.UpdatedBy)
	s.publish(ctx, amqp.NewTransactionEvent(amqp.ActionUpdated, e.ID, string(e.User)))
	return e, nil
}

// Delete removes a record and returns it.
func (s *TrackerService) Delete(ctx context.Context, id string) (core.Expense, error) {
	e, err := s.store.Delete(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense deleted", "id", e.ID, "user", e.User)
	s.publish(ctx, amqp.NewTransactionEvent(amqp.ActionDeleted, e.ID, string(e.User)))
	return e, nil
}

// ImportCSV parses the uploaded text and appends every valid row on behalf
// of the given user. Invalid rows were already dropped by the parser; the
// emitted batch is returned in input order.
func (s *TrackerService) ImportCSV(ctx context.Context, user core.User, data string) ([]core.Expense, error) {
	rows := csvimport.Parse(data)

	imported := make([]core.Expense, 0, len(rows))
	now := time.Now().UTC()
	for _, row := range rows {
		e := core.Expense{
			ID:          s.nextID(user),
			User:        user,
			Amount:      row.Amount,
			Description: row.Description,
			Date:        row.Date,
			Category:    row.Category,
			CreatedAt:   now,
		}
		if err := s.store.Insert(ctx, e); err != nil {
			return nil, fmt.Errorf("save imported expense: %w", err)
		}
		imported = append(imported, e)
	}

	slog.InfoContext(ctx, "CSV import finished", "user", user, "imported", len(imported))
	if len(imported) > 0 {
		s.publish(ctx, amqp.NewImportEvent(string(user), len(imported)))
	}
	return imported, nil
}

// BulkInsert stamps and appends a batch of raw transaction shapes for one
// owner. Amounts are normalized to absolute value; beyond that the batch
// is taken as-is, in input order, without dedup.
func (s *TrackerService) BulkInsert(ctx context.Context, user core.User, items []core.Draft) ([]core.Expense, error) {
	inserted := make([]core.Expense, 0, len(items))
	uploadedAt := time.Now().UTC()
	for _, item := range items {
		category := item.Category
		if strings.TrimSpace(category) == "" {
			category = core.DefaultCategory
		}
		e := core.Expense{
			ID:          s.nextID(user),
			User:        user,
			Amount:      item.Amount.Abs(),
			Description: item.Description,
			Date:        item.Date,
			Category:    category,
			CreatedAt:   uploadedAt,
		}
		if err := s.store.Insert(ctx, e); err != nil {
			return nil, fmt.Errorf("save transaction: %w", err)
		}
		inserted = append(inserted, e)
	}

	slog.InfoContext(ctx, "Bulk insert finished", "user", user, "count", len(inserted))
	if len(inserted) > 0 {
		s.publish(ctx, amqp.NewImportEvent(string(user), len(inserted)))
	}
	return inserted, nil
}

// Reset clears all records.
func (s *TrackerService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	slog.InfoContext(ctx, "Store reset")
	s.publish(ctx, amqp.NewTransactionEvent(amqp.ActionReset, "", ""))
	return nil
}

// Close releases the store and AMQP connections.
func (s *TrackerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close tracker service: %v", errs)
	}
	return nil
}

func (s *TrackerService) exists(ctx context.Context, id string) error {
	items, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *TrackerService) publish(ctx context.Context, event *amqp.TransactionEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, event); err != nil {
		// The store already committed; eventing is best-effort.
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"action", event.Action, "id", event.ID, "error", err)
	}
}
