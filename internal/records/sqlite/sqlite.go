// Package sqlite implements the record store on an in-process SQLite
// database. The default DSN is ":memory:", keeping all data in process
// memory; pointing SQLITE_DB_PATH at a file is possible but not required
// by the service.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"expenses/internal/core"
	"expenses/internal/records"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

type Repository struct {
	// mu serializes mutations so the store behaves like the single
	// mutation lock the memory backend uses.
	mu sync.Mutex
	db *sql.DB
}

func NewRepository(dsn string) (*Repository, error) {
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// An in-memory database lives and dies with its connection; a second
	// pooled connection would see an empty schema.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// List returns all records ordered by insertion position.
func (r *Repository) List(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user, amount, description, date, category, created_at, updated_at, updated_by
		FROM transactions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

// Insert appends a fully-stamped record.
func (r *Repository) Insert(ctx context.Context, e core.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user, amount, description, date, category, created_at, updated_at, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.User), e.Amount.String(), e.Description, e.Date, e.Category,
		e.CreatedAt.UTC().Format(timeLayout), nullableTime(e.UpdatedAt), e.UpdatedBy)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved to SQLite", "id", e.ID, "user", e.User)
	return nil
}

// Update applies the patch to the record with the given id.
func (r *Repository) Update(ctx context.Context, id string, p core.Patch) (core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Expense{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	e, err := getTx(ctx, tx, id)
	if err != nil {
		return core.Expense{}, err
	}

	p.Apply(&e, time.Now().UTC())

	_, err = tx.ExecContext(ctx, `
		UPDATE transactions
		SET user = ?, amount = ?, description = ?, date = ?, category = ?, updated_at = ?, updated_by = ?
		WHERE id = ?`,
		string(e.User), e.Amount.String(), e.Description, e.Date, e.Category,
		nullableTime(e.UpdatedAt), e.UpdatedBy, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Expense{}, fmt.Errorf("commit update: %w", err)
	}
	return e, nil
}

// Delete removes the record with the given id and returns it.
func (r *Repository) Delete(ctx context.Context, id string) (core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Expense{}, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	e, err := getTx(ctx, tx, id)
	if err != nil {
		return core.Expense{}, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return core.Expense{}, fmt.Errorf("delete transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Expense{}, fmt.Errorf("commit delete: %w", err)
	}
	return e, nil
}

// Reset drops every record.
func (r *Repository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("reset transactions: %w", err)
	}
	return nil
}

func getTx(ctx context.Context, tx *sql.Tx, id string) (core.Expense, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT id, user, amount, description, date, category, created_at, updated_at, updated_by
		FROM transactions WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, records.ErrNotFound
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(s scanner) (core.Expense, error) {
	var (
		e         core.Expense
		user      string
		amount    string
		createdAt string
		updatedAt sql.NullString
	)
	err := s.Scan(&e.ID, &user, &amount, &e.Description, &e.Date, &e.Category, &createdAt, &updatedAt, &e.UpdatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, err
		}
		return core.Expense{}, fmt.Errorf("scan transaction: %w", err)
	}

	e.User = core.User(user)
	if e.Amount, err = core.ParseAmount(amount); err != nil {
		return core.Expense{}, fmt.Errorf("stored amount %q: %w", amount, err)
	}
	if e.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return core.Expense{}, fmt.Errorf("stored created_at %q: %w", createdAt, err)
	}
	if updatedAt.Valid {
		t, err := time.Parse(timeLayout, updatedAt.String)
		if err != nil {
			return core.Expense{}, fmt.Errorf("stored updated_at %q: %w", updatedAt.String, err)
		}
		e.UpdatedAt = &t
	}
	return e, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}
