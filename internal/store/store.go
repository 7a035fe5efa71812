// Package store persists taxis in SQLite for the rest/taxis service.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/VoxDroid/taxis/internal/taxi"
)

// Store errors.
var (
	ErrNotFound          = errors.New("taxi not found")
	ErrRegistrationTaken = errors.New("registration already in use")
)

const selectTaxi = "SELECT id, registration, seat, extra FROM taxis"

// Repository provides CRUD operations for taxis.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository using db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Close closes the underlying DB connection.
func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// FindAllOrderedByRegistration returns every taxi sorted by registration.
func (r *Repository) FindAllOrderedByRegistration(ctx context.Context) ([]taxi.Taxi, error) {
	return r.query(ctx, selectTaxi+" ORDER BY registration ASC")
}

// FindBySeat returns every taxi with the given seat count, sorted by
// registration.
func (r *Repository) FindBySeat(ctx context.Context, seat string) ([]taxi.Taxi, error) {
	return r.query(ctx, selectTaxi+" WHERE seat = ? ORDER BY registration ASC", seat)
}

// FindByID returns the taxi with id or ErrNotFound.
func (r *Repository) FindByID(ctx context.Context, id taxi.ID) (*taxi.Taxi, error) {
	return r.queryOne(ctx, selectTaxi+" WHERE id = ?", int64(id))
}

// FindByRegistration returns the taxi with the given registration or
// ErrNotFound.
func (r *Repository) FindByRegistration(ctx context.Context, registration string) (*taxi.Taxi, error) {
	return r.queryOne(ctx, selectTaxi+" WHERE registration = ?", registration)
}

// Create inserts t and returns it with its new id. A duplicate registration
// yields ErrRegistrationTaken.
func (r *Repository) Create(ctx context.Context, t taxi.Taxi) (*taxi.Taxi, error) {
	extra, err := encodeExtra(t)
	if err != nil {
		return nil, err
	}
	trx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = trx.Rollback() }()

	// the existence check runs inside the insert so concurrent creates cannot
	// both pass it
	res, err := trx.ExecContext(ctx, `INSERT INTO taxis (registration, seat, extra)
			SELECT ?, ?, ?
			WHERE NOT EXISTS(SELECT 1 FROM taxis WHERE registration = ?)`,
		t.Registration, t.Seat, extra, t.Registration)
	if err != nil {
		return nil, fmt.Errorf("insert taxi: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrRegistrationTaken
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := trx.Commit(); err != nil {
		return nil, err
	}
	out := t.Clone()
	out.ID = taxi.ID(id)
	return &out, nil
}

// Update overwrites the taxi with t.ID, or inserts it under that id when
// it does not exist yet.
func (r *Repository) Update(ctx context.Context, t taxi.Taxi) (*taxi.Taxi, error) {
	if t.ID == 0 {
		return nil, fmt.Errorf("update taxi: missing id")
	}
	extra, err := encodeExtra(t)
	if err != nil {
		return nil, err
	}
	trx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = trx.Rollback() }()

	if err := ensureRegistrationFreeTx(ctx, trx, t.Registration, t.ID); err != nil {
		return nil, err
	}
	res, err := trx.ExecContext(ctx, "UPDATE taxis SET registration = ?, seat = ?, extra = ? WHERE id = ?",
		t.Registration, t.Seat, extra, int64(t.ID))
	if err != nil {
		return nil, fmt.Errorf("update taxi: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		if _, err := trx.ExecContext(ctx, "INSERT INTO taxis (id, registration, seat, extra) VALUES (?, ?, ?, ?)",
			int64(t.ID), t.Registration, t.Seat, extra); err != nil {
			return nil, fmt.Errorf("insert taxi: %w", err)
		}
	}
	if err := trx.Commit(); err != nil {
		return nil, err
	}
	out := t.Clone()
	return &out, nil
}

// Delete removes the taxi with id, or returns ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id taxi.ID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM taxis WHERE id = ?", int64(id))
	if err != nil {
		return fmt.Errorf("delete taxi: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func ensureRegistrationFreeTx(ctx context.Context, trx *sql.Tx, registration string, id taxi.ID) error {
	var existingID int64
	row := trx.QueryRowContext(ctx, "SELECT id FROM taxis WHERE registration = ?", registration)
	if err := row.Scan(&existingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	if taxi.ID(existingID) != id {
		return ErrRegistrationTaken
	}
	return nil
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]taxi.Taxi, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []taxi.Taxi{}
	for rows.Next() {
		t, err := scanTaxi(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) queryOne(ctx context.Context, q string, args ...any) (*taxi.Taxi, error) {
	t, err := scanTaxi(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTaxi(s scanner) (taxi.Taxi, error) {
	var (
		t     taxi.Taxi
		id    int64
		extra string
	)
	if err := s.Scan(&id, &t.Registration, &t.Seat, &extra); err != nil {
		return taxi.Taxi{}, err
	}
	t.ID = taxi.ID(id)
	if strings.TrimSpace(extra) != "" && extra != "{}" {
		dec := json.NewDecoder(strings.NewReader(extra))
		dec.UseNumber()
		if err := dec.Decode(&t.Extra); err != nil {
			return taxi.Taxi{}, fmt.Errorf("decode extra for taxi %d: %w", id, err)
		}
	}
	return t, nil
}

func encodeExtra(t taxi.Taxi) (string, error) {
	if len(t.Extra) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(t.Extra)
	if err != nil {
		return "", fmt.Errorf("encode extra: %w", err)
	}
	return string(b), nil
}
