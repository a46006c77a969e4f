package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dress2mydoor/dress2mydoor/pkg/dress"
)

// DressFilter narrows ListDresses. Empty fields do not filter.
type DressFilter struct {
	Type   string
	Size   string
	Colour string
}

// ListDresses returns dresses matching every non-empty filter field, ordered
// by id. Size matches when it is one of the dress's sizes.
func (s *Store) ListDresses(ctx context.Context, f DressFilter) ([]dress.Record, error) {
	query := `SELECT id, name, price, type, sizes, colour, image FROM dresses`
	var where []string
	var args []any
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, f.Type)
	}
	if f.Colour != "" {
		where = append(where, "colour = ?")
		args = append(args, f.Colour)
	}
	if f.Size != "" {
		where = append(where, "EXISTS (SELECT 1 FROM json_each(dresses.sizes) WHERE json_each.value = ?)")
		args = append(args, f.Size)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dresses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]dress.Record, 0)
	for rows.Next() {
		r, err := scanDress(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetDress returns the dress with the given catalog id.
func (s *Store) GetDress(ctx context.Context, id int) (dress.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, price, type, sizes, colour, image FROM dresses WHERE id = ?`, id)
	r, err := scanDress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return dress.Record{}, ErrNotFound
	}
	return r, err
}

// ReplaceDresses deletes every dress and inserts records in one transaction.
func (s *Store) ReplaceDresses(ctx context.Context, records []dress.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM dresses`); err != nil {
		return fmt.Errorf("failed to clear dresses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO dresses (id, name, price, type, sizes, colour, image, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	now := s.timestamp()
	for _, r := range records {
		sizes := r.Sizes
		if sizes == nil {
			sizes = []dress.Size{}
		}
		encoded, err := json.Marshal(sizes)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.Name, r.Price, string(r.Type), string(encoded), r.Colour, r.Image, now); err != nil {
			return fmt.Errorf("failed to insert dress %d: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDress(row scanner) (dress.Record, error) {
	var (
		r     dress.Record
		typ   string
		sizes string
	)
	if err := row.Scan(&r.ID, &r.Name, &r.Price, &typ, &sizes, &r.Colour, &r.Image); err != nil {
		return dress.Record{}, err
	}
	r.Type = dress.Type(typ)
	if err := json.Unmarshal([]byte(sizes), &r.Sizes); err != nil {
		return dress.Record{}, fmt.Errorf("dress %d has corrupt sizes: %w", r.ID, err)
	}
	return r, nil
}
