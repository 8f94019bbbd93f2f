// Package repository contains data access logic separated from HTTP handlers.
// This file defines the ItemRepo, the only owner of the stored Item rows.
// Every method runs in its own transaction which is committed on success
// and rolled back on every other exit path. Absence of a row is reported
// through a boolean, never through an error, so callers can tell it apart
// from a store failure.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/database"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/model"
)

// ItemRepo encapsulates all queries against the items table.
type ItemRepo struct {
	db *database.DB
}

// NewItemRepo constructs an ItemRepo with the provided pool. The pool is
// created once at process start and shared by every request.
func NewItemRepo(db *database.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// Insert stores a new item and returns it with its assigned ID.
func (r *ItemRepo) Insert(ctx context.Context, name, description string) (model.Item, error) {
	item := model.Item{Name: name, Description: description}
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if r.db.Dialect.Returning {
			q := r.q("INSERT INTO items (name, description) VALUES (?, ?) RETURNING id")
			return tx.QueryRowContext(ctx, q, name, description).Scan(&item.ID)
		}
		res, err := tx.ExecContext(ctx, r.q("INSERT INTO items (name, description) VALUES (?, ?)"), name, description)
		if err != nil {
			return err
		}
		item.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return model.Item{}, fmt.Errorf("insert item: %w", err)
	}
	return item, nil
}

// ListAll returns every stored item ordered by id, which is insertion
// order. The result is never nil.
func (r *ItemRepo) ListAll(ctx context.Context) ([]model.Item, error) {
	out := []model.Item{}
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, "SELECT id, name, description FROM items ORDER BY id")
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var it model.Item
			if err := rows.Scan(&it.ID, &it.Name, &it.Description); err != nil {
				return err
			}
			out = append(out, it)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return out, nil
}

// GetByID fetches a single item. The boolean is false when no row has
// the given id.
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (model.Item, bool, error) {
	var (
		item  model.Item
		found bool
	)
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		item, found, err = r.selectByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return model.Item{}, false, fmt.Errorf("get item %d: %w", id, err)
	}
	return item, found, nil
}

// Update overwrites name and description of an existing item and returns
// the stored row. When the item does not exist nothing is written and the
// boolean is false.
func (r *ItemRepo) Update(ctx context.Context, id int64, name, description string) (model.Item, bool, error) {
	var (
		item  model.Item
		found bool
	)
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		// write first so SQLite takes the write lock up front
		res, err := tx.ExecContext(ctx,
			r.q("UPDATE items SET name = ?, description = ? WHERE id = ?"), name, description, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return errNoRow
		}
		item, found, err = r.selectByID(ctx, tx, id)
		return err
	})
	if errors.Is(err, errNoRow) {
		return model.Item{}, false, nil
	}
	if err != nil {
		return model.Item{}, false, fmt.Errorf("update item %d: %w", id, err)
	}
	return item, found, nil
}

// Delete removes an item. The boolean is false when there was nothing to
// remove.
func (r *ItemRepo) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, r.q("DELETE FROM items WHERE id = ?"), id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete item %d: %w", id, err)
	}
	return deleted, nil
}

func (r *ItemRepo) selectByID(ctx context.Context, tx *sql.Tx, id int64) (model.Item, bool, error) {
	var it model.Item
	err := tx.QueryRowContext(ctx, r.q("SELECT id, name, description FROM items WHERE id = ?"), id).
		Scan(&it.ID, &it.Name, &it.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, false, nil
	}
	if err != nil {
		return model.Item{}, false, err
	}
	return it, true, nil
}

func (r *ItemRepo) q(query string) string {
	return r.db.Dialect.Rebind(query)
}
