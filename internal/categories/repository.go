package categories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/store-mgmt/store-api/internal/platform/db"
	"github.com/store-mgmt/store-api/internal/shared"
)

const (
	uniqueViolation   = "23505"
	invalidRegex      = "2201B"
	categoriesColumns = "id, name, note"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns the PostgreSQL backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) FindByID(ctx context.Context, id string) (*Category, error) {
	parsed, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, `SELECT `+categoriesColumns+` FROM categories WHERE id = $1`, parsed)
}

func (r *repository) FindByIDs(ctx context.Context, ids []string) ([]Category, error) {
	parsed, err := ParseIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(parsed) == 0 {
		return []Category{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+categoriesColumns+` FROM categories WHERE id = ANY($1) ORDER BY name`, parsed)
	if err != nil {
		return nil, fmt.Errorf("categories: find by ids: %w", err)
	}
	return collect(rows)
}

func (r *repository) FindByName(ctx context.Context, name string) (*Category, error) {
	return r.findOne(ctx, `SELECT `+categoriesColumns+` FROM categories WHERE name = $1`, name)
}

// List uses a dynamic query since the filter and window are optional.
func (r *repository) List(ctx context.Context, q ListQuery) (Page, error) {
	if q.IsZero() {
		rows, err := r.pool.Query(ctx, `SELECT `+categoriesColumns+` FROM categories ORDER BY name`)
		if err != nil {
			return Page{}, fmt.Errorf("categories: list: %w", err)
		}
		items, err := collect(rows)
		if err != nil {
			return Page{}, err
		}
		return shared.NewPage(items, len(items), 0, 0), nil
	}

	where := ""
	args := []any{}
	argCount := 0
	if q.Search != "" {
		argCount++
		where = ` WHERE name ~* $` + strconv.Itoa(argCount)
		args = append(args, q.Search)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`+where, args...).Scan(&total); err != nil {
		return Page{}, mapQueryError("count", err)
	}

	if q.Limit == 0 {
		return shared.NewPage[Category](nil, total, q.Offset, 0), nil
	}

	query := `SELECT ` + categoriesColumns + ` FROM categories` + where + ` ORDER BY name`
	argCount++
	query += ` LIMIT $` + strconv.Itoa(argCount)
	args = append(args, q.Limit)
	argCount++
	query += ` OFFSET $` + strconv.Itoa(argCount)
	args = append(args, q.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return Page{}, mapQueryError("list", err)
	}
	items, err := collect(rows)
	if err != nil {
		return Page{}, err
	}
	return shared.NewPage(items, total, q.Offset, q.Limit), nil
}

func (r *repository) Create(ctx context.Context, name, note string) (*Category, error) {
	c := Category{ID: uuid.NewString(), Name: name, Note: note}
	_, err := r.pool.Exec(ctx, `INSERT INTO categories (id, name, note) VALUES ($1, $2, $3)`, c.ID, c.Name, c.Note)
	if err != nil {
		return nil, mapWriteError(name, err)
	}
	return &c, nil
}

// Update applies patch inside a transaction so the read-modify-write is
// atomic.
func (r *repository) Update(ctx context.Context, id string, patch Patch) (*Category, error) {
	parsed, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	var updated *Category
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := scanOne(tx.QueryRow(ctx, `SELECT `+categoriesColumns+` FROM categories WHERE id = $1 FOR UPDATE`, parsed))
		if err != nil || current == nil {
			return err
		}
		if patch.Name != nil {
			current.Name = *patch.Name
		}
		if patch.Note != nil {
			current.Note = *patch.Note
		}
		if _, err := tx.Exec(ctx, `UPDATE categories SET name = $1, note = $2, updated_at = NOW() WHERE id = $3`, current.Name, current.Note, parsed); err != nil {
			return mapWriteError(current.Name, err)
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id string) (bool, error) {
	parsed, err := ParseID(id)
	if err != nil {
		return false, err
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, parsed)
	if err != nil {
		return false, fmt.Errorf("categories: delete: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repository) findOne(ctx context.Context, query string, arg any) (*Category, error) {
	return scanOne(r.pool.QueryRow(ctx, query, arg))
}

func scanOne(row pgx.Row) (*Category, error) {
	var (
		c  Category
		id uuid.UUID
	)
	if err := row.Scan(&id, &c.Name, &c.Note); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("categories: find: %w", err)
	}
	c.ID = id.String()
	return &c, nil
}

func collect(rows pgx.Rows) ([]Category, error) {
	defer rows.Close()
	items := []Category{}
	for rows.Next() {
		var (
			c  Category
			id uuid.UUID
		)
		if err := rows.Scan(&id, &c.Name, &c.Note); err != nil {
			return nil, fmt.Errorf("categories: scan: %w", err)
		}
		c.ID = id.String()
		items = append(items, c)
	}
	return items, rows.Err()
}

func mapWriteError(name string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: category %q already exists", shared.ErrDuplicate, name)
	}
	return fmt.Errorf("categories: write: %w", err)
}

func mapQueryError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidRegex {
		return fmt.Errorf("%w: search: %s", shared.ErrValidation, strings.TrimSpace(pgErr.Message))
	}
	return fmt.Errorf("categories: %s: %w", op, err)
}
