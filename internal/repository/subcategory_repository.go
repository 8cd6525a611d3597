package repository

import (
	"context"
	"errors"
	"fmt"

	"catalogo-api/internal/domain"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var subcategorySortColumns = map[string]string{
	"id":          "s.id",
	"name":        "s.name",
	"description": "s.description",
}

const subcategoryDetailColumns = `
	s.id, s.name, s.description, s.category_id, c.id, c.name
	FROM subcategories s
	JOIN categories c ON c.id = s.category_id
`

// SubcategoryRepository defines the interface for subcategory data access
type SubcategoryRepository interface {
	Create(ctx context.Context, subcategory *domain.Subcategory) error
	Update(ctx context.Context, subcategory *domain.Subcategory) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Subcategory, error)
	FindByName(ctx context.Context, name string) (*domain.Subcategory, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	FindDetailByID(ctx context.Context, id int64) (*domain.SubcategoryDetail, error)
	List(ctx context.Context, page domain.PageRequest) ([]*domain.SubcategoryDetail, int64, error)
}

type subcategoryRepository struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

// NewSubcategoryRepository creates a new instance of SubcategoryRepository
func NewSubcategoryRepository(db *pgxpool.Pool) SubcategoryRepository {
	return &subcategoryRepository{db: db, getter: trmpgx.DefaultCtxGetter}
}

func (r *subcategoryRepository) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.db)
}

// Create inserts a new subcategory and fills in the generated ID
func (r *subcategoryRepository) Create(ctx context.Context, subcategory *domain.Subcategory) error {
	query := `
		INSERT INTO subcategories (name, description, category_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.conn(ctx).QueryRow(ctx, query,
		subcategory.Name,
		subcategory.Description,
		subcategory.CategoryID,
	).Scan(&subcategory.ID)
	if err != nil {
		return fmt.Errorf("failed to create subcategory: %w", err)
	}

	return nil
}

// Update replaces the mutable fields and the category link of an existing subcategory
func (r *subcategoryRepository) Update(ctx context.Context, subcategory *domain.Subcategory) error {
	query := `
		UPDATE subcategories
		SET name = $2, description = $3, category_id = $4
		WHERE id = $1
	`

	tag, err := r.conn(ctx).Exec(ctx, query,
		subcategory.ID,
		subcategory.Name,
		subcategory.Description,
		subcategory.CategoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to update subcategory: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a subcategory by ID
func (r *subcategoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM subcategories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subcategory: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// FindByID retrieves a subcategory by ID
func (r *subcategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Subcategory, error) {
	return r.findOne(ctx, `SELECT id, name, description, category_id FROM subcategories WHERE id = $1`, id)
}

// FindByName retrieves a subcategory by its exact name
func (r *subcategoryRepository) FindByName(ctx context.Context, name string) (*domain.Subcategory, error) {
	return r.findOne(ctx, `SELECT id, name, description, category_id FROM subcategories WHERE name = $1`, name)
}

func (r *subcategoryRepository) findOne(ctx context.Context, query string, arg any) (*domain.Subcategory, error) {
	subcategory := &domain.Subcategory{}
	err := r.conn(ctx).QueryRow(ctx, query, arg).Scan(
		&subcategory.ID,
		&subcategory.Name,
		&subcategory.Description,
		&subcategory.CategoryID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find subcategory: %w", err)
	}

	return subcategory, nil
}

// ExistsByID reports whether a subcategory with the given ID exists
func (r *subcategoryRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM subcategories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check subcategory existence: %w", err)
	}
	return exists, nil
}

// FindDetailByID retrieves a subcategory joined with its category
func (r *subcategoryRepository) FindDetailByID(ctx context.Context, id int64) (*domain.SubcategoryDetail, error) {
	query := `SELECT ` + subcategoryDetailColumns + ` WHERE s.id = $1`

	detail, err := scanSubcategoryDetail(r.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find subcategory detail: %w", err)
	}

	return detail, nil
}

// List retrieves a page of subcategories joined with their categories
func (r *subcategoryRepository) List(ctx context.Context, page domain.PageRequest) ([]*domain.SubcategoryDetail, int64, error) {
	var total int64
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM subcategories`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count subcategories: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s LIMIT $1 OFFSET $2`,
		subcategoryDetailColumns, orderBy(page, subcategorySortColumns))

	rows, err := r.conn(ctx).Query(ctx, query, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subcategories: %w", err)
	}
	defer rows.Close()

	subcategories := []*domain.SubcategoryDetail{}
	for rows.Next() {
		detail, err := scanSubcategoryDetail(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan subcategory: %w", err)
		}
		subcategories = append(subcategories, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating subcategories: %w", err)
	}

	return subcategories, total, nil
}

func scanSubcategoryDetail(row pgx.Row) (*domain.SubcategoryDetail, error) {
	detail := &domain.SubcategoryDetail{}
	err := row.Scan(
		&detail.ID,
		&detail.Name,
		&detail.Description,
		&detail.CategoryID,
		&detail.Category.ID,
		&detail.Category.Name,
	)
	if err != nil {
		return nil, err
	}
	return detail, nil
}
