package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalogo-api/internal/domain"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var productSortColumns = map[string]string{
	"id":         "p.id",
	"sku":        "p.sku",
	"name":       "p.name",
	"unitPrice":  "p.unit_price",
	"stock":      "p.stock",
	"createdAt":  "p.created_at",
	"modifiedAt": "p.modified_at",
}

const productColumns = `id, sku, name, description, unit_price, stock, image_url, active, created_at, modified_at, subcategory_id`

const productDetailFrom = `
	FROM products p
	JOIN subcategories s ON s.id = p.subcategory_id
	JOIN categories c ON c.id = s.category_id
`

const productDetailColumns = `
	p.id, p.sku, p.name, p.description, p.unit_price, p.stock, p.image_url, p.active,
	p.created_at, p.modified_at, p.subcategory_id,
	s.id, s.name, s.description, s.category_id, c.id, c.name
`

// ProductFilter narrows a product listing. Zero values mean "no filter".
type ProductFilter struct {
	NameContains  string
	SubcategoryID int64
	CategoryID    int64
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	UpdateStock(ctx context.Context, id int64, stock int, modifiedAt time.Time) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error)
	FindBySKU(ctx context.Context, sku int64) (*domain.Product, error)
	FindByName(ctx context.Context, name string) (*domain.Product, error)
	FindDetailByID(ctx context.Context, id int64) (*domain.ProductDetail, error)
	List(ctx context.Context, filter ProductFilter, page domain.PageRequest) ([]*domain.ProductDetail, int64, error)
}

type productRepository struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &productRepository{db: db, getter: trmpgx.DefaultCtxGetter}
}

func (r *productRepository) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.db)
}

// Create inserts a new product and fills in the generated ID
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (sku, name, description, unit_price, stock, image_url, active, created_at, modified_at, subcategory_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.conn(ctx).QueryRow(ctx, query,
		product.SKU,
		product.Name,
		product.Description,
		product.UnitPrice,
		product.Stock,
		product.ImageURL,
		product.Active,
		product.CreatedAt,
		product.ModifiedAt,
		product.SubcategoryID,
	).Scan(&product.ID)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update replaces the mutable fields of an existing product. sku and created_at are never written.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, unit_price = $4, stock = $5,
		    image_url = $6, active = $7, modified_at = $8, subcategory_id = $9
		WHERE id = $1
	`

	tag, err := r.conn(ctx).Exec(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.UnitPrice,
		product.Stock,
		product.ImageURL,
		product.Active,
		product.ModifiedAt,
		product.SubcategoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateStock sets the stock level of a product
func (r *productRepository) UpdateStock(ctx context.Context, id int64, stock int, modifiedAt time.Time) error {
	query := `UPDATE products SET stock = $2, modified_at = $3 WHERE id = $1`

	tag, err := r.conn(ctx).Exec(ctx, query, id, stock, modifiedAt)
	if err != nil {
		return fmt.Errorf("failed to update product stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a product by ID
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// FindByIDForUpdate retrieves a product and locks its row until the surrounding
// transaction ends. Concurrent stock changes to the same product run one after another.
func (r *productRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

// FindBySKU retrieves a product by SKU
func (r *productRepository) FindBySKU(ctx context.Context, sku int64) (*domain.Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

// FindByName retrieves a product by its exact name
func (r *productRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE name = $1`, name)
}

func (r *productRepository) findOne(ctx context.Context, query string, arg any) (*domain.Product, error) {
	product := &domain.Product{}
	err := r.conn(ctx).QueryRow(ctx, query, arg).Scan(
		&product.ID,
		&product.SKU,
		&product.Name,
		&product.Description,
		&product.UnitPrice,
		&product.Stock,
		&product.ImageURL,
		&product.Active,
		&product.CreatedAt,
		&product.ModifiedAt,
		&product.SubcategoryID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

// FindDetailByID retrieves a product joined with its subcategory and category
func (r *productRepository) FindDetailByID(ctx context.Context, id int64) (*domain.ProductDetail, error) {
	query := `SELECT ` + productDetailColumns + productDetailFrom + ` WHERE p.id = $1`

	detail, err := scanProductDetail(r.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product detail: %w", err)
	}

	return detail, nil
}

// List retrieves products with optional filtering, pagination, and sorting
func (r *productRepository) List(ctx context.Context, filter ProductFilter, page domain.PageRequest) ([]*domain.ProductDetail, int64, error) {
	// Build the WHERE clause
	conditions := []string{}
	args := []any{}
	argIndex := 1

	if filter.NameContains != "" {
		conditions = append(conditions, fmt.Sprintf("p.name ILIKE $%d", argIndex))
		args = append(args, likePattern(filter.NameContains))
		argIndex++
	}
	if filter.SubcategoryID != 0 {
		conditions = append(conditions, fmt.Sprintf("p.subcategory_id = $%d", argIndex))
		args = append(args, filter.SubcategoryID)
		argIndex++
	}
	if filter.CategoryID != 0 {
		conditions = append(conditions, fmt.Sprintf("s.category_id = $%d", argIndex))
		args = append(args, filter.CategoryID)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total products
	var total int64
	countQuery := `SELECT COUNT(*) ` + productDetailFrom + whereClause
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s %s %s LIMIT $%d OFFSET $%d`,
		productDetailColumns, productDetailFrom, whereClause,
		orderBy(page, productSortColumns), argIndex, argIndex+1)

	args = append(args, page.Size, page.Offset())

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.ProductDetail{}
	for rows.Next() {
		detail, err := scanProductDetail(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

func scanProductDetail(row pgx.Row) (*domain.ProductDetail, error) {
	detail := &domain.ProductDetail{}
	err := row.Scan(
		&detail.ID,
		&detail.SKU,
		&detail.Name,
		&detail.Description,
		&detail.UnitPrice,
		&detail.Stock,
		&detail.ImageURL,
		&detail.Active,
		&detail.CreatedAt,
		&detail.ModifiedAt,
		&detail.SubcategoryID,
		&detail.Subcategory.ID,
		&detail.Subcategory.Name,
		&detail.Subcategory.Description,
		&detail.Subcategory.CategoryID,
		&detail.Subcategory.Category.ID,
		&detail.Subcategory.Category.Name,
	)
	if err != nil {
		return nil, err
	}
	return detail, nil
}
