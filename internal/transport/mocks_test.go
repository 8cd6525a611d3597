package transport

import (
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	"catalogo-api/internal/domain"
	"catalogo-api/internal/repository"
	"catalogo-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// mockCatalog keeps every table in memory behind the repository interfaces
type mockCatalog struct {
	categories    map[int64]domain.Category
	subcategories map[int64]domain.Subcategory
	products      map[int64]domain.Product
	nextID        int64
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		categories:    map[int64]domain.Category{},
		subcategories: map[int64]domain.Subcategory{},
		products:      map[int64]domain.Product{},
	}
}

func (m *mockCatalog) id() int64 {
	m.nextID++
	return m.nextID
}

// Do restores every table when fn fails
func (m *mockCatalog) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	categories, subcategories, products := maps.Clone(m.categories), maps.Clone(m.subcategories), maps.Clone(m.products)
	if err := fn(ctx); err != nil {
		m.categories, m.subcategories, m.products = categories, subcategories, products
		return err
	}
	return nil
}

func window[T any](items []T, page domain.PageRequest) []T {
	start := min(page.Offset(), len(items))
	end := min(start+page.Size, len(items))
	return items[start:end]
}

type mockCategoryRepository struct{ m *mockCatalog }

func (r *mockCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	c.ID = r.m.id()
	r.m.categories[c.ID] = *c
	return nil
}

func (r *mockCategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	if _, ok := r.m.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	r.m.categories[c.ID] = *c
	return nil
}

func (r *mockCategoryRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := r.m.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.m.categories, id)
	return nil
}

func (r *mockCategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	c, ok := r.m.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *mockCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	for _, c := range r.m.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *mockCategoryRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := r.m.categories[id]
	return ok, nil
}

func (r *mockCategoryRepository) List(ctx context.Context, page domain.PageRequest) ([]*domain.Category, int64, error) {
	ids := slices.Sorted(maps.Keys(r.m.categories))
	result := []*domain.Category{}
	for _, id := range window(ids, page) {
		c := r.m.categories[id]
		result = append(result, &c)
	}
	return result, int64(len(ids)), nil
}

type mockSubcategoryRepository struct{ m *mockCatalog }

func (r *mockSubcategoryRepository) detail(s domain.Subcategory) *domain.SubcategoryDetail {
	return &domain.SubcategoryDetail{Subcategory: s, Category: r.m.categories[s.CategoryID]}
}

func (r *mockSubcategoryRepository) Create(ctx context.Context, s *domain.Subcategory) error {
	s.ID = r.m.id()
	r.m.subcategories[s.ID] = *s
	return nil
}

func (r *mockSubcategoryRepository) Update(ctx context.Context, s *domain.Subcategory) error {
	if _, ok := r.m.subcategories[s.ID]; !ok {
		return repository.ErrNotFound
	}
	r.m.subcategories[s.ID] = *s
	return nil
}

func (r *mockSubcategoryRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := r.m.subcategories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.m.subcategories, id)
	return nil
}

func (r *mockSubcategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Subcategory, error) {
	s, ok := r.m.subcategories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *mockSubcategoryRepository) FindByName(ctx context.Context, name string) (*domain.Subcategory, error) {
	for _, s := range r.m.subcategories {
		if s.Name == name {
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *mockSubcategoryRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := r.m.subcategories[id]
	return ok, nil
}

func (r *mockSubcategoryRepository) FindDetailByID(ctx context.Context, id int64) (*domain.SubcategoryDetail, error) {
	s, ok := r.m.subcategories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.detail(s), nil
}

func (r *mockSubcategoryRepository) List(ctx context.Context, page domain.PageRequest) ([]*domain.SubcategoryDetail, int64, error) {
	ids := slices.Sorted(maps.Keys(r.m.subcategories))
	result := []*domain.SubcategoryDetail{}
	for _, id := range window(ids, page) {
		result = append(result, r.detail(r.m.subcategories[id]))
	}
	return result, int64(len(ids)), nil
}

type mockProductRepository struct{ m *mockCatalog }

func (r *mockProductRepository) detail(p domain.Product) *domain.ProductDetail {
	s := r.m.subcategories[p.SubcategoryID]
	return &domain.ProductDetail{
		Product:     p,
		Subcategory: domain.SubcategoryDetail{Subcategory: s, Category: r.m.categories[s.CategoryID]},
	}
}

func (r *mockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	p.ID = r.m.id()
	r.m.products[p.ID] = *p
	return nil
}

func (r *mockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if _, ok := r.m.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	r.m.products[p.ID] = *p
	return nil
}

func (r *mockProductRepository) UpdateStock(ctx context.Context, id int64, stock int, modifiedAt time.Time) error {
	p, ok := r.m.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Stock, p.ModifiedAt = stock, modifiedAt
	r.m.products[id] = p
	return nil
}

func (r *mockProductRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := r.m.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.m.products, id)
	return nil
}

func (r *mockProductRepository) find(match func(domain.Product) bool) (*domain.Product, error) {
	for _, p := range r.m.products {
		if match(p) {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.find(func(p domain.Product) bool { return p.ID == id })
}

func (r *mockProductRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *mockProductRepository) FindBySKU(ctx context.Context, sku int64) (*domain.Product, error) {
	return r.find(func(p domain.Product) bool { return p.SKU == sku })
}

func (r *mockProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	return r.find(func(p domain.Product) bool { return p.Name == name })
}

func (r *mockProductRepository) FindDetailByID(ctx context.Context, id int64) (*domain.ProductDetail, error) {
	p, ok := r.m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.detail(p), nil
}

func (r *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter, page domain.PageRequest) ([]*domain.ProductDetail, int64, error) {
	var matches []*domain.ProductDetail
	for _, id := range slices.Sorted(maps.Keys(r.m.products)) {
		d := r.detail(r.m.products[id])
		switch {
		case filter.NameContains != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.NameContains)):
		case filter.SubcategoryID != 0 && d.SubcategoryID != filter.SubcategoryID:
		case filter.CategoryID != 0 && d.Subcategory.CategoryID != filter.CategoryID:
		default:
			matches = append(matches, d)
		}
	}
	return window(matches, page), int64(len(matches)), nil
}

// newTestRouter wires the real services and handlers over a fresh mock catalogue
func newTestRouter() (chi.Router, *mockCatalog) {
	catalog := newMockCatalog()
	categories := &mockCategoryRepository{m: catalog}
	subcategories := &mockSubcategoryRepository{m: catalog}
	products := &mockProductRepository{m: catalog}
	logger := zap.NewNop()

	r := chi.NewRouter()
	NewCategoryHandler(
		service.NewCategoryQueryService(categories),
		service.NewCategoryMaintenanceService(categories, catalog, logger),
		logger,
	).RegisterRoutes(r)
	NewSubcategoryHandler(
		service.NewSubcategoryQueryService(subcategories),
		service.NewSubcategoryMaintenanceService(subcategories, categories, catalog, logger),
		logger,
	).RegisterRoutes(r)
	NewProductHandler(
		service.NewProductQueryService(products, subcategories, categories),
		service.NewProductMaintenanceService(products, subcategories, catalog, logger),
		logger,
	).RegisterRoutes(r)

	return r, catalog
}
