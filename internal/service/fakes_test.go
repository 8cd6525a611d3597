package service

import (
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	"catalogo-api/internal/domain"
	"catalogo-api/internal/repository"

	"go.uber.org/zap"
)

// memoryStore is an in-memory stand-in for the relational store.
// Do snapshots all tables and restores them when fn fails, like a rolled back transaction.
type memoryStore struct {
	categories    map[int64]domain.Category
	subcategories map[int64]domain.Subcategory
	products      map[int64]domain.Product
	nextID        int64
	writes        int
	lockedReads   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		categories:    map[int64]domain.Category{},
		subcategories: map[int64]domain.Subcategory{},
		products:      map[int64]domain.Product{},
	}
}

func (m *memoryStore) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	categories := maps.Clone(m.categories)
	subcategories := maps.Clone(m.subcategories)
	products := maps.Clone(m.products)
	writes := m.writes

	if err := fn(ctx); err != nil {
		m.categories, m.subcategories, m.products, m.writes = categories, subcategories, products, writes
		return err
	}
	return nil
}

func (m *memoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

func paginate[T any](items []T, page domain.PageRequest) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := min(start+page.Size, len(items))
	return items[start:end]
}

type fakeCategoryRepository struct{ s *memoryStore }

func (r *fakeCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	c.ID = r.s.id()
	r.s.categories[c.ID] = *c
	r.s.writes++
	return nil
}

func (r *fakeCategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	if _, ok := r.s.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.categories[c.ID] = *c
	r.s.writes++
	return nil
}

func (r *fakeCategoryRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := r.s.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.categories, id)
	r.s.writes++
	return nil
}

func (r *fakeCategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	c, ok := r.s.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *fakeCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	for _, c := range r.s.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCategoryRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := r.s.categories[id]
	return ok, nil
}

func (r *fakeCategoryRepository) List(ctx context.Context, page domain.PageRequest) ([]*domain.Category, int64, error) {
	ids := slices.Sorted(maps.Keys(r.s.categories))
	result := []*domain.Category{}
	for _, id := range paginate(ids, page) {
		c := r.s.categories[id]
		result = append(result, &c)
	}
	return result, int64(len(ids)), nil
}

type fakeSubcategoryRepository struct{ s *memoryStore }

func (r *fakeSubcategoryRepository) detail(sub domain.Subcategory) *domain.SubcategoryDetail {
	return &domain.SubcategoryDetail{Subcategory: sub, Category: r.s.categories[sub.CategoryID]}
}

func (r *fakeSubcategoryRepository) Create(ctx context.Context, sub *domain.Subcategory) error {
	sub.ID = r.s.id()
	r.s.subcategories[sub.ID] = *sub
	r.s.writes++
	return nil
}

func (r *fakeSubcategoryRepository) Update(ctx context.Context, sub *domain.Subcategory) error {
	if _, ok := r.s.subcategories[sub.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.subcategories[sub.ID] = *sub
	r.s.writes++
	return nil
}

func (r *fakeSubcategoryRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := r.s.subcategories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.subcategories, id)
	r.s.writes++
	return nil
}

func (r *fakeSubcategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Subcategory, error) {
	sub, ok := r.s.subcategories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sub, nil
}

func (r *fakeSubcategoryRepository) FindByName(ctx context.Context, name string) (*domain.Subcategory, error) {
	for _, sub := range r.s.subcategories {
		if sub.Name == name {
			return &sub, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSubcategoryRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := r.s.subcategories[id]
	return ok, nil
}

func (r *fakeSubcategoryRepository) FindDetailByID(ctx context.Context, id int64) (*domain.SubcategoryDetail, error) {
	sub, ok := r.s.subcategories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.detail(sub), nil
}

func (r *fakeSubcategoryRepository) List(ctx context.Context, page domain.PageRequest) ([]*domain.SubcategoryDetail, int64, error) {
	ids := slices.Sorted(maps.Keys(r.s.subcategories))
	result := []*domain.SubcategoryDetail{}
	for _, id := range paginate(ids, page) {
		result = append(result, r.detail(r.s.subcategories[id]))
	}
	return result, int64(len(ids)), nil
}

type fakeProductRepository struct{ s *memoryStore }

func (r *fakeProductRepository) detail(p domain.Product) *domain.ProductDetail {
	sub := r.s.subcategories[p.SubcategoryID]
	return &domain.ProductDetail{
		Product:     p,
		Subcategory: domain.SubcategoryDetail{Subcategory: sub, Category: r.s.categories[sub.CategoryID]},
	}
}

func (r *fakeProductRepository) Create(ctx context.Context, p *domain.Product) error {
	p.ID = r.s.id()
	r.s.products[p.ID] = *p
	r.s.writes++
	return nil
}

func (r *fakeProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if _, ok := r.s.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.products[p.ID] = *p
	r.s.writes++
	return nil
}

func (r *fakeProductRepository) UpdateStock(ctx context.Context, id int64, stock int, modifiedAt time.Time) error {
	p, ok := r.s.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Stock, p.ModifiedAt = stock, modifiedAt
	r.s.products[id] = p
	r.s.writes++
	return nil
}

func (r *fakeProductRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := r.s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.products, id)
	r.s.writes++
	return nil
}

func (r *fakeProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProductRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	r.s.lockedReads++
	return r.FindByID(ctx, id)
}

func (r *fakeProductRepository) FindBySKU(ctx context.Context, sku int64) (*domain.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	for _, p := range r.s.products {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProductRepository) FindDetailByID(ctx context.Context, id int64) (*domain.ProductDetail, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.detail(p), nil
}

func (r *fakeProductRepository) List(ctx context.Context, filter repository.ProductFilter, page domain.PageRequest) ([]*domain.ProductDetail, int64, error) {
	var matches []*domain.ProductDetail
	for _, id := range slices.Sorted(maps.Keys(r.s.products)) {
		d := r.detail(r.s.products[id])
		if filter.NameContains != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.NameContains)) {
			continue
		}
		if filter.SubcategoryID != 0 && d.SubcategoryID != filter.SubcategoryID {
			continue
		}
		if filter.CategoryID != 0 && d.Subcategory.CategoryID != filter.CategoryID {
			continue
		}
		matches = append(matches, d)
	}
	return paginate(matches, page), int64(len(matches)), nil
}

// services bundles every service over one memory store
type services struct {
	store            *memoryStore
	categoryQuery    CategoryQueryService
	categoryMaint    CategoryMaintenanceService
	subcategoryQuery SubcategoryQueryService
	subcategoryMaint SubcategoryMaintenanceService
	productQuery     ProductQueryService
	productMaint     ProductMaintenanceService
	productMaintImpl *productMaintenanceService
}

func newServices() *services {
	store := newMemoryStore()
	categories := &fakeCategoryRepository{s: store}
	subcategories := &fakeSubcategoryRepository{s: store}
	products := &fakeProductRepository{s: store}
	logger := zap.NewNop()

	productMaint := NewProductMaintenanceService(products, subcategories, store, logger)

	return &services{
		store:            store,
		categoryQuery:    NewCategoryQueryService(categories),
		categoryMaint:    NewCategoryMaintenanceService(categories, store, logger),
		subcategoryQuery: NewSubcategoryQueryService(subcategories),
		subcategoryMaint: NewSubcategoryMaintenanceService(subcategories, categories, store, logger),
		productQuery:     NewProductQueryService(products, subcategories, categories),
		productMaint:     productMaint,
		productMaintImpl: productMaint.(*productMaintenanceService),
	}
}
