package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalogo-api/internal/domain"
	"catalogo-api/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductInput carries the mutable fields of a product
type ProductInput struct {
	Name          string
	Description   string
	UnitPrice     decimal.Decimal
	Stock         int
	ImageURL      string
	Active        bool
	SubcategoryID int64
}

// CreateProductInput adds the immutable SKU to the mutable fields
type CreateProductInput struct {
	SKU int64
	ProductInput
}

// ProductQueryService defines the read path for products
type ProductQueryService interface {
	List(ctx context.Context, page domain.PageRequest) (domain.Page[ProductView], error)
	GetByID(ctx context.Context, id int64) (*ProductView, error)
	FindByName(ctx context.Context, name string, page domain.PageRequest) (domain.Page[ProductView], error)
	FindBySubcategory(ctx context.Context, subcategoryID int64, page domain.PageRequest) (domain.Page[ProductView], error)
	FindByCategory(ctx context.Context, categoryID int64, page domain.PageRequest) (domain.Page[ProductView], error)
}

// ProductMaintenanceService defines the write path for products
type ProductMaintenanceService interface {
	Create(ctx context.Context, input CreateProductInput) (*ProductView, error)
	Update(ctx context.Context, id int64, input ProductInput) (*ProductView, error)
	Delete(ctx context.Context, id int64) (string, error)
	SubtractStock(ctx context.Context, changes []domain.StockChange) error
	ReturnStock(ctx context.Context, changes []domain.StockChange) error
}

type productQueryService struct {
	productRepo     repository.ProductRepository
	subcategoryRepo repository.SubcategoryRepository
	categoryRepo    repository.CategoryRepository
}

// NewProductQueryService creates a new instance of ProductQueryService
func NewProductQueryService(
	productRepo repository.ProductRepository,
	subcategoryRepo repository.SubcategoryRepository,
	categoryRepo repository.CategoryRepository,
) ProductQueryService {
	return &productQueryService{
		productRepo:     productRepo,
		subcategoryRepo: subcategoryRepo,
		categoryRepo:    categoryRepo,
	}
}

// List returns a page of products. An empty result is reported as not found.
func (s *productQueryService) List(ctx context.Context, page domain.PageRequest) (domain.Page[ProductView], error) {
	return s.list(ctx, repository.ProductFilter{}, page, fmt.Sprintf("on page %d", page.Page))
}

// GetByID returns a single product with its subcategory and category
func (s *productQueryService) GetByID(ctx context.Context, id int64) (*ProductView, error) {
	detail, err := s.productRepo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.EntityProduct, id)
	}

	view := toProductView(detail)
	return &view, nil
}

// FindByName returns products whose name contains name, ignoring case.
// A blank name matches nothing.
func (s *productQueryService) FindByName(ctx context.Context, name string, page domain.PageRequest) (domain.Page[ProductView], error) {
	name = strings.TrimSpace(name)
	criteria := fmt.Sprintf("with name containing %q", name)
	if name == "" {
		return domain.Page[ProductView]{}, domain.NewNotFoundBy(domain.EntityProduct, criteria)
	}

	return s.list(ctx, repository.ProductFilter{NameContains: name}, page, criteria)
}

// FindBySubcategory returns the products of an existing subcategory
func (s *productQueryService) FindBySubcategory(ctx context.Context, subcategoryID int64, page domain.PageRequest) (domain.Page[ProductView], error) {
	exists, err := s.subcategoryRepo.ExistsByID(ctx, subcategoryID)
	if err != nil {
		return domain.Page[ProductView]{}, fmt.Errorf("failed to check subcategory: %w", err)
	}
	if !exists {
		return domain.Page[ProductView]{}, domain.NewNotFound(domain.EntitySubcategory, subcategoryID)
	}

	filter := repository.ProductFilter{SubcategoryID: subcategoryID}
	return s.list(ctx, filter, page, fmt.Sprintf("for subcategory %d", subcategoryID))
}

// FindByCategory returns the products of every subcategory of an existing category
func (s *productQueryService) FindByCategory(ctx context.Context, categoryID int64, page domain.PageRequest) (domain.Page[ProductView], error) {
	exists, err := s.categoryRepo.ExistsByID(ctx, categoryID)
	if err != nil {
		return domain.Page[ProductView]{}, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return domain.Page[ProductView]{}, domain.NewNotFound(domain.EntityCategory, categoryID)
	}

	filter := repository.ProductFilter{CategoryID: categoryID}
	return s.list(ctx, filter, page, fmt.Sprintf("for category %d", categoryID))
}

func (s *productQueryService) list(ctx context.Context, filter repository.ProductFilter, page domain.PageRequest, criteria string) (domain.Page[ProductView], error) {
	products, total, err := s.productRepo.List(ctx, filter, page)
	if err != nil {
		return domain.Page[ProductView]{}, fmt.Errorf("failed to list products: %w", err)
	}
	if len(products) == 0 {
		return domain.Page[ProductView]{}, domain.NewNotFoundBy(domain.EntityProduct, criteria)
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	return domain.NewPage(views, page, total), nil
}

type productMaintenanceService struct {
	productRepo     repository.ProductRepository
	subcategoryRepo repository.SubcategoryRepository
	tx              Transactor
	logger          *zap.Logger
	clock           func() time.Time
}

// NewProductMaintenanceService creates a new instance of ProductMaintenanceService
func NewProductMaintenanceService(
	productRepo repository.ProductRepository,
	subcategoryRepo repository.SubcategoryRepository,
	tx Transactor,
	logger *zap.Logger,
) ProductMaintenanceService {
	return &productMaintenanceService{
		productRepo:     productRepo,
		subcategoryRepo: subcategoryRepo,
		tx:              tx,
		logger:          logger,
		clock:           now,
	}
}

// Create persists a new product.
// Checks run in order: sku, name, then the referenced subcategory.
func (s *productMaintenanceService) Create(ctx context.Context, input CreateProductInput) (*ProductView, error) {
	var detail *domain.ProductDetail

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.checkSKUAvailable(ctx, input.SKU); err != nil {
			return err
		}

		if err := s.checkNameAvailable(ctx, input.Name, 0); err != nil {
			return err
		}

		if err := s.checkSubcategoryExists(ctx, input.SubcategoryID); err != nil {
			return err
		}

		createdAt := s.clock()
		product := &domain.Product{
			SKU:           input.SKU,
			Name:          input.Name,
			Description:   input.Description,
			UnitPrice:     input.UnitPrice,
			Stock:         input.Stock,
			ImageURL:      input.ImageURL,
			Active:        input.Active,
			CreatedAt:     createdAt,
			ModifiedAt:    createdAt,
			SubcategoryID: input.SubcategoryID,
		}
		if err := s.productRepo.Create(ctx, product); err != nil {
			logStoreConflict(s.logger, err, domain.EntityProduct)
			return err
		}

		var err error
		detail, err = s.productRepo.FindDetailByID(ctx, product.ID)
		return err
	})
	if err != nil {
		s.logger.Debug("Product creation rejected",
			zap.Int64("sku", input.SKU),
			zap.String("name", input.Name),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Product created", zap.Int64("product_id", detail.ID), zap.Int64("sku", detail.SKU))
	view := toProductView(detail)
	return &view, nil
}

// Update replaces the mutable fields of an existing product. The stored sku and
// createdAt are kept no matter what the input carries.
// Checks run in order: the product itself, the name, then the referenced subcategory.
func (s *productMaintenanceService) Update(ctx context.Context, id int64, input ProductInput) (*ProductView, error) {
	var detail *domain.ProductDetail

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.FindByID(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.EntityProduct, id)
		}

		if err := s.checkNameAvailable(ctx, input.Name, id); err != nil {
			return err
		}

		if err := s.checkSubcategoryExists(ctx, input.SubcategoryID); err != nil {
			return err
		}

		product.Name = input.Name
		product.Description = input.Description
		product.UnitPrice = input.UnitPrice
		product.Stock = input.Stock
		product.ImageURL = input.ImageURL
		product.Active = input.Active
		product.SubcategoryID = input.SubcategoryID
		product.ModifiedAt = s.clock()

		if err := s.productRepo.Update(ctx, product); err != nil {
			logStoreConflict(s.logger, err, domain.EntityProduct)
			return notFoundAs(err, domain.EntityProduct, id)
		}

		detail, err = s.productRepo.FindDetailByID(ctx, id)
		return err
	})
	if err != nil {
		s.logger.Debug("Product update rejected", zap.Int64("product_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Product updated", zap.Int64("product_id", id))
	view := toProductView(detail)
	return &view, nil
}

// Delete removes an existing product
func (s *productMaintenanceService) Delete(ctx context.Context, id int64) (string, error) {
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.productRepo.FindByID(ctx, id); err != nil {
			return notFoundAs(err, domain.EntityProduct, id)
		}

		return notFoundAs(s.productRepo.Delete(ctx, id), domain.EntityProduct, id)
	})
	if err != nil {
		s.logger.Debug("Product deletion rejected", zap.Int64("product_id", id), zap.Error(err))
		return "", err
	}

	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return deletedMessage(domain.EntityProduct, id), nil
}

// SubtractStock takes each quantity out of its product's stock. Either every
// change is applied or none is.
func (s *productMaintenanceService) SubtractStock(ctx context.Context, changes []domain.StockChange) error {
	return s.adjustStock(ctx, changes, -1)
}

// ReturnStock puts each quantity back into its product's stock. Either every
// change is applied or none is.
func (s *productMaintenanceService) ReturnStock(ctx context.Context, changes []domain.StockChange) error {
	return s.adjustStock(ctx, changes, 1)
}

func (s *productMaintenanceService) adjustStock(ctx context.Context, changes []domain.StockChange, sign int) error {
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		for _, change := range changes {
			product, err := s.productRepo.FindByIDForUpdate(ctx, change.ProductID)
			if err != nil {
				return notFoundAs(err, domain.EntityProduct, change.ProductID)
			}

			if sign > 0 && change.Quantity > domain.MaxStock-product.Stock {
				return &domain.StockLimitError{
					ProductID: product.ID,
					Available: product.Stock,
					Requested: change.Quantity,
				}
			}

			stock := product.Stock + sign*change.Quantity
			if stock < 0 {
				return &domain.InsufficientStockError{
					ProductID: product.ID,
					Available: product.Stock,
					Requested: change.Quantity,
				}
			}

			if err := s.productRepo.UpdateStock(ctx, product.ID, stock, s.clock()); err != nil {
				return notFoundAs(err, domain.EntityProduct, product.ID)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Debug("Stock adjustment rejected", zap.Int("sign", sign), zap.Int("items", len(changes)), zap.Error(err))
		return err
	}

	s.logger.Info("Stock adjusted", zap.Int("sign", sign), zap.Int("items", len(changes)))
	return nil
}

func (s *productMaintenanceService) checkSKUAvailable(ctx context.Context, sku int64) error {
	_, err := s.productRepo.FindBySKU(ctx, sku)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check product sku: %w", err)
	}
	return domain.NewAlreadyExists(domain.EntityProduct, "sku", sku)
}

func (s *productMaintenanceService) checkNameAvailable(ctx context.Context, name string, selfID int64) error {
	existing, err := s.productRepo.FindByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check product name: %w", err)
	case existing.ID != selfID:
		return domain.NewAlreadyExists(domain.EntityProduct, "name", name)
	}
	return nil
}

func (s *productMaintenanceService) checkSubcategoryExists(ctx context.Context, subcategoryID int64) error {
	exists, err := s.subcategoryRepo.ExistsByID(ctx, subcategoryID)
	if err != nil {
		return fmt.Errorf("failed to check subcategory: %w", err)
	}
	if !exists {
		return domain.NewNotFound(domain.EntitySubcategory, subcategoryID)
	}
	return nil
}
