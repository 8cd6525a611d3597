package service

import (
	"context"
	"errors"
	"fmt"

	"catalogo-api/internal/domain"
	"catalogo-api/internal/repository"

	"go.uber.org/zap"
)

// SubcategoryInput carries the mutable fields of a subcategory
type SubcategoryInput struct {
	Name        string
	Description string
	CategoryID  int64
}

// SubcategoryQueryService defines the read path for subcategories
type SubcategoryQueryService interface {
	List(ctx context.Context, page domain.PageRequest) (domain.Page[SubcategoryView], error)
	GetByID(ctx context.Context, id int64) (*SubcategoryView, error)
}

// SubcategoryMaintenanceService defines the write path for subcategories
type SubcategoryMaintenanceService interface {
	Create(ctx context.Context, input SubcategoryInput) (*SubcategoryView, error)
	Update(ctx context.Context, id int64, input SubcategoryInput) (*SubcategoryView, error)
	Delete(ctx context.Context, id int64) (string, error)
}

type subcategoryQueryService struct {
	subcategoryRepo repository.SubcategoryRepository
}

// NewSubcategoryQueryService creates a new instance of SubcategoryQueryService
func NewSubcategoryQueryService(subcategoryRepo repository.SubcategoryRepository) SubcategoryQueryService {
	return &subcategoryQueryService{subcategoryRepo: subcategoryRepo}
}

// List returns a page of subcategories. An empty result is reported as not found.
func (s *subcategoryQueryService) List(ctx context.Context, page domain.PageRequest) (domain.Page[SubcategoryView], error) {
	subcategories, total, err := s.subcategoryRepo.List(ctx, page)
	if err != nil {
		return domain.Page[SubcategoryView]{}, fmt.Errorf("failed to list subcategories: %w", err)
	}
	if len(subcategories) == 0 {
		return domain.Page[SubcategoryView]{}, domain.NewNotFoundBy(domain.EntitySubcategory, fmt.Sprintf("on page %d", page.Page))
	}

	views := make([]SubcategoryView, 0, len(subcategories))
	for _, sub := range subcategories {
		views = append(views, toSubcategoryView(sub))
	}
	return domain.NewPage(views, page, total), nil
}

// GetByID returns a single subcategory with its category
func (s *subcategoryQueryService) GetByID(ctx context.Context, id int64) (*SubcategoryView, error) {
	detail, err := s.subcategoryRepo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.EntitySubcategory, id)
	}

	view := toSubcategoryView(detail)
	return &view, nil
}

type subcategoryMaintenanceService struct {
	subcategoryRepo repository.SubcategoryRepository
	categoryRepo    repository.CategoryRepository
	tx              Transactor
	logger          *zap.Logger
}

// NewSubcategoryMaintenanceService creates a new instance of SubcategoryMaintenanceService
func NewSubcategoryMaintenanceService(
	subcategoryRepo repository.SubcategoryRepository,
	categoryRepo repository.CategoryRepository,
	tx Transactor,
	logger *zap.Logger,
) SubcategoryMaintenanceService {
	return &subcategoryMaintenanceService{
		subcategoryRepo: subcategoryRepo,
		categoryRepo:    categoryRepo,
		tx:              tx,
		logger:          logger,
	}
}

// Create persists a new subcategory linked to an existing category.
// The category is checked before the name so a bad parent is always reported first.
func (s *subcategoryMaintenanceService) Create(ctx context.Context, input SubcategoryInput) (*SubcategoryView, error) {
	var detail *domain.SubcategoryDetail

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.checkCategoryExists(ctx, input.CategoryID); err != nil {
			return err
		}

		if err := s.checkNameAvailable(ctx, input.Name, 0); err != nil {
			return err
		}

		subcategory := &domain.Subcategory{
			Name:        input.Name,
			Description: input.Description,
			CategoryID:  input.CategoryID,
		}
		if err := s.subcategoryRepo.Create(ctx, subcategory); err != nil {
			logStoreConflict(s.logger, err, domain.EntitySubcategory)
			return err
		}

		var err error
		detail, err = s.subcategoryRepo.FindDetailByID(ctx, subcategory.ID)
		return err
	})
	if err != nil {
		s.logger.Debug("Subcategory creation rejected", zap.String("name", input.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Subcategory created",
		zap.Int64("subcategory_id", detail.ID),
		zap.Int64("category_id", detail.CategoryID),
	)
	view := toSubcategoryView(detail)
	return &view, nil
}

// Update replaces the mutable fields and category link of an existing subcategory.
// Checks run in order: the subcategory itself, then its new category, then the name.
func (s *subcategoryMaintenanceService) Update(ctx context.Context, id int64, input SubcategoryInput) (*SubcategoryView, error) {
	var detail *domain.SubcategoryDetail

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		subcategory, err := s.subcategoryRepo.FindByID(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.EntitySubcategory, id)
		}

		if err := s.checkCategoryExists(ctx, input.CategoryID); err != nil {
			return err
		}

		if err := s.checkNameAvailable(ctx, input.Name, id); err != nil {
			return err
		}

		subcategory.Name = input.Name
		subcategory.Description = input.Description
		subcategory.CategoryID = input.CategoryID
		if err := s.subcategoryRepo.Update(ctx, subcategory); err != nil {
			logStoreConflict(s.logger, err, domain.EntitySubcategory)
			return notFoundAs(err, domain.EntitySubcategory, id)
		}

		detail, err = s.subcategoryRepo.FindDetailByID(ctx, id)
		return err
	})
	if err != nil {
		s.logger.Debug("Subcategory update rejected", zap.Int64("subcategory_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Subcategory updated", zap.Int64("subcategory_id", id))
	view := toSubcategoryView(detail)
	return &view, nil
}

// Delete removes an existing subcategory
func (s *subcategoryMaintenanceService) Delete(ctx context.Context, id int64) (string, error) {
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		exists, err := s.subcategoryRepo.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NewNotFound(domain.EntitySubcategory, id)
		}

		return notFoundAs(s.subcategoryRepo.Delete(ctx, id), domain.EntitySubcategory, id)
	})
	if err != nil {
		s.logger.Debug("Subcategory deletion rejected", zap.Int64("subcategory_id", id), zap.Error(err))
		return "", err
	}

	s.logger.Info("Subcategory deleted", zap.Int64("subcategory_id", id))
	return deletedMessage(domain.EntitySubcategory, id), nil
}

func (s *subcategoryMaintenanceService) checkCategoryExists(ctx context.Context, categoryID int64) error {
	exists, err := s.categoryRepo.ExistsByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return domain.NewNotFound(domain.EntityCategory, categoryID)
	}
	return nil
}

func (s *subcategoryMaintenanceService) checkNameAvailable(ctx context.Context, name string, selfID int64) error {
	existing, err := s.subcategoryRepo.FindByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check subcategory name: %w", err)
	case existing.ID != selfID:
		return domain.NewAlreadyExists(domain.EntitySubcategory, "name", name)
	}
	return nil
}
