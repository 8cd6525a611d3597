package service

import (
	"context"
	"errors"
	"fmt"

	"catalogo-api/internal/domain"
	"catalogo-api/internal/repository"

	"go.uber.org/zap"
)

// CategoryQueryService defines the read path for categories
type CategoryQueryService interface {
	List(ctx context.Context, page domain.PageRequest) (domain.Page[CategoryView], error)
	GetByID(ctx context.Context, id int64) (*CategoryView, error)
}

// CategoryMaintenanceService defines the write path for categories
type CategoryMaintenanceService interface {
	Create(ctx context.Context, name string) (*CategoryView, error)
	Update(ctx context.Context, id int64, name string) (*CategoryView, error)
	Delete(ctx context.Context, id int64) (string, error)
}

type categoryQueryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryQueryService creates a new instance of CategoryQueryService
func NewCategoryQueryService(categoryRepo repository.CategoryRepository) CategoryQueryService {
	return &categoryQueryService{categoryRepo: categoryRepo}
}

// List returns a page of categories. An empty result is reported as not found.
func (s *categoryQueryService) List(ctx context.Context, page domain.PageRequest) (domain.Page[CategoryView], error) {
	categories, total, err := s.categoryRepo.List(ctx, page)
	if err != nil {
		return domain.Page[CategoryView]{}, fmt.Errorf("failed to list categories: %w", err)
	}
	if len(categories) == 0 {
		return domain.Page[CategoryView]{}, domain.NewNotFoundBy(domain.EntityCategory, fmt.Sprintf("on page %d", page.Page))
	}

	views := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, toCategoryView(c))
	}
	return domain.NewPage(views, page, total), nil
}

// GetByID returns a single category
func (s *categoryQueryService) GetByID(ctx context.Context, id int64) (*CategoryView, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.EntityCategory, id)
	}

	view := toCategoryView(category)
	return &view, nil
}

type categoryMaintenanceService struct {
	categoryRepo repository.CategoryRepository
	tx           Transactor
	logger       *zap.Logger
}

// NewCategoryMaintenanceService creates a new instance of CategoryMaintenanceService
func NewCategoryMaintenanceService(
	categoryRepo repository.CategoryRepository,
	tx Transactor,
	logger *zap.Logger,
) CategoryMaintenanceService {
	return &categoryMaintenanceService{
		categoryRepo: categoryRepo,
		tx:           tx,
		logger:       logger,
	}
}

// Create persists a new category with a name no other category uses
func (s *categoryMaintenanceService) Create(ctx context.Context, name string) (*CategoryView, error) {
	category := &domain.Category{Name: name}

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.checkNameAvailable(ctx, name, 0); err != nil {
			return err
		}

		if err := s.categoryRepo.Create(ctx, category); err != nil {
			logStoreConflict(s.logger, err, domain.EntityCategory)
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.Debug("Category creation rejected", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Category created", zap.Int64("category_id", category.ID))
	view := toCategoryView(category)
	return &view, nil
}

// Update renames an existing category. Keeping the current name is not a collision.
func (s *categoryMaintenanceService) Update(ctx context.Context, id int64, name string) (*CategoryView, error) {
	var category *domain.Category

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		category, err = s.categoryRepo.FindByID(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.EntityCategory, id)
		}

		if err := s.checkNameAvailable(ctx, name, id); err != nil {
			return err
		}

		category.Name = name
		if err := s.categoryRepo.Update(ctx, category); err != nil {
			logStoreConflict(s.logger, err, domain.EntityCategory)
			return notFoundAs(err, domain.EntityCategory, id)
		}
		return nil
	})
	if err != nil {
		s.logger.Debug("Category update rejected", zap.Int64("category_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Category updated", zap.Int64("category_id", id))
	view := toCategoryView(category)
	return &view, nil
}

// Delete removes an existing category
func (s *categoryMaintenanceService) Delete(ctx context.Context, id int64) (string, error) {
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		exists, err := s.categoryRepo.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NewNotFound(domain.EntityCategory, id)
		}

		return notFoundAs(s.categoryRepo.Delete(ctx, id), domain.EntityCategory, id)
	})
	if err != nil {
		s.logger.Debug("Category deletion rejected", zap.Int64("category_id", id), zap.Error(err))
		return "", err
	}

	s.logger.Info("Category deleted", zap.Int64("category_id", id))
	return deletedMessage(domain.EntityCategory, id), nil
}

func (s *categoryMaintenanceService) checkNameAvailable(ctx context.Context, name string, selfID int64) error {
	existing, err := s.categoryRepo.FindByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check category name: %w", err)
	case existing.ID != selfID:
		return domain.NewAlreadyExists(domain.EntityCategory, "name", name)
	}
	return nil
}
