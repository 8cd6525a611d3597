package service

import (
	"context"
	"errors"
	"testing"

	"catalogo-api/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstPage() domain.PageRequest {
	return domain.NewPageRequest(0, domain.DefaultPageSize, "id", domain.SortAsc)
}

func TestCategoryCreate_AssignsIDAndKeepsName(t *testing.T) {
	svc := newServices()

	view, err := svc.categoryMaint.Create(context.Background(), "Eletrônicos")
	require.NoError(t, err)

	assert.NotZero(t, view.ID)
	assert.Equal(t, "Eletrônicos", view.Name)
	assert.Equal(t, "Eletrônicos", svc.store.categories[view.ID].Name)
}

func TestCategoryCreate_DuplicateNameIsAlreadyExists(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	_, err := svc.categoryMaint.Create(ctx, "Eletrônicos")
	require.NoError(t, err)

	_, err = svc.categoryMaint.Create(ctx, "Eletrônicos")

	var exists *domain.AlreadyExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, domain.EntityCategory, exists.Entity)
	assert.Equal(t, "name", exists.Field)
	assert.Len(t, svc.store.categories, 1)
}

func TestCategoryUpdate_UnknownIDIsNotFoundAndWritesNothing(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	_, err := svc.categoryMaint.Update(ctx, 42, "Livros")

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, domain.EntityCategory, notFound.Entity)
	assert.Equal(t, int64(42), notFound.ID)
	assert.Zero(t, svc.store.writes)

	_, err = svc.categoryQuery.GetByID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryUpdate_UnknownIDReportedBeforeNameCollision(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	_, err := svc.categoryMaint.Create(ctx, "Livros")
	require.NoError(t, err)

	_, err = svc.categoryMaint.Update(ctx, 999, "Livros")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Keeping the current name is allowed: uniqueness excludes the record being updated.
func TestCategoryUpdate_SameNameIsNotACollision(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	created, err := svc.categoryMaint.Create(ctx, "Livros")
	require.NoError(t, err)

	updated, err := svc.categoryMaint.Update(ctx, created.ID, "Livros")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Livros", updated.Name)
}

func TestCategoryUpdate_NameOfAnotherCategoryIsAlreadyExists(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	_, err := svc.categoryMaint.Create(ctx, "Livros")
	require.NoError(t, err)
	games, err := svc.categoryMaint.Create(ctx, "Jogos")
	require.NoError(t, err)

	_, err = svc.categoryMaint.Update(ctx, games.ID, "Livros")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Equal(t, "Jogos", svc.store.categories[games.ID].Name)
}

func TestCategoryUpdate_RenamesAndKeepsID(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	created, err := svc.categoryMaint.Create(ctx, "Livros")
	require.NoError(t, err)

	updated, err := svc.categoryMaint.Update(ctx, created.ID, "Livros e Revistas")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Livros e Revistas", updated.Name)
}

func TestCategoryDelete_TwiceIsNotFoundTheSecondTime(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	created, err := svc.categoryMaint.Create(ctx, "Livros")
	require.NoError(t, err)

	msg, err := svc.categoryMaint.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Contains(t, msg, "deleted")

	_, err = svc.categoryMaint.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryList_EmptyIsNotFound(t *testing.T) {
	svc := newServices()

	_, err := svc.categoryQuery.List(context.Background(), firstPage())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryList_ReturnsPageMetadata(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	for _, name := range []string{"Livros", "Jogos", "Música"} {
		_, err := svc.categoryMaint.Create(ctx, name)
		require.NoError(t, err)
	}

	page, err := svc.categoryQuery.List(ctx, domain.NewPageRequest(1, 2, "id", domain.SortAsc))
	require.NoError(t, err)
	assert.Len(t, page.Content, 1)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, "Música", page.Content[0].Name)

	_, err = svc.categoryQuery.List(ctx, domain.NewPageRequest(5, 2, "id", domain.SortAsc))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProperty_CategoryNameCollisionAlwaysAlreadyExists(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("creating a category with a used name is rejected", prop.ForAll(
		func(name string) bool {
			svc := newServices()
			ctx := context.Background()

			if _, err := svc.categoryMaint.Create(ctx, name); err != nil {
				t.Logf("FAIL: first create failed: %v", err)
				return false
			}

			_, err := svc.categoryMaint.Create(ctx, name)
			return errors.Is(err, domain.ErrAlreadyExists) && len(svc.store.categories) == 1
		},
		gen.RegexMatch(`[A-Z][a-z]{2,44}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
