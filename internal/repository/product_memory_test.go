package repository

import (
	"context"
	"testing"
	"time"

	"github.com/abdul977/muahibstores/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newProductRow(id, name, category string, features ...string) *model.Product {
	return &model.Product{
		OriginalID:   strPtr(id),
		Name:         name,
		Price:        1000,
		Category:     category,
		Features:     features,
		WhatsAppLink: "https://wa.me/2348144493361",
	}
}

func seededProducts(t *testing.T) *MemoryProductRepository {
	t.Helper()
	repo := NewMemoryProductRepository()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newProductRow("i20-ultra", "I20 Ultra Smartwatch", "smartwatch", "Bluetooth Calling")))
	require.NoError(t, repo.Create(ctx, newProductRow("mvp110", "MVP110 Earbuds", "audio", "ANC")))
	hidden := newProductRow("old-phone", "Old Phone", "phones")
	hidden.IsHidden = true
	require.NoError(t, repo.Create(ctx, hidden))
	featured := newProductRow("i60-ultra", "I60 Ultra Smartwatch", "smartwatch", "AMOLED")
	featured.IsFeatured = true
	require.NoError(t, repo.Create(ctx, featured))
	return repo
}

func originalIDs(rows []model.Product) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.BusinessID()
	}
	return ids
}

func TestMemoryProductListOrdersNewestFirst(t *testing.T) {
	repo := seededProducts(t)

	rows, err := repo.List(context.Background(), ProductQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"i60-ultra", "old-phone", "mvp110", "i20-ultra"}, originalIDs(rows))
}

func TestMemoryProductListFilters(t *testing.T) {
	repo := seededProducts(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query ProductQuery
		want  []string
	}{
		{"visible only", ProductQuery{VisibleOnly: true}, []string{"i60-ultra", "mvp110", "i20-ultra"}},
		{"category", ProductQuery{Category: "smartwatch"}, []string{"i60-ultra", "i20-ultra"}},
		{"featured", ProductQuery{FeaturedOnly: true}, []string{"i60-ultra"}},
		{"search by name ignores case", ProductQuery{Search: "ultra"}, []string{"i60-ultra", "i20-ultra"}},
		{"search by whole feature ignores case", ProductQuery{Search: "anc"}, []string{"mvp110"}},
		{"partial feature does not match", ProductQuery{Search: "Bluetooth"}, []string{}},
		{"wildcards match literally", ProductQuery{Search: "I_0"}, []string{}},
		{"unknown category", ProductQuery{Category: "laptops"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := repo.List(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, originalIDs(rows))
		})
	}
}

func TestMemoryProductFindAndDelete(t *testing.T) {
	repo := seededProducts(t)
	ctx := context.Background()

	row, err := repo.FindByOriginalID(ctx, "mvp110")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "MVP110 Earbuds", row.Name)

	missing, err := repo.FindByOriginalID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	deleted, err := repo.Delete(ctx, "mvp110")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, "mvp110")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMemoryProductCreateRejectsDuplicates(t *testing.T) {
	repo := seededProducts(t)

	err := repo.Create(context.Background(), newProductRow("mvp110", "Copy", "audio"))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryProductRowsAreCopied(t *testing.T) {
	repo := seededProducts(t)
	ctx := context.Background()

	row, err := repo.FindByOriginalID(ctx, "i20-ultra")
	require.NoError(t, err)
	row.Features[0] = "mutated"

	again, err := repo.FindByOriginalID(ctx, "i20-ultra")
	require.NoError(t, err)
	assert.Equal(t, "Bluetooth Calling", again.Features[0])
}

func TestMemoryProductCategoriesAndVisibility(t *testing.T) {
	repo := seededProducts(t)
	ctx := context.Background()

	categories, err := repo.Categories(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"audio", "phones", "smartwatch"}, categories)

	categories, err = repo.Categories(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"audio", "smartwatch"}, categories)

	affected, err := repo.SetHidden(ctx, []string{"i20-ultra", "mvp110", "missing"}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	visible, err := repo.List(ctx, ProductQuery{VisibleOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"i60-ultra"}, originalIDs(visible))
}
