package page_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/schoolboard/core/internal/models"
	"github.com/schoolboard/core/internal/modules/content/page"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PageModel{}))
	return db
}

func TestSlugIsNormalized(t *testing.T) {
	svc := page.NewService(newTestDB(t))

	created, err := svc.Create(&page.CreatePageDTO{Slug: " /Chairman/ ", Title: "Chairman's Message"})
	require.NoError(t, err)
	assert.Equal(t, "chairman", created.Slug)

	got, err := svc.GetBySlug("/CHAIRMAN")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
}

func TestDuplicateSlugRejected(t *testing.T) {
	svc := page.NewService(newTestDB(t))

	_, err := svc.Create(&page.CreatePageDTO{Slug: "terms", Title: "Terms"})
	require.NoError(t, err)

	_, err = svc.Create(&page.CreatePageDTO{Slug: "Terms", Title: "Terms again"})
	assert.Error(t, err)
}

func TestUpdateSlugCollision(t *testing.T) {
	svc := page.NewService(newTestDB(t))

	_, err := svc.Create(&page.CreatePageDTO{Slug: "terms", Title: "Terms"})
	require.NoError(t, err)
	p, err := svc.Create(&page.CreatePageDTO{Slug: "privacy", Title: "Privacy"})
	require.NoError(t, err)

	taken := "terms"
	_, err = svc.Update(p.ID, &page.UpdatePageDTO{Slug: &taken})
	assert.Error(t, err)

	// Re-saving the page under its own slug is not a collision.
	same := "privacy"
	_, err = svc.Update(p.ID, &page.UpdatePageDTO{Slug: &same})
	assert.NoError(t, err)
}

func TestListOrdersByManualOrder(t *testing.T) {
	svc := page.NewService(newTestDB(t))

	_, err := svc.Create(&page.CreatePageDTO{Slug: "b", Title: "B", Order: 2})
	require.NoError(t, err)
	_, err = svc.Create(&page.CreatePageDTO{Slug: "a", Title: "A", Order: 1})
	require.NoError(t, err)

	items, err := svc.List(false)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Slug)
}

func TestReplaceAllAssignsPositionalOrder(t *testing.T) {
	svc := page.NewService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.Create(&page.CreatePageDTO{Slug: "first", Title: "First"})
	require.NoError(t, err)
	_, err = svc.Create(&page.CreatePageDTO{Slug: "second", Title: "Second"})
	require.NoError(t, err)

	docs, err := svc.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// Reverse the slice; position becomes the stored order.
	docs[0], docs[1] = docs[1], docs[0]
	require.NoError(t, svc.ReplaceAll(ctx, docs))

	items, err := svc.List(true)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Slug)
	assert.Equal(t, 0, items[0].Order)
	assert.Equal(t, 1, items[1].Order)
}

func TestReplaceAllRejectsDuplicateSlugs(t *testing.T) {
	svc := page.NewService(newTestDB(t))

	docs, err := svc.FetchAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, docs)

	err = svc.ReplaceAll(context.Background(), []json.RawMessage{
		json.RawMessage(`{"slug":"about","title":"About"}`),
		json.RawMessage(`{"slug":"/About/","title":"About copy"}`),
	})
	assert.Error(t, err)
}
