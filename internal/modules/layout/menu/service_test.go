package menu_test

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
	"github.com/schoolboard/core/internal/modules/layout/menu"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.MenuModel{}))
	return db
}

func TestGetCreatesEmptyTree(t *testing.T) {
	svc := menu.NewService(newTestDB(t))

	m, err := svc.Get()
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Empty(t, m.Items)

	again, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, m.ID, again.ID, "first access creates the single document")
}

func TestReplaceAssignsIDsAndPersists(t *testing.T) {
	svc := menu.NewService(newTestDB(t))

	items := []models.MenuItem{
		{Label: "Home", Href: "#home"},
		{Label: "About", Href: "#about", Children: []models.MenuItem{
			{Label: "Chairman", Href: "#chairman"},
		}},
	}
	require.NoError(t, svc.Replace(context.Background(), items))

	m, err := svc.Get()
	require.NoError(t, err)
	require.Len(t, m.Items, 2)
	assert.NotEmpty(t, m.Items[0].ID)
	require.Len(t, m.Items[1].Children, 1)
	assert.NotEmpty(t, m.Items[1].Children[0].ID)
}

func TestReplaceRejectsDeepNesting(t *testing.T) {
	svc := menu.NewService(newTestDB(t))

	items := []models.MenuItem{
		{Label: "A", Children: []models.MenuItem{
			{Label: "B", Children: []models.MenuItem{
				{Label: "C"},
			}},
		}},
	}
	assert.ErrorIs(t, svc.Replace(context.Background(), items), menu.ErrMenuTooDeep)
}

func TestDroppingParentDropsSubtree(t *testing.T) {
	svc := menu.NewService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Replace(ctx, []models.MenuItem{
		{Label: "Home", Href: "#home"},
		{Label: "About", Href: "#about", Children: []models.MenuItem{
			{Label: "Chairman", Href: "#chairman"},
		}},
	}))

	docs, err := svc.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// Keep only the first top entry; the second's children go with it.
	require.NoError(t, svc.ReplaceAll(ctx, docs[:1]))

	m, err := svc.Get()
	require.NoError(t, err)
	require.Len(t, m.Items, 1)
	assert.Equal(t, "Home", m.Items[0].Label)
}

func TestNormalizeMintsIDsDownTheSubtree(t *testing.T) {
	svc := menu.NewService(nil)

	out, err := svc.Normalize(nil, json.RawMessage(
		`{"label":"About","href":"#about","children":[{"label":"Chairman","href":"#chairman"}]}`))
	require.NoError(t, err)

	var item models.MenuItem
	require.NoError(t, json.Unmarshal(out, &item))
	assert.NotEmpty(t, item.ID)
	require.Len(t, item.Children, 1)
	assert.NotEmpty(t, item.Children[0].ID)
}

func TestNormalizeRejectsDeepEntry(t *testing.T) {
	svc := menu.NewService(nil)

	_, err := svc.Normalize(nil, json.RawMessage(
		`{"label":"A","children":[{"label":"B","children":[{"label":"C"}]}]}`))
	assert.ErrorIs(t, err, menu.ErrMenuTooDeep)
}
