package configs_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/schoolboard/core/internal/config"
	"github.com/schoolboard/core/internal/models"
	"github.com/schoolboard/core/internal/modules/configs"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.OptionModel{}))
	return db
}

func TestGetSeedsDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := configs.NewService(db)

	cfg, err := svc.Get()
	require.NoError(t, err)
	defaults := config.DefaultSiteConfig()
	assert.Equal(t, defaults.Site.Title, cfg.Site.Title)

	var count int64
	require.NoError(t, db.Model(&models.OptionModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "first read persists the default document")
}

func TestPatchMergesNestedObjects(t *testing.T) {
	svc := configs.NewService(newTestDB(t))

	updated, err := svc.Patch(map[string]json.RawMessage{
		"site": json.RawMessage(`{"title":"Greenfield School"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Greenfield School", updated.Site.Title)

	// A second patch on a sibling key keeps the first one intact.
	updated, err = svc.Patch(map[string]json.RawMessage{
		"top_bar": json.RawMessage(`{"motto":"Learn and grow"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Greenfield School", updated.Site.Title)
	assert.Equal(t, "Learn and grow", updated.TopBar.Motto)
}

func TestPatchReplacesArraysWholesale(t *testing.T) {
	svc := configs.NewService(newTestDB(t))

	_, err := svc.Patch(map[string]json.RawMessage{
		"top_bar": json.RawMessage(`{"links":[{"label":"A","href":"#a"},{"label":"B","href":"#b"}]}`),
	})
	require.NoError(t, err)

	updated, err := svc.Patch(map[string]json.RawMessage{
		"top_bar": json.RawMessage(`{"links":[{"label":"C","href":"#c"}]}`),
	})
	require.NoError(t, err)
	require.Len(t, updated.TopBar.Links, 1)
	assert.Equal(t, "C", updated.TopBar.Links[0].Label)
}

func TestPatchSurvivesInvalidate(t *testing.T) {
	db := newTestDB(t)
	svc := configs.NewService(db)

	_, err := svc.Patch(map[string]json.RawMessage{
		"assistant": json.RawMessage(`{"enable":true,"provider":{"api_key":"sk-test"}}`),
	})
	require.NoError(t, err)

	svc.Invalidate()

	cfg, err := svc.Get()
	require.NoError(t, err)
	assert.True(t, cfg.Assistant.Enable)
	assert.Equal(t, "sk-test", cfg.Assistant.Provider.APIKey)
	assert.Equal(t, config.DefaultSiteConfig().Assistant.Provider.Model,
		cfg.Assistant.Provider.Model, "untouched nested fields keep their defaults")
}
