package navigate_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/schoolboard/core/internal/models"
	"github.com/schoolboard/core/internal/modules/content/notice"
	"github.com/schoolboard/core/internal/modules/content/page"
	"github.com/schoolboard/core/internal/modules/layout/carousel"
	"github.com/schoolboard/core/internal/modules/layout/menu"
	"github.com/schoolboard/core/internal/modules/layout/sidebar"
	"github.com/schoolboard/core/internal/modules/layout/widget"
	"github.com/schoolboard/core/internal/modules/navigate"
	"github.com/schoolboard/core/internal/pkg/route"
)

func newTestService(t *testing.T) (*navigate.Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.NoticeModel{}, &models.PageModel{},
		&models.CarouselItemModel{}, &models.HomeWidgetModel{},
		&models.InfoCardModel{}, &models.SidebarSectionModel{},
		&models.MenuModel{},
	))
	svc := navigate.NewService(
		notice.NewService(db), page.NewService(db),
		carousel.NewService(db), widget.NewService(db),
		sidebar.NewService(db), menu.NewService(db),
	)
	return svc, db
}

func TestResolveEmptyFragmentIsHome(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, route.PageHome, res.View)
	assert.Equal(t, "home", res.Fragment)
	assert.NotNil(t, res.Data, "home always carries the shell payload")
}

func TestResolveUnknownPageFallsBackToHome(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Resolve("#no-such-page")
	require.NoError(t, err)
	assert.Equal(t, route.PageName("no-such-page"), res.State.Page,
		"the decoded state keeps the raw page name")
	assert.Equal(t, route.PageHome, res.View)
}

func TestResolveNoticeByID(t *testing.T) {
	svc, db := newTestService(t)

	noticeSvc := notice.NewService(db)
	created, err := noticeSvc.Create(&notice.CreateNoticeDTO{Title: "Holiday", Text: "School **closed** Monday."})
	require.NoError(t, err)

	res, err := svc.Resolve("#notice?id=" + created.ID)
	require.NoError(t, err)
	assert.Equal(t, route.PageNotice, res.View)
	require.NotNil(t, res.Data)
}

func TestResolveUnpublishedNoticeHasNoPayload(t *testing.T) {
	svc, db := newTestService(t)

	off := false
	noticeSvc := notice.NewService(db)
	created, err := noticeSvc.Create(&notice.CreateNoticeDTO{Title: "Draft", Published: &off})
	require.NoError(t, err)

	res, err := svc.Resolve("#notice?id=" + created.ID)
	require.NoError(t, err)
	assert.Equal(t, route.PageNotice, res.View)
	assert.Nil(t, res.Data, "unpublished content stays invisible to the public resolver")
}

func TestResolvePageViewerBySlug(t *testing.T) {
	svc, db := newTestService(t)

	pageSvc := page.NewService(db)
	_, err := pageSvc.Create(&page.CreatePageDTO{Slug: "admissions", Title: "Admissions", Text: "Apply by June."})
	require.NoError(t, err)

	res, err := svc.Resolve("#page-viewer?slug=admissions")
	require.NoError(t, err)
	assert.Equal(t, route.PagePageViewer, res.View)
	assert.NotNil(t, res.Data)

	res, err = svc.Resolve("#page-viewer?slug=missing")
	require.NoError(t, err)
	assert.Nil(t, res.Data)
}

func TestResolveRoundTripsTitle(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Resolve("#search?title=Results&q=sports")
	require.NoError(t, err)
	assert.Equal(t, route.PageSearch, res.View)
	assert.Equal(t, "Results", res.State.Title)
	assert.Equal(t, "sports", res.State.Query)
	assert.Contains(t, res.Fragment, "q=sports")
}
