package notice_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/schoolboard/core/internal/models"
	"github.com/schoolboard/core/internal/modules/content/notice"
	"github.com/schoolboard/core/internal/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.NoticeModel{}))
	return db
}

func boolPtr(b bool) *bool { return &b }

func TestListOrdersPinnedFirst(t *testing.T) {
	db := newTestDB(t)
	svc := notice.NewService(db)

	// Stagger created_at so the newest-first tiebreak is observable.
	base := time.Now().Add(-time.Hour)
	rows := []models.NoticeModel{
		{Kind: models.NoticeKindNotice, Title: "old plain", Published: true},
		{Kind: models.NoticeKindNotice, Title: "new plain", Published: true},
		{Kind: models.NoticeKindNotice, Title: "pinned", Pinned: true, Published: true},
	}
	for i := range rows {
		rows[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	items, pag, err := svc.List(pagination.Query{Page: 1, Size: 10}, models.NoticeKindNotice, false)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.EqualValues(t, 3, pag.Total)
	assert.Equal(t, "pinned", items[0].Title)
	assert.Equal(t, "new plain", items[1].Title)
	assert.Equal(t, "old plain", items[2].Title)
}

func TestListHidesUnpublishedFromPublic(t *testing.T) {
	db := newTestDB(t)
	svc := notice.NewService(db)

	_, err := svc.Create(&notice.CreateNoticeDTO{Title: "visible"})
	require.NoError(t, err)
	_, err = svc.Create(&notice.CreateNoticeDTO{Title: "hidden", Published: boolPtr(false)})
	require.NoError(t, err)

	items, _, err := svc.List(pagination.Query{Page: 1, Size: 10}, models.NoticeKindNotice, false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "visible", items[0].Title)

	items, _, err = svc.List(pagination.Query{Page: 1, Size: 10}, models.NoticeKindNotice, true)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestKindsDoNotMix(t *testing.T) {
	db := newTestDB(t)
	svc := notice.NewService(db)

	_, err := svc.Create(&notice.CreateNoticeDTO{Title: "a notice"})
	require.NoError(t, err)
	kind := models.NoticeKindNews
	_, err = svc.Create(&notice.CreateNoticeDTO{Title: "some news", Kind: kind})
	require.NoError(t, err)

	items, _, err := svc.List(pagination.Query{Page: 1, Size: 10}, models.NoticeKindNews, false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "some news", items[0].Title)
}

func TestSearchMatchesPublishedTitles(t *testing.T) {
	db := newTestDB(t)
	svc := notice.NewService(db)

	_, err := svc.Create(&notice.CreateNoticeDTO{Title: "Sports day announcement"})
	require.NoError(t, err)
	_, err = svc.Create(&notice.CreateNoticeDTO{Title: "Sports kit draft", Published: boolPtr(false)})
	require.NoError(t, err)
	_, err = svc.Create(&notice.CreateNoticeDTO{Title: "Exam schedule"})
	require.NoError(t, err)

	items, _, err := svc.Search(pagination.Query{Page: 1, Size: 10}, "sports")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Sports day announcement", items[0].Title)
}

func TestIncrementRead(t *testing.T) {
	db := newTestDB(t)
	svc := notice.NewService(db)

	created, err := svc.Create(&notice.CreateNoticeDTO{Title: "counted"})
	require.NoError(t, err)

	svc.IncrementRead(created.ID)
	svc.IncrementRead(created.ID)

	got, err := svc.GetByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.EqualValues(t, 2, got.ReadCount)
}

func TestReplaceAllSwapsOneKindOnly(t *testing.T) {
	db := newTestDB(t)
	svc := notice.NewService(db)
	ctx := context.Background()

	_, err := svc.Create(&notice.CreateNoticeDTO{Title: "old notice"})
	require.NoError(t, err)
	kind := models.NoticeKindNews
	_, err = svc.Create(&notice.CreateNoticeDTO{Title: "kept news", Kind: kind})
	require.NoError(t, err)

	docs, err := svc.FetchAll(ctx, models.NoticeKindNotice)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	require.NoError(t, svc.ReplaceAll(ctx, models.NoticeKindNotice, nil))

	items, _, err := svc.List(pagination.Query{Page: 1, Size: 10}, models.NoticeKindNotice, true)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, _, err = svc.List(pagination.Query{Page: 1, Size: 10}, models.NoticeKindNews, true)
	require.NoError(t, err)
	assert.Len(t, items, 1, "replacing notices must not touch news")
}

func TestReplaceAllKeepsIDs(t *testing.T) {
	db := newTestDB(t)
	svc := notice.NewService(db)
	ctx := context.Background()

	created, err := svc.Create(&notice.CreateNoticeDTO{Title: "stable"})
	require.NoError(t, err)

	docs, err := svc.FetchAll(ctx, models.NoticeKindNotice)
	require.NoError(t, err)
	require.NoError(t, svc.ReplaceAll(ctx, models.NoticeKindNotice, docs))

	got, err := svc.GetByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "round-tripping through the editor keeps ids")
	assert.Equal(t, "stable", got.Title)
}
