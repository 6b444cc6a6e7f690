package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"campusmate/internal/domain"
)

// newTestDB 起一个独立的内存库。单连接池让并发用例的写入
// 在驱动层排队，不会碰到 database is locked。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Query{}, &domain.Response{}))
	return db
}

func seedQuery(t *testing.T, db *gorm.DB, q *domain.Query) *domain.Query {
	t.Helper()
	if q.Status == "" {
		q.Status = domain.StatusOpen
	}
	if q.AuthorID == "" {
		q.AuthorID = "author-1"
	}
	if q.Category == "" {
		q.Category = "CS101"
	}
	if q.Title == "" {
		q.Title = "seed title"
	}
	if q.Content == "" {
		q.Content = "seed content"
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	require.NoError(t, db.Create(q).Error)
	return q
}

func seedResponse(t *testing.T, db *gorm.DB, r *domain.Response) *domain.Response {
	t.Helper()
	if r.Content == "" {
		r.Content = "seed response"
	}
	if r.AuthorID == "" {
		r.AuthorID = "author-1"
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	require.NoError(t, db.Create(r).Error)
	return r
}
