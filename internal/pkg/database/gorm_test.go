package database

import (
	"Amem/internal/api/config"
	"Amem/internal/model"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMigrated(t *testing.T, cfg *config.DBConfig) {
	t.Helper()
	cfg.AutoMigrate = true

	db, err := NewGormDB(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	// 重复迁移不能失败
	require.NoError(t, db.AutoMigrate(model.AllModels()...))

	m := db.Migrator()
	for _, tbl := range model.AllModels() {
		assert.True(t, m.HasTable(tbl))
	}
	assert.True(t, m.HasIndex(&model.PostComment{}, "idx_post_comments_post_id"))
	assert.True(t, m.HasIndex(&model.PostComment{}, "idx_post_comments_parent_id"))
	assert.True(t, m.HasIndex(&model.Like{}, "idx_likes_post_id"))
	assert.True(t, m.HasIndex(&model.PostShare{}, "idx_post_shares_post_id"))
	assert.True(t, m.HasIndex(&model.PostShare{}, "idx_post_shares_user_id"))
	assert.True(t, m.HasIndex(&model.Post{}, "idx_posts_user_id"))
}

func TestAutoMigrateSQLite(t *testing.T) {
	assertMigrated(t, &config.DBConfig{
		Driver:  "sqlite",
		DSN:     "file:migrate_sqlite?mode=memory&cache=shared&_busy_timeout=5000",
		MaxIdle: 1,
		MaxOpen: 1,
	})
}

// 需要真实数据库，未设置 DSN 时跳过
func TestAutoMigratePostgres(t *testing.T) {
	dsn := os.Getenv("AMEM_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("AMEM_TEST_POSTGRES_DSN not set")
	}
	assertMigrated(t, &config.DBConfig{Driver: "postgres", DSN: dsn})
}

func TestAutoMigrateMySQL(t *testing.T) {
	dsn := os.Getenv("AMEM_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("AMEM_TEST_MYSQL_DSN not set")
	}
	assertMigrated(t, &config.DBConfig{Driver: "mysql", DSN: dsn})
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := NewGormDB(&config.DBConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}
