// Package testutil 为各层测试提供 SQLite 内存库与 miniredis
package testutil

import (
	"Amem/internal/api/config"
	"Amem/internal/model"
	"Amem/internal/pkg/database"
	"Amem/internal/pkg/redis"
	"Amem/internal/pkg/security"
	"Amem/internal/pkg/util"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const DefaultPassword = "amem123"

func init() {
	security.SetHashCost(bcrypt.MinCost)
}

// NewDB 每个测试独立的内存库，单连接保证事务串行
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewGormDB(&config.DBConfig{
		Driver:      "sqlite",
		DSN:         fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name),
		MaxIdle:     1,
		MaxOpen:     1,
		AutoMigrate: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewRedis 启动 miniredis 并替换全局客户端
func NewRedis(t testing.TB) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	prev := redis.Rdb
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = redis.Rdb.Close()
		redis.Rdb = prev
	})
	return mr
}

// TestConfig 测试用配置，Kafka 与 MongoDB 均关闭
func TestConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Port: 0, Mode: "test"},
		Session: config.SessionConfig{Name: "amem_session", Secret: "test-session-secret", MaxAge: 3600},
		JWT:     config.JWTConfig{Secret: "test-jwt-secret", Issuer: "Amem", Expiration: 1},
		Cron:    config.CronConfig{CommentCountSpec: "0 */10 * * * *"},
	}
}

func SeedUser(t testing.TB, db *gorm.DB, username string) *model.User {
	t.Helper()
	hash, err := security.HashPassword(DefaultPassword)
	require.NoError(t, err)
	user := &model.User{
		Username: util.PtrString(username),
		Password: util.PtrString(hash),
		Nickname: "irmão " + username,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func SeedPost(t testing.TB, db *gorm.DB, userID uint64) *model.Post {
	t.Helper()
	post := &model.Post{UserID: userID, Content: "Graça e paz", PostType: model.PostTypeText}
	require.NoError(t, db.Create(post).Error)
	return post
}

// SeedComment 直接写入评论行，不经过计数维护，createdAt 用于控制排序
func SeedComment(t testing.TB, db *gorm.DB, postID, userID uint64, parentID *uint64, createdAt time.Time) *model.PostComment {
	t.Helper()
	c := &model.PostComment{
		PostID:    postID,
		UserID:    userID,
		Content:   "comment",
		ParentID:  parentID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}
