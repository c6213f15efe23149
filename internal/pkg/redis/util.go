package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockRetryInterval = 200 * time.Millisecond

// 只删除自己持有的锁
var unlockScript = redis.NewScript(`
if redis.call('get', KEYS[1]) == ARGV[1] then
	return redis.call('del', KEYS[1])
end
return 0`)

// 版本号与读取时一致才写入，KEYS[1] 为 Hash，KEYS[2] 为版本键
var hsetIfVersionScript = redis.NewScript(`
local v = redis.call('get', KEYS[2])
if (v or '') ~= ARGV[1] then
	return 0
end
for i = 3, #ARGV, 2 do
	redis.call('hset', KEYS[1], ARGV[i], ARGV[i + 1])
end
redis.call('pexpire', KEYS[1], ARGV[2])
return 1`)

func SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return Rdb.Set(ctx, key, value, expiration).Err()
}

func Exists(ctx context.Context, key string) (bool, error) {
	n, err := Rdb.Exists(ctx, key).Result()
	return n > 0, err
}

// GetVersion 版本键不存在时返回空串
func GetVersion(ctx context.Context, key string) (string, error) {
	v, err := Rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

// HSetIfVersion 版本键仍为 version 时写入 Hash 并设置过期，返回是否写入
func HSetIfVersion(ctx context.Context, key, versionKey, version string, fields map[string]interface{}, expiration time.Duration) (bool, error) {
	args := make([]interface{}, 0, 2+2*len(fields))
	args = append(args, version, expiration.Milliseconds())
	for f, v := range fields {
		args = append(args, f, v)
	}
	n, err := hsetIfVersionScript.Run(ctx, Rdb, []string{key, versionKey}, args...).Int()
	return n == 1, err
}

// DeleteAndBump 删除缓存键并递增版本键，两者在同一事务中提交
func DeleteAndBump(ctx context.Context, keys, versionKeys []string, versionExpiration time.Duration) error {
	if len(keys) == 0 && len(versionKeys) == 0 {
		return nil
	}
	_, err := Rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(keys) > 0 {
			pipe.Del(ctx, keys...)
		}
		for _, vk := range versionKeys {
			pipe.Incr(ctx, vk)
			pipe.Expire(ctx, vk, versionExpiration)
		}
		return nil
	})
	return err
}

// HGetAll 键不存在时返回空 map
func HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return Rdb.HGetAll(ctx, key).Result()
}

// TryLock SETNX 加锁，attempts 为 -1 时一直重试直到 ctx 结束
func TryLock(ctx context.Context, key string, value interface{}, expiration time.Duration, attempts int) (bool, error) {
	for i := 0; attempts == -1 || i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(lockRetryInterval):
			}
		}
		ok, err := Rdb.SetNX(ctx, key, value, expiration).Result()
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

func UnLock(ctx context.Context, key string, value interface{}) {
	_ = unlockScript.Run(ctx, Rdb, []string{key}, value).Err()
}
