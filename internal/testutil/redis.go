//go:build !production

package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/holdem-table/internal/storage"
)

// NewRedisStore 启动 miniredis 并返回连接它的存储，测试结束时自动关闭
func NewRedisStore(t *testing.T) (*storage.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return storage.NewRedisStore(client), mr
}
