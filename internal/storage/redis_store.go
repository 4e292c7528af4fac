package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key 前缀
	tableKeyPrefix     = "table:"
	handKeyPrefix      = "hand:"
	tableHandsPrefix   = "hands:table:"
	tableHandSeqPrefix = "hands:seq:" // 每张牌桌的牌局序号计数器
	tableSeatsIndexKey = "tables:seats" // zset: 牌桌 ID -> 已入座人数
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("storage: record not found")
	// ErrPreconditionFailed 条件写入的前置条件不成立，或者被并发写入抢先
	ErrPreconditionFailed = errors.New("storage: precondition failed")
)

// Options Redis 连接参数，由调用方显式传入
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect 创建 Redis 客户端并检查连通性
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return rdb, nil
}

// RedisStore Redis 存储
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// --- 牌桌存储 ---

// PutTable 保存牌桌，同时更新可加入牌桌索引
func (rs *RedisStore) PutTable(ctx context.Context, table *TableRecord) error {
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshal table %s: %w", table.ID, err)
	}

	_, err = rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tableKeyPrefix+table.ID, data, 0)
		pipe.ZAdd(ctx, tableSeatsIndexKey, redis.Z{Score: float64(len(table.PlayerIDs)), Member: table.ID})
		return nil
	})
	return err
}

// LoadTable 加载牌桌
func (rs *RedisStore) LoadTable(ctx context.Context, id string) (*TableRecord, error) {
	data, err := rs.client.Get(ctx, tableKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeTable(data)
}

// UpdateTable 条件更新牌桌：precondition 在 WATCH 之后对当前存储值求值，
// 不成立或 EXEC 时键已被其他写入修改，都返回 ErrPreconditionFailed
func (rs *RedisStore) UpdateTable(ctx context.Context, id string, precondition func(*TableRecord) bool, mutate func(*TableRecord)) error {
	key := tableKeyPrefix + id

	err := rs.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return err
		}

		table, err := decodeTable(data)
		if err != nil {
			return err
		}
		if !precondition(table) {
			return ErrPreconditionFailed
		}

		mutate(table)
		updated, err := json.Marshal(table)
		if err != nil {
			return fmt.Errorf("marshal table %s: %w", id, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			pipe.ZAdd(ctx, tableSeatsIndexKey, redis.Z{Score: float64(len(table.PlayerIDs)), Member: table.ID})
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrPreconditionFailed
	}
	return err
}

// QueryTables 查询入座人数少于 q.SeatsBelow 的牌桌，过滤在 Redis 端完成
func (rs *RedisStore) QueryTables(ctx context.Context, q TableQuery) ([]*TableRecord, error) {
	ids, err := rs.client.ZRangeByScore(ctx, tableSeatsIndexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.Itoa(q.SeatsBelow),
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*TableRecord{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = tableKeyPrefix + id
	}

	values, err := rs.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	tables := make([]*TableRecord, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue // 索引与记录之间的短暂不一致
		}
		table, err := decodeTable([]byte(s))
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func decodeTable(data []byte) (*TableRecord, error) {
	var table TableRecord
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("unmarshal table: %w", err)
	}
	if table.PlayerIDs == nil {
		table.PlayerIDs = []string{}
	}
	return &table, nil
}

// --- 牌局存储 ---

// PutHand 保存牌局并登记到所属牌桌的牌局索引。
// 索引分数取自牌桌的 INCR 序号，同一毫秒内创建的牌局也按写入顺序排列；重复写入不改变已有位置
func (rs *RedisStore) PutHand(ctx context.Context, hand *HandRecord) error {
	data, err := json.Marshal(hand)
	if err != nil {
		return fmt.Errorf("marshal hand %s: %w", hand.HandID, err)
	}

	var seq int64
	if hand.TableID != "" {
		seq, err = rs.client.Incr(ctx, tableHandSeqPrefix+hand.TableID).Result()
		if err != nil {
			return fmt.Errorf("next hand sequence for table %s: %w", hand.TableID, err)
		}
	}

	_, err = rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, handKeyPrefix+hand.HandID, data, 0)
		if hand.TableID != "" {
			pipe.ZAddNX(ctx, tableHandsPrefix+hand.TableID, redis.Z{Score: float64(seq), Member: hand.HandID})
		}
		return nil
	})
	return err
}

// LoadHand 加载牌局
func (rs *RedisStore) LoadHand(ctx context.Context, id string) (*HandRecord, error) {
	data, err := rs.client.Get(ctx, handKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeHand(data)
}

// UpdateHand 条件覆盖牌局，语义同 UpdateTable
func (rs *RedisStore) UpdateHand(ctx context.Context, id string, precondition func(*HandRecord) bool, mutate func(*HandRecord)) error {
	key := handKeyPrefix + id

	err := rs.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return err
		}

		hand, err := decodeHand(data)
		if err != nil {
			return err
		}
		if !precondition(hand) {
			return ErrPreconditionFailed
		}

		mutate(hand)
		updated, err := json.Marshal(hand)
		if err != nil {
			return fmt.Errorf("marshal hand %s: %w", id, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrPreconditionFailed
	}
	return err
}

// ListHandIDs 按写入顺序返回牌桌上的牌局 ID
func (rs *RedisStore) ListHandIDs(ctx context.Context, tableID string) ([]string, error) {
	return rs.client.ZRange(ctx, tableHandsPrefix+tableID, 0, -1).Result()
}

func decodeHand(data []byte) (*HandRecord, error) {
	var hand HandRecord
	if err := json.Unmarshal(data, &hand); err != nil {
		return nil, fmt.Errorf("unmarshal hand: %w", err)
	}
	return &hand, nil
}
