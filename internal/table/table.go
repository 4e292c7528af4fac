package table

import (
	"context"
	"slices"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"

	"github.com/palemoky/holdem-table/internal/storage"
)

// MaxSeats 每张牌桌的座位上限
const MaxSeats = 10

// defaultJoinAttempts 入座冲突时的默认尝试次数。每次冲突都意味着另一位玩家入座成功，
// 所以尝试次数大于座位数时，只要还有空位就不会以 ErrConflict 结束
const defaultJoinAttempts = MaxSeats + 1

// Table 牌桌
type Table struct {
	ID              string
	SeatedPlayerIDs []string // 按入座顺序
	CreatedAt       time.Time
}

// FreeSeats 返回剩余座位数
func (t *Table) FreeSeats(maxSeats int) int {
	return max(maxSeats-len(t.SeatedPlayerIDs), 0)
}

// IsSeated 玩家是否已在桌上
func (t *Table) IsSeated(playerID string) bool {
	return slices.Contains(t.SeatedPlayerIDs, playerID)
}

// Store 协调器依赖的存储能力
type Store interface {
	PutTable(ctx context.Context, table *storage.TableRecord) error
	LoadTable(ctx context.Context, id string) (*storage.TableRecord, error)
	UpdateTable(ctx context.Context, id string, precondition func(*storage.TableRecord) bool, mutate func(*storage.TableRecord)) error
	QueryTables(ctx context.Context, q storage.TableQuery) ([]*storage.TableRecord, error)
}

// Options 协调器参数，零值字段使用默认值
type Options struct {
	MaxSeats     int
	JoinAttempts int
	Clock        quartz.Clock
	Logger       logrus.FieldLogger
}

// Coordinator 牌桌协调器
//
// 协调器本身不持有任何可变共享状态：多个独立进程可以同时操作同一张牌桌，
// 入座的原子性完全由存储层的条件写入保证。
type Coordinator struct {
	store        Store
	maxSeats     int
	joinAttempts int
	clock        quartz.Clock
	log          logrus.FieldLogger
}

// NewCoordinator 创建牌桌协调器
func NewCoordinator(store Store, opts Options) *Coordinator {
	c := &Coordinator{
		store:        store,
		maxSeats:     opts.MaxSeats,
		joinAttempts: opts.JoinAttempts,
		clock:        opts.Clock,
		log:          opts.Logger,
	}
	if c.maxSeats <= 0 || c.maxSeats > MaxSeats {
		c.maxSeats = MaxSeats
	}
	if c.joinAttempts <= 0 {
		c.joinAttempts = defaultJoinAttempts
	}
	if c.clock == nil {
		c.clock = quartz.NewReal()
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	return c
}

// MaxSeats 返回协调器使用的座位上限
func (c *Coordinator) MaxSeats() int {
	return c.maxSeats
}

func fromRecord(r *storage.TableRecord) *Table {
	t := &Table{
		ID:              r.ID,
		SeatedPlayerIDs: slices.Clone(r.PlayerIDs),
	}
	if t.SeatedPlayerIDs == nil {
		t.SeatedPlayerIDs = []string{}
	}
	if r.CreatedAt != 0 {
		t.CreatedAt = time.UnixMilli(r.CreatedAt).UTC()
	}
	return t
}

func (t *Table) toRecord() *storage.TableRecord {
	r := &storage.TableRecord{
		ID:        t.ID,
		PlayerIDs: slices.Clone(t.SeatedPlayerIDs),
	}
	if !t.CreatedAt.IsZero() {
		r.CreatedAt = t.CreatedAt.UnixMilli()
	}
	return r
}
