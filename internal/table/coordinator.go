package table

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/holdem-table/internal/apperrors"
	"github.com/palemoky/holdem-table/internal/storage"
)

// CreateTable 创建空牌桌
func (c *Coordinator) CreateTable(ctx context.Context) (*Table, error) {
	t := &Table{
		ID:              uuid.New().String(),
		SeatedPlayerIDs: []string{},
		CreatedAt:       c.clock.Now().UTC().Truncate(time.Millisecond),
	}

	if err := c.store.PutTable(ctx, t.toRecord()); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}

	c.log.WithField("table_id", t.ID).Info("table created")
	return t, nil
}

// GetTable 获取牌桌
func (c *Coordinator) GetTable(ctx context.Context, id string) (*Table, error) {
	r, err := c.store.LoadTable(ctx, id)
	if err != nil {
		return nil, c.storeError(err, apperrors.ErrTableNotFound)
	}
	return fromRecord(r), nil
}

// SeatedPlayers 按入座顺序返回牌桌名单
func (c *Coordinator) SeatedPlayers(ctx context.Context, tableID string) ([]string, error) {
	t, err := c.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	return t.SeatedPlayerIDs, nil
}

// ListJoinableTables 列出未满的牌桌；结果可能在入座时已经过期，由 JoinTable 自身的原子性兜底
func (c *Coordinator) ListJoinableTables(ctx context.Context) ([]*Table, error) {
	records, err := c.store.QueryTables(ctx, storage.TableQuery{SeatsBelow: c.maxSeats})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}

	tables := make([]*Table, 0, len(records))
	for _, r := range records {
		tables = append(tables, fromRecord(r))
	}
	return tables, nil
}

// JoinTable 让玩家入座
//
// 读取当前名单后以条件写入提交：仅当存储中的名单人数仍等于读取时的人数且未满时才追加。
// 被其他入座抢先时重新读取并重试，重试耗尽返回 ErrConflict。
func (c *Coordinator) JoinTable(ctx context.Context, tableID, playerID string) error {
	log := c.log.WithField("table_id", tableID).WithField("player_id", playerID)

	for attempt := 1; attempt <= c.joinAttempts; attempt++ {
		r, err := c.store.LoadTable(ctx, tableID)
		if err != nil {
			return c.storeError(err, apperrors.ErrTableNotFound)
		}

		current := fromRecord(r)
		if current.IsSeated(playerID) {
			return apperrors.ErrAlreadySeated
		}
		if len(current.SeatedPlayerIDs) >= c.maxSeats {
			return apperrors.ErrTableFull
		}

		observed := len(current.SeatedPlayerIDs)
		err = c.store.UpdateTable(ctx, tableID,
			func(stored *storage.TableRecord) bool {
				return len(stored.PlayerIDs) == observed && observed < c.maxSeats
			},
			func(stored *storage.TableRecord) {
				stored.PlayerIDs = append(stored.PlayerIDs, playerID)
			},
		)
		switch {
		case err == nil:
			log.WithField("seat", observed).Info("player joined table")
			return nil
		case errors.Is(err, storage.ErrPreconditionFailed):
			log.WithField("attempt", attempt).Debug("join lost a race, retrying")
			continue
		default:
			return c.storeError(err, apperrors.ErrTableNotFound)
		}
	}

	log.WithField("attempts", c.joinAttempts).Warn("join retries exhausted")
	return apperrors.ErrConflict
}

func (c *Coordinator) storeError(err error, notFound error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return notFound
	}
	return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
}
