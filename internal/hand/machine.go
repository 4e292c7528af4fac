package hand

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/palemoky/holdem-table/internal/apperrors"
	"github.com/palemoky/holdem-table/internal/dealer"
	"github.com/palemoky/holdem-table/internal/storage"
)

// maxSeats 一手牌最多的座位数，与牌桌上限一致
const maxSeats = 10

// DefaultSmallBlind 默认小盲注，大盲注为其两倍
const DefaultSmallBlind = 10

// Store 牌局状态机依赖的存储能力
type Store interface {
	PutHand(ctx context.Context, hand *storage.HandRecord) error
	LoadHand(ctx context.Context, id string) (*storage.HandRecord, error)
	UpdateHand(ctx context.Context, id string, precondition func(*storage.HandRecord) bool, mutate func(*storage.HandRecord)) error
	ListHandIDs(ctx context.Context, tableID string) ([]string, error)
}

// Roster 读取牌桌名单，用于按牌桌开局
type Roster interface {
	SeatedPlayers(ctx context.Context, tableID string) ([]string, error)
}

// Options 状态机参数，零值字段使用默认值
type Options struct {
	SmallBlind float64
	Roster     Roster // 仅 CreateForTable 需要
	Clock      quartz.Clock
	Logger     logrus.FieldLogger
}

// Machine 牌局状态机：创建牌局、记录动作、推进街
//
// 和牌桌协调器一样不持有共享状态，同一手牌的并发写入由存储层的条件写入仲裁。
type Machine struct {
	dealer     dealer.Dealer
	store      Store
	roster     Roster
	clock      quartz.Clock
	log        logrus.FieldLogger
	smallBlind float64
}

// NewMachine 创建牌局状态机
func NewMachine(d dealer.Dealer, store Store, opts Options) *Machine {
	m := &Machine{
		dealer:     d,
		store:      store,
		roster:     opts.Roster,
		clock:      opts.Clock,
		log:        opts.Logger,
		smallBlind: opts.SmallBlind,
	}
	if m.smallBlind <= 0 {
		m.smallBlind = DefaultSmallBlind
	}
	if m.clock == nil {
		m.clock = quartz.NewReal()
	}
	if m.log == nil {
		m.log = logrus.StandardLogger()
	}
	return m
}

// Create 发牌并创建牌局
//
// 发牌服务只调用一次。持久化失败时仍然返回内存中的牌局以便调用方查看，
// 但它没有落盘，之后对它的任何动作都会得到 ErrHandNotFound。
func (m *Machine) Create(ctx context.Context, in DealInput) (*Hand, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	log := m.log.WithField("table_id", in.TableID).WithField("players", len(in.Players))

	deal, err := m.dealer.Deal(ctx, len(in.Players))
	if err != nil {
		log.WithError(err).Warn("dealing failed")
		return nil, fmt.Errorf("%w: %w", apperrors.ErrDealingUnavailable, err)
	}
	if err := deal.Validate(len(in.Players)); err != nil {
		log.WithError(err).Warn("dealer returned an inconsistent deal")
		return nil, fmt.Errorf("%w: %w", apperrors.ErrDealingUnavailable, err)
	}

	now := m.clock.Now().UTC().Truncate(time.Millisecond)
	h := newHand(uuid.New().String(), in, deal, m.smallBlind, now)
	log = log.WithField("hand_id", h.ID)

	if err := m.store.PutHand(ctx, h.ToRecord()); err != nil {
		log.WithError(err).Error("could not persist new hand")
		return h, fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}

	log.WithField("pot", h.Current().Pot).Info("hand created")
	return h, nil
}

// CreateForTable 以牌桌当前名单开局，每位玩家以 buyIn 买入
func (m *Machine) CreateForTable(ctx context.Context, tableID string, buyIn float64) (*Hand, error) {
	if m.roster == nil {
		return nil, errors.New("hand machine has no table roster")
	}
	ids, err := m.roster.SeatedPlayers(ctx, tableID)
	if err != nil {
		return nil, err
	}

	players := make([]Player, len(ids))
	for i, id := range ids {
		players[i] = Player{ID: id}
		if buyIn > 0 {
			stack := buyIn
			players[i].Stack = &stack
		}
	}
	return m.Create(ctx, DealInput{TableID: tableID, Players: players})
}

// RecordAction 记录一次玩家动作并在需要时推进街
//
// 写入是条件覆盖：仅当存储中的动作数仍等于读取时的动作数才提交，
// 同一手牌的并发动作中只有一个成功，其余返回 ErrConflict，不自动重试。
func (m *Machine) RecordAction(ctx context.Context, handID, playerID string, action Action, amount float64) (*Hand, error) {
	log := m.log.WithField("hand_id", handID).WithField("player_id", playerID).WithField("action", action.String())

	r, err := m.store.LoadHand(ctx, handID)
	if err != nil {
		return nil, storeError(err)
	}
	h, err := FromRecord(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}

	observed := len(r.PlayerEvents)
	street := h.Current().Street
	if err := h.apply(playerID, action, amount); err != nil {
		log.WithError(err).Debug("action rejected")
		return nil, err
	}

	updated := h.ToRecord()
	err = m.store.UpdateHand(ctx, handID,
		func(stored *storage.HandRecord) bool { return len(stored.PlayerEvents) == observed },
		func(stored *storage.HandRecord) { *stored = *updated },
	)
	if err != nil {
		if errors.Is(err, storage.ErrPreconditionFailed) {
			log.Info("hand changed concurrently")
			return nil, apperrors.ErrConflict
		}
		return nil, storeError(err)
	}

	entry := log.WithField("amount", amount).WithField("state", h.State.String())
	switch {
	case h.State.Closed():
		entry.Info("hand finished")
	case h.Current().Street != street:
		entry.WithField("street", h.Current().Street.String()).Info("street advanced")
	default:
		entry.Debug("action recorded")
	}
	return h, nil
}

// Get 读取牌局
func (m *Machine) Get(ctx context.Context, handID string) (*Hand, error) {
	r, err := m.store.LoadHand(ctx, handID)
	if err != nil {
		return nil, storeError(err)
	}
	h, err := FromRecord(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}
	return h, nil
}

// ListByTable 按创建顺序列出牌桌上的牌局
func (m *Machine) ListByTable(ctx context.Context, tableID string) ([]*Hand, error) {
	ids, err := m.store.ListHandIDs(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}

	hands := make([]*Hand, 0, len(ids))
	for _, id := range ids {
		h, err := m.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		hands = append(hands, h)
	}
	return hands, nil
}

func validateInput(in DealInput) error {
	if len(in.Players) < 2 || len(in.Players) > maxSeats {
		return fmt.Errorf("%w: %d players", apperrors.ErrInvalidPlayers, len(in.Players))
	}
	seen := make(map[string]bool, len(in.Players))
	for _, p := range in.Players {
		if p.ID == "" {
			return fmt.Errorf("%w: empty player id", apperrors.ErrInvalidPlayers)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate player %s", apperrors.ErrInvalidPlayers, p.ID)
		}
		seen[p.ID] = true
		if p.Stack != nil && *p.Stack < 0 {
			return fmt.Errorf("%w: negative stack for %s", apperrors.ErrInvalidPlayers, p.ID)
		}
	}
	return nil
}

func storeError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.ErrHandNotFound
	}
	return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
}
