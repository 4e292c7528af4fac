package hand

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/holdem-table/internal/apperrors"
	"github.com/palemoky/holdem-table/internal/testutil"
)

// newTestHand 不经过存储直接创建牌局，stacks 为 nil 时所有玩家未买入
func newTestHand(t *testing.T, ids []string, stacks []float64) *Hand {
	t.Helper()

	players := make([]Player, len(ids))
	for i, id := range ids {
		players[i] = Player{ID: id}
		if stacks != nil {
			stack := stacks[i]
			players[i].Stack = &stack
		}
	}
	in := DealInput{TableID: "t1", Players: players}
	return newHand("h1", in, testutil.FixedDeal(len(ids)), DefaultSmallBlind, time.Unix(0, 0).UTC())
}

func mustApply(t *testing.T, h *Hand, playerID string, action Action, amount float64) {
	t.Helper()
	require.NoError(t, h.apply(playerID, action, amount), "%s %s %v", playerID, action, amount)
}

func amount(v float64) *float64 { return &v }

func TestNewHand_PostsBlinds(t *testing.T) {
	t.Parallel()

	h := newTestHand(t, []string{"p0", "p1"}, nil)

	assert.Equal(t, StatePreflop, h.State)
	assert.Equal(t, []PlayerEvent{
		{PlayerID: "p0", Action: Bet, Amount: 10, Street: Preflop, PotAfter: amount(10)},
		{PlayerID: "p1", Action: Bet, Amount: 20, Street: Preflop, PotAfter: amount(30)},
	}, h.PlayerEvents)

	require.Len(t, h.StreetEvents, 1)
	cur := h.Current()
	assert.Equal(t, Preflop, cur.Street)
	assert.InDelta(t, 30, cur.Pot, 0)
	assert.Equal(t, 0, cur.CycleCount)
	assert.Equal(t, []Seat{{ID: "p0", Bet: 10}, {ID: "p1", Bet: 20}}, cur.ActivePlayers)

	// 底牌和描述按座位对齐
	deal := testutil.FixedDeal(2)
	for i, p := range h.Players {
		assert.Equal(t, deal.Hands[i].Cards, p.HoleCards)
		assert.InDelta(t, deal.Hands[i].Score, p.HandScore, 0)
	}
	assert.Equal(t, deal.Board.Flop, h.Board.Flop)
	assert.Equal(t, "3c", h.Board.River)
}

func TestNewHand_BlindsWithStacks(t *testing.T) {
	t.Parallel()

	h := newTestHand(t, []string{"p0", "p1", "p2"}, []float64{1000, 15, 500})
	cur := h.Current()

	assert.Equal(t, amount(990), cur.ActivePlayers[0].Stack)
	// 筹码不足大盲时全下
	assert.InDelta(t, 15, cur.ActivePlayers[1].Bet, 0)
	assert.Equal(t, amount(0), cur.ActivePlayers[1].Stack)
	assert.Equal(t, amount(500), cur.ActivePlayers[2].Stack)
	assert.InDelta(t, 25, cur.Pot, 0)

	// 玩家上的 Stack 保持开局时的数值
	assert.Equal(t, amount(15), h.Players[1].Stack)
}

func TestApply_CallAndCheckClosesPreflop(t *testing.T) {
	t.Parallel()

	h := newTestHand(t, []string{"p0", "p1"}, []float64{1000, 1000})

	mustApply(t, h, "p0", Bet, 10)
	assert.Len(t, h.StreetEvents, 1, "big blind has not acted yet")
	assert.False(t, h.Current().ShouldIncrementCycle)

	mustApply(t, h, "p1", Check, 0)
	require.Len(t, h.StreetEvents, 2)
	assert.Equal(t, StateFlop, h.State)

	preflop := h.StreetEvents[0]
	assert.Equal(t, 1, preflop.CycleCount)
	assert.True(t, preflop.ShouldIncrementCycle)

	flop := h.Current()
	assert.Equal(t, Flop, flop.Street)
	assert.InDelta(t, preflop.Pot, flop.Pot, 0)
	assert.InDelta(t, 40, flop.Pot, 0)
	assert.Equal(t, 0, flop.CycleCount)
	assert.Equal(t, []Seat{
		{ID: "p0", Stack: amount(980)},
		{ID: "p1", Stack: amount(980)},
	}, flop.ActivePlayers)

	last := h.PlayerEvents[len(h.PlayerEvents)-1]
	assert.Equal(t, PlayerEvent{
		PlayerID: "p1", Action: Check, Street: Preflop,
		StackAfter: amount(980), PotAfter: amount(40),
	}, last)
}

func TestApply_PlaysToComplete(t *testing.T) {
	t.Parallel()

	h := newTestHand(t, []string{"p0", "p1"}, nil)
	mustApply(t, h, "p0", Bet, 10)
	mustApply(t, h, "p1", Check, 0)

	for _, want := range []State{StateTurn, StateRiver, StateComplete} {
		mustApply(t, h, "p0", Check, 0)
		mustApply(t, h, "p1", Check, 0)
		assert.Equal(t, want, h.State)
	}

	require.Len(t, h.StreetEvents, 4)
	for _, s := range h.StreetEvents {
		assert.Equal(t, 1, s.CycleCount, s.Street.String())
		assert.InDelta(t, 40, s.Pot, 0)
	}
	assert.Equal(t, River, h.Current().Street)

	err := h.apply("p0", Check, 0)
	assert.ErrorIs(t, err, apperrors.ErrHandClosed)
}

func TestApply_RaiseReopensAction(t *testing.T) {
	t.Parallel()

	h := newTestHand(t, []string{"p0", "p1", "p2"}, nil)

	mustApply(t, h, "p2", Bet, 20)
	mustApply(t, h, "p0", Bet, 10)
	// 大盲加注到 40
	mustApply(t, h, "p1", Bet, 20)
	assert.Len(t, h.StreetEvents, 1)
	assert.False(t, hasActed(t, h, "p0"))
	assert.False(t, hasActed(t, h, "p2"))

	mustApply(t, h, "p2", Bet, 20)
	assert.Len(t, h.StreetEvents, 1, "p0 still owes the raise")

	mustApply(t, h, "p0", Bet, 20)
	require.Len(t, h.StreetEvents, 2)
	assert.InDelta(t, 120, h.Current().Pot, 0)
	assert.Equal(t, 1, h.StreetEvents[0].CycleCount)
}

func hasActed(t *testing.T, h *Hand, id string) bool {
	t.Helper()
	seat, ok := h.Current().seat(id)
	require.True(t, ok)
	return seat.HasActed
}

func TestApply_FoldOut(t *testing.T) {
	t.Parallel()

	h := newTestHand(t, []string{"p0", "p1", "p2"}, nil)

	mustApply(t, h, "p2", Fold, 0)
	assert.Equal(t, StatePreflop, h.State)
	assert.Equal(t, 2, h.Current().ActiveCount())

	mustApply(t, h, "p0", Fold, 0)
	assert.Equal(t, StateFoldedOut, h.State)
	assert.Len(t, h.StreetEvents, 1)

	for _, action := range []Action{Bet, Check, Fold} {
		err := h.apply("p1", action, 0)
		assert.ErrorIs(t, err, apperrors.ErrHandClosed)
	}
}

func TestApply_FoldOutOnLaterStreet(t *testing.T) {
	t.Parallel()

	h := newTestHand(t, []string{"p0", "p1"}, nil)
	mustApply(t, h, "p0", Bet, 10)
	mustApply(t, h, "p1", Check, 0)
	mustApply(t, h, "p0", Check, 0)
	mustApply(t, h, "p1", Check, 0)
	require.Equal(t, StateTurn, h.State)

	mustApply(t, h, "p0", Bet, 50)
	mustApply(t, h, "p1", Fold, 0)
	assert.Equal(t, StateFoldedOut, h.State)
	assert.InDelta(t, 90, h.Current().Pot, 0)
}

func TestApply_FoldedPlayerLeavesNextStreet(t *testing.T) {
	t.Parallel()

	h := newTestHand(t, []string{"p0", "p1", "p2"}, nil)
	mustApply(t, h, "p2", Fold, 0)
	mustApply(t, h, "p0", Bet, 10)
	mustApply(t, h, "p1", Check, 0)
	require.Equal(t, StateFlop, h.State)

	ids := make([]string, 0, 2)
	for _, seat := range h.Current().ActivePlayers {
		ids = append(ids, seat.ID)
	}
	assert.Equal(t, []string{"p0", "p1"}, ids)

	err := h.apply("p2", Check, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidActor)
}

func TestApply_AllInSkipsAction(t *testing.T) {
	t.Parallel()

	h := newTestHand(t, []string{"p0", "p1"}, []float64{15, 1000})

	// 小盲剩 5，全下后无需再跟平
	mustApply(t, h, "p0", Bet, 5)
	assert.Equal(t, amount(0), h.Current().ActivePlayers[0].Stack)
	mustApply(t, h, "p1", Check, 0)
	assert.Equal(t, StateFlop, h.State)

	// 翻牌圈只有 p1 还能行动，p1 过牌即结束本轮
	mustApply(t, h, "p1", Check, 0)
	assert.Equal(t, StateTurn, h.State)

	// 全下玩家仍然可以过牌
	mustApply(t, h, "p0", Check, 0)
	assert.Equal(t, StateTurn, h.State)
}

func TestApply_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		playerID string
		action   Action
		amount   float64
		wantErr  error
	}{
		{"unknown player", "ghost", Check, 0, apperrors.ErrInvalidActor},
		{"negative bet", "p0", Bet, -5, apperrors.ErrInvalidAmount},
		{"NaN bet", "p0", Bet, math.NaN(), apperrors.ErrInvalidAmount},
		{"infinite bet", "p0", Bet, math.Inf(1), apperrors.ErrInvalidAmount},
		{"bet above stack", "p0", Bet, 991, apperrors.ErrInvalidAmount},
		{"check facing a bet", "p0", Check, 0, apperrors.ErrInvalidAction},
		{"zero bet facing a bet", "p0", Bet, 0, apperrors.ErrInvalidAmount},
		{"bet below the call", "p0", Bet, 5, apperrors.ErrInvalidAmount},
		{"unknown action", "p0", Action(42), 0, apperrors.ErrInvalidAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newTestHand(t, []string{"p0", "p1"}, []float64{1000, 1000})
			before := h.ToRecord()

			err := h.apply(tt.playerID, tt.action, tt.amount)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, h.ToRecord(), "rejected action must not change the hand")
		})
	}
}

func TestApply_ShortCalls(t *testing.T) {
	t.Parallel()

	// 未买入的玩家没有全下的说法，跟注不足一律拒绝
	h := newTestHand(t, []string{"p0", "p1"}, nil)
	assert.ErrorIs(t, h.apply("p0", Bet, 9), apperrors.ErrInvalidAmount)

	// 筹码不够跟注时可以全下
	h = newTestHand(t, []string{"p0", "p1"}, []float64{14, 1000})
	assert.ErrorIs(t, h.apply("p0", Bet, 3), apperrors.ErrInvalidAmount)
	mustApply(t, h, "p0", Bet, 4)
	assert.InDelta(t, 14, h.Current().ActivePlayers[0].Bet, 0)

	// 没有下注时下注 0 等同于过牌
	h = newTestHand(t, []string{"p0", "p1"}, nil)
	mustApply(t, h, "p0", Bet, 10)
	mustApply(t, h, "p1", Check, 0)
	require.Equal(t, StateFlop, h.State)
	mustApply(t, h, "p0", Bet, 0)
	mustApply(t, h, "p1", Check, 0)
	assert.Equal(t, StateTurn, h.State)
}

func TestApply_FoldedPlayerCannotAct(t *testing.T) {
	t.Parallel()

	h := newTestHand(t, []string{"p0", "p1", "p2"}, nil)
	mustApply(t, h, "p2", Fold, 0)

	err := h.apply("p2", Bet, 20)
	assert.ErrorIs(t, err, apperrors.ErrInvalidActor)
}

func TestApply_NonBetAmountIgnored(t *testing.T) {
	t.Parallel()

	h := newTestHand(t, []string{"p0", "p1", "p2"}, nil)
	mustApply(t, h, "p2", Fold, 99)

	last := h.PlayerEvents[len(h.PlayerEvents)-1]
	assert.Zero(t, last.Amount)
	assert.InDelta(t, 30, h.Current().Pot, 0)
}
