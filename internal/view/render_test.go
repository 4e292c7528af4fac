package view

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/holdem-table/internal/hand"
	"github.com/palemoky/holdem-table/internal/logger"
	"github.com/palemoky/holdem-table/internal/table"
	"github.com/palemoky/holdem-table/internal/testutil"
)

func TestCard(t *testing.T) {
	t.Parallel()

	assert.Contains(t, Card("As"), "A♠")
	assert.Contains(t, Card("Td"), "T♦")
	assert.Contains(t, Card("9h"), "9♥")
	assert.Contains(t, Card("2c"), "2♣")
	assert.Contains(t, Card("Zx"), "Zx")
	assert.Contains(t, Cards(nil), "--")
}

func TestTable(t *testing.T) {
	t.Parallel()

	tbl := &table.Table{
		ID:              "t-1",
		SeatedPlayerIDs: []string{"alice", "bob"},
		CreatedAt:       time.Date(2026, 10, 15, 20, 0, 0, 0, time.UTC),
	}

	out := Table(tbl, table.MaxSeats)
	assert.Contains(t, out, "t-1")
	assert.Contains(t, out, "2/10")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")

	list := Tables([]*table.Table{tbl}, table.MaxSeats)
	assert.Contains(t, list, "t-1")
	assert.Contains(t, list, "2026-10-15 20:00:00")

	assert.Contains(t, Tables(nil, table.MaxSeats), "没有可加入的牌桌")
}

func TestDeal(t *testing.T) {
	t.Parallel()

	out := Deal(testutil.FixedDeal(2))
	assert.Contains(t, out, "座位 0")
	assert.Contains(t, out, "座位 1")
	assert.Contains(t, out, "High card")
	assert.Contains(t, out, "J♣")
}

func TestHand(t *testing.T) {
	t.Parallel()

	store, _ := testutil.NewRedisStore(t)
	d := new(testutil.MockDealer)
	d.On("Deal", mock.Anything, 3).Return(testutil.FixedDeal(3), nil)
	m := hand.NewMachine(d, store, hand.Options{Logger: logger.Discard()})
	ctx := context.Background()

	stack := 500.0
	h, err := m.Create(ctx, hand.DealInput{
		TableID: "t-1",
		Players: []hand.Player{{ID: "alice", Stack: &stack}, {ID: "bob", Stack: &stack}, {ID: "carol", Stack: &stack}},
	})
	require.NoError(t, err)
	h, err = m.RecordAction(ctx, h.ID, "carol", hand.Fold, 0)
	require.NoError(t, err)

	out := Hand(h)
	assert.Contains(t, out, h.ID)
	assert.Contains(t, out, "Preflop")
	assert.Contains(t, out, "t-1")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "490")
	assert.Contains(t, out, "弃牌")
	assert.Contains(t, out, "Fold")
}

func TestError(t *testing.T) {
	t.Parallel()

	assert.Contains(t, Error(errors.New("table is full")), "table is full")
}
