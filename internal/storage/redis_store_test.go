package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client)
	return store, mr
}

func TestConnect(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	rdb, err := Connect(context.Background(), Options{Addr: addr})
	require.NoError(t, err)
	defer rdb.Close()

	// 关闭后 miniredis 不再保留地址，必须提前取出
	mr.Close()
	_, err = Connect(context.Background(), Options{Addr: addr})
	assert.Error(t, err)
}

func TestRedisStore_PutLoadTable(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	defer mr.Close()
	ctx := context.Background()

	err := store.PutTable(ctx, &TableRecord{ID: "t1", PlayerIDs: []string{}})
	require.NoError(t, err)

	loaded, err := store.LoadTable(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", loaded.ID)
	assert.Empty(t, loaded.PlayerIDs)

	_, err = store.LoadTable(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_UpdateTable(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	defer mr.Close()
	ctx := context.Background()

	require.NoError(t, store.PutTable(ctx, &TableRecord{ID: "t1", PlayerIDs: []string{"p1"}}))

	sizeIs := func(n int) func(*TableRecord) bool {
		return func(tr *TableRecord) bool { return len(tr.PlayerIDs) == n }
	}
	appendPlayer := func(id string) func(*TableRecord) {
		return func(tr *TableRecord) { tr.PlayerIDs = append(tr.PlayerIDs, id) }
	}

	// Precondition holds
	err := store.UpdateTable(ctx, "t1", sizeIs(1), appendPlayer("p2"))
	require.NoError(t, err)

	// Stale precondition
	err = store.UpdateTable(ctx, "t1", sizeIs(1), appendPlayer("p3"))
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	loaded, err := store.LoadTable(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, loaded.PlayerIDs)

	// Missing key
	err = store.UpdateTable(ctx, "missing", sizeIs(0), appendPlayer("p1"))
	assert.ErrorIs(t, err, ErrNotFound)

	// Index follows the roster size
	score, err := mr.ZScore(tableSeatsIndexKey, "t1")
	require.NoError(t, err)
	assert.Equal(t, 2.0, score)
}

func TestRedisStore_QueryTables(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	defer mr.Close()
	ctx := context.Background()

	full := make([]string, 10)
	for i := range full {
		full[i] = string(rune('a' + i))
	}

	require.NoError(t, store.PutTable(ctx, &TableRecord{ID: "empty", PlayerIDs: []string{}}))
	require.NoError(t, store.PutTable(ctx, &TableRecord{ID: "nine", PlayerIDs: full[:9]}))
	require.NoError(t, store.PutTable(ctx, &TableRecord{ID: "full", PlayerIDs: full}))

	tables, err := store.QueryTables(ctx, TableQuery{SeatsBelow: 10})
	require.NoError(t, err)

	ids := make([]string, 0, len(tables))
	for _, tr := range tables {
		ids = append(ids, tr.ID)
	}
	assert.ElementsMatch(t, []string{"empty", "nine"}, ids)

	// Record removed behind the index's back is skipped
	mr.Del(tableKeyPrefix + "nine")
	tables, err = store.QueryTables(ctx, TableQuery{SeatsBelow: 10})
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "empty", tables[0].ID)
}

func TestRedisStore_QueryTables_Empty(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	defer mr.Close()

	tables, err := store.QueryTables(context.Background(), TableQuery{SeatsBelow: 10})
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestRedisStore_HandOrderWithinSameMillisecond(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	defer mr.Close()
	ctx := context.Background()

	// ID 的字典序和写入顺序相反，CreatedAt 相同
	for _, id := range []string{"h-b", "h-a", "h-c"} {
		require.NoError(t, store.PutHand(ctx, &HandRecord{HandID: id, TableID: "t1", CreatedAt: 42}))
	}
	// 重复写入不改变位置
	require.NoError(t, store.PutHand(ctx, &HandRecord{HandID: "h-b", TableID: "t1", CreatedAt: 42}))

	ids, err := store.ListHandIDs(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"h-b", "h-a", "h-c"}, ids)
}

func TestRedisStore_Hands(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	defer mr.Close()
	ctx := context.Background()

	stack := 990.0
	hand := &HandRecord{
		HandID:  "h1",
		TableID: "t1",
		State:   "Preflop",
		Players: []PlayerRecord{{ID: "p0", Stack: &stack, HoleCards: []string{"As", "Kd"}}},
		PlayerEvents: []PlayerEventRecord{
			{PlayerID: "p0", Action: "Bet", Amount: 10, StreetType: "Preflop"},
		},
		StreetEvents: []StreetEventRecord{{StreetType: "Preflop", Pot: 10}},
		CreatedAt:    1,
	}
	require.NoError(t, store.PutHand(ctx, hand))
	require.NoError(t, store.PutHand(ctx, &HandRecord{HandID: "h2", TableID: "t1", CreatedAt: 2}))

	loaded, err := store.LoadHand(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, hand, loaded)

	ids, err := store.ListHandIDs(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h2"}, ids)

	eventsAre := func(n int) func(*HandRecord) bool {
		return func(hr *HandRecord) bool { return len(hr.PlayerEvents) == n }
	}
	check := func(hr *HandRecord) {
		hr.PlayerEvents = append(hr.PlayerEvents, PlayerEventRecord{PlayerID: "p0", Action: "Check", StreetType: "Preflop"})
	}

	require.NoError(t, store.UpdateHand(ctx, "h1", eventsAre(1), check))
	assert.ErrorIs(t, store.UpdateHand(ctx, "h1", eventsAre(1), check), ErrPreconditionFailed)
	assert.ErrorIs(t, store.UpdateHand(ctx, "nope", eventsAre(0), check), ErrNotFound)

	loaded, err = store.LoadHand(ctx, "h1")
	require.NoError(t, err)
	assert.Len(t, loaded.PlayerEvents, 2)

	_, err = store.LoadHand(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
