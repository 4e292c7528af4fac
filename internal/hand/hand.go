package hand

import (
	"slices"
	"time"

	"github.com/palemoky/holdem-table/internal/dealer"
)

// Player 牌局中的玩家。Stack 是开局时的筹码，为 nil 表示尚未买入；
// 之后的筹码变化记录在每条街的 Seat 中
type Player struct {
	ID          string
	Stack       *float64
	HoleCards   []string
	HandScore   float64
	Description string
}

// Board 公共牌，要么全部为空，要么由发牌服务一次性填满
type Board struct {
	Flop  []string
	Turn  string
	River string
}

// PlayerEvent 一次玩家动作，写入后不可修改
type PlayerEvent struct {
	PlayerID   string
	Action     Action
	Amount     float64
	Street     Street
	StackAfter *float64
	PotAfter   *float64
}

// Seat 街快照中的一个玩家
type Seat struct {
	ID       string
	Bet      float64 // 本街已投入
	Stack    *float64
	Inactive bool // 已弃牌
	HasActed bool // 自本街最近一次加注以来是否行动过
}

// canAct 未弃牌且没有全下
func (s *Seat) canAct() bool {
	return !s.Inactive && (s.Stack == nil || *s.Stack > 0)
}

// StreetEvent 一条街的快照。日志中只有最后一条是可变的当前街，其余都已冻结
type StreetEvent struct {
	Street               Street
	ActivePlayers        []Seat
	Pot                  float64
	CycleCount           int
	ShouldIncrementCycle bool
}

// Hand 一手牌
type Hand struct {
	ID           string
	TableID      string
	Players      []Player // 创建后成员不变
	Board        Board
	PlayerEvents []PlayerEvent
	StreetEvents []StreetEvent
	State        State
	CreatedAt    time.Time
}

// DealInput 创建牌局的输入，只使用玩家的 ID 和 Stack
type DealInput struct {
	TableID string
	Players []Player
}

// CurrentIndex 当前街在 StreetEvents 中的下标
func (h *Hand) CurrentIndex() int {
	return len(h.StreetEvents) - 1
}

// Current 返回当前街
func (h *Hand) Current() *StreetEvent {
	return &h.StreetEvents[h.CurrentIndex()]
}

// Player 按 ID 查找玩家
func (h *Hand) Player(id string) (*Player, bool) {
	for i := range h.Players {
		if h.Players[i].ID == id {
			return &h.Players[i], true
		}
	}
	return nil, false
}

// ActiveCount 当前街未弃牌的玩家数
func (s *StreetEvent) ActiveCount() int {
	n := 0
	for i := range s.ActivePlayers {
		if !s.ActivePlayers[i].Inactive {
			n++
		}
	}
	return n
}

// HighestBet 本街最高投入
func (s *StreetEvent) HighestBet() float64 {
	var highest float64
	for i := range s.ActivePlayers {
		highest = max(highest, s.ActivePlayers[i].Bet)
	}
	return highest
}

func (s *StreetEvent) seat(id string) (*Seat, bool) {
	for i := range s.ActivePlayers {
		if s.ActivePlayers[i].ID == id {
			return &s.ActivePlayers[i], true
		}
	}
	return nil, false
}

// newHand 合并发牌结果并下盲注；座位 i 的请求对应发牌结果中的第 i 手牌
func newHand(id string, in DealInput, deal *dealer.Deal, smallBlind float64, now time.Time) *Hand {
	players := make([]Player, len(in.Players))
	seats := make([]Seat, len(in.Players))
	for i, p := range in.Players {
		dealt := deal.Hands[i]
		players[i] = Player{
			ID:          p.ID,
			Stack:       copyAmount(p.Stack),
			HoleCards:   slices.Clone(dealt.Cards),
			HandScore:   dealt.Score,
			Description: dealt.Description,
		}
		seats[i] = Seat{ID: p.ID, Stack: copyAmount(p.Stack)}
	}

	h := &Hand{
		ID:      id,
		TableID: in.TableID,
		Players: players,
		Board: Board{
			Flop:  slices.Clone(deal.Board.Flop),
			Turn:  deal.Board.Turn,
			River: deal.Board.River,
		},
		PlayerEvents: []PlayerEvent{},
		StreetEvents: []StreetEvent{{Street: Preflop, ActivePlayers: seats}},
		State:        StateCreated,
		CreatedAt:    now,
	}

	h.postBlind(0, smallBlind)
	h.postBlind(1, 2*smallBlind)
	h.State = StatePreflop
	return h
}

// postBlind 强制下注，不计为行动，筹码不足时全下
func (h *Hand) postBlind(seatIdx int, amount float64) {
	cur := h.Current()
	seat := &cur.ActivePlayers[seatIdx]
	if seat.Stack != nil {
		amount = min(amount, *seat.Stack)
	}
	cur.commit(seat, amount)
	h.PlayerEvents = append(h.PlayerEvents, PlayerEvent{
		PlayerID:   seat.ID,
		Action:     Bet,
		Amount:     amount,
		Street:     cur.Street,
		StackAfter: copyAmount(seat.Stack),
		PotAfter:   copyAmount(&cur.Pot),
	})
}

// commit 把筹码从玩家移到底池
func (s *StreetEvent) commit(seat *Seat, amount float64) {
	seat.Bet += amount
	if seat.Stack != nil {
		remaining := *seat.Stack - amount
		seat.Stack = &remaining
	}
	s.Pot += amount
}

func copyAmount(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
