package hand

import (
	"math"

	"github.com/palemoky/holdem-table/internal/apperrors"
)

// apply 在内存中执行一次玩家动作。返回错误时牌局没有任何改动
func (h *Hand) apply(playerID string, action Action, amount float64) error {
	if h.State.Closed() {
		return apperrors.ErrHandClosed
	}
	if action == Bet && (amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0)) {
		return apperrors.ErrInvalidAmount
	}
	if action != Bet {
		amount = 0
	}
	if _, ok := h.Player(playerID); !ok {
		return apperrors.ErrInvalidActor
	}

	cur := h.Current()
	seat, ok := cur.seat(playerID)
	if !ok || seat.Inactive {
		return apperrors.ErrInvalidActor
	}

	switch action {
	case Bet:
		if seat.Stack != nil && amount > *seat.Stack {
			return apperrors.ErrInvalidAmount
		}
		highest := cur.HighestBet()
		// 面对下注时至少跟平，除非押上全部筹码
		allIn := seat.Stack != nil && amount == *seat.Stack
		if seat.Bet+amount < highest && !allIn {
			return apperrors.ErrInvalidAmount
		}
		cur.commit(seat, amount)
		if seat.Bet > highest {
			// 加注重新打开本轮：其他人需要再次行动
			for i := range cur.ActivePlayers {
				if other := &cur.ActivePlayers[i]; other.ID != seat.ID {
					other.HasActed = false
				}
			}
		}
	case Check:
		if seat.Bet < cur.HighestBet() {
			return apperrors.ErrInvalidAction
		}
	case Fold:
		seat.Inactive = true
	default:
		return apperrors.ErrInvalidAction
	}
	seat.HasActed = true

	h.PlayerEvents = append(h.PlayerEvents, PlayerEvent{
		PlayerID:   playerID,
		Action:     action,
		Amount:     amount,
		Street:     cur.Street,
		StackAfter: copyAmount(seat.Stack),
		PotAfter:   copyAmount(&cur.Pot),
	})

	h.advance()
	return nil
}

// advance 在一次动作之后推进状态：只剩一人时直接结束；本轮下注结束时进入下一条街
func (h *Hand) advance() {
	cur := h.Current()
	cur.ShouldIncrementCycle = false

	if cur.ActiveCount() <= 1 {
		h.State = StateFoldedOut
		return
	}
	if !cur.roundClosed() {
		return
	}

	cur.ShouldIncrementCycle = true
	cur.CycleCount++

	next, ok := cur.Street.Next()
	if !ok {
		h.State = StateComplete
		return
	}

	h.StreetEvents = append(h.StreetEvents, cur.nextStreet(next))
	h.State = stateForStreet(next)
}

// roundClosed 所有还能行动的玩家都在最近一次加注后行动过，且投入都等于最高注。
// 全下的玩家不再需要行动，也不要求跟平
func (s *StreetEvent) roundClosed() bool {
	highest := s.HighestBet()
	for i := range s.ActivePlayers {
		seat := &s.ActivePlayers[i]
		if !seat.canAct() {
			continue
		}
		if !seat.HasActed || seat.Bet != highest {
			return false
		}
	}
	return true
}

// nextStreet 冻结当前街，生成下一条街的初始快照：弃牌的玩家不再出现，下注清零，筹码和底池延续
func (s *StreetEvent) nextStreet(street Street) StreetEvent {
	seats := make([]Seat, 0, len(s.ActivePlayers))
	for _, seat := range s.ActivePlayers {
		if seat.Inactive {
			continue
		}
		seats = append(seats, Seat{ID: seat.ID, Stack: copyAmount(seat.Stack)})
	}
	return StreetEvent{
		Street:        street,
		ActivePlayers: seats,
		Pot:           s.Pot,
	}
}
