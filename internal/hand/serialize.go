package hand

import (
	"fmt"
	"slices"
	"time"

	"github.com/palemoky/holdem-table/internal/storage"
)

// ToRecord 将 Hand 转换为可持久化的 HandRecord
func (h *Hand) ToRecord() *storage.HandRecord {
	r := &storage.HandRecord{
		HandID:  h.ID,
		TableID: h.TableID,
		State:   h.State.String(),
		Players: make([]storage.PlayerRecord, len(h.Players)),
		Board: storage.BoardRecord{
			Flop:  slices.Clone(h.Board.Flop),
			Turn:  h.Board.Turn,
			River: h.Board.River,
		},
		PlayerEvents: make([]storage.PlayerEventRecord, len(h.PlayerEvents)),
		StreetEvents: make([]storage.StreetEventRecord, len(h.StreetEvents)),
		CreatedAt:    h.CreatedAt.UnixMilli(),
	}

	for i, p := range h.Players {
		r.Players[i] = storage.PlayerRecord{
			ID:          p.ID,
			Stack:       copyAmount(p.Stack),
			HoleCards:   slices.Clone(p.HoleCards),
			HandScore:   p.HandScore,
			Description: p.Description,
		}
	}

	for i, e := range h.PlayerEvents {
		r.PlayerEvents[i] = storage.PlayerEventRecord{
			PlayerID:     e.PlayerID,
			Action:       e.Action.String(),
			Amount:       e.Amount,
			StreetType:   e.Street.String(),
			CurrentStack: copyAmount(e.StackAfter),
			CurrentPot:   copyAmount(e.PotAfter),
		}
	}

	for i, s := range h.StreetEvents {
		seats := make([]storage.ActivePlayerRecord, len(s.ActivePlayers))
		for j, seat := range s.ActivePlayers {
			seats[j] = storage.ActivePlayerRecord{
				ID:         seat.ID,
				Bet:        seat.Bet,
				Stack:      copyAmount(seat.Stack),
				IsInactive: seat.Inactive,
				HasActed:   seat.HasActed,
			}
		}
		r.StreetEvents[i] = storage.StreetEventRecord{
			StreetType:           s.Street.String(),
			CurrentActivePlayers: seats,
			Pot:                  s.Pot,
			CycleCount:           s.CycleCount,
			ShouldIncrementCycle: s.ShouldIncrementCycle,
		}
	}

	return r
}

// FromRecord 从 HandRecord 重建 Hand
func FromRecord(r *storage.HandRecord) (*Hand, error) {
	state, err := ParseState(r.State)
	if err != nil {
		return nil, err
	}
	if len(r.StreetEvents) == 0 {
		return nil, fmt.Errorf("hand %s has no street events", r.HandID)
	}

	h := &Hand{
		ID:      r.HandID,
		TableID: r.TableID,
		State:   state,
		Players: make([]Player, len(r.Players)),
		Board: Board{
			Flop:  slices.Clone(r.Board.Flop),
			Turn:  r.Board.Turn,
			River: r.Board.River,
		},
		PlayerEvents: make([]PlayerEvent, len(r.PlayerEvents)),
		StreetEvents: make([]StreetEvent, len(r.StreetEvents)),
		CreatedAt:    time.UnixMilli(r.CreatedAt).UTC(),
	}

	for i, p := range r.Players {
		h.Players[i] = Player{
			ID:          p.ID,
			Stack:       copyAmount(p.Stack),
			HoleCards:   slices.Clone(p.HoleCards),
			HandScore:   p.HandScore,
			Description: p.Description,
		}
	}

	for i, e := range r.PlayerEvents {
		action, err := ParseAction(e.Action)
		if err != nil {
			return nil, err
		}
		street, err := ParseStreet(e.StreetType)
		if err != nil {
			return nil, err
		}
		h.PlayerEvents[i] = PlayerEvent{
			PlayerID:   e.PlayerID,
			Action:     action,
			Amount:     e.Amount,
			Street:     street,
			StackAfter: copyAmount(e.CurrentStack),
			PotAfter:   copyAmount(e.CurrentPot),
		}
	}

	for i, s := range r.StreetEvents {
		street, err := ParseStreet(s.StreetType)
		if err != nil {
			return nil, err
		}
		seats := make([]Seat, len(s.CurrentActivePlayers))
		for j, seat := range s.CurrentActivePlayers {
			seats[j] = Seat{
				ID:       seat.ID,
				Bet:      seat.Bet,
				Stack:    copyAmount(seat.Stack),
				Inactive: seat.IsInactive,
				HasActed: seat.HasActed,
			}
		}
		h.StreetEvents[i] = StreetEvent{
			Street:               street,
			ActivePlayers:        seats,
			Pot:                  s.Pot,
			CycleCount:           s.CycleCount,
			ShouldIncrementCycle: s.ShouldIncrementCycle,
		}
	}

	return h, nil
}
