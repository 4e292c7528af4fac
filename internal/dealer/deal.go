package dealer

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidPlayerCount 请求的座位数无法发牌
var ErrInvalidPlayerCount = errors.New("dealer: invalid player count")

// DealtHand 单个座位的发牌结果
type DealtHand struct {
	Cards       []string
	Score       float64
	Description string
}

// Board 公共牌
type Board struct {
	Flop  []string
	Turn  string
	River string
}

// Deal 一次完整的发牌结果，Hands 与请求的座位按下标一一对应
type Deal struct {
	Hands []DealtHand
	Board Board
}

// Validate 检查发牌结果是否完整且与请求的座位数一致：每张牌编码合法，整副牌中不重复
func (d *Deal) Validate(playerCount int) error {
	if len(d.Hands) != playerCount {
		return fmt.Errorf("dealer returned %d hands for %d players", len(d.Hands), playerCount)
	}
	for i, h := range d.Hands {
		if len(h.Cards) == 0 {
			return fmt.Errorf("dealer returned no cards for seat %d", i)
		}
	}
	if len(d.Board.Flop) != 3 {
		return fmt.Errorf("dealer returned a flop of %d cards", len(d.Board.Flop))
	}
	if d.Board.Turn == "" || d.Board.River == "" {
		return errors.New("dealer returned an incomplete board")
	}

	seen := make(map[card]bool)
	check := func(code string) error {
		c, err := parseCard(code)
		if err != nil {
			return err
		}
		if seen[c] {
			return fmt.Errorf("dealer returned %s twice", code)
		}
		seen[c] = true
		return nil
	}
	for _, h := range d.Hands {
		for _, code := range h.Cards {
			if err := check(code); err != nil {
				return err
			}
		}
	}
	for _, code := range append(slices.Clone(d.Board.Flop), d.Board.Turn, d.Board.River) {
		if err := check(code); err != nil {
			return err
		}
	}
	return nil
}
