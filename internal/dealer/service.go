package dealer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
)

// MaxPlayers 一副牌在发完五张公共牌后最多能发的座位数
const MaxPlayers = (52 - 5) / 2

// Service 发牌服务：洗牌、发底牌和公共牌，并给每个座位评分
type Service struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewService 创建发牌服务，seed 相同则发牌结果相同
func NewService(seed uint64) *Service {
	return &Service{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Deal 发一手牌
func (s *Service) Deal(ctx context.Context, playerCount int) (*Deal, error) {
	if playerCount < 1 || playerCount > MaxPlayers {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPlayerCount, playerCount)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deck := newDeck()
	s.mu.Lock()
	s.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	s.mu.Unlock()

	holes := make([][2]card, playerCount)
	next := 0
	// 按真实发牌顺序每轮每人一张
	for round := 0; round < 2; round++ {
		for seat := range holes {
			holes[seat][round] = deck[next]
			next++
		}
	}
	var board [5]card
	copy(board[:], deck[next:next+5])

	deal := &Deal{
		Hands: make([]DealtHand, playerCount),
		Board: Board{
			Flop:  []string{board[0].String(), board[1].String(), board[2].String()},
			Turn:  board[3].String(),
			River: board[4].String(),
		},
	}
	for seat, hole := range holes {
		score, desc, err := evaluate(hole, board)
		if err != nil {
			return nil, err
		}
		deal.Hands[seat] = DealtHand{
			Cards:       []string{hole[0].String(), hole[1].String()},
			Score:       score,
			Description: desc,
		}
	}

	return deal, nil
}
