//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/holdem-table/internal/dealer"
)

// MockDealer 发牌服务 mock
type MockDealer struct {
	mock.Mock
}

func (m *MockDealer) Deal(ctx context.Context, playerCount int) (*dealer.Deal, error) {
	args := m.Called(ctx, playerCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dealer.Deal), args.Error(1)
}

// FixedDeal 返回一份固定的发牌结果，座位 i 的底牌按下标区分
func FixedDeal(playerCount int) *dealer.Deal {
	hands := make([]dealer.DealtHand, playerCount)
	for i := range hands {
		hands[i] = dealer.DealtHand{
			Cards:       []string{seatCards[2*i], seatCards[2*i+1]},
			Score:       float64(1000 + i),
			Description: "High card",
		}
	}
	return &dealer.Deal{
		Hands: hands,
		Board: dealer.Board{
			Flop:  []string{"2c", "7d", "9h"},
			Turn:  "Jc",
			River: "3c",
		},
	}
}

var seatCards = []string{
	"As", "Ks", "Qs", "Js", "Ts", "9s", "8s", "7s", "6s", "5s",
	"Ad", "Kd", "Qd", "Jd", "Td", "9d", "8d", "6d", "5d", "4d",
}
