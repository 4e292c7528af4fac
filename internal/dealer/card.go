package dealer

import (
	"fmt"

	"github.com/paulhankin/poker"
)

// 牌面编码：点数字符 + 花色字符，例如 "As"、"Td"、"2c"
const (
	rankChars = "A23456789TJQK" // 下标 0 对应 Ace(1)
	suitChars = "cdhs"          // club, diamond, heart, spade
)

// card 一张牌
type card struct {
	suit uint8 // 0-3
	rank uint8 // 1-13，Ace 为 1
}

func (c card) String() string {
	return string(rankChars[c.rank-1]) + string(suitChars[c.suit])
}

// parseCard 解析牌面编码
func parseCard(code string) (card, error) {
	if len(code) != 2 {
		return card{}, fmt.Errorf("invalid card code %q", code)
	}
	rank := -1
	for i := range len(rankChars) {
		if rankChars[i] == code[0] {
			rank = i + 1
		}
	}
	suit := -1
	for i := range len(suitChars) {
		if suitChars[i] == code[1] {
			suit = i
		}
	}
	if rank < 0 || suit < 0 {
		return card{}, fmt.Errorf("invalid card code %q", code)
	}
	return card{suit: uint8(suit), rank: uint8(rank)}, nil
}

func (c card) toPoker() (poker.Card, error) {
	return poker.MakeCard(poker.Suit(c.suit), poker.Rank(c.rank))
}

// newDeck 返回一副按顺序排列的 52 张牌
func newDeck() []card {
	deck := make([]card, 0, 52)
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(1); rank <= 13; rank++ {
			deck = append(deck, card{suit: suit, rank: rank})
		}
	}
	return deck
}

// evaluate 对两张底牌加五张公共牌评分，分数越高牌力越强
func evaluate(hole [2]card, board [5]card) (float64, string, error) {
	var seven [7]poker.Card
	for i, c := range board {
		pc, err := c.toPoker()
		if err != nil {
			return 0, "", fmt.Errorf("invalid board card at idx %d: %w", i, err)
		}
		seven[i] = pc
	}
	for i, c := range hole {
		pc, err := c.toPoker()
		if err != nil {
			return 0, "", fmt.Errorf("invalid hole card: %w", err)
		}
		seven[5+i] = pc
	}

	score := poker.Eval7(&seven)
	desc, err := poker.Describe(seven[:])
	if err != nil {
		return 0, "", err
	}
	return float64(score), desc, nil
}
