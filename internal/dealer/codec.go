package dealer

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// 发牌协议字段名
const (
	fieldPlayerCount = "player_count"
	fieldHands       = "hands"
	fieldCards       = "cards"
	fieldScore       = "score"
	fieldDescription = "description"
	fieldBoard       = "board"
	fieldFlop        = "flop"
	fieldTurn        = "turn"
	fieldRiver       = "river"
)

// EncodeRequest 编码发牌请求 { player_count }
func EncodeRequest(playerCount int) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		fieldPlayerCount: int32(playerCount),
	})
}

// DecodeRequest 解码发牌请求
func DecodeRequest(s *structpb.Struct) (int, error) {
	v, ok := s.GetFields()[fieldPlayerCount]
	if !ok {
		return 0, fmt.Errorf("missing %s", fieldPlayerCount)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", fieldPlayerCount)
	}
	count := int(n.NumberValue)
	if float64(count) != n.NumberValue {
		return 0, fmt.Errorf("%s must be an integer", fieldPlayerCount)
	}
	return count, nil
}

// EncodeDeal 编码发牌结果
func EncodeDeal(d *Deal) (*structpb.Struct, error) {
	hands := make([]any, len(d.Hands))
	for i, h := range d.Hands {
		hands[i] = map[string]any{
			fieldCards:       stringsToList(h.Cards),
			fieldScore:       h.Score,
			fieldDescription: h.Description,
		}
	}

	return structpb.NewStruct(map[string]any{
		fieldHands: hands,
		fieldBoard: map[string]any{
			fieldFlop:  stringsToList(d.Board.Flop),
			fieldTurn:  d.Board.Turn,
			fieldRiver: d.Board.River,
		},
	})
}

// DecodeDeal 解码发牌结果
func DecodeDeal(s *structpb.Struct) (*Deal, error) {
	fields := s.GetFields()

	handList := fields[fieldHands].GetListValue()
	if handList == nil {
		return nil, fmt.Errorf("missing %s", fieldHands)
	}

	deal := &Deal{Hands: make([]DealtHand, 0, len(handList.GetValues()))}
	for i, v := range handList.GetValues() {
		hs := v.GetStructValue()
		if hs == nil {
			return nil, fmt.Errorf("hand %d is not an object", i)
		}
		hf := hs.GetFields()
		cards, err := listToStrings(hf[fieldCards])
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i, err)
		}
		deal.Hands = append(deal.Hands, DealtHand{
			Cards:       cards,
			Score:       hf[fieldScore].GetNumberValue(),
			Description: hf[fieldDescription].GetStringValue(),
		})
	}

	board := fields[fieldBoard].GetStructValue()
	if board == nil {
		return nil, fmt.Errorf("missing %s", fieldBoard)
	}
	bf := board.GetFields()
	flop, err := listToStrings(bf[fieldFlop])
	if err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	deal.Board = Board{
		Flop:  flop,
		Turn:  bf[fieldTurn].GetStringValue(),
		River: bf[fieldRiver].GetStringValue(),
	}

	return deal, nil
}

func stringsToList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func listToStrings(v *structpb.Value) ([]string, error) {
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("expected a list of cards")
	}
	out := make([]string, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		s, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("card codes must be strings")
		}
		out = append(out, s.StringValue)
	}
	return out, nil
}
