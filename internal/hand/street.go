package hand

import (
	"fmt"
	"strings"
)

// Street 下注轮
type Street int

// 四条街，按进行顺序
const (
	Preflop Street = iota
	Flop
	Turn
	River
)

func (s Street) String() string {
	switch s {
	case Preflop:
		return "Preflop"
	case Flop:
		return "Flop"
	case Turn:
		return "Turn"
	case River:
		return "River"
	}
	return fmt.Sprintf("Street(%d)", int(s))
}

// Next 返回下一条街，River 之后没有下一条街
func (s Street) Next() (Street, bool) {
	switch s {
	case Preflop:
		return Flop, true
	case Flop:
		return Turn, true
	case Turn:
		return River, true
	case River:
		return River, false
	}
	panic(fmt.Sprintf("unknown street %d", int(s)))
}

// ParseStreet 解析持久化的街名
func ParseStreet(s string) (Street, error) {
	switch s {
	case "Preflop":
		return Preflop, nil
	case "Flop":
		return Flop, nil
	case "Turn":
		return Turn, nil
	case "River":
		return River, nil
	}
	return 0, fmt.Errorf("unknown street %q", s)
}

// Action 玩家动作
type Action int

// 玩家动作
const (
	Bet Action = iota
	Check
	Fold
)

func (a Action) String() string {
	switch a {
	case Bet:
		return "Bet"
	case Check:
		return "Check"
	case Fold:
		return "Fold"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction 解析动作名，大小写不敏感
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(s) {
	case "bet":
		return Bet, nil
	case "check":
		return Check, nil
	case "fold":
		return Fold, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// State 牌局状态
type State int

// Created → Preflop → Flop → Turn → River → Complete，任意街都可能直接 FoldedOut
const (
	StateCreated State = iota
	StatePreflop
	StateFlop
	StateTurn
	StateRiver
	StateComplete
	StateFoldedOut
)

func stateForStreet(s Street) State {
	switch s {
	case Preflop:
		return StatePreflop
	case Flop:
		return StateFlop
	case Turn:
		return StateTurn
	case River:
		return StateRiver
	}
	panic(fmt.Sprintf("unknown street %d", int(s)))
}

// Closed 牌局是否已结束
func (s State) Closed() bool {
	return s == StateComplete || s == StateFoldedOut
}

func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StatePreflop:
		return "Preflop"
	case StateFlop:
		return "Flop"
	case StateTurn:
		return "Turn"
	case StateRiver:
		return "River"
	case StateComplete:
		return "Complete"
	case StateFoldedOut:
		return "FoldedOut"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ParseState 解析持久化的牌局状态
func ParseState(s string) (State, error) {
	for st := StateCreated; st <= StateFoldedOut; st++ {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown hand state %q", s)
}
