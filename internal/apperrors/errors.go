package apperrors

import "errors"

// 错误码
const (
	CodeUnknown            = 1000
	CodeTableNotFound      = 2001
	CodeTableFull          = 2002
	CodeAlreadySeated      = 2003
	CodeConflict           = 2004 // 并发写冲突，重试耗尽
	CodeHandNotFound       = 3001
	CodeInvalidActor       = 3002
	CodeInvalidAmount      = 3003
	CodeInvalidAction      = 3004
	CodeHandClosed         = 3005
	CodeInvalidPlayers     = 3006
	CodeDealingUnavailable = 5001
	CodePersistence        = 5002
)

// GameError 牌桌与牌局共享的错误类型
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrTableNotFound      = &GameError{Code: CodeTableNotFound, Message: "table not found"}
	ErrTableFull          = &GameError{Code: CodeTableFull, Message: "table is full"}
	ErrAlreadySeated      = &GameError{Code: CodeAlreadySeated, Message: "player is already seated at the table"}
	ErrConflict           = &GameError{Code: CodeConflict, Message: "concurrent update conflict"}
	ErrHandNotFound       = &GameError{Code: CodeHandNotFound, Message: "hand not found"}
	ErrInvalidActor       = &GameError{Code: CodeInvalidActor, Message: "player is not active in the current street"}
	ErrInvalidAmount      = &GameError{Code: CodeInvalidAmount, Message: "invalid bet amount"}
	ErrInvalidAction      = &GameError{Code: CodeInvalidAction, Message: "you cannot check with an active bet"}
	ErrHandClosed         = &GameError{Code: CodeHandClosed, Message: "hand is closed"}
	ErrInvalidPlayers     = &GameError{Code: CodeInvalidPlayers, Message: "invalid player list for a hand"}
	ErrDealingUnavailable = &GameError{Code: CodeDealingUnavailable, Message: "dealing service unavailable"}
	ErrPersistence        = &GameError{Code: CodePersistence, Message: "could not persist state"}
)

// Code 返回错误链中第一个 GameError 的错误码
func Code(err error) int {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return CodeUnknown
}
