package storage

// TableRecord 牌桌数据（用于 Redis 序列化）
type TableRecord struct {
	ID        string   `json:"id"`
	PlayerIDs []string `json:"player_ids"`
	CreatedAt int64    `json:"created_at,omitempty"`
}

// TableQuery 牌桌查询条件
type TableQuery struct {
	SeatsBelow int // 仅返回入座人数严格小于该值的牌桌
}

// HandRecord 牌局数据
type HandRecord struct {
	HandID       string              `json:"hand_id"`
	TableID      string              `json:"table_id"`
	State        string              `json:"state"`
	Players      []PlayerRecord      `json:"players"`
	Board        BoardRecord         `json:"board"`
	PlayerEvents []PlayerEventRecord `json:"player_events"`
	StreetEvents []StreetEventRecord `json:"street_events"`
	CreatedAt    int64               `json:"created_at"` // unix 毫秒
}

// PlayerRecord 牌局中的玩家
type PlayerRecord struct {
	ID          string   `json:"id"`
	Stack       *float64 `json:"stack,omitempty"`
	HoleCards   []string `json:"hole_cards"`
	HandScore   float64  `json:"hand_score"`
	Description string   `json:"description"`
}

// BoardRecord 公共牌
type BoardRecord struct {
	Flop  []string `json:"flop"`
	Turn  string   `json:"turn"`
	River string   `json:"river"`
}

// PlayerEventRecord 玩家动作
type PlayerEventRecord struct {
	PlayerID     string   `json:"player_id"`
	Action       string   `json:"action"`
	Amount       float64  `json:"amount"`
	StreetType   string   `json:"street_type"`
	CurrentStack *float64 `json:"current_stack,omitempty"`
	CurrentPot   *float64 `json:"current_pot,omitempty"`
}

// StreetEventRecord 每条街的快照
type StreetEventRecord struct {
	StreetType           string               `json:"street_type"`
	CurrentActivePlayers []ActivePlayerRecord `json:"current_active_players"`
	Pot                  float64              `json:"pot"`
	CycleCount           int                  `json:"cycle_count"`
	ShouldIncrementCycle bool                 `json:"should_increment_cycle"`
}

// ActivePlayerRecord 街快照中的玩家
type ActivePlayerRecord struct {
	ID         string   `json:"id"`
	Bet        float64  `json:"bet"`
	Stack      *float64 `json:"stack"`
	IsInactive bool     `json:"is_inactive,omitempty"`
	HasActed   bool     `json:"has_acted,omitempty"`
}
