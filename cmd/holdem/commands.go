package main

import (
	"fmt"

	"github.com/palemoky/holdem-table/internal/hand"
	"github.com/palemoky/holdem-table/internal/view"
)

// DealCmd 只请求发牌，不创建牌局
type DealCmd struct {
	PlayerCount int `name:"player-count" short:"n" required:"" help:"玩家人数"`
}

func (c *DealCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := g.open(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	d, err := a.dealer.Deal(ctx, c.PlayerCount)
	if err != nil {
		return err
	}
	a.print(view.Deal(d))
	return nil
}

// TableCmd 牌桌子命令
type TableCmd struct {
	Create TableCreateCmd `cmd:"" help:"创建空牌桌"`
	List   TableListCmd   `cmd:"" help:"列出未满的牌桌"`
	Show   TableShowCmd   `cmd:"" help:"查看牌桌名单"`
	Join   TableJoinCmd   `cmd:"" help:"玩家入座"`
}

type TableCreateCmd struct{}

func (c *TableCreateCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := g.open(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.tables.CreateTable(ctx)
	if err != nil {
		return err
	}
	a.print(view.Table(t, a.tables.MaxSeats()))
	return nil
}

type TableListCmd struct{}

func (c *TableListCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := g.open(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	tables, err := a.tables.ListJoinableTables(ctx)
	if err != nil {
		return err
	}
	a.print(view.Tables(tables, a.tables.MaxSeats()))
	return nil
}

type TableShowCmd struct {
	TableID string `arg:"" help:"牌桌 ID"`
}

func (c *TableShowCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := g.open(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.tables.GetTable(ctx, c.TableID)
	if err != nil {
		return err
	}
	a.print(view.Table(t, a.tables.MaxSeats()))
	return nil
}

type TableJoinCmd struct {
	TableID  string `arg:"" help:"牌桌 ID"`
	PlayerID string `arg:"" help:"玩家 ID"`
}

func (c *TableJoinCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := g.open(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.tables.JoinTable(ctx, c.TableID, c.PlayerID); err != nil {
		return err
	}
	t, err := a.tables.GetTable(ctx, c.TableID)
	if err != nil {
		return err
	}
	a.print(view.Table(t, a.tables.MaxSeats()))
	return nil
}

// HandCmd 牌局子命令
type HandCmd struct {
	Create HandCreateCmd `cmd:"" help:"以牌桌名单或指定玩家开局"`
	Act    HandActCmd    `cmd:"" help:"记录一次玩家动作"`
	Show   HandShowCmd   `cmd:"" help:"查看牌局"`
	List   HandListCmd   `cmd:"" help:"列出牌桌上的牌局"`
}

type HandCreateCmd struct {
	Table   string   `xor:"source" required:"" help:"使用该牌桌的当前名单"`
	Players []string `xor:"source" required:"" help:"直接指定玩家 ID，逗号分隔"`
	BuyIn   *float64 `help:"买入筹码，默认取配置"`
}

func (c *HandCreateCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := g.open(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	buyIn := a.cfg.Hand.BuyIn
	if c.BuyIn != nil {
		buyIn = *c.BuyIn
	}

	var h *hand.Hand
	if c.Table != "" {
		h, err = a.hands.CreateForTable(ctx, c.Table, buyIn)
	} else {
		players := make([]hand.Player, len(c.Players))
		for i, id := range c.Players {
			stack := buyIn
			players[i] = hand.Player{ID: id, Stack: &stack}
		}
		h, err = a.hands.Create(ctx, hand.DealInput{Players: players})
	}
	if err != nil {
		return err
	}
	a.print(view.Hand(h))
	return nil
}

type HandActCmd struct {
	HandID   string  `arg:"" help:"牌局 ID"`
	PlayerID string  `arg:"" help:"玩家 ID"`
	Action   string  `arg:"" enum:"bet,check,fold" help:"动作: bet、check 或 fold"`
	Amount   float64 `arg:"" optional:"" help:"下注金额，仅 bet 使用"`
}

func (c *HandActCmd) Run(g *Globals) error {
	action, err := hand.ParseAction(c.Action)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, err := g.open(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	h, err := a.hands.RecordAction(ctx, c.HandID, c.PlayerID, action, c.Amount)
	if err != nil {
		return err
	}
	a.print(view.Hand(h))
	return nil
}

type HandShowCmd struct {
	HandID string `arg:"" help:"牌局 ID"`
}

func (c *HandShowCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := g.open(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	h, err := a.hands.Get(ctx, c.HandID)
	if err != nil {
		return err
	}
	a.print(view.Hand(h))
	return nil
}

type HandListCmd struct {
	TableID string `arg:"" help:"牌桌 ID"`
}

func (c *HandListCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := g.open(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	hands, err := a.hands.ListByTable(ctx, c.TableID)
	if err != nil {
		return err
	}
	if len(hands) == 0 {
		a.print(view.GrayStyle.Render(fmt.Sprintf("牌桌 %s 还没有牌局", c.TableID)))
		return nil
	}
	for _, h := range hands {
		a.print(view.Hand(h))
	}
	return nil
}
