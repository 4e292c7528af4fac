package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/holdem-table/internal/dealer"
	"github.com/palemoky/holdem-table/internal/hand"
	"github.com/palemoky/holdem-table/internal/table"
)

// Table renders one table with its roster.
func Table(t *table.Table, maxSeats int) string {
	var sb strings.Builder
	sb.WriteString(TitleStyle(fmt.Sprintf("🃏 牌桌 %s", t.ID)))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "座位: %d/%d\n", len(t.SeatedPlayerIDs), maxSeats)
	for i, id := range t.SeatedPlayerIDs {
		fmt.Fprintf(&sb, "  %2d. %s\n", i+1, id)
	}
	if len(t.SeatedPlayerIDs) == 0 {
		sb.WriteString(GrayStyle.Render("  (空)"))
		sb.WriteString("\n")
	}
	return BoxStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

// Tables renders a list of tables, one line each.
func Tables(tables []*table.Table, maxSeats int) string {
	if len(tables) == 0 {
		return GrayStyle.Render("没有可加入的牌桌")
	}

	var sb strings.Builder
	sb.WriteString(TitleStyle("可加入的牌桌"))
	sb.WriteString("\n")
	for _, t := range tables {
		fmt.Fprintf(&sb, "%s  %d/%d  %s\n", t.ID, len(t.SeatedPlayerIDs), maxSeats, t.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Deal renders a raw deal returned by the dealing service.
func Deal(d *dealer.Deal) string {
	var sb strings.Builder
	sb.WriteString(TitleStyle("发牌结果"))
	sb.WriteString("\n")
	for i, h := range d.Hands {
		fmt.Fprintf(&sb, "座位 %d: %s  %s (%.0f)\n", i, Cards(h.Cards), h.Description, h.Score)
	}
	sb.WriteString("\n")
	sb.WriteString(board(d.Board.Flop, d.Board.Turn, d.Board.River))
	return BoxStyle.Render(sb.String())
}

// Hand renders the full state of a hand: seats, board and event log.
func Hand(h *hand.Hand) string {
	cur := h.Current()

	header := TitleStyle(fmt.Sprintf("手牌 %s  [%s]", h.ID, h.State))
	if h.TableID != "" {
		header += GrayStyle.Render("  牌桌 " + h.TableID)
	}

	seats := lipgloss.JoinVertical(lipgloss.Left, seatLines(h, cur)...)
	info := fmt.Sprintf("%s  底池 %s  轮次 %d", cur.Street, amount(cur.Pot), cur.CycleCount)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, info, "", seats)),
		board(h.Board.Flop, h.Board.Turn, h.Board.River),
		"",
		events(h.PlayerEvents),
	)
}

func seatLines(h *hand.Hand, cur *hand.StreetEvent) []string {
	lines := make([]string, 0, len(h.Players))
	for _, p := range h.Players {
		line := fmt.Sprintf("%-12s %s  %s", p.ID, Cards(p.HoleCards), GrayStyle.Render(p.Description))

		seat := findSeat(cur, p.ID)
		switch {
		case seat == nil || seat.Inactive:
			lines = append(lines, FoldedStyle.Render(p.ID)+"  弃牌")
			continue
		case seat.Stack != nil:
			line += fmt.Sprintf("  下注 %s  筹码 %s", amount(seat.Bet), amount(*seat.Stack))
		default:
			line += fmt.Sprintf("  下注 %s", amount(seat.Bet))
		}
		lines = append(lines, line)
	}
	return lines
}

func findSeat(cur *hand.StreetEvent, id string) *hand.Seat {
	for i := range cur.ActivePlayers {
		if cur.ActivePlayers[i].ID == id {
			return &cur.ActivePlayers[i]
		}
	}
	return nil
}

func board(flop []string, turn, river string) string {
	return fmt.Sprintf("公共牌: %s | %s | %s", Cards(flop), Card(turn), Card(river))
}

func events(evs []hand.PlayerEvent) string {
	var sb strings.Builder
	for i, e := range evs {
		fmt.Fprintf(&sb, "%3d. %-8s %-12s %s", i+1, e.Street, e.PlayerID, e.Action)
		if e.Action == hand.Bet {
			fmt.Fprintf(&sb, " %s", amount(e.Amount))
		}
		if e.PotAfter != nil {
			sb.WriteString(GrayStyle.Render(fmt.Sprintf("  (底池 %s)", amount(*e.PotAfter))))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func amount(v float64) string {
	return fmt.Sprintf("%g", v)
}
