// Package view renders tables, hands and deals for the terminal.
package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Lipgloss styles shared by all renderers
var (
	RedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	BlackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	GrayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	TitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	BoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	FoldedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
)

var suitSymbols = map[byte]string{
	'c': "♣",
	'd': "♦",
	'h': "♥",
	's': "♠",
}

// Card 渲染一张牌，"As" 显示为 A♠，红色花色使用红色样式
func Card(code string) string {
	if len(code) != 2 {
		return GrayStyle.Render(code)
	}
	symbol, ok := suitSymbols[code[1]]
	if !ok {
		return GrayStyle.Render(code)
	}

	style := BlackStyle
	if code[1] == 'd' || code[1] == 'h' {
		style = RedStyle
	}
	return style.Padding(0, 1).Render(string(code[0]) + symbol)
}

// Cards 渲染一组牌，空时显示占位符
func Cards(codes []string) string {
	if len(codes) == 0 {
		return GrayStyle.Render("--")
	}
	rendered := make([]string, len(codes))
	for i, c := range codes {
		rendered[i] = Card(c)
	}
	return strings.Join(rendered, " ")
}

// Error 渲染错误信息
func Error(err error) string {
	return ErrorStyle.Render("✗ " + err.Error())
}
