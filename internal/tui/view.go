package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bodul/wordgrid/internal/cell"
)

var (
	styleHeader      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	styleBlank       = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("236"))
	styleNormal      = lipgloss.NewStyle().Background(lipgloss.Color("255")).Foreground(lipgloss.Color("16"))
	styleActive      = lipgloss.NewStyle().Background(lipgloss.Color("220")).Foreground(lipgloss.Color("16")).Bold(true)
	styleHighlighted = lipgloss.NewStyle().Background(lipgloss.Color("229")).Foreground(lipgloss.Color("16"))
	styleCorrect     = lipgloss.NewStyle().Background(lipgloss.Color("28")).Foreground(lipgloss.Color("231"))
	styleWrong       = lipgloss.NewStyle().Background(lipgloss.Color("124")).Foreground(lipgloss.Color("231"))
	styleShake       = lipgloss.NewStyle().Background(lipgloss.Color("124")).Foreground(lipgloss.Color("231")).Blink(true)
	styleDisabled    = lipgloss.NewStyle().Background(lipgloss.Color("250")).Foreground(lipgloss.Color("240"))
	styleNumber      = lipgloss.NewStyle().Faint(true)
	styleHelp        = lipgloss.NewStyle().Faint(true)
	styleSolved      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styleHeader.Render(m.puzzle.Title))
	b.WriteString("\n\n")

	if m.tooSmall {
		b.WriteString(m.compactView())
	} else {
		b.WriteString(m.gridView())
	}

	b.WriteString("\n")
	if m.solved {
		b.WriteString(styleSolved.Render("Solved! Great work."))
	} else {
		b.WriteString(styleHelp.Render("type letters · arrows move · tab next word · ctrl+k check · esc quit"))
	}
	b.WriteString("\n")
	return b.String()
}

// gridView renders the full grid, one terminal line per row, cellWidth
// columns per cell.
func (m *Model) gridView() string {
	var b strings.Builder
	for r, row := range m.controllers {
		for _, ctl := range row {
			b.WriteString(m.renderCell(ctl))
		}
		if r < len(m.controllers)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) renderCell(ctl *cell.Controller) string {
	rs := ctl.State().Render()

	if !rs.Interactive {
		return styleBlank.Render(strings.Repeat(" ", cellWidth))
	}

	content := " "
	switch {
	case rs.ShowCursor && rs.CursorVertical:
		content = "ˇ"
	case rs.ShowCursor:
		content = "›"
	case rs.Value != "":
		content = rs.Value
	}

	var text string
	if content == " " && rs.Number > 0 {
		text = styleNumber.Render(fmt.Sprintf("%-*d", cellWidth, rs.Number))
	} else {
		text = fmt.Sprintf(" %s%s", content, strings.Repeat(" ", cellWidth-2))
	}

	return m.styleFor(rs, ctl.Position()).Render(text)
}

// styleFor picks the dominant style; the label bits are not exclusive,
// so precedence matters: shake > wrong > correct > active > highlighted
// > disabled > normal.
func (m *Model) styleFor(rs cell.RenderState, pos cell.Position) lipgloss.Style {
	switch {
	case rs.Labels.Wrong && m.shaking[pos]:
		return styleShake
	case rs.Labels.Wrong:
		return styleWrong
	case rs.Labels.Correct:
		return styleCorrect
	case rs.Labels.Active:
		return styleActive
	case rs.Labels.Highlighted:
		return styleHighlighted
	case rs.Labels.Disabled:
		return styleDisabled
	default:
		return styleNormal
	}
}

// compactView is the fallback when the advisor reports the grid would
// not fit at a usable cell size: one character per cell, no padding.
func (m *Model) compactView() string {
	answers := m.session.GetAnswers()
	var b strings.Builder
	b.WriteString(styleHelp.Render("terminal too narrow for the full grid — compact view"))
	b.WriteString("\n\n")
	for r := range m.puzzle.Cells {
		for c := range m.puzzle.Cells[r] {
			switch {
			case m.puzzle.Cells[r][c].Blank:
				b.WriteString("#")
			case answers[r][c] != "":
				b.WriteString(answers[r][c])
			default:
				b.WriteString("·")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
