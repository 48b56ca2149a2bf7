package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bodul/wordgrid/internal/cell"
	"github.com/bodul/wordgrid/internal/puzzle"
)

// testPuzzle is a 3x3 grid with one blank:
//
//	CAT
//	A#O
//	RUN
func testPuzzle() *puzzle.Puzzle {
	rows := []string{"CAT", "A#O", "RUN"}
	p := &puzzle.Puzzle{Title: "Test", Language: "en", Rows: 3, Cols: 3}
	for _, row := range rows {
		var cells []puzzle.Cell
		for _, r := range row {
			if r == '#' {
				cells = append(cells, puzzle.Cell{Blank: true})
			} else {
				cells = append(cells, puzzle.Cell{Solution: string(r)})
			}
		}
		p.Cells = append(p.Cells, cells)
	}
	p.AssignNumbers()
	return p
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m *Model, msg tea.Msg) (*Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(*Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func TestTypingFillsAndAdvances(t *testing.T) {
	m := New(testPuzzle(), "")

	if m.active != (cell.Position{}) {
		t.Fatalf("expected start at (0,0), got %+v", m.active)
	}

	m, _ = update(t, m, keyRunes("c"))

	if got := m.session.GetAnswers()[0][0]; got != "C" {
		t.Fatalf("expected uppercased C at (0,0), got %q", got)
	}
	if m.active != (cell.Position{Row: 0, Col: 1}) {
		t.Fatalf("expected cursor to advance to (0,1), got %+v", m.active)
	}
}

func TestNonAlphabetInputIgnored(t *testing.T) {
	m := New(testPuzzle(), "")

	m, _ = update(t, m, keyRunes("5"))

	if got := m.session.GetAnswers()[0][0]; got != "" {
		t.Fatalf("digit should be discarded, got %q", got)
	}
	if m.active != (cell.Position{}) {
		t.Fatalf("cursor should not move, got %+v", m.active)
	}
}

func TestBackspaceClearsAndRetreats(t *testing.T) {
	m := New(testPuzzle(), "")
	m, _ = update(t, m, keyRunes("c")) // now at (0,1)
	m, _ = update(t, m, keyRunes("a")) // now at (0,2)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})

	if got := m.session.GetAnswers()[0][2]; got != "" {
		t.Fatalf("expected (0,2) cleared, got %q", got)
	}
	if m.active != (cell.Position{Row: 0, Col: 1}) {
		t.Fatalf("expected cursor back at (0,1), got %+v", m.active)
	}
}

func TestArrowsMoveAndSkipBlanks(t *testing.T) {
	m := New(testPuzzle(), "")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.active != (cell.Position{Row: 1, Col: 0}) || m.dir != cell.DirectionDown {
		t.Fatalf("expected (1,0) going down, got %+v dir %v", m.active, m.dir)
	}

	// Right from (1,0) skips the blank at (1,1) and lands on (1,2).
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.active != (cell.Position{Row: 1, Col: 2}) || m.dir != cell.DirectionAcross {
		t.Fatalf("expected (1,2) going across, got %+v dir %v", m.active, m.dir)
	}

	// Up at the top edge stays put.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.active != (cell.Position{Row: 0, Col: 2}) {
		t.Fatalf("expected (0,2), got %+v", m.active)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.active != (cell.Position{Row: 0, Col: 2}) {
		t.Fatalf("expected to stay at the edge, got %+v", m.active)
	}
}

func TestTabJumpsToNextWordStart(t *testing.T) {
	m := New(testPuzzle(), "")

	// Numbered cells are (0,0)=1, (0,2)=2, (2,0)=3.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.active != (cell.Position{Row: 0, Col: 2}) {
		t.Fatalf("expected (0,2), got %+v", m.active)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.active != (cell.Position{Row: 2, Col: 0}) {
		t.Fatalf("expected (2,0), got %+v", m.active)
	}
	// Wraps around.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.active != (cell.Position{}) {
		t.Fatalf("expected wrap to (0,0), got %+v", m.active)
	}
}

func TestClickOnActiveCellTogglesDirection(t *testing.T) {
	m := New(testPuzzle(), "")
	if m.dir != cell.DirectionAcross {
		t.Fatalf("expected initial direction across, got %v", m.dir)
	}

	click := tea.MouseMsg{X: 1, Y: gridTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}

	// (0,0) is an intersection: toggling flips to down, then back.
	m, _ = update(t, m, click)
	if m.dir != cell.DirectionDown {
		t.Fatalf("expected direction down after repeat focus, got %v", m.dir)
	}
	m, _ = update(t, m, click)
	if m.dir != cell.DirectionAcross {
		t.Fatalf("expected direction across after second toggle, got %v", m.dir)
	}
}

func TestClickMovesActiveCell(t *testing.T) {
	m := New(testPuzzle(), "")

	// Click (2,2): x within the third cell, y two grid rows down.
	click := tea.MouseMsg{X: 2 * cellWidth, Y: gridTop + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m, _ = update(t, m, click)
	if m.active != (cell.Position{Row: 2, Col: 2}) {
		t.Fatalf("expected (2,2), got %+v", m.active)
	}

	// Clicks outside the grid do nothing.
	m, _ = update(t, m, tea.MouseMsg{X: 500, Y: 500, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.active != (cell.Position{Row: 2, Col: 2}) {
		t.Fatalf("expected active unchanged, got %+v", m.active)
	}
}

func TestCheckMarksAndShakes(t *testing.T) {
	m := New(testPuzzle(), "")
	m, _ = update(t, m, keyRunes("x")) // wrong letter at (0,0)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})

	if ov := m.overlays[0][0]; !ov.Wrong || ov.Correct {
		t.Fatalf("expected wrong mark at (0,0), got %+v", ov)
	}
	if !m.shaking[cell.Position{}] {
		t.Fatal("expected (0,0) to be shaking")
	}
	if cmd == nil {
		t.Fatal("expected a tick command to end the shake")
	}

	// The tick clears the shake but keeps the wrong mark.
	m, _ = update(t, m, shakeDoneMsg{})
	if len(m.shaking) != 0 {
		t.Fatal("expected shake marks cleared")
	}
	if !m.overlays[0][0].Wrong {
		t.Fatal("expected wrong mark to survive the shake")
	}

	// Typing over the cell clears the mark.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = update(t, m, keyRunes("c"))
	if m.overlays[0][0] != (cell.Overlay{}) {
		t.Fatalf("expected overlay cleared by fresh input, got %+v", m.overlays[0][0])
	}
}

func TestSolvingLocksTheGrid(t *testing.T) {
	p := &puzzle.Puzzle{Title: "Mini", Language: "en", Rows: 1, Cols: 2, Cells: [][]puzzle.Cell{
		{{Solution: "H"}, {Solution: "I"}},
	}}
	p.AssignNumbers()
	m := New(p, "")

	m, _ = update(t, m, keyRunes("h"))
	m, _ = update(t, m, keyRunes("i"))

	if !m.solved {
		t.Fatal("expected puzzle to be solved")
	}
	if !strings.Contains(m.View(), "Solved") {
		t.Fatal("expected solved banner in view")
	}

	st := m.controllerAt(cell.Position{}).State()
	if st.Base != cell.BaseDisabled || !st.Overlay.Correct {
		t.Fatalf("expected disabled+correct cells after solve, got %+v", st)
	}

	// Locked cells take no further input.
	m, _ = update(t, m, keyRunes("x"))
	if got := m.session.GetAnswers()[0][0]; got != "H" {
		t.Fatalf("expected answer preserved, got %q", got)
	}
}

func TestResizeSwitchesToCompactView(t *testing.T) {
	m := New(testPuzzle(), "")

	if m.tooSmall {
		t.Fatal("80 columns should fit a 3-cell grid")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 10, Height: 24})
	if !m.tooSmall {
		t.Fatal("10 columns should be too small")
	}
	if !strings.Contains(m.View(), "compact view") {
		t.Fatal("expected compact fallback in view")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	if m.tooSmall {
		t.Fatal("80 columns should fit again without remounting")
	}
}

func TestQuitReleasesViewportSubscription(t *testing.T) {
	m := New(testPuzzle(), "")

	if len(m.feed.subs) != 1 {
		t.Fatalf("expected 1 viewport subscriber, got %d", len(m.feed.subs))
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if len(m.feed.subs) != 0 {
		t.Fatalf("expected viewport subscription released, got %d", len(m.feed.subs))
	}
}

func TestFocusFollowsActive(t *testing.T) {
	m := New(testPuzzle(), "")

	if m.focused != m.active {
		t.Fatalf("initial focus should follow the active cell, got %+v", m.focused)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.focused != (cell.Position{Row: 0, Col: 1}) {
		t.Fatalf("focus should follow arrow navigation, got %+v", m.focused)
	}
}

func TestViewShowsCursorOrientation(t *testing.T) {
	m := New(testPuzzle(), "")

	if !strings.Contains(m.View(), "›") {
		t.Fatal("expected horizontal cursor glyph for across")
	}

	click := tea.MouseMsg{X: 0, Y: gridTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m, _ = update(t, m, click) // toggle to down at (0,0)
	if !strings.Contains(m.View(), "ˇ") {
		t.Fatal("expected vertical cursor glyph for down")
	}
}
