// Package tui is the interactive terminal player: a grid coordinator
// that owns the answer state and drives one cell controller per grid
// position.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bodul/wordgrid/internal/cell"
	"github.com/bodul/wordgrid/internal/puzzle"
	"github.com/bodul/wordgrid/internal/sizing"
)

// gridTop is the terminal row of the first grid line (below the header).
const gridTop = 2

// cellWidth is the rendered width of one grid cell in columns.
const cellWidth = 4

const shakeDuration = 400 * time.Millisecond

// shakeDoneMsg clears the shake marks after the animation window.
type shakeDoneMsg struct{}

// Model is the grid coordinator. It owns the puzzle, the shared answer
// state and the per-cell controllers; the controllers report semantic
// events back through their handlers.
type Model struct {
	puzzle   *puzzle.Puzzle
	session  *puzzle.Session
	alphabet cell.Alphabet
	keys     keyMap

	controllers [][]*cell.Controller
	overlays    [][]cell.Overlay
	active      cell.Position
	dir         cell.Direction
	// focused tracks where the controllers requested input focus; on a
	// terminal it also anchors the visible cursor.
	focused cell.Position
	shaking map[cell.Position]bool
	solved  bool

	width    int
	height   int
	feed     *viewportFeed
	advisor  *sizing.Advisor
	tooSmall bool
}

// New builds a coordinator for a puzzle. extraLetters are the language's
// diacritics beyond A-Z.
func New(p *puzzle.Puzzle, extraLetters string) *Model {
	answers := make([][]string, p.Rows)
	for i := range answers {
		answers[i] = make([]string, p.Cols)
	}

	m := &Model{
		puzzle: p,
		session: &puzzle.Session{
			PuzzleID: p.ID,
			Players:  make(map[string]*puzzle.Player),
			Answers:  answers,
		},
		alphabet: cell.NewAlphabet([]rune(extraLetters)...),
		keys:     defaultKeyMap(),
		dir:      cell.DirectionAcross,
		shaking:  make(map[cell.Position]bool),
		width:    80,
		height:   24,
	}

	m.overlays = make([][]cell.Overlay, p.Rows)
	m.controllers = make([][]*cell.Controller, p.Rows)
	for r := range m.controllers {
		m.overlays[r] = make([]cell.Overlay, p.Cols)
		m.controllers[r] = make([]*cell.Controller, p.Cols)
		for c := range m.controllers[r] {
			m.controllers[r][c] = cell.New(cell.Position{Row: r, Col: c}, m.alphabet, cell.Handlers{
				OnInput:    m.onInput,
				OnFocus:    m.onFocus,
				OnNavigate: m.onNavigate,
			})
		}
	}

	m.active = m.firstLetterCell()
	m.feed = newViewportFeed(m.width)
	m.advisor = sizing.Watch(m.feed, sizing.Query{GridLength: p.Cols, MobileLayout: true}, nil)
	m.tooSmall = m.advisor.TooSmall()

	m.sync()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.feed.Resize(msg.Width)
		m.tooSmall = m.advisor.TooSmall()
		return m, nil

	case shakeDoneMsg:
		m.shaking = make(map[cell.Position]bool)
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if pos, ok := m.cellAt(msg.X, msg.Y); ok {
				m.controllerAt(pos).HandleFocus()
				return m, m.sync()
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.advisor.Stop()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Check):
			m.checkAnswers()
			return m, m.sync()
		}

		ctl := m.controllerAt(m.active)
		if k, ok := m.navKey(msg); ok {
			ctl.HandleKey(k)
			return m, m.sync()
		}
		if msg.Type == tea.KeyRunes && !msg.Alt {
			ctl.HandleText(string(msg.Runes))
			return m, m.sync()
		}
	}
	return m, nil
}

// navKey maps a terminal key press to the cell navigation key set.
func (m *Model) navKey(msg tea.KeyMsg) (cell.Key, bool) {
	switch {
	case key.Matches(msg, m.keys.Up):
		return cell.KeyArrowUp, true
	case key.Matches(msg, m.keys.Down):
		return cell.KeyArrowDown, true
	case key.Matches(msg, m.keys.Left):
		return cell.KeyArrowLeft, true
	case key.Matches(msg, m.keys.Right):
		return cell.KeyArrowRight, true
	case key.Matches(msg, m.keys.Tab):
		return cell.KeyTab, true
	case key.Matches(msg, m.keys.Enter):
		return cell.KeyEnter, true
	case key.Matches(msg, m.keys.Backspace):
		return cell.KeyBackspace, true
	}
	return "", false
}

// --- Cell controller callbacks ---

func (m *Model) onInput(pos cell.Position, value string) {
	m.session.SetAnswer(pos.Row, pos.Col, value)
	// A fresh guess invalidates an earlier check mark.
	m.overlays[pos.Row][pos.Col] = cell.Overlay{}

	if value != "" {
		if m.session.Solved(m.puzzle) {
			m.solved = true
			return
		}
		m.advance(1)
	}
}

func (m *Model) onFocus(pos cell.Position) {
	if pos == m.active {
		// Re-focusing the focused cell toggles direction at intersections.
		m.toggleDirection()
		return
	}
	m.active = pos
	if !m.hasRun(pos, m.dir) {
		m.toggleDirection()
	}
}

func (m *Model) onNavigate(pos cell.Position, k cell.Key) {
	switch k {
	case cell.KeyArrowUp:
		m.dir = cell.DirectionDown
		m.step(pos, -1, 0)
	case cell.KeyArrowDown:
		m.dir = cell.DirectionDown
		m.step(pos, 1, 0)
	case cell.KeyArrowLeft:
		m.dir = cell.DirectionAcross
		m.step(pos, 0, -1)
	case cell.KeyArrowRight:
		m.dir = cell.DirectionAcross
		m.step(pos, 0, 1)
	case cell.KeyBackspace:
		m.advance(-1)
	case cell.KeyTab, cell.KeyEnter:
		m.nextWordStart()
	}
}

// --- Movement ---

func (m *Model) firstLetterCell() cell.Position {
	for r := range m.puzzle.Cells {
		for c := range m.puzzle.Cells[r] {
			if !m.puzzle.Cells[r][c].Blank {
				return cell.Position{Row: r, Col: c}
			}
		}
	}
	return cell.Position{}
}

// step moves the active cell in a direction, skipping blanks. The active
// cell stays put when no letter cell lies that way.
func (m *Model) step(from cell.Position, dr, dc int) {
	r, c := from.Row+dr, from.Col+dc
	for r >= 0 && r < m.puzzle.Rows && c >= 0 && c < m.puzzle.Cols {
		if m.puzzle.LetterAt(r, c) {
			m.active = cell.Position{Row: r, Col: c}
			return
		}
		r += dr
		c += dc
	}
}

// advance moves along the current direction: +1 after typing, -1 on
// backspace.
func (m *Model) advance(sign int) {
	if m.dir == cell.DirectionDown {
		m.step(m.active, sign, 0)
		return
	}
	m.step(m.active, 0, sign)
}

// nextWordStart jumps to the next numbered cell row-major, wrapping.
func (m *Model) nextWordStart() {
	total := m.puzzle.Rows * m.puzzle.Cols
	idx := m.active.Row*m.puzzle.Cols + m.active.Col
	for i := 1; i <= total; i++ {
		j := (idx + i) % total
		r, c := j/m.puzzle.Cols, j%m.puzzle.Cols
		if m.puzzle.Cells[r][c].Number > 0 {
			m.active = cell.Position{Row: r, Col: c}
			return
		}
	}
}

// hasRun reports whether the cell belongs to a run of at least two
// letters in a direction.
func (m *Model) hasRun(pos cell.Position, dir cell.Direction) bool {
	if dir == cell.DirectionDown {
		return m.puzzle.LetterAt(pos.Row-1, pos.Col) || m.puzzle.LetterAt(pos.Row+1, pos.Col)
	}
	return m.puzzle.LetterAt(pos.Row, pos.Col-1) || m.puzzle.LetterAt(pos.Row, pos.Col+1)
}

func (m *Model) toggleDirection() {
	next := cell.DirectionAcross
	if m.dir == cell.DirectionAcross {
		next = cell.DirectionDown
	}
	if m.hasRun(m.active, next) {
		m.dir = next
	}
}

// inActiveRun reports whether (r, c) belongs to the word the active cell
// sits in, along the current direction.
func (m *Model) inActiveRun(r, c int) bool {
	if m.dir == cell.DirectionDown {
		if c != m.active.Col || !m.puzzle.LetterAt(r, c) {
			return false
		}
		lo, hi := m.active.Row, m.active.Row
		for m.puzzle.LetterAt(lo-1, c) {
			lo--
		}
		for m.puzzle.LetterAt(hi+1, c) {
			hi++
		}
		return r >= lo && r <= hi
	}
	if r != m.active.Row || !m.puzzle.LetterAt(r, c) {
		return false
	}
	lo, hi := m.active.Col, m.active.Col
	for m.puzzle.LetterAt(r, lo-1) {
		lo--
	}
	for m.puzzle.LetterAt(r, hi+1) {
		hi++
	}
	return c >= lo && c <= hi
}

// --- State sync ---

// checkAnswers marks every answered cell correct or wrong.
func (m *Model) checkAnswers() {
	answers := m.session.GetAnswers()
	for r := range m.puzzle.Cells {
		for c := range m.puzzle.Cells[r] {
			if m.puzzle.Cells[r][c].Blank || answers[r][c] == "" {
				continue
			}
			correct, ok := m.session.CheckCell(m.puzzle, r, c)
			if !ok {
				continue
			}
			m.overlays[r][c] = cell.Overlay{Correct: correct, Wrong: !correct}
		}
	}
	if m.session.Solved(m.puzzle) {
		m.solved = true
	}
}

// sync pushes fresh state into every controller and executes the
// commands they emit. It returns a tick command when a shake animation
// started.
func (m *Model) sync() tea.Cmd {
	answers := m.session.GetAnswers()
	shake := false

	for r := range m.controllers {
		for c, ctl := range m.controllers[r] {
			for _, cmd := range ctl.SetState(m.stateFor(r, c, answers)) {
				switch cmd {
				case cell.CommandFocus:
					m.focused = ctl.Position()
				case cell.CommandShake:
					m.shaking[ctl.Position()] = true
					shake = true
				}
			}
		}
	}

	if shake {
		return tea.Tick(shakeDuration, func(time.Time) tea.Msg { return shakeDoneMsg{} })
	}
	return nil
}

func (m *Model) stateFor(r, c int, answers [][]string) cell.State {
	if m.puzzle.Cells[r][c].Blank {
		return cell.State{Base: cell.BaseBlank}
	}

	base := cell.BaseNormal
	switch {
	case m.solved:
		// A solved grid locks every cell.
		base = cell.BaseDisabled
	case m.active == (cell.Position{Row: r, Col: c}):
		base = cell.BaseActive
	}

	ov := m.overlays[r][c]
	if m.solved {
		ov.Correct = true
		ov.Wrong = false
	}
	if !m.solved && m.inActiveRun(r, c) {
		ov.Highlighted = true
	}

	return cell.State{
		Base:    base,
		Overlay: ov,
		Input:   answers[r][c],
		Number:  m.puzzle.Cells[r][c].Number,
		Cursor:  m.dir,
	}
}

func (m *Model) controllerAt(pos cell.Position) *cell.Controller {
	return m.controllers[pos.Row][pos.Col]
}

// cellAt converts terminal coordinates to a grid position.
func (m *Model) cellAt(x, y int) (cell.Position, bool) {
	r := y - gridTop
	c := x / cellWidth
	if r < 0 || r >= m.puzzle.Rows || c < 0 || c >= m.puzzle.Cols {
		return cell.Position{}, false
	}
	return cell.Position{Row: r, Col: c}, true
}
