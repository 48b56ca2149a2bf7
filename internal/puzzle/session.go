package puzzle

import (
	"sync"
	"time"
)

// Player is a participant in a collaborative session.
type Player struct {
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	JoinedAt time.Time `json:"joined_at"`
}

// playerColors is the palette assigned to players in join order.
var playerColors = []string{
	"#2563eb", "#dc2626", "#16a34a", "#9333ea",
	"#ea580c", "#0891b2", "#c026d3", "#ca8a04",
}

// Session is a collaborative play of one puzzle: the shared answer grid
// plus the joined players.
type Session struct {
	ID        string             `json:"id"`
	PuzzleID  string             `json:"puzzle_id"`
	Players   map[string]*Player `json:"players"`
	Answers   [][]string         `json:"answers"` // current letters [row][col]
	CreatedAt time.Time          `json:"created_at"`
	mu        sync.Mutex
}

// AddPlayer adds a player, or returns the existing one for the same name.
func (s *Session) AddPlayer(name string) *Player {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.Players[name]; ok {
		return p
	}

	p := &Player{
		Name:     name,
		Color:    playerColors[len(s.Players)%len(playerColors)],
		JoinedAt: time.Now(),
	}
	s.Players[name] = p
	return p
}

// RemovePlayer removes a player from the session.
func (s *Session) RemovePlayer(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Players, name)
}

// SetAnswer writes a letter (or "" to erase) at a position. Returns false
// when out of bounds.
func (s *Session) SetAnswer(row, col int, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row < 0 || row >= len(s.Answers) || col < 0 || col >= len(s.Answers[0]) {
		return false
	}
	s.Answers[row][col] = value
	return true
}

// GetAnswers returns a copy of the answer grid.
func (s *Session) GetAnswers() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([][]string, len(s.Answers))
	for i, row := range s.Answers {
		cp[i] = make([]string, len(row))
		copy(cp[i], row)
	}
	return cp
}

// CheckCell compares the answer at a position with the puzzle solution.
// ok is false for out-of-bounds positions and blank cells.
func (s *Session) CheckCell(p *Puzzle, row, col int) (correct, ok bool) {
	if !p.LetterAt(row, col) {
		return false, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if row >= len(s.Answers) || col >= len(s.Answers[0]) {
		return false, false
	}
	a := s.Answers[row][col]
	return a != "" && a == p.Cells[row][col].Solution, true
}

// Solved reports whether every letter cell holds its solution letter.
func (s *Session) Solved(p *Puzzle) bool {
	answers := s.GetAnswers()
	for r := range p.Cells {
		for c, cell := range p.Cells[r] {
			if cell.Blank {
				continue
			}
			if r >= len(answers) || c >= len(answers[r]) || answers[r][c] != cell.Solution {
				return false
			}
		}
	}
	return true
}
