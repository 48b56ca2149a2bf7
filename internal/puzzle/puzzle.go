package puzzle

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Cell is one slot of a puzzle definition grid. A cell is either blank
// (a filler box players cannot write in) or a letter cell carrying the
// solution letter and, possibly, a clue start number.
type Cell struct {
	Blank    bool   `json:"blank"`
	Solution string `json:"solution,omitempty"` // single uppercase letter
	Number   int    `json:"number,omitempty"`   // 0 = unnumbered
}

// Puzzle is an authored grid: the solution letters plus metadata linking
// it to a language set and a category.
type Puzzle struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Language   string    `json:"language"` // language set code, e.g. "en"
	CategoryID string    `json:"category_id,omitempty"`
	Rows       int       `json:"rows"`
	Cols       int       `json:"cols"`
	Cells      [][]Cell  `json:"cells"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate checks dimensions and letter cells.
func (p *Puzzle) Validate() error {
	if p.Rows <= 0 || p.Cols <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", p.Rows, p.Cols)
	}
	if len(p.Cells) != p.Rows {
		return fmt.Errorf("expected %d cell rows, got %d", p.Rows, len(p.Cells))
	}
	for r, row := range p.Cells {
		if len(row) != p.Cols {
			return fmt.Errorf("row %d: expected %d cells, got %d", r, p.Cols, len(row))
		}
		for c, cell := range row {
			if cell.Blank {
				continue
			}
			if utf8.RuneCountInString(cell.Solution) != 1 {
				return fmt.Errorf("cell (%d,%d): solution must be a single letter, got %q", r, c, cell.Solution)
			}
		}
	}
	return nil
}

// AssignNumbers writes standard crossword start numbers into the grid:
// a letter cell is numbered when it begins an across run or a down run
// of at least two letters, numbers increasing row-major.
func (p *Puzzle) AssignNumbers() {
	n := 0
	for r := range p.Cells {
		for c := range p.Cells[r] {
			cell := &p.Cells[r][c]
			cell.Number = 0
			if cell.Blank {
				continue
			}
			if p.startsAcross(r, c) || p.startsDown(r, c) {
				n++
				cell.Number = n
			}
		}
	}
}

// LetterAt reports whether (r, c) is inside the grid and a letter cell.
func (p *Puzzle) LetterAt(r, c int) bool {
	return r >= 0 && r < p.Rows && c >= 0 && c < p.Cols && !p.Cells[r][c].Blank
}

func (p *Puzzle) startsAcross(r, c int) bool {
	return !p.LetterAt(r, c-1) && p.LetterAt(r, c+1)
}

func (p *Puzzle) startsDown(r, c int) bool {
	return !p.LetterAt(r-1, c) && p.LetterAt(r+1, c)
}

// LetterCells counts the cells players can write in.
func (p *Puzzle) LetterCells() int {
	n := 0
	for _, row := range p.Cells {
		for _, cell := range row {
			if !cell.Blank {
				n++
			}
		}
	}
	return n
}
