package puzzle

import "testing"

// gridFromRows builds a puzzle from strings where '#' is a blank cell
// and any other rune is that cell's solution letter.
func gridFromRows(rows ...string) *Puzzle {
	p := &Puzzle{Rows: len(rows), Cols: len([]rune(rows[0]))}
	for _, row := range rows {
		var cells []Cell
		for _, r := range row {
			if r == '#' {
				cells = append(cells, Cell{Blank: true})
			} else {
				cells = append(cells, Cell{Solution: string(r)})
			}
		}
		p.Cells = append(p.Cells, cells)
	}
	return p
}

func TestValidate(t *testing.T) {
	p := gridFromRows("AB", "CD")
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.Rows = 3
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for row count mismatch")
	}

	bad := gridFromRows("AB", "CD")
	bad.Cells[0][1].Solution = "AB"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for multi-letter solution")
	}

	empty := &Puzzle{}
	if err := empty.Validate(); err == nil {
		t.Fatal("expected error for zero dimensions")
	}
}

func TestAssignNumbers(t *testing.T) {
	// CAT
	// A#O
	// RUN
	p := gridFromRows(
		"CAT",
		"A#O",
		"RUN",
	)
	p.AssignNumbers()

	// (2,1) 'U' has a blank above and nothing below, so it starts no
	// down run and stays unnumbered.
	want := map[[2]int]int{
		{0, 0}: 1, // starts CAT across and CAR down
		{0, 2}: 2, // starts TON down
		{2, 0}: 3, // starts RUN across
	}

	for r := range p.Cells {
		for c := range p.Cells[r] {
			got := p.Cells[r][c].Number
			if w := want[[2]int{r, c}]; got != w {
				t.Errorf("cell (%d,%d): number = %d, want %d", r, c, got, w)
			}
		}
	}
}

func TestAssignNumbersIsIdempotent(t *testing.T) {
	p := gridFromRows("AB", "C#")
	p.AssignNumbers()
	first := make([]int, 0, 4)
	for _, row := range p.Cells {
		for _, c := range row {
			first = append(first, c.Number)
		}
	}

	p.AssignNumbers()
	i := 0
	for _, row := range p.Cells {
		for _, c := range row {
			if c.Number != first[i] {
				t.Fatalf("numbering changed on re-run at index %d", i)
			}
			i++
		}
	}
}

func TestLetterCells(t *testing.T) {
	p := gridFromRows("A#", "BC")
	if got := p.LetterCells(); got != 3 {
		t.Fatalf("expected 3 letter cells, got %d", got)
	}
}
