package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bodul/wordgrid/internal/puzzle"
	"github.com/bodul/wordgrid/internal/tui"
)

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "wordgrid server base URL")
	shareToken := flag.String("share", "", "play a shared puzzle by token")
	extraLetters := flag.String("letters", "", "extra letters beyond A-Z, e.g. ÅÄÖ")
	flag.Parse()

	p := samplePuzzle()
	if *shareToken != "" {
		fetched, err := fetchSharedPuzzle(*serverURL, *shareToken)
		if err != nil {
			log.Fatalf("fetch shared puzzle: %v", err)
		}
		p = fetched
	}

	prog := tea.NewProgram(tui.New(p, *extraLetters), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := prog.Run(); err != nil {
		log.Fatal(err)
	}
}

// fetchSharedPuzzle resolves a share token against the server.
func fetchSharedPuzzle(baseURL, token string) (*puzzle.Puzzle, error) {
	resp, err := http.Get(baseURL + "/api/share/" + token)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	var p puzzle.Puzzle
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode puzzle: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid puzzle: %w", err)
	}
	return &p, nil
}

// samplePuzzle is a small built-in grid for playing offline.
func samplePuzzle() *puzzle.Puzzle {
	rows := []string{
		"CAT#",
		"APEX",
		"RENT",
		"#DOE",
	}
	p := &puzzle.Puzzle{Title: "Sample 4x4", Language: "en", Rows: 4, Cols: 4}
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
