package puzzle

import "time"

// LanguageSet groups content for one puzzle language. ExtraLetters are
// the diacritics beyond A-Z that the language's cell alphabet accepts.
type LanguageSet struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"` // e.g. "en", "fi", "no"
	Name         string    `json:"name"`
	ExtraLetters string    `json:"extra_letters,omitempty"` // e.g. "ÅÄÖ"
	CreatedAt    time.Time `json:"created_at"`
}

// Category groups phrases within a language set.
type Category struct {
	ID            string    `json:"id"`
	LanguageSetID string    `json:"language_set_id"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
}

// Phrase is one word/clue record authors manage and puzzles are built from.
type Phrase struct {
	ID            string    `json:"id"`
	LanguageSetID string    `json:"language_set_id"`
	CategoryID    string    `json:"category_id,omitempty"`
	Word          string    `json:"word"`
	Clue          string    `json:"clue"`
	CreatedAt     time.Time `json:"created_at"`
}

// ShareLink is a shareable token resolving to a puzzle.
type ShareLink struct {
	Token     string    `json:"token"`
	PuzzleID  string    `json:"puzzle_id"`
	CreatedAt time.Time `json:"created_at"`
}
