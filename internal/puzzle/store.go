package puzzle

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Store holds all content records and play sessions in memory.
type Store struct {
	mu           sync.RWMutex
	languageSets map[string]*LanguageSet
	categories   map[string]*Category
	phrases      map[string]*Phrase
	puzzles      map[string]*Puzzle
	sessions     map[string]*Session
	links        map[string]*ShareLink
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		languageSets: make(map[string]*LanguageSet),
		categories:   make(map[string]*Category),
		phrases:      make(map[string]*Phrase),
		puzzles:      make(map[string]*Puzzle),
		sessions:     make(map[string]*Session),
		links:        make(map[string]*ShareLink),
	}
}

// --- Language sets ---

// SaveLanguageSet persists a language set and returns it with an ID.
func (s *Store) SaveLanguageSet(ls *LanguageSet) *LanguageSet {
	ls.ID = generateID()
	ls.CreatedAt = time.Now()

	s.mu.Lock()
	s.languageSets[ls.ID] = ls
	s.mu.Unlock()

	return ls
}

// GetLanguageSet returns a language set by ID, or nil.
func (s *Store) GetLanguageSet(id string) *LanguageSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.languageSets[id]
}

// LanguageSetByCode returns the language set with a given code, or nil.
func (s *Store) LanguageSetByCode(code string) *LanguageSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ls := range s.languageSets {
		if ls.Code == code {
			return ls
		}
	}
	return nil
}

// ListLanguageSets returns all language sets, most recent first.
func (s *Store) ListLanguageSets() []*LanguageSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*LanguageSet, 0, len(s.languageSets))
	for _, ls := range s.languageSets {
		list = append(list, ls)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

// --- Categories ---

// SaveCategory persists a category. The language set must exist.
func (s *Store) SaveCategory(c *Category) (*Category, error) {
	if s.GetLanguageSet(c.LanguageSetID) == nil {
		return nil, fmt.Errorf("language set not found: %s", c.LanguageSetID)
	}

	c.ID = generateID()
	c.CreatedAt = time.Now()

	s.mu.Lock()
	s.categories[c.ID] = c
	s.mu.Unlock()

	return c, nil
}

// GetCategory returns a category by ID, or nil.
func (s *Store) GetCategory(id string) *Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories[id]
}

// ListCategories returns categories, optionally filtered by language set,
// most recent first.
func (s *Store) ListCategories(languageSetID string) []*Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*Category, 0, len(s.categories))
	for _, c := range s.categories {
		if languageSetID != "" && c.LanguageSetID != languageSetID {
			continue
		}
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

// --- Phrases ---

// SavePhrase persists a phrase record. The language set must exist; the
// category, when given, must too.
func (s *Store) SavePhrase(p *Phrase) (*Phrase, error) {
	if s.GetLanguageSet(p.LanguageSetID) == nil {
		return nil, fmt.Errorf("language set not found: %s", p.LanguageSetID)
	}
	if p.CategoryID != "" && s.GetCategory(p.CategoryID) == nil {
		return nil, fmt.Errorf("category not found: %s", p.CategoryID)
	}

	p.ID = generateID()
	p.CreatedAt = time.Now()

	s.mu.Lock()
	s.phrases[p.ID] = p
	s.mu.Unlock()

	return p, nil
}

// GetPhrase returns a phrase by ID, or nil.
func (s *Store) GetPhrase(id string) *Phrase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phrases[id]
}

// DeletePhrase removes a phrase. Returns false if it did not exist.
func (s *Store) DeletePhrase(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.phrases[id]; !ok {
		return false
	}
	delete(s.phrases, id)
	return true
}

// ListPhrases returns one page of phrases, optionally filtered by
// language set and category, most recent first, plus the total count
// before pagination. A limit of 0 means no limit.
func (s *Store) ListPhrases(languageSetID, categoryID string, offset, limit int) ([]*Phrase, int) {
	s.mu.RLock()
	list := make([]*Phrase, 0, len(s.phrases))
	for _, p := range s.phrases {
		if languageSetID != "" && p.LanguageSetID != languageSetID {
			continue
		}
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		list = append(list, p)
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })

	total := len(list)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, total
}

// --- Puzzles ---

// SavePuzzle validates, numbers and persists a puzzle.
func (s *Store) SavePuzzle(p *Puzzle) (*Puzzle, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.AssignNumbers()
	p.ID = generateID()
	p.CreatedAt = time.Now()

	s.mu.Lock()
	s.puzzles[p.ID] = p
	s.mu.Unlock()

	return p, nil
}

// GetPuzzle returns a puzzle by ID, or nil.
func (s *Store) GetPuzzle(id string) *Puzzle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puzzles[id]
}

// ListPuzzles returns all puzzles, most recent first.
func (s *Store) ListPuzzles() []*Puzzle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*Puzzle, 0, len(s.puzzles))
	for _, p := range s.puzzles {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

// --- Share links ---

// CreateShareLink mints a token for a puzzle.
func (s *Store) CreateShareLink(puzzleID string) (*ShareLink, error) {
	if s.GetPuzzle(puzzleID) == nil {
		return nil, fmt.Errorf("puzzle not found: %s", puzzleID)
	}

	link := &ShareLink{
		Token:     generateID(),
		PuzzleID:  puzzleID,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.links[link.Token] = link
	s.mu.Unlock()

	return link, nil
}

// ResolveShareLink returns the puzzle a token points at, or nil.
func (s *Store) ResolveShareLink(token string) *Puzzle {
	s.mu.RLock()
	link := s.links[token]
	s.mu.RUnlock()

	if link == nil {
		return nil
	}
	return s.GetPuzzle(link.PuzzleID)
}

// --- Sessions ---

// CreateSession starts a collaborative session on a puzzle, with an
// empty answer grid matching the puzzle dimensions.
func (s *Store) CreateSession(puzzleID string) (*Session, error) {
	p := s.GetPuzzle(puzzleID)
	if p == nil {
		return nil, fmt.Errorf("puzzle not found: %s", puzzleID)
	}

	answers := make([][]string, p.Rows)
	for i := range answers {
		answers[i] = make([]string, p.Cols)
	}

	sess := &Session{
		ID:        generateID(),
		PuzzleID:  puzzleID,
		Players:   make(map[string]*Player),
		Answers:   answers,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess, nil
}

// GetSession returns a session by ID, or nil.
func (s *Store) GetSession(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
