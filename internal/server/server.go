// Package server exposes the puzzle content and play API over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bodul/wordgrid/internal/cell"
	"github.com/bodul/wordgrid/internal/puzzle"
	"github.com/bodul/wordgrid/internal/suggest"
)

// Suggester produces word/clue proposals for authors. Nil disables the
// suggestion endpoint.
type Suggester interface {
	SuggestPhrases(ctx context.Context, topic, language string, count int) ([]suggest.Suggestion, error)
}

// Server is the main HTTP server.
type Server struct {
	mux       *http.ServeMux
	store     *puzzle.Store
	suggester Suggester
	sse       *Broadcaster
	suggestRL *rateLimiter
	moveRL    *rateLimiter
}

// NewServer creates a configured HTTP server.
func NewServer(store *puzzle.Store, suggester Suggester) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		store:     store,
		suggester: suggester,
		sse:       NewBroadcaster(),
		suggestRL: newRateLimiter(5, time.Minute),  // 5 suggestions/min per IP
		moveRL:    newRateLimiter(60, time.Second), // 60 moves/sec per IP
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	// Content API
	s.mux.HandleFunc("POST /api/languagesets", s.handleCreateLanguageSet)
	s.mux.HandleFunc("GET /api/languagesets", s.handleListLanguageSets)
	s.mux.HandleFunc("GET /api/languagesets/{id}", s.handleGetLanguageSet)

	s.mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	s.mux.HandleFunc("GET /api/categories", s.handleListCategories)

	s.mux.HandleFunc("POST /api/phrases", s.handleCreatePhrase)
	s.mux.HandleFunc("GET /api/phrases", s.handleListPhrases)
	s.mux.HandleFunc("GET /api/phrases/{id}", s.handleGetPhrase)
	s.mux.HandleFunc("DELETE /api/phrases/{id}", s.handleDeletePhrase)
	s.mux.HandleFunc("POST /api/phrases/suggest", s.handleSuggestPhrases)

	// Puzzle API
	s.mux.HandleFunc("POST /api/puzzles", s.handleCreatePuzzle)
	s.mux.HandleFunc("GET /api/puzzles", s.handleListPuzzles)
	s.mux.HandleFunc("GET /api/puzzles/{id}", s.handleGetPuzzle)
	s.mux.HandleFunc("POST /api/puzzles/{id}/share", s.handleSharePuzzle)
	s.mux.HandleFunc("GET /api/share/{token}", s.handleResolveShare)

	// Session API
	s.mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	s.mux.HandleFunc("POST /api/sessions/{id}/join", s.handleJoinSession)
	s.mux.HandleFunc("POST /api/sessions/{id}/move", s.handleMove)
	s.mux.HandleFunc("GET /api/sessions/{id}/events", s.handleSessionEvents)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; connect-src 'self'")
	s.mux.ServeHTTP(w, r)
}

// --- Language set handlers ---

func (s *Server) handleCreateLanguageSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code         string `json:"code"`
		Name         string `json:"name"`
		ExtraLetters string `json:"extra_letters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" || req.Name == "" {
		jsonError(w, "fields 'code' and 'name' required", http.StatusBadRequest)
		return
	}
	if s.store.LanguageSetByCode(req.Code) != nil {
		jsonError(w, "language set code already exists", http.StatusConflict)
		return
	}

	ls := s.store.SaveLanguageSet(&puzzle.LanguageSet{
		Code:         req.Code,
		Name:         req.Name,
		ExtraLetters: strings.ToUpper(req.ExtraLetters),
	})
	writeJSON(w, http.StatusCreated, ls)
}

func (s *Server) handleListLanguageSets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ListLanguageSets())
}

func (s *Server) handleGetLanguageSet(w http.ResponseWriter, r *http.Request) {
	ls := s.store.GetLanguageSet(r.PathValue("id"))
	if ls == nil {
		jsonError(w, "language set not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ls)
}

// --- Category handlers ---

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LanguageSetID string `json:"language_set_id"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LanguageSetID == "" || req.Name == "" {
		jsonError(w, "fields 'language_set_id' and 'name' required", http.StatusBadRequest)
		return
	}

	c, err := s.store.SaveCategory(&puzzle.Category{LanguageSetID: req.LanguageSetID, Name: req.Name})
	if err != nil {
		jsonError(w, "language set not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ListCategories(r.URL.Query().Get("languageset")))
}

// --- Phrase handlers ---

func (s *Server) handleCreatePhrase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LanguageSetID string `json:"language_set_id"`
		CategoryID    string `json:"category_id"`
		Word          string `json:"word"`
		Clue          string `json:"clue"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LanguageSetID == "" || req.Word == "" {
		jsonError(w, "fields 'language_set_id' and 'word' required", http.StatusBadRequest)
		return
	}

	ls := s.store.GetLanguageSet(req.LanguageSetID)
	if ls == nil {
		jsonError(w, "language set not found", http.StatusNotFound)
		return
	}

	word, ok := normalizeWord(req.Word, alphabetFor(ls))
	if !ok {
		jsonError(w, "word must contain only letters of the language set", http.StatusBadRequest)
		return
	}

	p, err := s.store.SavePhrase(&puzzle.Phrase{
		LanguageSetID: req.LanguageSetID,
		CategoryID:    req.CategoryID,
		Word:          word,
		Clue:          strings.TrimSpace(req.Clue),
	})
	if err != nil {
		jsonError(w, "category not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListPhrases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	items, total := s.store.ListPhrases(q.Get("languageset"), q.Get("category"), offset, limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"items":  items,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}

func (s *Server) handleGetPhrase(w http.ResponseWriter, r *http.Request) {
	p := s.store.GetPhrase(r.PathValue("id"))
	if p == nil {
		jsonError(w, "phrase not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePhrase(w http.ResponseWriter, r *http.Request) {
	if !s.store.DeletePhrase(r.PathValue("id")) {
		jsonError(w, "phrase not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSuggestPhrases(w http.ResponseWriter, r *http.Request) {
	if !s.suggestRL.allow(r.RemoteAddr) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return
	}
	if s.suggester == nil {
		jsonError(w, "suggestions not configured", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		LanguageSetID string `json:"language_set_id"`
		Topic         string `json:"topic"`
		Count         int    `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LanguageSetID == "" || req.Topic == "" {
		jsonError(w, "fields 'language_set_id' and 'topic' required", http.StatusBadRequest)
		return
	}
	if req.Count == 0 {
		req.Count = 10
	}

	ls := s.store.GetLanguageSet(req.LanguageSetID)
	if ls == nil {
		jsonError(w, "language set not found", http.StatusNotFound)
		return
	}

	suggestions, err := s.suggester.SuggestPhrases(r.Context(), req.Topic, ls.Name, req.Count)
	if err != nil {
		log.Printf("suggest error: %v", err)
		jsonError(w, "suggestion failed", http.StatusInternalServerError)
		return
	}

	// Drop words the language's alphabet cannot spell.
	alphabet := alphabetFor(ls)
	usable := suggestions[:0]
	for _, sg := range suggestions {
		if word, ok := normalizeWord(sg.Word, alphabet); ok {
			sg.Word = word
			usable = append(usable, sg)
		}
	}
	writeJSON(w, http.StatusOK, usable)
}

// --- Puzzle handlers ---

func (s *Server) handleCreatePuzzle(w http.ResponseWriter, r *http.Request) {
	var p puzzle.Puzzle
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		jsonError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if p.Language == "" || s.store.LanguageSetByCode(p.Language) == nil {
		jsonError(w, "unknown language", http.StatusBadRequest)
		return
	}

	saved, err := s.store.SavePuzzle(&p)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListPuzzles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ListPuzzles())
}

func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	p := s.store.GetPuzzle(r.PathValue("id"))
	if p == nil {
		jsonError(w, "puzzle not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSharePuzzle(w http.ResponseWriter, r *http.Request) {
	link, err := s.store.CreateShareLink(r.PathValue("id"))
	if err != nil {
		jsonError(w, "puzzle not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (s *Server) handleResolveShare(w http.ResponseWriter, r *http.Request) {
	p := s.store.ResolveShareLink(r.PathValue("token"))
	if p == nil {
		jsonError(w, "share link not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// --- Session handlers ---

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PuzzleID string `json:"puzzle_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PuzzleID == "" {
		jsonError(w, "field 'puzzle_id' required", http.StatusBadRequest)
		return
	}

	sess, err := s.store.CreateSession(req.PuzzleID)
	if err != nil {
		jsonError(w, "puzzle not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.store.GetSession(r.PathValue("id"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	resp := struct {
		*puzzle.Session
		Puzzle *puzzle.Puzzle `json:"puzzle"`
	}{
		Session: sess,
		Puzzle:  s.store.GetPuzzle(sess.PuzzleID),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleJoinSession(w http.ResponseWriter, r *http.Request) {
	sess := s.store.GetSession(r.PathValue("id"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		jsonError(w, "field 'name' required", http.StatusBadRequest)
		return
	}

	name := sanitizeName(req.Name)
	if name == "" {
		jsonError(w, "invalid name", http.StatusBadRequest)
		return
	}

	player := sess.AddPlayer(name)

	evt, _ := json.Marshal(map[string]string{
		"type":  "player_joined",
		"name":  player.Name,
		"color": player.Color,
	})
	s.sse.Broadcast(sess.ID, string(evt))

	writeJSON(w, http.StatusOK, player)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	if !s.moveRL.allow(r.RemoteAddr) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return
	}

	sess := s.store.GetSession(r.PathValue("id"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	var req struct {
		Name  string `json:"name"`
		Row   int    `json:"row"`
		Col   int    `json:"col"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request", http.StatusBadRequest)
		return
	}

	p := s.store.GetPuzzle(sess.PuzzleID)
	if p == nil {
		jsonError(w, "puzzle not found", http.StatusNotFound)
		return
	}

	// Value must be empty (erase) or a single letter of the puzzle's
	// language alphabet.
	value := strings.TrimSpace(req.Value)
	if value != "" {
		alphabet := alphabetFor(s.store.LanguageSetByCode(p.Language))
		var ok bool
		if value, ok = alphabet.Normalize(value); !ok {
			jsonError(w, "value must be a letter of the puzzle language, or empty", http.StatusBadRequest)
			return
		}
	}

	// Writing into a blank cell is never valid.
	if req.Row >= 0 && req.Row < p.Rows && req.Col >= 0 && req.Col < p.Cols {
		if p.Cells[req.Row][req.Col].Blank {
			jsonError(w, "blank cell", http.StatusBadRequest)
			return
		}
	}

	if !sess.SetAnswer(req.Row, req.Col, value) {
		jsonError(w, "position out of bounds", http.StatusBadRequest)
		return
	}

	evt, _ := json.Marshal(map[string]any{
		"type":  "cell_update",
		"row":   req.Row,
		"col":   req.Col,
		"value": value,
		"name":  req.Name,
	})
	s.sse.Broadcast(sess.ID, string(evt))

	if sess.Solved(p) {
		evt, _ := json.Marshal(map[string]string{"type": "session_solved"})
		s.sse.Broadcast(sess.ID, string(evt))
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	sess := s.store.GetSession(r.PathValue("id"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	playerName := sanitizeName(r.URL.Query().Get("name"))

	s.sse.ServeSSE(w, r, sess.ID, func(sub *subscriber) {
		// Send initial session state on connect.
		evt, _ := json.Marshal(map[string]any{
			"type":    "session_state",
			"answers": sess.GetAnswers(),
			"players": sess.Players,
		})
		sub.ch <- string(evt)
	}, func() {
		// On disconnect: broadcast player_left if a name was provided.
		if playerName != "" {
			sess.RemovePlayer(playerName)
			evt, _ := json.Marshal(map[string]string{
				"type": "player_left",
				"name": playerName,
			})
			s.sse.Broadcast(sess.ID, string(evt))
		}
	})
}

// --- Helpers ---

// alphabetFor builds the cell alphabet of a language set. A nil set
// falls back to plain A-Z.
func alphabetFor(ls *puzzle.LanguageSet) cell.Alphabet {
	if ls == nil {
		return cell.NewAlphabet()
	}
	return cell.NewAlphabet([]rune(ls.ExtraLetters)...)
}

// normalizeWord uppercases a word and reports whether every letter
// belongs to the alphabet.
func normalizeWord(word string, alphabet cell.Alphabet) (string, bool) {
	word = strings.ToUpper(strings.TrimSpace(word))
	if word == "" {
		return "", false
	}
	for _, r := range word {
		if !alphabet.Contains(r) {
			return "", false
		}
	}
	return word, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeName(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > 20 {
		s = string([]rune(s)[:20])
	}
	return s
}
