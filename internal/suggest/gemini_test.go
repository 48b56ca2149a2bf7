package suggest

import (
	"context"
	"os"
	"testing"
)

func TestParseSuggestions(t *testing.T) {
	text := `[
		{"word": "kissa", "clue": "Kehrää sylissä"},
		{"word": "KOIRA", "clue": "Haukkuu pihalla"},
		{"word": "TWO WORDS", "clue": "dropped: contains a space"},
		{"word": "A1B", "clue": "dropped: contains a digit"},
		{"word": "TYHJÄ", "clue": ""}
	]`

	got, err := parseSuggestions(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 usable suggestions, got %d: %v", len(got), got)
	}
	if got[0].Word != "KISSA" {
		t.Fatalf("expected uppercased KISSA, got %q", got[0].Word)
	}
	if got[1].Word != "KOIRA" {
		t.Fatalf("expected KOIRA, got %q", got[1].Word)
	}
}

func TestParseSuggestionsErrors(t *testing.T) {
	if _, err := parseSuggestions("not json"); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if _, err := parseSuggestions(`[{"word": "A1", "clue": "digit"}]`); err == nil {
		t.Fatal("expected error when nothing survives cleaning")
	}
}

func TestSuggestPhrases(t *testing.T) {
	projectID := os.Getenv("GCP_PROJECT_ID")
	if projectID == "" {
		t.Skip("GCP_PROJECT_ID not set, skipping integration test")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, projectID, "")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer client.Close()

	got, err := client.SuggestPhrases(ctx, "farm animals", "English", 5)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected at least one suggestion")
	}
	for _, s := range got {
		t.Logf("%s — %s", s.Word, s.Clue)
	}
}
