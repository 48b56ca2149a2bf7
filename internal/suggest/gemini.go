// Package suggest generates word/clue suggestions for puzzle authors
// using Gemini on Vertex AI.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"google.golang.org/genai"
)

const (
	defaultRegion = "europe-west1"
	defaultModel  = "gemini-2.5-flash"

	maxSuggestions = 50
)

// Suggestion is one proposed phrase record.
type Suggestion struct {
	Word string `json:"word"`
	Clue string `json:"clue"`
}

// Client wraps the Google GenAI client for Vertex AI.
type Client struct {
	client    *genai.Client
	modelName string
}

// NewClient creates a client using Application Default Credentials.
// Set GOOGLE_APPLICATION_CREDENTIALS to the service account key file path.
func NewClient(ctx context.Context, projectID, region string) (*Client, error) {
	if region == "" {
		region = defaultRegion
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: region,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		client:    client,
		modelName: defaultModel,
	}, nil
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	return nil
}

const suggestPrompt = `You are helping a teacher build word puzzles.

Propose %d entries about the topic "%s" in the language "%s".

Respond ONLY with a JSON array, no commentary or markdown:
[
  {"word": "EXAMPLE", "clue": "A short crossword-style clue for the word"},
  ...
]

Rules:
- "word" is a single word in uppercase, letters only (no digits, spaces or hyphens).
- "clue" is one short sentence in the same language, and never contains the word itself.
- Prefer common words of 4 to 10 letters suitable for a classroom puzzle.`

// SuggestPhrases asks the model for count word/clue pairs about a topic.
func (c *Client) SuggestPhrases(ctx context.Context, topic, language string, count int) ([]Suggestion, error) {
	if count <= 0 || count > maxSuggestions {
		return nil, fmt.Errorf("count must be between 1 and %d", maxSuggestions)
	}
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("topic is required")
	}

	prompt := fmt.Sprintf(suggestPrompt, count, topic, language)

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.7)),
			TopP:             genai.Ptr(float32(1)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty gemini response")
	}

	return parseSuggestions(text)
}

// parseSuggestions decodes and cleans the model output. Entries with a
// missing clue or a word containing anything but letters are dropped;
// an empty result after cleaning is an error.
func parseSuggestions(text string) ([]Suggestion, error) {
	var raw []Suggestion
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parse suggestions JSON: %w\nraw response: %s", err, text)
	}

	out := make([]Suggestion, 0, len(raw))
	for _, s := range raw {
		word := strings.ToUpper(strings.TrimSpace(s.Word))
		clue := strings.TrimSpace(s.Clue)
		if word == "" || clue == "" || !lettersOnly(word) {
			continue
		}
		out = append(out, Suggestion{Word: word, Clue: clue})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no usable suggestions in response: %s", text)
	}
	return out, nil
}

func lettersOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
