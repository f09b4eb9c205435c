package generator

import (
	"encoding/json"
	"time"
)

// Part is one character-level piece of a word.
type Part struct {
	Kanji  string `json:"kanji"`
	Romaji string `json:"romaji"`
}

// VocabularyItem is the entry shape the prompt asks the model for.
// The model output is relayed as-is; this type is only used for strict
// validation and for rendering.
type VocabularyItem struct {
	Kanji   string `json:"kanji"`
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Parts   []Part `json:"parts"`
}

// Request is the body accepted by the generation route.
type Request struct {
	Category string `json:"category"`
}

// Result is one successful generation. Raw holds the parsed model output
// exactly as returned; Items is filled when the output decodes as
// []VocabularyItem, which is best-effort in pass-through mode.
type Result struct {
	Category string
	Model    string
	Raw      json.RawMessage
	Items    []VocabularyItem
}

// Generation is a Result kept by the server so it can be downloaded later.
type Generation struct {
	ID        string          `json:"id"`
	Category  string          `json:"category"`
	Model     string          `json:"model"`
	Items     json.RawMessage `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}
