package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Validation selects how much of the model output is checked.
type Validation string

const (
	// ValidationOff relays any valid JSON unchanged.
	ValidationOff Validation = "off"
	// ValidationStrict additionally requires an array of complete VocabularyItem objects.
	ValidationStrict Validation = "strict"
)

// ParseValidation maps a config string to a Validation, defaulting to off.
func ParseValidation(s string) (Validation, error) {
	switch Validation(strings.ToLower(strings.TrimSpace(s))) {
	case "", ValidationOff:
		return ValidationOff, nil
	case ValidationStrict:
		return ValidationStrict, nil
	default:
		return "", fmt.Errorf("unknown validation mode %q (want off or strict)", s)
	}
}

// ParseOptions controls how model text is turned into a response body.
type ParseOptions struct {
	Validation Validation
	// StripFence removes one enclosing markdown code fence before parsing.
	// Off by default: fenced text is not JSON and fails like any other reply.
	StripFence bool
}

var fenceRe = regexp.MustCompile("(?s)^```[A-Za-z]*\\s*\n(.*?)\\s*```$")

// PostProcess turns raw model text into the JSON value relayed to callers.
// Only surrounding whitespace (and, with StripFence, one enclosing fence) is
// removed; the JSON itself is never rewritten.
func PostProcess(raw string, opts ParseOptions) (json.RawMessage, []VocabularyItem, error) {
	text := strings.TrimSpace(raw)
	if opts.StripFence {
		text = stripFence(text)
	}
	if text == "" {
		return nil, nil, fmt.Errorf("%w: empty response", ErrInvalidJSON)
	}
	if !json.Valid([]byte(text)) {
		return nil, nil, fmt.Errorf("%w: %.80q", ErrInvalidJSON, text)
	}

	body := json.RawMessage(text)
	items, decodeErr := decodeItems(body)

	if opts.Validation == ValidationStrict {
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidShape, decodeErr)
		}
		if err := ValidateItems(items); err != nil {
			return nil, nil, err
		}
	}
	if decodeErr != nil {
		items = nil
	}
	return body, items, nil
}

func stripFence(s string) string {
	if m := fenceRe.FindStringSubmatch(s); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return s
}

func decodeItems(body json.RawMessage) ([]VocabularyItem, error) {
	var items []VocabularyItem
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

// ValidateItems checks every item carries kanji, romaji and english, and
// that each listed part has both fields. An empty list is rejected.
func ValidateItems(items []VocabularyItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidShape)
	}
	for i, it := range items {
		switch {
		case strings.TrimSpace(it.Kanji) == "":
			return fmt.Errorf("%w: item %d: missing kanji", ErrInvalidShape, i)
		case strings.TrimSpace(it.Romaji) == "":
			return fmt.Errorf("%w: item %d: missing romaji", ErrInvalidShape, i)
		case strings.TrimSpace(it.English) == "":
			return fmt.Errorf("%w: item %d: missing english", ErrInvalidShape, i)
		}
		for j, p := range it.Parts {
			if strings.TrimSpace(p.Kanji) == "" || strings.TrimSpace(p.Romaji) == "" {
				return fmt.Errorf("%w: item %d part %d: missing kanji or romaji", ErrInvalidShape, i, j)
			}
		}
	}
	return nil
}
