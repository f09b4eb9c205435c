package generator

import "context"

// MockLLM returns a fixed vocabulary list without calling any external model.
// Useful for local development of the pages.
type MockLLM struct{}

// SampleVocabulary is the list MockLLM returns, the same five words the
// prompt uses as its example.
const SampleVocabulary = `[
  {"kanji":"勉強","romaji":"benkyou","english":"study","parts":[{"kanji":"勉","romaji":"ben"},{"kanji":"強","romaji":"kyou"}]},
  {"kanji":"食事","romaji":"shokuji","english":"meal","parts":[{"kanji":"食","romaji":"shoku"},{"kanji":"事","romaji":"ji"}]},
  {"kanji":"旅行","romaji":"ryokou","english":"travel","parts":[{"kanji":"旅","romaji":"ryo"},{"kanji":"行","romaji":"kou"}]},
  {"kanji":"運動","romaji":"undou","english":"exercise","parts":[{"kanji":"運","romaji":"un"},{"kanji":"動","romaji":"dou"}]},
  {"kanji":"図書","romaji":"tosho","english":"books","parts":[{"kanji":"図","romaji":"to"},{"kanji":"書","romaji":"sho"}]}
]`

func (m MockLLM) Complete(ctx context.Context, _ Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return SampleVocabulary, nil
}
