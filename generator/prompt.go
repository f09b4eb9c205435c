package generator

import "fmt"

// Prompt is the message set sent to the model. System is optional; the
// vocabulary template is sent as a single user message.
type Prompt struct {
	System string
	User   string
}

const vocabularyTemplate = `Generate a list of 5 Japanese vocabulary words related to the category "%s".
For each word, provide the kanji, romaji, English translation, and its component parts (if applicable).
Format the response as a JSON array with the following structure:
[{"kanji":"[japanese kanji]","romaji":"","english":"","parts":[{"kanji":"","romaji":""},{"kanji":"","romaji":""}]}].

Example:
  [
    {
      "kanji": "勉強",
      "romaji": "benkyou",
      "english": "study",
      "parts": [
        { "kanji": "勉", "romaji": "ben" },
        { "kanji": "強", "romaji": "kyou" }
      ]
    },
    {
      "kanji": "食事",
      "romaji": "shokuji",
      "english": "meal",
      "parts": [
        { "kanji": "食", "romaji": "shoku" },
        { "kanji": "事", "romaji": "ji" }
      ]
    },
    {
      "kanji": "旅行",
      "romaji": "ryokou",
      "english": "travel",
      "parts": [
        { "kanji": "旅", "romaji": "ryo" },
        { "kanji": "行", "romaji": "kou" }
      ]
    },
    {
      "kanji": "運動",
      "romaji": "undou",
      "english": "exercise",
      "parts": [
        { "kanji": "運", "romaji": "un" },
        { "kanji": "動", "romaji": "dou" }
      ]
    },
    {
      "kanji": "図書",
      "romaji": "tosho",
      "english": "books",
      "parts": [
        { "kanji": "図", "romaji": "to" },
        { "kanji": "書", "romaji": "sho" }
      ]
    }
  ]

Present json without any additional text or format.`

// BuildVocabularyPrompt embeds category verbatim into the fixed template.
func BuildVocabularyPrompt(category string) Prompt {
	return Prompt{User: fmt.Sprintf(vocabularyTemplate, category)}
}
