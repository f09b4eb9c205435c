package export

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"lang_portal/generator"
)

// WriteTable prints items as a Kanji / Romaji / English / Parts table.
func WriteTable(w io.Writer, items []generator.VocabularyItem) error {
	table := tablewriter.NewTable(w)
	table.Header("Kanji", "Romaji", "English", "Parts")

	for _, it := range items {
		if err := table.Append(it.Kanji, it.Romaji, it.English, FormatParts(it.Parts)); err != nil {
			return err
		}
	}
	return table.Render()
}

// FormatParts joins parts as "勉 (ben) + 強 (kyou)".
func FormatParts(parts []generator.Part) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, p.Kanji+" ("+p.Romaji+")")
	}
	return strings.Join(out, " + ")
}
