package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"lang_portal/export"
	"lang_portal/generator"
	"lang_portal/logging"
)

var (
	generateFormat string
	generateOut    string
)

var generateCmd = &cobra.Command{
	Use:   "generate <category>",
	Short: "Generate five vocabulary words for a category",
	Example: `  lang_portal generate food
  lang_portal generate travel --format yaml
  lang_portal generate weather --out ./exports/`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateFormat, "format", "f", "table", "output format: table, json or yaml")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "also write the result to this file or directory")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	table, fileFormat, err := parseOutputFormat(generateFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog := logging.New(cfg.Log)
	defer closeLog() //nolint:errcheck

	gen, err := buildGenerator(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	res, err := gen.Generate(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	logger.Debug().Str("category", res.Category).Int("items", len(res.Items)).Msg("vocabulary generated")

	if err := printResult(cmd.OutOrStdout(), table, fileFormat, res); err != nil {
		return err
	}

	if generateOut != "" {
		path, err := export.WriteFile(generateOut, res.Raw, fileFormat)
		if err != nil {
			return err
		}
		logger.Info().Str("path", path).Msg("vocabulary written")
	}
	return nil
}

// parseOutputFormat splits --format into table output or an export format.
// Table output still writes JSON for --out.
func parseOutputFormat(s string) (bool, export.Format, error) {
	if strings.EqualFold(strings.TrimSpace(s), "table") {
		return true, export.FormatJSON, nil
	}
	f, err := export.ParseFormat(s)
	return false, f, err
}

// printResult writes res as a table or encoded as f. A table needs the
// vocabulary shape, so other JSON falls back to pretty JSON.
func printResult(w io.Writer, table bool, f export.Format, res generator.Result) error {
	if table && len(res.Items) > 0 {
		return export.WriteTable(w, res.Items)
	}
	data, err := export.Encode(res.Raw, f)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, strings.TrimRight(string(data), "\n"))
	return err
}
