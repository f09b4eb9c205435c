// Package export encodes generated vocabulary for download and for files.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

const (
	// FileName is the name browsers save the JSON download under.
	FileName = "vocabulary.json"
	// ContentType is the MIME type of the JSON download.
	ContentType = "application/json"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts json, yaml or yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// PrettyJSON indents raw with two spaces and no trailing newline, the layout
// JSON.stringify(value, null, 2) uses. Tokens are kept exactly as the model
// wrote them: number literals like 1.0, \u escapes and duplicate keys are not
// normalized the way a browser round trip would.
func PrettyJSON(raw json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("indent vocabulary: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), " \t\r\n"), nil
}

// YAML converts raw JSON into a YAML document.
func YAML(raw json.RawMessage) ([]byte, error) {
	out, err := yaml.JSONToYAML(raw)
	if err != nil {
		return nil, fmt.Errorf("convert vocabulary to yaml: %w", err)
	}
	return out, nil
}

// Encode renders raw in the given format.
func Encode(raw json.RawMessage, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return PrettyJSON(raw)
	case FormatYAML:
		return YAML(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// WriteFile encodes raw and writes it to path, creating parent directories.
// When path is a directory, FileName (or its .yaml sibling) is used inside it.
func WriteFile(path string, raw json.RawMessage, f Format) (string, error) {
	if path == "" {
		path = DefaultFileName(f)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFileName(f))
	}

	data, err := Encode(raw, f)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// DefaultFileName is vocabulary.json or vocabulary.yaml.
func DefaultFileName(f Format) string {
	if f == FormatYAML {
		return strings.TrimSuffix(FileName, ".json") + ".yaml"
	}
	return FileName
}
