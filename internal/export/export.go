// Package export writes a one-way backup of the budget snapshot.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/cbudget/internal/model"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// timestampLayout matches an ISO-8601 UTC timestamp with milliseconds.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Payload is the exported document.
type Payload struct {
	ExportDate string         `json:"exportDate"`
	BudgetData model.Snapshot `json:"budgetData"`
}

// NewPayload stamps s with now in UTC.
func NewPayload(s model.Snapshot, now time.Time) Payload {
	return Payload{
		ExportDate: now.UTC().Format(timestampLayout),
		BudgetData: s,
	}
}

// FileName returns budget-data-<YYYY-MM-DD>.<format> for the UTC date of now.
func FileName(now time.Time, format string) string {
	ext := FormatJSON
	if strings.EqualFold(format, FormatYAML) {
		ext = FormatYAML
	}
	return fmt.Sprintf("budget-data-%s.%s", now.UTC().Format("2006-01-02"), ext)
}

// Encode writes the payload for s to w in the given format.
func Encode(w io.Writer, s model.Snapshot, now time.Time, format string) error {
	p := NewPayload(s, now)

	switch strings.ToLower(format) {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case FormatYAML:
		return encodeYAML(w, p)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// encodeYAML routes through the JSON form so field names and the
// date and amount encodings match the JSON export exactly.
func encodeYAML(w io.Writer, p Payload) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	var generic map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// Write creates FileName(now, format) in dir and returns its path.
func Write(dir string, s model.Snapshot, now time.Time, format string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	path := filepath.Join(dir, FileName(now, format))
	var buf bytes.Buffer
	if err := Encode(&buf, s, now, format); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
