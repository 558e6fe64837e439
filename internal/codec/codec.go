// Package codec converts between the plaintext entry file format and
// entry.Document values.
//
// An entry file is a YAML header enclosed by two marker lines followed by the
// body text:
//
//	---
//	title: Day One
//	tags: +hike
//	date: "2024-01-05"
//	id: 0
//	---
//
//	Walked far.
package codec

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/journaldb/internal/constants"
	"github.com/Paintersrp/journaldb/internal/entry"
)

var requiredKeys = []string{"title", "tags", "date"}

type header struct {
	Title string `yaml:"title"`
	Tags  string `yaml:"tags"`
	Date  string `yaml:"date,omitempty"`
	ID    int64  `yaml:"id"`
}

// Decode parses the text of an entry file.
func Decode(text string) (entry.Document, error) {
	fm, body, err := splitHeader(text)
	if err != nil {
		return entry.Document{}, err
	}

	values, err := parseHeader(fm)
	if err != nil {
		return entry.Document{}, err
	}

	var missing []string
	for _, key := range requiredKeys {
		if _, ok := values[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return entry.Document{}, &entry.FormatError{
			Missing: missing,
			Reason:  "header must contain title, tags and date",
		}
	}

	date, err := entry.ParseDate(values["date"])
	if err != nil {
		return entry.Document{}, &entry.FormatError{
			Field:  "date",
			Reason: fmt.Sprintf("expected %s", constants.DateLayout),
			Err:    err,
		}
	}

	var id int64
	if raw, ok := values["id"]; ok && strings.TrimSpace(raw) != "" {
		id, err = strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id < 0 {
			return entry.Document{}, &entry.FormatError{
				Field:  "id",
				Reason: "must be a non-negative integer",
				Err:    err,
			}
		}
	}

	return entry.Document{
		ID:      id,
		Title:   values["title"],
		Tags:    values["tags"],
		Date:    date,
		Content: strings.TrimSpace(body),
	}, nil
}

// Encode renders doc in the entry file format. The id is always written,
// including zero, so every file states whether it creates or updates. Header
// text that is not valid UTF-8 is a FormatError.
func Encode(doc entry.Document) (string, error) {
	for _, f := range []struct{ name, value string }{
		{"title", doc.Title},
		{"tags", doc.Tags},
	} {
		if !utf8.ValidString(f.value) {
			return "", &entry.FormatError{Field: f.name, Reason: "must be valid UTF-8 text"}
		}
	}

	h := header{
		Title: doc.Title,
		Tags:  doc.Tags,
		Date:  entry.FormatDate(doc.Date),
		ID:    doc.ID,
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(h); err != nil {
		return "", fmt.Errorf("encode header: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode header: %w", err)
	}

	var out strings.Builder
	out.WriteString(constants.HeaderMarker + "\n")
	out.Write(buf.Bytes())
	out.WriteString(constants.HeaderMarker + "\n\n")
	if content := strings.TrimSpace(doc.Content); content != "" {
		out.WriteString(content)
		out.WriteString("\n")
	}
	return out.String(), nil
}

// Template returns a placeholder document for bootstrapping a new entry. A
// zero date means today.
func Template(id int64, date time.Time) entry.Document {
	if date.IsZero() {
		date = time.Now()
	}
	return entry.Document{
		ID:      id,
		Title:   "post title",
		Tags:    "+tag1, +tag2",
		Date:    entry.NormalizeDate(date),
		Content: "Write stuff here.",
	}
}

// TemplateText is Template rendered in the entry file format.
func TemplateText(id int64, date time.Time) (string, error) {
	return Encode(Template(id, date))
}

// splitHeader returns the text between the first two marker lines and the
// text after the second one.
func splitHeader(text string) (string, string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	markers := make([]int, 0, 2)
	for i, line := range lines {
		// Markers start at column 0; indented lines belong to YAML block values.
		if strings.TrimRight(line, " \t\r") == constants.HeaderMarker {
			markers = append(markers, i)
			if len(markers) == 2 {
				break
			}
		}
	}

	switch len(markers) {
	case 0:
		return "", "", &entry.FormatError{Field: "header", Reason: "header not found"}
	case 1:
		return "", "", &entry.FormatError{Field: "header", Reason: "closing header marker not found"}
	}

	fm := strings.Join(lines[markers[0]+1:markers[1]], "\n")
	body := strings.Join(lines[markers[1]+1:], "\n")
	return fm, body, nil
}

// parseHeader flattens a YAML mapping into key/value text. Sequences are
// joined with ", " so tag lists keep their single-string form.
func parseHeader(fm string) (map[string]string, error) {
	values := make(map[string]string)
	if strings.TrimSpace(fm) == "" {
		return values, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(fm), &doc); err != nil {
		return nil, &entry.FormatError{Field: "header", Reason: "invalid YAML", Err: err}
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return values, nil
	}

	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, &entry.FormatError{Field: "header", Reason: "expected key: value pairs"}
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := strings.ToLower(strings.TrimSpace(mapping.Content[i].Value))
		value, err := flattenValue(key, mapping.Content[i+1])
		if err != nil {
			return nil, err
		}
		values[key] = value
	}
	return values, nil
}

func flattenValue(key string, node *yaml.Node) (string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return "", nil
		}
		return node.Value, nil
	case yaml.SequenceNode:
		parts := make([]string, 0, len(node.Content))
		for _, child := range node.Content {
			if child.Kind != yaml.ScalarNode {
				return "", &entry.FormatError{Field: key, Reason: "nested values are not supported"}
			}
			parts = append(parts, child.Value)
		}
		return strings.Join(parts, ", "), nil
	case yaml.AliasNode:
		if node.Alias != nil {
			return flattenValue(key, node.Alias)
		}
		return "", nil
	default:
		return "", &entry.FormatError{Field: key, Reason: "expected a text value"}
	}
}
