package codec

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Paintersrp/journaldb/internal/entry"
)

// ErrFileExists is returned by WriteNewFile when the target already exists.
var ErrFileExists = fs.ErrExist

// ReadFile reads and decodes an entry file.
func ReadFile(path string) (entry.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entry.Document{}, err
	}

	doc, err := Decode(string(data))
	if err != nil {
		return entry.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// WriteFile encodes doc and writes it to path, replacing any existing file.
func WriteFile(path string, doc entry.Document) error {
	text, err := Encode(doc)
	if err != nil {
		return err
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

// WriteNewFile writes doc to path and refuses to replace an existing file.
func WriteNewFile(path string, doc entry.Document) error {
	text, err := Encode(doc)
	if err != nil {
		return err
	}

	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("the file %q already exists: %w", path, ErrFileExists)
		}
		return err
	}

	if _, err := file.WriteString(text); err != nil {
		file.Close()
		_ = os.Remove(path)
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return file.Close()
}

// WriteTemplate writes a template document to a new file.
func WriteTemplate(path string, id int64, date time.Time, content string) error {
	doc := Template(id, date)
	if content != "" {
		doc.Content = content
	}
	return WriteNewFile(path, doc)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
