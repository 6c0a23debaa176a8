package overrides

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/config"
)

//go:embed batches/*.yaml
var embeddedBatches embed.FS

// ErrInvalidEntry marks a curated entry that failed validation.
var ErrInvalidEntry = errors.New("invalid override entry")

// Entry is one curated match.
type Entry struct {
	Author     string  `yaml:"author" json:"author" validate:"required,min=3"`
	QID        string  `yaml:"qid" json:"qid" validate:"required,qid"`
	Label      string  `yaml:"label" json:"label" validate:"required"`
	Wikipedia  string  `yaml:"wikipedia,omitempty" json:"wikipedia,omitempty" validate:"omitempty,url"`
	Confidence float64 `yaml:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	Reason     string  `yaml:"reason" json:"reason"`
}

// Batch is a named group of curated matches.
type Batch struct {
	Name    string  `yaml:"name" json:"name"`
	Source  string  `yaml:"-" json:"-"`
	Matches []Entry `yaml:"matches" json:"matches"`
}

// Load returns the embedded batches (unless disabled) followed by the
// configured files, all validated.
func Load(cfg config.Overrides) ([]Batch, error) {
	var batches []Batch
	if !cfg.SkipEmbedded {
		embedded, err := Embedded()
		if err != nil {
			return nil, err
		}
		batches = append(batches, embedded...)
	}
	for _, file := range cfg.Files {
		batch, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// Embedded returns the batches compiled into the binary, ordered by file name.
func Embedded() ([]Batch, error) {
	names, err := fs.Glob(embeddedBatches, "batches/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list embedded batches: %w", err)
	}
	sort.Strings(names)
	batches := make([]Batch, 0, len(names))
	for _, name := range names {
		data, err := embeddedBatches.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read embedded batch %s: %w", name, err)
		}
		batch, err := parse(data, name, false)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// LoadFile reads a YAML or JSON batch file.
func LoadFile(file string) (Batch, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return Batch{}, fmt.Errorf("read override batch: %w", err)
	}
	isJSON := strings.EqualFold(filepath.Ext(file), ".json")
	return parse(data, file, isJSON)
}

func parse(data []byte, source string, isJSON bool) (Batch, error) {
	var batch Batch
	if isJSON {
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&batch); err != nil {
			return Batch{}, fmt.Errorf("parse override batch %s: %w", source, err)
		}
	} else {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&batch); err != nil {
			return Batch{}, fmt.Errorf("parse override batch %s: %w", source, err)
		}
	}
	batch.Source = source
	if strings.TrimSpace(batch.Name) == "" {
		base := path.Base(filepath.ToSlash(source))
		batch.Name = strings.TrimSuffix(base, path.Ext(base))
	}

	v := newValidator()
	for i, entry := range batch.Matches {
		if err := v.validate(entry); err != nil {
			return Batch{}, fmt.Errorf("override batch %s entry %d (%q): %w", batch.Name, i+1, entry.Author, err)
		}
	}
	return batch, nil
}
