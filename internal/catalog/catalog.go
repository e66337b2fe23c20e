package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/norangai/Minimal-Pair-Test/internal/models"
)

// Column headers expected in the catalog CSV.
const (
	colCategory = "Type"
	colKanaA    = "Word1 in Kana"
	colKanjiA   = "Word1 Kanji"
	colKanaB    = "Word2 in Kana"
	colKanjiB   = "Word2 Kanji"
)

// Catalog is the read-only set of minimal pairs. Pair ids match row order in
// the source file and stay stable for the file's lifetime.
type Catalog struct {
	Pairs []models.Pair
}

// Size returns the number of pairs.
func (c *Catalog) Size() int {
	return len(c.Pairs)
}

// Pair returns the pair with the given id.
func (c *Catalog) Pair(id int) (models.Pair, bool) {
	if id < 0 || id >= len(c.Pairs) {
		return models.Pair{}, false
	}
	return c.Pairs[id], true
}

// Categories returns the distinct category labels in first-seen order.
func (c *Catalog) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range c.Pairs {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// Load reads the catalog CSV at path. A missing file, malformed CSV, or
// missing column is fatal: the caller gets an error and no partial catalog.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("catalog %s is empty", path)
	}

	cols := map[string]int{}
	for i, name := range records[0] {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colCategory, colKanaA, colKanjiA, colKanaB, colKanjiB} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("catalog %s is missing column %q", path, required)
		}
	}

	cat := &Catalog{}
	for rowNum, rec := range records[1:] {
		field := func(name string) string {
			i := cols[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		pair := models.Pair{
			ID:       rowNum,
			Category: field(colCategory),
			WordA: models.Word{
				Display: field(colKanaA),
				Spoken:  ExtractSpokenForm(field(colKanjiA)),
			},
			WordB: models.Word{
				Display: field(colKanaB),
				Spoken:  ExtractSpokenForm(field(colKanjiB)),
			},
		}
		cat.Pairs = append(cat.Pairs, pair)
	}

	if cat.Size() == 0 {
		return nil, fmt.Errorf("catalog %s has no pairs", path)
	}
	return cat, nil
}

// ExtractSpokenForm picks the canonical spoken form from a possibly
// multi-valued text field: the first non-empty segment splitting by comma,
// then newline, then space, in that priority order. Falls back to the
// trimmed input when no delimiter yields segments.
func ExtractSpokenForm(text string) string {
	for _, delim := range []string{",", "\n", " "} {
		var parts []string
		for _, p := range strings.Split(text, delim) {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			return parts[0]
		}
	}
	return strings.TrimSpace(text)
}
