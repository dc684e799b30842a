package morph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"verbclash/internal/models"
)

// FormEntry is one rendered cell of a verb's paradigm. Unit is the
// course unit in which the form is introduced.
type FormEntry struct {
	Person models.Person `json:"person"`
	Number models.Number `json:"number"`
	Tense  models.Tense  `json:"tense"`
	Voice  models.Voice  `json:"voice"`
	Mood   models.Mood   `json:"mood"`
	Unit   int           `json:"unit"`
	Form   string        `json:"form"`
}

func (e FormEntry) toForm(verbID int64) models.Form {
	return models.Form{
		VerbID: verbID,
		Person: e.Person,
		Number: e.Number,
		Tense:  e.Tense,
		Voice:  e.Voice,
		Mood:   e.Mood,
	}
}

// VerbEntry is a verb plus its paradigm as stored in the catalog file
type VerbEntry struct {
	models.Verb
	Forms []FormEntry `json:"forms"`
}

type catalogFile struct {
	Verbs []VerbEntry `json:"verbs"`
}

// Catalog is the read-only verb list, loaded once at startup
type Catalog struct {
	verbs []models.Verb
	byID  map[int64]int
	forms map[int64][]FormEntry
}

// NewCatalog builds a catalog from entries, ordered by id
func NewCatalog(entries []VerbEntry) *Catalog {
	sorted := make([]VerbEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	c := &Catalog{
		verbs: make([]models.Verb, 0, len(sorted)),
		byID:  make(map[int64]int, len(sorted)),
		forms: make(map[int64][]FormEntry, len(sorted)),
	}
	for _, e := range sorted {
		c.byID[e.ID] = len(c.verbs)
		c.verbs = append(c.verbs, e.Verb)
		c.forms[e.ID] = e.Forms
	}
	return c
}

// ParseCatalog reads a catalog JSON document
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var f catalogFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode verb catalog: %w", err)
	}
	return NewCatalog(f.Verbs), nil
}

// LoadCatalog reads the catalog file at path
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open verb catalog: %w", err)
	}
	defer f.Close()
	return ParseCatalog(f)
}

// Verb looks a verb up by id
func (c *Catalog) Verb(id int64) (*models.Verb, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.verbs[i], true
}

// Verbs returns every verb ordered by id
func (c *Catalog) Verbs() []models.Verb {
	return c.verbs
}

// Forms returns the paradigm of a verb
func (c *Catalog) Forms(verbID int64) []FormEntry {
	return c.forms[verbID]
}

// IDsForUnits returns the ids of verbs introduced in any of units
func (c *Catalog) IDsForUnits(units []int) []int64 {
	want := make(map[int]bool, len(units))
	for _, u := range units {
		want[u] = true
	}
	var ids []int64
	for _, v := range c.verbs {
		if want[v.Unit] {
			ids = append(ids, v.ID)
		}
	}
	return ids
}
