package morph

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator orders headwords case- and diacritic-insensitively. A
// collate.Collator keeps scratch buffers, hence the mutex.
type Collator struct {
	mu sync.Mutex
	c  *collate.Collator
}

// NewCollator creates a collator for the given language
func NewCollator(tag language.Tag) *Collator {
	return &Collator{c: collate.New(tag, collate.IgnoreCase, collate.IgnoreDiacritics)}
}

// Compare returns -1, 0 or 1
func (c *Collator) Compare(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.CompareString(a, b)
}
