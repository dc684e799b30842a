package morph

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"verbclash/internal/models"
)

var (
	// ErrNoSuchForm means the paradigm has no cell for the requested tuple
	ErrNoSuchForm = errors.New("form does not exist")
	// ErrNoForms means the verb has no paradigm to draw a question from
	ErrNoForms = errors.New("verb has no forms")
)

// Engine renders, grades and generates verb forms
type Engine interface {
	Render(verb *models.Verb, form models.Form) (string, error)
	Compare(canonical, input string) bool
	RandomForm(verb *models.Verb, prev models.Form, maxChanges int, highestUnit *int, customParams string) (models.Form, error)
	Collate(a, b string) int
}

var _ Engine = (*TableEngine)(nil)

// TableEngine answers morphology questions from the catalog's paradigm tables
type TableEngine struct {
	catalog  *Catalog
	collator *Collator

	mu  sync.Mutex
	rng *rand.Rand
}

// NewTableEngine creates an engine over catalog. A nil src seeds from the runtime.
func NewTableEngine(catalog *Catalog, src rand.Source) *TableEngine {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &TableEngine{
		catalog:  catalog,
		collator: NewCollator(language.Greek),
		rng:      rand.New(src),
	}
}

// Render returns the surface form(s) for verb in form
func (e *TableEngine) Render(verb *models.Verb, form models.Form) (string, error) {
	for _, entry := range e.catalog.Forms(verb.ID) {
		if entry.toForm(verb.ID) == withVerb(form, verb.ID) {
			if entry.Form == "" || entry.Form == models.DashPlaceholder {
				break
			}
			return entry.Form, nil
		}
	}
	return "", fmt.Errorf("%w: verb %d %s %s %s %s %s", ErrNoSuchForm, verb.ID,
		form.Person, form.Number, form.Tense, form.Voice, form.Mood)
}

// Compare grades a typed answer against the canonical form(s)
func (e *TableEngine) Compare(canonical, input string) bool {
	return CompareForms(canonical, input)
}

// Collate orders two headwords
func (e *TableEngine) Collate(a, b string) int {
	return e.collator.Compare(a, b)
}

// RandomForm picks the next question for verb. It prefers forms that
// differ from prev in between 1 and maxChanges categories, are taught by
// highestUnit and pass the customParams filter, relaxing those
// constraints in turn when nothing qualifies.
func (e *TableEngine) RandomForm(verb *models.Verb, prev models.Form, maxChanges int, highestUnit *int, customParams string) (models.Form, error) {
	filter, err := ParseFilter(customParams)
	if err != nil {
		return models.Form{}, err
	}

	var allowed, all []models.Form
	for _, entry := range e.catalog.Forms(verb.ID) {
		if entry.Form == "" || entry.Form == models.DashPlaceholder {
			continue
		}
		f := entry.toForm(verb.ID)
		all = append(all, f)
		if highestUnit != nil && entry.Unit > *highestUnit {
			continue
		}
		if !filter.Allows(f) {
			continue
		}
		allowed = append(allowed, f)
	}
	if len(all) == 0 {
		return models.Form{}, fmt.Errorf("%w: verb %d", ErrNoForms, verb.ID)
	}

	var withinLimit, changed []models.Form
	for _, f := range allowed {
		n := f.Changes(prev)
		if n >= 1 {
			changed = append(changed, f)
			if n <= maxChanges {
				withinLimit = append(withinLimit, f)
			}
		}
	}

	for _, pool := range [][]models.Form{withinLimit, changed, allowed, all} {
		if len(pool) > 0 {
			return e.pick(pool), nil
		}
	}
	return models.Form{}, fmt.Errorf("%w: verb %d", ErrNoForms, verb.ID)
}

func (e *TableEngine) pick(forms []models.Form) models.Form {
	e.mu.Lock()
	defer e.mu.Unlock()
	return forms[e.rng.IntN(len(forms))]
}

func withVerb(f models.Form, verbID int64) models.Form {
	f.VerbID = verbID
	return f
}

// Filter restricts the categories a practice session may ask about.
// A nil map for a category allows every value.
type Filter struct {
	persons map[models.Person]bool
	numbers map[models.Number]bool
	tenses  map[models.Tense]bool
	voices  map[models.Voice]bool
	moods   map[models.Mood]bool
}

// ParseFilter reads "category=value|value;category=value", for example
// "tense=present|aorist;mood=indicative". The empty string allows everything.
func ParseFilter(s string) (Filter, error) {
	var f Filter
	for _, clause := range strings.Split(s, ";") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		category, values, ok := strings.Cut(clause, "=")
		if !ok {
			return Filter{}, fmt.Errorf("invalid filter clause %q", clause)
		}

		var names []string
		switch strings.TrimSpace(category) {
		case "person":
			names = models.PersonNames
		case "number":
			names = models.NumberNames
		case "tense":
			names = models.TenseNames
		case "voice":
			names = models.VoiceNames
		case "mood":
			names = models.MoodNames
		default:
			return Filter{}, fmt.Errorf("unknown filter category %q", category)
		}

		set := make(map[int]bool)
		for _, v := range strings.Split(values, "|") {
			i := indexOf(names, strings.TrimSpace(v))
			if i < 1 {
				return Filter{}, fmt.Errorf("unknown %s %q", category, v)
			}
			set[i] = true
		}

		switch strings.TrimSpace(category) {
		case "person":
			f.persons = convertSet[models.Person](set)
		case "number":
			f.numbers = convertSet[models.Number](set)
		case "tense":
			f.tenses = convertSet[models.Tense](set)
		case "voice":
			f.voices = convertSet[models.Voice](set)
		case "mood":
			f.moods = convertSet[models.Mood](set)
		}
	}
	return f, nil
}

// Allows reports whether form passes every category restriction.
// Forms without a person or number (infinitives, participles) are not
// held to person/number restrictions.
func (f Filter) Allows(form models.Form) bool {
	if f.persons != nil && form.Person != models.PersonNone && !f.persons[form.Person] {
		return false
	}
	if f.numbers != nil && form.Number != models.NumberNone && !f.numbers[form.Number] {
		return false
	}
	if f.tenses != nil && !f.tenses[form.Tense] {
		return false
	}
	if f.voices != nil && !f.voices[form.Voice] {
		return false
	}
	if f.moods != nil && !f.moods[form.Mood] {
		return false
	}
	return true
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func convertSet[T ~int](set map[int]bool) map[T]bool {
	out := make(map[T]bool, len(set))
	for k := range set {
		out[T(k)] = true
	}
	return out
}
