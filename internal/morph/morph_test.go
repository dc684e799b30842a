package morph

import (
	"math/rand/v2"
	"os"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"verbclash/internal/models"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	f, err := os.Open("../../data/verbs.json")
	require.NoError(t, err)
	defer f.Close()

	c, err := ParseCatalog(f)
	require.NoError(t, err)
	return c
}

func intPtr(v int) *int { return &v }

func TestCatalogLookups(t *testing.T) {
	c := loadTestCatalog(t)

	v, ok := c.Verb(1)
	require.True(t, ok)
	assert.Equal(t, "παιδεύω", v.Headword())

	_, ok = c.Verb(999)
	assert.False(t, ok)

	assert.Equal(t, []int64{1, 2}, c.IDsForUnits([]int{2}))
	assert.Equal(t, []int64{1, 2, 3}, c.IDsForUnits([]int{2, 3}))
	assert.Empty(t, c.IDsForUnits([]int{19}))

	dashed, ok := c.Verb(4)
	require.True(t, ok)
	assert.Equal(t, "—, ἐρῶ", dashed.Headword())
}

func TestNewCatalogSortsByID(t *testing.T) {
	c := NewCatalog([]VerbEntry{
		{Verb: models.Verb{ID: 5, Unit: 3}},
		{Verb: models.Verb{ID: 2, Unit: 2}},
	})
	verbs := c.Verbs()
	require.Len(t, verbs, 2)
	assert.Equal(t, int64(2), verbs[0].ID)
	assert.Equal(t, int64(5), verbs[1].ID)
}

func TestRender(t *testing.T) {
	c := loadTestCatalog(t)
	e := NewTableEngine(c, rand.NewPCG(1, 2))
	verb, _ := c.Verb(1)

	got, err := e.Render(verb, models.DefaultForm(1))
	require.NoError(t, err)
	assert.Equal(t, "παιδεύω", got)

	mp := models.Form{VerbID: 1, Person: models.PersonSecond, Number: models.NumberSingular,
		Tense: models.TensePresent, Voice: models.VoiceMiddlePassive, Mood: models.MoodIndicative}
	got, err = e.Render(verb, mp)
	require.NoError(t, err)
	assert.True(t, HasMultipleForms(got))

	_, err = e.Render(verb, models.Form{VerbID: 1, Person: models.PersonFirst, Number: models.NumberDual,
		Tense: models.TensePresent, Voice: models.VoiceActive, Mood: models.MoodIndicative})
	assert.ErrorIs(t, err, ErrNoSuchForm)

	dashed, _ := c.Verb(4)
	_, err = e.Render(dashed, models.DefaultForm(4))
	assert.ErrorIs(t, err, ErrNoSuchForm, "a dash cell is a missing form")
}

func TestRandomFormRespectsMaxChanges(t *testing.T) {
	c := loadTestCatalog(t)
	e := NewTableEngine(c, rand.NewPCG(7, 7))
	verb, _ := c.Verb(1)
	prev := models.DefaultForm(1)

	for i := 0; i < 200; i++ {
		f, err := e.RandomForm(verb, prev, 1, nil, "")
		require.NoError(t, err)
		assert.Equal(t, int64(1), f.VerbID)
		assert.Equal(t, 1, f.Changes(prev), "form %+v", f)
	}
}

func TestRandomFormRespectsHighestUnit(t *testing.T) {
	c := loadTestCatalog(t)
	e := NewTableEngine(c, rand.NewPCG(3, 4))
	verb, _ := c.Verb(1)

	for i := 0; i < 200; i++ {
		f, err := e.RandomForm(verb, models.DefaultForm(1), 5, intPtr(2), "")
		require.NoError(t, err)
		assert.Equal(t, models.TensePresent, f.Tense)
		assert.NotEqual(t, models.VoiceMiddlePassive, f.Voice)
	}
}

func TestRandomFormAppliesFilter(t *testing.T) {
	c := loadTestCatalog(t)
	e := NewTableEngine(c, rand.NewPCG(5, 6))
	verb, _ := c.Verb(2)

	for i := 0; i < 100; i++ {
		f, err := e.RandomForm(verb, models.DefaultForm(2), 5, nil, "tense=aorist")
		require.NoError(t, err)
		assert.Equal(t, models.TenseAorist, f.Tense)
	}
}

func TestRandomFormChangingVerb(t *testing.T) {
	c := loadTestCatalog(t)
	e := NewTableEngine(c, rand.NewPCG(9, 9))
	verb, _ := c.Verb(4)

	f, err := e.RandomForm(verb, models.DefaultForm(1), 2, nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(4), f.VerbID)
	assert.Equal(t, models.TenseAorist, f.Tense, "only aorist cells of verb 4 exist")
}

func TestRandomFormErrors(t *testing.T) {
	c := NewCatalog([]VerbEntry{{Verb: models.Verb{ID: 1, Unit: 2}}})
	e := NewTableEngine(c, nil)
	verb, _ := c.Verb(1)

	_, err := e.RandomForm(verb, models.DefaultForm(1), 2, nil, "")
	assert.ErrorIs(t, err, ErrNoForms)

	_, err = e.RandomForm(verb, models.DefaultForm(1), 2, nil, "tense=someday")
	assert.Error(t, err)
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"empty", "", false},
		{"single", "tense=aorist", false},
		{"several", "tense=present|aorist; mood=indicative", false},
		{"missing equals", "tense", true},
		{"unknown category", "aspect=perfective", true},
		{"unknown value", "mood=conditional", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(tt.in)
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}

	f, err := ParseFilter("person=first;mood=indicative|infinitive")
	require.NoError(t, err)
	assert.True(t, f.Allows(models.DefaultForm(1)))
	assert.False(t, f.Allows(models.Form{Person: models.PersonThird, Number: models.NumberSingular, Tense: models.TensePresent, Voice: models.VoiceActive, Mood: models.MoodIndicative}))
	assert.True(t, f.Allows(models.Form{Tense: models.TensePresent, Voice: models.VoiceActive, Mood: models.MoodInfinitive}),
		"infinitives are not held to person restrictions")
}

func TestCompareForms(t *testing.T) {
	tests := []struct {
		name      string
		canonical string
		input     string
		want      bool
	}{
		{"exact", "παιδεύω", "παιδεύω", true},
		{"surrounding space", "παιδεύω", "  παιδεύω ", true},
		{"wrong", "παιδεύω", "παιδεύει", false},
		{"empty answer", "παιδεύω", "", false},
		{"one of several", "παιδεύῃ, παιδεύει", "παιδεύει", true},
		{"both of several", "παιδεύῃ, παιδεύει", "παιδεύει / παιδεύῃ", true},
		{"one right one wrong", "παιδεύῃ, παιδεύει", "παιδεύει, παιδεύεις", false},
		{"case folded", "Λύω", "λύω", true},
		{"decomposed accents", "λύω", "λυ\u0301ω", true},
		{"hyphen for missing", "—", "-", true},
		{"double hyphen for missing", "—", "--", true},
		{"en dash for missing", "—", "–", true},
		{"dash when a form exists", "λύω", "—", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareForms(tt.canonical, tt.input))
		})
	}
}

func TestNormalizeDashes(t *testing.T) {
	assert.Equal(t, "—", NormalizeDashes("---"))
	assert.Equal(t, "—", NormalizeDashes(" ‐ "))
	assert.Equal(t, "λύ-ω", NormalizeDashes("λύ-ω"))
}

func TestHasMultipleForms(t *testing.T) {
	assert.True(t, HasMultipleForms("λύῃ, λύει"))
	assert.True(t, HasMultipleForms("λύῃ/λύει"))
	assert.False(t, HasMultipleForms("λύω"))
	assert.False(t, HasMultipleForms("—"))
}

func TestCollator(t *testing.T) {
	c := NewCollator(language.Greek)

	words := []string{"βάλλω", "αἱρέω", "ἄγω"}
	sort.Slice(words, func(i, j int) bool { return c.Compare(words[i], words[j]) < 0 })
	assert.Equal(t, []string{"ἄγω", "αἱρέω", "βάλλω"}, words)

	assert.Equal(t, 0, c.Compare("Λύω", "λυω"), "case and accents are ignored")
}
