package models

// Person of a finite verb form; PersonNone for infinitives and participles
type Person int

const (
	PersonNone Person = iota
	PersonFirst
	PersonSecond
	PersonThird
)

// Number of a finite verb form
type Number int

const (
	NumberNone Number = iota
	NumberSingular
	NumberDual
	NumberPlural
)

// Tense of a verb form
type Tense int

const (
	TenseNone Tense = iota
	TensePresent
	TenseImperfect
	TenseFuture
	TenseAorist
	TensePerfect
	TensePluperfect
	TenseFuturePerfect
)

// Voice of a verb form
type Voice int

const (
	VoiceNone Voice = iota
	VoiceActive
	VoiceMiddle
	VoicePassive
	VoiceMiddlePassive
)

// Mood of a verb form
type Mood int

const (
	MoodNone Mood = iota
	MoodIndicative
	MoodSubjunctive
	MoodOptative
	MoodImperative
	MoodInfinitive
	MoodParticiple
)

var (
	PersonNames = []string{"", "first", "second", "third"}
	NumberNames = []string{"", "singular", "dual", "plural"}
	TenseNames  = []string{"", "present", "imperfect", "future", "aorist", "perfect", "pluperfect", "future perfect"}
	VoiceNames  = []string{"", "active", "middle", "passive", "middle/passive"}
	MoodNames   = []string{"", "indicative", "subjunctive", "optative", "imperative", "infinitive", "participle"}
)

func name(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

func (p Person) String() string { return name(PersonNames, int(p)) }
func (n Number) String() string { return name(NumberNames, int(n)) }
func (t Tense) String() string  { return name(TenseNames, int(t)) }
func (v Voice) String() string  { return name(VoiceNames, int(v)) }
func (m Mood) String() string   { return name(MoodNames, int(m)) }

// Form is the grammatical-parameter tuple that identifies one question
type Form struct {
	VerbID int64  `json:"verb"`
	Person Person `json:"person"`
	Number Number `json:"number"`
	Tense  Tense  `json:"tense"`
	Voice  Voice  `json:"voice"`
	Mood   Mood   `json:"mood"`
}

// DefaultForm is the lemma slot (first singular present active
// indicative) practice sessions start changing from
func DefaultForm(verbID int64) Form {
	return Form{
		VerbID: verbID,
		Person: PersonFirst,
		Number: NumberSingular,
		Tense:  TensePresent,
		Voice:  VoiceActive,
		Mood:   MoodIndicative,
	}
}

// Changes counts the grammatical categories in which f and other differ.
// The verb is not a category.
func (f Form) Changes(other Form) int {
	n := 0
	if f.Person != other.Person {
		n++
	}
	if f.Number != other.Number {
		n++
	}
	if f.Tense != other.Tense {
		n++
	}
	if f.Voice != other.Voice {
		n++
	}
	if f.Mood != other.Mood {
		n++
	}
	return n
}

// Valid reports whether every category holds a known value
func (f Form) Valid() bool {
	return f.VerbID > 0 &&
		int(f.Person) >= 0 && int(f.Person) < len(PersonNames) &&
		int(f.Number) >= 0 && int(f.Number) < len(NumberNames) &&
		f.Tense > TenseNone && int(f.Tense) < len(TenseNames) &&
		f.Voice > VoiceNone && int(f.Voice) < len(VoiceNames) &&
		f.Mood > MoodNone && int(f.Mood) < len(MoodNames)
}
