package service

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeVerbs(t *testing.T) {
	tests := []struct {
		name    string
		history []int64
		reps    int
		want    bool
	}{
		{"empty history", nil, 3, true},
		{"empty history single rep", []int64{}, 1, true},
		{"quota reached", []int64{5, 5, 5}, 3, true},
		{"quota not reached", []int64{5, 5}, 3, false},
		{"verb changed inside window", []int64{5, 5, 4}, 3, false},
		{"older entries ignored", []int64{5, 5, 5, 4, 4}, 3, true},
		{"single rep always changes", []int64{7}, 1, true},
		{"zero reps treated as one", []int64{7}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, changeVerbs(tt.history, tt.reps))
		})
	}
}

func TestAvailableVerbsPractice(t *testing.T) {
	pool := []int64{1, 2, 3}

	tests := []struct {
		name    string
		pool    []int64
		history []int64
		reps    int
		want    []int64
	}{
		{"nothing used", pool, nil, 1, []int64{1, 2, 3}},
		{"one used", pool, []int64{1}, 1, []int64{2, 3}},
		{"full rotation holds back the last verb", pool, []int64{3, 1, 2}, 1, []int64{1, 2}},
		{"repeats count toward the rotation", pool, []int64{1, 1, 2, 2}, 2, []int64{3}},
		{"second rotation starts fresh", pool, []int64{2, 3, 1, 2}, 1, []int64{1, 3}},
		{"single verb pool empties", []int64{9}, []int64{9, 9}, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, availableVerbsPractice(tt.pool, tt.history, tt.reps))
		})
	}
}

func TestSchedulerNextVerb(t *testing.T) {
	s := NewScheduler(rand.NewPCG(1, 2))

	// Not due to change: keep the current verb
	assert.Equal(t, int64(2), s.NextVerb([]int64{1, 2, 3}, []int64{2}, 4, 2))

	// One candidate left: deterministic
	assert.Equal(t, int64(3), s.NextVerb([]int64{1, 2, 3}, []int64{1, 1, 2, 2}, 2, 1))

	// Nothing left: fall back to the pool
	assert.Equal(t, int64(9), s.NextVerb([]int64{9}, []int64{9, 9}, 2, 9))

	// Random choices stay inside the candidate set
	for i := 0; i < 50; i++ {
		got := s.NextVerb([]int64{1, 2, 3}, []int64{1}, 1, 1)
		assert.Contains(t, []int64{2, 3}, got)
	}
}

func TestSchedulerCoversCandidates(t *testing.T) {
	s := NewScheduler(rand.NewPCG(7, 7))
	seen := map[int64]bool{}
	for i := 0; i < 200; i++ {
		seen[s.NextVerb([]int64{1, 2, 3, 4}, nil, 4, 0)] = true
	}
	assert.Len(t, seen, 4, "a uniform pick should reach every verb")
}
