package service

import (
	"math/rand/v2"
	"sync"
)

// Scheduler picks the verb for the next practice question, rotating
// through the session's pool so no verb comes straight back.
type Scheduler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewScheduler creates a scheduler. A nil src seeds from the runtime.
func NewScheduler(src rand.Source) *Scheduler {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Scheduler{rng: rand.New(src)}
}

// NextVerb returns the verb to ask next. history holds the verb of every
// ask so far, newest first; current is the verb just answered.
func (s *Scheduler) NextVerb(pool, history []int64, reps int, current int64) int64 {
	if !changeVerbs(history, reps) || len(pool) == 0 {
		return current
	}

	candidates := availableVerbsPractice(pool, history, reps)
	if len(candidates) == 0 {
		candidates = pool
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return candidates[s.rng.IntN(len(candidates))]
}

// changeVerbs is true when practice should move to another verb: at the
// start, or once the verb at the head of history has been asked reps times.
func changeVerbs(history []int64, reps int) bool {
	if reps < 1 {
		reps = 1
	}
	if len(history) == 0 {
		return true
	}
	return len(history) >= reps && history[0] == history[reps-1]
}

// availableVerbsPractice returns the pool verbs not yet used in the
// current rotation. A rotation is len(pool)*reps asks; at a rotation
// boundary only the verb just finished is held back.
func availableVerbsPractice(pool, history []int64, reps int) []int64 {
	if reps < 1 {
		reps = 1
	}

	remainder := 0
	if cycle := len(pool) * reps; cycle > 0 {
		remainder = len(history) % cycle
	}

	excluded := make(map[int64]bool, remainder+1)
	for _, id := range history[:remainder] {
		excluded[id] = true
	}
	if remainder == 0 && len(history) > 0 {
		excluded[history[0]] = true
	}

	var candidates []int64
	for _, id := range pool {
		if !excluded[id] {
			candidates = append(candidates, id)
		}
	}
	return candidates
}
