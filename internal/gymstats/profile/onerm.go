package profile

// Observation is one candidate set for an exercise's one-rep max.
type Observation struct {
	Load float64
	Reps int
	Date string
}

func (o Observation) valid() bool {
	return o.Load > 0 && o.Reps > 0
}

// Estimate is the Epley estimate: load * (1 + reps/30).
func Estimate(load float64, reps int) float64 {
	return load * (1 + float64(reps)/30)
}

// BestOneRepMax returns the observation with the highest estimate.
// Equal estimates keep the first one. ok is false when no observation has both load and reps.
func BestOneRepMax(observations []Observation) (OneRepMax, bool) {
	t := newOneRepMaxTracker(nil)
	for _, o := range observations {
		t.observe("", o)
	}
	best, ok := t.best[""]
	return best.max, ok
}

type scoredMax struct {
	max   OneRepMax
	score float64
}

// oneRepMaxTracker keeps the running best per exercise. The score never leaves it.
type oneRepMaxTracker struct {
	best map[string]scoredMax
}

func newOneRepMaxTracker(seed map[string]OneRepMax) *oneRepMaxTracker {
	t := &oneRepMaxTracker{
		best: make(map[string]scoredMax, len(seed)),
	}
	for exercise, m := range seed {
		t.best[exercise] = scoredMax{max: m, score: m.Estimated()}
	}
	return t
}

// observe reports whether o replaced the stored best of the exercise.
func (t *oneRepMaxTracker) observe(exercise string, o Observation) bool {
	if !o.valid() {
		return false
	}
	score := Estimate(o.Load, o.Reps)
	if current, ok := t.best[exercise]; ok && score <= current.score {
		return false
	}
	t.best[exercise] = scoredMax{
		max:   OneRepMax{Value: o.Load, Reps: o.Reps, Date: o.Date},
		score: score,
	}
	return true
}

func (t *oneRepMaxTracker) result() map[string]OneRepMax {
	out := make(map[string]OneRepMax, len(t.best))
	for exercise, b := range t.best {
		out[exercise] = b.max
	}
	return out
}
