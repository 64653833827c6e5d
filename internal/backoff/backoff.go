package backoff

import (
	"math/rand"
	"sync"
	"time"
)

// maxShift caps the exponent so the delay calculation cannot overflow.
const maxShift = 62

// Strategy computes the delay before a retry attempt.
type Strategy interface {
	// Delay returns the wait before retry number attempt.
	// attempt is 0-indexed: 0 is the wait after the first failure.
	Delay(attempt int) time.Duration

	// Reset clears any per-task state. Stateless strategies may no-op.
	Reset()
}

// Type selects a backoff algorithm.
type Type int

const (
	// Exponential doubles the delay after every failed attempt.
	Exponential Type = iota
	// Jittered applies a random factor around the exponential delay
	// to avoid synchronized retries.
	Jittered
	// Decorrelated implements AWS-style decorrelated jitter, where each
	// delay is drawn from [initial, 3*previous].
	Decorrelated
)

// New builds a Strategy for the given type. jitterFactor only applies to
// the Jittered type and is clamped to [0, 1].
func New(t Type, initial, max time.Duration, jitterFactor float64) Strategy {
	switch t {
	case Jittered:
		return &jittered{
			initial: initial,
			max:     max,
			factor:  clamp(jitterFactor, 0, 1),
			rng:     rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- jitter does not need crypto rand
		}
	case Decorrelated:
		return &decorrelated{
			initial: initial,
			max:     max,
			prev:    initial,
			rng:     rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- jitter does not need crypto rand
		}
	default:
		return exponential{initial: initial, max: max}
	}
}

// exponential is the default strategy: initial * 2^attempt, capped at max.
type exponential struct {
	initial time.Duration
	max     time.Duration
}

func (e exponential) Delay(attempt int) time.Duration {
	return expDelay(attempt, e.initial, e.max)
}

func (exponential) Reset() {}

// jittered scales the exponential delay by a random factor in
// [1-jitterFactor, 1+jitterFactor].
type jittered struct {
	initial time.Duration
	max     time.Duration
	factor  float64

	mu  sync.Mutex
	rng *rand.Rand
}

func (j *jittered) Delay(attempt int) time.Duration {
	base := expDelay(attempt, j.initial, j.max)

	j.mu.Lock()
	mult := 1.0 + (j.rng.Float64()*2-1)*j.factor
	j.mu.Unlock()

	return clamp(time.Duration(float64(base)*mult), 0, j.max)
}

func (*jittered) Reset() {}

// decorrelated draws each delay from [initial, 3*previous], capped at max.
// Tying each delay to the previous one decorrelates concurrent tasks that
// failed together, which plain jitter does not.
type decorrelated struct {
	initial time.Duration
	max     time.Duration

	mu   sync.Mutex
	prev time.Duration
	rng  *rand.Rand
}

func (d *decorrelated) Delay(attempt int) time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	if attempt <= 0 {
		d.prev = d.initial
		return d.initial
	}

	upper := min(3*d.prev, d.max)
	span := upper - d.initial
	if span <= 0 {
		d.prev = d.initial
		return d.initial
	}

	delay := d.initial + time.Duration(d.rng.Int63n(int64(span)))
	d.prev = delay
	return delay
}

func (d *decorrelated) Reset() {
	d.mu.Lock()
	d.prev = d.initial
	d.mu.Unlock()
}

func expDelay(attempt int, initial, max time.Duration) time.Duration {
	if attempt < 0 {
		return 0
	}
	if attempt >= maxShift {
		return max
	}

	delay := time.Duration(int64(1)<<uint(attempt)) * initial
	if delay > max || delay < 0 {
		return max
	}
	return delay
}

func clamp[T int | int64 | float64 | time.Duration](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
