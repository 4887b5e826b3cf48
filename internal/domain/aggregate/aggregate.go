// Package aggregate partitions member records into chart categories and
// determines their display order and axis positions.
package aggregate

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/epwatch/rebelboard/internal/domain/groups"
	"github.com/epwatch/rebelboard/internal/domain/model"
)

// Default aggregator configuration constants.
const (
	defaultJitterAmount = 0.3
	defaultRandomSeed   = 42
)

// Category is one ordered partition of the record set.
type Category struct {
	Key      string
	Position int
	// Mean is the arithmetic mean of the dimension-specific rebel score
	// over records carrying a usable value; 0 when none do.
	Mean float64
	// Count is the number of records in the category, including records
	// whose score field was unusable.
	Count int
}

// Result pairs the ordered categories with their record lists.
type Result struct {
	Categories []Category
	Records    map[string][]model.MemberRecord
}

// Aggregate partitions records by the dimension's key, computes per-category
// means and assigns sequential positions in display order. Records with an
// empty key are excluded entirely. Group categories follow the fixed
// ideological ordering with unknown codes last in encounter order; country
// categories sort ascending by mean (least divided first).
func Aggregate(records []model.MemberRecord, d model.Dimension) Result {
	byKey := make(map[string][]model.MemberRecord)
	var encounter []string
	for _, r := range records {
		key := r.Key(d)
		if key == "" {
			continue
		}
		if _, seen := byKey[key]; !seen {
			encounter = append(encounter, key)
		}
		byKey[key] = append(byKey[key], r)
	}

	cats := make([]Category, 0, len(encounter))
	for _, key := range encounter {
		cats = append(cats, Category{
			Key:   key,
			Mean:  meanScore(byKey[key], d),
			Count: len(byKey[key]),
		})
	}

	switch d {
	case model.ByCountry:
		sort.SliceStable(cats, func(i, j int) bool {
			return cats[i].Mean < cats[j].Mean
		})
	default:
		sort.SliceStable(cats, func(i, j int) bool {
			oi, iKnown := groups.Order(cats[i].Key)
			oj, jKnown := groups.Order(cats[j].Key)
			switch {
			case iKnown && jKnown:
				return oi < oj
			case iKnown:
				return true
			case jKnown:
				return false
			default:
				return false // both unknown: keep encounter order
			}
		})
	}

	for i := range cats {
		cats[i].Position = i
	}

	return Result{Categories: cats, Records: byKey}
}

// meanScore averages the dimension-specific rebel score over records with a
// usable value. Records without one are excluded from both sum and count.
func meanScore(records []model.MemberRecord, d model.Dimension) float64 {
	sum := 0.0
	n := 0
	for _, r := range records {
		if v, ok := r.RebelScore(d).Float64(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Jitterer perturbs axis positions so overlapping points separate visually.
// One Jitterer is shared across requests; draws are serialized because
// math/rand sources are not goroutine-safe.
type Jitterer struct {
	amount float64
	mu     sync.Mutex
	rng    *rand.Rand
}

// Option applies a configuration option to the Jitterer.
type Option func(*Jitterer)

// WithAmount sets the total jitter width; offsets stay within ±amount/2.
func WithAmount(amount float64) Option {
	return func(j *Jitterer) {
		if amount >= 0 {
			j.amount = amount
		}
	}
}

// WithSource sets the random source, letting tests pin the sequence.
func WithSource(src rand.Source) Option {
	return func(j *Jitterer) {
		if src != nil {
			j.rng = rand.New(src) //nolint:gosec // jitter is cosmetic, not security sensitive
		}
	}
}

// NewJitterer creates a Jitterer with the default amount and a deterministic
// seed, matching the scoring conventions used elsewhere in the service.
func NewJitterer(opts ...Option) *Jitterer {
	j := &Jitterer{
		amount: defaultJitterAmount,
		rng:    rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // deterministic seed for reproducible charts
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Jitter returns value offset by a uniform draw in [-amount/2, +amount/2].
// Safe for concurrent use.
func (j *Jitterer) Jitter(value float64) float64 {
	if j.amount == 0 {
		return value
	}
	j.mu.Lock()
	draw := j.rng.Float64()
	j.mu.Unlock()
	return value + (draw-0.5)*j.amount
}

// Amount returns the configured jitter width.
func (j *Jitterer) Amount() float64 { return j.amount }
