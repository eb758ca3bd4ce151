package paran

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/litescript/astromap/internal/astro"
	"github.com/litescript/astromap/internal/ephemeris"
)

// Options configures a batch evaluation.
type Options struct {
	Config     Config
	Visibility VisibilityMode
	// Workers bounds the evaluation pool; 0 means GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the standard batch policy.
func DefaultOptions() Options {
	return Options{Config: DefaultConfig(), Visibility: VisibilityAll}
}

// PairResult couples a query with its outcome.
type PairResult struct {
	Query  Query
	Result Result
}

// EnumerateQueries lists the ordered (body, angle) pairs for every
// unordered body pair in the batch: all meridian-horizon combinations in
// both directions, the four horizon-horizon combinations, and the four
// both-meridian combinations (which Solve short-circuits as degenerate
// without touching the numeric solver).
func EnumerateQueries(b *ephemeris.Batch) []Query {
	ids := b.Bodies()
	var queries []Query

	meridians := []astro.AngleKind{astro.UpperCulm, astro.LowerCulm}
	horizons := []astro.AngleKind{astro.Rise, astro.Set}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, bID := ids[i], ids[j]

			for _, m := range meridians {
				for _, h := range horizons {
					queries = append(queries,
						Query{BodyA: a, AngleA: m, BodyB: bID, AngleB: h},
						Query{BodyA: a, AngleA: h, BodyB: bID, AngleB: m},
					)
				}
			}
			for _, hA := range horizons {
				for _, hB := range horizons {
					queries = append(queries, Query{BodyA: a, AngleA: hA, BodyB: bID, AngleB: hB})
				}
			}
			for _, mA := range meridians {
				for _, mB := range meridians {
					queries = append(queries, Query{BodyA: a, AngleA: mA, BodyB: bID, AngleB: mB})
				}
			}
		}
	}
	return queries
}

// Evaluate solves every enumerated query against the batch using a bounded
// worker pool. Each unit of work is pure: it reads the shared immutable
// batch and writes only its own result slot, so cancellation simply stops
// submitting work — results produced before cancellation are returned as a
// valid partial batch, in enumeration order.
func Evaluate(ctx context.Context, b *ephemeris.Batch, opts Options) ([]PairResult, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	queries := EnumerateQueries(b)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(queries) {
		workers = len(queries)
	}

	type job struct {
		idx int
		q   Query
	}
	jobs := make(chan job)

	var mu sync.Mutex
	done := make(map[int]PairResult, len(queries))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jb := range jobs {
				res := Solve(b, jb.q, opts.Config)
				res = applyVisibility(b, jb.q, res, opts.Visibility)
				mu.Lock()
				done[jb.idx] = PairResult{Query: jb.q, Result: res}
				mu.Unlock()
			}
		}()
	}

submit:
	for i, q := range queries {
		select {
		case <-ctx.Done():
			break submit
		case jobs <- job{idx: i, q: q}:
		}
	}
	close(jobs)
	wg.Wait()

	idxs := make([]int, 0, len(done))
	for i := range done {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)

	out := make([]PairResult, 0, len(done))
	for _, i := range idxs {
		out = append(out, done[i])
	}
	return out, ctx.Err()
}
