package sarima

import (
	"errors"
	"runtime"
	"sort"
	"sync"

	"github.com/rellumm/CPI-Time-Series/timeseries"
)

var ErrNoConvergentFit = errors.New("no candidate model converged")

// Bounds limits the automatic order search. Differencing orders are fixed
// by the caller; only the AR/MA orders are searched.
type Bounds struct {
	MaxP  int
	MaxQ  int
	MaxSP int
	MaxSQ int

	D      int
	SD     int
	Period int
}

func NewDefaultBounds(period int) Bounds {
	return Bounds{
		MaxP:   2,
		MaxQ:   2,
		MaxSP:  1,
		MaxSQ:  1,
		D:      1,
		SD:     1,
		Period: period,
	}
}

// AutoFit fits every (p,q,P,Q) combination within bounds and returns the
// convergent fit with the lowest AICc. Ties are broken by the smaller
// parameter count, then by order spec for determinism. Candidate fits are
// independent, so they run concurrently on a bounded worker pool.
func AutoFit(ts *timeseries.TimeSeries, bounds Bounds, opt *Options) (*Model, error) {
	specs := make([]Spec, 0, (bounds.MaxP+1)*(bounds.MaxQ+1)*(bounds.MaxSP+1)*(bounds.MaxSQ+1))
	for p := 0; p <= bounds.MaxP; p++ {
		for q := 0; q <= bounds.MaxQ; q++ {
			for sp := 0; sp <= bounds.MaxSP; sp++ {
				for sq := 0; sq <= bounds.MaxSQ; sq++ {
					specs = append(specs, Spec{
						P: p, D: bounds.D, Q: q,
						SP: sp, SD: bounds.SD, SQ: sq,
						Period: bounds.Period,
					})
				}
			}
		}
	}

	jobs := make(chan Spec)
	fits := make(chan *Model, len(specs))

	workers := runtime.NumCPU()
	if workers > len(specs) {
		workers = len(specs)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for spec := range jobs {
				m, err := Fit(ts, spec, opt)
				if err != nil {
					// non-convergent or infeasible candidates are skipped;
					// the caller only needs the best convergent fit
					continue
				}
				fits <- m
			}
		}()
	}

	for _, spec := range specs {
		jobs <- spec
	}
	close(jobs)
	wg.Wait()
	close(fits)

	candidates := make([]*Model, 0, len(specs))
	for m := range fits {
		candidates = append(candidates, m)
	}
	if len(candidates) == 0 {
		return nil, ErrNoConvergentFit
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].AICc != candidates[j].AICc {
			return candidates[i].AICc < candidates[j].AICc
		}
		if candidates[i].Spec.NumParams() != candidates[j].Spec.NumParams() {
			return candidates[i].Spec.NumParams() < candidates[j].Spec.NumParams()
		}
		return candidates[i].Spec.String() < candidates[j].Spec.String()
	})
	return candidates[0], nil
}
