package scene

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// SurveyResult summarizes many independent generations of one configuration.
type SurveyResult struct {
	// Runs is the number of generations performed.
	Runs int
	// MinAccepted, MaxAccepted and MeanAccepted describe the accepted sphere counts across runs.
	MinAccepted, MaxAccepted int
	MeanAccepted             float64
	// Metallic is the total number of metallic spheres across runs.
	Metallic int
	// Violations counts sphere pairs that overlap. A correct generator always reports 0.
	Violations int
}

// Surveyor runs seeded generations in parallel on a worker pool.
type Surveyor struct {
	pool worker.DynamicWorkerPool
}

// NewSurveyor creates a Surveyor backed by workers goroutines. Values below 1 default to runtime.NumCPU()-1.
//
// Parameters:
//   - workers: the number of pool workers
//
// Returns:
//   - *Surveyor: the new surveyor
func NewSurveyor(workers int) *Surveyor {
	if workers < 1 {
		workers = max(runtime.NumCPU()-1, 1)
	}
	return &Surveyor{
		pool: worker.NewDynamicWorkerPool(workers, 256, 1*time.Second),
	}
}

// Survey generates one scene per seed with the given parameters and aggregates the results.
// Each seed is generated independently on the pool; the call blocks until all runs finish.
//
// Parameters:
//   - capacity: the number of placement trials per run
//   - radiusRange: the [min, max] radius range
//   - placementRadius: the placement disk radius
//   - seeds: one seed per run
//
// Returns:
//   - SurveyResult: the aggregated statistics
func (s *Surveyor) Survey(capacity uint32, radiusRange [2]float32, placementRadius float32, seeds []int64) SurveyResult {
	type runStats struct {
		accepted, metallic, violations int
	}
	stats := make([]runStats, len(seeds))

	var wg sync.WaitGroup
	for i, seed := range seeds {
		wg.Add(1)
		idx := i
		s.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()

				spheres := Generate(capacity, radiusRange, placementRadius, NewRandomSource(seed))
				st := runStats{accepted: len(spheres), violations: CountOverlaps(spheres)}
				for _, sp := range spheres {
					if sp.Metallic() {
						st.metallic++
					}
				}
				stats[idx] = st
				return nil, nil
			},
		})
	}
	wg.Wait()

	res := SurveyResult{Runs: len(seeds)}
	if len(stats) == 0 {
		return res
	}
	res.MinAccepted = stats[0].accepted
	total := 0
	for _, st := range stats {
		res.MinAccepted = min(res.MinAccepted, st.accepted)
		res.MaxAccepted = max(res.MaxAccepted, st.accepted)
		res.Metallic += st.metallic
		res.Violations += st.violations
		total += st.accepted
	}
	res.MeanAccepted = float64(total) / float64(len(stats))
	return res
}

// Release stops the pool workers. The Surveyor must not be used afterwards.
func (s *Surveyor) Release() {
	s.pool.Stop()
}

// CountOverlaps returns the number of sphere pairs that overlap.
//
// Parameters:
//   - spheres: the spheres to check
//
// Returns:
//   - int: the overlapping pair count
func CountOverlaps(spheres []Sphere) int {
	n := 0
	for i := range spheres {
		for j := i + 1; j < len(spheres); j++ {
			if spheres[i].Overlaps(spheres[j]) {
				n++
			}
		}
	}
	return n
}
