// Package scene generates the sphere scenes the ray tracer renders. Generation is a single pass of independent
// placement trials; overlapping candidates are dropped rather than retried.
package scene

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"
)

// Generator produces scene Buffers from a fixed set of generation parameters.
// A Generator is safe for concurrent use; each Generate call draws from its own random stream.
type Generator interface {
	// Generate runs the placement trials and returns the accepted spheres as a new Buffer.
	//
	// Returns:
	//   - *Buffer: the generated scene, possibly empty
	Generate() *Buffer

	// Capacity returns the number of placement trials per generation.
	//
	// Returns:
	//   - uint32: the trial count
	Capacity() uint32

	// RadiusRange returns the [min, max] sphere radius range.
	//
	// Returns:
	//   - [2]float32: the radius range
	RadiusRange() [2]float32

	// PlacementRadius returns the radius of the placement disk.
	//
	// Returns:
	//   - float32: the placement radius
	PlacementRadius() float32
}

type generator struct {
	mu *sync.Mutex

	capacity        uint32
	radiusRange     [2]float32
	placementRadius float32

	seed   int64
	rng    RandomSource
	logger *slog.Logger
}

var _ Generator = &generator{}

// NewGenerator creates a new Generator with the provided options.
// Defaults to 100 trials, radius range [3, 8], placement radius 100 and a time-based seed per generation.
//
// Parameters:
//   - options: variadic list of GeneratorBuilderOption functions
//
// Returns:
//   - Generator: the newly created Generator
func NewGenerator(options ...GeneratorBuilderOption) Generator {
	g := &generator{
		mu:              &sync.Mutex{},
		capacity:        100,
		radiusRange:     [2]float32{3, 8},
		placementRadius: 100,
		logger:          slog.Default(),
	}

	for _, opt := range options {
		opt(g)
	}

	return g
}

func (g *generator) Generate() *Buffer {
	g.mu.Lock()
	defer g.mu.Unlock()

	seed := g.seed
	rng := g.rng
	if rng == nil {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = NewRandomSource(seed)
	}

	spheres := Generate(g.capacity, g.radiusRange, g.placementRadius, rng)
	g.logger.Info("scene generated",
		slog.Int("accepted", len(spheres)),
		slog.Uint64("capacity", uint64(g.capacity)),
		slog.Int64("seed", seed),
	)
	return NewBuffer(seed, spheres)
}

func (g *generator) Capacity() uint32 {
	return g.capacity
}

func (g *generator) RadiusRange() [2]float32 {
	return g.radiusRange
}

func (g *generator) PlacementRadius() float32 {
	return g.placementRadius
}

// NewRandomSource returns a deterministic RandomSource for the given seed.
//
// Parameters:
//   - seed: the seed for the PCG stream
//
// Returns:
//   - RandomSource: the seeded source
func NewRandomSource(seed int64) RandomSource {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}
