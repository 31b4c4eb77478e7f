package ntt

import (
	"fmt"
	"sync"

	"github.com/montanaflynn/stats"

	"github.com/wraythex/gmp-ecm/internal/xerr"
	"github.com/wraythex/gmp-ecm/spmod"
)

// PassKind tags one stage of a transform plan.
type PassKind int

const (
	// PassDirect is a single codelet call on a base-sized group.
	PassDirect PassKind = iota
	// PassTwiddle is a Cooley-Tukey radix-p stage within a prime-power
	// group larger than any base codelet.
	PassTwiddle
	// PassPFA is a Good-Thomas combination of two coprime groups.
	PassPFA
)

// Pass describes one stage of a Plan, for introspection and testing;
// Forward/Inverse re-derive the same decomposition internally rather
// than interpreting this list imperatively.
type Pass struct {
	Kind PassKind
	Size int // group size (PassDirect/PassTwiddle) or n1*n2 (PassPFA)
}

// Plan is the planner's output for one (length, modulus) pair: the
// chosen group decomposition, a human-readable pass list, and the
// vector lane width (Backend) every PassDirect codelet in this plan
// executes its row multiplies at.
type Plan struct {
	L       int
	Groups  []int
	Passes  []Pass
	Backend spmod.Backend
}

// Planner caches Plan results per (L, *spmod.Modulus), following
// lattigo's ring.Table memoization of per-modulus NTT constants.
type Planner struct {
	mu    sync.Mutex
	cache map[planKey]*Plan
}

type planKey struct {
	L int
	m *spmod.Modulus
}

// NewPlanner returns an empty, ready-to-use Planner.
func NewPlanner() *Planner {
	return &Planner{cache: make(map[planKey]*Plan)}
}

// Plan returns the cached Plan for (L, spm), building and scoring it
// if this is the first request. Returns UnsupportedLength if L has a
// prime factor outside {2,3,5,7}.
func (pl *Planner) Plan(L int, spm *spmod.Modulus) (*Plan, error) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	key := planKey{L: L, m: spm}
	if p, ok := pl.cache[key]; ok {
		return p, nil
	}

	groups := groupFactors(L)
	product := 1
	for _, g := range groups {
		product *= g
	}
	if product != L {
		return nil, xerr.New(xerr.UnsupportedLength, fmt.Sprintf("length %d is not 2,3,5,7-smooth", L))
	}

	chosen, err := scoreOrderings(groups)
	if err != nil {
		return nil, err
	}

	passes := buildPasses(chosen)
	plan := &Plan{L: L, Groups: chosen, Passes: passes, Backend: spmod.DetectBackend()}
	pl.cache[key] = plan
	return plan, nil
}

// scoreOrderings estimates the butterfly-operation cost of a few
// candidate orderings of the same group multiset (ascending and
// descending prime order) and returns the cheaper one. With only two
// candidates this is a light use of stats.Sum and stats.StdDevP (see
// orderingCost) rather than a real search, but it keeps the planner's
// cost model honest instead of hard-coding a single ordering.
func scoreOrderings(groups []int) ([]int, error) {
	if len(groups) <= 1 {
		return groups, nil
	}

	descending := make([]int, len(groups))
	copy(descending, groups)
	for i, j := 0, len(descending)-1; i < j; i, j = i+1, j-1 {
		descending[i], descending[j] = descending[j], descending[i]
	}

	ascCost, err := orderingCost(groups)
	if err != nil {
		return nil, err
	}
	descCost, err := orderingCost(descending)
	if err != nil {
		return nil, err
	}

	if descCost < ascCost {
		return descending, nil
	}
	return groups, nil
}

// orderingCost estimates relative work per group as
// cumulativeProduct * log2(size), reflecting that each fold-in stage
// of pfaTransform touches the full accumulated vector built so far, so
// groups processed later in the chain cost more. The returned figure
// is the per-group total plus its population standard deviation: the
// total already separates ascending from descending order (the running
// product differs depending on which groups fold in first), but
// breaking a near-tie on total alone would ignore that a lopsided
// per-stage cost profile (one huge fold-in stage dwarfing the rest) is
// worse for peak scratch-buffer size than an even one; stats.StdDevP's
// spread term folds that preference into the same comparable figure.
func orderingCost(groups []int) (float64, error) {
	samples := make([]float64, len(groups))
	cumulative := 1
	for i, g := range groups {
		cumulative *= g
		bits := 0
		for n := g; n > 1; n >>= 1 {
			bits++
		}
		samples[i] = float64(cumulative) * float64(bits+1)
	}
	total, err := stats.Sum(samples)
	if err != nil {
		return 0, xerr.Wrap(xerr.InvalidParams, "cost estimate", err)
	}
	spread, err := stats.StdDevP(samples)
	if err != nil {
		return 0, xerr.Wrap(xerr.InvalidParams, "cost estimate", err)
	}
	return total + spread, nil
}

func buildPasses(groups []int) []Pass {
	passes := make([]Pass, 0, len(groups))
	for _, g := range groups {
		if isBaseSize(g) {
			passes = append(passes, Pass{Kind: PassDirect, Size: g})
		} else {
			passes = append(passes, Pass{Kind: PassTwiddle, Size: g})
		}
	}
	if len(groups) > 1 {
		total := 1
		for _, g := range groups {
			total *= g
		}
		passes = append(passes, Pass{Kind: PassPFA, Size: total})
	}
	return passes
}
