// Package stage2 orchestrates the continuation (second) phase of the
// P-1 and P+1 factoring methods: given a residue X surviving stage
// one, it builds the reciprocal polynomial F whose roots are the
// points X^k for k ranging over a large factored exponent range, then
// sweeps a second, independently factored range against F, looking
// for an exponent sum that collapses to the identity modulo some
// unknown prime factor of N.
//
// Grounded on lattigo's top-level evaluator pattern (bgv/evaluator.go,
// ckks/evaluator.go): a struct holding shared, precomputed state (here
// the bigmod.Context, the reciprocal polynomial F, and the CRT/NTT
// plumbing) with a small number of public entry points that drive the
// precomputed state through a fixed pipeline.
package stage2

import (
	"context"
	"io"
	"log"
	"math/big"
	"sync"

	"github.com/wraythex/gmp-ecm/bigmod"
	"github.com/wraythex/gmp-ecm/crt"
	"github.com/wraythex/gmp-ecm/internal/xerr"
	"github.com/wraythex/gmp-ecm/ntt"
	"github.com/wraythex/gmp-ecm/recip"
	"github.com/wraythex/gmp-ecm/setlist"
)

// Mode selects which group stage 2 operates in.
type Mode int

const (
	// ModePMinus1 operates directly in (Z/NZ)*, X a plain residue.
	ModePMinus1 Mode = iota
	// ModePPlus1 operates in the quadratic extension Z/NZ[sqrt(Delta)];
	// X is the pair (X0, X1) and Delta must be set in Params.
	ModePPlus1
)

// Params configures one stage-2 run.
type Params struct {
	// P is factored via setlist.Build into the S1 (kept, folded into F)
	// and S2 (extracted, swept round by round) exponent sets.
	P int64
	// S2Target is the minimum cardinality setlist.Extract pulls into
	// S2; the remainder stays in S1 and sizes F's degree.
	S2Target int64

	Mode  Mode
	Delta *big.Int // required for ModePPlus1

	// UseNTT accelerates the repeated reciprocal multiplications that
	// build F via recip.MulNTT instead of recip.Mul. Basis and Planner
	// are required when set.
	UseNTT  bool
	Basis   *crt.Basis
	Planner *ntt.Planner

	// Workers partitions the S2 sweep across goroutines; 0 or 1 runs
	// serially.
	Workers int

	// Logger receives round-boundary diagnostics only; nil-safe.
	Logger *log.Logger

	// OnRound, if set, is called once per worker partition after all
	// workers have finished, in worker order, with the worker index and
	// the number of workers. It is not called per S2 offset, and calls
	// stop at the first partition whose gcd is a proper factor.
	OnRound func(round, total int)
}

func (p Params) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return log.New(io.Discard, "", 0)
}

// ResultCode classifies a completed Run.
type ResultCode int

const (
	NoFactor ResultCode = iota
	FoundFactor
)

// Result is the outcome of a stage-2 run.
type Result struct {
	Code   ResultCode
	Factor *big.Int
	Stats  RunStats
}

// RunStats records the shape of the run actually performed.
type RunStats struct {
	S1Cardinality int64
	S2Cardinality int64
	PolyDegree    int
	Rounds        int
}

// Run executes stage 2 against N starting from the stage-one survivor
// (X0, X1) — X1 is ignored in ModePMinus1. A non-nil Result.Factor
// means Result.Code == FoundFactor and N%Factor == 0 (a proper,
// nontrivial factor unless N itself has no smaller factor).
func Run(ctx context.Context, N *big.Int, x0, x1 *big.Int, params Params) (Result, error) {
	if params.P <= 0 {
		return Result{}, xerr.New(xerr.InvalidParams, "stage2: P must be positive")
	}
	if params.Mode == ModePPlus1 && params.Delta == nil {
		return Result{}, xerr.New(xerr.InvalidParams, "stage2: ModePPlus1 requires Delta")
	}
	bctx, err := bigmod.NewContext(N)
	if err != nil {
		return Result{}, xerr.Wrap(xerr.InvalidParams, "stage2: building modulus context", err)
	}

	q, err := deriveTrace(bctx, params.Mode, x0, x1, params.Delta)
	if err != nil {
		if noInv, ok := err.(*bigmod.ErrNoInverse); ok {
			return Result{Code: FoundFactor, Factor: noInv.Gcd}, nil
		}
		return Result{}, xerr.Wrap(xerr.InvalidParams, "stage2: deriving trace", err)
	}

	s1, err := setlist.Build(params.P)
	if err != nil {
		return Result{}, err
	}
	s2 := setlist.Extract(&s1, params.S2Target)
	if len(s1) > 0 {
		sums := setlist.Sumset(s1)
		if sums[0] != s1.Min() {
			return Result{}, xerr.New(xerr.InvalidParams, "stage2: S1 sumset minimum invariant violated")
		}
	}

	logger := params.logger()
	logger.Printf("stage2: P=%d S1=%d S2=%d", params.P, s1.Cardinality(), s2.Cardinality())

	f, err := buildF(bctx, q, s1, params)
	if err != nil {
		return Result{}, err
	}

	stats := RunStats{
		S1Cardinality: s1.Cardinality(),
		S2Cardinality: s2.Cardinality(),
		PolyDegree:    len(f.Coeffs),
	}

	offsets := setlist.Sumset(s2)
	stats.Rounds = len(offsets)

	factor, err := sweep(ctx, bctx, q, f, offsets, params)
	if err != nil {
		return Result{}, err
	}
	if factor != nil {
		return Result{Code: FoundFactor, Factor: factor, Stats: stats}, nil
	}
	return Result{Code: NoFactor, Stats: stats}, nil
}

// sweep evaluates F at every offset in offsets, accumulating a running
// product mod N and reducing it against N via gcd at the end of each
// partition (and whenever the product hits zero), partitioning the work
// across params.Workers goroutines when set.
func sweep(ctx context.Context, bctx *bigmod.Context, q *bigmod.Residue, f *recip.Poly, offsets []int64, params Params) (*big.Int, error) {
	workers := params.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(offsets) {
		workers = len(offsets)
	}
	if workers == 0 {
		return nil, nil
	}

	logger := params.logger()
	type partial struct {
		gcd *big.Int
		err error
	}
	results := make([]partial, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start, count := Partition(len(offsets), w, workers)
		if count == 0 {
			continue
		}
		wg.Add(1)
		go func(w, start, count int) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				results[w] = partial{err: ctx.Err()}
				return
			default:
			}
			wctx := bctx.Clone()
			acc := bigmod.NewResidue()
			wctx.SetUint64(acc, 1)
			best := big.NewInt(1)
			for i := start; i < start+count; i++ {
				v := evalF(wctx, q, f, offsets[i])
				wctx.Mul(acc, acc, v)
				// An offset whose root is the universally-true e=0 case
				// (0 in S1's sumset) zeroes acc outright, independent
				// of N; reduce and restart the running product so it
				// doesn't swallow later offsets' contributions.
				if wctx.IsZero(acc) {
					best = pickBetter(wctx.N(), best, wctx.Gcd(acc))
					wctx.SetUint64(acc, 1)
				}
			}
			g := pickBetter(wctx.N(), best, wctx.Gcd(acc))
			results[w] = partial{gcd: g}
		}(w, start, count)
	}
	wg.Wait()

	one := big.NewInt(1)
	for round, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		if r.gcd == nil {
			continue
		}
		if params.OnRound != nil {
			params.OnRound(round, workers)
		}
		logger.Printf("stage2: worker %d gcd=%v", round, r.gcd)
		if r.gcd.Cmp(one) != 0 && r.gcd.Cmp(bctx.N()) != 0 {
			return r.gcd, nil
		}
	}
	return nil, nil
}

// Partition splits a range of length n into workers near-equal,
// contiguous pieces and returns the start and count owned by worker
// id workerID.
func Partition(n, workerID, workers int) (start, count int) {
	if workers <= 0 || n <= 0 {
		return 0, 0
	}
	base := n / workers
	rem := n % workers
	start = workerID*base + min(workerID, rem)
	count = base
	if workerID < rem {
		count++
	}
	return start, count
}

// pickBetter returns whichever of a, b is a proper, nontrivial
// divisor of N (neither 1 nor N), preferring a when both qualify or
// neither does.
func pickBetter(n, a, b *big.Int) *big.Int {
	one := big.NewInt(1)
	good := func(x *big.Int) bool { return x.Cmp(one) != 0 && x.Cmp(n) != 0 }
	if good(a) {
		return a
	}
	if good(b) {
		return b
	}
	return a
}
