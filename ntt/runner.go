package ntt

import "github.com/wraythex/gmp-ecm/spmod"

// Runner ties a Planner to a specific (length, modulus) pair and
// exposes the Forward/Inverse entry points the rest of the engine
// calls, mirroring lattigo's ring.Ring.NTT/InvNTT convenience wrapper
// around its per-subring Table.
type Runner struct {
	planner *Planner
	m       *spmod.Modulus
	root    uint64
	L       int
	plan    *Plan
}

// NewRunner builds a Runner for length L modulo spm.P, using root as
// the primitive L-th root of unity (see RootOfUnity). Returns
// UnsupportedLength if L does not factor over {2,3,5,7}.
func NewRunner(planner *Planner, spm *spmod.Modulus, root uint64, L int) (*Runner, error) {
	plan, err := planner.Plan(L, spm)
	if err != nil {
		return nil, err
	}
	return &Runner{planner: planner, m: spm, root: root, L: L, plan: plan}, nil
}

// Plan returns the cached Plan this Runner executes.
func (r *Runner) Plan() *Plan { return r.plan }

// Forward computes the length-L NTT of x, returning the transformed
// vector as a newly allocated slice.
func (r *Runner) Forward(x []uint64) []uint64 {
	return groupedTransform(x, r.m, r.root, r.plan.Groups, r.plan.Backend)
}

// Inverse computes the length-L inverse NTT of x.
func (r *Runner) Inverse(x []uint64) []uint64 {
	invRoot := r.m.Inv(r.root)
	y := groupedTransform(x, r.m, invRoot, r.plan.Groups, r.plan.Backend)
	invL := r.m.Inv(uint64(r.L) % r.m.P)
	for i := range y {
		y[i] = r.m.Mul(y[i], invL)
	}
	return y
}
