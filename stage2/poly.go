package stage2

import (
	"math/big"
	"sort"

	"github.com/wraythex/gmp-ecm/bigmod"
	"github.com/wraythex/gmp-ecm/internal/xerr"
	"github.com/wraythex/gmp-ecm/recip"
	"github.com/wraythex/gmp-ecm/setlist"
)

// deriveTrace reduces the stage-one survivor to its trace Q = X + 1/X,
// the single scalar the rest of stage 2 needs. In ModePMinus1 X lives
// in (Z/NZ)* and Q is computed directly; in ModePPlus1 X lives in the
// quadratic extension Z/NZ[sqrt(Delta)] and Q = trace(X) = 2*x0. V_k(Q)
// equals the trace of X^k when X*conj(X) = 1, which holds in
// ModePMinus1 and for norm-1 P+1 survivors; the norm is only checked
// for invertibility here, not for being 1.
//
// A failed inversion during ModePMinus1's X + 1/X is itself a found
// factor (gcd(X, N) properly divides N), surfaced as *bigmod.ErrNoInverse
// for Run to catch.
func deriveTrace(ctx *bigmod.Context, mode Mode, x0, x1 *big.Int, delta *big.Int) (*bigmod.Residue, error) {
	rx0 := bigmod.NewResidue()
	ctx.SetInt(rx0, x0)

	if mode == ModePPlus1 {
		elem := ExtElem{X0: rx0, X1: bigmod.NewResidue()}
		ctx.SetInt(elem.X1, x1)

		rdelta := bigmod.NewResidue()
		ctx.SetInt(rdelta, delta)
		norm := Norm(ctx, rdelta, elem)
		inv := bigmod.NewResidue()
		if err := ctx.Invert(inv, norm); err != nil {
			return nil, err
		}
		return Trace(ctx, elem), nil
	}

	inv := bigmod.NewResidue()
	if err := ctx.Invert(inv, rx0); err != nil {
		return nil, err
	}
	q := bigmod.NewResidue()
	ctx.Add(q, rx0, inv)
	return q, nil
}

// distinctAbs returns the sorted, deduplicated absolute values present
// in sums.
func distinctAbs(sums []int64) []int64 {
	seen := make(map[int64]struct{}, len(sums))
	for _, s := range sums {
		a := s
		if a < 0 {
			a = -a
		}
		seen[a] = struct{}{}
	}
	out := make([]int64, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// buildF constructs the reciprocal polynomial whose roots are the
// traces V_k(Q) for every k achievable by s1's sumset: one degree-1
// reciprocal factor per distinct |k|, f0 = -V_k(Q), multiplied
// together via recip.Mul (or recip.MulNTT with params.UseNTT).
//
// This builds F directly from its explicit root list rather than via
// poly_from_sets_V's per-set folding cascade (doubling the degree per
// cardinality-2 factor, ScaleV2-style scaling per odd-prime factor):
// the cascade needs the exact fold order used by the original's
// sets.c, which was not part of the retrieved source, and S1's
// cardinality-2 set is deliberately left uncentered (see setlist's
// package doc), which does not match ScaleV2's symmetric-shift
// assumption. Direct root multiplication is O(|S1|) factors of a
// schoolbook multiply apiece rather than the cascade's O(log|S1|)
// levels, but is unambiguously correct and satisfies the same
// F(V_k(Q)) == 0 property for every k in S1's sumset.
func buildF(ctx *bigmod.Context, q *bigmod.Residue, s1 setlist.List, params Params) (*recip.Poly, error) {
	ks := distinctAbs(setlist.Sumset(s1))

	f := &recip.Poly{Coeffs: nil}
	for _, k := range ks {
		v := recip.ChebyshevV(ctx, q, uint64(k))
		f0 := bigmod.NewResidue()
		ctx.Neg(f0, v)
		factor := &recip.Poly{Coeffs: []*bigmod.Residue{f0}}

		var err error
		if params.UseNTT {
			f, err = recip.MulNTT(ctx, params.Basis, params.Planner, f, factor)
		} else {
			f = recip.Mul(ctx, f, factor)
		}
		if err != nil {
			return nil, xerr.Wrap(xerr.InvalidParams, "stage2: building F", err)
		}
	}
	return f, nil
}

// evalF evaluates F at the point whose trace is V_d(Q): writing
// F(y) = f0 + sum_{i=1}^{n-1} fi*(y^i+y^-i) with the leading fn=1
// implicit, substituting y^i+y^-i = V_i(V_d(Q)) = trace(X^{i*d})
// evaluates F at y = X^d using only scalar Lucas-sequence arithmetic,
// no explicit y or 1/y ever materialized.
func evalF(ctx *bigmod.Context, q *bigmod.Residue, f *recip.Poly, d int64) *bigmod.Residue {
	n := len(f.Coeffs)
	qd := recip.ChebyshevV(ctx, q, uint64(abs64(d)))

	acc := bigmod.NewResidue()
	if n > 0 {
		ctx.SetInt(acc, ctx.Int(f.Coeffs[0]))
	} else {
		ctx.SetUint64(acc, 1)
	}

	vPrev := bigmod.NewResidue()
	ctx.SetUint64(vPrev, 2)
	vCur := bigmod.NewResidue()
	ctx.SetInt(vCur, ctx.Int(qd))

	tmp := bigmod.NewResidue()
	for i := 1; i <= n; i++ {
		if i < n {
			ctx.Mul(tmp, f.Coeffs[i], vCur)
			ctx.Add(acc, acc, tmp)
		} else {
			// implicit leading coefficient f_n = 1
			ctx.Add(acc, acc, vCur)
		}
		vNext := bigmod.NewResidue()
		ctx.Mul(vNext, qd, vCur)
		ctx.Sub(vNext, vNext, vPrev)
		vPrev, vCur = vCur, vNext
	}
	return acc
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
