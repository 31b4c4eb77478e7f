package recip

import "github.com/wraythex/gmp-ecm/bigmod"

// ChebyshevV evaluates V_k(Q), the Lucas-like sequence satisfying
// V_0 = 2, V_1 = Q, V_{i+1} = V_1*V_i - V_{i-1}. V_k is even in k
// (V_-k = V_k), so callers pass uint64(abs(k)).
func ChebyshevV(ctx *bigmod.Context, Q *bigmod.Residue, k uint64) *bigmod.Residue {
	v, _ := chebyshevPair(ctx, Q, k)
	return v
}

// chebyshevPair returns (V_k, V_{k+1}) using the repeated-squaring
// recurrence V_{2i} = V_i^2 - 2, V_{2i+1} = V_i*V_{i+1} - V_1, an
// O(log k) path used for large k instead of a linear scan.
func chebyshevPair(ctx *bigmod.Context, Q *bigmod.Residue, k uint64) (*bigmod.Residue, *bigmod.Residue) {
	if k == 0 {
		v0 := bigmod.NewResidue()
		ctx.SetUint64(v0, 2)
		v1 := bigmod.NewResidue()
		ctx.SetInt(v1, ctx.Int(Q))
		return v0, v1
	}

	vi, vi1 := chebyshevPair(ctx, Q, k/2)

	two := bigmod.NewResidue()
	ctx.SetUint64(two, 2)

	v2i := bigmod.NewResidue()
	ctx.Sqr(v2i, vi)
	ctx.Sub(v2i, v2i, two)

	v2i1 := bigmod.NewResidue()
	ctx.Mul(v2i1, vi, vi1)
	ctx.Sub(v2i1, v2i1, Q)

	if k%2 == 0 {
		return v2i, v2i1
	}

	v2i2 := bigmod.NewResidue()
	ctx.Sqr(v2i2, vi1)
	ctx.Sub(v2i2, v2i2, two)
	return v2i1, v2i2
}

// chebyshevScan fills V[0..upTo-1] with V_0(Q)..V_{upTo-1}(Q) using the
// linear scan V_{i+1} = V_i*V_1 - V_{i-1}, the form ScaleV2 needs when
// it requires every intermediate value rather than just one index.
func chebyshevScan(ctx *bigmod.Context, Q *bigmod.Residue, upTo int) []*bigmod.Residue {
	v := make([]*bigmod.Residue, upTo)
	if upTo == 0 {
		return v
	}
	v[0] = bigmod.NewResidue()
	ctx.SetUint64(v[0], 2)
	if upTo == 1 {
		return v
	}
	v[1] = bigmod.NewResidue()
	ctx.SetInt(v[1], ctx.Int(Q))
	for i := 2; i < upTo; i++ {
		v[i] = bigmod.NewResidue()
		ctx.Mul(v[i], v[i-1], Q)
		ctx.Sub(v[i], v[i], v[i-2])
	}
	return v
}

// ScaleV2 computes R(x) = F(gamma*x)*F(gamma^-1*x) where
// Q = gamma + 1/gamma, gamma an algebraic (unrepresented) root of
// z^2 - Q*z + 1. Expanding the substitution directly: writing
// F(y) = f0 + sum_{i=1}^{n} fi*(y^i+y^-i) (fn=1 implicit) and f'_0 =
// f0/2, f'_i = fi otherwise, every unordered pair i<=j of indices in
// [0,n] contributes
//
//	i == 0, j == 0:  R[0]      += f'_0^2 * 4
//	i == j > 0:      R[2i]     += f'_i^2,            R[0]  += f'_i^2 * V_2i(Q)
//	i < j:           R[i+j]    += f'_i*f'_j*V_{j-i}(Q), R[j-i] += f'_i*f'_j*V_{i+j}(Q)
//
// which falls out of multiplying (gamma^i*x^i+gamma^-i*x^-i) against
// (gamma^-j*x^j+gamma^j*x^-j) and only combines into a clean
// V-weighted reciprocal pair once the (i,j) and (j,i) terms are
// summed together — the same halved-f0 convention SqrReciprocal uses,
// needed here so every index down to 0 is treated uniformly. R has
// half-length 2*len(F.Coeffs); R[2n] comes out as 1 and is dropped,
// which doubles as a correctness check on the construction.
func ScaleV2(ctx *bigmod.Context, F *Poly, Q *bigmod.Residue) *Poly {
	n := len(F.Coeffs)

	inv2 := bigmod.NewResidue()
	two := bigmod.NewResidue()
	ctx.SetUint64(two, 2)
	_ = ctx.Invert(inv2, two)

	fp := make([]*bigmod.Residue, n+1)
	fp[0] = bigmod.NewResidue()
	ctx.Mul(fp[0], F.Coeffs[0], inv2)
	for i := 1; i < n; i++ {
		fp[i] = F.Coeffs[i]
	}
	fp[n] = bigmod.NewResidue()
	ctx.SetUint64(fp[n], 1)

	v := chebyshevScan(ctx, Q, 2*n+1)

	acc := make([]*bigmod.Residue, 2*n+1)
	for i := range acc {
		acc[i] = bigmod.NewResidue()
	}
	add := func(dst *bigmod.Residue, term *bigmod.Residue) {
		ctx.Add(dst, dst, term)
	}
	tmp := bigmod.NewResidue()
	four := bigmod.NewResidue()
	ctx.SetUint64(four, 4)

	for i := 0; i <= n; i++ {
		for j := i; j <= n; j++ {
			if i == 0 && j == 0 {
				ctx.Mul(tmp, fp[0], fp[0])
				ctx.Mul(tmp, tmp, four)
				add(acc[0], tmp)
				continue
			}
			if i == j {
				sq := bigmod.NewResidue()
				ctx.Mul(sq, fp[i], fp[i])
				add(acc[2*i], sq)
				ctx.Mul(tmp, sq, v[2*i])
				add(acc[0], tmp)
				continue
			}
			w := bigmod.NewResidue()
			ctx.Mul(w, fp[i], fp[j])
			ctx.Mul(tmp, w, v[j-i])
			add(acc[i+j], tmp)
			ctx.Mul(tmp, w, v[i+j])
			add(acc[j-i], tmp)
		}
	}

	return &Poly{Coeffs: acc[:2*n]}
}
