package recip

import (
	"github.com/wraythex/gmp-ecm/bigmod"
	"github.com/wraythex/gmp-ecm/crt"
	"github.com/wraythex/gmp-ecm/internal/xerr"
	"github.com/wraythex/gmp-ecm/ntt"
)

// smoothLength returns the smallest 2,3,5,7-smooth divisor of maxLen
// that is at least needed, or an error if none exists. Only divisors of
// maxLen are eligible, since those are the lengths every basis prime
// (p ≡ 1 mod maxLen) has a root of unity for. Candidates are generated
// by a Hamming-number-style merge rather than trial-factoring every
// integer up to maxLen.
func smoothLength(needed, maxLen int) (int, error) {
	if needed > maxLen {
		return 0, xerr.New(xerr.UnsupportedLength, "no NTT length available within basis.MaxNTTSize")
	}
	smooth := []int{1}
	i2, i3, i5, i7 := 0, 0, 0, 0
	for smooth[len(smooth)-1] < maxLen {
		n2, n3, n5, n7 := smooth[i2]*2, smooth[i3]*3, smooth[i5]*5, smooth[i7]*7
		next := min4(n2, n3, n5, n7)
		smooth = append(smooth, next)
		if next == n2 {
			i2++
		}
		if next == n3 {
			i3++
		}
		if next == n5 {
			i5++
		}
		if next == n7 {
			i7++
		}
	}
	for _, s := range smooth {
		if s >= needed && s <= maxLen && maxLen%s == 0 {
			return s, nil
		}
	}
	return 0, xerr.New(xerr.UnsupportedLength, "no 2,3,5,7-smooth length fits the requested range")
}

func min4(a, b, c, d int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	if d < m {
		m = d
	}
	return m
}

// MulNTT computes f*g the same way Mul does, but performs the
// standard-basis convolution through the small-prime NTT kernel
// instead of a schoolbook multiply: each standard-basis coefficient is
// split across basis's CRT primes, transformed, multiplied pointwise,
// inverted, and reconstructed back to a residue mod N. basis.Product()
// must exceed the largest possible unreduced coefficient sum (the
// caller's responsibility when sizing the basis).
func MulNTT(ctx *bigmod.Context, basis *crt.Basis, planner *ntt.Planner, f, g *Poly) (*Poly, error) {
	n1, n2 := len(f.Coeffs), len(g.Coeffs)
	a := toStandard(ctx, f.Coeffs)
	b := toStandard(ctx, g.Coeffs)

	needed := len(a) + len(b) - 1
	L, err := smoothLength(needed, basis.MaxNTTSize)
	if err != nil {
		return nil, err
	}

	numPrimes := len(basis.Primes)
	A := make([][]uint64, numPrimes)
	B := make([][]uint64, numPrimes)
	for p := range basis.Primes {
		A[p] = make([]uint64, L)
		B[p] = make([]uint64, L)
	}
	scatter(ctx, basis, a, A)
	scatter(ctx, basis, b, B)

	out := make([][]uint64, numPrimes)
	for p, m := range basis.Primes {
		root, err := ntt.RootOfUnity(m, uint64(L))
		if err != nil {
			return nil, err
		}
		r, err := ntt.NewRunner(planner, m, root, L)
		if err != nil {
			return nil, err
		}
		fa := r.Forward(A[p])
		fb := r.Forward(B[p])
		prod := make([]uint64, L)
		for i := 0; i < L; i++ {
			prod[i] = m.Mul(fa[i], fb[i])
		}
		out[p] = r.Inverse(prod)
	}

	prodCoeffs := make([]*bigmod.Residue, needed)
	residues := make([]uint64, numPrimes)
	for idx := 0; idx < needed; idx++ {
		for p := range residues {
			residues[p] = out[p][idx]
		}
		val := basis.ToInteger(residues)
		r := bigmod.NewResidue()
		ctx.SetInt(r, val)
		prodCoeffs[idx] = r
	}

	center := n1 + n2
	return &Poly{Coeffs: foldCenter(prodCoeffs, center)}, nil
}

func scatter(ctx *bigmod.Context, basis *crt.Basis, standard []*bigmod.Residue, out [][]uint64) {
	for idx, coeff := range standard {
		res := basis.FromInteger(ctx.Int(coeff))
		for p := range res {
			out[p][idx] = res[p]
		}
	}
}
