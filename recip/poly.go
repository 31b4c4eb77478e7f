// Package recip implements reciprocal Laurent polynomial algebra: a
// polynomial F(x) = f0 + sum_{i=1}^{n-1} fi*(x^i + x^-i), symmetric
// under x <-> 1/x, stored as its coefficient list [f0..f_{n-1}] with
// the leading monic term x^n+x^-n left implicit.
//
// Grounded on lattigo's Poly type (ring/poly.go) for the general shape
// of a coefficient-list abstraction carrying a modulus context,
// generalized from "dense polynomial mod a small NTT prime" to
// "reciprocal Laurent polynomial mod the arbitrary-precision N".
package recip

import "github.com/wraythex/gmp-ecm/bigmod"

// Poly is a reciprocal Laurent polynomial of half-length len(Coeffs),
// coefficients residues modulo the bigmod.Context that produced them.
type Poly struct {
	Coeffs []*bigmod.Residue
}

// NewPoly allocates a zero-valued Poly of the given half-length.
func NewPoly(ctx *bigmod.Context, halfLen int) *Poly {
	c := make([]*bigmod.Residue, halfLen)
	for i := range c {
		c[i] = bigmod.NewResidue()
	}
	return &Poly{Coeffs: c}
}

// toStandard expands coeffs (f0..f_{n-1}, implicit leading fn=1) into
// the length-(2n+1) standard (non-Laurent) polynomial array
// a[n+i] = a[n-i] = f_i, a[0] = a[2n] = 1.
func toStandard(ctx *bigmod.Context, coeffs []*bigmod.Residue) []*bigmod.Residue {
	n := len(coeffs)
	one := bigmod.NewResidue()
	ctx.SetUint64(one, 1)

	a := make([]*bigmod.Residue, 2*n+1)
	a[0] = one
	a[2*n] = one
	for i := 0; i < n; i++ {
		a[n+i] = coeffs[i]
		a[n-i] = coeffs[i]
	}
	return a
}

// standardMul computes the schoolbook product of two standard
// polynomial arrays, the "small list-mul" fallback path used when an
// NTT-accelerated path is unavailable or not requested.
func standardMul(ctx *bigmod.Context, a, b []*bigmod.Residue) []*bigmod.Residue {
	out := make([]*bigmod.Residue, len(a)+len(b)-1)
	for i := range out {
		out[i] = bigmod.NewResidue()
	}
	tmp := bigmod.NewResidue()
	for i, ai := range a {
		for j, bj := range b {
			ctx.Mul(tmp, ai, bj)
			ctx.Add(out[i+j], out[i+j], tmp)
		}
	}
	return out
}

// foldCenter extracts the reciprocal coefficient list from a
// palindromic standard array whose center is at index center,
// returning the n1+n2 explicit low coefficients (the implicit leading
// term at prod[2*center] is dropped, matching the Poly's own
// convention).
func foldCenter(prod []*bigmod.Residue, center int) []*bigmod.Residue {
	out := make([]*bigmod.Residue, center)
	copy(out, prod[center:2*center])
	return out
}

// Mul computes f*g in the reciprocal Laurent basis via symmetric
// doubling into the standard basis, a schoolbook multiply, and folding
// the wraparound back.
func Mul(ctx *bigmod.Context, f, g *Poly) *Poly {
	n1, n2 := len(f.Coeffs), len(g.Coeffs)
	a := toStandard(ctx, f.Coeffs)
	b := toStandard(ctx, g.Coeffs)
	prod := standardMul(ctx, a, b)
	return &Poly{Coeffs: foldCenter(prod, n1+n2)}
}

// Sqr computes f*f via Mul, without the SqrReciprocal receiver
// mutation; callers that need the faster, mutating path should call
// SqrReciprocal instead.
func Sqr(ctx *bigmod.Context, f *Poly) *Poly {
	return Mul(ctx, f, f)
}

// SqrReciprocal computes f*f, and as a documented side effect halves
// f.Coeffs[0] in place. This mirrors the original's list_sqr_reciprocal
// mutation of S[0]; no defensive copy is made, so callers that still
// need the original f.Coeffs[0] must copy it first. The stage2 package
// does not call SqrReciprocal.
func SqrReciprocal(ctx *bigmod.Context, f *Poly) *Poly {
	result := Mul(ctx, f, f)

	if len(f.Coeffs) > 0 {
		two := bigmod.NewResidue()
		ctx.SetUint64(two, 2)
		inv2 := bigmod.NewResidue()
		if err := ctx.Invert(inv2, two); err == nil {
			ctx.Mul(f.Coeffs[0], f.Coeffs[0], inv2)
		}
	}
	return result
}
