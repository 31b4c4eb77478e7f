// Package ecpoint implements elliptic-curve point arithmetic in affine
// short Weierstrass coordinates (y^2 = x^3 + A*x + B mod N), with
// Montgomery's batched-inversion trick for recovering many field
// inverses from a single modular inversion.
//
// Grounded on lattigo's general "accumulate, invert once, unwind"
// shape used by its NTT twiddle-table precomputation (ring package),
// generalized here from scalar inverses to elliptic-curve point
// arithmetic, which lattigo itself never needs.
package ecpoint

import (
	"math/big"

	"github.com/wraythex/gmp-ecm/bigmod"
)

// Point is an affine point (X, Y) on a Curve. A nil *Point denotes the
// point at infinity (the group identity).
type Point struct {
	X, Y *bigmod.Residue
}

// Curve is y^2 = x^3 + A*x + B mod N. B never appears in the addition
// or doubling formulas, but is kept for completeness and point
// validation.
type Curve struct {
	A, B *bigmod.Residue
}

// FactorFound wraps a bigmod.ErrNoInverse surfaced during point
// arithmetic: a failed inversion here is success dressed as failure,
// since its gcd with N is a nontrivial factor.
type FactorFound struct {
	Gcd *big.Int
}

func (e *FactorFound) Error() string {
	return "ecpoint: factor found during point arithmetic"
}

func asFactorFound(err error) error {
	noInv, ok := err.(*bigmod.ErrNoInverse)
	if !ok {
		return err
	}
	return &FactorFound{Gcd: noInv.Gcd}
}

func equalResidue(ctx *bigmod.Context, a, b *bigmod.Residue) bool {
	return ctx.Int(a).Cmp(ctx.Int(b)) == 0
}

func isZero(ctx *bigmod.Context, a *bigmod.Residue) bool {
	return ctx.IsZero(a)
}

// Add computes P+Q directly, with its own single modular inversion.
// Used as the unbatched reference path and wherever only one addition
// is needed; Mul and AddWnm instead batch their inversions via
// BatchInvert.
func Add(ctx *bigmod.Context, curve *Curve, p, q *Point) (*Point, error) {
	if p == nil {
		return q, nil
	}
	if q == nil {
		return p, nil
	}

	if equalResidue(ctx, p.X, q.X) {
		ySum := bigmod.NewResidue()
		ctx.Add(ySum, p.Y, q.Y)
		if isZero(ctx, ySum) {
			return nil, nil
		}
		return Double(ctx, curve, p)
	}

	num := bigmod.NewResidue()
	ctx.Sub(num, q.Y, p.Y)
	den := bigmod.NewResidue()
	ctx.Sub(den, q.X, p.X)

	inv := bigmod.NewResidue()
	if err := ctx.Invert(inv, den); err != nil {
		return nil, asFactorFound(err)
	}

	slope := bigmod.NewResidue()
	ctx.Mul(slope, num, inv)
	return finishAdd(ctx, p, q, slope), nil
}

// Double computes 2P directly, with its own single modular inversion.
func Double(ctx *bigmod.Context, curve *Curve, p *Point) (*Point, error) {
	if p == nil {
		return nil, nil
	}
	if isZero(ctx, p.Y) {
		return nil, nil
	}

	three := bigmod.NewResidue()
	ctx.SetUint64(three, 3)
	num := bigmod.NewResidue()
	ctx.Sqr(num, p.X)
	ctx.Mul(num, num, three)
	ctx.Add(num, num, curve.A)

	two := bigmod.NewResidue()
	ctx.SetUint64(two, 2)
	den := bigmod.NewResidue()
	ctx.Mul(den, p.Y, two)

	inv := bigmod.NewResidue()
	if err := ctx.Invert(inv, den); err != nil {
		return nil, asFactorFound(err)
	}

	slope := bigmod.NewResidue()
	ctx.Mul(slope, num, inv)
	return finishAdd(ctx, p, p, slope), nil
}

// finishAdd completes an addition/doubling once slope = (y2-y1)/(x2-x1)
// (or the doubling slope) is known: x3 = slope^2 - x1 - x2,
// y3 = slope*(x1-x3) - y1.
func finishAdd(ctx *bigmod.Context, p, q *Point, slope *bigmod.Residue) *Point {
	x3 := bigmod.NewResidue()
	ctx.Sqr(x3, slope)
	ctx.Sub(x3, x3, p.X)
	ctx.Sub(x3, x3, q.X)

	y3 := bigmod.NewResidue()
	ctx.Sub(y3, p.X, x3)
	ctx.Mul(y3, y3, slope)
	ctx.Sub(y3, y3, p.Y)

	return &Point{X: x3, Y: y3}
}
