package ecpoint

import (
	"math/big"

	"github.com/wraythex/gmp-ecm/bigmod"
)

// pendingOp is one scheduled addition or doubling awaiting its share of
// a batched inversion: denom is the value that must be inverted, and
// apply finishes the operation once the matching inverse is known.
type pendingOp struct {
	denom *bigmod.Residue
	apply func(inv *bigmod.Residue)
}

// doublingOp builds the pendingOp for 2*p: num/den = (3x^2+A)/(2y).
func doublingOp(ctx *bigmod.Context, curve *Curve, p *Point, store func(*Point)) pendingOp {
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

	return pendingOp{
		denom: den,
		apply: func(inv *bigmod.Residue) {
			slope := bigmod.NewResidue()
			ctx.Mul(slope, num, inv)
			store(finishAdd(ctx, p, p, slope))
		},
	}
}

// Mul computes scalars[i]*S for every i simultaneously, batching the
// inversion at each bit position across all scalars still active at
// that bit: one inversion and 3(k-1) modular multiplies recover all k
// inverses needed for that bit, where k is the count of active
// additions at that bit. A nil result at index i means scalars[i]*S is
// the point at infinity (scalars[i] was zero, or the running point
// reached infinity along the way). Returns FactorFound the first time
// any scheduled inversion fails.
func Mul(ctx *bigmod.Context, curve *Curve, s *Point, scalars []*big.Int) ([]*Point, error) {
	acc := make([]*Point, len(scalars))

	maxBits := 0
	for _, k := range scalars {
		if k.Sign() < 0 {
			panic("ecpoint: Mul requires non-negative scalars")
		}
		if bl := k.BitLen(); bl > maxBits {
			maxBits = bl
		}
	}

	for bit := maxBits - 1; bit >= 0; bit-- {
		var ops []pendingOp

		for i := range acc {
			if acc[i] == nil {
				continue
			}
			p := acc[i]
			idx := i
			if isZero(ctx, p.Y) {
				acc[idx] = nil
				continue
			}
			ops = append(ops, doublingOp(ctx, curve, p, func(r *Point) { acc[idx] = r }))
		}

		if err := runBatch(ctx, ops); err != nil {
			return nil, err
		}

		ops = ops[:0]
		for i, k := range scalars {
			if k.Bit(bit) == 0 {
				continue
			}
			idx := i
			if acc[idx] == nil {
				acc[idx] = s
				continue
			}
			p := acc[idx]
			if equalResidue(ctx, p.X, s.X) {
				ySum := bigmod.NewResidue()
				ctx.Add(ySum, p.Y, s.Y)
				if isZero(ctx, ySum) {
					acc[idx] = nil
					continue
				}
				// p == s: fold into a doubling, scheduled separately
				// since its denominator differs from a distinct-point add.
				ops = append(ops, doublingOp(ctx, curve, p, func(r *Point) { acc[idx] = r }))
				continue
			}

			num := bigmod.NewResidue()
			ctx.Sub(num, s.Y, p.Y)
			den := bigmod.NewResidue()
			ctx.Sub(den, s.X, p.X)
			ops = append(ops, pendingOp{
				denom: den,
				apply: func(inv *bigmod.Residue) {
					slope := bigmod.NewResidue()
					ctx.Mul(slope, num, inv)
					acc[idx] = finishAdd(ctx, p, s, slope)
				},
			})
		}

		if err := runBatch(ctx, ops); err != nil {
			return nil, err
		}
	}

	return acc, nil
}

// runBatch collects the denominators of ops, inverts them all in one
// BatchInvert call, and finishes each scheduled operation.
func runBatch(ctx *bigmod.Context, ops []pendingOp) error {
	if len(ops) == 0 {
		return nil
	}
	denoms := make([]*bigmod.Residue, len(ops))
	for i, op := range ops {
		denoms[i] = op.denom
	}
	invs, err := BatchInvert(ctx, denoms)
	if err != nil {
		return err
	}
	for i, op := range ops {
		op.apply(invs[i])
	}
	return nil
}
