package ecpoint

import "github.com/wraythex/gmp-ecm/bigmod"

// BatchInvert returns [xs[0]^-1, ..., xs[k-1]^-1] using one modular
// inversion and 3(k-1) multiplies (Montgomery's trick): a running
// product c[i] = xs[0]*...*xs[i] is built forward, the final
// product is inverted once, and the inverse is unwound backward,
// peeling off one xs[i] factor per step. If the combined product has
// no inverse, the gcd it surfaces is reported as FactorFound — this is
// the point at which ECPoint work discovers a factor of N.
func BatchInvert(ctx *bigmod.Context, xs []*bigmod.Residue) ([]*bigmod.Residue, error) {
	k := len(xs)
	if k == 0 {
		return nil, nil
	}

	running := make([]*bigmod.Residue, k)
	running[0] = xs[0]
	for i := 1; i < k; i++ {
		running[i] = bigmod.NewResidue()
		ctx.Mul(running[i], running[i-1], xs[i])
	}

	totalInv := bigmod.NewResidue()
	if err := ctx.Invert(totalInv, running[k-1]); err != nil {
		return nil, asFactorFound(err)
	}

	out := make([]*bigmod.Residue, k)
	acc := totalInv
	for i := k - 1; i > 0; i-- {
		out[i] = bigmod.NewResidue()
		ctx.Mul(out[i], acc, running[i-1])

		next := bigmod.NewResidue()
		ctx.Mul(next, acc, xs[i])
		acc = next
	}
	out[0] = acc
	return out, nil
}
