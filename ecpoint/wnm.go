package ecpoint

import "github.com/wraythex/gmp-ecm/bigmod"

// AddWnm advances m independent arithmetic progressions n steps each:
// progression j starts at bases[j] and is repeatedly incremented by
// diffs[j]. Each of the n rounds batches the m additions for that
// round into a single inversion, rather than inverting once for the
// whole call: the additions within one progression are sequentially
// dependent on each other (round t+1 needs round t's result), so only
// the m progressions can be batched together, and only one round at a
// time.
//
// Returns out[j][t] = bases[j] + (t+1)*diffs[j] for t in [0, n).
func AddWnm(ctx *bigmod.Context, curve *Curve, bases, diffs []*Point, n int) ([][]*Point, error) {
	m := len(bases)
	out := make([][]*Point, m)
	for j := range out {
		out[j] = make([]*Point, n)
	}

	cur := append([]*Point(nil), bases...)

	for t := 0; t < n; t++ {
		var ops []pendingOp
		for j := 0; j < m; j++ {
			idx := j
			p, d := cur[idx], diffs[idx]
			if p == nil {
				ops = append(ops, pendingOp{
					denom: nil,
					apply: func(*bigmod.Residue) { cur[idx] = d },
				})
				continue
			}
			if d == nil {
				ops = append(ops, pendingOp{
					denom: nil,
					apply: func(*bigmod.Residue) { cur[idx] = p },
				})
				continue
			}
			if equalResidue(ctx, p.X, d.X) {
				ySum := bigmod.NewResidue()
				ctx.Add(ySum, p.Y, d.Y)
				if isZero(ctx, ySum) {
					ops = append(ops, pendingOp{
						denom: nil,
						apply: func(*bigmod.Residue) { cur[idx] = nil },
					})
					continue
				}
				ops = append(ops, doublingOp(ctx, curve, p, func(r *Point) { cur[idx] = r }))
				continue
			}

			num := bigmod.NewResidue()
			ctx.Sub(num, d.Y, p.Y)
			den := bigmod.NewResidue()
			ctx.Sub(den, d.X, p.X)
			ops = append(ops, pendingOp{
				denom: den,
				apply: func(inv *bigmod.Residue) {
					slope := bigmod.NewResidue()
					ctx.Mul(slope, num, inv)
					cur[idx] = finishAdd(ctx, p, d, slope)
				},
			})
		}

		if err := runBatchSkippingNilDenoms(ctx, ops); err != nil {
			return nil, err
		}

		for j := 0; j < m; j++ {
			out[j][t] = cur[j]
		}
	}

	return out, nil
}

// runBatchSkippingNilDenoms is runBatch, but tolerates ops whose denom
// is nil (identity-element short-circuits that need no inversion at
// all): those are applied immediately, the rest go through one shared
// BatchInvert call.
func runBatchSkippingNilDenoms(ctx *bigmod.Context, ops []pendingOp) error {
	var need []pendingOp
	for _, op := range ops {
		if op.denom == nil {
			op.apply(nil)
			continue
		}
		need = append(need, op)
	}
	return runBatch(ctx, need)
}
