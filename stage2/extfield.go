package stage2

import "github.com/wraythex/gmp-ecm/bigmod"

// ExtElem is x0 + x1*sqrt(Delta) in the quadratic extension
// Z/NZ[sqrt(Delta)] that ModePPlus1 operates in.
type ExtElem struct {
	X0, X1 *bigmod.Residue
}

func newExtElem() ExtElem {
	return ExtElem{X0: bigmod.NewResidue(), X1: bigmod.NewResidue()}
}

// ExtMul computes (a0+a1*w)*(b0+b1*w) = (a0*b0+Delta*a1*b1) +
// (a0*b1+a1*b0)*w, the four-multiplication extension-field product
// (w = sqrt(Delta)).
func ExtMul(ctx *bigmod.Context, delta *bigmod.Residue, a, b ExtElem) ExtElem {
	r := newExtElem()
	t0 := bigmod.NewResidue()
	t1 := bigmod.NewResidue()

	ctx.Mul(t0, a.X0, b.X0)
	ctx.Mul(t1, a.X1, b.X1)
	ctx.Mul(t1, t1, delta)
	ctx.Add(r.X0, t0, t1)

	ctx.Mul(t0, a.X0, b.X1)
	ctx.Mul(t1, a.X1, b.X0)
	ctx.Add(r.X1, t0, t1)
	return r
}

// ExtSqr computes a*a via ExtMul.
func ExtSqr(ctx *bigmod.Context, delta *bigmod.Residue, a ExtElem) ExtElem {
	return ExtMul(ctx, delta, a, a)
}

// ExtPow raises a to the non-negative power e via square-and-multiply.
func ExtPow(ctx *bigmod.Context, delta *bigmod.Residue, a ExtElem, e uint64) ExtElem {
	result := newExtElem()
	ctx.SetUint64(result.X0, 1)
	base := a
	for e > 0 {
		if e&1 == 1 {
			result = ExtMul(ctx, delta, result, base)
		}
		base = ExtSqr(ctx, delta, base)
		e >>= 1
	}
	return result
}

// Norm computes x0^2 - Delta*x1^2, the field norm down to the base
// ring. Stage-one survivors of P+1 are expected to have norm 1 (or a
// unit close to it); Trace below works regardless.
func Norm(ctx *bigmod.Context, delta *bigmod.Residue, a ExtElem) *bigmod.Residue {
	r := bigmod.NewResidue()
	t := bigmod.NewResidue()
	ctx.Sqr(r, a.X0)
	ctx.Sqr(t, a.X1)
	ctx.Mul(t, t, delta)
	ctx.Sub(r, r, t)
	return r
}

// Trace computes a + conj(a) = 2*x0, independent of Norm: conjugation
// negates the sqrt(Delta) component, which cancels it out of the sum
// regardless of whether a has norm 1.
func Trace(ctx *bigmod.Context, a ExtElem) *bigmod.Residue {
	r := bigmod.NewResidue()
	ctx.Add(r, a.X0, a.X0)
	return r
}
