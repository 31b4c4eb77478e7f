package bigmod

import "math/big"

// Residue is an integer in [0, N) held in whatever representation its
// Context selected. A Residue must never outlive the Context it was
// created from; operations take the Context explicitly so a Residue
// carries no back-reference.
type Residue struct {
	v *big.Int
}

// NewResidue allocates a zero-valued Residue.
func NewResidue() *Residue {
	return &Residue{v: new(big.Int)}
}

// SetUint64 sets z to the residue of x modulo ctx.N.
func (c *Context) SetUint64(z *Residue, x uint64) {
	tmp := new(big.Int).SetUint64(x)
	c.SetInt(z, tmp)
}

// SetInt sets z to the residue of the arbitrary-precision integer x.
func (c *Context) SetInt(z *Residue, x *big.Int) {
	canon := new(big.Int).Mod(x, c.n)
	if c.repr == Montgomery {
		z.v = c.toMontgomery(canon)
	} else {
		z.v = canon
	}
}

// Int returns the canonical representative of z in [0, N).
func (c *Context) Int(z *Residue) *big.Int {
	if c.repr == Montgomery {
		return c.fromMontgomery(z.v)
	}
	return new(big.Int).Set(z.v)
}

// reduceProduct reduces an unreduced product t (as produced by a plain
// big.Int multiply of two canonical residues) according to the
// Context's representation.
func (c *Context) reduceProduct(t *big.Int) *big.Int {
	switch c.repr {
	case Montgomery:
		return c.redc(t)
	case Mersenne:
		return fastReduce(t, c.mersK, c.mersC, c.n)
	default:
		return t.Mod(t, c.n)
	}
}

// SetIntForGcd normalizes z so that it may be used as a gcd witness,
// i.e. returns the plain (non-Montgomery) canonical value: accumulators
// that batch multiplications without intermediate reduction still end
// up here as ordinary big.Int values before gcd is taken.
func (c *Context) SetIntForGcd(z *Residue) *big.Int {
	return c.Int(z)
}

// IsZero reports whether z is the zero residue.
func (c *Context) IsZero(z *Residue) bool {
	return z.v.Sign() == 0
}

// Add computes z = x + y mod N. z may alias x or y.
func (c *Context) Add(z, x, y *Residue) {
	t := new(big.Int).Add(x.v, y.v)
	if t.Cmp(c.n) >= 0 {
		t.Sub(t, c.n)
	}
	z.v = t
}

// Sub computes z = x - y mod N. z may alias x or y.
func (c *Context) Sub(z, x, y *Residue) {
	t := new(big.Int).Sub(x.v, y.v)
	if t.Sign() < 0 {
		t.Add(t, c.n)
	}
	z.v = t
}

// Neg computes z = -x mod N. z may alias x.
func (c *Context) Neg(z, x *Residue) {
	if x.v.Sign() == 0 {
		z.v = new(big.Int)
		return
	}
	z.v = new(big.Int).Sub(c.n, x.v)
}

// Mul computes z = x*y mod N. z may alias x or y.
func (c *Context) Mul(z, x, y *Residue) {
	t := new(big.Int).Mul(x.v, y.v)
	z.v = c.reduceProduct(t)
}

// Sqr computes z = x^2 mod N. z may alias x.
func (c *Context) Sqr(z, x *Residue) {
	c.Mul(z, x, x)
}

// Pow computes z = x^e mod N for a signed exponent e. Negative exponents
// invert x first; z may alias x.
func (c *Context) Pow(z, x *Residue, e *big.Int) error {
	base := &Residue{v: new(big.Int).Set(x.v)}
	if e.Sign() < 0 {
		inv := NewResidue()
		if err := c.Invert(inv, x); err != nil {
			return err
		}
		base = inv
		e = new(big.Int).Neg(e)
	}

	result := NewResidue()
	c.SetUint64(result, 1)

	for i := e.BitLen() - 1; i >= 0; i-- {
		c.Sqr(result, result)
		if e.Bit(i) == 1 {
			c.Mul(result, result, base)
		}
	}
	z.v = result.v
	return nil
}

// Invert computes z = x^-1 mod N. If gcd(Int(x), N) != 1, no inverse
// exists and Invert returns *ErrNoInverse carrying that gcd: this is
// success dressed as failure, the mechanism by which stage 2 discovers
// a factor of N.
func (c *Context) Invert(z, x *Residue) error {
	plain := c.Int(x)
	g := new(big.Int)
	inv := new(big.Int)
	g.GCD(inv, nil, plain, c.n)
	if g.Cmp(big.NewInt(1)) != 0 {
		return &ErrNoInverse{Gcd: g}
	}
	if inv.Sign() < 0 {
		inv.Add(inv, c.n)
	}
	c.SetInt(z, inv)
	return nil
}

// Gcd returns gcd(Int(x), N).
func (c *Context) Gcd(x *Residue) *big.Int {
	return new(big.Int).GCD(nil, nil, c.Int(x), c.n)
}

// MulByInt multiplies the residue x by the arbitrary-precision integer y
// (not necessarily reduced) and returns the canonical big.Int product
// modulo N, without promoting y into the residue representation. Used
// by the CRT layer when combining residues against large reconstruction
// weights.
func (c *Context) MulByInt(x *Residue, y *big.Int) *big.Int {
	t := new(big.Int).Mul(c.Int(x), y)
	return t.Mod(t, c.n)
}
