// Package bigmod implements the large-integer modular arithmetic layer:
// a process-scoped modulus Context and Montgomery-form residues (mpres)
// over it, following the representation contract of lattigo's ring
// package (see ring.Ring / modular_reduction.go) generalized from
// machine-word moduli to arbitrary-precision N.
package bigmod

import (
	"math/big"

	"github.com/wraythex/gmp-ecm/internal/xerr"
)

// Repr selects the internal coding used to hold residues of a Context.
type Repr int

const (
	// Plain holds residues as their canonical representative in [0, N).
	Plain Repr = iota
	// Montgomery holds residues as x*R mod N, R = 2^(64*wordCount).
	Montgomery
	// Mersenne holds residues as their canonical representative, but
	// reduces products with the shift-and-add fold instead of REDC.
	Mersenne
)

// Context is an immutable, process-scoped modulus context. It is cheap
// to Clone for worker threads: the clone shares the immutable N and
// derived constants and owns no mutable state.
type Context struct {
	n     *big.Int
	repr  Repr
	words int      // number of 64-bit words covering N
	r     *big.Int // R = 2^(64*words)
	rSq   *big.Int // R^2 mod N
	nInv0 uint64   // -N^-1 mod 2^64, the REDC word constant

	mersK uint  // Mersenne bit shape exponent (Mersenne repr only)
	mersC int64 // Mersenne shape constant: N = 2^mersK - mersC
}

// ErrNoInverse is returned by Invert when the operand shares a nontrivial
// factor with N. Gcd carries that factor: this is the factor-finding
// mechanism itself, not merely a failure report.
type ErrNoInverse struct {
	Gcd *big.Int
}

func (e *ErrNoInverse) Error() string {
	return "bigmod: no inverse exists (gcd != 1)"
}

// NewContext builds a Context for modulus n. Representation is chosen by
// inspecting n: even moduli are rejected (stage 2 always runs modulo an
// odd composite), moduli of the form 2^k - c with c < 2^20 get the
// Mersenne fast-reduction form, and all others default to Montgomery
// form.
func NewContext(n *big.Int) (*Context, error) {
	if n.Sign() <= 0 || n.Cmp(big.NewInt(1)) <= 0 {
		return nil, xerr.New(xerr.InvalidParams, "modulus must be > 1")
	}
	if n.Bit(0) == 0 {
		return nil, xerr.New(xerr.InvalidParams, "modulus must be odd")
	}

	if k, cc, ok := mersenneShape(n); ok {
		return &Context{n: new(big.Int).Set(n), repr: Mersenne, mersK: k, mersC: cc}, nil
	}

	c := &Context{n: new(big.Int).Set(n), repr: Montgomery}
	c.words = (n.BitLen() + 63) / 64
	c.r = new(big.Int).Lsh(big.NewInt(1), uint(64*c.words))
	c.rSq = new(big.Int).Mod(new(big.Int).Mul(c.r, c.r), c.n)
	c.nInv0 = negModInverseWord(n)
	return c, nil
}

// NewContextMersenne forces the Mersenne-shaped fast-reduction path for
// N = 2^k - c, bypassing the automatic shape detection in NewContext.
// Returns an error if N does not actually have that shape.
func NewContextMersenne(n *big.Int) (*Context, error) {
	if n.Bit(0) == 0 {
		return nil, xerr.New(xerr.InvalidParams, "modulus must be odd")
	}
	k, c, ok := mersenneShape(n)
	if !ok {
		return nil, xerr.New(xerr.InvalidParams, "modulus is not of Mersenne-like shape")
	}
	return &Context{n: new(big.Int).Set(n), repr: Mersenne, mersK: k, mersC: c}, nil
}

// negModInverseWord computes -n^-1 mod 2^64 using the standard Newton
// iteration for odd n, i.e. the REDC word constant.
func negModInverseWord(n *big.Int) uint64 {
	n0 := n.Uint64() // low 64 bits; n is odd so this is odd too
	// Hensel-lift the inverse of n0 mod 2, 4, 8, ... 2^64.
	x := uint64(1)
	for i := 0; i < 6; i++ { // 2^(2^6) = 2^64
		x *= 2 - n0*x
	}
	return -x
}

// Clone returns a thread-local copy of the Context. Since Context is
// immutable after construction, Clone is a cheap shallow copy; it exists
// to make the no-shared-mutable-state contract explicit at call sites,
// replacing implicit aliasing across worker goroutines.
func (c *Context) Clone() *Context {
	cc := *c
	return &cc
}

// N returns the modulus.
func (c *Context) N() *big.Int { return c.n }

// BitLen returns the bit width of N.
func (c *Context) BitLen() int { return c.n.BitLen() }

// Repr returns the representation in use.
func (c *Context) Repr() Repr { return c.repr }

// redc performs Montgomery reduction: given t in [0, N*R), returns
// t*R^-1 mod N in [0, N).
func (c *Context) redc(t *big.Int) *big.Int {
	res := new(big.Int).Set(t)
	mask := new(big.Int).SetUint64(^uint64(0))
	tmp := new(big.Int)
	for i := 0; i < c.words; i++ {
		lo := new(big.Int).And(res, mask).Uint64()
		m := lo * c.nInv0
		tmp.SetUint64(m)
		tmp.Mul(tmp, c.n)
		res.Add(res, tmp)
		res.Rsh(res, 64)
	}
	if res.Cmp(c.n) >= 0 {
		res.Sub(res, c.n)
	}
	return res
}

// toMontgomery converts a canonical value a in [0,N) to Montgomery form.
// a < N and rSq < N so a*rSq < N^2 < N*R (since R > N by construction),
// which is exactly the domain redc requires; no extra reduction needed.
func (c *Context) toMontgomery(a *big.Int) *big.Int {
	t := new(big.Int).Mul(a, c.rSq)
	return c.redc(t)
}

// fromMontgomery converts a Montgomery-form value back to canonical form.
func (c *Context) fromMontgomery(a *big.Int) *big.Int {
	return c.redc(new(big.Int).Set(a))
}
