package ntt

import "github.com/wraythex/gmp-ecm/spmod"

// BaseSizes lists the prime-power lengths this package provides a
// direct codelet for. Every other supported composite length (6, 12,
// 15, 20, 24, 35, 40, ...) is realized by combining these through the
// planner's PFA or Cooley-Tukey composition, not by a dedicated
// codelet, since those lengths all factor into {2,3,5,7} powers.
var BaseSizes = []int{2, 3, 4, 5, 7, 8, 9, 16}

func isBaseSize(n int) bool {
	for _, s := range BaseSizes {
		if s == n {
			return true
		}
	}
	return false
}

// Codelet is a direct (matrix-form) DFT of a fixed small size, holding
// the precomputed powers of its size-th root of unity. The
// specification's four codelet entry points (init/run/pfa_run/
// twiddle_run) are spread across this type and the package-level
// transform helpers that drive it.
type Codelet struct {
	Size    int
	roots   []uint64 // roots[i] = w^i mod p, w a primitive Size-th root
	m       *spmod.Modulus
	Backend spmod.Backend // lane width Run batches its row multiply through
}

// Init precomputes the root table for a codelet of c.Size given a
// primitive root of unity of the stated order (order must be a
// multiple of c.Size).
func (c *Codelet) Init(m *spmod.Modulus, primRoot uint64, order uint64) {
	c.m = m
	w := m.Pow(primRoot, order/uint64(c.Size))
	c.roots = make([]uint64, c.Size)
	c.roots[0] = 1
	for i := 1; i < c.Size; i++ {
		c.roots[i] = m.Mul(c.roots[i-1], w)
	}
}

// Run computes the direct length-Size DFT of in, writing to out.
// O(Size^2); acceptable since Size never exceeds 16. Each row's n
// pointwise products are batched through a single m.MulVec call at
// c.Backend's lane width (rather than n interleaved scalar Mul/Add
// calls), then reduced by a plain sum; the row's root sequence is
// gathered into rowRoots first since c.roots itself is only the
// canonical w^0..w^{n-1} table, not laid out in row-k order.
func (c *Codelet) Run(in, out []uint64) {
	n := c.Size
	rowRoots := make([]uint64, n)
	prod := make([]uint64, n)
	for k := 0; k < n; k++ {
		idx := 0
		for j := 0; j < n; j++ {
			rowRoots[j] = c.roots[idx]
			idx += k
			if idx >= n {
				idx -= n
			}
		}
		c.m.MulVec(c.Backend, in, rowRoots, prod)
		acc := uint64(0)
		for _, v := range prod {
			acc = c.m.Add(acc, v)
		}
		out[k] = acc
	}
}

// TwiddleRun applies c's length-Size DFT independently to num
// interleaved blocks of stride num within x (the classic Cooley-Tukey
// "butterfly pass" over a decimated view of the full vector), then
// scales outputs 1..Size-1 of each block by the supplied per-block
// twiddle factor before writing back. The composers in transform.go do
// not call it: primePowerTransform computes its radix-p stages inline.
func (c *Codelet) TwiddleRun(x []uint64, num int, twiddles []uint64) {
	in := make([]uint64, c.Size)
	out := make([]uint64, c.Size)
	for b := 0; b < num; b++ {
		for j := 0; j < c.Size; j++ {
			in[j] = x[b+j*num]
		}
		c.Run(in, out)
		for j := 0; j < c.Size; j++ {
			v := out[j]
			if j > 0 && twiddles != nil {
				v = c.m.Mul(v, twiddles[b*(c.Size-1)+j-1])
			}
			x[b+j*num] = v
		}
	}
}
