package ntt

import "github.com/wraythex/gmp-ecm/spmod"

// groupFactors splits L into its prime-power components (one entry per
// distinct prime dividing L), in increasing prime order. Each entry is
// therefore pairwise coprime with every other, which is exactly the
// precondition the prime-factor (PFA) composition below needs.
func groupFactors(L int) []int {
	var groups []int
	n := L
	for _, p := range []int{2, 3, 5, 7} {
		if n%p == 0 {
			g := 1
			for n%p == 0 {
				g *= p
				n /= p
			}
			groups = append(groups, g)
		}
	}
	return groups
}

func smallestPrimeFactor(n int) int {
	for _, p := range []int{2, 3, 5, 7} {
		if n%p == 0 {
			return p
		}
	}
	return n
}

// primePowerTransform computes the length-size DFT of x using root, a
// primitive size-th root of unity, where size is a pure power of a
// single prime in {2,3,5,7}. Sizes already in BaseSizes are handled
// directly by a Codelet; larger prime powers recurse via the classic
// decimation-in-time Cooley-Tukey split (lattigo's butterfly/
// invbutterfly generalized from radix 2 to radix p).
func primePowerTransform(x []uint64, m *spmod.Modulus, root uint64, size int, backend spmod.Backend) []uint64 {
	if isBaseSize(size) {
		c := &Codelet{Size: size, Backend: backend}
		c.Init(m, root, uint64(size))
		out := make([]uint64, size)
		c.Run(x, out)
		return out
	}

	p := smallestPrimeFactor(size)
	cofactor := size / p
	subRoot := m.Pow(root, uint64(p))

	subs := make([][]uint64, p)
	for r := 0; r < p; r++ {
		sub := make([]uint64, cofactor)
		for j := 0; j < cofactor; j++ {
			sub[j] = x[j*p+r]
		}
		subs[r] = primePowerTransform(sub, m, subRoot, cofactor, backend)
	}

	out := make([]uint64, size)
	for k := 0; k < size; k++ {
		kk := k % cofactor
		acc := uint64(0)
		tw := m.Pow(root, uint64(k))
		twR := uint64(1)
		for r := 0; r < p; r++ {
			acc = m.Add(acc, m.Mul(subs[r][kk], twR))
			twR = m.Mul(twR, tw)
		}
		out[k] = acc
	}
	return out
}

// modInverseInt returns a^-1 mod n for coprime small ints a, n via the
// extended Euclidean algorithm.
func modInverseInt(a, n int) int {
	if n == 1 {
		return 0
	}
	a = ((a % n) + n) % n
	old, cur := n, a
	x0, x1 := 0, 1
	for cur != 0 {
		q := old / cur
		old, cur = cur, old-q*cur
		x0, x1 = x1, x0-q*x1
	}
	if x0 < 0 {
		x0 += n
	}
	return x0
}

// pfaTransform combines two coprime-length sub-transforms into a
// length n1*n2 transform using the Good-Thomas prime-factor algorithm:
// a CRT index map on input, a simple (Ruritanian) index map on output,
// and no twiddle factors, since gcd(n1,n2) = 1. f1 computes a length-n1
// transform, f2 a length-n2 transform; each is handed the sub-root of
// the appropriate order.
func pfaTransform(x []uint64, m *spmod.Modulus, root uint64, n1, n2 int,
	f1 func(sub []uint64, subRoot uint64) []uint64,
	f2 func(sub []uint64, subRoot uint64) []uint64) []uint64 {

	N := n1 * n2
	a := modInverseInt(n1, n2) // n1^-1 mod n2
	b := modInverseInt(n2, n1) // n2^-1 mod n1

	rootN2 := m.Pow(root, uint64(n1))
	rootN1 := m.Pow(root, uint64(n2))

	cols := make([][]uint64, n1)
	for i1 := 0; i1 < n1; i1++ {
		sub := make([]uint64, n2)
		for i2 := 0; i2 < n2; i2++ {
			pos := (i1*n2*b + i2*n1*a) % N
			sub[i2] = x[pos]
		}
		cols[i1] = f2(sub, rootN2)
	}

	out := make([]uint64, N)
	for k2 := 0; k2 < n2; k2++ {
		row := make([]uint64, n1)
		for i1 := 0; i1 < n1; i1++ {
			row[i1] = cols[i1][k2]
		}
		res := f1(row, rootN1)
		for k1 := 0; k1 < n1; k1++ {
			pos := (k1*n2 + k2*n1) % N
			out[pos] = res[k1]
		}
	}
	return out
}

// groupedTransform computes the length-product(groups) DFT of x by
// folding the prime-power groups left to right through pfaTransform,
// bottoming out at primePowerTransform for a single group. Valid
// because every pair of groups is coprime by construction of
// groupFactors.
func groupedTransform(x []uint64, m *spmod.Modulus, root uint64, groups []int, backend spmod.Backend) []uint64 {
	if len(groups) == 1 {
		return primePowerTransform(x, m, root, groups[0], backend)
	}
	n1 := groups[0]
	rest := groups[1:]
	n2 := 1
	for _, g := range rest {
		n2 *= g
	}
	return pfaTransform(x, m, root, n1, n2,
		func(sub []uint64, subRoot uint64) []uint64 { return primePowerTransform(sub, m, subRoot, n1, backend) },
		func(sub []uint64, subRoot uint64) []uint64 { return groupedTransform(sub, m, subRoot, rest, backend) },
	)
}

// Forward computes the length-L NTT of x modulo m.P, using root as the
// primitive L-th root of unity (as returned by RootOfUnity). L must be
// 2,3,5,7-smooth; callers that haven't already validated this via
// Planner.Plan should do so first, since Forward itself does not.
// Detects the host's vector lane width itself, since standalone callers
// bypass Planner.Plan (where a Runner instead reuses the Backend its
// Plan already detected).
func Forward(x []uint64, m *spmod.Modulus, root uint64, L int) []uint64 {
	return groupedTransform(x, m, root, groupFactors(L), spmod.DetectBackend())
}

// Inverse computes the length-L inverse NTT: Forward with the
// reciprocal root, scaled by L^-1 mod m.P.
func Inverse(x []uint64, m *spmod.Modulus, root uint64, L int) []uint64 {
	invRoot := m.Inv(root)
	y := groupedTransform(x, m, invRoot, groupFactors(L), spmod.DetectBackend())
	invL := m.Inv(uint64(L) % m.P)
	for i := range y {
		y[i] = m.Mul(y[i], invL)
	}
	return y
}
