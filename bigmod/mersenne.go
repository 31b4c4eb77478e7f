package bigmod

import "math/big"

// mersenneShape reports whether n = 2^k - c for some small positive c
// (c < 2^20), the "base-2 Mersenne-like" representation tag named in the
// specification's modulus-context data model. Detection is a cheap
// comparison against the next power of two above n; it does not attempt
// a full factorization of n-adjacent values.
func mersenneShape(n *big.Int) (k uint, c int64, ok bool) {
	bl := n.BitLen()
	pow := new(big.Int).Lsh(big.NewInt(1), uint(bl))
	diff := new(big.Int).Sub(pow, n)
	if diff.Sign() <= 0 || !diff.IsInt64() {
		return 0, 0, false
	}
	d := diff.Int64()
	if d >= (1 << 20) {
		return 0, 0, false
	}
	return uint(bl), d, true
}

// fastReduce reduces t modulo n = 2^k - c using the standard Mersenne
// fold: t = hi*2^k + lo  =>  t ≡ hi*c + lo (mod n), iterated until the
// remainder fits in k+1 bits, then a final conditional subtraction.
func fastReduce(t *big.Int, k uint, c int64, n *big.Int) *big.Int {
	res := new(big.Int).Set(t)
	hi := new(big.Int)
	lo := new(big.Int)
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), k), big.NewInt(1))
	cBig := big.NewInt(c)

	for res.BitLen() > int(k)+1 {
		hi.Rsh(res, k)
		lo.And(res, mask)
		hi.Mul(hi, cBig)
		res.Add(hi, lo)
	}
	for res.Cmp(n) >= 0 {
		res.Sub(res, n)
	}
	return res
}
