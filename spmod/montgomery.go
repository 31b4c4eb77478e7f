package spmod

// MForm converts a canonical value a in [0,p) to Montgomery form a*2^64
// mod p, for use with MulMontgomery.
func (m *Modulus) MForm(a uint64) uint64 {
	return m.Mul(a, bredOne(m))
}

// bredOne returns 2^64 mod p as a plain Barrett-reduced value, the
// multiplier needed to lift an operand into Montgomery form via an
// ordinary Mul.
func bredOne(m *Modulus) uint64 {
	// 2^64 mod p == bredReduce(1, 0, p, u): treat (ahi=1, alo=0) as the
	// 128-bit value 2^64.
	return bredReduce(1, 0, m.P, m.bred)
}

// InvMForm converts a from Montgomery form back to canonical form.
func (m *Modulus) InvMForm(a uint64) uint64 {
	return m.MulMontgomery(a, 1)
}
