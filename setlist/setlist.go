// Package setlist implements the factored-set representation of a
// stage-2 exponent: a sequence of small sets, each of cardinality 2 or
// an odd prime, whose sumset (one pick from each set, summed) enumerates
// the integers the orchestrator needs without ever materializing them
// as a single flat array.
//
// Grounded on the original source's set_list_t / sets_get_factored_sorted
// family (pm1fs2.c's make_S_1_S_2 and poly_from_sets_V): the sets.c
// translation unit that implements those functions was not part of the
// retrieved source, so the centered mixed-radix construction below is
// an original, self-consistent decomposition satisfying the same
// cardinality invariant and sumset role; see DESIGN.md for the
// specific deviation (each cardinality-2 factor is not centered about
// zero, unlike the odd-prime factors).
package setlist

import (
	"sort"

	"github.com/wraythex/gmp-ecm/internal/xerr"
)

// Set is one factor of a List: a sorted, distinct list of signed
// integers of cardinality 2 or an odd prime.
type Set []int64

// List is a factored representation of an integer P: picking one
// element from each Set and summing enumerates P distinct integers
// (the List's sumset).
type List []Set

// Build factors p (p > 0) into a List via trial division, one Set per
// prime factor (with multiplicity), ordered by increasing prime. Each
// odd-prime factor q contributes a Set centered on zero:
// {-w*(q-1)/2, ..., 0, ..., w*(q-1)/2} where w is the running place
// value (product of earlier factors' cardinalities); the factor 2, if
// present, contributes {0, w} uncentered. The resulting sumset is the
// contiguous range [minSum, minSum+p-1] for some minSum the caller can
// recover via List.Min.
func Build(p int64) (List, error) {
	if p <= 0 {
		return nil, xerr.New(xerr.InvalidParams, "setlist: p must be positive")
	}

	factors := primeFactors(p)
	list := make(List, 0, len(factors))
	weight := int64(1)
	for _, q := range factors {
		list = append(list, buildSet(q, weight))
		weight *= q
	}
	return list, nil
}

// buildSet returns the Set for one prime factor q at place value w.
func buildSet(q, w int64) Set {
	if q == 2 {
		return Set{0, w}
	}
	half := (q - 1) / 2
	s := make(Set, q)
	for i, d := int64(0), -half; d <= half; i, d = i+1, d+1 {
		s[i] = d * w
	}
	return s
}

// primeFactors returns the prime factorization of p with multiplicity,
// in increasing order, via trial division. Sufficient for the
// word-sized stage-2 parameters this package ever receives.
func primeFactors(p int64) []int64 {
	var out []int64
	n := p
	for _, q := range []int64{2, 3, 5, 7, 11, 13} {
		for n%q == 0 {
			out = append(out, q)
			n /= q
		}
	}
	for d := int64(17); d*d <= n; d += 2 {
		for n%d == 0 {
			out = append(out, d)
			n /= d
		}
	}
	if n > 1 {
		out = append(out, n)
	}
	return out
}

// Cardinality returns the product of every Set's length: the total
// number of distinct combinations (and hence sumset entries, ignoring
// the collision-free-by-construction guarantee) in l.
func (l List) Cardinality() int64 {
	n := int64(1)
	for _, s := range l {
		n *= int64(len(s))
	}
	return n
}

// Min and Max return the smallest and largest achievable sums directly,
// without enumerating the sumset: since every Set is sorted ascending,
// they are the sum of each Set's first (resp. last) element.
func (l List) Min() int64 {
	var sum int64
	for _, s := range l {
		sum += s[0]
	}
	return sum
}

func (l List) Max() int64 {
	var sum int64
	for _, s := range l {
		sum += s[len(s)-1]
	}
	return sum
}

// Sumset enumerates every combination of one element per Set, summed,
// sorted ascending. By construction (see Build) the result is exactly
// the contiguous integer range [l.Min(), l.Min()+l.Cardinality()-1].
func Sumset(l List) []int64 {
	out := []int64{0}
	for _, s := range l {
		next := make([]int64, 0, len(out)*len(s))
		for _, partial := range out {
			for _, v := range s {
				next = append(next, partial+v)
			}
		}
		out = next
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Extract removes Sets from the front of *s1 (smallest cardinality
// first, matching Build's increasing-prime order) until their combined
// Cardinality is at least target, returning them as a new List and
// leaving the remainder in *s1. Mirrors sets_extract's role in
// splitting a freshly factored set into the polynomial-side S1 and the
// many-times-enumerated S2.
func Extract(s1 *List, target int64) List {
	var s2 List
	acc := int64(1)
	i := 0
	for i < len(*s1) && acc < target {
		acc *= int64(len((*s1)[i]))
		i++
	}
	s2 = append(List(nil), (*s1)[:i]...)
	*s1 = append(List(nil), (*s1)[i:]...)
	return s2
}
