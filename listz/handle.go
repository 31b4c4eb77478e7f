// Package listz implements buffered vector storage for the small-prime
// residue representation (spv) a CRT basis produces: one logical vector
// of big.Int values, each held as len(Basis.Primes) machine-word
// residues, backed either by RAM or by one file per prime.
//
// Grounded on the original source's listz_handle_t / mpzspv_handle_t
// split (listz_handle.h, mpzspv.c): a uniform Get/Set contract over
// either a mem union member or an array of FILE* handles, one per CRT
// prime, generalized here into a single Handle interface with two
// implementations instead of a tagged union.
package listz

import (
	"math/big"

	"github.com/wraythex/gmp-ecm/crt"
	"github.com/wraythex/gmp-ecm/internal/xerr"
)

// Handle is a random-access vector of Len() big.Int values, each stored
// internally as a row of per-prime residues under Basis().
type Handle interface {
	// Len returns the number of vector elements.
	Len() int64
	// Basis returns the CRT basis used to split/reconstruct elements.
	Basis() *crt.Basis
	// Get reconstructs element i as a big.Int.
	Get(i int64) (*big.Int, error)
	// Set stores v at element i, splitting it across the basis primes.
	Set(i int64, v *big.Int) error
	// GetResidues reads the raw per-prime residue row for element i,
	// in basis prime order, without CRT reconstruction.
	GetResidues(i int64, out []uint64) error
	// SetResidues stores a raw per-prime residue row for element i,
	// bypassing CRT splitting (used when a caller already has NTT
	// output in residue form).
	SetResidues(i int64, row []uint64) error
	// Close releases any backing resources (file descriptors, etc).
	Close() error
}

func checkIndex(i, n int64) error {
	if i < 0 || i >= n {
		return xerr.New(xerr.InvalidParams, "listz: index out of range")
	}
	return nil
}

// MemHandle stores the vector as one []uint64 row per CRT prime,
// entirely in RAM.
type MemHandle struct {
	basis *crt.Basis
	n     int64
	rows  [][]uint64 // rows[primeIdx][i]
}

// NewMemHandle allocates a zero-valued in-RAM handle of length n.
func NewMemHandle(basis *crt.Basis, n int64) *MemHandle {
	rows := make([][]uint64, len(basis.Primes))
	for p := range rows {
		rows[p] = make([]uint64, n)
	}
	return &MemHandle{basis: basis, n: n, rows: rows}
}

func (h *MemHandle) Len() int64        { return h.n }
func (h *MemHandle) Basis() *crt.Basis { return h.basis }

func (h *MemHandle) Get(i int64) (*big.Int, error) {
	if err := checkIndex(i, h.n); err != nil {
		return nil, err
	}
	residues := make([]uint64, len(h.rows))
	for p := range h.rows {
		residues[p] = h.rows[p][i]
	}
	return h.basis.ToInteger(residues), nil
}

func (h *MemHandle) Set(i int64, v *big.Int) error {
	if err := checkIndex(i, h.n); err != nil {
		return err
	}
	residues := h.basis.FromInteger(v)
	for p := range h.rows {
		h.rows[p][i] = residues[p]
	}
	return nil
}

func (h *MemHandle) GetResidues(i int64, out []uint64) error {
	if err := checkIndex(i, h.n); err != nil {
		return err
	}
	for p := range h.rows {
		out[p] = h.rows[p][i]
	}
	return nil
}

func (h *MemHandle) SetResidues(i int64, row []uint64) error {
	if err := checkIndex(i, h.n); err != nil {
		return err
	}
	for p := range h.rows {
		h.rows[p][i] = row[p]
	}
	return nil
}

func (h *MemHandle) Close() error { return nil }
