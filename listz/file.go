package listz

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/wraythex/gmp-ecm/crt"
	"github.com/wraythex/gmp-ecm/internal/xerr"
)

const wordSize = 8 // bytes per stored uint64 residue

// FileHandle stores the vector on disk, one file per CRT prime, each
// file a dense array of n little-endian uint64 residues. Grounded on
// mpzspv_open_fileset's one-FILE*-per-prime layout.
type FileHandle struct {
	basis *crt.Basis
	n     int64
	dir   string
	stem  string
	files []*os.File
}

// Stem derives a deterministic, collision-resistant file name prefix
// from an arbitrary fingerprint (typically a hash of the run
// parameters), so that concurrent or historical runs with differing
// parameters never collide on a stale file_stem the way a flat
// caller-chosen name could.
func Stem(fingerprint []byte) string {
	sum := blake3.Sum256(fingerprint)
	return fmt.Sprintf("gmpecm-%x", sum[:16])
}

// NewFileHandle creates (or truncates) one file per basis prime under
// dir, named "<stem>.p<index>", each preallocated to hold n residues.
func NewFileHandle(basis *crt.Basis, n int64, dir, stem string) (*FileHandle, error) {
	h := &FileHandle{basis: basis, n: n, dir: dir, stem: stem}
	h.files = make([]*os.File, len(basis.Primes))

	for p := range h.files {
		path := filepath.Join(dir, fmt.Sprintf("%s.p%d", stem, p))
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
		if err != nil {
			h.closeOpened(p)
			return nil, xerr.Wrap(xerr.IO, "creating spv file", err)
		}
		if err := preallocate(f, n*wordSize); err != nil {
			f.Close()
			h.closeOpened(p)
			return nil, xerr.Wrap(xerr.IO, "preallocating spv file", err)
		}
		h.files[p] = f
	}
	return h, nil
}

func (h *FileHandle) closeOpened(upTo int) {
	for i := 0; i < upTo; i++ {
		if h.files[i] != nil {
			h.files[i].Close()
		}
	}
}

func (h *FileHandle) Len() int64        { return h.n }
func (h *FileHandle) Basis() *crt.Basis { return h.basis }

func (h *FileHandle) Get(i int64) (*big.Int, error) {
	residues := make([]uint64, len(h.files))
	if err := h.GetResidues(i, residues); err != nil {
		return nil, err
	}
	return h.basis.ToInteger(residues), nil
}

func (h *FileHandle) Set(i int64, v *big.Int) error {
	return h.SetResidues(i, h.basis.FromInteger(v))
}

func (h *FileHandle) GetResidues(i int64, out []uint64) error {
	if err := checkIndex(i, h.n); err != nil {
		return err
	}
	var buf [wordSize]byte
	for p, f := range h.files {
		if _, err := f.ReadAt(buf[:], i*wordSize); err != nil {
			return xerr.Wrap(xerr.IO, "reading spv residue", err)
		}
		out[p] = binary.LittleEndian.Uint64(buf[:])
	}
	return nil
}

func (h *FileHandle) SetResidues(i int64, row []uint64) error {
	if err := checkIndex(i, h.n); err != nil {
		return err
	}
	var buf [wordSize]byte
	for p, f := range h.files {
		binary.LittleEndian.PutUint64(buf[:], row[p])
		if _, err := f.WriteAt(buf[:], i*wordSize); err != nil {
			return xerr.Wrap(xerr.IO, "writing spv residue", err)
		}
	}
	return nil
}

func (h *FileHandle) Close() error {
	var first error
	for _, f := range h.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
