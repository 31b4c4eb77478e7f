package listz

import (
	"math/big"

	"github.com/wraythex/gmp-ecm/config"
	"github.com/wraythex/gmp-ecm/internal/xerr"
)

// block is one prefetched or pending chunk of consecutive elements.
type block struct {
	start int64
	vals  []*big.Int
	err   error
}

// Reader streams elements [offset, offset+length) out of a Handle in
// order. With cfg.UseAsyncIO set, a background goroutine prefetches the
// next block of cfg.StreamBlockLen elements while the caller processes
// the current one — the Go equivalent of the original's asynchronous
// read submitted one block ahead, waited on at the start of the next
// compute turn, without a platform AIO API to call into.
type Reader struct {
	h            Handle
	offset, end  int64
	pos          int64
	blockLen     int64
	async        bool
	blocks       chan block
	curBlock     block
	curIdx       int
	prefetchNext int64
}

// NewReader opens a sequential reader over [offset, offset+length) of h.
func NewReader(h Handle, cfg config.IOConfig, offset, length int64) (*Reader, error) {
	if offset < 0 || length < 0 || offset+length > h.Len() {
		return nil, xerr.New(xerr.InvalidParams, "listz: reader range out of bounds")
	}
	blockLen := int64(cfg.StreamBlockLen)
	if blockLen <= 0 {
		blockLen = 1
	}
	r := &Reader{
		h: h, offset: offset, end: offset + length, pos: offset,
		blockLen: blockLen, async: cfg.UseAsyncIO,
	}
	if r.async {
		r.blocks = make(chan block, 1)
		r.prefetchNext = offset
		go r.prefetchLoop()
	}
	return r, nil
}

func (r *Reader) prefetchLoop() {
	for r.prefetchNext < r.end {
		start := r.prefetchNext
		n := r.blockLen
		if start+n > r.end {
			n = r.end - start
		}
		b := r.readBlock(start, n)
		r.prefetchNext = start + n
		r.blocks <- b
		if b.err != nil {
			break
		}
	}
	close(r.blocks)
}

func (r *Reader) readBlock(start, n int64) block {
	vals := make([]*big.Int, n)
	for i := int64(0); i < n; i++ {
		v, err := r.h.Get(start + i)
		if err != nil {
			return block{start: start, err: err}
		}
		vals[i] = v
	}
	return block{start: start, vals: vals}
}

// Next returns the next element, or ok=false once the range is
// exhausted.
func (r *Reader) Next() (v *big.Int, ok bool, err error) {
	if r.pos >= r.end {
		return nil, false, nil
	}
	if r.async {
		if r.curBlock.vals == nil || r.curIdx >= len(r.curBlock.vals) {
			b, open := <-r.blocks
			if !open {
				return nil, false, nil
			}
			if b.err != nil {
				return nil, false, b.err
			}
			r.curBlock = b
			r.curIdx = 0
		}
		v = r.curBlock.vals[r.curIdx]
		r.curIdx++
		r.pos++
		return v, true, nil
	}

	v, err = r.h.Get(r.pos)
	if err != nil {
		return nil, false, err
	}
	r.pos++
	return v, true, nil
}

// Close drains any pending prefetch goroutine.
func (r *Reader) Close() {
	if r.async && r.blocks != nil {
		for range r.blocks {
		}
	}
}

// Writer streams elements into a Handle in order, buffering
// cfg.StreamBlockLen elements before flushing them to the handle as a
// batch. With cfg.UseAsyncIO, the flush of a full buffer happens on a
// background goroutine while the caller fills the next one; Close
// waits for the final flush.
type Writer struct {
	h           Handle
	offset, end int64
	pos         int64
	blockLen    int64
	async       bool
	buf         []*big.Int
	pending     chan writeJob
	done        chan error
	flushErr    error
}

type writeJob struct {
	start int64
	vals  []*big.Int
}

// NewWriter opens a sequential writer over [offset, offset+length) of h.
func NewWriter(h Handle, cfg config.IOConfig, offset, length int64) (*Writer, error) {
	if offset < 0 || length < 0 || offset+length > h.Len() {
		return nil, xerr.New(xerr.InvalidParams, "listz: writer range out of bounds")
	}
	blockLen := int64(cfg.StreamBlockLen)
	if blockLen <= 0 {
		blockLen = 1
	}
	w := &Writer{
		h: h, offset: offset, end: offset + length, pos: offset,
		blockLen: blockLen, async: cfg.UseAsyncIO,
	}
	if w.async {
		w.pending = make(chan writeJob, 1)
		w.done = make(chan error, 1)
		go w.flushLoop()
	}
	return w, nil
}

func (w *Writer) flushLoop() {
	for job := range w.pending {
		for i, v := range job.vals {
			if err := w.h.Set(job.start+int64(i), v); err != nil {
				w.done <- err
				return
			}
		}
	}
	w.done <- nil
}

// Write appends v at the writer's current position, flushing a full
// buffer to the handle (synchronously or, with UseAsyncIO, handed off
// to the background flush goroutine).
func (w *Writer) Write(v *big.Int) error {
	if w.flushErr != nil {
		return w.flushErr
	}
	if w.pos >= w.end {
		return xerr.New(xerr.InvalidParams, "listz: write past reserved range")
	}
	w.buf = append(w.buf, v)
	w.pos++
	if int64(len(w.buf)) >= w.blockLen || w.pos >= w.end {
		return w.flush()
	}
	return nil
}

func (w *Writer) flush() error {
	if len(w.buf) == 0 {
		return nil
	}
	start := w.pos - int64(len(w.buf))
	vals := w.buf
	w.buf = nil

	if w.async {
		w.pending <- writeJob{start: start, vals: vals}
		return nil
	}
	for i, v := range vals {
		if err := w.h.Set(start+int64(i), v); err != nil {
			w.flushErr = err
			return err
		}
	}
	return nil
}

// Close flushes any buffered elements and waits for the background
// flush goroutine (if any) to finish.
func (w *Writer) Close() error {
	if err := w.flush(); err != nil {
		return err
	}
	if w.async {
		close(w.pending)
		if err := <-w.done; err != nil {
			w.flushErr = err
			return err
		}
	}
	return w.flushErr
}
