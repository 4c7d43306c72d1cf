package lldbridge

import (
	"bytes"
	"sync"
)

const (
	// Pool limits to prevent memory bloat from one huge diagnostic dump
	poolMaxCap  = 1 << 20 // bytes
	poolInitCap = 256
)

// diagnostic buffer pool shared by sinks and returned blobs
var diagPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, poolInitCap))
	},
}

func getDiagBuf() *bytes.Buffer {
	return diagPool.Get().(*bytes.Buffer)
}

func putDiagBuf(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > poolMaxCap {
		return // reject oversized
	}
	buf.Reset()
	diagPool.Put(buf)
}

// Result is the outcome of one link invocation.
//
// Success mirrors the driver's own verdict and is independent of
// Diagnostics: a failed link may carry no text, and a successful link
// may carry warnings.
type Result struct {
	Success     bool
	Diagnostics *Diagnostics
}

// Diagnostics is the combined error and informational text emitted by
// one link invocation, error text first. It owns a pooled buffer;
// ownership rests with the caller of Link until Release is called.
type Diagnostics struct {
	buf *bytes.Buffer
}

// String returns the diagnostic text. Safe on a nil receiver.
func (d *Diagnostics) String() string {
	if d == nil || d.buf == nil {
		return ""
	}
	return d.buf.String()
}

// Len returns the diagnostic text length in bytes. Safe on a nil
// receiver.
func (d *Diagnostics) Len() int {
	if d == nil || d.buf == nil {
		return 0
	}
	return d.buf.Len()
}

// Release returns the diagnostic buffer to the pool and clears the
// result's reference to it. Calling Release on a result without
// diagnostics is a safe no-op any number of times.
//
// A present buffer must be released exactly once: after Release the
// buffer may back another invocation's diagnostics, so releasing the
// same buffer again through a copy of the Result is undefined.
func (r *Result) Release() {
	if r == nil || r.Diagnostics == nil {
		return
	}
	putDiagBuf(r.Diagnostics.buf)
	r.Diagnostics.buf = nil
	r.Diagnostics = nil
}

// packageDiagnostics combines the two call-scoped sinks into one owned
// blob, error text first. Both sinks come from the pool; whichever
// buffer does not end up inside the returned Diagnostics goes back.
// Empty combined text yields nil, so callers never release a
// zero-length allocation.
func packageDiagnostics(errSink, outSink *bytes.Buffer) *Diagnostics {
	if errSink.Len() == 0 && outSink.Len() == 0 {
		putDiagBuf(errSink)
		putDiagBuf(outSink)
		return nil
	}
	errSink.Write(outSink.Bytes())
	putDiagBuf(outSink)
	return &Diagnostics{buf: errSink}
}
