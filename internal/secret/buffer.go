package secret

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// outstanding counts buffers that have been created but not closed.
var outstanding atomic.Int64

// releaseHook, when set, sees every region after it has been zeroed and
// before it is handed back to the allocator.
var releaseHook func(region []byte)

// allocHook, when set, runs before every region allocation and can refuse it.
var allocHook func(size int) error

// Buffer is an owned, growable byte buffer for secret material. The bytes
// up to Len are the content; the rest of the region is spare capacity and
// is always zero.
//
// A Buffer must not be copied after creation. Close must be called on every
// path once the secret is no longer needed.
type Buffer struct {
	mu     sync.Mutex
	data   []byte
	length int
	closed bool
}

// New allocates an empty buffer with room for capacity bytes.
func New(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("secret: capacity must be positive, got %d", capacity)
	}

	data, err := allocate(capacity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	outstanding.Add(1)

	return &Buffer{data: data}, nil
}

// NewFromBytes copies source into a new buffer and then zeroes source in
// place, so the caller's slice no longer holds the secret.
func NewFromBytes(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, ErrEmpty
	}

	buffer, err := New(len(source))
	if err != nil {
		Zero(source)
		return nil, err
	}

	copy(buffer.data, source)
	buffer.length = len(source)
	Zero(source)

	return buffer, nil
}

// Outstanding reports how many buffers have been created and not yet closed.
func Outstanding() int {
	return int(outstanding.Load())
}

// Zero overwrites b with zero bytes.
func Zero(b []byte) {
	for index := range b {
		b[index] = 0
	}
}

// Bytes returns the content. The slice points into the buffer's region and
// must not be used after Close or after the buffer grows.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mustBeOpen()
	return b.data[:b.length]
}

// Len returns the content length.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.length
}

// Cap returns the size of the backing region.
func (b *Buffer) Cap() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.data)
}

// Append adds one byte, growing the buffer if it is full.
func (b *Buffer) Append(c byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mustBeOpen()
	if err := b.ensure(1); err != nil {
		return err
	}
	b.data[b.length] = c
	b.length++
	return nil
}

// Write appends p. It implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mustBeOpen()
	if err := b.ensure(len(p)); err != nil {
		return 0, err
	}
	copy(b.data[b.length:], p)
	b.length += len(p)
	return len(p), nil
}

// Extend grows the content by n zero bytes and returns them for the caller
// to fill in place.
func (b *Buffer) Extend(n int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mustBeOpen()
	if n < 0 {
		panic("secret: negative extend")
	}
	if err := b.ensure(n); err != nil {
		return nil, err
	}
	tail := b.data[b.length : b.length+n]
	b.length += n
	return tail, nil
}

// ReadFrom reads r until end of stream directly into the buffer's spare
// capacity, so no staging copy of the data is made on the Go heap. It
// implements io.ReaderFrom.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mustBeOpen()
	var total int64
	for {
		if b.length == len(b.data) {
			if err := b.ensure(1); err != nil {
				return total, err
			}
		}

		n, err := r.Read(b.data[b.length:])
		if n < 0 || n > len(b.data)-b.length {
			return total, fmt.Errorf("secret: reader returned invalid count %d", n)
		}
		b.length += n
		total += int64(n)

		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Truncate discards all but the first n content bytes. The discarded bytes
// are zeroed, not just excluded from the length.
func (b *Buffer) Truncate(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mustBeOpen()
	if n < 0 || n > b.length {
		panic("secret: truncation out of range")
	}
	Zero(b.data[n:b.length])
	b.length = n
}

// WriteTo writes the content to w in a single call. It implements
// io.WriterTo.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mustBeOpen()
	n, err := w.Write(b.data[:b.length])
	if err == nil && n != b.length {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

// Close zeroes the region and releases it. Close is idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	outstanding.Add(-1)

	err := release(b.data)
	b.data = nil
	b.length = 0
	return err
}

func (b *Buffer) mustBeOpen() {
	if b.closed {
		panic("secret: use of closed buffer")
	}
}

// ensure makes room for n more content bytes, doubling the region until it
// fits. The old region is zeroed and released once its content is copied.
func (b *Buffer) ensure(n int) error {
	need := b.length + n
	if need <= len(b.data) {
		return nil
	}

	capacity := len(b.data)
	for capacity < need {
		capacity *= 2
	}

	data, err := allocate(capacity)
	if err != nil {
		return fmt.Errorf("%w: growing to %d bytes: %w", ErrAllocation, capacity, err)
	}
	copy(data, b.data[:b.length])

	old := b.data
	b.data = data
	return release(old)
}

func allocate(size int) ([]byte, error) {
	if allocHook != nil {
		if err := allocHook(size); err != nil {
			return nil, err
		}
	}
	return allocRegion(size)
}

func release(region []byte) error {
	Zero(region)
	if releaseHook != nil {
		releaseHook(region)
	}
	return freeRegion(region)
}
