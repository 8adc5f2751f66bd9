// Package handle provides an ownership-checked table of open buffers.
//
// Foreign callers cannot hold Go pointers, so each open document is
// identified by an opaque Handle. The registry is the single owner of
// buffer lifetimes at that seam: create issues a handle, close releases
// it, and any use of a released (or never-issued) handle is caught here
// and reported as ErrUnknownHandle instead of dereferencing stale memory.
//
// Handles count up monotonically and are never reused within a registry's
// lifetime, so a stale handle can never alias a newly opened document.
package handle

import (
	"errors"
	"io"
	"sync"

	"github.com/itsvks/textbuffer/internal/engine/buffer"
)

// Handle is an opaque reference to an open buffer.
type Handle uint64

// ErrUnknownHandle reports a handle that was never issued or has been
// closed.
var ErrUnknownHandle = errors.New("unknown buffer handle")

// Registry maps handles to open buffers.
type Registry struct {
	mu      sync.Mutex
	next    Handle
	buffers map[Handle]*buffer.Buffer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{buffers: make(map[Handle]*buffer.Buffer)}
}

// Open creates a buffer with the given content and returns its handle.
func (r *Registry) Open(text string) Handle {
	return r.register(buffer.NewFromString(text))
}

// OpenReader creates a buffer by streaming a byte source.
// Failure kinds are those of buffer.NewFromReader; on failure no handle
// is issued.
func (r *Registry) OpenReader(src io.Reader) (Handle, error) {
	b, err := buffer.NewFromReader(src)
	if err != nil {
		return 0, err
	}
	return r.register(b), nil
}

// OpenPath creates a buffer from a file's contents.
func (r *Registry) OpenPath(path string) (Handle, error) {
	b, err := buffer.NewFromPath(path)
	if err != nil {
		return 0, err
	}
	return r.register(b), nil
}

func (r *Registry) register(b *buffer.Buffer) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.buffers[r.next] = b
	return r.next
}

// Buffer resolves a handle to its buffer.
func (r *Registry) Buffer(h Handle) (*buffer.Buffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buffers[h]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return b, nil
}

// Close releases the buffer behind a handle. Closing an already-released
// handle is a no-op; each handle is meant to be closed exactly once by
// its owner.
func (r *Registry) Close(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.buffers, h)
}

// Count returns the number of open buffers. Useful for leak checks.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buffers)
}
