package bind_group_provider

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNoBuffer is returned by Write when a binding has no allocated buffer.
var ErrNoBuffer = errors.New("bind_group_provider: no buffer for binding")

// ErrInvalidStride is returned by EnsureBuffer for strides <= 0.
var ErrInvalidStride = errors.New("bind_group_provider: stride must be positive")

// allocation tracks one binding's buffer together with the element layout it was sized for.
type allocation struct {
	buf    Buffer
	stride int
	count  int
}

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	mu *sync.Mutex

	// label is a debug label added for convenience.
	label string

	allocator BufferAllocator

	// entries holds the buffers created for this provider, keyed by binding index.
	entries map[int]*allocation

	reallocations int
	released      int
}

// BindGroupProvider owns the device buffers of one bind group, keyed by binding index.
// Buffers are sized by element stride and count and are recreated only when the count
// changes. Every buffer this provider creates is released exactly once.
//
// Usage pattern:
//  1. Create a provider with an allocator for the target device
//  2. Call EnsureBuffer for each binding before uploading
//  3. Call Write to upload the packed records
//  4. Hand Buffer(binding) to the backend when binding resources
//  5. Call Release when the owner shuts down
type BindGroupProvider interface {
	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// EnsureBuffer makes sure binding holds a buffer sized for count elements of stride bytes.
	// The existing buffer is reused when its element count matches; otherwise it is released
	// and a new one is created. A zero count allocates a single-element placeholder because
	// device buffers must not be empty; Count still reports 0.
	//
	// Parameters:
	//   - binding: the binding index
	//   - stride: element size in bytes
	//   - count: number of elements
	//
	// Returns:
	//   - Buffer: the buffer now bound at binding
	//   - bool: true if a new buffer was created
	//   - error: ErrInvalidStride or an allocation error
	EnsureBuffer(binding, stride, count int) (Buffer, bool, error)

	// Write applies the writes in order.
	//
	// Parameters:
	//   - writes: buffer writes targeting this provider's bindings
	//
	// Returns:
	//   - error: ErrNoBuffer or the first buffer write error
	Write(writes ...BufferWrite) error

	// Buffer returns the buffer at binding, or nil if none has been allocated.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - Buffer: the buffer or nil
	Buffer(binding int) Buffer

	// Count returns the element count binding was last sized for.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - int: the element count, 0 if unallocated
	Count(binding int) int

	// Bindings returns the allocated binding indices in ascending order.
	//
	// Returns:
	//   - []int: binding indices
	Bindings() []int

	// Reallocations returns how many times a binding's buffer was replaced because its
	// count changed. First allocations are not counted.
	//
	// Returns:
	//   - int: the reallocation count
	Reallocations() int

	// Released returns how many buffers this provider has released.
	//
	// Returns:
	//   - int: the release count
	Released() int

	// Release releases every buffer held by this provider. Safe to call more than once.
	Release()
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
// Without WithAllocator the provider allocates host memory buffers.
//
// Parameters:
//   - label: debug label, also used as the prefix of buffer labels
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		mu:      &sync.Mutex{},
		label:   label,
		entries: make(map[int]*allocation),
	}
	for _, opt := range options {
		opt(p)
	}
	if p.allocator == nil {
		p.allocator = NewHostBufferAllocator()
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) EnsureBuffer(binding, stride, count int) (Buffer, bool, error) {
	if stride <= 0 {
		return nil, false, ErrInvalidStride
	}
	if count < 0 {
		count = 0
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	existing := p.entries[binding]
	if existing != nil && existing.buf != nil && existing.count == count && existing.stride == stride {
		return existing.buf, false, nil
	}

	allocCount := max(count, 1)
	buf, err := p.allocator.CreateBuffer(fmt.Sprintf("%s Binding %d", p.label, binding), uint64(stride*allocCount))
	if err != nil {
		return nil, false, fmt.Errorf("bind_group_provider: allocate binding %d: %w", binding, err)
	}

	if existing != nil && existing.buf != nil {
		existing.buf.Release()
		p.released++
		p.reallocations++
	}
	p.entries[binding] = &allocation{buf: buf, stride: stride, count: count}
	return buf, true, nil
}

func (p *bindGroupProvider) Write(writes ...BufferWrite) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, w := range writes {
		entry := p.entries[w.Binding]
		if entry == nil || entry.buf == nil {
			return fmt.Errorf("%w %d", ErrNoBuffer, w.Binding)
		}
		if err := entry.buf.Write(w.Offset, w.Data); err != nil {
			return err
		}
	}
	return nil
}

func (p *bindGroupProvider) Buffer(binding int) Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if entry := p.entries[binding]; entry != nil {
		return entry.buf
	}
	return nil
}

func (p *bindGroupProvider) Count(binding int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if entry := p.entries[binding]; entry != nil {
		return entry.count
	}
	return 0
}

func (p *bindGroupProvider) Bindings() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int, 0, len(p.entries))
	for binding := range p.entries {
		out = append(out, binding)
	}
	sort.Ints(out)
	return out
}

func (p *bindGroupProvider) Reallocations() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reallocations
}

func (p *bindGroupProvider) Released() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released
}

func (p *bindGroupProvider) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, entry := range p.entries {
		if entry.buf != nil {
			entry.buf.Release()
			p.released++
		}
		delete(p.entries, i)
	}
}
