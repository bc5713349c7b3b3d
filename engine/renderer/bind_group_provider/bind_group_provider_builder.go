package bind_group_provider

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithAllocator sets the allocator the provider creates buffers with.
//
// Parameters:
//   - allocator: the buffer allocator for the target device
//
// Returns:
//   - BindGroupProviderOption: a function that sets the allocator for this provider
func WithAllocator(allocator BufferAllocator) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.allocator = allocator
	}
}
