package bind_group_provider

// BufferWrite describes a single buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Binding int
	Offset  uint64
	Data    []byte
}
