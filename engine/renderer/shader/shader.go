package shader

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/raytrace.wgsl
var rayTraceSource string

// Entry point names of the ray trace kernel.
const (
	EntryTrace = "trace"
	EntryBlend = "blend"
)

var (
	// ErrMissingEntryPoint is returned when a required @compute entry point is absent.
	ErrMissingEntryPoint = errors.New("shader: missing compute entry point")
	// ErrBindingMismatch is returned when a binding is absent or has the wrong resource kind.
	ErrBindingMismatch = errors.New("shader: binding mismatch")
)

// BindingKind is the resource category of a @group/@binding declaration.
type BindingKind int

const (
	BindingUnknown BindingKind = iota
	BindingUniform
	BindingStorage
	BindingReadOnlyStorage
	BindingTexture
	BindingStorageTexture
	BindingSampler
)

// String returns the kind name.
func (k BindingKind) String() string {
	switch k {
	case BindingUniform:
		return "uniform"
	case BindingStorage:
		return "storage"
	case BindingReadOnlyStorage:
		return "read-only storage"
	case BindingTexture:
		return "texture"
	case BindingStorageTexture:
		return "storage texture"
	case BindingSampler:
		return "sampler"
	default:
		return "unknown"
	}
}

// Binding describes one parsed resource declaration.
type Binding struct {
	Group   int
	Binding int
	Name    string
	Kind    BindingKind
	Layout  wgpu.BindGroupLayoutEntry
}

// shader is the implementation of the Shader interface.
type shader struct {
	key         string
	source      string
	entryPoints map[string][3]uint32
	bindings    map[int]map[int]Binding
}

// Shader is a parsed WGSL compute module. It exposes the module's compute entry points
// with their workgroup sizes and the bind group layouts derived from its declarations.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for labels and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// EntryPoints returns the names of every @compute function, sorted.
	//
	// Returns:
	//   - []string: the entry point names
	EntryPoints() []string

	// WorkgroupSize returns the @workgroup_size of a compute entry point. Omitted
	// dimensions are 1.
	//
	// Parameters:
	//   - entryPoint: the entry point name
	//
	// Returns:
	//   - [3]uint32: the workgroup size as [x, y, z]
	//   - bool: false if the entry point does not exist
	WorkgroupSize(entryPoint string) ([3]uint32, bool)

	// Binding returns the declaration at group/binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - Binding: the declaration
	//   - bool: false if nothing is declared there
	Binding(group, binding int) (Binding, bool)

	// BindGroupLayoutDescriptor builds the layout descriptor for one group, entries sorted
	// by binding index.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, empty if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// Module returns a wgpu.ShaderModuleDescriptor for this shader.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// Require checks that every entry point exists and that group 0 declares each binding
	// with the given kind.
	//
	// Parameters:
	//   - entryPoints: required compute entry points
	//   - kinds: required binding kinds in group 0, keyed by binding index
	//
	// Returns:
	//   - error: ErrMissingEntryPoint or ErrBindingMismatch wrapped with details
	Require(entryPoints []string, kinds map[int]BindingKind) error
}

var _ Shader = &shader{}

// NewShader parses WGSL source into a Shader.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - source: WGSL source code
//
// Returns:
//   - Shader: the parsed shader
func NewShader(key, source string) Shader {
	cleaned := stripComments(source)
	return &shader{
		key:         key,
		source:      source,
		entryPoints: parseComputeEntryPoints(cleaned),
		bindings:    parseBindings(cleaned, wgpu.ShaderStageCompute),
	}
}

// NewShaderFromFile reads and parses a WGSL file.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - path: the file path to read WGSL source from
//
// Returns:
//   - Shader: the parsed shader
//   - error: the read error, if any
func NewShaderFromFile(key, path string) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader: read %q: %w", path, err)
	}
	return NewShader(key, string(data)), nil
}

// NewRayTraceShader returns the built-in ray trace kernel with the trace and blend entry points.
//
// Returns:
//   - Shader: the parsed built-in kernel
func NewRayTraceShader() Shader {
	return NewShader("raytrace", rayTraceSource)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoints() []string {
	out := make([]string, 0, len(s.entryPoints))
	for name := range s.entryPoints {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *shader) WorkgroupSize(entryPoint string) ([3]uint32, bool) {
	size, ok := s.entryPoints[entryPoint]
	return size, ok
}

func (s *shader) Binding(group, binding int) (Binding, bool) {
	b, ok := s.bindings[group][binding]
	return b, ok
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(s.bindings[group]))
	for _, b := range s.bindings[group] {
		entries = append(entries, b.Layout)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Binding < entries[j].Binding
	})
	return wgpu.BindGroupLayoutDescriptor{
		Label:   fmt.Sprintf("%s Group %d", s.key, group),
		Entries: entries,
	}
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
}

func (s *shader) Require(entryPoints []string, kinds map[int]BindingKind) error {
	for _, name := range entryPoints {
		if _, ok := s.entryPoints[name]; !ok {
			return fmt.Errorf("%w %q in %s", ErrMissingEntryPoint, name, s.key)
		}
	}
	for binding, want := range kinds {
		got, ok := s.Binding(0, binding)
		if !ok {
			return fmt.Errorf("%w: %s binding %d not declared, want %s", ErrBindingMismatch, s.key, binding, want)
		}
		if got.Kind != want {
			return fmt.Errorf("%w: %s binding %d (%s) is %s, want %s", ErrBindingMismatch, s.key, binding, got.Name, got.Kind, want)
		}
	}
	return nil
}
