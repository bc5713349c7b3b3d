package shader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// sampledTextureDims maps WGSL sampled texture base names to their view dimension.
var sampledTextureDims = map[string]wgpu.TextureViewDimension{
	"texture_1d":       wgpu.TextureViewDimension1D,
	"texture_2d":       wgpu.TextureViewDimension2D,
	"texture_2d_array": wgpu.TextureViewDimension2DArray,
	"texture_3d":       wgpu.TextureViewDimension3D,
}

// storageTextureDims maps WGSL storage texture base names to their view dimension.
var storageTextureDims = map[string]wgpu.TextureViewDimension{
	"texture_storage_1d":       wgpu.TextureViewDimension1D,
	"texture_storage_2d":       wgpu.TextureViewDimension2D,
	"texture_storage_2d_array": wgpu.TextureViewDimension2DArray,
	"texture_storage_3d":       wgpu.TextureViewDimension3D,
}

// storageAccess maps WGSL access mode keywords to their wgpu storage texture access.
var storageAccess = map[string]wgpu.StorageTextureAccess{
	"write":      wgpu.StorageTextureAccessWriteOnly,
	"read":       wgpu.StorageTextureAccessReadOnly,
	"read_write": wgpu.StorageTextureAccessReadWrite,
}

// texelFormats lists the storage texel formats a tracer output can use.
var texelFormats = map[string]wgpu.TextureFormat{
	"rgba8unorm":  wgpu.TextureFormatRGBA8Unorm,
	"rgba16float": wgpu.TextureFormatRGBA16Float,
	"r32float":    wgpu.TextureFormatR32Float,
	"rg32float":   wgpu.TextureFormatRG32Float,
	"rgba32float": wgpu.TextureFormatRGBA32Float,
}

var (
	// computeEntryRegex matches the attributes and name of each @compute function.
	computeEntryRegex = regexp.MustCompile(`(?s)@compute\b(.*?)\bfn\s+(\w+)`)

	// workgroupSizeRegex captures 1-3 integer dimensions from @workgroup_size(x[, y[, z]])
	workgroupSizeRegex = regexp.MustCompile(`@workgroup_size\(\s*(\d+)\s*(?:,\s*(\d+)\s*(?:,\s*(\d+)\s*)?)?,?\s*\)`)

	// bindingDeclRegex captures group, binding, optional address space, variable name and type
	// from declarations like: @group(0) @binding(1) var<storage, read> triangles: array<f32>;
	bindingDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// parseComputeEntryPoints maps each @compute function name to its workgroup size.
func parseComputeEntryPoints(source string) map[string][3]uint32 {
	out := make(map[string][3]uint32)
	for _, m := range computeEntryRegex.FindAllStringSubmatch(source, -1) {
		out[m[2]] = parseWorkgroupSize(m[1])
	}
	return out
}

// parseWorkgroupSize reads @workgroup_size from an attribute list. Omitted dimensions
// default to 1.
func parseWorkgroupSize(attrs string) [3]uint32 {
	size := [3]uint32{1, 1, 1}
	m := workgroupSizeRegex.FindStringSubmatch(attrs)
	if m == nil {
		return size
	}
	for i := range 3 {
		if m[i+1] == "" {
			continue
		}
		if v, err := strconv.ParseUint(m[i+1], 10, 32); err == nil {
			size[i] = uint32(v)
		}
	}
	return size
}

// parseBindings extracts every @group/@binding declaration. A texture_2d<f32> is classified
// as unfilterable float unless its group also declares a sampler, since tracer kernels read
// rgba32float history with textureLoad.
func parseBindings(source string, visibility wgpu.ShaderStage) map[int]map[int]Binding {
	out := make(map[int]map[int]Binding)
	hasSampler := make(map[int]bool)

	for _, m := range bindingDeclRegex.FindAllStringSubmatch(source, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		b := classify(uint32(binding), visibility, strings.TrimSpace(m[3]), strings.TrimSpace(m[5]))
		b.Group, b.Binding, b.Name = group, binding, m[4]
		if b.Kind == BindingSampler {
			hasSampler[group] = true
		}
		if out[group] == nil {
			out[group] = make(map[int]Binding)
		}
		out[group][binding] = b
	}

	for group, bindings := range out {
		if hasSampler[group] {
			continue
		}
		for i, b := range bindings {
			if b.Kind == BindingTexture && b.Layout.Texture.SampleType == wgpu.TextureSampleTypeFloat {
				b.Layout.Texture.SampleType = wgpu.TextureSampleTypeUnfilterableFloat
				bindings[i] = b
			}
		}
	}
	return out
}

// classify builds the layout entry for one declaration from its address space and type.
func classify(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) Binding {
	b := Binding{Layout: wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}}

	switch {
	case addressSpace == "uniform":
		b.Kind = BindingUniform
		b.Layout.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(addressSpace, "storage"):
		if strings.Contains(addressSpace, "read_write") {
			b.Kind = BindingStorage
			b.Layout.Buffer.Type = wgpu.BufferBindingTypeStorage
		} else {
			b.Kind = BindingReadOnlyStorage
			b.Layout.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		}
	case typeName == "sampler":
		b.Kind = BindingSampler
		b.Layout.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case strings.HasPrefix(typeName, "texture_storage_"):
		b.Kind = BindingStorageTexture
		base, params := splitTypeParams(typeName)
		b.Layout.StorageTexture.ViewDimension = storageTextureDims[base]
		format, access, _ := strings.Cut(params, ",")
		b.Layout.StorageTexture.Format = texelFormats[strings.TrimSpace(format)]
		b.Layout.StorageTexture.Access = storageAccess[strings.TrimSpace(access)]
	case strings.HasPrefix(typeName, "texture_"):
		b.Kind = BindingTexture
		base, param := splitTypeParams(typeName)
		b.Layout.Texture.ViewDimension = sampledTextureDims[base]
		switch param {
		case "f32":
			b.Layout.Texture.SampleType = wgpu.TextureSampleTypeFloat
		case "i32":
			b.Layout.Texture.SampleType = wgpu.TextureSampleTypeSint
		case "u32":
			b.Layout.Texture.SampleType = wgpu.TextureSampleTypeUint
		}
	}
	return b
}

// splitTypeParams splits "texture_2d<f32>" into ("texture_2d", "f32").
func splitTypeParams(typeName string) (base string, params string) {
	before, after, ok := strings.Cut(typeName, "<")
	if !ok {
		return typeName, ""
	}
	return before, strings.TrimSpace(strings.TrimSuffix(after, ">"))
}

// stripComments removes line comments and (nested) block comments from WGSL source.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch {
			case source[i] == '/' && source[i+1] == '*':
				depth++
				i++
				continue
			case source[i] == '*' && source[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			case depth == 0 && source[i] == '/' && source[i+1] == '/':
				for i < len(source) && source[i] != '\n' {
					i++
				}
				if i < len(source) {
					sb.WriteByte('\n')
				}
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
