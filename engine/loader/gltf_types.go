// gltf_types.go contains the subset of the glTF 2.0 schema the loader reads.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
package loader

// --- glTF Root Structure ---

// gltfDocument represents the root of a glTF JSON document. Textures, skins and animations
// are not decoded; encoding/json ignores the unknown fields.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-gltf
type gltfDocument struct {
	// Asset contains metadata about the glTF asset.
	Asset gltfAsset `json:"asset"`

	// Scene is the index of the default scene.
	Scene *int `json:"scene,omitempty"`

	// Scenes is an array of scenes.
	Scenes []gltfScene `json:"scenes,omitempty"`

	// Nodes is an array of nodes (transform hierarchy).
	Nodes []gltfNode `json:"nodes,omitempty"`

	// Meshes is an array of meshes.
	Meshes []gltfMesh `json:"meshes,omitempty"`

	// Accessors define how to interpret buffer data.
	Accessors []gltfAccessor `json:"accessors,omitempty"`

	// BufferViews define portions of buffers.
	BufferViews []gltfBufferView `json:"bufferViews,omitempty"`

	// Buffers are raw binary data containers.
	Buffers []gltfBuffer `json:"buffers,omitempty"`

	// Materials is an array of materials.
	Materials []gltfMaterial `json:"materials,omitempty"`

	// ExtensionsRequired lists extensions required to load this asset.
	ExtensionsRequired []string `json:"extensionsRequired,omitempty"`
}

// gltfAsset contains metadata about the glTF asset.
type gltfAsset struct {
	// Version is the glTF version (required, must be "2.x").
	Version string `json:"version"`
}

// --- Scene Graph ---

// gltfScene is a set of root nodes.
type gltfScene struct {
	Nodes []int `json:"nodes,omitempty"`
}

// gltfNode is a node in the node hierarchy. A node carries either Matrix or any of
// Translation, Rotation and Scale.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-node
type gltfNode struct {
	// Name is an optional name for this node.
	Name string `json:"name,omitempty"`

	// Children are indices of child nodes.
	Children []int `json:"children,omitempty"`

	// Mesh is the index of the mesh in this node.
	Mesh *int `json:"mesh,omitempty"`

	// Matrix is a 4x4 transformation matrix (column-major).
	Matrix *[16]float32 `json:"matrix,omitempty"`

	// Translation is the node's translation (x, y, z).
	Translation *[3]float32 `json:"translation,omitempty"`

	// Rotation is the node's rotation as a quaternion (x, y, z, w).
	Rotation *[4]float32 `json:"rotation,omitempty"`

	// Scale is the node's scale (x, y, z).
	Scale *[3]float32 `json:"scale,omitempty"`
}

// --- Mesh Data ---

// gltfMesh is a set of primitives to be rendered.
type gltfMesh struct {
	Name       string          `json:"name,omitempty"`
	Primitives []gltfPrimitive `json:"primitives"`
}

// gltfPrimitive defines geometry for rendering.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-mesh-primitive
type gltfPrimitive struct {
	// Attributes maps attribute semantics (POSITION, NORMAL, ...) to accessor indices.
	Attributes map[string]int `json:"attributes"`

	// Indices is the accessor index for the index buffer.
	Indices *int `json:"indices,omitempty"`

	// Material is the material index.
	Material *int `json:"material,omitempty"`

	// Mode is the primitive topology. Only TRIANGLES (4, the default) is supported.
	Mode *int `json:"mode,omitempty"`
}

const gltfPrimitiveModeTriangles = 4

// Attribute semantics read by the mesh extractor.
const (
	gltfAttributePosition = "POSITION"
	gltfAttributeNormal   = "NORMAL"
)

// --- Buffer Data ---

// gltfAccessor defines how to interpret buffer data.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-accessor
type gltfAccessor struct {
	// BufferView is the index of the bufferView.
	BufferView *int `json:"bufferView,omitempty"`

	// ByteOffset is the offset within the bufferView.
	ByteOffset int `json:"byteOffset,omitempty"`

	// ComponentType is the data type of components.
	// 5120=BYTE, 5121=UNSIGNED_BYTE, 5122=SHORT, 5123=UNSIGNED_SHORT, 5125=UNSIGNED_INT, 5126=FLOAT
	ComponentType int `json:"componentType"`

	// Count is the number of elements.
	Count int `json:"count"`

	// Type is the element type (SCALAR, VEC2, VEC3, VEC4, MAT2, MAT3, MAT4).
	Type string `json:"type"`

	// Sparse is only decoded to reject sparse accessors.
	Sparse *gltfAccessorSparse `json:"sparse,omitempty"`
}

// ComponentType constants
const (
	gltfComponentTypeByte          = 5120
	gltfComponentTypeUnsignedByte  = 5121
	gltfComponentTypeShort         = 5122
	gltfComponentTypeUnsignedShort = 5123
	gltfComponentTypeUnsignedInt   = 5125
	gltfComponentTypeFloat         = 5126
)

// AccessorType constants
const (
	gltfAccessorTypeScalar = "SCALAR"
	gltfAccessorTypeVec2   = "VEC2"
	gltfAccessorTypeVec3   = "VEC3"
	gltfAccessorTypeVec4   = "VEC4"
	gltfAccessorTypeMat2   = "MAT2"
	gltfAccessorTypeMat3   = "MAT3"
	gltfAccessorTypeMat4   = "MAT4"
)

type gltfAccessorSparse struct {
	Count int `json:"count"`
}

// gltfBufferView represents a subset of a buffer.
type gltfBufferView struct {
	// Buffer is the index of the buffer.
	Buffer int `json:"buffer"`

	// ByteOffset is the offset into the buffer.
	ByteOffset int `json:"byteOffset,omitempty"`

	// ByteLength is the length of the bufferView.
	ByteLength int `json:"byteLength"`

	// ByteStride is the stride for interleaved data (optional).
	ByteStride *int `json:"byteStride,omitempty"`
}

// gltfBuffer represents binary data.
type gltfBuffer struct {
	// URI is the URI of the buffer data (can be data: URI or external file).
	URI string `json:"uri,omitempty"`

	// ByteLength is the length of the buffer.
	ByteLength int `json:"byteLength"`

	// Data holds the loaded binary data (not part of JSON, populated during load).
	Data []byte `json:"-"`
}

// --- Materials ---

// gltfMaterial defines the material appearance of a primitive. Only constant factors are
// read; texture references are ignored.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-material
type gltfMaterial struct {
	// PbrMetallicRoughness is the PBR metallic-roughness model.
	PbrMetallicRoughness *gltfPbrMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`

	// EmissiveFactor is the emissive color (RGB), default black.
	EmissiveFactor *[3]float32 `json:"emissiveFactor,omitempty"`

	// Extensions holds the material extensions the loader understands.
	Extensions *gltfMaterialExtensions `json:"extensions,omitempty"`
}

// gltfPbrMetallicRoughness is the metallic-roughness material model. Metalness has no
// tracer counterpart and is not decoded.
type gltfPbrMetallicRoughness struct {
	// BaseColorFactor is the base color (RGBA), default white.
	BaseColorFactor *[4]float32 `json:"baseColorFactor,omitempty"`

	// RoughnessFactor is the roughness (0.0 = smooth, 1.0 = rough), default 1.
	RoughnessFactor *float32 `json:"roughnessFactor,omitempty"`
}

type gltfMaterialExtensions struct {
	// EmissiveStrength is KHR_materials_emissive_strength.
	EmissiveStrength *gltfEmissiveStrength `json:"KHR_materials_emissive_strength,omitempty"`
}

type gltfEmissiveStrength struct {
	EmissiveStrength *float32 `json:"emissiveStrength,omitempty"`
}

// --- GLB Binary Format ---

// gltfGLBHeader is the header of a GLB file (12 bytes).
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
type gltfGLBHeader struct {
	Magic   uint32 // Must be 0x46546C67 ("glTF" in ASCII)
	Version uint32 // Must be 2
	Length  uint32 // Total file length
}

// gltfGLBChunkHeader is the header of a GLB chunk (8 bytes).
type gltfGLBChunkHeader struct {
	ChunkLength uint32
	ChunkType   uint32 // 0x4E4F534A for JSON, 0x004E4942 for BIN
}

// GLB magic number and chunk type constants
const (
	gltfGLBMagic     = 0x46546C67 // "glTF" in little-endian ASCII
	gltfGLBVersion   = 2
	gltfGLBChunkJSON = 0x4E4F534A // "JSON" in little-endian ASCII
	gltfGLBChunkBIN  = 0x004E4942 // "BIN\0" in little-endian ASCII
)
