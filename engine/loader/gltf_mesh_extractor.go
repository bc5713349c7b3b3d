package loader

import (
	"fmt"

	"github.com/A-Imbert/Ray-Tracer/common"
	"github.com/A-Imbert/Ray-Tracer/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// maxNodeDepth bounds scene graph traversal so a cyclic node graph fails instead of recursing forever.
const maxNodeDepth = 64

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser    gltfParser
	materials gltfMaterialExtractor
}

// gltfMeshExtractor converts the mesh instances of a parsed document into Meshes whose
// vertices are already in asset space: each node's world transform is baked into its
// primitives.
type gltfMeshExtractor interface {
	// ExtractScene extracts every mesh instance reachable from the default scene. A
	// document without scenes yields each mesh once with an identity transform.
	//
	// Returns:
	//   - []Mesh: one Mesh per primitive instance, in traversal order
	//   - error: ErrMalformed or ErrUnsupported wrapped with the failing mesh
	ExtractScene() ([]Mesh, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a new mesh extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//   - materials: the material extractor used for each primitive
//
// Returns:
//   - gltfMeshExtractor: the mesh extractor
func newGLTFMeshExtractor(parser gltfParser, materials gltfMaterialExtractor) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser, materials: materials}
}

func (e *gltfMeshExtractorImpl) ExtractScene() ([]Mesh, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}

	if len(doc.Scenes) == 0 {
		var out []Mesh
		for i := range doc.Meshes {
			meshes, err := e.extractMesh(i, doc.Meshes[i].Name, mgl32.Ident4())
			if err != nil {
				return nil, err
			}
			out = append(out, meshes...)
		}
		return out, nil
	}

	sceneIndex := 0
	if doc.Scene != nil {
		sceneIndex = *doc.Scene
	}
	if sceneIndex < 0 || sceneIndex >= len(doc.Scenes) {
		return nil, fmt.Errorf("%w: scene %d of %d", ErrMalformed, sceneIndex, len(doc.Scenes))
	}

	var out []Mesh
	for _, root := range doc.Scenes[sceneIndex].Nodes {
		meshes, err := e.walk(root, mgl32.Ident4(), 0)
		if err != nil {
			return nil, err
		}
		out = append(out, meshes...)
	}
	return out, nil
}

// walk extracts the meshes of node and its descendants under the parent transform.
func (e *gltfMeshExtractorImpl) walk(nodeIndex int, parent mgl32.Mat4, depth int) ([]Mesh, error) {
	doc := e.parser.Document()
	if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
		return nil, fmt.Errorf("%w: node %d of %d", ErrMalformed, nodeIndex, len(doc.Nodes))
	}
	if depth > maxNodeDepth {
		return nil, fmt.Errorf("%w: node hierarchy deeper than %d", ErrMalformed, maxNodeDepth)
	}

	node := &doc.Nodes[nodeIndex]
	world := parent.Mul4(nodeLocalMatrix(node))

	var out []Mesh
	if node.Mesh != nil {
		var meshName string
		if *node.Mesh >= 0 && *node.Mesh < len(doc.Meshes) {
			meshName = doc.Meshes[*node.Mesh].Name
		}
		name := common.Coalesce(node.Name, meshName)
		meshes, err := e.extractMesh(*node.Mesh, name, world)
		if err != nil {
			return nil, err
		}
		out = append(out, meshes...)
	}
	for _, child := range node.Children {
		meshes, err := e.walk(child, world, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, meshes...)
	}
	return out, nil
}

// nodeLocalMatrix returns Matrix when present, otherwise T * R * S.
func nodeLocalMatrix(node *gltfNode) mgl32.Mat4 {
	if node.Matrix != nil {
		return mgl32.Mat4(*node.Matrix)
	}
	m := mgl32.Ident4()
	if t := node.Translation; t != nil {
		m = mgl32.Translate3D(t[0], t[1], t[2])
	}
	if r := node.Rotation; r != nil {
		q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
		if q.Len() > 0 {
			m = m.Mul4(q.Normalize().Mat4())
		}
	}
	if s := node.Scale; s != nil {
		m = m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	}
	return m
}

func (e *gltfMeshExtractorImpl) extractMesh(meshIndex int, name string, world mgl32.Mat4) ([]Mesh, error) {
	doc := e.parser.Document()
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("%w: mesh %d of %d", ErrMalformed, meshIndex, len(doc.Meshes))
	}
	if name == "" {
		name = fmt.Sprintf("mesh%d", meshIndex)
	}

	mesh := &doc.Meshes[meshIndex]
	out := make([]Mesh, 0, len(mesh.Primitives))
	for primIdx := range mesh.Primitives {
		prim := &mesh.Primitives[primIdx]
		primName := name
		if len(mesh.Primitives) > 1 {
			primName = fmt.Sprintf("%s.%d", name, primIdx)
		}
		mdl, err := e.extractPrimitive(prim, primName, world)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, primIdx, err)
		}
		mat, err := e.materials.Extract(prim.Material)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, primIdx, err)
		}
		out = append(out, Mesh{Name: primName, Model: mdl, Material: mat})
	}
	return out, nil
}

// extractPrimitive reads one triangle primitive and transforms it by world. Missing normals
// are generated from the faces and missing indices are sequential. A transform with a
// negative determinant flips the winding so triangles keep facing outward.
func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive, name string, world mgl32.Mat4) (model.Model, error) {
	if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
		return nil, fmt.Errorf("%w: primitive mode %d", ErrUnsupported, *prim.Mode)
	}

	posIdx, ok := prim.Attributes[gltfAttributePosition]
	if !ok {
		return nil, fmt.Errorf("%w: primitive has no POSITION attribute", ErrMalformed)
	}
	positions, err := e.parser.ReadVec3Accessor(posIdx)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = e.parser.ReadIndicesAccessor(*prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices is not a multiple of 3", ErrMalformed, len(indices))
	}
	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return nil, fmt.Errorf("%w: index %d out of range for %d vertices", ErrMalformed, idx, len(positions))
		}
	}

	vertices := make([]mgl32.Vec3, len(positions))
	for i, p := range positions {
		vertices[i] = common.TransformPoint(world, mgl32.Vec3(p))
	}

	if world.Det() < 0 {
		for t := 0; t+2 < len(indices); t += 3 {
			indices[t+1], indices[t+2] = indices[t+2], indices[t+1]
		}
	}

	var normals []mgl32.Vec3
	if normIdx, ok := prim.Attributes[gltfAttributeNormal]; ok {
		raw, err := e.parser.ReadVec3Accessor(normIdx)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		if len(raw) != len(positions) {
			return nil, fmt.Errorf("%w: %d normals for %d vertices", ErrMalformed, len(raw), len(positions))
		}
		normalMatrix := world.Mat3().Inv().Transpose()
		normals = make([]mgl32.Vec3, len(raw))
		for i, n := range raw {
			normals[i] = safeNormalize(normalMatrix.Mul3x1(mgl32.Vec3(n)))
		}
	} else {
		normals = generateNormals(vertices, indices)
	}

	return model.NewModel(
		model.WithName(name),
		model.WithVertices(vertices),
		model.WithNormals(normals),
		model.WithIndices(indices),
	), nil
}

// generateNormals computes smooth vertex normals by accumulating area-weighted face normals.
// Vertices touched by no non-degenerate face get +Y.
func generateNormals(vertices []mgl32.Vec3, indices []uint32) []mgl32.Vec3 {
	accum := make([]mgl32.Vec3, len(vertices))
	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		face := vertices[i1].Sub(vertices[i0]).Cross(vertices[i2].Sub(vertices[i0]))
		accum[i0] = accum[i0].Add(face)
		accum[i1] = accum[i1].Add(face)
		accum[i2] = accum[i2].Add(face)
	}
	for i := range accum {
		accum[i] = safeNormalize(accum[i])
	}
	return accum
}

func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() < 1e-6 {
		return mgl32.Vec3{0, 1, 0}
	}
	return v.Normalize()
}
