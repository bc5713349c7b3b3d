package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrMalformed is returned when a glTF document is structurally invalid.
	ErrMalformed = errors.New("loader: malformed glTF")
	// ErrUnsupported is returned for valid glTF features the loader does not handle.
	ErrUnsupported = errors.New("loader: unsupported glTF feature")

	errNoDocument         = errors.New("loader: no document loaded")
	errInvalidGLTFVersion = fmt.Errorf("%w: version must be 2.x", ErrMalformed)
	errInvalidGLBMagic    = fmt.Errorf("%w: bad GLB magic number", ErrMalformed)
	errInvalidGLBVersion  = fmt.Errorf("%w: GLB version must be 2", ErrMalformed)
	errMissingJSONChunk   = fmt.Errorf("%w: GLB file missing JSON chunk", ErrMalformed)
	errInvalidBufferURI   = fmt.Errorf("%w: invalid buffer URI", ErrMalformed)
	errBufferSizeMismatch = fmt.Errorf("%w: buffer shorter than its byteLength", ErrMalformed)
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	baseDir        string
	document       *gltfDocument
	glbBinaryChunk []byte
}

// gltfParser loads glTF/GLB files: file I/O, JSON decoding, buffer loading and the typed
// accessor reads mesh extraction needs.
type gltfParser interface {
	// Parse loads and parses a glTF/GLB file from the given path.
	// Automatically detects .gltf (JSON) vs .glb (binary) format.
	//
	// Parameters:
	//   - path: path to the glTF or GLB file
	//
	// Returns:
	//   - error: error if parsing fails
	Parse(path string) error

	// ParseReader parses a glTF document from a reader.
	// Use this when loading from embedded resources or network streams.
	//
	// Parameters:
	//   - r: reader containing glTF JSON or GLB data
	//   - isGLB: true if the data is in GLB format
	//
	// Returns:
	//   - error: error if parsing fails
	ParseReader(r io.Reader, isGLB bool) error

	// Document returns the parsed glTF document.
	// Returns nil if Parse has not been called successfully.
	//
	// Returns:
	//   - *gltfDocument: the parsed document or nil
	Document() *gltfDocument

	// BaseDir returns the directory containing the loaded glTF file.
	// Used for resolving relative URIs to external resources.
	//
	// Returns:
	//   - string: the base directory path
	BaseDir() string

	// ReadAccessorData reads raw bytes from an accessor.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []byte: the raw data
	//   - error: error if reading fails
	ReadAccessorData(accessorIndex int) ([]byte, error)

	// ReadVec3Accessor reads an accessor as vec3 float data.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][3]float32: the vec3 data
	//   - error: error if reading fails
	ReadVec3Accessor(accessorIndex int) ([][3]float32, error)

	// ReadIndicesAccessor reads an accessor as index data (uint32).
	// Handles UNSIGNED_BYTE, UNSIGNED_SHORT, and UNSIGNED_INT component types.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []uint32: the index data (converted to uint32)
	//   - error: error if reading fails
	ReadIndicesAccessor(accessorIndex int) ([]uint32, error)
}

var _ gltfParser = &gltfParserImpl{}

// newGLTFParser creates a new glTF parser instance.
//
// Returns:
//   - gltfParser: a new parser instance
func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) BaseDir() string {
	return p.baseDir
}

func (p *gltfParserImpl) Parse(path string) error {
	p.baseDir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".glb" || (len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic) {
		return p.parseGLB(data)
	}

	return p.parseGLTF(data)
}

func (p *gltfParserImpl) ParseReader(r io.Reader, isGLB bool) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	if isGLB {
		return p.parseGLB(data)
	}
	return p.parseGLTF(data)
}

// parseGLTF parses a glTF JSON file.
func (p *gltfParserImpl) parseGLTF(data []byte) error {
	var doc gltfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}

	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}

	if err := p.loadBuffers(&doc); err != nil {
		return fmt.Errorf("failed to load buffers: %w", err)
	}

	p.document = &doc
	return nil
}

// parseGLB parses a GLB binary file.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
func (p *gltfParserImpl) parseGLB(data []byte) error {
	if len(data) < 12 {
		return fmt.Errorf("%w: GLB file too small", ErrMalformed)
	}

	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to read GLB header: %w", err)
	}

	if header.Magic != gltfGLBMagic {
		return errInvalidGLBMagic
	}
	if header.Version != gltfGLBVersion {
		return errInvalidGLBVersion
	}

	var jsonData []byte
	var binData []byte

	for {
		var chunkHeader gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunkHeader); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read chunk header: %w", err)
		}

		chunkData := make([]byte, chunkHeader.ChunkLength)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return fmt.Errorf("failed to read chunk data: %w", err)
		}

		switch chunkHeader.ChunkType {
		case gltfGLBChunkJSON:
			jsonData = chunkData
		case gltfGLBChunkBIN:
			binData = chunkData
		}
	}

	if jsonData == nil {
		return errMissingJSONChunk
	}

	p.glbBinaryChunk = binData

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}

	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}

	if err := p.loadBuffers(&doc); err != nil {
		return fmt.Errorf("failed to load buffers: %w", err)
	}

	p.document = &doc
	return nil
}

// loadBuffers loads all buffer data (from URIs, embedded data, or GLB binary chunk).
func (p *gltfParserImpl) loadBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]

		if buf.URI == "" {
			if i == 0 && p.glbBinaryChunk != nil {
				buf.Data = p.glbBinaryChunk
				if len(buf.Data) < buf.ByteLength {
					return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
				}
				continue
			}
			return fmt.Errorf("%w: buffer %d has no URI and no GLB binary chunk", ErrMalformed, i)
		}

		data, err := p.loadBufferURI(buf.URI)
		if err != nil {
			return fmt.Errorf("buffer %d: %w", i, err)
		}
		buf.Data = data

		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}

	return nil
}

// loadBufferURI loads buffer data from a URI (data: URI or file path).
func (p *gltfParserImpl) loadBufferURI(uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "data:") {
		return p.loadDataURI(uri)
	}

	fullPath := filepath.Join(p.baseDir, uri)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load buffer file %q: %w", uri, err)
	}

	return data, nil
}

// loadDataURI decodes a base64 data URI.
// Format: data:[<mediatype>][;base64],<data>
func (p *gltfParserImpl) loadDataURI(uri string) ([]byte, error) {
	commaIdx := strings.Index(uri, ",")
	if commaIdx < 0 {
		return nil, errInvalidBufferURI
	}

	header := uri[5:commaIdx]
	dataStr := uri[commaIdx+1:]

	if !strings.Contains(header, "base64") {
		return nil, fmt.Errorf("%w: data URI encoding %s", ErrUnsupported, header)
	}

	data, err := base64.StdEncoding.DecodeString(dataStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	return data, nil
}

// --- Accessor Data Reading ---

// accessor returns the accessor at index, checking that a document is loaded.
func (p *gltfParserImpl) accessor(index int) (*gltfAccessor, error) {
	if p.document == nil {
		return nil, errNoDocument
	}
	if index < 0 || index >= len(p.document.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d of %d", ErrMalformed, index, len(p.document.Accessors))
	}
	return &p.document.Accessors[index], nil
}

func (p *gltfParserImpl) ReadAccessorData(accessorIndex int) ([]byte, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Sparse != nil {
		return nil, fmt.Errorf("%w: sparse accessor %d", ErrUnsupported, accessorIndex)
	}
	if acc.BufferView == nil || *acc.BufferView >= len(p.document.BufferViews) {
		return nil, fmt.Errorf("%w: accessor %d has no bufferView", ErrMalformed, accessorIndex)
	}

	bv := &p.document.BufferViews[*acc.BufferView]
	if bv.Buffer >= len(p.document.Buffers) {
		return nil, fmt.Errorf("%w: bufferView %d references buffer %d", ErrMalformed, *acc.BufferView, bv.Buffer)
	}
	buf := &p.document.Buffers[bv.Buffer]

	componentSize := gltfComponentTypeSize(acc.ComponentType)
	componentCount := gltfAccessorTypeComponentCount(acc.Type)
	elementSize := componentSize * componentCount

	stride := elementSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	bufferOffset := bv.ByteOffset + acc.ByteOffset
	if acc.Count > 0 && bufferOffset+(acc.Count-1)*stride+elementSize > len(buf.Data) {
		return nil, fmt.Errorf("%w: accessor %d reads past the end of buffer %d", ErrMalformed, accessorIndex, bv.Buffer)
	}

	result := make([]byte, acc.Count*elementSize)
	for i := range acc.Count {
		srcOffset := bufferOffset + i*stride
		dstOffset := i * elementSize
		copy(result[dstOffset:dstOffset+elementSize], buf.Data[srcOffset:srcOffset+elementSize])
	}

	return result, nil
}

func (p *gltfParserImpl) ReadVec3Accessor(accessorIndex int) ([][3]float32, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeVec3 || acc.ComponentType != gltfComponentTypeFloat {
		return nil, fmt.Errorf("%w: accessor %d is %s/%d, want VEC3 FLOAT", ErrUnsupported, accessorIndex, acc.Type, acc.ComponentType)
	}

	data, err := p.ReadAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}

	result := make([][3]float32, acc.Count)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *gltfParserImpl) ReadIndicesAccessor(accessorIndex int) ([]uint32, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeScalar {
		return nil, fmt.Errorf("%w: index accessor %d is %s, want SCALAR", ErrUnsupported, accessorIndex, acc.Type)
	}

	data, err := p.ReadAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}

	result := make([]uint32, acc.Count)
	r := bytes.NewReader(data)

	switch acc.ComponentType {
	case gltfComponentTypeUnsignedByte:
		for i := 0; i < acc.Count; i++ {
			var v uint8
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			result[i] = uint32(v)
		}
	case gltfComponentTypeUnsignedShort:
		for i := 0; i < acc.Count; i++ {
			var v uint16
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			result[i] = uint32(v)
		}
	case gltfComponentTypeUnsignedInt:
		if err := binary.Read(r, binary.LittleEndian, &result); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: index component type %d", ErrUnsupported, acc.ComponentType)
	}

	return result, nil
}

// --- Helper Functions ---

// gltfComponentTypeSize returns the byte size of a component type.
func gltfComponentTypeSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

// gltfAccessorTypeComponentCount returns the number of components for an accessor type.
func gltfAccessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec2:
		return 2
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4:
		return 4
	case gltfAccessorTypeMat2:
		return 4
	case gltfAccessorTypeMat3:
		return 9
	case gltfAccessorTypeMat4:
		return 16
	default:
		return 0
	}
}
