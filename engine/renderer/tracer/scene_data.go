package tracer

import (
	"errors"
	"fmt"

	"github.com/A-Imbert/Ray-Tracer/engine/model"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/bind_group_provider"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/compiler"
)

var (
	// ErrNotHostBuffer is returned when a scene buffer does not expose its bytes to the host.
	ErrNotHostBuffer = errors.New("tracer: scene buffer is not host-readable")
	// ErrShortBuffer is returned when a scene buffer holds fewer records than the frame counts claim.
	ErrShortBuffer = errors.New("tracer: scene buffer shorter than record count")
)

// sceneData is the decoded compiled scene.
type sceneData struct {
	triangles []model.GPUTriangle
	objects   []model.GPUObjectInfo
	spheres   []model.GPUSphere
}

// decodeScene reads objects, triangles and spheres back out of the packed host buffers.
// Counts come from the frame parameters, as they do for the device kernel.
func decodeScene(bindings compiler.SceneBindings, objects, triangles, spheres int) (*sceneData, error) {
	s := &sceneData{
		triangles: make([]model.GPUTriangle, triangles),
		objects:   make([]model.GPUObjectInfo, objects),
		spheres:   make([]model.GPUSphere, spheres),
	}
	if err := decodeRecords(bindings.Triangles, s.triangles); err != nil {
		return nil, err
	}
	if err := decodeRecords(bindings.Objects, s.objects); err != nil {
		return nil, err
	}
	if err := decodeRecords(bindings.Spheres, s.spheres); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeRecords[T any, P interface {
	*T
	Size() int
	Unmarshal(buf []byte)
}](buf bind_group_provider.Buffer, out []T) error {
	if len(out) == 0 {
		return nil
	}
	hb, ok := buf.(bind_group_provider.HostBuffer)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotHostBuffer, buf)
	}
	data := hb.Bytes()
	stride := P(&out[0]).Size()
	if len(data) < stride*len(out) {
		return fmt.Errorf("%w: %s holds %d bytes, need %d", ErrShortBuffer, hb.Label(), len(data), stride*len(out))
	}
	for i := range out {
		P(&out[i]).Unmarshal(data[i*stride : (i+1)*stride])
	}
	return nil
}
