package scene

import (
	"sync"

	"github.com/A-Imbert/Ray-Tracer/engine/camera"
	"github.com/A-Imbert/Ray-Tracer/engine/game_object"
)

// Scene is the registry of renderable objects the ray tracer compiles from, plus the
// camera it renders through. Objects keep their registration order, which is also the
// order their triangles appear in the compiled buffers.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Count returns the number of registered objects, enabled or not.
	//
	// Returns:
	//   - int: count of GameObjects in the registry
	Count() int

	// Add registers a GameObject. Objects without an ID are assigned the next free one.
	// Panics if obj is nil.
	//
	// Parameters:
	//   - obj: the GameObject to add
	//
	// Returns:
	//   - uint64: the assigned object ID
	Add(obj game_object.GameObject) uint64

	// Get retrieves a GameObject by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove removes a GameObject from the registry by ID. Unknown IDs are ignored.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - bool: true if an object was removed
	Remove(id uint64) bool

	// Clear removes all objects from the scene.
	Clear()

	// Objects returns every registered object in registration order.
	//
	// Returns:
	//   - []game_object.GameObject: a fresh slice of the registered objects
	Objects() []game_object.GameObject

	// MeshObjects returns the enabled mesh renderables in registration order.
	//
	// Returns:
	//   - []game_object.GameObject: enabled objects with ShapeMesh
	MeshObjects() []game_object.GameObject

	// SphereObjects returns the enabled sphere renderables in registration order.
	//
	// Returns:
	//   - []game_object.GameObject: enabled objects with ShapeSphere
	SphereObjects() []game_object.GameObject

	// Version returns a counter that strictly increases whenever anything that affects the
	// compiled scene changes: add, remove, clear, or any edit to a registered object.
	// Camera changes are not included.
	//
	// Returns:
	//   - uint64: the registry version
	Version() uint64

	// Tick advances every registered object and the camera controller by deltaTime seconds.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last tick in seconds
	Tick(deltaTime float32)
}

type scene struct {
	mu *sync.RWMutex

	name string

	registry map[uint64]game_object.GameObject
	order    []uint64
	nextID   uint64

	// structural grows on add/remove/clear. Removals and replacements add the
	// dropped object's version + 1 so the summed Version never decreases.
	structural uint64

	cam camera.Camera
}

var _ Scene = &scene{}

// NewScene creates a new Scene. Without WithCamera the scene gets a default camera.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:       &sync.RWMutex{},
		registry: make(map[uint64]game_object.GameObject),
		nextID:   1,
	}
	for _, option := range options {
		option(s)
	}
	if s.cam == nil {
		s.cam = camera.NewCamera()
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	if cam == nil {
		panic("scene: camera must not be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	if obj == nil {
		panic("scene: cannot add nil GameObject")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(obj)
}

// addLocked registers obj. Caller must hold the write lock.
func (s *scene) addLocked(obj game_object.GameObject) uint64 {
	if obj.ID() == 0 {
		obj.SetID(s.nextID)
	}
	id := obj.ID()
	if id >= s.nextID {
		s.nextID = id + 1
	}
	old, exists := s.registry[id]
	if !exists {
		s.order = append(s.order, id)
	}
	s.registry[id] = obj
	if exists && old != obj {
		// the replaced object's version leaves the sum
		s.structural += old.Version()
	}
	s.structural++
	return id
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, exists := s.registry[id]
	if !exists {
		return false
	}
	delete(s.registry, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.structural += obj.Version() + 1
	return true
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, obj := range s.registry {
		s.structural += obj.Version()
	}
	s.registry = make(map[uint64]game_object.GameObject)
	s.order = nil
	s.structural++
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]game_object.GameObject, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.registry[id])
	}
	return out
}

func (s *scene) MeshObjects() []game_object.GameObject {
	return s.filter(game_object.ShapeMesh)
}

func (s *scene) SphereObjects() []game_object.GameObject {
	return s.filter(game_object.ShapeSphere)
}

func (s *scene) filter(shape game_object.Shape) []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []game_object.GameObject
	for _, id := range s.order {
		obj := s.registry[id]
		if obj.Enabled() && obj.Shape() == shape {
			out = append(out, obj)
		}
	}
	return out
}

func (s *scene) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := s.structural
	for _, obj := range s.registry {
		v += obj.Version()
	}
	return v
}

func (s *scene) Tick(deltaTime float32) {
	s.mu.RLock()
	objs := make([]game_object.GameObject, 0, len(s.order))
	for _, id := range s.order {
		objs = append(objs, s.registry[id])
	}
	cam := s.cam
	s.mu.RUnlock()

	for _, obj := range objs {
		obj.Advance(deltaTime)
	}
	cam.Controller().Advance(deltaTime)
}
