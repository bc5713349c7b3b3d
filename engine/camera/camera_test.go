package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/A-Imbert/Ray-Tracer/common"
	"github.com/go-gl/mathgl/mgl32"
)

func TestFootprintFollowsOutputAspect(t *testing.T) {
	cam := NewCamera(WithFov(90), WithNear(1))

	f := cam.Footprint(200, 100)
	if !mgl32.FloatEqualThreshold(f.Height, 2, 1e-5) || !mgl32.FloatEqualThreshold(f.Width, 4, 1e-5) {
		t.Fatalf("footprint = %+v, want 4x2", f)
	}

	cam.SetAspect(1)
	f = cam.Footprint(200, 100)
	if !mgl32.FloatEqualThreshold(f.Width, 2, 1e-5) {
		t.Fatalf("fixed aspect footprint width = %v, want 2", f.Width)
	}
}

func TestLocalToWorldLooksAtTarget(t *testing.T) {
	ctrl := NewOrbitController(WithRadius(10), WithTarget(0, 1, 0))
	cam := NewCamera(WithController(ctrl))

	m := cam.LocalToWorld()
	origin := common.TransformPoint(m, mgl32.Vec3{})
	if !origin.ApproxEqualThreshold(mgl32.Vec3{0, 1, 10}, 1e-4) {
		t.Fatalf("camera origin = %v, want (0,1,10)", origin)
	}
	forward := common.TransformDirection(m, mgl32.Vec3{0, 0, -1})
	if !forward.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-4) {
		t.Fatalf("forward = %v, want -Z", forward)
	}
}

func TestVersionTracksPoseAndLens(t *testing.T) {
	cam := NewCamera(WithController(NewOrbitController(WithOrbitSpeed(1))))
	v := cam.Version()

	cam.Controller().Advance(0)
	if cam.Version() != v {
		t.Fatal("zero-length advance should not change the version")
	}

	cam.Controller().Advance(0.1)
	if cam.Version() == v {
		t.Fatal("orbit advance should change the version")
	}

	v = cam.Version()
	cam.SetFov(45)
	if cam.Version() == v {
		t.Fatal("fov change should change the version")
	}
}

func TestOrbitClampsElevation(t *testing.T) {
	ctrl := NewOrbitController()
	ctrl.Orbit(0, 10)
	if ctrl.Elevation() >= math.Pi/2 {
		t.Fatalf("elevation = %v, want clamped below pi/2", ctrl.Elevation())
	}
	ctrl.SetRadius(-1)
	if ctrl.Radius() != 5 {
		t.Fatalf("radius = %v, want unchanged 5", ctrl.Radius())
	}
}

func TestGPUCameraUniformLayout(t *testing.T) {
	u := NewGPUCameraUniform(mgl32.Ident4(), common.FrustumFootprint{Width: 3, Height: 2, Near: 0.5})
	buf := u.Marshal()
	if len(buf) != 80 || u.Size() != 80 {
		t.Fatalf("len = %d size = %d, want 80", len(buf), u.Size())
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[68:72])); got != 2 {
		t.Fatalf("plane height = %v, want 2", got)
	}
}

func TestSetControllerNeverRewindsVersion(t *testing.T) {
	old := NewOrbitController(WithOrbitSpeed(1))
	cam := NewCamera(WithController(old))
	for range 4 {
		old.Advance(0.1)
	}
	v := cam.Version()

	cam.SetController(NewOrbitController())
	if cam.Version() <= v {
		t.Fatalf("version after SetController = %d, want > %d", cam.Version(), v)
	}
}
