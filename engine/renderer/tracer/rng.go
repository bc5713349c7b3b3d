package tracer

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// rng is the per-pixel PCG hash generator shared with the device kernel, so both backends
// draw the same sequence for the same pixel and frame.
type rng uint32

func newRNG(x, y, width int, frameIndex uint32) rng {
	return rng(uint32(y*width+x) + frameIndex*719393)
}

func (r *rng) next() float32 {
	s := uint32(*r)*747796405 + 2891336453
	*r = rng(s)
	result := ((s >> ((s >> 28) + 4)) ^ s) * 277803737
	result = (result >> 22) ^ result
	return float32(result) / 4294967295.0
}

func (r *rng) normal() float32 {
	theta := 2 * math32.Pi * r.next()
	rho := math32.Sqrt(-2 * math32.Log(max(r.next(), 1e-7)))
	return rho * math32.Cos(theta)
}

func (r *rng) direction() mgl32.Vec3 {
	return mgl32.Vec3{r.normal(), r.normal(), r.normal()}.Normalize()
}

func (r *rng) pointInCircle() (x, y float32) {
	angle := r.next() * 2 * math32.Pi
	radius := math32.Sqrt(r.next())
	return math32.Cos(angle) * radius, math32.Sin(angle) * radius
}
