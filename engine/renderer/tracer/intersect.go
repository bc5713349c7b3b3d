package tracer

import (
	"github.com/A-Imbert/Ray-Tracer/engine/model"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/material"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// hit is the closest intersection along a ray.
type hit struct {
	ok       bool
	dist     float32
	point    mgl32.Vec3
	normal   mgl32.Vec3
	material material.GPUMaterial
}

// intersectSphere returns the distance to the first surface crossing in front of the origin.
func intersectSphere(origin, dir mgl32.Vec3, s *model.GPUSphere) (float32, bool) {
	oc := origin.Sub(mgl32.Vec3(s.Position))
	b := oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	d := -b - math32.Sqrt(disc)
	return d, d > 0
}

// intersectTriangle is a single-sided Moller-Trumbore test. It returns the distance and the
// barycentric weights of B and C.
func intersectTriangle(origin, dir mgl32.Vec3, t *model.GPUTriangle) (dist, u, v float32, ok bool) {
	a := mgl32.Vec3(t.PosA)
	ab := mgl32.Vec3(t.PosB).Sub(a)
	ac := mgl32.Vec3(t.PosC).Sub(a)
	n := ab.Cross(ac)
	det := -dir.Dot(n)
	if det < 1e-6 {
		return 0, 0, 0, false
	}
	ao := origin.Sub(a)
	dao := ao.Cross(dir)
	inv := 1 / det
	dist = ao.Dot(n) * inv
	u = ac.Dot(dao) * inv
	v = -ab.Dot(dao) * inv
	w := 1 - u - v
	return dist, u, v, dist > 0 && u >= 0 && v >= 0 && w >= 0
}

// hitAABB is the slab test against an object's world bounds.
func hitAABB(origin, invDir mgl32.Vec3, bmin, bmax [3]float32) bool {
	tNear, tFar := float32(-math32.MaxFloat32), float32(math32.MaxFloat32)
	for i := range 3 {
		t0 := (bmin[i] - origin[i]) * invDir[i]
		t1 := (bmax[i] - origin[i]) * invDir[i]
		tNear = max(tNear, min(t0, t1))
		tFar = min(tFar, max(t0, t1))
	}
	return tNear <= tFar && tFar >= 0
}

// closestHit brute-forces every sphere, then every triangle of each object whose bounds the
// ray enters.
func (s *sceneData) closestHit(origin, dir mgl32.Vec3) hit {
	closest := hit{dist: math32.MaxFloat32}

	for i := range s.spheres {
		sp := &s.spheres[i]
		if d, ok := intersectSphere(origin, dir, sp); ok && d < closest.dist {
			closest.ok = true
			closest.dist = d
			closest.point = origin.Add(dir.Mul(d))
			closest.normal = closest.point.Sub(mgl32.Vec3(sp.Position)).Normalize()
			closest.material = sp.Material
		}
	}

	invDir := mgl32.Vec3{1 / dir[0], 1 / dir[1], 1 / dir[2]}
	for i := range s.objects {
		obj := &s.objects[i]
		if !hitAABB(origin, invDir, obj.BoundsMin, obj.BoundsMax) {
			continue
		}
		last := min(int(obj.FirstTriIndex+obj.NumTriangles), len(s.triangles))
		for t := int(obj.FirstTriIndex); t < last; t++ {
			tri := &s.triangles[t]
			d, u, v, ok := intersectTriangle(origin, dir, tri)
			if !ok || d >= closest.dist {
				continue
			}
			w := 1 - u - v
			closest.ok = true
			closest.dist = d
			closest.point = origin.Add(dir.Mul(d))
			closest.normal = mgl32.Vec3(tri.NormalA).Mul(w).
				Add(mgl32.Vec3(tri.NormalB).Mul(u)).
				Add(mgl32.Vec3(tri.NormalC).Mul(v)).Normalize()
			closest.material = obj.Material
		}
	}
	return closest
}
