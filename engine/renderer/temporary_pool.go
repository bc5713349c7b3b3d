package renderer

import "fmt"

// maxIdleTemporaries caps how many released temporaries are kept for reuse.
const maxIdleTemporaries = 4

// temporaryPool hands out short-lived surfaces for one frame and recycles them.
// It is not safe for concurrent use; the renderer serializes access.
type temporaryPool struct {
	backend RendererBackend
	idle    []Surface
	created int
}

func newTemporaryPool(backend RendererBackend) *temporaryPool {
	return &temporaryPool{backend: backend}
}

// acquire returns a surface of the given size and a release func that hands it back.
// The release func is safe to call more than once.
func (p *temporaryPool) acquire(width, height int) (Surface, func(), error) {
	var s Surface
	for i, candidate := range p.idle {
		if candidate.Width() == width && candidate.Height() == height {
			s = candidate
			p.idle = append(p.idle[:i], p.idle[i+1:]...)
			break
		}
	}
	if s == nil {
		var err error
		s, err = p.backend.CreateSurface(fmt.Sprintf("Temporary %d", p.created), width, height)
		if err != nil {
			return nil, func() {}, err
		}
		p.created++
	}

	done := false
	return s, func() {
		if done {
			return
		}
		done = true
		p.put(s)
	}, nil
}

func (p *temporaryPool) put(s Surface) {
	if len(p.idle) >= maxIdleTemporaries {
		s.Release()
		return
	}
	p.idle = append(p.idle, s)
}

// purge releases every idle surface.
func (p *temporaryPool) purge() {
	for _, s := range p.idle {
		s.Release()
	}
	p.idle = nil
}
