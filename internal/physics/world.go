package physics

import "time"

// World is the active-body registry. It integrates velocities each step and
// clamps bodies that collide with the world bounds.
type World struct {
	Width  float64
	Height float64

	bodies []*Body
	dirty  bool // Some body was destroyed since the last compaction
}

// NewWorld creates an empty world with the given bounds.
func NewWorld(width, height float64) *World {
	return &World{
		Width:  width,
		Height: height,
	}
}

// Add registers a new body of size w×h centered at (x, y).
func (w *World) Add(x, y, width, height float64) *Body {
	b := &Body{
		X:      x,
		Y:      y,
		W:      width,
		H:      height,
		world:  w,
		active: true,
	}
	w.bodies = append(w.bodies, b)
	return b
}

// Step moves every active body by its velocity over dt.
func (w *World) Step(dt time.Duration) {
	if w.dirty {
		w.compact()
	}

	secs := dt.Seconds()
	for _, b := range w.bodies {
		b.X += b.VX * secs
		b.Y += b.VY * secs

		if b.CollideBounds {
			w.clamp(b)
		}
	}
}

// Len returns the number of active bodies.
func (w *World) Len() int {
	n := 0
	for _, b := range w.bodies {
		if b.active {
			n++
		}
	}
	return n
}

// Clear deactivates and drops every body.
func (w *World) Clear() {
	for _, b := range w.bodies {
		b.active = false
	}
	clear(w.bodies)
	w.bodies = w.bodies[:0]
	w.dirty = false
}

// Bounds returns the world rectangle.
func (w *World) Bounds() Rect {
	return Rect{W: w.Width, H: w.Height}
}

// clamp keeps a body's box fully inside the world and stops motion into the edge.
func (w *World) clamp(b *Body) {
	halfW, halfH := b.W/2, b.H/2

	if b.X < halfW {
		b.X = halfW
		b.VX = 0
	} else if b.X > w.Width-halfW {
		b.X = w.Width - halfW
		b.VX = 0
	}

	if b.Y < halfH {
		b.Y = halfH
		b.VY = 0
	} else if b.Y > w.Height-halfH {
		b.Y = w.Height - halfH
		b.VY = 0
	}
}

// compact drops destroyed bodies, reusing the backing array.
func (w *World) compact() {
	kept := w.bodies[:0]
	for _, b := range w.bodies {
		if b.active {
			kept = append(kept, b)
		}
	}
	clear(w.bodies[len(kept):])
	w.bodies = kept
	w.dirty = false
}
