// Package physics provides the body registry, velocity integration and
// bounding-box overlap detection the game objects move through.
package physics

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Expand grows the rectangle by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Body is a movable box owned by a World. Position is the box center.
type Body struct {
	X, Y   float64 // Center position
	VX, VY float64 // Velocity in units per second
	W, H   float64 // Collision box size

	// CollideBounds keeps the body inside the world bounds after integration.
	CollideBounds bool

	world  *World
	active bool
}

// Active returns true while the body is registered with a world.
func (b *Body) Active() bool {
	return b != nil && b.active
}

// SetVelocity sets both velocity components.
func (b *Body) SetVelocity(vx, vy float64) {
	b.VX = vx
	b.VY = vy
}

// Bounds returns the body's collision rectangle.
func (b *Body) Bounds() Rect {
	return Rect{X: b.X - b.W/2, Y: b.Y - b.H/2, W: b.W, H: b.H}
}

// Destroy removes the body from its world. Safe to call more than once.
func (b *Body) Destroy() {
	if b == nil || !b.active {
		return
	}
	b.active = false
	if b.world != nil {
		b.world.dirty = true
	}
}

// Overlaps checks if two active bodies' boxes intersect.
func Overlaps(a, b *Body) bool {
	if !a.Active() || !b.Active() {
		return false
	}
	return RectsOverlap(a.Bounds(), b.Bounds())
}

// RectsOverlap checks if two rectangles intersect.
func RectsOverlap(a, b Rect) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}
