package entity

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived piece of explosion debris. It is drawn but never
// collides with anything.
type Particle struct {
	X, Y        float64
	VX, VY      float64
	Lifetime    time.Duration // Remaining
	MaxLifetime time.Duration
	Drag        float64 // Velocity kept per 1/60s (1.0 = no drag)
}

// NewParticle takes a particle from the pool and initializes it.
func NewParticle(x, y, vx, vy float64, lifetime time.Duration) *Particle {
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.VX = vx
	p.VY = vy
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.95
	return p
}

// Release returns the particle to the pool for reuse.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnExplosion emits count particles in a circular burst around (x, y).
func SpawnExplosion(x, y float64, count int, speed float64, lifetime time.Duration, emit func(*Particle)) {
	if emit == nil {
		return
	}
	for range count {
		angle := rand.Float64() * 2 * math.Pi
		spd := speed * (0.5 + rand.Float64())
		life := time.Duration(float64(lifetime) * (0.5 + rand.Float64()*0.5))
		emit(NewParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life))
	}
}

// Update moves the particle and returns true once its lifetime is over.
func (p *Particle) Update(delta time.Duration) (remove bool) {
	p.Lifetime -= delta
	if p.Lifetime <= 0 {
		return true
	}

	dt := delta.Seconds()
	drag := math.Pow(p.Drag, dt*60) // Normalize drag to ~60fps
	p.VX *= drag
	p.VY *= drag
	p.X += p.VX * dt
	p.Y += p.VY * dt
	return false
}

// Faded returns true during the last quarter of the particle's life.
func (p *Particle) Faded() bool {
	return p.MaxLifetime > 0 && float64(p.Lifetime)/float64(p.MaxLifetime) < 0.25
}
