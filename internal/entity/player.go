package entity

import (
	"time"

	"github.com/tomz197/space-shooter/internal/input"
	"github.com/tomz197/space-shooter/internal/loop/config"
	"github.com/tomz197/space-shooter/internal/physics"
)

// Player is the player-controlled ship.
type Player struct {
	Body *physics.Body

	Speed    float64       // Units per second on each held axis
	FireRate time.Duration // Minimum time between shots

	lastFired    time.Duration
	invulnerable time.Duration // Remaining grace time after a hit
}

// NewPlayer creates the ship at (x, y) and registers its body with the world.
func NewPlayer(world *physics.World, x, y float64) *Player {
	body := world.Add(x, y, config.PlayerSize, config.PlayerSize)
	body.CollideBounds = true

	return &Player{
		Body:     body,
		Speed:    config.PlayerSpeed,
		FireRate: config.PlayerFireRate,
	}
}

// Update sets the ship's velocity from the held movement keys and counts
// down the invulnerability window. There is no acceleration: velocity is
// either zero or full speed on each axis.
func (p *Player) Update(in input.Input, delta time.Duration) {
	vx, vy := 0.0, 0.0
	if in.Left {
		vx = -p.Speed
	}
	if in.Right {
		vx = p.Speed
	}
	if in.Up {
		vy = -p.Speed
	}
	if in.Down {
		vy = p.Speed
	}
	p.Body.SetVelocity(vx, vy)

	if p.invulnerable > 0 {
		p.invulnerable = max(p.invulnerable-delta, 0)
	}
}

// CanFire returns true iff now > lastFired + FireRate.
func (p *Player) CanFire(now time.Duration) bool {
	return now > p.lastFired+p.FireRate
}

// RecordFired stores the time of the last shot.
func (p *Player) RecordFired(now time.Duration) {
	p.lastFired = now
}

// Muzzle returns where new bullets appear.
func (p *Player) Muzzle() (float64, float64) {
	return p.Body.X, p.Body.Y - config.PlayerMuzzleOffsetY
}

// GrantInvulnerability starts (or restarts) the post-hit grace window.
func (p *Player) GrantInvulnerability(d time.Duration) {
	p.invulnerable = d
}

// Invulnerable returns true while the grace window is running.
func (p *Player) Invulnerable() bool {
	return p.invulnerable > 0
}

// InvulnerableRemaining returns the time left in the grace window.
func (p *Player) InvulnerableRemaining() time.Duration {
	return p.invulnerable
}

// Destroy removes the ship's body from the world.
func (p *Player) Destroy() {
	p.Body.Destroy()
}

// IsDestroyed returns true once the ship has been removed.
func (p *Player) IsDestroyed() bool {
	return !p.Body.Active()
}
