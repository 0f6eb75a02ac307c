package entity

import (
	"github.com/tomz197/space-shooter/internal/loop/config"
	"github.com/tomz197/space-shooter/internal/physics"
)

// Bullet is a projectile moving at constant velocity.
type Bullet struct {
	Body *physics.Body
	Side Side

	removed bool
}

// NewBullet creates a bullet at (x, y). Player bullets travel up, hostile bullets down.
func NewBullet(world *physics.World, x, y float64, side Side) *Bullet {
	return NewDriftingBullet(world, x, y, 0, side)
}

// NewDriftingBullet creates a bullet with a constant horizontal drift added to
// its vertical travel. Used by spread patterns.
func NewDriftingBullet(world *physics.World, x, y, vx float64, side Side) *Bullet {
	body := world.Add(x, y, config.BulletWidth, config.BulletHeight)

	vy := config.HostileBulletSpeed
	if side == SidePlayer {
		vy = -config.PlayerBulletSpeed
	}
	body.SetVelocity(vx, vy)

	return &Bullet{
		Body: body,
		Side: side,
	}
}

// Update reports removal once the bullet leaves the playfield.
func (b *Bullet) Update(ctx UpdateContext) (remove bool) {
	if b.removed {
		return true
	}

	if !ctx.World.Bounds().Expand(config.DespawnMargin).Contains(b.Body.X, b.Body.Y) {
		b.Destroy()
		return true
	}
	return false
}

// Destroy removes the bullet from play.
func (b *Bullet) Destroy() {
	b.removed = true
	b.Body.Destroy()
}

// IsDestroyed returns true once the bullet has been removed.
func (b *Bullet) IsDestroyed() bool {
	return b.removed
}
