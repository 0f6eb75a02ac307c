// Package entity holds the game's actors: the player ship, enemies, bosses and
// bullets. Each actor is plain data plus behavior and keeps a handle to the
// physics body that represents it in the world.
package entity

import (
	"time"

	"github.com/tomz197/space-shooter/internal/physics"
)

// Side identifies which collision group a bullet belongs to.
type Side int

const (
	SidePlayer  Side = iota // Fired by the player, hits enemies and bosses
	SideHostile             // Fired by enemies or bosses, hits the player
)

// String returns a readable side name.
func (s Side) String() string {
	if s == SidePlayer {
		return "player"
	}
	return "hostile"
}

// Spawner allows actors to emit hostile bullets during update.
type Spawner interface {
	SpawnHostileBullet(x, y, vx float64) *Bullet
}

// UpdateContext provides all the information an actor needs during update.
type UpdateContext struct {
	Now     time.Duration // Session clock
	Delta   time.Duration // Time since last tick
	World   *physics.World
	Spawner Spawner
}

// Destructible is implemented by actors that can be removed from play.
type Destructible interface {
	// Destroy removes the actor's body from the world.
	Destroy()
	// IsDestroyed returns true once the actor has been removed.
	IsDestroyed() bool
}

// belowPlayfield returns true once y has passed the bottom edge by the despawn margin.
func belowPlayfield(world *physics.World, y, margin float64) bool {
	return y > world.Height+margin
}
