package entity

import (
	"math"
	"time"

	"github.com/tomz197/space-shooter/internal/loop/config"
	"github.com/tomz197/space-shooter/internal/physics"
)

// EnemyType is the archetype of a regular enemy.
type EnemyType string

const (
	EnemyFighter     EnemyType = "fighter"
	EnemyCruiser     EnemyType = "cruiser"
	EnemyInterceptor EnemyType = "interceptor"
	EnemyBomber      EnemyType = "bomber"
)

// EnemyTypes lists every enemy archetype.
var EnemyTypes = []EnemyType{EnemyFighter, EnemyCruiser, EnemyInterceptor, EnemyBomber}

// EnemyStats holds the fixed per-type properties of an enemy archetype.
type EnemyStats struct {
	Points       int
	Size         float64
	FireInterval time.Duration // Zero means the type never shoots
}

var enemyStats = map[EnemyType]EnemyStats{
	EnemyFighter:     {Points: 10, Size: 32},
	EnemyCruiser:     {Points: 25, Size: 40, FireInterval: config.CruiserFireInterval},
	EnemyInterceptor: {Points: 15, Size: 28},
	EnemyBomber:      {Points: 30, Size: 44, FireInterval: config.BomberFireInterval},
}

// Stats returns the stats of an enemy type. Unknown types get fighter stats.
func (t EnemyType) Stats() EnemyStats {
	if s, ok := enemyStats[t]; ok {
		return s
	}
	return enemyStats[EnemyFighter]
}

// Points returns the base score for destroying an enemy of this type.
func (t EnemyType) Points() int {
	return t.Stats().Points
}

// Enemy is a regular hostile ship falling down the playfield.
type Enemy struct {
	Body      *physics.Body
	Type      EnemyType
	Health    int
	MaxHealth int
	Speed     float64
	WaveID    int // Wave that spawned this enemy (for wave completion tracking)

	age       time.Duration
	fireTimer time.Duration
	removed   bool
}

// NewEnemy creates an enemy at (x, y) that falls at speed and registers its body.
func NewEnemy(world *physics.World, x, y, speed float64, health int, t EnemyType) *Enemy {
	stats := t.Stats()
	body := world.Add(x, y, stats.Size, stats.Size)
	body.SetVelocity(0, speed)

	if health < 1 {
		health = 1
	}

	return &Enemy{
		Body:      body,
		Type:      t,
		Health:    health,
		MaxHealth: health,
		Speed:     speed,
	}
}

// TakeDamage lowers health by amount (never below zero) and returns true if
// the enemy is destroyed.
func (e *Enemy) TakeDamage(amount int) bool {
	if amount > 0 {
		e.Health = max(e.Health-amount, 0)
	}
	return e.Health <= 0
}

// Points returns the base score for destroying this enemy.
func (e *Enemy) Points() int {
	return e.Type.Points()
}

// Update applies the type's movement rule, fires if the type shoots and
// reports removal once the enemy has left the playfield.
func (e *Enemy) Update(ctx UpdateContext) (remove bool) {
	if e.removed {
		return true
	}

	e.age += ctx.Delta

	vx := 0.0
	if e.Type == EnemyInterceptor {
		phase := e.age.Seconds() * config.InterceptorSwayFrequency * 2 * math.Pi
		vx = config.InterceptorSwayAmplitude * math.Sin(phase)
	}
	e.Body.SetVelocity(vx, e.Speed)

	if interval := e.Type.Stats().FireInterval; interval > 0 && ctx.Spawner != nil && e.Body.Y > 0 {
		e.fireTimer += ctx.Delta
		if e.fireTimer >= interval {
			e.fireTimer = 0
			ctx.Spawner.SpawnHostileBullet(e.Body.X, e.Body.Y+e.Body.H/2, 0)
		}
	}

	if belowPlayfield(ctx.World, e.Body.Y, config.DespawnMargin) {
		e.Destroy()
		return true
	}
	return false
}

// Destroy removes the enemy from play.
func (e *Enemy) Destroy() {
	e.removed = true
	e.Body.Destroy()
}

// IsDestroyed returns true once the enemy has been removed.
func (e *Enemy) IsDestroyed() bool {
	return e.removed
}
