package entity

import (
	"math"
	"time"

	"github.com/tomz197/space-shooter/internal/loop/config"
	"github.com/tomz197/space-shooter/internal/physics"
)

// BossType is the archetype of a boss.
type BossType string

const (
	BossDestroyer     BossType = "destroyer"
	BossInterceptor   BossType = "interceptor"
	BossMothership    BossType = "mothership"
	BossVoidCommander BossType = "voidcommander"
)

// BossTypes lists every boss archetype in progression order.
var BossTypes = []BossType{BossDestroyer, BossInterceptor, BossMothership, BossVoidCommander}

// BossStats holds the fixed per-type properties of a boss archetype.
type BossStats struct {
	Health         int
	MaxPhases      int
	AttackCooldown time.Duration
	Points         int
}

var bossStats = map[BossType]BossStats{
	BossDestroyer:     {Health: 50, MaxPhases: 2, AttackCooldown: 2000 * time.Millisecond, Points: 500},
	BossInterceptor:   {Health: 75, MaxPhases: 3, AttackCooldown: 1200 * time.Millisecond, Points: 750},
	BossMothership:    {Health: 120, MaxPhases: 4, AttackCooldown: 2500 * time.Millisecond, Points: 1000},
	BossVoidCommander: {Health: 200, MaxPhases: 5, AttackCooldown: 1800 * time.Millisecond, Points: 2000},
}

// Stats returns the stats of a boss type. Unknown types get destroyer stats.
func (t BossType) Stats() BossStats {
	if s, ok := bossStats[t]; ok {
		return s
	}
	return bossStats[BossDestroyer]
}

// Points returns the base score for defeating a boss of this type.
func (t BossType) Points() int {
	return t.Stats().Points
}

// BossState is a step of the boss state machine.
type BossState int

const (
	BossEntering        BossState = iota // Flying in, invulnerable
	BossActive                           // Vulnerable, moving and attacking
	BossPhaseTransition                  // Brief invulnerability after a phase change
	BossDefeated                         // Terminal
)

func (s BossState) String() string {
	switch s {
	case BossEntering:
		return "entering"
	case BossActive:
		return "active"
	case BossPhaseTransition:
		return "phase-transition"
	case BossDefeated:
		return "defeated"
	default:
		return "unknown"
	}
}

// Boss is a multi-phase enemy that closes every level.
type Boss struct {
	Body      *physics.Body
	Type      BossType
	Health    int
	MaxHealth int
	Phase     int
	MaxPhases int
	State     BossState

	// Bullets fired by this boss. Kept apart from regular enemy bullets.
	Bullets []*Bullet

	age            time.Duration // Time spent fighting (drives movement patterns)
	attackTimer    time.Duration
	transitionLeft time.Duration
	sweepDir       float64
}

// NewBoss creates a boss at (x, y) with its type's base health.
func NewBoss(world *physics.World, x, y float64, t BossType) *Boss {
	return NewScaledBoss(world, x, y, t, 1)
}

// NewScaledBoss creates a boss whose base health is multiplied by healthScale.
func NewScaledBoss(world *physics.World, x, y float64, t BossType, healthScale float64) *Boss {
	stats := t.Stats()
	health := int(math.Round(float64(stats.Health) * max(healthScale, 1)))

	return &Boss{
		Body:      world.Add(x, y, config.BossSize, config.BossSize*0.6),
		Type:      t,
		Health:    health,
		MaxHealth: health,
		Phase:     1,
		MaxPhases: stats.MaxPhases,
		State:     BossEntering,
		sweepDir:  1,
	}
}

// Invulnerable returns true while the boss ignores damage.
func (b *Boss) Invulnerable() bool {
	return b.State != BossActive
}

// TakeDamage lowers health by amount and advances the phase when the remaining
// health fraction crosses a phase boundary. While invulnerable it does nothing
// and returns false. Returns true if the boss is defeated.
func (b *Boss) TakeDamage(amount int) bool {
	if b.Invulnerable() || amount <= 0 {
		return false
	}

	b.Health = max(b.Health-amount, 0)
	if b.Health <= 0 {
		b.State = BossDefeated
		b.Body.SetVelocity(0, 0)
		return true
	}

	if next := b.computePhase(); next > b.Phase {
		b.Phase = next
		b.State = BossPhaseTransition
		b.transitionLeft = config.BossPhaseTransitionTime
		b.attackTimer = 0
		b.Body.SetVelocity(0, 0)
	}
	return false
}

// computePhase derives the phase from the remaining health fraction:
// maxPhases - floor(health/maxHealth * maxPhases) + 1, clamped to [1, maxPhases].
func (b *Boss) computePhase() int {
	if b.MaxHealth <= 0 {
		return b.MaxPhases
	}
	frac := float64(b.Health) / float64(b.MaxHealth)
	phase := b.MaxPhases - int(math.Floor(frac*float64(b.MaxPhases))) + 1
	return min(max(phase, 1), b.MaxPhases)
}

// Points returns the base score for defeating this boss.
func (b *Boss) Points() int {
	return b.Type.Points()
}

// AttackCooldown returns the time between attacks in the current phase.
// Rapid-fire bosses shorten it each phase; the others keep their base and
// grow their volleys instead.
func (b *Boss) AttackCooldown() time.Duration {
	base := b.Type.Stats().AttackCooldown
	if !rapidFireTypes[b.Type] {
		return base
	}
	scale := max(1-0.2*float64(b.Phase-1), 0.4)
	return time.Duration(float64(base) * scale)
}

// Update runs the state machine, moves the boss, fires its attack pattern and
// advances the boss's own bullets. A boss is never removed by Update; it
// leaves play only when defeated.
func (b *Boss) Update(ctx UpdateContext) (remove bool) {
	b.updateBullets(ctx)

	switch b.State {
	case BossEntering:
		b.Body.SetVelocity(0, config.BossEntrySpeed)
		if b.Body.Y >= config.BossAnchorY {
			b.Body.Y = config.BossAnchorY
			b.Body.SetVelocity(0, 0)
			b.State = BossActive
		}

	case BossActive:
		b.age += ctx.Delta
		b.move(ctx)

		b.attackTimer += ctx.Delta
		if b.attackTimer >= b.AttackCooldown() {
			b.attackTimer = 0
			b.attack(ctx)
		}

	case BossPhaseTransition:
		b.transitionLeft -= ctx.Delta
		if b.transitionLeft <= 0 {
			b.transitionLeft = 0
			b.State = BossActive
		}

	case BossDefeated:
		return b.IsDestroyed()
	}

	return false
}

// updateBullets advances the boss's own bullets and drops the ones that left play.
func (b *Boss) updateBullets(ctx UpdateContext) {
	kept := b.Bullets[:0]
	for _, bullet := range b.Bullets {
		if !bullet.Update(ctx) {
			kept = append(kept, bullet)
		}
	}
	clear(b.Bullets[len(kept):])
	b.Bullets = kept
}

// fire adds a hostile bullet owned by this boss.
func (b *Boss) fire(world *physics.World, x, y, vx float64) {
	b.Bullets = append(b.Bullets, NewDriftingBullet(world, x, y, vx, SideHostile))
}

// Destroy removes the boss and every bullet it still owns.
func (b *Boss) Destroy() {
	b.State = BossDefeated
	b.Body.Destroy()
	for _, bullet := range b.Bullets {
		bullet.Destroy()
	}
	b.Bullets = b.Bullets[:0]
}

// IsDestroyed returns true once the boss has been removed.
func (b *Boss) IsDestroyed() bool {
	return !b.Body.Active()
}
