// Package combat decides what happens when two actors overlap: damage,
// destruction, score awards and player hits.
package combat

import (
	"github.com/tomz197/space-shooter/internal/entity"
	"github.com/tomz197/space-shooter/internal/level"
)

// Host is the session the resolver reports outcomes to.
type Host interface {
	// AddScore adds points to the session score.
	AddScore(points int)
	// DamagePlayer removes one life and returns true if that ended the game.
	DamagePlayer() (gameOver bool)
	// EnemyDestroyed is called after an enemy leaves play through combat.
	// points is zero when the enemy was destroyed by ramming the player.
	EnemyDestroyed(e *entity.Enemy, points int)
	// BossPhaseChanged is called after a hit moves a boss into a new phase.
	BossPhaseChanged(b *entity.Boss)
	// BossDefeated is called once when a boss's health reaches zero.
	BossDefeated(b *entity.Boss, points int)
}

// Director is the part of level progression the resolver needs.
type Director interface {
	LevelMultiplier() float64
	OnBossDefeated()
}

// Resolver applies combat rules to overlapping pairs.
type Resolver struct {
	host     Host
	director Director
}

// NewResolver creates a resolver reporting to host.
func NewResolver(host Host, director Director) *Resolver {
	return &Resolver{host: host, director: director}
}

// BulletHitsEnemy handles a player bullet overlapping an enemy. The bullet is
// always consumed.
func (r *Resolver) BulletHitsEnemy(b *entity.Bullet, e *entity.Enemy) {
	if b.IsDestroyed() || e.IsDestroyed() || b.Side != entity.SidePlayer {
		return
	}
	b.Destroy()

	if !e.TakeDamage(1) {
		return
	}
	points := level.ScaledPoints(e.Points(), r.director.LevelMultiplier())
	e.Destroy()
	r.host.AddScore(points)
	r.host.EnemyDestroyed(e, points)
}

// BulletHitsBoss handles a player bullet overlapping a boss. The bullet is
// consumed even while the boss ignores damage.
func (r *Resolver) BulletHitsBoss(b *entity.Bullet, boss *entity.Boss) {
	if b.IsDestroyed() || boss.IsDestroyed() || b.Side != entity.SidePlayer {
		return
	}
	if boss.State == entity.BossDefeated {
		return
	}
	b.Destroy()

	phase := boss.Phase
	if boss.TakeDamage(1) {
		points := level.ScaledPoints(boss.Points(), r.director.LevelMultiplier())
		boss.Destroy()
		r.host.AddScore(points)
		r.host.BossDefeated(boss, points)
		r.director.OnBossDefeated()
		return
	}
	if boss.Phase != phase {
		r.host.BossPhaseChanged(boss)
	}
}

// PlayerHitsEnemy handles the player ramming an enemy. The enemy is destroyed
// without score.
func (r *Resolver) PlayerHitsEnemy(p *entity.Player, e *entity.Enemy) {
	if !r.canHurt(p) || e.IsDestroyed() {
		return
	}
	e.Destroy()
	r.host.EnemyDestroyed(e, 0)
	r.host.DamagePlayer()
}

// PlayerHitsBoss handles the player touching a boss. The boss is unaffected.
func (r *Resolver) PlayerHitsBoss(p *entity.Player, boss *entity.Boss) {
	if !r.canHurt(p) || boss.IsDestroyed() || boss.State == entity.BossDefeated {
		return
	}
	r.host.DamagePlayer()
}

// PlayerHitByBullet handles a hostile bullet reaching the player.
func (r *Resolver) PlayerHitByBullet(p *entity.Player, b *entity.Bullet) {
	if !r.canHurt(p) || b.IsDestroyed() || b.Side != entity.SideHostile {
		return
	}
	b.Destroy()
	r.host.DamagePlayer()
}

// canHurt reports whether the player can take damage. Colliders that touch
// an invulnerable player are left in play.
func (r *Resolver) canHurt(p *entity.Player) bool {
	return p != nil && !p.IsDestroyed() && !p.Invulnerable()
}
