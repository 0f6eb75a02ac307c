package entity

import (
	"math"

	"github.com/tomz197/space-shooter/internal/loop/config"
)

// AttackPattern fires one volley for a boss.
type AttackPattern func(b *Boss, ctx UpdateContext)

// MovePattern sets a boss's velocity for the current tick.
type MovePattern func(b *Boss, ctx UpdateContext)

// attackPatterns maps each boss type to its signature attack.
var attackPatterns = map[BossType]AttackPattern{
	BossDestroyer:     spreadShot,
	BossInterceptor:   rapidFireBurst,
	BossMothership:    missileBarrage,
	BossVoidCommander: beamAttack,
}

// movePatterns maps each boss type to its movement rule.
var movePatterns = map[BossType]MovePattern{
	BossDestroyer:     sweepMove,
	BossInterceptor:   strafeMove,
	BossMothership:    driftMove,
	BossVoidCommander: commanderMove,
}

// rapidFireTypes shorten their attack cooldown as the phase rises.
var rapidFireTypes = map[BossType]bool{
	BossInterceptor: true,
}

func (b *Boss) attack(ctx UpdateContext) {
	if pattern, ok := attackPatterns[b.Type]; ok && ctx.World != nil {
		pattern(b, ctx)
	}
}

func (b *Boss) move(ctx UpdateContext) {
	if pattern, ok := movePatterns[b.Type]; ok {
		pattern(b, ctx)
	}
	if ctx.World != nil {
		b.keepInside(ctx.World.Width)
	}
}

// keepInside stops horizontal motion that would carry the boss off screen.
func (b *Boss) keepInside(width float64) {
	half := b.Body.W / 2
	if b.Body.X <= half && b.Body.VX < 0 {
		b.Body.VX = 0
		b.sweepDir = 1
	}
	if b.Body.X >= width-half && b.Body.VX > 0 {
		b.Body.VX = 0
		b.sweepDir = -1
	}
}

// spreadShot fans bullets out below the boss. Each phase adds two bullets.
func spreadShot(b *Boss, ctx UpdateContext) {
	count := 3 + 2*(b.Phase-1)
	const maxDrift = 140.0
	x, y := b.Body.X, b.Body.Y+b.Body.H/2
	for i := range count {
		t := float64(i)/float64(count-1)*2 - 1 // -1..1
		b.fire(ctx.World, x, y, t*maxDrift)
	}
}

// rapidFireBurst fires a tight three-round burst from both wing cannons.
func rapidFireBurst(b *Boss, ctx UpdateContext) {
	const burst = 3
	const spacing = 18.0
	y := b.Body.Y + b.Body.H/2
	for _, offset := range []float64{-b.Body.W / 4, b.Body.W / 4} {
		for i := range burst {
			b.fire(ctx.World, b.Body.X+offset, y-float64(i)*spacing, 0)
		}
	}
}

// missileBarrage drops a staggered row of missiles across the hull.
// Each phase adds a missile.
func missileBarrage(b *Boss, ctx UpdateContext) {
	count := 3 + (b.Phase - 1)
	const stagger = 24.0
	left := b.Body.X - b.Body.W/2
	step := b.Body.W / float64(count-1)
	y := b.Body.Y + b.Body.H/2
	for i := range count {
		b.fire(ctx.World, left+float64(i)*step, y-float64(i%2)*stagger, 0)
	}
}

// beamAttack fires a dense column of bullets straight down. From phase 3 the
// beam gains two flanking columns.
func beamAttack(b *Boss, ctx UpdateContext) {
	length := 4 + b.Phase
	const spacing = 14.0
	columns := []float64{0}
	if b.Phase >= 3 {
		columns = append(columns, -b.Body.W/3, b.Body.W/3)
	}
	y := b.Body.Y + b.Body.H/2
	for _, cx := range columns {
		for i := range length {
			b.fire(ctx.World, b.Body.X+cx, y-float64(i)*spacing, 0)
		}
	}
}

// sweepMove slides side to side at constant speed, bouncing at the edges.
func sweepMove(b *Boss, _ UpdateContext) {
	const speed = 90.0
	b.Body.SetVelocity(b.sweepDir*speed, 0)
}

// strafeMove oscillates quickly around the anchor.
func strafeMove(b *Boss, _ UpdateContext) {
	const amplitude = 220.0
	const freq = 0.5
	b.Body.SetVelocity(amplitude*math.Cos(b.age.Seconds()*freq*2*math.Pi), 0)
}

// driftMove wanders slowly with a gentle vertical bob.
func driftMove(b *Boss, _ UpdateContext) {
	t := b.age.Seconds()
	b.Body.SetVelocity(40*math.Sin(t*0.2*2*math.Pi), 20*math.Cos(t*0.5*2*math.Pi))
}

// commanderMove strafes and bobs, moving faster in later phases.
func commanderMove(b *Boss, _ UpdateContext) {
	t := b.age.Seconds()
	speed := 100 + 30*float64(b.Phase-1)
	vy := 30 * math.Cos(t*0.3*2*math.Pi)
	if b.Body.Y < config.BossAnchorY/2 && vy < 0 {
		vy = 0
	}
	b.Body.SetVelocity(speed*math.Sin(t*0.4*2*math.Pi), vy)
}
