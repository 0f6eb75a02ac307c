package game

import (
	"time"

	"github.com/tomz197/space-shooter/internal/entity"
	"github.com/tomz197/space-shooter/internal/level"
)

// BossStatus is the HUD view of an active boss.
type BossStatus struct {
	Type      entity.BossType
	State     entity.BossState
	Health    int
	MaxHealth int
	Phase     int
	MaxPhases int
}

// Snapshot is the read-only session state for HUDs and reporting.
type Snapshot struct {
	Score        int
	HighScore    int
	NewHighScore bool
	Lives        int
	GameOver     bool
	Now          time.Duration

	Level      int
	Title      string
	Multiplier float64
	Wave       int // Zero-based
	WaveCount  int
	Progress   level.State
	Incoming   int // Enemies of the active wave not yet spawned

	Boss *BossStatus // Nil when no boss is in play

	PlayerInvulnerable time.Duration
}

// Snapshot returns the current session state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Score:        g.score,
		NewHighScore: g.newHighScore,
		Lives:        g.lives,
		GameOver:     g.gameOver,
		Now:          g.now,

		Level:      g.director.CurrentLevel(),
		Title:      g.director.Config().Title,
		Multiplier: g.director.LevelMultiplier(),
		Wave:       g.director.CurrentWave(),
		WaveCount:  g.director.WaveCount(),
		Progress:   g.director.State(),
		Incoming:   g.director.EnemiesRemaining(),

		PlayerInvulnerable: g.player.InvulnerableRemaining(),
	}

	s.HighScore = g.score
	if g.opts.HighScore != nil {
		s.HighScore = max(g.opts.HighScore.Best(), g.score)
	}

	for _, b := range g.bosses {
		if b.IsDestroyed() {
			continue
		}
		s.Boss = &BossStatus{
			Type:      b.Type,
			State:     b.State,
			Health:    b.Health,
			MaxHealth: b.MaxHealth,
			Phase:     b.Phase,
			MaxPhases: b.MaxPhases,
		}
		break
	}
	return s
}

// Score returns the session score.
func (g *Game) Score() int { return g.score }

// Lives returns the remaining lives.
func (g *Game) Lives() int { return g.lives }

// GameOver returns true once the last life is lost.
func (g *Game) GameOver() bool { return g.gameOver }

// Player returns the player ship.
func (g *Game) Player() *entity.Player { return g.player }

// Enemies returns the enemies in play. The slice must not be modified.
func (g *Game) Enemies() []*entity.Enemy { return g.enemies }

// Bullets returns player and enemy bullets in play. Boss bullets are on the
// bosses. The slice must not be modified.
func (g *Game) Bullets() []*entity.Bullet { return g.bullets }

// Bosses returns the bosses in play. The slice must not be modified.
func (g *Game) Bosses() []*entity.Boss { return g.bosses }

// Width returns the playfield width.
func (g *Game) Width() float64 { return g.world.Width }

// Height returns the playfield height.
func (g *Game) Height() float64 { return g.world.Height }
