// Package game drives a single play session: it owns the world, the
// actors, score and lives, and advances everything once per tick.
package game

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/space-shooter/internal/combat"
	"github.com/tomz197/space-shooter/internal/entity"
	"github.com/tomz197/space-shooter/internal/input"
	"github.com/tomz197/space-shooter/internal/level"
	"github.com/tomz197/space-shooter/internal/loop/config"
	"github.com/tomz197/space-shooter/internal/physics"
	"github.com/tomz197/space-shooter/internal/schedule"
)

// HighScoreKeeper stores the best score across sessions.
type HighScoreKeeper interface {
	Best() int
	// Update stores score if it beats the stored best and returns true if it did.
	Update(ctx context.Context, score int) bool
}

// Options configures a new game. Zero values get defaults.
type Options struct {
	Context   context.Context // Used for high score writes
	Logger    *log.Logger
	HighScore HighScoreKeeper
	Rand      *rand.Rand // Level generation and spawn positions

	Lives           int
	Invulnerability time.Duration
}

// Game is one play session. It is not safe for concurrent use; each
// terminal session owns its own Game.
type Game struct {
	opts   Options
	ctx    context.Context
	logger *log.Logger

	world    *physics.World
	sched    *schedule.Scheduler
	director *level.Director
	resolver *combat.Resolver

	player  *entity.Player
	bullets []*entity.Bullet // Player and enemy bullets; boss bullets live on the boss
	enemies []*entity.Enemy
	bosses  []*entity.Boss

	score        int
	lives        int
	gameOver     bool
	newHighScore bool
	now          time.Duration

	events []Event
	c      collisionState
}

// Compile-time checks for the roles Game plays.
var (
	_ level.Host     = (*Game)(nil)
	_ combat.Host    = (*Game)(nil)
	_ entity.Spawner = (*Game)(nil)
)

// New creates a game at level 1 with a fresh player.
func New(opts Options) *Game {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Lives <= 0 {
		opts.Lives = config.InitialLives
	}
	if opts.Invulnerability <= 0 {
		opts.Invulnerability = config.PlayerInvulnerableTime
	}

	g := &Game{
		opts:   opts,
		ctx:    opts.Context,
		logger: opts.Logger,
		world:  physics.NewWorld(config.PlayfieldWidth, config.PlayfieldHeight),
		sched:  schedule.New(),
		lives:  opts.Lives,
	}
	g.sched.Guard = func() bool { return !g.gameOver }
	g.c.init(g.world.Width, g.world.Height)
	g.spawnPlayer()

	g.director = level.NewDirector(g, g.sched, opts.Rand, g.world.Width, g.logger)
	g.resolver = combat.NewResolver(g, g.director)
	return g
}

// Tick advances the session by delta. now is the session clock used for
// fire-rate checks. A finished game ignores ticks until Restart.
func (g *Game) Tick(now, delta time.Duration, in input.Input) {
	if g.gameOver {
		return
	}
	g.now = now

	g.sched.Advance(delta)
	if g.gameOver {
		return
	}
	g.director.Update(delta)

	g.player.Update(in, delta)
	if in.Fire && g.player.CanFire(now) {
		x, y := g.player.Muzzle()
		g.bullets = append(g.bullets, entity.NewBullet(g.world, x, y, entity.SidePlayer))
		g.player.RecordFired(now)
	}

	ctx := entity.UpdateContext{
		Now:     now,
		Delta:   delta,
		World:   g.world,
		Spawner: g,
	}
	g.bullets = updateAll(g.bullets, ctx)
	g.enemies = updateAll(g.enemies, ctx)
	g.bosses = updateAll(g.bosses, ctx)

	g.world.Step(delta)

	g.resolveCollisions()
	g.prune()
}

// Restart throws away the session and starts over at level 1. Deferred
// tasks from the previous session never run.
func (g *Game) Restart() {
	dropped, bodies := g.sched.Len(), g.world.Len()
	g.sched.Reset()
	g.world.Clear()

	clear(g.bullets)
	g.bullets = g.bullets[:0]
	clear(g.enemies)
	g.enemies = g.enemies[:0]
	clear(g.bosses)
	g.bosses = g.bosses[:0]
	g.events = nil

	g.score = 0
	g.lives = g.opts.Lives
	g.gameOver = false
	g.newHighScore = false

	g.spawnPlayer()
	g.director.Load(1)
	g.logger.Debug("game restarted", "generation", g.sched.Generation(), "dropped", dropped, "bodies", bodies)
}

func (g *Game) spawnPlayer() {
	g.player = entity.NewPlayer(g.world, g.world.Width/2, g.world.Height-config.PlayerStartOffsetY)
}

// AddScore adds points and stores a new high score when the total beats it.
func (g *Game) AddScore(points int) {
	if points <= 0 {
		return
	}
	g.score += points

	if g.opts.HighScore != nil && g.opts.HighScore.Update(g.ctx, g.score) && !g.newHighScore {
		g.newHighScore = true
		g.emit(Event{Type: EventNewHighScore, Score: g.score})
	}
}

// DamagePlayer removes one life. The player becomes briefly invulnerable;
// losing the last life ends the game.
func (g *Game) DamagePlayer() (gameOver bool) {
	if g.gameOver {
		return true
	}

	g.lives = max(g.lives-1, 0)
	g.emit(Event{Type: EventPlayerHit, X: g.player.Body.X, Y: g.player.Body.Y, Lives: g.lives})

	if g.lives > 0 {
		g.player.GrantInvulnerability(g.opts.Invulnerability)
		return false
	}

	g.gameOver = true
	g.emit(Event{Type: EventGameOver, Score: g.score, Level: g.director.CurrentLevel()})
	g.logger.Info("game over", "score", g.score, "level", g.director.CurrentLevel(), "highScore", g.newHighScore)
	return true
}

// EnemyDestroyed reports an enemy killed in combat.
func (g *Game) EnemyDestroyed(e *entity.Enemy, points int) {
	g.emit(Event{Type: EventEnemyDestroyed, X: e.Body.X, Y: e.Body.Y, Points: points, Enemy: e.Type})
}

// BossPhaseChanged reports a boss entering a new phase.
func (g *Game) BossPhaseChanged(b *entity.Boss) {
	g.emit(Event{Type: EventBossPhase, X: b.Body.X, Y: b.Body.Y, Boss: b.Type, Phase: b.Phase})
}

// BossDefeated reports a defeated boss.
func (g *Game) BossDefeated(b *entity.Boss, points int) {
	g.emit(Event{Type: EventBossDefeated, X: b.Body.X, Y: b.Body.Y, Points: points, Boss: b.Type})
	g.logger.Info("boss defeated", "boss", b.Type, "level", g.director.CurrentLevel(), "points", points)
}

// SpawnEnemy adds an enemy belonging to waveID.
func (g *Game) SpawnEnemy(x, y, speed float64, health int, t entity.EnemyType, waveID int) {
	e := entity.NewEnemy(g.world, x, y, speed, health, t)
	e.WaveID = waveID
	g.enemies = append(g.enemies, e)
}

// SpawnBoss adds a boss with its health scaled by healthScale.
func (g *Game) SpawnBoss(x, y float64, t entity.BossType, healthScale float64) {
	g.bosses = append(g.bosses, entity.NewScaledBoss(g.world, x, y, t, healthScale))
}

// SpawnHostileBullet adds an enemy bullet.
func (g *Game) SpawnHostileBullet(x, y, vx float64) *entity.Bullet {
	b := entity.NewDriftingBullet(g.world, x, y, vx, entity.SideHostile)
	g.bullets = append(g.bullets, b)
	return b
}

// LiveEnemies counts enemies from waveID that are still in play.
func (g *Game) LiveEnemies(waveID int) int {
	n := 0
	for _, e := range g.enemies {
		if e.WaveID == waveID && !e.IsDestroyed() {
			n++
		}
	}
	return n
}

// updater is an actor advanced once per tick.
type updater interface {
	Update(ctx entity.UpdateContext) (remove bool)
}

// updateAll updates every actor and drops the ones that asked to be removed.
func updateAll[T updater](items []T, ctx entity.UpdateContext) []T {
	kept := items[:0]
	for _, it := range items {
		if !it.Update(ctx) {
			kept = append(kept, it)
		}
	}
	clear(items[len(kept):])
	return kept
}

// prune drops actors destroyed during collision resolution.
func (g *Game) prune() {
	g.bullets = removeDestroyed(g.bullets)
	g.enemies = removeDestroyed(g.enemies)
	g.bosses = removeDestroyed(g.bosses)
}

func removeDestroyed[T entity.Destructible](items []T) []T {
	kept := items[:0]
	for _, it := range items {
		if !it.IsDestroyed() {
			kept = append(kept, it)
		}
	}
	clear(items[len(kept):])
	return kept
}
