package level

import (
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/space-shooter/internal/entity"
	"github.com/tomz197/space-shooter/internal/loop/config"
	"github.com/tomz197/space-shooter/internal/schedule"
)

// State is a step of the level progression.
type State int

const (
	StateLevelIntro State = iota
	StateWaveActive
	StateWaveIntermission
	StateBossWarning
	StateBossActive
	StateLevelComplete
)

func (s State) String() string {
	switch s {
	case StateLevelIntro:
		return "level-intro"
	case StateWaveActive:
		return "wave-active"
	case StateWaveIntermission:
		return "wave-intermission"
	case StateBossWarning:
		return "boss-warning"
	case StateBossActive:
		return "boss-active"
	case StateLevelComplete:
		return "level-complete"
	default:
		return "unknown"
	}
}

// EventKind identifies a progression announcement.
type EventKind int

const (
	EventLevelStart EventKind = iota
	EventWaveStart
	EventBossWarning
	EventBossSpawned
	EventLevelComplete
)

// Event is a progression announcement for the presentation layer.
type Event struct {
	Kind  EventKind
	Level int
	Wave  int // Zero-based
	Boss  entity.BossType
	Bonus int // Level complete bonus
}

// Host is the part of the game the director drives.
type Host interface {
	SpawnEnemy(x, y, speed float64, health int, t entity.EnemyType, waveID int)
	SpawnBoss(x, y float64, t entity.BossType, healthScale float64)
	// LiveEnemies returns how many enemies spawned for waveID are still in play.
	LiveEnemies(waveID int) int
	AddScore(points int)
	LevelEvent(e Event)
}

// Director sequences waves, the boss encounter and level transitions.
// Every delay runs as a scheduler task, so a scheduler Reset abandons them.
type Director struct {
	host   Host
	sched  *schedule.Scheduler
	rng    *rand.Rand
	width  float64
	logger *log.Logger

	cfg        LevelConfig
	state      State
	wave       int
	waveID     int
	nextWaveID int
	spawned    int
	spawnTimer time.Duration
	waveFresh  bool // Wave started during the current tick
	pending    *schedule.Task
}

// NewDirector creates a director and loads level 1. logger may be nil.
func NewDirector(host Host, sched *schedule.Scheduler, rng *rand.Rand, width float64, logger *log.Logger) *Director {
	d := &Director{
		host:   host,
		sched:  sched,
		rng:    rng,
		width:  width,
		logger: logger,
	}
	d.Load(1)
	return d
}

// Load abandons the current level and starts level n with its intro banner.
func (d *Director) Load(n int) {
	d.pending.Cancel()
	d.cfg = Generate(n, d.rng)
	d.state = StateLevelIntro
	d.wave = 0
	d.spawned = 0
	d.spawnTimer = 0
	d.waveFresh = false

	if d.logger != nil {
		d.logger.Debug("level loaded", "level", d.cfg.Number, "waves", len(d.cfg.Waves), "boss", d.cfg.Boss)
	}
	d.host.LevelEvent(Event{Kind: EventLevelStart, Level: d.cfg.Number, Boss: d.cfg.Boss})
	d.pending = d.sched.After(config.LevelIntroDelay, "level-intro", func() {
		d.startWave(0)
	})
}

// Update spawns the active wave's enemies and detects wave completion.
func (d *Director) Update(delta time.Duration) {
	if d.state != StateWaveActive {
		return
	}

	wave := d.cfg.Waves[d.wave]
	if d.waveFresh {
		// Time from the tick that started the wave does not count.
		d.waveFresh = false
	} else if d.spawned < wave.Count {
		d.spawnTimer += delta
		if d.spawnTimer >= wave.SpawnDelay {
			d.spawnTimer = 0
			d.spawnEnemy(wave)
		}
	}

	if d.WaveComplete() {
		d.finishWave()
	}
}

// WaveComplete returns true once every enemy of the active wave has been
// spawned and none of them is still in play.
func (d *Director) WaveComplete() bool {
	if d.state != StateWaveActive {
		return false
	}
	return d.spawned == d.cfg.Waves[d.wave].Count && d.host.LiveEnemies(d.waveID) == 0
}

// OnBossDefeated awards the level bonus and schedules the next level.
// It is ignored outside the boss encounter.
func (d *Director) OnBossDefeated() {
	if d.state != StateBossActive {
		return
	}
	d.completeLevel()
}

func (d *Director) startWave(i int) {
	d.wave = i
	d.nextWaveID++
	d.waveID = d.nextWaveID
	d.spawned = 0
	d.spawnTimer = 0
	d.waveFresh = true
	d.state = StateWaveActive
	d.host.LevelEvent(Event{Kind: EventWaveStart, Level: d.cfg.Number, Wave: i})
}

func (d *Director) spawnEnemy(wave EnemyWave) {
	margin := float64(config.EnemySpawnMargin)
	x := margin + d.randFloat()*(d.width-2*margin)
	d.host.SpawnEnemy(x, config.EnemySpawnY, wave.EnemySpeed, wave.EnemyHealth, wave.EnemyType, d.waveID)
	d.spawned++
}

func (d *Director) finishWave() {
	next := d.wave + 1
	switch {
	case next < len(d.cfg.Waves):
		d.state = StateWaveIntermission
		d.pending = d.sched.After(config.WaveIntermissionDelay, "wave-intermission", func() {
			d.startWave(next)
		})
	case d.cfg.HasBoss():
		d.state = StateBossWarning
		d.host.LevelEvent(Event{Kind: EventBossWarning, Level: d.cfg.Number, Boss: d.cfg.Boss})
		d.pending = d.sched.After(config.BossWarningDelay, "boss-warning", d.spawnBoss)
	default:
		d.completeLevel()
	}
}

func (d *Director) spawnBoss() {
	d.host.SpawnBoss(d.width/2, config.BossSpawnY, d.cfg.Boss, d.cfg.BossHealthScale)
	d.state = StateBossActive
	d.host.LevelEvent(Event{Kind: EventBossSpawned, Level: d.cfg.Number, Boss: d.cfg.Boss})
}

func (d *Director) completeLevel() {
	bonus := ScaledPoints(config.LevelCompleteBaseBonus, d.cfg.BonusMultiplier)
	d.host.AddScore(bonus)
	d.state = StateLevelComplete

	if d.logger != nil {
		d.logger.Debug("level complete", "level", d.cfg.Number, "bonus", bonus)
	}
	d.host.LevelEvent(Event{Kind: EventLevelComplete, Level: d.cfg.Number, Bonus: bonus})

	next := d.cfg.Number + 1
	d.pending = d.sched.After(config.LevelCompleteDelay, "level-complete", func() {
		d.Load(next)
	})
}

func (d *Director) randFloat() float64 {
	if d.rng == nil {
		return rand.Float64()
	}
	return d.rng.Float64()
}

// CurrentLevel returns the level number.
func (d *Director) CurrentLevel() int { return d.cfg.Number }

// LevelMultiplier returns the score multiplier of the current level.
func (d *Director) LevelMultiplier() float64 { return d.cfg.BonusMultiplier }

// CurrentWave returns the zero-based index of the current wave.
func (d *Director) CurrentWave() int { return d.wave }

// WaveCount returns the number of regular waves in the current level.
func (d *Director) WaveCount() int { return len(d.cfg.Waves) }

// State returns the current progression state.
func (d *Director) State() State { return d.state }

// Config returns the current level configuration.
func (d *Director) Config() LevelConfig { return d.cfg }

// BossActive returns true during the boss encounter.
func (d *Director) BossActive() bool { return d.state == StateBossActive }

// EnemiesRemaining returns how many enemies of the active wave are yet to spawn.
func (d *Director) EnemiesRemaining() int {
	if d.state != StateWaveActive {
		return 0
	}
	return d.cfg.Waves[d.wave].Count - d.spawned
}
