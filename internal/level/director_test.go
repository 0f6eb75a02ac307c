package level

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/space-shooter/internal/entity"
	"github.com/tomz197/space-shooter/internal/loop/config"
	"github.com/tomz197/space-shooter/internal/schedule"
)

type spawnedEnemy struct {
	x, y   float64
	t      entity.EnemyType
	health int
	waveID int
}

// fakeHost records what the director asks of the game.
type fakeHost struct {
	enemies []spawnedEnemy
	live    map[int]int
	bosses  []entity.BossType
	score   int
	events  []Event
}

func newFakeHost() *fakeHost {
	return &fakeHost{live: make(map[int]int)}
}

func (h *fakeHost) SpawnEnemy(x, y, _ float64, health int, t entity.EnemyType, waveID int) {
	h.enemies = append(h.enemies, spawnedEnemy{x: x, y: y, t: t, health: health, waveID: waveID})
	h.live[waveID]++
}

func (h *fakeHost) SpawnBoss(_, _ float64, t entity.BossType, _ float64) {
	h.bosses = append(h.bosses, t)
}

func (h *fakeHost) LiveEnemies(waveID int) int { return h.live[waveID] }
func (h *fakeHost) AddScore(points int)        { h.score += points }
func (h *fakeHost) LevelEvent(e Event)         { h.events = append(h.events, e) }

func (h *fakeHost) killAll() {
	clear(h.live)
}

func (h *fakeHost) lastEvent() Event {
	return h.events[len(h.events)-1]
}

func newTestDirector(t *testing.T) (*Director, *fakeHost, *schedule.Scheduler) {
	t.Helper()
	host := newFakeHost()
	sched := schedule.New()
	d := NewDirector(host, sched, testRand(), config.PlayfieldWidth, nil)
	return d, host, sched
}

// spawnWave drives the director until every enemy of the active wave is out.
func spawnWave(t *testing.T, d *Director) {
	t.Helper()
	require.Equal(t, StateWaveActive, d.State())
	delay := d.Config().Waves[d.CurrentWave()].SpawnDelay
	for d.EnemiesRemaining() > 0 {
		d.Update(delay)
	}
}

func TestDirector_StartsWithLevelIntro(t *testing.T) {
	t.Parallel()

	d, host, sched := newTestDirector(t)

	assert.Equal(t, 1, d.CurrentLevel())
	assert.Equal(t, StateLevelIntro, d.State())
	assert.Equal(t, EventLevelStart, host.lastEvent().Kind)

	d.Update(time.Second)
	assert.Empty(t, host.enemies, "no spawns during the intro")

	sched.Advance(config.LevelIntroDelay - time.Millisecond)
	assert.Equal(t, StateLevelIntro, d.State())

	sched.Advance(time.Millisecond)
	assert.Equal(t, StateWaveActive, d.State())
	assert.Equal(t, 0, d.CurrentWave())
	assert.Equal(t, EventWaveStart, host.lastEvent().Kind)
}

func TestDirector_SpawnsOnePerDelay(t *testing.T) {
	t.Parallel()

	d, host, sched := newTestDirector(t)
	sched.Advance(config.LevelIntroDelay)

	wave := d.Config().Waves[0]

	d.Update(time.Second)
	require.Empty(t, host.enemies, "the tick that starts the wave does not count")

	d.Update(wave.SpawnDelay - time.Millisecond)
	assert.Empty(t, host.enemies, "no spawn before a full delay")

	d.Update(time.Millisecond)
	assert.Len(t, host.enemies, 1)

	d.Update(wave.SpawnDelay - time.Millisecond)
	assert.Len(t, host.enemies, 1)

	d.Update(time.Millisecond)
	assert.Len(t, host.enemies, 2)

	for range 10 {
		d.Update(wave.SpawnDelay)
	}
	assert.Len(t, host.enemies, wave.Count, "never spawns past the wave count")

	for _, e := range host.enemies {
		assert.Equal(t, entity.EnemyFighter, e.t)
		assert.Equal(t, wave.EnemyHealth, e.health)
		assert.InDelta(t, config.EnemySpawnY, e.y, 1e-9)
		assert.GreaterOrEqual(t, e.x, float64(config.EnemySpawnMargin))
		assert.LessOrEqual(t, e.x, float64(config.PlayfieldWidth-config.EnemySpawnMargin))
	}
}

func TestDirector_WaveCompleteRequiresAllSpawnedAndNoneLive(t *testing.T) {
	t.Parallel()

	d, host, sched := newTestDirector(t)
	sched.Advance(config.LevelIntroDelay)

	d.Update(0)
	host.killAll()
	assert.False(t, d.WaveComplete(), "enemies still to spawn")

	spawnWave(t, d)
	assert.False(t, d.WaveComplete(), "enemies still live")
	assert.Equal(t, StateWaveActive, d.State())

	host.killAll()
	assert.True(t, d.WaveComplete())

	d.Update(0)
	assert.Equal(t, StateWaveIntermission, d.State())
	assert.False(t, d.WaveComplete())
}

func TestDirector_FullLevel(t *testing.T) {
	t.Parallel()

	d, host, sched := newTestDirector(t)
	sched.Advance(config.LevelIntroDelay)

	for i := range d.WaveCount() {
		require.Equal(t, i, d.CurrentWave())
		spawnWave(t, d)
		host.killAll()
		d.Update(0)
		if i < d.WaveCount()-1 {
			require.Equal(t, StateWaveIntermission, d.State())
			sched.Advance(config.WaveIntermissionDelay)
		}
	}

	require.Equal(t, StateBossWarning, d.State())
	assert.Equal(t, EventBossWarning, host.lastEvent().Kind)
	assert.Empty(t, host.bosses)
	assert.False(t, d.BossActive())

	sched.Advance(config.BossWarningDelay)
	require.Equal(t, []entity.BossType{entity.BossDestroyer}, host.bosses)
	assert.True(t, d.BossActive())

	d.OnBossDefeated()
	assert.Equal(t, StateLevelComplete, d.State())
	assert.Equal(t, 1600, host.score)
	assert.Equal(t, 1600, host.lastEvent().Bonus)

	// A second defeat notice is ignored.
	d.OnBossDefeated()
	assert.Equal(t, 1600, host.score)

	sched.Advance(config.LevelCompleteDelay)
	assert.Equal(t, 2, d.CurrentLevel())
	assert.Equal(t, StateLevelIntro, d.State())
	assert.InDelta(t, Multiplier(2), d.LevelMultiplier(), 1e-9)
}

func TestDirector_WaveIDsAreUnique(t *testing.T) {
	t.Parallel()

	d, host, sched := newTestDirector(t)
	sched.Advance(config.LevelIntroDelay)

	spawnWave(t, d)
	host.killAll()
	d.Update(0)
	sched.Advance(config.WaveIntermissionDelay)
	spawnWave(t, d)

	first := host.enemies[0].waveID
	last := host.enemies[len(host.enemies)-1].waveID
	assert.NotEqual(t, first, last)
}

func TestDirector_ResetAbandonsPendingTasks(t *testing.T) {
	t.Parallel()

	d, _, sched := newTestDirector(t)

	sched.Reset()
	sched.Advance(config.LevelIntroDelay)
	assert.Equal(t, StateLevelIntro, d.State(), "stale intro task must not start a wave")

	d.Load(1)
	sched.Advance(config.LevelIntroDelay)
	assert.Equal(t, StateWaveActive, d.State())
}

func TestDirector_OnBossDefeatedIgnoredOutsideEncounter(t *testing.T) {
	t.Parallel()

	d, host, _ := newTestDirector(t)

	d.OnBossDefeated()
	assert.Equal(t, StateLevelIntro, d.State())
	assert.Zero(t, host.score)
}
