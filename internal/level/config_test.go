package level

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tomz197/space-shooter/internal/entity"
	"github.com/tomz197/space-shooter/internal/loop/config"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestGenerate_LevelOne(t *testing.T) {
	t.Parallel()

	cfg := Generate(1, testRand())

	assert.Equal(t, 1, cfg.Number)
	assert.Equal(t, "Level 1", cfg.Title)
	require.Len(t, cfg.Waves, 2)

	first := cfg.Waves[0]
	assert.Equal(t, entity.EnemyFighter, first.EnemyType)
	assert.Equal(t, 3, first.Count)
	assert.Equal(t, 785*time.Millisecond, first.SpawnDelay)
	assert.Equal(t, 1, first.EnemyHealth)
	assert.InDelta(t, 110.0, first.EnemySpeed, 1e-9)

	second := cfg.Waves[1]
	assert.Contains(t, laterWaveTypes, second.EnemyType)
	assert.Equal(t, 2, second.Count)
	assert.Equal(t, 690*time.Millisecond, second.SpawnDelay)

	assert.Equal(t, entity.BossDestroyer, cfg.Boss)
	assert.InDelta(t, 1.0, cfg.BossHealthScale, 1e-9)
	assert.InDelta(t, 1.6, cfg.BonusMultiplier, 1e-9)
}

func TestGenerate_LevelFiveHasOneBoss(t *testing.T) {
	t.Parallel()

	cfg := Generate(5, testRand())

	assert.True(t, cfg.HasBoss())
	assert.Equal(t, entity.BossInterceptor, cfg.Boss)
	assert.Len(t, cfg.Waves, 3)
}

func TestGenerate_LaterWaveAdjustments(t *testing.T) {
	t.Parallel()

	// Enough levels to see every later-wave archetype.
	rng := testRand()
	for n := 1; n <= 60; n++ {
		cfg := Generate(n, rng)
		base := cfg.Waves[0]
		for _, w := range cfg.Waves[1:] {
			switch w.EnemyType {
			case entity.EnemyCruiser:
				assert.Equal(t, base.EnemyHealth+1, w.EnemyHealth, "level %d", n)
				assert.InDelta(t, base.EnemySpeed, w.EnemySpeed, 1e-9, "level %d", n)
			case entity.EnemyInterceptor:
				assert.Equal(t, base.EnemyHealth, w.EnemyHealth, "level %d", n)
				assert.InDelta(t, base.EnemySpeed+50, w.EnemySpeed, 1e-9, "level %d", n)
			case entity.EnemyBomber:
				assert.Equal(t, base.EnemyHealth, w.EnemyHealth, "level %d", n)
				assert.InDelta(t, base.EnemySpeed, w.EnemySpeed, 1e-9, "level %d", n)
			default:
				t.Fatalf("level %d: unexpected later wave type %q", n, w.EnemyType)
			}
		}
	}
}

func TestBossRotation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level int
		boss  entity.BossType
		scale float64
	}{
		{1, entity.BossDestroyer, 1},
		{4, entity.BossDestroyer, 1},
		{5, entity.BossInterceptor, 1},
		{9, entity.BossMothership, 1},
		{13, entity.BossVoidCommander, 1},
		{16, entity.BossVoidCommander, 1},
		{17, entity.BossDestroyer, 1.5},
		{33, entity.BossDestroyer, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.boss, BossFor(tt.level), "level %d", tt.level)
		assert.InDelta(t, tt.scale, BossHealthScale(tt.level), 1e-9, "level %d", tt.level)
	}
}

func TestGenerate_CurvesCappedAndMonotonic(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 500).Draw(t, "level")
		a := Generate(n, testRand())
		b := Generate(n+1, testRand())

		require.True(t, a.HasBoss())
		require.LessOrEqual(t, len(a.Waves), config.MaxWavesPerLevel)
		require.LessOrEqual(t, len(a.Waves), len(b.Waves))

		fa, fb := a.Waves[0], b.Waves[0]
		require.LessOrEqual(t, fa.Count, config.MaxFirstWaveCount)
		require.LessOrEqual(t, fa.EnemyHealth, config.MaxEnemyHealth)
		require.LessOrEqual(t, fa.EnemySpeed, config.MaxEnemySpeed)
		require.GreaterOrEqual(t, fa.SpawnDelay, config.MinFirstWaveDelay)

		require.LessOrEqual(t, fa.Count, fb.Count)
		require.LessOrEqual(t, fa.EnemyHealth, fb.EnemyHealth)
		require.LessOrEqual(t, fa.EnemySpeed, fb.EnemySpeed)
		require.GreaterOrEqual(t, fa.SpawnDelay, fb.SpawnDelay)

		for _, w := range a.Waves[1:] {
			require.LessOrEqual(t, w.Count, config.MaxLaterWaveCount)
			require.GreaterOrEqual(t, w.SpawnDelay, config.MinLaterWaveDelay)
			require.LessOrEqual(t, w.EnemyHealth, config.MaxEnemyHealth+1)
			require.LessOrEqual(t, w.EnemySpeed, config.MaxEnemySpeed+50)
		}

		require.Less(t, a.BonusMultiplier, b.BonusMultiplier)
	})
}

func TestScaledPoints(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 16, ScaledPoints(10, Multiplier(1)))
	assert.Equal(t, 1600, ScaledPoints(1000, Multiplier(1)))
	assert.Equal(t, 37, ScaledPoints(25, 1.5))
	assert.Equal(t, 0, ScaledPoints(0, 3))
}
