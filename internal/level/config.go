// Package level generates per-level configurations and directs wave, boss
// and level progression.
package level

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/tomz197/space-shooter/internal/entity"
	"github.com/tomz197/space-shooter/internal/loop/config"
)

// EnemyWave is a scheduled batch of same-type enemies.
type EnemyWave struct {
	EnemyType   entity.EnemyType
	Count       int
	SpawnDelay  time.Duration
	EnemyHealth int
	EnemySpeed  float64
}

// LevelConfig describes one level. It is immutable once generated.
type LevelConfig struct {
	Number          int
	Waves           []EnemyWave
	Boss            entity.BossType
	BossHealthScale float64
	Title           string
	BonusMultiplier float64
}

// HasBoss returns true if the level ends in a boss encounter.
func (c LevelConfig) HasBoss() bool {
	return c.Boss != ""
}

// laterWaveTypes are picked at random for every wave after the first.
var laterWaveTypes = []entity.EnemyType{entity.EnemyCruiser, entity.EnemyInterceptor, entity.EnemyBomber}

// Generate builds the configuration of level n (n >= 1). Difficulty grows
// with n and every curve is capped. rng only picks the archetype of later
// waves; nil uses the global source.
func Generate(n int, rng *rand.Rand) LevelConfig {
	n = max(n, 1)

	baseHealth := min(1+n/3, config.MaxEnemyHealth)
	baseSpeed := min(100+10*float64(n), config.MaxEnemySpeed)

	waves := make([]EnemyWave, 0, WaveCount(n))
	waves = append(waves, EnemyWave{
		EnemyType:   entity.EnemyFighter,
		Count:       min(3+n/2, config.MaxFirstWaveCount),
		SpawnDelay:  max(800*time.Millisecond-time.Duration(15*n)*time.Millisecond, config.MinFirstWaveDelay),
		EnemyHealth: baseHealth,
		EnemySpeed:  baseSpeed,
	})

	for len(waves) < WaveCount(n) {
		t := laterWaveTypes[intN(rng, len(laterWaveTypes))]

		health := baseHealth
		if t == entity.EnemyCruiser {
			health++
		}
		speed := baseSpeed
		if t == entity.EnemyInterceptor {
			speed += 50
		}

		waves = append(waves, EnemyWave{
			EnemyType:   t,
			Count:       min(2+n/3, config.MaxLaterWaveCount),
			SpawnDelay:  max(700*time.Millisecond-time.Duration(10*n)*time.Millisecond, config.MinLaterWaveDelay),
			EnemyHealth: health,
			EnemySpeed:  speed,
		})
	}

	return LevelConfig{
		Number:          n,
		Waves:           waves,
		Boss:            BossFor(n),
		BossHealthScale: BossHealthScale(n),
		Title:           fmt.Sprintf("Level %d", n),
		BonusMultiplier: Multiplier(n),
	}
}

// WaveCount returns how many regular waves level n has before its boss.
func WaveCount(n int) int {
	return min(2+(max(n, 1)-1)/3, config.MaxWavesPerLevel)
}

// Multiplier returns the score multiplier of level n.
func Multiplier(n int) float64 {
	return 1.5 + 0.1*float64(n)
}

// BossFor returns the boss of level n. Each boss type holds for a bucket of
// levels and the rotation cycles through all types.
func BossFor(n int) entity.BossType {
	bucket := (max(n, 1) - 1) / config.BossLevelsPerType
	return entity.BossTypes[bucket%len(entity.BossTypes)]
}

// BossHealthScale grows boss health each time the rotation starts over.
func BossHealthScale(n int) float64 {
	cycle := (max(n, 1) - 1) / config.BossCycleLevels
	return 1 + config.BossHealthCycleAdd*float64(cycle)
}

// ScaledPoints applies a level multiplier to a base award: floor(points × m).
func ScaledPoints(points int, multiplier float64) int {
	return int(math.Floor(float64(points) * multiplier))
}

func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}
