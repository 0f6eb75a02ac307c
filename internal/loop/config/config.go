// Package config centralizes all tunable game parameters.
package config

import "time"

// Playfield - the logical coordinate space used by every game object.
// Actual rendering scales to fit terminal size.
const (
	PlayfieldWidth  = 800
	PlayfieldHeight = 600
)

// DespawnMargin is how far past the playfield edge an object may travel before removal.
const DespawnMargin = 50.0

// Player
const (
	InitialLives           = 3
	PlayerSpeed            = 300.0 // Units per second
	PlayerSize             = 32.0
	PlayerFireRate         = 100 * time.Millisecond
	PlayerStartOffsetY     = 80.0 // Distance from the bottom edge at spawn
	PlayerMuzzleOffsetY    = 20.0
	PlayerInvulnerableTime = 1500 * time.Millisecond
	PlayerBlinkFrequency   = 10.0 // Hz
)

// Bullets
const (
	PlayerBulletSpeed  = 400.0
	HostileBulletSpeed = 250.0
	BulletWidth        = 8.0
	BulletHeight       = 16.0
)

// Enemies
const (
	EnemySpawnY      = -50.0
	EnemySpawnMargin = 50.0

	InterceptorSwayAmplitude = 120.0 // Horizontal units per second at peak
	InterceptorSwayFrequency = 1.2   // Hz

	CruiserFireInterval = 2200 * time.Millisecond
	BomberFireInterval  = 1600 * time.Millisecond
)

// Bosses
const (
	BossSpawnY              = -100.0
	BossAnchorY             = 140.0
	BossEntrySpeed          = 120.0
	BossPhaseTransitionTime = 800 * time.Millisecond
	BossSize                = 96.0
)

// Level pacing
const (
	LevelIntroDelay        = 2000 * time.Millisecond
	WaveIntermissionDelay  = 2000 * time.Millisecond
	BossWarningDelay       = 3000 * time.Millisecond
	LevelCompleteDelay     = 3000 * time.Millisecond
	LevelCompleteBaseBonus = 1000
)

// Difficulty curve caps
const (
	MaxWavesPerLevel   = 4
	MaxEnemyHealth     = 5
	MaxEnemySpeed      = 250.0
	MaxFirstWaveCount  = 8
	MaxLaterWaveCount  = 6
	MinFirstWaveDelay  = 400 * time.Millisecond
	MinLaterWaveDelay  = 350 * time.Millisecond
	BossCycleLevels    = 16 // Levels before the boss rotation repeats
	BossLevelsPerType  = 4
	BossHealthCycleAdd = 0.5
)

// Persistence
const (
	HighScoreKey = "highScore"
)

// Lobby
const (
	LobbyTopScores = 5
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 160
	MaxTermHeight         = 60
)

// Presentation
const (
	HUDRows                = 2
	MaxFrameDelta          = 100 * time.Millisecond // Longer stalls are not simulated
	WaveBannerTime         = 1500 * time.Millisecond
	HighScoreBannerTime    = 2000 * time.Millisecond
	ExplosionParticles     = 12
	BossExplosionParticles = 48
	ExplosionSpeed         = 140.0
	ExplosionLifetime      = 700 * time.Millisecond
	MaxParticles           = 400
	ShutdownDisplayTime    = 3 * time.Second
	PopupTime              = 800 * time.Millisecond
	PopupRiseSpeed         = 40.0 // Units per second
	MaxPopups              = 24
	StarCount              = 40
	StarMinSpeed           = 15.0
	StarMaxSpeed           = 60.0
)

// Inactivity
const (
	InactivityWarnUser       = 90 * time.Second
	InactivityDisconnectUser = 120 * time.Second
)
