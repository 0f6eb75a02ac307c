package loop

import (
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/space-shooter/internal/draw"
	"github.com/tomz197/space-shooter/internal/game"
	"github.com/tomz197/space-shooter/internal/input"
	"github.com/tomz197/space-shooter/internal/level"
	"github.com/tomz197/space-shooter/internal/lobby"
	"github.com/tomz197/space-shooter/internal/loop/config"
	"github.com/tomz197/space-shooter/internal/persist"
)

const frame = 16 * time.Millisecond

var (
	noKeys  = input.Input{}
	start   = input.Input{Start: true, Pressed: []byte{'\r'}}
	restart = input.Input{Restart: true, Pressed: []byte{'r'}}
	quit    = input.Input{Quit: true, Pressed: []byte{'q'}}
)

func newTestSession(t *testing.T, opts Options) (*Session, *bytes.Buffer) {
	t.Helper()
	logger := log.New(io.Discard)
	if opts.Logger == nil {
		opts.Logger = logger
	}
	if opts.HighScore == nil {
		opts.HighScore = persist.NewHighScore(persist.NewMemoryStore(), logger)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(1, 2))
	}
	opts.TermSizeFunc = func() (int, int, error) { return 120, 50, nil }

	s := NewSession(opts)
	var buf bytes.Buffer
	s.attach(&buf)
	return s, &buf
}

func render(t *testing.T, s *Session, buf *bytes.Buffer) string {
	t.Helper()
	buf.Reset()
	require.NoError(t, s.drawFrame())
	return buf.String()
}

func TestMenuStartsGame(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	assert.Equal(t, ScreenMenu, s.Screen())

	s.Update(noKeys, frame)
	assert.Equal(t, ScreenMenu, s.Screen())

	s.Update(start, frame)
	require.Equal(t, ScreenPlaying, s.Screen())
	require.NotNil(t, s.game)
	assert.Equal(t, "LEVEL 1", s.effects.banner.text)
	assert.Equal(t, 1, s.snap.Level)
}

func TestQuit(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.Update(quit, frame)
	assert.False(t, s.Running())
}

func TestGameOverAndRestart(t *testing.T) {
	s, buf := newTestSession(t, Options{})
	s.Update(start, frame)

	s.game.AddScore(120)
	for range config.InitialLives {
		s.game.DamagePlayer()
	}
	s.Update(noKeys, frame)
	require.Equal(t, ScreenGameOver, s.Screen())
	assert.True(t, s.snap.NewHighScore)
	assert.Equal(t, 120, s.snap.Score)

	out := render(t, s, buf)
	assert.Contains(t, out, "Score: 120")
	assert.Contains(t, out, "NEW HIGH SCORE")
	assert.Contains(t, out, "Level reached: 1")

	// Keys other than restart keep the final screen.
	s.Update(start, frame)
	assert.Equal(t, ScreenGameOver, s.Screen())

	s.Update(restart, frame)
	require.Equal(t, ScreenPlaying, s.Screen())
	assert.Zero(t, s.game.Score())
	assert.Equal(t, config.InitialLives, s.game.Lives())
	assert.Equal(t, 120, s.snap.HighScore, "high score survives the restart")
}

func TestLobbyReports(t *testing.T) {
	l := lobby.New(log.New(io.Discard))
	h := l.Register("alice")

	s, buf := newTestSession(t, Options{Lobby: h, Username: "alice"})
	assert.Contains(t, render(t, s, buf), "Pilots online: 1")

	s.Update(start, frame)
	s.game.AddScore(40)
	s.Update(noKeys, frame)

	top := l.Snapshot().Top
	require.Len(t, top, 1)
	assert.Equal(t, "alice", top[0].Username)
	assert.Equal(t, 40, top[0].Score)
	assert.Equal(t, 1, top[0].Level)
}

func TestIdleSessionsDisconnect(t *testing.T) {
	s, buf := newTestSession(t, Options{DisconnectIdle: true})

	idle := func(d time.Duration) {
		for elapsed := time.Duration(0); elapsed < d; elapsed += time.Second {
			s.Update(noKeys, time.Second)
		}
	}

	idle(config.InactivityWarnUser + time.Second)
	assert.True(t, s.inactive)
	assert.True(t, s.Running())
	assert.Contains(t, render(t, s, buf), "INACTIVITY WARNING")

	s.Update(input.Input{Pressed: []byte{'x'}}, frame)
	assert.False(t, s.inactive)

	idle(config.InactivityDisconnectUser + time.Second)
	assert.False(t, s.Running())
}

func TestLocalSessionsNeverIdleOut(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	for range int((config.InactivityDisconnectUser + time.Minute) / time.Second) {
		s.Update(noKeys, time.Second)
	}
	assert.True(t, s.Running())
	assert.False(t, s.inactive)
}

func TestShutdownScreen(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, buf := newTestSession(t, Options{Context: ctx})
	s.Update(start, frame)

	cancel()
	s.Update(noKeys, frame)
	require.Equal(t, ScreenShutdown, s.Screen())
	assert.Contains(t, render(t, s, buf), "SERVER SHUTTING DOWN")

	for i := 0; s.Running() && i < 1000; i++ {
		s.Update(noKeys, config.MaxFrameDelta)
	}
	assert.False(t, s.Running())
}

func TestDrawMenu(t *testing.T) {
	s, buf := newTestSession(t, Options{})
	out := render(t, s, buf)

	assert.True(t, len(out) > 0)
	assert.Contains(t, out, "\033[H\033[2J")
	assert.Contains(t, out, "High score: 0")
	assert.Contains(t, out, titleArt[1])
	assert.Contains(t, out, "Press ENTER or SPACE")
	assert.NotContains(t, out, "Pilots online", "local play has no lobby")
}

func TestDrawPlaying(t *testing.T) {
	s, buf := newTestSession(t, Options{})
	s.Update(start, frame)

	for elapsed := time.Duration(0); elapsed < 4*time.Second; elapsed += 50 * time.Millisecond {
		s.Update(noKeys, 50*time.Millisecond)
	}
	require.Equal(t, level.StateWaveActive, s.snap.Progress)
	require.NotEmpty(t, s.game.Enemies())

	out := render(t, s, buf)
	assert.Contains(t, out, "Score: 0")
	assert.Contains(t, out, "Level 1  x1.6  Wave 1/2")
	assert.Contains(t, out, "Lives: ♥♥♥")
	assert.Contains(t, out, string(draw.BlockFull))
	assert.Contains(t, out, draw.Color(draw.InkEnemy)+string(draw.BlockFull), "enemies are on screen")
}

func TestEventsDriveEffects(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.Update(start, frame)

	s.handleEvents([]game.Event{
		{Type: game.EventEnemyDestroyed, X: 100, Y: 100},
		{Type: game.EventBossWarning, Boss: "voidcommander"},
		{Type: game.EventNewHighScore, Score: 10},
	})
	assert.Len(t, s.effects.particles, config.ExplosionParticles)
	assert.Equal(t, "WARNING: VOID COMMANDER APPROACHING", s.effects.banner.text)
	assert.Equal(t, "NEW HIGH SCORE!", s.effects.notice.text)

	s.effects.update(config.BossWarningDelay + config.ExplosionLifetime)
	assert.Empty(t, s.effects.particles)
	assert.False(t, s.effects.banner.visible())
	assert.False(t, s.effects.notice.visible())
}

func TestProgressText(t *testing.T) {
	tests := []struct {
		snap game.Snapshot
		want string
	}{
		{game.Snapshot{Progress: level.StateLevelIntro, WaveCount: 3}, "Wave 1/3"},
		{game.Snapshot{Progress: level.StateWaveActive, Wave: 2, WaveCount: 3}, "Wave 3/3"},
		{game.Snapshot{Progress: level.StateWaveActive, Wave: 0, WaveCount: 3, Incoming: 4}, "Wave 1/3  +4 incoming"},
		{game.Snapshot{Progress: level.StateLevelIntro, WaveCount: 3, Incoming: 4}, "Wave 1/3"},
		{game.Snapshot{Progress: level.StateBossWarning, Wave: 2, WaveCount: 3}, "BOSS!"},
		{game.Snapshot{Progress: level.StateBossActive}, "BOSS!"},
		{game.Snapshot{Progress: level.StateLevelComplete}, "CLEAR"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, progressText(tt.snap), tt.snap.Progress.String())
	}
}

func TestScorePopupsRiseAndExpire(t *testing.T) {
	s, buf := newTestSession(t, Options{})
	s.Update(start, frame)

	s.handleEvents([]game.Event{
		{Type: game.EventEnemyDestroyed, X: 200, Y: 150, Points: 16},
		{Type: game.EventEnemyDestroyed, X: 0, Y: 150, Points: 0},
	})
	require.Len(t, s.effects.popups, 1, "no popup without points")

	out := render(t, s, buf)
	assert.Contains(t, out, draw.Color(draw.InkPlayerBullet)+"+16"+draw.Reset)

	y := s.effects.popups[0].y
	s.effects.update(config.PopupTime / 2)
	require.Len(t, s.effects.popups, 1)
	assert.Less(t, s.effects.popups[0].y, y)

	s.effects.update(config.PopupTime)
	assert.Empty(t, s.effects.popups)
	assert.NotContains(t, render(t, s, buf), "+16")
}

func TestScorePopupStaysInsidePlayfield(t *testing.T) {
	s, buf := newTestSession(t, Options{})
	s.Update(start, frame)

	s.handleEvents([]game.Event{{Type: game.EventEnemyDestroyed, X: config.PlayfieldWidth - 1, Y: 100, Points: 12345}})
	out := render(t, s, buf)

	col := s.canvas.TerminalWidth() - len("+12345") + 1
	_, row := s.canvas.LogicalToTerminal(config.PlayfieldWidth-1, 100)
	var want bytes.Buffer
	cw := draw.NewChunkWriter(&want, s.layout.OffCol, s.layout.OffRow)
	cw.WriteAt(col, row, draw.Color(draw.InkPlayerBullet)+"+12345"+draw.Reset)
	require.NoError(t, cw.Flush())
	assert.Contains(t, out, want.String())
}

func TestStarfieldScrollsAndWraps(t *testing.T) {
	f := newStarfield(rand.New(rand.NewPCG(3, 4)), config.StarCount)
	require.Len(t, f, config.StarCount)

	before := make(starfield, len(f))
	copy(before, f)
	f.update(100 * time.Millisecond)
	for i, st := range f {
		assert.GreaterOrEqual(t, st.y, 0.0)
		assert.Less(t, st.y, float64(config.PlayfieldHeight))
		assert.Equal(t, before[i].x, st.x)
		moved := st.y - before[i].y
		if moved < 0 {
			moved += config.PlayfieldHeight
		}
		assert.InDelta(t, before[i].speed*0.1, moved, 1e-9)
	}

	f[0].y = config.PlayfieldHeight - 1
	f[0].speed = config.StarMaxSpeed
	f.update(time.Second)
	assert.InDelta(t, config.StarMaxSpeed-1, f[0].y, 1e-9, "wraps to the top")
}

func TestStarfieldDrawnOnMenu(t *testing.T) {
	s, buf := newTestSession(t, Options{})
	out := render(t, s, buf)
	assert.Contains(t, out, draw.Color(draw.InkDim))
}

func TestHealthBar(t *testing.T) {
	assert.Equal(t, "██████████", healthBar(50, 50, 10))
	assert.Equal(t, "█████░░░░░", healthBar(25, 50, 10))
	assert.Equal(t, "█░░░░░░░░░", healthBar(1, 50, 10))
	assert.Equal(t, "░░░░░░░░░░", healthBar(0, 50, 10))
	assert.Equal(t, "░░░░", healthBar(3, 0, 4))
}

func TestFitTerminalCapsRenderSize(t *testing.T) {
	layout := fitTerminal(400, 200)
	assert.LessOrEqual(t, layout.Cols, config.MaxTermWidth)
	assert.LessOrEqual(t, layout.Rows, config.MaxTermHeight)
	assert.Equal(t, (400-layout.Cols)/2, layout.OffCol)
}
