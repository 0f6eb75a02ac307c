// Package loop runs one terminal session: it reads keys, advances the game
// and draws the frame, switching between the menu, play and game over screens.
package loop

import (
	"bufio"
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/space-shooter/internal/draw"
	"github.com/tomz197/space-shooter/internal/game"
	"github.com/tomz197/space-shooter/internal/input"
	"github.com/tomz197/space-shooter/internal/lobby"
	"github.com/tomz197/space-shooter/internal/loop/config"
)

// Screen is the view a session is showing.
type Screen int

const (
	ScreenMenu     Screen = iota // Title screen with the high score
	ScreenPlaying                // Active gameplay
	ScreenGameOver               // Final score, restart prompt
	ScreenShutdown               // Server is shutting down
)

// Options configures a session.
type Options struct {
	Context      context.Context // Cancelled when the server shuts down
	TermSizeFunc draw.TermSizeFunc
	HighScore    game.HighScoreKeeper
	Lobby        *lobby.Handle // Nil for local play
	Logger       *log.Logger
	Username     string
	Rand         *rand.Rand

	// DisconnectIdle ends sessions that send no keys for too long.
	DisconnectIdle bool
}

// Session is the presentation state of one connection.
type Session struct {
	opts   Options
	ctx    context.Context
	logger *log.Logger

	screen       Screen
	running      bool
	game         *game.Game
	snap         game.Snapshot
	clock        time.Duration // Session clock handed to the game
	uptime       time.Duration // Drives blinking prompts
	idle         time.Duration
	inactive     bool
	shutdownLeft time.Duration
	effects      effects
	stars        starfield

	stream *input.Stream
	canvas *draw.Canvas
	cw     *draw.ChunkWriter
	layout draw.Layout
}

// NewSession creates a session on the menu screen.
func NewSession(opts Options) *Session {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	return &Session{
		opts:    opts,
		ctx:     opts.Context,
		logger:  opts.Logger,
		screen:  ScreenMenu,
		running: true,
		stars:   newStarfield(opts.Rand, config.StarCount),
	}
}

// Run starts a session and blocks until the player quits, goes idle or the
// context is cancelled.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	return NewSession(opts).Run(r, w)
}

// Run drives the Input → Update → Draw cycle at the target frame rate.
func (s *Session) Run(r *bufio.Reader, w io.Writer) error {
	s.stream = input.StartStream(r)
	s.attach(w)

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	draw.ClearScreen(w)

	lastTime := time.Now()
	for s.running {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		s.Update(input.ReadInput(s.stream), delta)
		if s.stream.Closed() {
			s.logger.Debug("input closed", "user", s.opts.Username)
			break
		}
		s.resize()

		if err := s.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(w)
	return nil
}

// attach sets up the canvas and frame writer for w.
func (s *Session) attach(w io.Writer) {
	s.canvas = draw.NewCanvas(1, 1, config.PlayfieldWidth, config.PlayfieldHeight)
	s.cw = draw.NewChunkWriter(w, 0, 0)
	s.resize()
}

// resize fits the canvas to the terminal, capped at the max render size.
func (s *Session) resize() {
	termWidth, termHeight, err := s.opts.TermSizeFunc()
	if err != nil {
		return
	}
	layout := fitTerminal(termWidth, termHeight)
	if layout == s.layout {
		return
	}
	s.layout = layout
	s.canvas.Resize(layout.Cols, layout.Rows)
	s.canvas.SetOffset(layout.OffCol, layout.OffRow)
	s.cw.SetOffset(layout.OffCol, layout.OffRow)
}

func fitTerminal(termWidth, termHeight int) draw.Layout {
	layout := draw.Fit(
		min(termWidth, config.MaxTermWidth),
		min(termHeight, config.MaxTermHeight),
		config.HUDRows,
		config.PlayfieldWidth,
		config.PlayfieldHeight,
	)
	layout.OffCol = max((termWidth-layout.Cols)/2, 1)
	return layout
}

// Update applies one frame of input and advances the current screen.
func (s *Session) Update(in input.Input, delta time.Duration) {
	s.trackActivity(in, delta)
	s.checkShutdown()

	if in.Quit {
		s.running = false
		return
	}

	delta = min(delta, config.MaxFrameDelta)
	s.uptime += delta
	s.stars.update(delta)

	switch s.screen {
	case ScreenMenu:
		if in.Start {
			s.startGame()
		}
	case ScreenPlaying:
		s.updatePlaying(in, delta)
	case ScreenGameOver:
		s.effects.update(delta)
		if in.Restart {
			s.startGame()
		}
	case ScreenShutdown:
		s.effects.update(delta)
		s.shutdownLeft -= delta
		if s.shutdownLeft <= 0 {
			s.running = false
		}
	}
}

// trackActivity raises the inactivity warning and ends idle sessions.
func (s *Session) trackActivity(in input.Input, delta time.Duration) {
	if len(in.Pressed) > 0 {
		s.idle = 0
		s.inactive = false
		return
	}
	if !s.opts.DisconnectIdle {
		return
	}

	s.idle += delta
	switch {
	case s.idle > config.InactivityDisconnectUser:
		s.logger.Info("disconnecting idle pilot", "user", s.opts.Username)
		s.running = false
	case s.idle > config.InactivityWarnUser:
		s.inactive = true
	}
}

func (s *Session) checkShutdown() {
	if s.screen == ScreenShutdown {
		return
	}
	select {
	case <-s.ctx.Done():
		s.screen = ScreenShutdown
		s.shutdownLeft = config.ShutdownDisplayTime
	default:
	}
}

// startGame starts the first game or restarts the finished one.
func (s *Session) startGame() {
	s.resetInput()

	if s.game == nil {
		s.game = game.New(game.Options{
			Context:   s.ctx,
			Logger:    s.logger,
			HighScore: s.opts.HighScore,
			Rand:      s.opts.Rand,
		})
	} else {
		s.game.Restart()
	}

	s.clock = 0
	s.effects.reset()
	s.handleEvents(s.game.Events())
	s.snap = s.game.Snapshot()
	s.screen = ScreenPlaying
	s.logger.Debug("game started", "user", s.opts.Username)
}

func (s *Session) updatePlaying(in input.Input, delta time.Duration) {
	s.clock += delta
	s.game.Tick(s.clock, delta, in)
	s.handleEvents(s.game.Events())
	s.effects.update(delta)
	s.snap = s.game.Snapshot()

	if s.opts.Lobby != nil {
		s.opts.Lobby.Report(s.snap.Score, s.snap.Level)
	}

	if s.snap.GameOver {
		s.resetInput()
		s.screen = ScreenGameOver
	}
}

// resetInput forgets held keys so the key that switched screens does not
// act on the next one.
func (s *Session) resetInput() {
	if s.stream != nil {
		s.stream.Reset()
	}
}

// Screen returns the screen being shown.
func (s *Session) Screen() Screen { return s.screen }

// Running returns false once the session should end.
func (s *Session) Running() bool { return s.running }
