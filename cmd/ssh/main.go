package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/space-shooter/internal/config"
	"github.com/tomz197/space-shooter/internal/draw"
	"github.com/tomz197/space-shooter/internal/lobby"
	"github.com/tomz197/space-shooter/internal/loop"
	"github.com/tomz197/space-shooter/internal/persist"
	"github.com/tomz197/space-shooter/internal/web"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	logger := cfg.Log.NewLogger(os.Stderr, "ssh")

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// app holds the state shared by every session.
type app struct {
	highScore *persist.HighScore
	lobby     *lobby.Lobby
	logger    *log.Logger

	// sessionsCtx is cancelled on shutdown so sessions show the notice.
	sessionsCtx  context.Context
	stopSessions context.CancelFunc

	mu       sync.Mutex // Guards closing and sessions.Add
	closing  bool
	sessions sync.WaitGroup
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workingDir, err := os.Getwd()
	if err != nil {
		logger.Warn("failed to get working directory", "err", err)
	}
	logger.Info("ssh config", "host", cfg.SSH.Host, "port", cfg.SSH.Port, "hostKeyPath", cfg.SSH.HostKeyPath, "workingDir", workingDir)

	store, err := persist.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	sessionsCtx, endSessions := context.WithCancel(context.Background())
	defer endSessions()

	a := &app{
		highScore:    persist.NewHighScore(store, logger),
		lobby:        lobby.New(logger),
		logger:       logger,
		sessionsCtx:  sessionsCtx,
		stopSessions: endSessions,
	}
	logger.Info("high score loaded", "best", a.highScore.Load(ctx))

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port)),
		wish.WithMiddleware(
			a.gameMiddleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.SSH.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSH.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting ssh server", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	})

	var httpServer *http.Server
	if cfg.Web.Embedded {
		httpServer = &http.Server{
			Addr: net.JoinHostPort(cfg.Web.Host, cfg.Web.Port),
			Handler: web.NewHandler(web.Options{
				SSHHost:   cfg.Web.DisplayHost,
				SSHPort:   cfg.SSH.Port,
				HighScore: a.highScore,
				Lobby:     a.lobby,
				Logger:    logger.WithPrefix("web"),
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info("starting web server", "addr", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("web server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		// Notify connected players and give them time to leave.
		a.closeSessions()
		a.waitSessions(cfg.SSH.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if httpServer != nil {
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("web shutdown error", "err", err)
			}
		}
		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// beginSession counts a new session. It returns false once shutdown has
// started, so no session is added while waitSessions runs.
func (a *app) beginSession() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closing {
		return false
	}
	a.sessions.Add(1)
	return true
}

// closeSessions refuses new sessions and tells running ones to show the
// shutdown notice.
func (a *app) closeSessions() {
	a.mu.Lock()
	a.closing = true
	a.mu.Unlock()
	a.stopSessions()
}

// waitSessions waits for running sessions to end, at most timeout.
func (a *app) waitSessions(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		a.sessions.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("all sessions ended")
	case <-time.After(timeout):
		a.logger.Warn("sessions still running after shutdown timeout", "timeout", timeout)
	}
}

// gameMiddleware runs one game per SSH session.
func (a *app) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		if !a.beginSession() {
			fmt.Fprintln(sess, "Server is shutting down. Please try again later.")
			return
		}
		defer a.sessions.Done()

		logger := a.logger.With("user", sess.User())
		logger.Info("new game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		handle := a.lobby.Register(sess.User())
		defer handle.Leave()

		err := loop.Run(bufio.NewReader(sess), sess, loop.Options{
			Context:        a.sessionsCtx,
			TermSizeFunc:   sizeTracker.getSize,
			HighScore:      a.highScore,
			Lobby:          handle,
			Logger:         logger,
			Username:       sess.User(),
			DisconnectIdle: true,
		})
		if err != nil {
			logger.Error("game error", "err", err)
		}

		logger.Info("session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
