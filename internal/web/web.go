// Package web serves the landing page, the current high score and a live
// websocket feed of the lobby.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/tomz197/space-shooter/internal/lobby"
)

//go:embed index.html
var indexPage string

const writeTimeout = 5 * time.Second

// HighScoreSource reports the best recorded score.
type HighScoreSource interface {
	Best() int
}

// Options configures a Handler.
type Options struct {
	SSHHost   string // Host shown in the connect command
	SSHPort   string
	HighScore HighScoreSource
	Lobby     *lobby.Lobby // Nil when the lobby lives in another process
	Logger    *log.Logger

	// Interval is how often feeds recheck the high score.
	Interval time.Duration
}

// Status is the body of /api/status and of every feed message.
type Status struct {
	HighScore int             `json:"highScore"`
	Lobby     *lobby.Snapshot `json:"lobby,omitempty"`
}

// Handler routes the web endpoints.
type Handler struct {
	opts   Options
	logger *log.Logger
	page   string
	mux    *http.ServeMux
}

// NewHandler builds the handler.
func NewHandler(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}

	h := &Handler{
		opts:   opts,
		logger: opts.Logger,
		page:   strings.ReplaceAll(indexPage, "{{.SSHCommand}}", SSHCommand(opts.SSHHost, opts.SSHPort)),
		mux:    http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /{$}", h.serveIndex)
	h.mux.HandleFunc("GET /api/status", h.serveStatus)
	h.mux.HandleFunc("GET /ws", h.serveFeed)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// SSHCommand returns the command players run to connect.
func SSHCommand(host, port string) string {
	if port == "" || port == "22" {
		return "ssh " + host
	}
	return "ssh -p " + port + " " + host
}

func (h *Handler) best() int {
	if h.opts.HighScore == nil {
		return 0
	}
	return h.opts.HighScore.Best()
}

func (h *Handler) status() Status {
	st := Status{HighScore: h.best()}
	if h.opts.Lobby != nil {
		st.Lobby = h.opts.Lobby.Snapshot()
	}
	return st
}

func (h *Handler) serveIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(h.page))
}

func (h *Handler) serveStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(h.status()); err != nil {
		h.logger.Debug("failed to write status", "err", err)
	}
}

// serveFeed pushes a Status whenever the lobby changes or the high score
// moves, until the client goes away.
func (h *Handler) serveFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to accept feed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.CloseNow()

	// The feed is one-way; CloseRead handles pings and the client's close.
	ctx := conn.CloseRead(r.Context())

	var updates <-chan *lobby.Snapshot
	if h.opts.Lobby != nil {
		ch, cancel := h.opts.Lobby.Subscribe()
		defer cancel()
		updates = ch
	}

	ticker := time.NewTicker(h.opts.Interval)
	defer ticker.Stop()

	send := func(st Status) bool {
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		defer cancel()
		if err := wsjson.Write(wctx, conn, st); err != nil {
			h.logger.Debug("feed closed", "remote", r.RemoteAddr, "err", err)
			return false
		}
		return true
	}

	// With a lobby the subscription delivers the first status.
	lastBest := h.best()
	if updates == nil && !send(Status{HighScore: lastBest}) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case snap := <-updates:
			lastBest = h.best()
			if !send(Status{HighScore: lastBest, Lobby: snap}) {
				return
			}
		case <-ticker.C:
			if h.best() == lastBest {
				continue
			}
			st := h.status()
			lastBest = st.HighScore
			if !send(st) {
				return
			}
		}
	}
}
