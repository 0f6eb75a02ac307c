package persist

import (
	"context"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/tomz197/space-shooter/internal/loop/config"
)

// HighScore is the best score ever recorded. It is shared by every session
// of the process and is safe for concurrent use. The store may be shared
// with other processes; a write never lowers the stored value.
type HighScore struct {
	mu     sync.Mutex // Guards best; never held during store I/O
	best   int
	write  sync.Mutex // Serializes store writes
	store  Store
	key    string
	logger *log.Logger
}

// NewHighScore creates a keeper backed by store. Call Load to read the
// stored value.
func NewHighScore(store Store, logger *log.Logger) *HighScore {
	if logger == nil {
		logger = log.Default()
	}
	return &HighScore{
		store:  store,
		key:    config.HighScoreKey,
		logger: logger,
	}
}

// Load reads the stored high score. A missing, unreadable or malformed value
// counts as 0; the failure is logged and never returned.
func (h *HighScore) Load(ctx context.Context) int {
	best := 0
	raw, ok, err := h.store.Get(ctx, h.key)
	if err != nil {
		h.logger.Warn("failed to load high score", "err", err)
	} else if v, valid := parseScore(raw, ok); valid {
		best = v
	} else {
		h.logger.Warn("ignoring malformed high score", "value", raw)
	}

	h.mu.Lock()
	h.best = best
	h.mu.Unlock()
	return best
}

// Best returns the best known score.
func (h *HighScore) Best() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.best
}

// Update records score if it beats the stored best and returns true if it
// did. Scores at or below the cached best return without touching the
// store. A failed write is logged; the new best is still kept for this
// process.
func (h *HighScore) Update(ctx context.Context, score int) bool {
	if score <= h.Best() {
		return false
	}

	h.write.Lock()
	defer h.write.Unlock()

	current, raised, err := h.raise(ctx, score)
	if err != nil {
		h.logger.Warn("failed to store high score", "score", score, "err", err)
		return h.keep(score)
	}
	h.keep(current)
	return raised
}

// raise writes score unless the store already holds at least as much.
func (h *HighScore) raise(ctx context.Context, score int) (int, bool, error) {
	if r, ok := h.store.(Raiser); ok {
		return r.Raise(ctx, h.key, score)
	}

	raw, ok, err := h.store.Get(ctx, h.key)
	if err != nil {
		return 0, false, err
	}
	if cur, _ := parseScore(raw, ok); cur >= score {
		return cur, false, nil
	}
	if err := h.store.Set(ctx, h.key, strconv.Itoa(score)); err != nil {
		return 0, false, err
	}
	return score, true, nil
}

// keep raises the cached best to v and returns true if it did.
func (h *HighScore) keep(v int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if v <= h.best {
		return false
	}
	h.best = v
	return true
}
