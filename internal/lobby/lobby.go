// Package lobby tracks the pilots connected to a shared server and their
// live scores. Sessions play independently; the lobby is the only state
// they share besides the high score.
package lobby

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/space-shooter/internal/loop/config"
)

// ScoreEntry is a single line of the live leaderboard.
type ScoreEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	Level    int    `json:"level"`
	seq      uint64 // Join order, for a deterministic tie-break
}

// Snapshot is an immutable view of the lobby.
type Snapshot struct {
	Pilots  int          `json:"pilots"`
	Top     []ScoreEntry `json:"top"`
	Updated time.Time    `json:"updated"`
}

// Handle is a registered pilot's connection to the lobby.
type Handle struct {
	ID       uuid.UUID
	Username string
	lobby    *Lobby
}

// Report publishes the pilot's current score and level.
func (h *Handle) Report(score, level int) {
	h.lobby.Report(h.ID, score, level)
}

// Snapshot returns the latest view of the lobby the pilot belongs to.
func (h *Handle) Snapshot() *Snapshot {
	return h.lobby.Snapshot()
}

// Leave removes the pilot from the lobby.
func (h *Handle) Leave() {
	h.lobby.Unregister(h.ID)
}

type pilot struct {
	username string
	score    int
	level    int
	seq      uint64
}

// Lobby is safe for concurrent use by every session.
type Lobby struct {
	mu       sync.Mutex
	pilots   map[uuid.UUID]*pilot
	nextSeq  uint64
	snapshot atomic.Pointer[Snapshot]
	subs     map[chan *Snapshot]struct{}
	logger   *log.Logger
	now      func() time.Time
}

// New creates an empty lobby. logger may be nil.
func New(logger *log.Logger) *Lobby {
	if logger == nil {
		logger = log.Default()
	}
	l := &Lobby{
		pilots: make(map[uuid.UUID]*pilot),
		subs:   make(map[chan *Snapshot]struct{}),
		logger: logger,
		now:    time.Now,
	}
	l.snapshot.Store(&Snapshot{Top: []ScoreEntry{}, Updated: l.now()})
	return l
}

// Register adds a pilot and returns its handle.
func (l *Lobby) Register(username string) *Handle {
	id := uuid.New()

	l.mu.Lock()
	l.nextSeq++
	l.pilots[id] = &pilot{username: username, seq: l.nextSeq}
	l.publishLocked()
	l.mu.Unlock()

	l.logger.Info("pilot joined", "user", username, "id", id)
	return &Handle{ID: id, Username: username, lobby: l}
}

// Unregister removes a pilot. Unknown ids are ignored.
func (l *Lobby) Unregister(id uuid.UUID) {
	l.mu.Lock()
	p, ok := l.pilots[id]
	if ok {
		delete(l.pilots, id)
		l.publishLocked()
	}
	l.mu.Unlock()

	if ok {
		l.logger.Info("pilot left", "user", p.username, "id", id, "score", p.score)
	}
}

// Report updates a pilot's live score and level. Unchanged values do not
// publish a new snapshot.
func (l *Lobby) Report(id uuid.UUID, score, level int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.pilots[id]
	if !ok || (p.score == score && p.level == level) {
		return
	}
	p.score = score
	p.level = level
	l.publishLocked()
}

// Snapshot returns the latest lobby view.
func (l *Lobby) Snapshot() *Snapshot {
	return l.snapshot.Load()
}

// Subscribe returns a channel that first receives the current snapshot, then
// the latest one after every change, and a cancel func. Slow readers only
// miss intermediate snapshots.
func (l *Lobby) Subscribe() (<-chan *Snapshot, func()) {
	ch := make(chan *Snapshot, 1)

	// Publishing holds mu, so no snapshot can slip between these two steps.
	l.mu.Lock()
	l.subs[ch] = struct{}{}
	ch <- l.snapshot.Load()
	l.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, ch)
			l.mu.Unlock()
		})
	}
}

// publishLocked rebuilds the snapshot and notifies subscribers. Must be
// called with l.mu held.
func (l *Lobby) publishLocked() {
	entries := make([]ScoreEntry, 0, len(l.pilots))
	for _, p := range l.pilots {
		if p.score > 0 {
			entries = append(entries, ScoreEntry{Username: p.username, Score: p.score, Level: p.level, seq: p.seq})
		}
	}
	slices.SortFunc(entries, func(a, b ScoreEntry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	if len(entries) > config.LobbyTopScores {
		entries = entries[:config.LobbyTopScores]
	}

	snap := &Snapshot{
		Pilots:  len(l.pilots),
		Top:     entries,
		Updated: l.now(),
	}
	l.snapshot.Store(snap)

	for ch := range l.subs {
		// Replace any unread snapshot with the latest one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
