package game

import (
	"github.com/tomz197/space-shooter/internal/entity"
	"github.com/tomz197/space-shooter/internal/level"
)

// EventType identifies a game event.
type EventType int

const (
	EventEnemyDestroyed EventType = iota
	EventBossPhase
	EventBossDefeated
	EventPlayerHit
	EventGameOver
	EventLevelStart
	EventWaveStart
	EventBossWarning
	EventBossSpawned
	EventLevelComplete
	EventNewHighScore
)

func (t EventType) String() string {
	switch t {
	case EventEnemyDestroyed:
		return "enemy-destroyed"
	case EventBossPhase:
		return "boss-phase"
	case EventBossDefeated:
		return "boss-defeated"
	case EventPlayerHit:
		return "player-hit"
	case EventGameOver:
		return "game-over"
	case EventLevelStart:
		return "level-start"
	case EventWaveStart:
		return "wave-start"
	case EventBossWarning:
		return "boss-warning"
	case EventBossSpawned:
		return "boss-spawned"
	case EventLevelComplete:
		return "level-complete"
	case EventNewHighScore:
		return "new-high-score"
	default:
		return "unknown"
	}
}

// Event is something the presentation layer may want to show, such as
// explosions or banners. Only the fields relevant to Type are set.
type Event struct {
	Type EventType

	X, Y   float64 // Where it happened
	Points int     // Score awarded (or level bonus)
	Level  int
	Wave   int // Zero-based
	Lives  int
	Score  int

	Enemy entity.EnemyType
	Boss  entity.BossType
	Phase int
}

// emit queues an event for the next Events call.
func (g *Game) emit(e Event) {
	g.events = append(g.events, e)
}

// Events drains and returns the queued events.
func (g *Game) Events() []Event {
	if len(g.events) == 0 {
		return nil
	}
	out := g.events
	g.events = nil
	return out
}

// LevelEvent turns director announcements into game events.
func (g *Game) LevelEvent(e level.Event) {
	ev := Event{Level: e.Level, Wave: e.Wave, Boss: e.Boss, Points: e.Bonus}
	switch e.Kind {
	case level.EventLevelStart:
		ev.Type = EventLevelStart
	case level.EventWaveStart:
		ev.Type = EventWaveStart
	case level.EventBossWarning:
		ev.Type = EventBossWarning
	case level.EventBossSpawned:
		ev.Type = EventBossSpawned
	case level.EventLevelComplete:
		ev.Type = EventLevelComplete
		g.logger.Info("level complete", "level", e.Level, "bonus", e.Bonus, "score", g.score)
	default:
		return
	}
	g.emit(ev)
}
