package loop

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/space-shooter/internal/draw"
	"github.com/tomz197/space-shooter/internal/entity"
	"github.com/tomz197/space-shooter/internal/game"
	"github.com/tomz197/space-shooter/internal/loop/config"
)

// banner is a timed line of text over the playfield.
type banner struct {
	text string
	ink  draw.Ink
	left time.Duration
}

func (b *banner) show(text string, ink draw.Ink, d time.Duration) {
	b.text = text
	b.ink = ink
	b.left = d
}

func (b *banner) visible() bool {
	return b.left > 0 && b.text != ""
}

// popup is a score label rising from where points were earned.
type popup struct {
	x, y float64
	text string
	left time.Duration
}

// effects holds the purely visual state derived from game events.
type effects struct {
	particles []*entity.Particle
	popups    []popup
	banner    banner // Level progression
	notice    banner // Secondary line (high score, boss phases)
}

func (e *effects) reset() {
	for _, p := range e.particles {
		p.Release()
	}
	clear(e.particles)
	e.particles = e.particles[:0]
	e.popups = e.popups[:0]
	e.banner = banner{}
	e.notice = banner{}
}

func (e *effects) update(delta time.Duration) {
	kept := e.particles[:0]
	for _, p := range e.particles {
		if p.Update(delta) {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(e.particles[len(kept):])
	e.particles = kept

	popups := e.popups[:0]
	for _, p := range e.popups {
		p.left -= delta
		if p.left <= 0 {
			continue
		}
		p.y -= config.PopupRiseSpeed * delta.Seconds()
		popups = append(popups, p)
	}
	e.popups = popups

	e.banner.left -= delta
	e.notice.left -= delta
}

func (e *effects) explode(x, y float64, count int) {
	entity.SpawnExplosion(x, y, count, config.ExplosionSpeed, config.ExplosionLifetime, func(p *entity.Particle) {
		if len(e.particles) >= config.MaxParticles {
			p.Release()
			return
		}
		e.particles = append(e.particles, p)
	})
}

func (e *effects) addPopup(x, y float64, points int) {
	if points <= 0 || len(e.popups) >= config.MaxPopups {
		return
	}
	e.popups = append(e.popups, popup{x: x, y: y, text: fmt.Sprintf("+%d", points), left: config.PopupTime})
}

// handleEvents turns game events into explosions and banners.
func (s *Session) handleEvents(events []game.Event) {
	for _, ev := range events {
		switch ev.Type {
		case game.EventEnemyDestroyed:
			s.effects.explode(ev.X, ev.Y, config.ExplosionParticles)
			s.effects.addPopup(ev.X, ev.Y, ev.Points)
		case game.EventPlayerHit:
			s.effects.explode(ev.X, ev.Y, config.ExplosionParticles/2)
		case game.EventBossPhase:
			s.effects.explode(ev.X, ev.Y, config.ExplosionParticles)
			s.effects.notice.show(fmt.Sprintf("PHASE %d", ev.Phase), draw.InkBoss, config.WaveBannerTime)
		case game.EventBossDefeated:
			s.effects.explode(ev.X, ev.Y, config.BossExplosionParticles)
			s.effects.addPopup(ev.X, ev.Y, ev.Points)
			s.effects.notice.show(fmt.Sprintf("%s DEFEATED  +%d", bossName(ev.Boss), ev.Points), draw.InkBoss, config.LevelCompleteDelay)
		case game.EventGameOver:
			if p := s.game.Player(); p != nil {
				s.effects.explode(p.Body.X, p.Body.Y, config.BossExplosionParticles)
			}
			s.logger.Info("session game over", "user", s.opts.Username, "score", ev.Score, "level", ev.Level)
		case game.EventLevelStart:
			s.effects.banner.show(fmt.Sprintf("LEVEL %d", ev.Level), draw.InkPlayer, config.LevelIntroDelay)
		case game.EventWaveStart:
			s.effects.banner.show(fmt.Sprintf("WAVE %d", ev.Wave+1), draw.InkPlayer, config.WaveBannerTime)
		case game.EventBossWarning:
			s.effects.banner.show(fmt.Sprintf("WARNING: %s APPROACHING", bossName(ev.Boss)), draw.InkEnemy, config.BossWarningDelay)
		case game.EventLevelComplete:
			s.effects.banner.show(fmt.Sprintf("LEVEL %d COMPLETE  +%d", ev.Level, ev.Points), draw.InkPlayerBullet, config.LevelCompleteDelay)
		case game.EventNewHighScore:
			s.effects.notice.show("NEW HIGH SCORE!", draw.InkPlayerBullet, config.HighScoreBannerTime)
		}
	}
}

func bossName(t entity.BossType) string {
	if t == entity.BossVoidCommander {
		return "VOID COMMANDER"
	}
	return strings.ToUpper(string(t))
}
