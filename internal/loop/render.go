package loop

import (
	"time"

	"github.com/tomz197/space-shooter/internal/draw"
	"github.com/tomz197/space-shooter/internal/entity"
	"github.com/tomz197/space-shooter/internal/loop/config"
	"github.com/tomz197/space-shooter/internal/physics"
)

// drawFrame draws the current frame and flushes it.
func (s *Session) drawFrame() error {
	s.cw.WriteString("\033[H\033[2J")
	s.canvas.Clear()

	s.stars.draw(s.canvas)
	if s.game != nil && s.screen != ScreenMenu {
		s.drawWorld()
	}
	s.drawParticles()

	s.canvas.Render(s.cw)
	s.canvas.RenderBorder(s.cw)
	if s.screen != ScreenMenu {
		s.drawPopups()
	}
	s.drawUI()

	return s.cw.Flush()
}

// drawWorld draws every actor onto the canvas.
func (s *Session) drawWorld() {
	c := s.canvas
	g := s.game

	for _, e := range g.Enemies() {
		drawEnemy(c, e)
	}
	for _, b := range g.Bosses() {
		if b.Invulnerable() && !blinkVisible(s.uptime, config.PlayerBlinkFrequency) {
			drawBossHull(c, b.Body, draw.InkDim)
		} else {
			drawBossHull(c, b.Body, draw.InkBoss)
		}
		for _, bullet := range b.Bullets {
			drawBullet(c, bullet)
		}
	}
	for _, b := range g.Bullets() {
		drawBullet(c, b)
	}

	p := g.Player()
	if p.IsDestroyed() || s.snap.GameOver {
		return
	}
	if !p.Invulnerable() || blinkVisible(p.InvulnerableRemaining(), config.PlayerBlinkFrequency) {
		drawShip(c, p.Body, draw.InkPlayer)
	}
}

func (s *Session) drawParticles() {
	for _, p := range s.effects.particles {
		ink := draw.InkDebris
		if p.Faded() {
			ink = draw.InkDim
		}
		s.canvas.Set(p.X, p.Y, ink)
	}
}

// drawPopups writes score labels over the rendered playfield, kept inside
// its columns.
func (s *Session) drawPopups() {
	c := s.canvas
	for _, p := range s.effects.popups {
		col, row := c.LogicalToTerminal(p.x, p.y)
		if row < 1 || row > c.TerminalHeight() {
			continue
		}
		n := len(p.text)
		col = max(min(col-n/2, c.TerminalWidth()-n+1), 1)
		s.cw.WriteAt(col, row, draw.Color(draw.InkPlayerBullet)+p.text+draw.Reset)
	}
}

// blinkVisible alternates visibility at freq Hz over t.
func blinkVisible(t time.Duration, freq float64) bool {
	return int(t.Seconds()*freq*2)%2 == 0
}

// drawShip draws an upward-pointing ship filling the body.
func drawShip(c *draw.Canvas, b *physics.Body, ink draw.Ink) {
	c.DrawPolygon([]draw.Point{
		{X: b.X, Y: b.Y - b.H/2},
		{X: b.X + b.W/2, Y: b.Y + b.H/2},
		{X: b.X, Y: b.Y + b.H/4},
		{X: b.X - b.W/2, Y: b.Y + b.H/2},
	}, ink, true)
}

func drawEnemy(c *draw.Canvas, e *entity.Enemy) {
	b := e.Body
	switch e.Type {
	case entity.EnemyCruiser, entity.EnemyBomber:
		c.FillRect(b.X, b.Y, b.W, b.H*0.6, draw.InkEnemyTough)
		c.FillRect(b.X, b.Y+b.H*0.3, b.W*0.3, b.H*0.4, draw.InkEnemyTough)
	default:
		c.DrawPolygon([]draw.Point{
			{X: b.X - b.W/2, Y: b.Y - b.H/2},
			{X: b.X + b.W/2, Y: b.Y - b.H/2},
			{X: b.X, Y: b.Y + b.H/2},
		}, draw.InkEnemy, true)
	}
}

// drawBossHull draws a wide hexagonal hull filling the body.
func drawBossHull(c *draw.Canvas, b *physics.Body, ink draw.Ink) {
	c.DrawPolygon([]draw.Point{
		{X: b.X - b.W/2, Y: b.Y},
		{X: b.X - b.W/4, Y: b.Y - b.H/2},
		{X: b.X + b.W/4, Y: b.Y - b.H/2},
		{X: b.X + b.W/2, Y: b.Y},
		{X: b.X + b.W/4, Y: b.Y + b.H/2},
		{X: b.X - b.W/4, Y: b.Y + b.H/2},
	}, ink, true)
}

func drawBullet(c *draw.Canvas, b *entity.Bullet) {
	if b.IsDestroyed() {
		return
	}
	ink := draw.InkHostileBullet
	if b.Side == entity.SidePlayer {
		ink = draw.InkPlayerBullet
	}
	c.FillRect(b.Body.X, b.Body.Y, b.Body.W, b.Body.H, ink)
}
