package game

import (
	"github.com/tomz197/space-shooter/internal/entity"
	"github.com/tomz197/space-shooter/internal/physics"
)

// collisionGridCellSize must be >= the largest box dimension of anything
// inserted into a grid (bomber: 44, bullets: 16). Bosses are checked directly.
const collisionGridCellSize = 100.0

// collisionState holds the reusable caches for overlap detection.
type collisionState struct {
	playerBullets  []*entity.Bullet
	hostileBullets []*entity.Bullet

	enemyGrid   *physics.SpatialGrid
	hostileGrid *physics.SpatialGrid
}

func (c *collisionState) init(width, height float64) {
	c.enemyGrid = physics.NewSpatialGrid(width, height, collisionGridCellSize)
	c.hostileGrid = physics.NewSpatialGrid(width, height, collisionGridCellSize)
}

// collectBullets splits live bullets by side. Boss bullets are hostile.
func (c *collisionState) collectBullets(bullets []*entity.Bullet, bosses []*entity.Boss) {
	c.playerBullets = c.playerBullets[:0]
	c.hostileBullets = c.hostileBullets[:0]

	for _, b := range bullets {
		if b.IsDestroyed() {
			continue
		}
		if b.Side == entity.SidePlayer {
			c.playerBullets = append(c.playerBullets, b)
		} else {
			c.hostileBullets = append(c.hostileBullets, b)
		}
	}
	for _, boss := range bosses {
		for _, b := range boss.Bullets {
			if !b.IsDestroyed() {
				c.hostileBullets = append(c.hostileBullets, b)
			}
		}
	}
}

// populateGrids clears and re-inserts enemies and hostile bullets.
func (c *collisionState) populateGrids(enemies []*entity.Enemy) {
	c.enemyGrid.Clear()
	for i, e := range enemies {
		if !e.IsDestroyed() {
			c.enemyGrid.Insert(e.Body.X, e.Body.Y, i)
		}
	}

	c.hostileGrid.Clear()
	for i, b := range c.hostileBullets {
		c.hostileGrid.Insert(b.Body.X, b.Body.Y, i)
	}
}

// resolveCollisions finds overlapping pairs and hands them to the resolver.
func (g *Game) resolveCollisions() {
	c := &g.c
	c.collectBullets(g.bullets, g.bosses)
	c.populateGrids(g.enemies)

	g.checkPlayerBullets()
	g.checkPlayer()
}

// checkPlayerBullets tests player bullets against enemies (grid) and bosses.
func (g *Game) checkPlayerBullets() {
	for _, b := range g.c.playerBullets {
		g.c.enemyGrid.QueryAround(b.Body.X, b.Body.Y, func(i int) bool {
			e := g.enemies[i]
			if e.IsDestroyed() || !physics.Overlaps(b.Body, e.Body) {
				return false
			}
			g.resolver.BulletHitsEnemy(b, e)
			return b.IsDestroyed()
		})
		if b.IsDestroyed() {
			continue
		}

		for _, boss := range g.bosses {
			if physics.Overlaps(b.Body, boss.Body) {
				g.resolver.BulletHitsBoss(b, boss)
				break
			}
		}
	}
}

// checkPlayer tests the player against enemies, bosses and hostile bullets.
// Stops as soon as the game ends.
func (g *Game) checkPlayer() {
	p := g.player
	if p.IsDestroyed() {
		return
	}

	g.c.enemyGrid.QueryAround(p.Body.X, p.Body.Y, func(i int) bool {
		e := g.enemies[i]
		if !e.IsDestroyed() && physics.Overlaps(p.Body, e.Body) {
			g.resolver.PlayerHitsEnemy(p, e)
		}
		return g.gameOver
	})
	if g.gameOver {
		return
	}

	for _, boss := range g.bosses {
		if physics.Overlaps(p.Body, boss.Body) {
			g.resolver.PlayerHitsBoss(p, boss)
			if g.gameOver {
				return
			}
		}
	}

	g.c.hostileGrid.QueryAround(p.Body.X, p.Body.Y, func(i int) bool {
		b := g.c.hostileBullets[i]
		if !b.IsDestroyed() && physics.Overlaps(p.Body, b.Body) {
			g.resolver.PlayerHitByBullet(p, b)
		}
		return g.gameOver
	})
}
