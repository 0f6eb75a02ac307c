package loop

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/tomz197/space-shooter/internal/draw"
	"github.com/tomz197/space-shooter/internal/loop/config"
)

// star is a background dot drifting down the playfield.
type star struct {
	x, y  float64
	speed float64 // Units per second
}

// starfield is the scrolling background shown on every screen.
type starfield []star

func newStarfield(rng *rand.Rand, n int) starfield {
	float := rand.Float64
	if rng != nil {
		float = rng.Float64
	}

	f := make(starfield, n)
	for i := range f {
		f[i] = star{
			x:     float() * config.PlayfieldWidth,
			y:     float() * config.PlayfieldHeight,
			speed: config.StarMinSpeed + float()*(config.StarMaxSpeed-config.StarMinSpeed),
		}
	}
	return f
}

// update scrolls the stars, wrapping them back to the top edge.
func (f starfield) update(delta time.Duration) {
	dt := delta.Seconds()
	for i := range f {
		f[i].y = math.Mod(f[i].y+f[i].speed*dt, config.PlayfieldHeight)
	}
}

func (f starfield) draw(c *draw.Canvas) {
	for _, s := range f {
		c.Set(s.x, s.y, draw.InkDim)
	}
}
