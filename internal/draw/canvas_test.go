package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillRectScalesToPixels(t *testing.T) {
	// 80 columns, 30 rows => 0.1 px per unit horizontally and vertically.
	c := NewCanvas(80, 30, 800, 600)

	c.FillRect(400, 300, 40, 40, InkPlayer)
	assert.Equal(t, InkPlayer, inkAt(c, 38, 28))
	assert.Equal(t, InkPlayer, inkAt(c, 41, 31))
	assert.Equal(t, InkNone, inkAt(c, 42, 28))
	assert.Equal(t, InkNone, inkAt(c, 37, 28))

	// Tiny actors still cover a pixel.
	c.Clear()
	c.FillRect(5, 5, 1, 1, InkPlayerBullet)
	assert.Equal(t, InkPlayerBullet, inkAt(c, 0, 0))
}

func TestFillRectClipsToCanvas(t *testing.T) {
	c := NewCanvas(10, 5, 100, 100)
	assert.NotPanics(t, func() {
		c.FillRect(-50, -50, 40, 40, InkEnemy)
		c.FillRect(0, 0, 40, 40, InkEnemy)
		c.FillRect(120, 120, 60, 60, InkEnemy)
	})
	assert.Equal(t, InkEnemy, inkAt(c, 0, 0))
	assert.Equal(t, InkEnemy, inkAt(c, 9, 9))
}

func TestDrawPolygonFilled(t *testing.T) {
	c := NewCanvas(20, 10, 20, 20)
	c.DrawPolygon([]Point{{2, 2}, {17, 2}, {17, 17}, {2, 17}}, InkBoss, true)

	assert.Equal(t, InkBoss, inkAt(c, 10, 10))
	assert.Equal(t, InkNone, inkAt(c, 0, 0))
	assert.Equal(t, InkNone, inkAt(c, 19, 19))
}

func TestRenderHalfBlocks(t *testing.T) {
	c := NewCanvas(3, 1, 3, 2)
	c.Set(0, 0, InkPlayer) // top only
	c.Set(1, 1, InkEnemy)  // bottom only
	c.Set(2, 0, InkPlayer) // both halves, different inks
	c.Set(2, 1, InkHostileBullet)

	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()

	assert.Contains(t, out, "\033[1;1H"+Color(InkPlayer)+string(BlockUpperHalf))
	assert.Contains(t, out, "\033[1;2H"+Color(InkEnemy)+string(BlockLowerHalf))
	assert.Contains(t, out, "\033[1;3H"+Color(InkPlayer)+"\033[48;5;201m"+string(BlockUpperHalf))
	assert.Equal(t, 3, strings.Count(out, Reset))
}

func TestRenderSkipsEmptyCanvas(t *testing.T) {
	var buf bytes.Buffer
	NewCanvas(40, 20, 800, 600).Render(&buf)
	assert.Zero(t, buf.Len())
}

func TestRenderBorderNeedsRoom(t *testing.T) {
	c := NewCanvas(4, 2, 4, 4)

	var buf bytes.Buffer
	c.RenderBorder(&buf)
	assert.Zero(t, buf.Len())

	c.SetOffset(1, 1)
	c.RenderBorder(&buf)
	assert.Contains(t, buf.String(), "┌────┐")
	assert.Contains(t, buf.String(), CursorTo(1, 4)+"└────┘")
}

func TestLogicalToTerminal(t *testing.T) {
	c := NewCanvas(80, 30, 800, 600)

	col, row := c.LogicalToTerminal(0, 0)
	assert.Equal(t, 1, col)
	assert.Equal(t, 1, row)

	col, row = c.LogicalToTerminal(400, 300)
	assert.Equal(t, 41, col)
	assert.Equal(t, 16, row)
}

func TestFitKeepsAspect(t *testing.T) {
	l := Fit(100, 40, 2, 800, 600)
	require.LessOrEqual(t, l.Rows, 36)
	assert.Equal(t, 98, l.Cols)
	assert.Equal(t, 36, l.Rows)
	assert.Equal(t, 1, l.OffCol)

	// Short terminal: rows bound the size.
	l = Fit(200, 20, 2, 800, 600)
	assert.Equal(t, 16, l.Rows)
	assert.Equal(t, 42, l.Cols)
	assert.Equal(t, 79, l.OffCol)
}

func TestChunkWriter(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChunkWriter(&buf, 2, 1)

	cw.WriteAt(1, 1, "hi")
	cw.WriteCentered(10, 2, Bold+"abcd"+Reset)
	assert.Zero(t, buf.Len(), "nothing written before Flush")

	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[2;3Hhi\033[3;6H"+Bold+"abcd"+Reset, buf.String())

	big := strings.Repeat("x", maxChunkSize*3)
	buf.Reset()
	cw.WriteString(big)
	require.NoError(t, cw.Flush())
	assert.Equal(t, big, buf.String())
}

func TestVisibleLen(t *testing.T) {
	assert.Equal(t, 5, VisibleLen(Color(InkBoss)+"BOSS!"+Reset))
	assert.Equal(t, 3, VisibleLen("█▀▄"))
}

// inkAt returns the ink at terminal pixel coordinates.
func inkAt(c *Canvas, x, y int) Ink {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return InkNone
	}
	return c.pixels[y*c.termWidth+x]
}
