// Package draw renders the playfield to a terminal using half-block
// characters, giving each terminal cell two vertically stacked pixels.
package draw

import (
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Ink is a pixel color. The zero Ink is an empty pixel.
type Ink uint8

const (
	InkNone Ink = iota
	InkPlayer
	InkPlayerBullet
	InkEnemy
	InkEnemyTough
	InkHostileBullet
	InkBoss
	InkDebris
	InkDim
)

// inkColors maps inks to ANSI 256-color palette indices.
var inkColors = [...]int{
	InkNone:          0,
	InkPlayer:        51,  // cyan
	InkPlayerBullet:  226, // yellow
	InkEnemy:         196, // red
	InkEnemyTough:    208, // orange
	InkHostileBullet: 201, // pink
	InkBoss:          129, // purple
	InkDebris:        250, // light grey
	InkDim:           240, // dark grey
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block
// characters. Drawing uses logical playfield coordinates that are scaled to
// terminal pixels.
type Canvas struct {
	termWidth      int   // Terminal columns
	termHeight     int   // Terminal rows
	subPixelHeight int   // termHeight * 2
	pixels         []Ink // [y * termWidth + x]

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets for centering the render area.
	offsetCol int
	offsetRow int

	renderBuf       strings.Builder
	numBuf          [20]byte
	scaledBuf       []Point
	intersectionBuf []float64
}

// NewCanvas creates a canvas of termWidth×termHeight cells showing a
// logicalWidth×logicalHeight playfield.
func NewCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions, keeping the logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]Ink, subPixelHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the 0-based column and row offset used when rendering.
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// Clear resets all pixels.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at terminal pixel coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, ink Ink) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = ink
	}
}

// Set sets the pixel under a logical coordinate.
func (c *Canvas) Set(x, y float64, ink Ink) {
	c.setPixel(int(math.Floor(x*c.scaleX)), int(math.Floor(y*c.scaleY)), ink)
}

// FillRect fills a logical rectangle centered on (cx, cy). Every rectangle
// that intersects the playfield covers at least one pixel.
func (c *Canvas) FillRect(cx, cy, w, h float64, ink Ink) {
	x0 := int(math.Floor((cx - w/2) * c.scaleX))
	y0 := int(math.Floor((cy - h/2) * c.scaleY))
	x1 := max(int(math.Ceil((cx+w/2)*c.scaleX))-1, x0)
	y1 := max(int(math.Ceil((cy+h/2)*c.scaleY))-1, y0)

	x0, x1 = max(x0, 0), min(x1, c.termWidth-1)
	y0, y1 = max(y0, 0), min(y1, c.subPixelHeight-1)
	for y := y0; y <= y1; y++ {
		row := y * c.termWidth
		for x := x0; x <= x1; x++ {
			c.pixels[row+x] = ink
		}
	}
}

// DrawLine draws a line between logical points using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point, ink Ink) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.setPixel(x1, y1, ink)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a closed polygon in logical coordinates. If filled is
// true, the interior is filled with a scanline pass first.
func (c *Canvas) DrawPolygon(points []Point, ink Ink, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fillPolygon(points, ink)
	}
	for i := range points {
		c.DrawLine(points[i], points[(i+1)%len(points)], ink)
	}
}

func (c *Canvas) fillPolygon(points []Point, ink Ink) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
		minY = min(minY, scaled[i].Y)
		maxY = max(maxY, scaled[i].Y)
	}

	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5
		xs := c.intersectionBuf[:0]
		for i, p1 := range scaled {
			p2 := scaled[(i+1)%len(scaled)]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				xs = append(xs, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = xs

		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i])); x <= int(math.Floor(xs[i+1])); x++ {
				c.setPixel(x, y, ink)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once; it keeps writes
// under a typical MTU for smooth SSH transmission.
const maxChunkSize = 1400

// Render writes every non-empty cell to w. Empty cells are skipped, so the
// caller clears the screen between frames.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	for row := range c.termHeight {
		top := c.pixels[row*2*c.termWidth : (row*2+1)*c.termWidth]
		bottom := c.pixels[(row*2+1)*c.termWidth : (row*2+2)*c.termWidth]

		for col := range c.termWidth {
			t, b := top[col], bottom[col]
			if t == InkNone && b == InkNone {
				continue
			}

			c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			switch {
			case t == b:
				c.color(38, t)
				c.renderBuf.WriteRune(BlockFull)
			case b == InkNone:
				c.color(38, t)
				c.renderBuf.WriteRune(BlockUpperHalf)
			case t == InkNone:
				c.color(38, b)
				c.renderBuf.WriteRune(BlockLowerHalf)
			default:
				c.color(38, t)
				c.color(48, b)
				c.renderBuf.WriteRune(BlockUpperHalf)
			}
			c.renderBuf.WriteString(Reset)
		}
	}

	writeChunked(w, c.renderBuf.String())
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// color writes an SGR 256-color sequence; layer is 38 (fg) or 48 (bg).
func (c *Canvas) color(layer int, ink Ink) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(layer), 10))
	c.renderBuf.WriteString(";5;")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(inkColors[ink]), 10))
	c.renderBuf.WriteByte('m')
}

// RenderBorder draws a box around the canvas when there is room for it.
func (c *Canvas) RenderBorder(w io.Writer) {
	if c.offsetCol < 1 || c.offsetRow < 1 {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	bar := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	buf.WriteString(Color(InkDim))
	buf.WriteString(CursorTo(left, top) + "┌" + bar + "┐")
	buf.WriteString(CursorTo(left, bottom) + "└" + bar + "┘")
	for row := top + 1; row < bottom; row++ {
		buf.WriteString(CursorTo(left, row) + "│" + CursorTo(right, row) + "│")
	}
	buf.WriteString(Reset)

	writeChunked(w, buf.String())
}

// LogicalToTerminal converts logical coordinates to a 1-based terminal
// position relative to the canvas origin.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1, py/2 + 1
}

// TerminalWidth returns the canvas width in columns.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the canvas height in rows.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

func writeChunked(w io.Writer, data string) {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		_, _ = io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
