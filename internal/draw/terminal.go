package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Reset clears all SGR attributes.
const Reset = "\033[0m"

// Bold starts bold text.
const Bold = "\033[1m"

// ChunkWriter accumulates a frame of terminal output and writes it in
// MTU-sized chunks on Flush. Cursor positions are 1-based and shifted by
// the configured offset.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer
	numBuf [20]byte
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the cursor offset, e.g. after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// MoveCursor appends a cursor position sequence.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
}

// Write implements io.Writer so a Canvas can render into the frame.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends s to the frame.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes s at a position.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(s)
}

// WriteCentered writes s horizontally centered within width columns.
func (cw *ChunkWriter) WriteCentered(width, row int, s string) {
	col := max((width-VisibleLen(s))/2+1, 1)
	cw.WriteAt(col, row, s)
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the accumulated frame and resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// Color returns the SGR sequence selecting ink as the foreground color.
func Color(ink Ink) string {
	return "\033[38;5;" + strconv.Itoa(inkColors[ink]) + "m"
}

// CursorTo returns a cursor position sequence for a 1-based position.
func CursorTo(col, row int) string {
	return "\033[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H"
}

// VisibleLen returns the number of printed runes in s, skipping escape sequences.
func VisibleLen(s string) int {
	n := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
		case r == '\033':
			inEscape = true
		default:
			n++
		}
	}
	return n
}

// Layout is the placement of the playfield inside a terminal.
type Layout struct {
	Cols, Rows int // Canvas size in cells
	OffCol     int // 0-based offset of the canvas origin
	OffRow     int
}

// Fit sizes a canvas for a logicalWidth×logicalHeight playfield inside a
// termWidth×termHeight terminal, keeping the aspect ratio and leaving
// reservedRows free below the canvas plus one cell for the border.
func Fit(termWidth, termHeight, reservedRows int, logicalWidth, logicalHeight float64) Layout {
	availCols := max(termWidth-2, 1)
	availRows := max(termHeight-2-reservedRows, 1)

	// A cell is one pixel wide and two pixels tall.
	aspect := logicalWidth / logicalHeight
	cols := availCols
	rows := int(float64(cols) / aspect / 2)
	if rows > availRows {
		rows = availRows
		cols = int(float64(rows) * 2 * aspect)
	}
	cols = max(cols, 1)
	rows = max(rows, 1)

	return Layout{
		Cols:   cols,
		Rows:   rows,
		OffCol: max((termWidth-cols)/2, 1),
		OffRow: 1,
	}
}

// TermSizeFunc returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns the size of the terminal on os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and moves the cursor to the top-left.
func ClearScreen(w io.Writer) {
	_, _ = io.WriteString(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	_, _ = io.WriteString(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	_, _ = io.WriteString(w, "\033[?25h")
}
