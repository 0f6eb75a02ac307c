package loop

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomz197/space-shooter/internal/draw"
	"github.com/tomz197/space-shooter/internal/game"
	"github.com/tomz197/space-shooter/internal/level"
	"github.com/tomz197/space-shooter/internal/loop/config"
)

var titleArt = []string{
	`  ___ ___  _   ___ ___   ___ _  _  ___   ___ _____ ___ ___  `,
	` / __| _ \/_\ / __| __| / __| || |/ _ \ / _ \_   _| __| _ \ `,
	` \__ \  _/ _ \ (__| _|  \__ \ __ | (_) | (_) || | | _||   / `,
	` |___/_|/_/ \_\___|___| |___/_||_|\___/ \___/ |_| |___|_|_\ `,
}

var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

// drawUI draws the text overlay for the current screen.
func (s *Session) drawUI() {
	switch {
	case s.screen == ScreenShutdown:
		s.drawShutdownScreen()
	case s.inactive:
		s.drawInactivityScreen()
	case s.screen == ScreenMenu:
		s.drawMenu()
	case s.screen == ScreenPlaying:
		s.drawBanners()
		s.drawHUD()
	case s.screen == ScreenGameOver:
		s.drawGameOver()
		s.drawHUD()
	}
}

// writeArt centers multi-line art starting at row and returns the row below it.
// Narrow canvases get the plain fallback instead.
func (s *Session) writeArt(art []string, fallback string, row int) int {
	width := s.layout.Cols
	if len(art[0]) > width {
		s.cw.WriteCentered(width, row, draw.Bold+fallback+draw.Reset)
		return row + 2
	}
	for i, line := range art {
		s.cw.WriteCentered(width, row+i, line)
	}
	return row + len(art) + 1
}

func (s *Session) blinkOn() bool {
	return s.uptime.Milliseconds()/600%2 == 0
}

// drawMenu draws the title screen.
func (s *Session) drawMenu() {
	width := s.layout.Cols
	row := max(s.layout.Rows/2-9, 1)

	row = s.writeArt(titleArt, "S P A C E   S H O O T E R", row)
	s.cw.WriteCentered(width, row, "~ Waves, bosses and a high score to beat ~")
	row += 2

	best := 0
	if s.opts.HighScore != nil {
		best = s.opts.HighScore.Best()
	}
	s.cw.WriteCentered(width, row, fmt.Sprintf("High score: %d", best))
	row += 2

	controls := []string{
		"WASD / Arrows  . . . . Move",
		"SPACE  . . . . . . . . Fire",
		"R  . . . . . . . .  Restart",
		"Q  . . . . . . . . . . Quit",
	}
	for _, line := range controls {
		s.cw.WriteCentered(width, row, line)
		row++
	}
	row++

	if s.blinkOn() {
		s.cw.WriteCentered(width, row, ">>  Press ENTER or SPACE to Start  <<")
	}
	row += 2

	if s.opts.Lobby != nil {
		s.drawLobby(row)
	}
}

// drawLobby lists the pilots online and the best live scores.
func (s *Session) drawLobby(row int) {
	width := s.layout.Cols
	snap := s.opts.Lobby.Snapshot()

	s.cw.WriteCentered(width, row, fmt.Sprintf("Pilots online: %d", snap.Pilots))
	for i, e := range snap.Top {
		line := fmt.Sprintf("%d. %-12s %8d  L%d", i+1, truncate(e.Username, 12), e.Score, e.Level)
		s.cw.WriteCentered(width, row+1+i, line)
	}
}

// drawBanners draws the progression banner and the notice line.
func (s *Session) drawBanners() {
	width := s.layout.Cols
	row := s.layout.Rows / 3

	if b := s.effects.banner; b.visible() {
		s.cw.WriteCentered(width, row, draw.Bold+draw.Color(b.ink)+b.text+draw.Reset)
	}
	if n := s.effects.notice; n.visible() {
		s.cw.WriteCentered(width, row+2, draw.Color(n.ink)+n.text+draw.Reset)
	}
}

// drawHUD draws the two status lines under the playfield.
func (s *Session) drawHUD() {
	width := s.layout.Cols
	row := s.layout.Rows + 2
	snap := s.snap

	left := fmt.Sprintf("Score: %-8d High: %d", snap.Score, snap.HighScore)
	s.cw.WriteAt(1, row, left)

	center := fmt.Sprintf("Level %d  x%.1f  %s", snap.Level, snap.Multiplier, progressText(snap))
	s.cw.WriteCentered(width, row, center)

	lives := "Lives: " + strings.Repeat("♥", snap.Lives)
	s.cw.WriteAt(max(width-draw.VisibleLen(lives)+1, 1), row, draw.Color(draw.InkEnemy)+lives+draw.Reset)

	switch {
	case snap.Boss != nil:
		bar := fmt.Sprintf("%s  %s  Phase %d/%d",
			bossName(snap.Boss.Type),
			healthBar(snap.Boss.Health, snap.Boss.MaxHealth, 20),
			snap.Boss.Phase, snap.Boss.MaxPhases)
		s.cw.WriteCentered(width, row+1, draw.Color(draw.InkBoss)+bar+draw.Reset)
	case s.opts.Lobby != nil:
		s.cw.WriteAt(1, row+1, fmt.Sprintf("Pilots online: %d", s.opts.Lobby.Snapshot().Pilots))
	}
}

// progressText describes where the player is within the level.
func progressText(snap game.Snapshot) string {
	switch snap.Progress {
	case level.StateBossWarning, level.StateBossActive:
		return "BOSS!"
	case level.StateLevelComplete:
		return "CLEAR"
	default:
		text := fmt.Sprintf("Wave %d/%d", min(snap.Wave+1, snap.WaveCount), snap.WaveCount)
		if snap.Progress == level.StateWaveActive && snap.Incoming > 0 {
			text += fmt.Sprintf("  +%d incoming", snap.Incoming)
		}
		return text
	}
}

// healthBar renders health as a width-cell bar. Any remaining health shows
// at least one filled cell.
func healthBar(health, maxHealth, width int) string {
	if maxHealth <= 0 {
		return strings.Repeat("░", width)
	}
	filled := int(math.Ceil(float64(max(health, 0)) / float64(maxHealth) * float64(width)))
	filled = min(filled, width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// drawGameOver draws the final score over the frozen playfield.
func (s *Session) drawGameOver() {
	width := s.layout.Cols
	row := max(s.layout.Rows/2-5, 1)

	row = s.writeArt(gameOverArt, "G A M E   O V E R", row)
	s.cw.WriteCentered(width, row, fmt.Sprintf("Score: %d", s.snap.Score))
	s.cw.WriteCentered(width, row+1, fmt.Sprintf("Level reached: %d", s.snap.Level))

	if s.snap.NewHighScore {
		s.cw.WriteCentered(width, row+3, draw.Bold+draw.Color(draw.InkPlayerBullet)+"* NEW HIGH SCORE *"+draw.Reset)
	} else {
		s.cw.WriteCentered(width, row+3, fmt.Sprintf("High score: %d", s.snap.HighScore))
	}

	if s.blinkOn() {
		s.cw.WriteCentered(width, row+5, ">>  Press R to Restart, Q to Quit  <<")
	}
}

// drawInactivityScreen warns a pilot that is about to be disconnected.
func (s *Session) drawInactivityScreen() {
	width := s.layout.Cols
	row := s.layout.Rows / 2

	s.cw.WriteCentered(width, row-2, "INACTIVITY WARNING")
	left := max(int((config.InactivityDisconnectUser - s.idle).Seconds()), 0)
	s.cw.WriteCentered(width, row, fmt.Sprintf("You will be disconnected in %d seconds.", left))
	s.cw.WriteCentered(width, row+2, "Press any key to continue")
}

// drawShutdownScreen tells the pilot the server is going away.
func (s *Session) drawShutdownScreen() {
	width := s.layout.Cols
	row := s.layout.Rows / 2

	s.cw.WriteCentered(width, row-3, "SERVER SHUTTING DOWN")
	s.cw.WriteCentered(width, row-1, "The server is restarting for maintenance.")
	s.cw.WriteCentered(width, row, "Please reconnect in a moment.")
	s.cw.WriteCentered(width, row+2, fmt.Sprintf("Disconnecting in %d seconds...", int(s.shutdownLeft.Seconds())+1))
	s.cw.WriteCentered(width, row+4, "Press Q to disconnect now")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
