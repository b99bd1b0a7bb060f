package tui

import (
	"context"
	"fmt"
	"io"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Brick-Bastion/internal/sim"
)

// FrameStep is the simulated time per terminal frame.
const FrameStep = time.Second / 30

// App runs the Director in a terminal.
type App struct {
	screen   tcell.Screen
	director *sim.Director
	input    *HoldInput
	logger   *log.Logger
	now      func() time.Time
	quick    sim.Mode // mode started by Enter on the menu
	session  *sim.Session
}

// NewApp wires a terminal screen to d. quick is the mode that Enter on the
// menu starts directly; the number keys on mode select pick any mode.
func NewApp(screen tcell.Screen, d *sim.Director, quick sim.Mode, logger *log.Logger) *App {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &App{
		screen:   screen,
		director: d,
		input:    NewHoldInput(DefaultKeys()),
		logger:   logger,
		now:      time.Now,
		quick:    quick,
	}
}

// Run polls terminal events and advances one frame per tick until the user
// quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	go func() {
		defer close(events)
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return // screen finalised
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(FrameStep)
	defer ticker.Stop()
	a.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !a.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			a.Frame()
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return false
		}
		return a.Key(keyName(ev), a.now())
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyRune:
		return string(unicode.ToLower(ev.Rune()))
	default:
		return ""
	}
}

// Key handles a named key press: phase keys first, then player controls
// while a round is playing. It returns false on quit.
func (a *App) Key(name string, now time.Time) bool {
	d := a.director
	var err error
	switch d.Phase() {
	case sim.PhaseMenu:
		switch name {
		case "enter", " ":
			if err = d.OpenModeSelect(); err == nil {
				err = d.Start(a.quick)
			}
		case "m":
			err = d.OpenModeSelect()
		case "q", "esc":
			return false
		}
	case sim.PhaseModeSelect:
		if m, ok := modeKeys[name]; ok {
			err = d.Start(m)
		}
	case sim.PhasePlaying:
		switch name {
		case "p", "esc":
			err = d.Pause()
		default:
			a.input.Press(name, now)
		}
	case sim.PhasePaused:
		switch name {
		case "p", "esc":
			err = d.Resume()
		case "m":
			err = d.ReturnToMenu()
		case "r":
			err = d.ReturnToModeSelect()
		case "q":
			return false
		}
	case sim.PhaseGameOver:
		switch name {
		case "enter", "r":
			err = d.ReturnToModeSelect()
		case "m":
			err = d.ReturnToMenu()
		case "q", "esc":
			return false
		}
	}
	if err != nil {
		a.logger.Debug("ignored key", "key", name, "phase", d.Phase(), "err", err)
	}
	if d.Phase() != sim.PhasePlaying {
		a.input.Release()
	}
	return true
}

var modeKeys = map[string]sim.Mode{
	"1": sim.ModeSingle,
	"2": sim.ModeCooperative,
	"3": sim.ModeVersus,
}

// Frame advances the Director by one step and redraws.
func (a *App) Frame() {
	a.input.Sample(a.now())
	a.director.Advance(FrameStep, a.input)
	if s := a.director.Session(); s != nil && s != a.session {
		a.session = s
		a.logger.Info("round started", "mode", s.Mode())
	}
	a.Draw()
}

// Draw renders the current phase.
func (a *App) Draw() {
	a.screen.Clear()
	d := a.director
	switch d.Phase() {
	case sim.PhaseMenu:
		RenderPanel(a.screen, []string{
			"BRICK BASTION",
			"",
			fmt.Sprintf("enter  play %s", a.quick),
			"m      choose mode",
			"q      quit",
		})
	case sim.PhaseModeSelect:
		RenderPanel(a.screen, []string{
			"SELECT MODE",
			"",
			"1  single player",
			"2  cooperative (shared lives)",
			"3  versus",
			"",
			"P1: WASD + space   P2: arrows + enter",
		})
	default:
		s := d.Session()
		snap := s.Snapshot()
		Render(a.screen, &snap, recentLog(s.EventLog(), feedLines))
		_, h := ArenaSize(snap.Cols, snap.Rows)
		switch d.Phase() {
		case sim.PhasePaused:
			putString(a.screen, 0, arenaTop+h+feedLines, "PAUSED  p resume  r modes  m menu  q quit", styleHUD)
		case sim.PhaseGameOver:
			putString(a.screen, 0, arenaTop+h+feedLines,
				fmt.Sprintf("GAME OVER: %s. %s  enter again  m menu  q quit", snap.Outcome.Description(), snap.Summary.Headline), styleHUD)
		}
	}
	a.screen.Show()
}

// recentLog returns the last n log lines, oldest first.
func recentLog(el *sim.EventLog, n int) []string {
	entries := el.Entries()
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.String()
	}
	return out
}
