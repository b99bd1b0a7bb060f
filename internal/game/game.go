package game

import (
	"errors"
	"io"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/Brick-Bastion/internal/sim"
)

// borderWidth is the pixel gap between the window edge and the arena.
const borderWidth = 24

// hudBarHeight is the strip above the arena holding the HUD line.
const hudBarHeight = 32

// frameStep is the simulated time delivered per Update (ebiten runs 60 TPS).
const frameStep = time.Second / 60

// publishEvery sends a spectator snapshot every n ticks.
const publishEvery = 2

// statusFrames is how long a status message stays on screen.
const statusFrames = 120

// Publisher receives a copy of the round state for remote viewers.
type Publisher interface {
	Publish(sim.Snapshot)
}

// Option configures a Game.
type Option func(*Game)

// WithLogger routes front-end logging to l.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// WithPublisher streams snapshots to p while a round runs.
func WithPublisher(p Publisher) Option {
	return func(g *Game) { g.pub = p }
}

// WithBindings replaces the default key layout.
func WithBindings(b map[sim.PlayerID]Binding) Option {
	return func(g *Game) { g.keys = NewKeyboard(b) }
}

// Game is the ebiten front end: it turns keys into phase changes and
// intents, ticks the Director at a fixed step and draws the latest state.
type Game struct {
	width      int
	height     int
	arenaW     int
	arenaH     int
	offX       int // pixel offset from window left to arena left
	offY       int // pixel offset from window top to arena top
	director   *sim.Director
	keys       *Keyboard
	feed       *EventFeed
	logger     *log.Logger
	pub        Publisher
	copyText   func(string) error
	justPushed func(ebiten.Key) bool

	// Round tracking for the feed and publisher.
	session  *sim.Session
	lastTick int

	status    string
	statusTTL int
}

// New builds a front end around d. tu sizes the window before any round
// exists and must match the tuning the Director's rounds use.
func New(d *sim.Director, tu sim.Tuning, opts ...Option) *Game {
	arenaW := int(float64(tu.Cols) * tu.TileSize)
	arenaH := int(float64(tu.Rows) * tu.TileSize)
	g := &Game{
		width:      borderWidth + arenaW + borderWidth + feedPanelWidth,
		height:     hudBarHeight + arenaH + borderWidth,
		arenaW:     arenaW,
		arenaH:     arenaH,
		offX:       borderWidth,
		offY:       hudBarHeight,
		director:   d,
		keys:       NewKeyboard(DefaultBindings()),
		feed:       NewEventFeed(),
		logger:     log.New(io.Discard),
		copyText:   clipboard.WriteAll,
		justPushed: inpututil.IsKeyJustPressed,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// WindowSize is the unscaled window size matching Layout.
func (g *Game) WindowSize() (int, int) { return g.width, g.height }

// Feed exposes the on-screen event feed.
func (g *Game) Feed() *EventFeed { return g.feed }

func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}
	g.keys.Poll()
	g.director.Advance(frameStep, g.keys)
	g.collect()
	if g.statusTTL > 0 {
		g.statusTTL--
	}
	return nil
}

// handleInput processes phase keys (edge-triggered). Gameplay keys are read
// by the Keyboard source.
func (g *Game) handleInput() error {
	d := g.director
	var err error
	switch d.Phase() {
	case sim.PhaseMenu:
		switch {
		case g.justPushed(ebiten.KeyEnter) || g.justPushed(ebiten.KeySpace):
			err = d.OpenModeSelect()
		case g.justPushed(ebiten.KeyEscape):
			return ebiten.Termination
		}
	case sim.PhaseModeSelect:
		for key, mode := range modeKeys {
			if g.justPushed(key) {
				err = d.Start(mode)
				break
			}
		}
	case sim.PhasePlaying:
		if g.justPushed(ebiten.KeyP) || g.justPushed(ebiten.KeyEscape) {
			err = d.Pause()
		}
	case sim.PhasePaused:
		switch {
		case g.justPushed(ebiten.KeyP) || g.justPushed(ebiten.KeyEscape):
			err = d.Resume()
		case g.justPushed(ebiten.KeyM):
			err = d.ReturnToMenu()
		case g.justPushed(ebiten.KeyR):
			err = d.ReturnToModeSelect()
		}
	case sim.PhaseGameOver:
		switch {
		case g.justPushed(ebiten.KeyEnter) || g.justPushed(ebiten.KeyR):
			err = d.ReturnToModeSelect()
		case g.justPushed(ebiten.KeyM):
			err = d.ReturnToMenu()
		case g.justPushed(ebiten.KeyC):
			g.copyReport()
		}
	}
	if err != nil && !errors.Is(err, sim.ErrInvalidTransition) {
		return err
	}
	if err != nil {
		g.logger.Debug("ignored key", "phase", d.Phase(), "err", err)
	}
	return nil
}

// modeKeys selects a mode on the mode-select screen.
var modeKeys = map[ebiten.Key]sim.Mode{
	ebiten.Key1: sim.ModeSingle,
	ebiten.Key2: sim.ModeCooperative,
	ebiten.Key3: sim.ModeVersus,
}

// collect feeds the newest tick's events to the feed and publisher. It
// notices a fresh round by the session pointer changing.
func (g *Game) collect() {
	s := g.director.Session()
	if s == nil {
		return
	}
	if s != g.session {
		g.session = s
		g.lastTick = 0
		g.feed.Reset()
		g.logger.Info("round started", "mode", s.Mode())
	}
	if s.Ticks() == g.lastTick {
		return
	}
	g.lastTick = s.Ticks()
	for _, e := range s.Events() {
		g.feed.AddEvent(e)
	}
	if g.pub != nil && (s.Ticks()%publishEvery == 0 || s.Outcome().Over) {
		g.pub.Publish(s.Snapshot())
	}
}

// copyReport puts the round summary on the system clipboard.
func (g *Game) copyReport() {
	s := g.director.Session()
	if s == nil {
		return
	}
	if err := g.copyText(s.Report()); err != nil {
		g.logger.Warn("clipboard unavailable", "err", err)
		g.setStatus("clipboard unavailable")
		return
	}
	g.setStatus("summary copied to clipboard")
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusTTL = statusFrames
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
