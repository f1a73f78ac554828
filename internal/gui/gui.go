// Package gui shows a session in an ebiten window.
package gui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"mindnoscape/canvas-app/internal/gui/control"
	"mindnoscape/canvas-app/internal/log"
	"mindnoscape/canvas-app/internal/render/raster"
	"mindnoscape/canvas-app/internal/session"
	"mindnoscape/canvas-app/internal/watch"
)

const lineHeight = 16

type keyBinding struct {
	key   ebiten.Key
	ctrl  bool
	shift bool
	act   control.Action
}

var bindings = []keyBinding{
	{ebiten.KeyZ, true, false, control.ActionUndo},
	{ebiten.KeyY, true, false, control.ActionRedo},
	{ebiten.KeyN, true, false, control.ActionNew},
	{ebiten.KeyS, true, true, control.ActionSaveAs},
	{ebiten.KeyS, true, false, control.ActionSave},
	{ebiten.KeyO, true, false, control.ActionOpen},
	{ebiten.KeyR, true, false, control.ActionReload},
	{ebiten.KeyE, true, false, control.ActionExport},
	{ebiten.KeyF, true, false, control.ActionFind},
	{ebiten.KeyC, true, false, control.ActionCopy},
	{ebiten.KeyL, true, false, control.ActionColor},
	{ebiten.KeyDelete, false, false, control.ActionDelete},
	{ebiten.KeyEnter, false, false, control.ActionAddChild},
	{ebiten.KeyF2, false, false, control.ActionEditText},
	{ebiten.KeySpace, false, false, control.ActionCenter},
	{ebiten.KeyEscape, false, false, control.ActionEscape},
}

// Game implements ebiten.Game for one session.
type Game struct {
	session *session.Session
	ctl     *control.Controller
	watcher *watch.Watcher
	logger  *log.Logger
	ctx     context.Context

	width, height int
	applied       [2]int
	frame         *ebiten.Image
	runes         []rune
}

// NewGame creates the window state. The watcher is optional.
func NewGame(s *session.Session, w *watch.Watcher, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.NewDiscard()
	}
	vp := s.Canvas().Viewport()
	return &Game{
		session: s,
		ctl:     control.New(s, logger),
		watcher: w,
		logger:  logger,
		ctx:     context.Background(),
		width:   int(vp.Width()),
		height:  int(vp.Height()),
	}
}

// Run opens the window and blocks until it is closed.
func Run(g *Game, title string) error {
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("failed to run window: %w", err)
	}
	return nil
}

func (g *Game) Update() error {
	if size := [2]int{g.width, g.height}; size != g.applied {
		g.session.Resize(float64(g.width), float64(g.height))
		g.applied = size
	}

	g.pollWatcher()

	if ebiten.IsWindowBeingClosed() || (ctrlPressed() && inpututil.IsKeyJustPressed(ebiten.KeyQ)) {
		if g.ctl.Quit() {
			return ebiten.Termination
		}
	}

	if g.ctl.Dialog() != nil {
		g.updateDialog()
	} else {
		g.updatePointer()
		g.updateKeys()
	}

	g.ctl.Update(float32(1 / float64(ebiten.TPS())))

	if g.ctl.Dirty() {
		if err := g.repaint(); err != nil {
			g.logger.LogError(g.ctx, err)
		}
	}
	return nil
}

func ctrlPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}

func (g *Game) updatePointer() {
	x, y := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.ctl.PointerDown(float64(x), float64(y), time.Now())
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.ctl.PointerUp()
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.ctl.PointerMove(float64(x), float64(y))
	}
}

func (g *Game) updateKeys() {
	ctrl := ctrlPressed()
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	for _, b := range bindings {
		if b.ctrl != ctrl || (b.ctrl && b.shift != shift) {
			continue
		}
		if inpututil.IsKeyJustPressed(b.key) {
			g.ctl.Do(b.act)
			return
		}
	}
}

func (g *Game) updateDialog() {
	g.runes = ebiten.AppendInputChars(g.runes[:0])
	g.ctl.TypeRunes(g.runes)

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		g.ctl.Backspace()
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter):
		g.ctl.Submit()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.ctl.Cancel()
	}
}

// pollWatcher keeps the watcher on the current file and forwards its
// notices. It never blocks.
func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	path := g.session.CurrentFile()
	switch {
	case path == "":
		g.watcher.Unwatch()
	case path != g.watcher.Path():
		if err := g.watcher.Watch(path); err != nil {
			g.logger.Warn(g.ctx, "Failed to watch file", log.Fields{"path": path, "error": err})
		}
	}

	select {
	case <-g.watcher.Changes():
		g.ctl.NotifyDiskChange()
	default:
	}
}

func (g *Game) repaint() error {
	img, err := raster.Render(g.session.Canvas(), raster.Options{Region: g.ctl.View()})
	if err != nil {
		return fmt.Errorf("failed to render canvas: %w", err)
	}
	if g.frame != nil {
		g.frame.Deallocate()
	}
	g.frame = ebiten.NewImageFromImage(img)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.frame != nil {
		screen.DrawImage(g.frame, nil)
	}

	ebitenutil.DebugPrintAt(screen, g.title(), 4, 2)
	if d := g.ctl.Dialog(); d != nil {
		ebitenutil.DebugPrintAt(screen, d.Prompt+" "+string(d.Text)+"_", 4, g.height-2*lineHeight)
	}
	if msg := g.ctl.Status(); msg != "" {
		ebitenutil.DebugPrintAt(screen, msg, 4, g.height-lineHeight)
	}
}

func (g *Game) title() string {
	name := "untitled"
	if f := g.session.CurrentFile(); f != "" {
		name = filepath.Base(f)
	} else if lib := g.session.LibraryName(); lib != "" {
		name = "library:" + lib
	}
	if g.session.Modified() {
		name += "*"
	}
	if g.ctl.DiskChanged() {
		name += " (changed on disk)"
	}
	if h := g.session.History(); h.CanUndo() || h.CanRedo() {
		var hints []string
		if h.CanUndo() {
			hints = append(hints, "Ctrl+Z undo")
		}
		if h.CanRedo() {
			hints = append(hints, "Ctrl+Y redo")
		}
		name += "  [" + strings.Join(hints, ", ") + "]"
	}
	return name
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.width, g.height = outsideWidth, outsideHeight
	}
	return g.width, g.height
}
