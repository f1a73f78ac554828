// Package control turns raw pointer and keyboard input of the canvas window
// into session operations. It has no windowing dependency so it can be driven
// by tests; package gui feeds it from ebiten.
package control

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"mindnoscape/canvas-app/internal/event"
	"mindnoscape/canvas-app/internal/geometry"
	"mindnoscape/canvas-app/internal/log"
	"mindnoscape/canvas-app/internal/session"
	"mindnoscape/canvas-app/internal/tree"
)

const (
	// DoubleClickInterval is the longest gap between two presses of a double click.
	DoubleClickInterval = 400 * time.Millisecond
	// DoubleClickSlop is how far apart, in pixels, the two presses may be.
	DoubleClickSlop = 4
	// PanDuration is the length of the animated scroll to a node, in seconds.
	PanDuration float32 = 0.3
	// StatusDuration is how long a status message stays visible, in seconds.
	StatusDuration float32 = 4
)

// Action is a keyboard command.
type Action int

const (
	ActionNone Action = iota
	ActionUndo
	ActionRedo
	ActionNew
	ActionSave
	ActionSaveAs
	ActionOpen
	ActionReload
	ActionExport
	ActionFind
	ActionCopy
	ActionDelete
	ActionAddChild
	ActionEditText
	ActionColor
	ActionCenter
	ActionEscape
)

// Dialog is a one line text prompt. Submitting an empty text cancels it.
type Dialog struct {
	Prompt string
	Text   []rune

	submit func(text string) error
}

type pan struct {
	x, y   *gween.Tween
	target geometry.Point
}

// Controller holds the window side interaction state.
type Controller struct {
	session *session.Session
	logger  *log.Logger
	ctx     context.Context

	view  geometry.Point
	pan   *pan
	dirty bool

	pressed   bool
	lastPress time.Time
	lastAt    geometry.Point

	dialog      *Dialog
	status      string
	statusTTL   float32
	diskChanged bool
	quitArmed   bool
}

// New creates a controller for s and subscribes it to the session events.
func New(s *session.Session, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.NewDiscard()
	}
	c := &Controller{
		session: s,
		logger:  logger,
		ctx:     context.Background(),
		dirty:   true,
	}
	markDirty := func(event.Event) { c.dirty = true }
	for _, t := range []event.EventType{
		event.NodeAdded, event.NodeDeleted, event.NodeUpdated, event.NodeMoved,
		event.SelectionChanged, event.HighlightChanged, event.ViewResized,
	} {
		s.Events().Subscribe(t, markDirty)
	}
	s.Events().Subscribe(event.DocumentReplaced, func(event.Event) {
		c.pan = nil
		c.view = s.Canvas().Viewport().Min
		c.dirty = true
	})
	s.Events().Subscribe(event.ViewCentered, func(event.Event) {
		c.startPan(s.Canvas().Viewport().Min)
	})
	return c
}

func (c *Controller) startPan(target geometry.Point) {
	if target == c.view {
		return
	}
	c.pan = &pan{
		x:      gween.New(float32(c.view.X), float32(target.X), PanDuration, ease.OutCubic),
		y:      gween.New(float32(c.view.Y), float32(target.Y), PanDuration, ease.OutCubic),
		target: target,
	}
}

// Update advances animations by dt seconds.
func (c *Controller) Update(dt float32) {
	if c.pan != nil {
		x, doneX := c.pan.x.Update(dt)
		y, doneY := c.pan.y.Update(dt)
		c.view = geometry.Point{X: float64(x), Y: float64(y)}
		if doneX && doneY {
			c.view = c.pan.target
			c.pan = nil
		}
		c.dirty = true
	} else if vp := c.session.Canvas().Viewport().Min; vp != c.view {
		c.view = vp
		c.dirty = true
	}

	if c.statusTTL > 0 {
		c.statusTTL -= dt
		if c.statusTTL <= 0 {
			c.status = ""
			c.dirty = true
		}
	}
}

// View returns the canvas region shown in the window.
func (c *Controller) View() geometry.Rect {
	vp := c.session.Canvas().Viewport()
	return geometry.NewRect(c.view.X, c.view.Y, vp.Width(), vp.Height())
}

// Panning reports whether a scroll animation is running.
func (c *Controller) Panning() bool {
	return c.pan != nil
}

// Dirty reports whether the window needs to be repainted, and clears the flag.
func (c *Controller) Dirty() bool {
	d := c.dirty
	c.dirty = false
	return d
}

// Status returns the message shown at the bottom of the window.
func (c *Controller) Status() string {
	return c.status
}

func (c *Controller) setStatus(format string, args ...any) {
	c.status = fmt.Sprintf(format, args...)
	c.statusTTL = StatusDuration
	c.dirty = true
}

// report shows err in the status line. Rejected operations are not logged.
func (c *Controller) report(err error) {
	if err == nil {
		return
	}
	if !errors.Is(err, tree.ErrInvalidOperation) {
		c.logger.LogError(c.ctx, err)
	}
	c.setStatus("%v", err)
}

func (c *Controller) toCanvas(sx, sy float64) (float64, float64) {
	return sx + c.view.X, sy + c.view.Y
}

// PointerDown handles a press of the primary button at window position
// (sx, sy). A second press close in time and place is a double click.
func (c *Controller) PointerDown(sx, sy float64, now time.Time) {
	if c.dialog != nil {
		return
	}
	x, y := c.toCanvas(sx, sy)
	at := geometry.Point{X: sx, Y: sy}
	double := !c.lastPress.IsZero() &&
		now.Sub(c.lastPress) <= DoubleClickInterval &&
		math.Abs(at.X-c.lastAt.X) <= DoubleClickSlop &&
		math.Abs(at.Y-c.lastAt.Y) <= DoubleClickSlop
	c.lastPress, c.lastAt = now, at

	if double {
		c.lastPress = time.Time{}
		c.pressed = false
		c.doubleClick(x, y)
		return
	}
	c.pressed = true
	c.session.Click(x, y)
}

func (c *Controller) doubleClick(x, y float64) {
	switch c.session.DoubleClick(x, y) {
	case session.IntentEditText:
		c.Do(ActionEditText)
	case session.IntentAddChild:
		c.Do(ActionAddChild)
	}
}

// PointerMove handles cursor movement while the button is held.
func (c *Controller) PointerMove(sx, sy float64) {
	if !c.pressed {
		return
	}
	x, y := c.toCanvas(sx, sy)
	c.session.Drag(x, y)
}

// PointerUp handles the release of the primary button.
func (c *Controller) PointerUp() {
	if !c.pressed {
		return
	}
	c.pressed = false
	if _, err := c.session.Release(); err != nil {
		c.report(err)
	}
}

// NotifyDiskChange is called when the file watcher saw the current file change.
func (c *Controller) NotifyDiskChange() {
	changed, err := c.session.ChangedOnDisk()
	if err != nil || !changed {
		return
	}
	c.diskChanged = true
	c.setStatus("The file was changed by another program. Press Ctrl+R to reload it.")
}

// DiskChanged reports whether the current file changed on disk since it was
// last loaded or saved from this window.
func (c *Controller) DiskChanged() bool {
	return c.diskChanged
}
