package control

import (
	"strings"
	"testing"
	"time"

	"mindnoscape/canvas-app/internal/geometry"
	"mindnoscape/canvas-app/internal/session"
)

type nopClipboard struct{ text string }

func (c *nopClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func newController(t *testing.T) (*Controller, *session.Session) {
	t.Helper()
	s, err := session.New(session.Options{Clipboard: &nopClipboard{}})
	if err != nil {
		t.Fatal(err)
	}
	return New(s, nil), s
}

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func click(c *Controller, x, y float64, at time.Time) {
	c.PointerDown(x, y, at)
	c.PointerUp()
}

func TestDragMovesNode(t *testing.T) {
	c, s := newController(t)
	root := s.Tree().Root()

	c.PointerDown(400, 300, t0)
	if s.Selected() != root {
		t.Fatal("press on the root should select it")
	}
	c.PointerMove(420, 310)
	c.PointerMove(450, 320)
	c.PointerUp()

	if root.X != 450 || root.Y != 320 {
		t.Fatalf("root at (%v, %v)", root.X, root.Y)
	}
	if !s.History().CanUndo() {
		t.Fatal("drag should be undoable")
	}

	c.Do(ActionUndo)
	if root := s.Tree().Root(); root.X != 400 || root.Y != 300 {
		t.Fatalf("after undo root at (%v, %v)", root.X, root.Y)
	}
}

func TestMoveWithoutPressIsIgnored(t *testing.T) {
	c, s := newController(t)
	c.PointerMove(100, 100)
	c.PointerUp()
	if s.History().CanUndo() {
		t.Fatal("nothing should be committed")
	}
}

func TestDoubleClickOnNodeEditsText(t *testing.T) {
	c, s := newController(t)

	click(c, 400, 300, t0)
	c.PointerDown(401, 299, t0.Add(200*time.Millisecond))

	d := c.Dialog()
	if d == nil {
		t.Fatal("double click on a node should open the text dialog")
	}
	if string(d.Text) != "Central Idea" {
		t.Fatalf("dialog text = %q", string(d.Text))
	}
	for i := 0; i < len("Idea"); i++ {
		c.Backspace()
	}
	c.TypeRunes([]rune("Topic"))
	c.Submit()

	if c.Dialog() != nil {
		t.Fatal("dialog should close on submit")
	}
	if got := s.Tree().Root().Text; got != "Central Topic" {
		t.Fatalf("root text = %q", got)
	}
}

func TestSlowOrDistantClicksAreNotDouble(t *testing.T) {
	c, _ := newController(t)

	click(c, 400, 300, t0)
	click(c, 400, 300, t0.Add(time.Second))
	if c.Dialog() != nil {
		t.Fatal("slow clicks opened a dialog")
	}

	click(c, 400, 300, t0.Add(2*time.Second))
	click(c, 420, 300, t0.Add(2*time.Second+100*time.Millisecond))
	if c.Dialog() != nil {
		t.Fatal("distant clicks opened a dialog")
	}
}

func TestDoubleClickOnEmptyCanvasNeedsSelection(t *testing.T) {
	c, s := newController(t)

	click(c, 50, 50, t0)
	c.PointerDown(50, 50, t0.Add(100*time.Millisecond))
	c.PointerUp()

	if c.Dialog() != nil {
		t.Fatal("no dialog expected without a selection")
	}
	if !strings.Contains(c.Status(), "no node selected") {
		t.Fatalf("status = %q", c.Status())
	}
	if s.Tree().Len() != 1 {
		t.Fatal("tree changed")
	}
}

func TestAddChildDialog(t *testing.T) {
	c, s := newController(t)
	click(c, 400, 300, t0)

	c.Do(ActionAddChild)
	c.Submit()
	if s.Tree().Len() != 1 {
		t.Fatal("empty text should cancel")
	}

	c.Do(ActionAddChild)
	c.TypeRunes([]rune("Idea A"))
	c.Cancel()
	if s.Tree().Len() != 1 {
		t.Fatal("cancel should not add a node")
	}

	c.Do(ActionAddChild)
	c.TypeRunes([]rune("Idea A"))
	c.Submit()
	if s.Tree().Len() != 2 {
		t.Fatalf("tree has %d nodes", s.Tree().Len())
	}
	if got := s.Tree().Root().Children()[0].Text; got != "Idea A" {
		t.Fatalf("child text = %q", got)
	}
}

func TestActionsIgnoredWhileDialogOpen(t *testing.T) {
	c, s := newController(t)
	click(c, 400, 300, t0)
	c.Do(ActionFind)

	c.Do(ActionDelete)
	c.PointerDown(10, 10, t0.Add(time.Second))
	if s.Selected() == nil {
		t.Fatal("input reached the session while a dialog was open")
	}

	c.TypeRunes([]rune("central"))
	c.Submit()
	if !strings.Contains(c.Status(), "1 match") {
		t.Fatalf("status = %q", c.Status())
	}
	if len(s.Highlighted()) != 1 {
		t.Fatal("search did not highlight the root")
	}

	c.Do(ActionEscape)
	if len(s.Highlighted()) != 0 || s.Selected() != nil {
		t.Fatal("escape should clear highlights and selection")
	}
}

func TestCenterPansSmoothly(t *testing.T) {
	c, s := newController(t)
	s.Resize(400, 300)
	c.Update(0)

	click(c, 400, 300, t0)
	c.Do(ActionCenter)
	if !c.Panning() {
		t.Fatal("center should start a pan")
	}

	c.Update(PanDuration / 2)
	mid := c.View().Min
	if mid.X <= 0 || mid.X >= 200 || mid.Y <= 0 || mid.Y >= 150 {
		t.Fatalf("halfway view at %v", mid)
	}

	c.Update(PanDuration)
	if c.Panning() {
		t.Fatal("pan should have finished")
	}
	view := c.View()
	if view.Min != (geometry.Point{X: 200, Y: 150}) || view.Width() != 400 || view.Height() != 300 {
		t.Fatalf("view = %v", view)
	}

	// Window coordinates are now offset by the view origin.
	click(c, 200, 150, t0.Add(time.Second))
	if s.Selected() != s.Tree().Root() {
		t.Fatal("click at the window center should hit the root")
	}
}

func TestDirtyAndStatus(t *testing.T) {
	c, _ := newController(t)
	if !c.Dirty() {
		t.Fatal("first frame must be drawn")
	}
	if c.Dirty() {
		t.Fatal("Dirty should clear the flag")
	}

	click(c, 400, 300, t0)
	if !c.Dirty() {
		t.Fatal("selection should repaint")
	}

	c.Do(ActionRedo)
	if c.Status() != "Nothing to redo" {
		t.Fatalf("status = %q", c.Status())
	}
	c.Update(StatusDuration + 1)
	if c.Status() != "" {
		t.Fatal("status should expire")
	}
}

func TestSaveWithoutFileAsksForPath(t *testing.T) {
	c, s := newController(t)
	c.Do(ActionSave)
	if c.Dialog() == nil {
		t.Fatal("save of an untitled map should ask for a path")
	}

	path := t.TempDir() + "/map.json"
	c.TypeRunes([]rune(path))
	c.Submit()
	if s.CurrentFile() != path || s.Modified() {
		t.Fatalf("file %q modified %v", s.CurrentFile(), s.Modified())
	}

	c.Do(ActionOpen)
	c.TypeRunes([]rune(path + ".missing"))
	c.Submit()
	if c.Status() == "" || s.CurrentFile() != path {
		t.Fatal("failed open should report and keep the document")
	}
}

func TestQuitWithUnsavedChanges(t *testing.T) {
	c, _ := newController(t)
	if !c.Quit() {
		t.Fatal("an unchanged map may close at once")
	}

	c2, s := newController(t)
	click(c2, 400, 300, t0)
	c2.Do(ActionAddChild)
	c2.TypeRunes([]rune("A"))
	c2.Submit()
	if !s.Modified() {
		t.Fatal("map should be modified")
	}
	if c2.Quit() {
		t.Fatal("first close with unsaved changes should be refused")
	}
	if !strings.Contains(c2.Status(), "unsaved changes") {
		t.Fatalf("status = %q", c2.Status())
	}
	if !c2.Quit() {
		t.Fatal("second close should be honored")
	}
}

func TestResizeRepaints(t *testing.T) {
	c, s := newController(t)
	c.Dirty()

	s.Resize(1024, 768)
	if !c.Dirty() {
		t.Fatal("a resized window must be repainted")
	}
	if v := c.View(); v.Width() != 1024 || v.Height() != 768 {
		t.Fatalf("view = %v", v)
	}

	s.Resize(0, 768)
	if c.Dirty() {
		t.Fatal("an ignored resize should not repaint")
	}
}

func TestUndoRedoAvailability(t *testing.T) {
	c, s := newController(t)
	c.Do(ActionUndo)
	if c.Status() != "Nothing to undo" {
		t.Fatalf("status = %q", c.Status())
	}

	click(c, 400, 300, t0)
	c.Do(ActionAddChild)
	c.TypeRunes([]rune("A"))
	c.Submit()
	c.Do(ActionUndo)
	if s.Tree().Len() != 1 || !s.History().CanRedo() {
		t.Fatal("undo should remove the child and allow redo")
	}
	c.Do(ActionRedo)
	if s.Tree().Len() != 2 || s.History().CanRedo() {
		t.Fatal("redo should restore the child")
	}
}
