package control

import (
	"errors"

	"mindnoscape/canvas-app/internal/session"
)

// Dialog returns the open text prompt, or nil.
func (c *Controller) Dialog() *Dialog {
	return c.dialog
}

func (c *Controller) openDialog(prompt, initial string, submit func(string) error) {
	c.dialog = &Dialog{Prompt: prompt, Text: []rune(initial), submit: submit}
	c.pressed = false
	c.dirty = true
}

// TypeRunes appends typed characters to the open dialog.
func (c *Controller) TypeRunes(rs []rune) {
	if c.dialog == nil || len(rs) == 0 {
		return
	}
	c.dialog.Text = append(c.dialog.Text, rs...)
	c.dirty = true
}

// Backspace removes the last character of the open dialog.
func (c *Controller) Backspace() {
	if c.dialog == nil || len(c.dialog.Text) == 0 {
		return
	}
	c.dialog.Text = c.dialog.Text[:len(c.dialog.Text)-1]
	c.dirty = true
}

// Submit closes the dialog and applies its text. Empty text cancels.
func (c *Controller) Submit() {
	d := c.dialog
	if d == nil {
		return
	}
	c.dialog = nil
	c.dirty = true
	if len(d.Text) == 0 {
		return
	}
	c.report(d.submit(string(d.Text)))
}

// Cancel closes the dialog without applying it.
func (c *Controller) Cancel() {
	if c.dialog != nil {
		c.dialog = nil
		c.dirty = true
	}
}

// Do runs a keyboard command. Commands that need text open a dialog.
func (c *Controller) Do(a Action) {
	if c.dialog != nil {
		return
	}
	c.quitArmed = false
	s := c.session
	switch a {
	case ActionUndo:
		if !s.History().CanUndo() {
			c.setStatus("Nothing to undo")
			return
		}
		_, err := s.Undo()
		c.report(err)
	case ActionRedo:
		if !s.History().CanRedo() {
			c.setStatus("Nothing to redo")
			return
		}
		_, err := s.Redo()
		c.report(err)
	case ActionNew:
		c.report(s.New())
	case ActionSave:
		err := s.Save()
		if errors.Is(err, session.ErrNoCurrentFile) {
			c.Do(ActionSaveAs)
			return
		}
		if err == nil {
			c.diskChanged = false
			c.setStatus("Saved %s", s.CurrentFile())
		}
		c.report(err)
	case ActionSaveAs:
		c.openDialog("Save as:", s.CurrentFile(), func(path string) error {
			if err := s.SaveAs(path); err != nil {
				return err
			}
			c.diskChanged = false
			c.setStatus("Saved %s", s.CurrentFile())
			return nil
		})
	case ActionOpen:
		c.openDialog("Open file:", "", func(path string) error {
			if err := s.Load(path); err != nil {
				return err
			}
			c.diskChanged = false
			c.setStatus("Loaded %s", s.CurrentFile())
			return nil
		})
	case ActionReload:
		if err := s.Reload(); err != nil {
			c.report(err)
			return
		}
		c.diskChanged = false
		c.setStatus("Reloaded %s", s.CurrentFile())
	case ActionExport:
		c.openDialog("Export to (.svg, .png, .json, .xml, .yaml):", "", func(path string) error {
			if err := s.Export(path); err != nil {
				return err
			}
			c.setStatus("Exported %s", path)
			return nil
		})
	case ActionFind:
		c.openDialog("Search:", "", func(query string) error {
			matches := s.Search(query)
			c.setStatus("%d match(es) for %q", len(matches), query)
			return nil
		})
	case ActionCopy:
		if _, err := s.CopySelection(); err != nil {
			c.report(err)
			return
		}
		c.setStatus("Copied to clipboard")
	case ActionDelete:
		_, err := s.DeleteSelected()
		c.report(err)
	case ActionAddChild:
		if s.Selected() == nil {
			c.report(session.ErrNoSelection)
			return
		}
		c.openDialog("New node text:", "", func(text string) error {
			_, err := s.AddChild(text)
			return err
		})
	case ActionEditText:
		n := s.Selected()
		if n == nil {
			c.report(session.ErrNoSelection)
			return
		}
		c.openDialog("Node text:", n.Text, s.EditText)
	case ActionColor:
		n := s.Selected()
		if n == nil {
			c.report(session.ErrNoSelection)
			return
		}
		c.openDialog("Color (name or #hex):", n.Color, s.SetColor)
	case ActionCenter:
		c.report(s.CenterOnSelection())
	case ActionEscape:
		s.ClearHighlights()
		s.ClearSelection()
	}
}

// Quit reports whether the window may close. With unsaved changes the first
// request only warns; a second one in a row is honored.
func (c *Controller) Quit() bool {
	if !c.session.Modified() || c.quitArmed {
		return true
	}
	c.quitArmed = true
	c.setStatus("There are unsaved changes. Close again to discard them.")
	return false
}
