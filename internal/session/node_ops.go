package session

import (
	"fmt"
	"strings"

	"mindnoscape/canvas-app/internal/event"
	"mindnoscape/canvas-app/internal/log"
	"mindnoscape/canvas-app/internal/tree"
)

func (s *Session) requireSelection() (*tree.Node, error) {
	if s.selected == nil || !s.tree.Contains(s.selected) {
		s.selected = nil
		return nil, ErrNoSelection
	}
	return s.selected, nil
}

// AddChild adds a child labeled label under the selected node. An empty label
// is a cancelled dialog and does nothing.
func (s *Session) AddChild(label string) (*tree.Node, error) {
	parent, err := s.requireSelection()
	if err != nil {
		return nil, err
	}
	if label == "" {
		return nil, nil
	}
	child, err := s.tree.AddChild(parent, label)
	if err != nil {
		return nil, fmt.Errorf("failed to add node: %w", err)
	}
	s.publish(event.NodeAdded, event.NodeData{Tree: s.tree, Node: child})
	if err := s.commit(); err != nil {
		return child, err
	}
	s.logger.Info(s.ctx, "Node added", log.Fields{"id": child.ID, "parent": parent.ID, "text": label})
	return child, nil
}

// DeleteSelected removes the selected node and its subtree. The root cannot
// be deleted.
func (s *Session) DeleteSelected() ([]tree.NodeID, error) {
	n, err := s.requireSelection()
	if err != nil {
		return nil, err
	}
	ids, err := s.tree.DeleteSubtree(n)
	if err != nil {
		return nil, fmt.Errorf("failed to delete node: %w", err)
	}
	s.selected = nil
	s.highlighted = without(s.highlighted, ids)
	s.publish(event.NodeDeleted, event.DeleteData{Tree: s.tree, IDs: ids})
	s.publish(event.SelectionChanged, event.SelectionData{Tree: s.tree, Previous: n.ID})
	if err := s.commit(); err != nil {
		return ids, err
	}
	s.logger.Info(s.ctx, "Subtree deleted", log.Fields{"root": n.ID, "count": len(ids)})
	return ids, nil
}

func without(ids, removed []tree.NodeID) []tree.NodeID {
	if len(ids) == 0 {
		return ids
	}
	gone := make(map[tree.NodeID]bool, len(removed))
	for _, id := range removed {
		gone[id] = true
	}
	kept := ids[:0]
	for _, id := range ids {
		if !gone[id] {
			kept = append(kept, id)
		}
	}
	return kept
}

// EditText replaces the label of the selected node.
func (s *Session) EditText(text string) error {
	n, err := s.requireSelection()
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	if err := s.tree.EditText(n, text); err != nil {
		return fmt.Errorf("failed to edit node: %w", err)
	}
	s.publish(event.NodeUpdated, event.NodeData{Tree: s.tree, Node: n})
	return s.commit()
}

// SetColor changes the fill color of the selected node. The color must be a
// known color name or a hex value.
func (s *Session) SetColor(color string) error {
	n, err := s.requireSelection()
	if err != nil {
		return err
	}
	color = strings.TrimSpace(color)
	if color == "" {
		return nil
	}
	if err := s.tree.SetColor(n, color); err != nil {
		return fmt.Errorf("failed to set color: %w", err)
	}
	s.publish(event.NodeUpdated, event.NodeData{Tree: s.tree, Node: n})
	return s.commit()
}

// Undo restores the previous committed state. It reports false when there is
// nothing to undo.
func (s *Session) Undo() (bool, error) {
	t, ok, err := s.history.Undo(s.tree)
	if err != nil || !ok {
		return false, err
	}
	s.replaceTree(t, s.currentFile)
	s.modified = true
	return true, nil
}

// Redo re-applies the last undone state.
func (s *Session) Redo() (bool, error) {
	t, ok, err := s.history.Redo(s.tree)
	if err != nil || !ok {
		return false, err
	}
	s.replaceTree(t, s.currentFile)
	s.modified = true
	return true, nil
}

// Search outlines every node whose label contains query, ignoring case, and
// scrolls to the first match. An empty query changes nothing.
func (s *Session) Search(query string) []*tree.Node {
	if query == "" {
		return nil
	}
	matches := s.tree.FindByTextSubstring(query)
	ids := make([]tree.NodeID, len(matches))
	for i, n := range matches {
		ids[i] = n.ID
	}
	s.highlighted = ids
	s.publish(event.HighlightChanged, event.HighlightData{Tree: s.tree, IDs: ids})
	if len(matches) > 0 {
		s.publish(event.ViewCentered, event.CenterData{Tree: s.tree, Node: matches[0]})
	}
	s.logger.Debug(s.ctx, "Search", log.Fields{"query": query, "matches": len(matches)})
	return matches
}

// ClearHighlights removes the search outlines.
func (s *Session) ClearHighlights() {
	if len(s.highlighted) == 0 {
		return
	}
	s.highlighted = nil
	s.publish(event.HighlightChanged, event.HighlightData{Tree: s.tree})
}

// CenterOnSelection scrolls the view to the selected node.
func (s *Session) CenterOnSelection() error {
	n, err := s.requireSelection()
	if err != nil {
		return err
	}
	s.publish(event.ViewCentered, event.CenterData{Tree: s.tree, Node: n})
	return nil
}

// CopySelection puts an indented outline of the selected subtree on the
// clipboard and returns it.
func (s *Session) CopySelection() (string, error) {
	n, err := s.requireSelection()
	if err != nil {
		return "", err
	}
	text := s.tree.Outline(n)
	if err := s.clipboard.WriteAll(text); err != nil {
		return text, fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return text, nil
}
