// Package session holds the state of one open document and implements the
// user level operations on it: pointer interaction, node editing, undo and
// redo, search, and document persistence.
//
// A Session is not safe for concurrent use. Front ends call it from a single
// goroutine (the REPL loop or the GUI update loop).
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"mindnoscape/canvas-app/internal/event"
	"mindnoscape/canvas-app/internal/geometry"
	"mindnoscape/canvas-app/internal/history"
	"mindnoscape/canvas-app/internal/log"
	"mindnoscape/canvas-app/internal/render"
	"mindnoscape/canvas-app/internal/storage"
	"mindnoscape/canvas-app/internal/tree"
)

var (
	// ErrNoSelection is returned by operations that need a selected node.
	ErrNoSelection = fmt.Errorf("%w: no node selected", tree.ErrInvalidOperation)
	// ErrNoCurrentFile is returned by Save and Reload before the document has a file.
	ErrNoCurrentFile = errors.New("document has no file")
	// ErrNoLibrary is returned by library operations when no store is configured.
	ErrNoLibrary = errors.New("document library is not available")
)

// DefaultRecentLimit is the number of recent files kept when Options leaves it unset.
const DefaultRecentLimit = 5

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Options configures a new session.
type Options struct {
	Tree         tree.Options
	RootLabel    string
	HistoryLimit int
	RecentLimit  int

	// Store persists recent files and the document library. Optional.
	Store storage.Store
	// Clipboard defaults to the system clipboard.
	Clipboard Clipboard
	Logger    *log.Logger
}

type dragState struct {
	node   *tree.Node
	start  geometry.Point
	last   geometry.Point
	active bool
}

// Session owns the document tree together with everything that refers to its
// nodes: selection, drag state, search highlights and the rendered scene.
type Session struct {
	tree     *tree.Tree
	history  *history.Manager
	events   *event.EventManager
	canvas   *render.Canvas
	renderer *render.Renderer

	selected    *tree.Node
	drag        dragState
	highlighted []tree.NodeID

	currentFile string
	libraryName string
	savedDigest string
	modified    bool
	recent      []string

	opts      Options
	store     storage.Store
	clipboard Clipboard
	logger    *log.Logger
	ctx       context.Context
}

// New creates a session holding a fresh document. The initial state is
// committed so it can never be undone.
func New(opts Options) (*Session, error) {
	if opts.Tree.Bounds.Width() <= 0 || opts.Tree.Bounds.Height() <= 0 {
		opts.Tree = tree.DefaultOptions()
	}
	if opts.RootLabel == "" {
		opts.RootLabel = "Central Idea"
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	if opts.Clipboard == nil {
		opts.Clipboard = systemClipboard{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewDiscard()
	}

	bounds := opts.Tree.Bounds
	s := &Session{
		history:   history.NewManager(opts.HistoryLimit),
		events:    event.NewEventManager(opts.Logger),
		canvas:    render.NewCanvas(bounds.Width(), bounds.Height()),
		opts:      opts,
		store:     opts.Store,
		clipboard: opts.Clipboard,
		logger:    opts.Logger,
		ctx:       context.Background(),
	}
	s.renderer = render.NewRenderer(s.canvas)
	s.renderer.Attach(s.events)

	if s.store != nil {
		recent, err := s.store.RecentList(opts.RecentLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to load recent files: %w", err)
		}
		s.recent = recent
	}

	s.replaceTree(tree.New(opts.RootLabel, opts.Tree), "")
	if err := s.history.Reset(s.tree); err != nil {
		return nil, err
	}
	return s, nil
}

// Tree returns the live document. Nodes obtained from it become stale after
// Undo, Redo, New, Load and LibraryOpen.
func (s *Session) Tree() *tree.Tree { return s.tree }

// Selected returns the selected node or nil.
func (s *Session) Selected() *tree.Node { return s.selected }

func (s *Session) Canvas() *render.Canvas { return s.canvas }

func (s *Session) Renderer() *render.Renderer { return s.renderer }

func (s *Session) History() *history.Manager { return s.history }

// Events returns the bus the session publishes document changes on.
func (s *Session) Events() *event.EventManager { return s.events }

// CurrentFile returns the path the document was loaded from or saved to.
func (s *Session) CurrentFile() string { return s.currentFile }

// LibraryName returns the library entry the document was opened from, if any.
func (s *Session) LibraryName() string { return s.libraryName }

// Modified reports whether the document changed since it was last saved or loaded.
func (s *Session) Modified() bool { return s.modified }

// Highlighted returns the nodes matched by the last search.
func (s *Session) Highlighted() []tree.NodeID {
	return append([]tree.NodeID(nil), s.highlighted...)
}

// Resize changes the canvas bounds used for clamping new nodes and the viewport.
func (s *Session) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	s.opts.Tree.Bounds = geometry.NewRect(0, 0, width, height)
	s.tree.SetBounds(s.opts.Tree.Bounds)
	s.canvas.Resize(width, height)
	s.publish(event.ViewResized, event.ResizeData{Width: width, Height: height})
}

// replaceTree installs t as the live document and drops every reference to
// nodes of the previous one.
func (s *Session) replaceTree(t *tree.Tree, path string) {
	t.SetBounds(s.opts.Tree.Bounds)
	s.tree = t
	s.selected = nil
	s.drag = dragState{}
	s.highlighted = nil
	s.publish(event.DocumentReplaced, event.DocumentData{Tree: t, Path: path})
}

// commit records the current tree as one undo step.
func (s *Session) commit() error {
	if err := s.history.Commit(s.tree); err != nil {
		s.logger.Error(s.ctx, "Failed to commit history", log.Fields{"error": err})
		return err
	}
	s.modified = true
	return nil
}

func (s *Session) publish(t event.EventType, data interface{}) {
	s.events.Publish(event.Event{Type: t, Data: data})
}

func (s *Session) setSelected(n *tree.Node) {
	prev := tree.NodeID(0)
	if s.selected != nil {
		prev = s.selected.ID
	}
	s.selected = n
	cur := tree.NodeID(0)
	if n != nil {
		cur = n.ID
	}
	if prev != cur {
		s.publish(event.SelectionChanged, event.SelectionData{Tree: s.tree, Previous: prev, Current: cur})
	}
}
