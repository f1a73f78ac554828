// Package event handles triggering of operations without direct dependency
// between the session that mutates a document and the views that show it.
package event

import (
	"context"
	"fmt"
	"sync"

	"mindnoscape/canvas-app/internal/log"
	"mindnoscape/canvas-app/internal/tree"
)

// EventType represents the type of event
type EventType int

const (
	NodeAdded EventType = iota
	NodeDeleted
	NodeUpdated
	NodeMoved
	DocumentReplaced
	SelectionChanged
	HighlightChanged
	ViewCentered
	ViewResized
)

func (t EventType) String() string {
	switch t {
	case NodeAdded:
		return "NodeAdded"
	case NodeDeleted:
		return "NodeDeleted"
	case NodeUpdated:
		return "NodeUpdated"
	case NodeMoved:
		return "NodeMoved"
	case DocumentReplaced:
		return "DocumentReplaced"
	case SelectionChanged:
		return "SelectionChanged"
	case HighlightChanged:
		return "HighlightChanged"
	case ViewCentered:
		return "ViewCentered"
	case ViewResized:
		return "ViewResized"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event represents an event with its type and associated data
type Event struct {
	Type EventType
	Data interface{}
}

// NodeData accompanies NodeAdded, NodeUpdated and NodeMoved.
type NodeData struct {
	Tree *tree.Tree
	Node *tree.Node
	// DX and DY are the move delta of a NodeMoved event.
	DX, DY float64
}

// DeleteData accompanies NodeDeleted. IDs are in removal order.
type DeleteData struct {
	Tree *tree.Tree
	IDs  []tree.NodeID
}

// DocumentData accompanies DocumentReplaced.
type DocumentData struct {
	Tree *tree.Tree
	Path string
}

// SelectionData accompanies SelectionChanged. Zero IDs mean no node.
type SelectionData struct {
	Tree     *tree.Tree
	Previous tree.NodeID
	Current  tree.NodeID
}

// HighlightData accompanies HighlightChanged with the full set of matches.
type HighlightData struct {
	Tree *tree.Tree
	IDs  []tree.NodeID
}

// CenterData accompanies ViewCentered.
type CenterData struct {
	Tree *tree.Tree
	Node *tree.Node
}

// ResizeData accompanies ViewResized with the new viewport size.
type ResizeData struct {
	Width, Height float64
}

// EventHandler is a function type for event handlers
type EventHandler func(Event)

// EventManager manages event subscriptions and publications. Handlers run
// synchronously on the publishing goroutine, in subscription order.
type EventManager struct {
	subscribers map[EventType][]EventHandler
	mu          sync.RWMutex
	logger      *log.Logger
}

// NewEventManager creates a new EventManager instance
func NewEventManager(logger *log.Logger) *EventManager {
	if logger == nil {
		logger = log.NewDiscard()
	}
	return &EventManager{
		subscribers: make(map[EventType][]EventHandler),
		logger:      logger,
	}
}

// Subscribe adds a new event handler for a specific event type
func (em *EventManager) Subscribe(eventType EventType, handler EventHandler) {
	em.mu.Lock()
	defer em.mu.Unlock()
	em.subscribers[eventType] = append(em.subscribers[eventType], handler)
}

// Publish delivers an event to all subscribed handlers before returning.
// A panicking handler is logged and does not stop the others.
func (em *EventManager) Publish(event Event) {
	em.mu.RLock()
	handlers := append([]EventHandler(nil), em.subscribers[event.Type]...)
	em.mu.RUnlock()

	for _, h := range handlers {
		em.dispatch(h, event)
	}
}

func (em *EventManager) dispatch(h EventHandler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			em.logger.Error(context.Background(), "Panic in event handler", log.Fields{
				"event": event.Type.String(),
				"panic": fmt.Sprint(r),
			})
		}
	}()
	h(event)
}
