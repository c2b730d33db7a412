package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// WatcherQueueSize is how many live messages a watcher may fall behind
	// before it is dropped.
	WatcherQueueSize = 64
	WatcherWriteWait = 10 * time.Second
)

// MessageWriter is satisfied by *websocket.Conn.
type MessageWriter interface {
	WriteJSON(v interface{}) error
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// Watcher is a read-only websocket client following a debate. Messages are
// queued on Send and written to Conn by Pump, never under the debate lock.
type Watcher struct {
	Id   uuid.UUID     `json:"watcherid"`
	Name string        `json:"watchername"`
	Conn MessageWriter `json:"-"`
	Send chan Message  `json:"-"`
}

func NewWatcher(name string, conn MessageWriter) *Watcher {
	return &Watcher{
		Id:   uuid.New(),
		Name: name,
		Conn: conn,
	}
}

// Pump writes queued messages until Send is closed or a write fails.
func (w *Watcher) Pump() error {
	for m := range w.Send {
		if d, ok := w.Conn.(writeDeadliner); ok {
			_ = d.SetWriteDeadline(time.Now().Add(WatcherWriteWait))
		}
		if err := w.Conn.WriteJSON(m); err != nil {
			return err
		}
	}
	return nil
}
