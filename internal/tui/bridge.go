package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/engine"
)

// UpdateMsg carries the result of a tail pass
type UpdateMsg engine.Update

// NoteMsg carries a monitor notification
type NoteMsg struct{ domain.Notification }

// ErrMsg is a message containing an error
type ErrMsg struct{ Err error }

// Bridge feeds a running session into the program. It implements engine.Sink.
type Bridge struct {
	ch   chan tea.Msg
	done <-chan struct{}
}

// NewBridge creates a bridge whose sends give up once done is closed
func NewBridge(done <-chan struct{}) *Bridge {
	return &Bridge{ch: make(chan tea.Msg, 64), done: done}
}

func (b *Bridge) send(msg tea.Msg) {
	select {
	case b.ch <- msg:
	case <-b.done:
	}
}

func (b *Bridge) OnUpdate(u engine.Update)              { b.send(UpdateMsg(u)) }
func (b *Bridge) OnNotification(n domain.Notification) { b.send(NoteMsg{n}) }
func (b *Bridge) OnError(err error)                     { b.send(ErrMsg{err}) }

// Messages returns the channel the model reads from
func (b *Bridge) Messages() <-chan tea.Msg {
	return b.ch
}
