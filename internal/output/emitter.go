package output

import (
	"sync"

	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/engine"
	"github.com/vburojevic/ltail/internal/errs"
)

// Writer is implemented by the text and NDJSON writers
type Writer interface {
	WriteUpdate(path string, u engine.Update) error
	WriteNotification(n domain.Notification) error
	WriteError(code, message string, hint ...string) error
}

// Emitter serialises writes from a running session onto one Writer. It
// implements engine.Sink.
type Emitter struct {
	mu     sync.Mutex
	w      Writer
	path   string
	failed error
}

// NewEmitter creates an Emitter that labels updates with path
func NewEmitter(w Writer, path string) *Emitter {
	return &Emitter{w: w, path: path}
}

func (e *Emitter) OnUpdate(u engine.Update) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(e.w.WriteUpdate(e.path, u))
}

func (e *Emitter) OnNotification(n domain.Notification) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(e.w.WriteNotification(n))
}

func (e *Emitter) OnError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(e.w.WriteError(string(errs.Classify(err)), err.Error()))
}

// Err returns the first write error, for example a closed stdout pipe
func (e *Emitter) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failed
}

func (e *Emitter) record(err error) {
	if err != nil && e.failed == nil {
		e.failed = err
	}
}
