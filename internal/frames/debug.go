package frames

import (
	"io"
	"log"
	"sync"
)

// LogWriters holds the io.Writers for each logging stream. A nil writer
// disables that stream; all three are disabled until SetLogWriters is called.
type LogWriters struct {
	Ops   io.Writer // rejected hierarchies, misuse
	Diag  io.Writer // registry lifecycle
	Trace io.Writer // per-transform updates and conversions
}

const logPrefix = "[frames] "

// stream is one independently switchable logger.
type stream struct {
	mu sync.RWMutex
	l  *log.Logger
}

func (s *stream) set(w io.Writer) {
	var l *log.Logger
	if w != nil {
		l = log.New(w, logPrefix, log.LstdFlags|log.Lmicroseconds)
	}
	s.mu.Lock()
	s.l = l
	s.mu.Unlock()
}

func (s *stream) printf(format string, args []interface{}) {
	s.mu.RLock()
	l := s.l
	s.mu.RUnlock()
	if l != nil {
		l.Printf(format, args...)
	}
}

var opsStream, diagStream, traceStream stream

// SetLogWriters replaces all three streams at once.
func SetLogWriters(w LogWriters) {
	opsStream.set(w.Ops)
	diagStream.set(w.Diag)
	traceStream.set(w.Trace)
}

// Opsf logs to the ops stream.
func Opsf(format string, args ...interface{}) { opsStream.printf(format, args) }

// Diagf logs to the diag stream.
func Diagf(format string, args ...interface{}) { diagStream.printf(format, args) }

// Tracef logs to the trace stream. Conversions call it once per point, so
// leave it disabled outside debugging.
func Tracef(format string, args ...interface{}) { traceStream.printf(format, args) }
