// events.go - Domain events and fan-out to every configured sink

package events

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// KindFoodLogSaved is emitted after an entry and its streak update commit.
const KindFoodLogSaved = "foodlog.saved"

// Event is what subscribers receive, serialized as JSON.
type Event struct {
	Kind   string    `json:"kind"`
	UserID uint      `json:"userId"`
	At     time.Time `json:"at"`
	Data   any       `json:"data"`
}

// Publisher delivers events to one sink (broker, websocket clients, ...).
type Publisher interface {
	Publish(ev Event) error
}

// Fanout sends every event to all of its sinks. A failing sink never stops the others.
type Fanout struct {
	sinks   []Publisher
	log     *slog.Logger
	pending sync.WaitGroup
}

func NewFanout(log *slog.Logger, sinks ...Publisher) *Fanout {
	if log == nil {
		log = slog.Default()
	}
	f := &Fanout{log: log}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

func (f *Fanout) Publish(ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	var errs []error
	for _, s := range f.sinks {
		if err := s.Publish(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Emit publishes ev and only logs failures; saving food must not depend on subscribers.
func (f *Fanout) Emit(ev Event) {
	if err := f.Publish(ev); err != nil {
		f.log.Warn("event delivery failed", "kind", ev.Kind, "user_id", ev.UserID, "error", err)
	}
}

// EmitAsync runs Emit on its own goroutine so a slow sink never holds up the caller.
func (f *Fanout) EmitAsync(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	f.pending.Add(1)
	go func() {
		defer f.pending.Done()
		f.Emit(ev)
	}()
}

// Wait blocks until every EmitAsync call has finished delivering.
func (f *Fanout) Wait() {
	f.pending.Wait()
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(Event) error { return nil }
