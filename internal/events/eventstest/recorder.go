package eventstest

import (
	"context"
	"sync"

	"github.com/smallbiznis/crm/internal/events"
)

// Recorder is an in-memory Publisher that keeps every envelope it receives.
type Recorder struct {
	mu   sync.Mutex
	envs []events.Envelope
	Err  error
}

func (r *Recorder) Name() string { return "recorder" }

func (r *Recorder) Publish(_ context.Context, env events.Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.envs = append(r.envs, env)
	return nil
}

func (r *Recorder) Envelopes() []events.Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Envelope, len(r.envs))
	copy(out, r.envs)
	return out
}

// Types returns the event types in publish order.
func (r *Recorder) Types() []string {
	envs := r.Envelopes()
	out := make([]string, len(envs))
	for i, env := range envs {
		out[i] = env.EventType
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.envs = nil
	r.mu.Unlock()
}
