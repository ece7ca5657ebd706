// Package deleteflow is the delete confirmation state machine:
//
//	idle -> confirming -> deleting -> idle
//	confirming -> idle (cancel)
//
// A failed delete also returns to idle; the caller surfaces the error at the
// page level.
package deleteflow

import (
	"context"
	"errors"
	"sync"

	"tourdesk/internal/model"
)

type State int

const (
	Idle State = iota
	Confirming
	Deleting
)

func (s State) String() string {
	switch s {
	case Confirming:
		return "confirming"
	case Deleting:
		return "deleting"
	default:
		return "idle"
	}
}

var (
	ErrNoTarget      = errors.New("delete requires a target record")
	ErrNotConfirming = errors.New("no delete awaiting confirmation")
)

type Deleter interface {
	Delete(ctx context.Context, resource, id string) error
}

type Machine struct {
	resource string

	mu     sync.Mutex
	state  State
	target model.Record
}

func New(resource string) *Machine {
	return &Machine{resource: resource}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Target() model.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.target
}

// Begin opens the confirmation for rec. Only valid from idle.
func (m *Machine) Begin(rec model.Record) error {
	if rec == nil || rec.ID() == "" {
		return ErrNoTarget
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Idle {
		return ErrNotConfirming
	}
	m.state = Confirming
	m.target = rec
	return nil
}

func (m *Machine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Deleting {
		return
	}
	m.state = Idle
	m.target = nil
}

// Confirm issues exactly one delete request for the target and returns its
// id. The machine is back to idle whatever the outcome.
func (m *Machine) Confirm(ctx context.Context, d Deleter) (string, error) {
	m.mu.Lock()
	if m.state != Confirming || m.target == nil {
		m.mu.Unlock()
		return "", ErrNotConfirming
	}
	m.state = Deleting
	id := m.target.ID()
	m.mu.Unlock()

	err := d.Delete(ctx, m.resource, id)

	m.mu.Lock()
	m.state = Idle
	m.target = nil
	m.mu.Unlock()
	return id, err
}
