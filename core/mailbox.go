package core

import "sync"

// Mailbox is a single-slot, last-write-wins value holder.
//
// Writers overwrite the current value; readers observe the latest value as of
// their invocation point, never a history. If multiple writes occur between
// reads the earlier writes are lost by design: a mailbox communicates current
// intent or status, not an event log.
type Mailbox struct {
	mu  sync.Mutex
	val any
	set bool
}

// Store overwrites the slot with v.
func (m *Mailbox) Store(v any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.val = v
	m.set = true
}

// Load returns the current value and whether a value has ever been stored.
func (m *Mailbox) Load() (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.val, m.set
}

// Clear empties the slot.
func (m *Mailbox) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.val = nil
	m.set = false
}

// clone returns a new Mailbox carrying the current value.
func (m *Mailbox) clone() *Mailbox {
	v, ok := m.Load()
	c := &Mailbox{}
	if ok {
		c.Store(v)
	}
	return c
}

// Channels bundles the three independent message mailboxes of a run.
//
// Write direction is a convention, not an enforced restriction: the driver
// writes Environment, hooks write EventMessage, sub-operations write
// RoutineMessage, and any role may read any mailbox.
type Channels struct {
	Environment    *Mailbox
	EventMessage   *Mailbox
	RoutineMessage *Mailbox
}

// NewChannels creates three empty mailboxes.
func NewChannels() *Channels {
	return &Channels{
		Environment:    &Mailbox{},
		EventMessage:   &Mailbox{},
		RoutineMessage: &Mailbox{},
	}
}

// Detach returns a scratch copy carrying the current values. Writes to the
// copy are invisible to the originals; used to isolate steps that did not opt
// into notify-context mode.
func (c *Channels) Detach() *Channels {
	return &Channels{
		Environment:    c.Environment.clone(),
		EventMessage:   c.EventMessage.clone(),
		RoutineMessage: c.RoutineMessage.clone(),
	}
}
