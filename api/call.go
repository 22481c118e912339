package api

import "context"

// Call types reported in the call log
const (
	CallMissed   = "missed"
	CallAccepted = "accepted"
	CallOutgoing = "outgoing"
)

// CallEntry is one line of the call log
type CallEntry struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Datetime  int64  `json:"datetime"`
	Number    string `json:"number"`
	Name      string `json:"name"`
	Duration  int    `json:"duration"`
	New       bool   `json:"new"`
	ContactID int    `json:"contact_id"`
	LineID    int    `json:"line_id"`
}

// Call exposes call/ endpoints
type Call struct {
	c Caller
}

// NewCall creates the call log module
func NewCall(c Caller) *Call {
	return &Call{c: c}
}

// Log returns the call log, newest first. Requires the calls permission.
func (m *Call) Log(ctx context.Context) ([]CallEntry, error) {
	return decode[[]CallEntry](m.c.Get(ctx, "call/log/"))
}

// Entry returns one call log entry
func (m *Call) Entry(ctx context.Context, id int) (CallEntry, error) {
	return decode[CallEntry](m.c.Get(ctx, "call/log/"+itoa(id)))
}

// MarkRead clears the new flag of an entry
func (m *Call) MarkRead(ctx context.Context, id int) (CallEntry, error) {
	body := struct {
		New bool `json:"new"`
	}{New: false}
	return decode[CallEntry](m.c.Put(ctx, "call/log/"+itoa(id), body))
}

// Delete removes an entry
func (m *Call) Delete(ctx context.Context, id int) error {
	return done(m.c.Delete(ctx, "call/log/"+itoa(id), nil))
}

// DeleteAll empties the call log
func (m *Call) DeleteAll(ctx context.Context) error {
	return done(m.c.Post(ctx, "call/log/delete_all/", nil))
}

// MarkAllRead clears the new flag of every entry
func (m *Call) MarkAllRead(ctx context.Context) error {
	return done(m.c.Post(ctx, "call/log/mark_all_as_read/", nil))
}
