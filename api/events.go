package api

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/freebox/access"
)

const (
	// Time allowed to write a message to the device
	writeWait = 10 * time.Second

	// Time allowed for the device to acknowledge a registration
	registerWait = 10 * time.Second

	// Buffered notifications per subscription
	eventBuffer = 32
)

// Event names accepted by Subscribe
const (
	EventVMStateChanged           = "vm_state_changed"
	EventVMDiskTaskDone           = "vm_disk_task_done"
	EventLANHostL3AddrReachable   = "lan_host_l3addr_reachable"
	EventLANHostL3AddrUnreachable = "lan_host_l3addr_unreachable"
)

// Event is a notification pushed by the device
type Event struct {
	Source string          `json:"source"` // e.g. vm, lan_host
	Name   string          `json:"event"`  // e.g. state_changed
	Result json.RawMessage `json:"result"`
}

// Decode unmarshals the event payload into v
func (e Event) Decode(v any) error {
	if len(e.Result) == 0 {
		return nil
	}
	return json.Unmarshal(e.Result, v)
}

// eventMessage is any frame the device sends on ws/event
type eventMessage struct {
	Action    string          `json:"action"` // register or notification
	Success   bool            `json:"success"`
	ErrorCode string          `json:"error_code"`
	Msg       string          `json:"msg"`
	Source    string          `json:"source"`
	Event     string          `json:"event"`
	Result    json.RawMessage `json:"result"`
}

// Events exposes the ws/event notification socket
type Events struct {
	c Caller
}

// NewEvents creates the notification module
func NewEvents(c Caller) *Events {
	return &Events{c: c}
}

// Subscribe opens the notification socket and registers for the named
// events. Notifications are delivered until ctx is cancelled or the
// subscription is closed.
func (m *Events) Subscribe(ctx context.Context, names ...string) (*Subscription, error) {
	if len(names) == 0 {
		return nil, access.NewRequestError("no event names given", nil)
	}

	conn, err := m.c.Dial(ctx, "ws/event")
	if err != nil {
		return nil, err
	}

	register := struct {
		Action string   `json:"action"`
		Events []string `json:"events"`
	}{Action: "register", Events: append([]string(nil), names...)}

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		_ = conn.Close()
		return nil, access.ClassifyNetworkError("event registration failed", err)
	}
	if err := conn.WriteJSON(register); err != nil {
		_ = conn.Close()
		return nil, access.ClassifyNetworkError("event registration failed", err)
	}

	if err := awaitRegistration(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger := callerLogger(m.c)
	sub := &Subscription{
		conn:   conn,
		logger: logger,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
	go sub.watch(ctx)
	go sub.readLoop()

	logger.Debug("Event subscription registered", zap.Strings("events", names))
	return sub, nil
}

// awaitRegistration waits for the device to acknowledge the register message
func awaitRegistration(conn *websocket.Conn) error {
	if err := conn.SetReadDeadline(time.Now().Add(registerWait)); err != nil {
		return access.ClassifyNetworkError("event registration failed", err)
	}
	defer func() { _ = conn.SetReadDeadline(time.Time{}) }()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return access.ClassifyNetworkError("event registration failed", err)
		}

		var msg eventMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return access.NewRequestError("invalid event registration reply", err)
		}
		if msg.Action != "register" {
			continue
		}
		if !msg.Success {
			return access.NewAPIError(fmt.Sprintf("event registration refused: %s", msg.Msg), msg.ErrorCode, 0, data)
		}
		return nil
	}
}

// Subscription is a live event stream
type Subscription struct {
	conn   *websocket.Conn
	logger *zap.Logger
	events chan Event
	done   chan struct{}

	closeOnce sync.Once

	mu  sync.Mutex
	err error
}

// C returns the notification channel. It is closed when the stream ends.
func (s *Subscription) C() <-chan Event {
	return s.events
}

// Err returns why the stream ended, or nil if it was closed normally
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close ends the subscription. The stream also closes itself when the
// device ends it.
func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		err = s.conn.Close()
	})
	return err
}

func (s *Subscription) watch(ctx context.Context) {
	select {
	case <-ctx.Done():
		_ = s.Close()
	case <-s.done:
	}
}

func (s *Subscription) readLoop() {
	defer close(s.events)
	defer func() { _ = s.Close() }()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.setErr(access.ClassifyNetworkError("event stream closed", err))
				}
			}
			return
		}

		var msg eventMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("Ignoring malformed event", zap.Error(err), zap.Int("length", len(data)))
			continue
		}
		if msg.Action != "notification" {
			continue
		}

		select {
		case s.events <- Event{Source: msg.Source, Name: msg.Event, Result: msg.Result}:
		case <-s.done:
			return
		}
	}
}

func (s *Subscription) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}
