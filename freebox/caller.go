package freebox

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/freebox/access"
	"github.com/muurk/freebox/api"
)

// switchCaller is the Caller every module holds. It forwards to the Access
// bound by Open and fails with a not-open error while none is bound.
type switchCaller struct {
	mu     sync.RWMutex
	target api.Caller
	logger *zap.Logger
}

// Logger returns the logger the Freebox was built with
func (s *switchCaller) Logger() *zap.Logger {
	return s.logger
}

func (s *switchCaller) bind(target api.Caller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = target
}

func (s *switchCaller) current() (api.Caller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.target == nil {
		return nil, access.NewNotOpenError("freebox is not open, call Open first")
	}
	return s.target, nil
}

func (s *switchCaller) Get(ctx context.Context, path string) (*access.Response, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	return c.Get(ctx, path)
}

func (s *switchCaller) Post(ctx context.Context, path string, body any) (*access.Response, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	return c.Post(ctx, path, body)
}

func (s *switchCaller) Put(ctx context.Context, path string, body any) (*access.Response, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	return c.Put(ctx, path, body)
}

func (s *switchCaller) Delete(ctx context.Context, path string, body any) (*access.Response, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	return c.Delete(ctx, path, body)
}

func (s *switchCaller) Dial(ctx context.Context, path string) (*websocket.Conn, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	return c.Dial(ctx, path)
}
