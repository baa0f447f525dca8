// Package shutdown coordinates graceful process teardown. Handlers register
// as resources come up and run in reverse order on the way down, so the HTTP
// server stops before the broker, and the broker before the database.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Logger is the slice of the logging surface this package needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Handler is one named cleanup step.
type Handler struct {
	Name    string
	Cleanup func(ctx context.Context) error
}

// Manager runs registered cleanup handlers LIFO when a shutdown signal
// arrives, bounded by a single overall timeout.
type Manager struct {
	log     Logger
	timeout time.Duration

	mu       sync.Mutex
	handlers []Handler

	once sync.Once
	done chan struct{}
}

func NewManager(log Logger, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Manager{
		log:     log,
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// Register adds a cleanup handler. Later registrations run earlier.
func (m *Manager) Register(name string, cleanup func(ctx context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, Handler{Name: name, Cleanup: cleanup})
	m.log.Debug("registered shutdown handler", "name", name)
}

// RegisterSimple adds a cleanup handler that takes no context and cannot fail.
func (m *Manager) RegisterSimple(name string, cleanup func()) {
	m.Register(name, func(context.Context) error {
		cleanup()
		return nil
	})
}

// Wait blocks until SIGINT, SIGTERM or SIGHUP, then runs the handlers.
func (m *Manager) Wait() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigCh
	m.log.Info("shutdown signal received", "signal", sig.String())

	m.Shutdown()
}

// WaitWithContext is Wait that also starts teardown when ctx is canceled.
func (m *Manager) WaitWithContext(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		m.log.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		m.log.Info("context canceled, starting shutdown")
	}

	m.Shutdown()
}

// Shutdown runs every handler in reverse registration order, one at a time.
// A failing handler is logged and does not stop the rest; the shared timeout
// bounds the whole teardown.
func (m *Manager) Shutdown() {
	m.once.Do(func() {
		m.mu.Lock()
		handlers := make([]Handler, len(m.handlers))
		copy(handlers, m.handlers)
		m.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		m.log.Info("starting graceful shutdown",
			"handlers", len(handlers), "timeout", m.timeout.String())

		warned := false
		for i := len(handlers) - 1; i >= 0; i-- {
			h := handlers[i]
			start := time.Now()

			if err := h.Cleanup(ctx); err != nil {
				m.log.Error("shutdown handler failed",
					"name", h.Name,
					"error", err.Error(),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			} else {
				m.log.Debug("shutdown handler completed",
					"name", h.Name,
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}

			if ctx.Err() != nil && i > 0 && !warned {
				warned = true
				m.log.Warn("shutdown timeout exceeded, remaining handlers run with an expired context",
					"remaining", i)
			}
		}

		m.log.Info("graceful shutdown completed")
		close(m.done)
	})
}

// Done is closed once Shutdown has finished.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}
