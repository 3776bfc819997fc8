package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ShutdownFunc describes a graceful shutdown callback.
type ShutdownFunc func(ctx context.Context) error

type entry struct {
	name string
	fn   ShutdownFunc
}

// Manager coordinates graceful shutdown of the server's components. It
// stops them in reverse registration order so dependents go down before
// the stores they use.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	entries []entry
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		timeout: timeout,
		logger:  logger,
	}
}

// Register adds a shutdown hook under a component name.
func (m *Manager) Register(name string, fn ShutdownFunc) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.entries = append(m.entries, entry{name: name, fn: fn})
	m.mu.Unlock()
}

// Shutdown runs every registered hook under the configured timeout and
// joins their failures. A failed hook never stops the remaining ones.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	m.mu.Lock()
	entries := make([]entry, len(m.entries))
	copy(entries, m.entries)
	m.mu.Unlock()

	var result error
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		started := time.Now()
		if err := e.fn(ctx); err != nil {
			m.logger.Error("shutdown hook failed", zap.String("component", e.name), zap.Error(err))
			result = errors.Join(result, err)
			continue
		}
		m.logger.Info("component stopped",
			zap.String("component", e.name),
			zap.Duration("took", time.Since(started)),
		)
	}
	return result
}

// Listen invokes cancel once SIGTERM or SIGINT arrives.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()
}
