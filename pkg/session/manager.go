package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/keypad"
	"github.com/aretw0/keypad/internal/logging"
	"github.com/aretw0/keypad/pkg/domain"
	"github.com/aretw0/keypad/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// View is the externally visible state of a session.
type View struct {
	SessionID string           `json:"session_id"`
	Display   string           `json:"display"`
	Kind      domain.StateKind `json:"kind"`
	Error     bool             `json:"error"`
	Snapshot  domain.Snapshot  `json:"snapshot"`
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker   ports.DistributedLocker // Optional distributed locker
	lockTTL  time.Duration
	logger   *slog.Logger
	calcOpts []keypad.Option
	newID    func() string

	observers []func(View) // guarded by mu
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithCalculatorOptions configures the calculators built for each action,
// e.g. to attach lifecycle hooks.
func WithCalculatorOptions(opts ...keypad.Option) Option {
	return func(m *Manager) {
		m.calcOpts = append(m.calcOpts, opts...)
	}
}

// WithIDGenerator overrides the random UUID session IDs used by Create.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// WithObserver registers fn to receive every view committed by Apply.
func WithObserver(fn func(View)) Option {
	return func(m *Manager) {
		m.observers = append(m.observers, fn)
	}
}

// Observe registers fn after construction. See WithObserver.
func (m *Manager) Observe(fn func(View)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Create starts a new session in Initial(0) under a fresh ID.
func (m *Manager) Create(ctx context.Context) (View, error) {
	return m.LoadOrStart(ctx, m.newID())
}

// LoadOrStart loads a session, creating it in Initial(0) if it does not exist.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string) (View, error) {
	var view View
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		snap, err := m.store.Load(ctx, sessionID)
		if err == nil {
			view, err = m.view(sessionID, snap)
			return err
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		snap = domain.InitialSnapshot()
		if err := m.store.Save(ctx, sessionID, snap); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		m.logger.Debug("Session created", "session_id", sessionID)
		view, err = m.view(sessionID, snap)
		return err
	})
	return view, err
}

// Load returns the current view of an existing session.
func (m *Manager) Load(ctx context.Context, sessionID string) (View, error) {
	var view View
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		snap, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		view, err = m.view(sessionID, snap)
		return err
	})
	return view, err
}

// Apply runs fn against the session's calculator and persists the result.
// Observers are notified before the session lock is released, so they see
// the views of one session in commit order. They must not block.
func (m *Manager) Apply(ctx context.Context, sessionID string, fn func(*keypad.Calculator)) (View, error) {
	var view View
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		snap, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}

		calc, err := keypad.Resume(snap, m.calcOpts...)
		if err != nil {
			return fmt.Errorf("session %s: %w", sessionID, err)
		}

		fn(calc)

		next := calc.Snapshot()
		if err := m.store.Save(ctx, sessionID, next); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		view = newView(sessionID, calc)
		m.notify(view)
		return nil
	})
	return view, err
}

func (m *Manager) notify(view View) {
	m.mu.Lock()
	observers := append(([]func(View))(nil), m.observers...)
	m.mu.Unlock()
	for _, fn := range observers {
		fn(view)
	}
}

// Press feeds keys to the session in order.
func (m *Manager) Press(ctx context.Context, sessionID string, keys ...string) (View, error) {
	return m.Apply(ctx, sessionID, func(c *keypad.Calculator) {
		for _, k := range keys {
			c.Press(k)
		}
	})
}

// Reset returns the session to Initial(0).
func (m *Manager) Reset(ctx context.Context, sessionID string) (View, error) {
	return m.Apply(ctx, sessionID, func(c *keypad.Calculator) {
		c.Reset()
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func (m *Manager) view(sessionID string, snap domain.Snapshot) (View, error) {
	calc, err := keypad.Resume(snap)
	if err != nil {
		return View{}, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return newView(sessionID, calc), nil
}

func newView(sessionID string, calc *keypad.Calculator) View {
	v := calc.CurrentValue()
	return View{
		SessionID: sessionID,
		Display:   v.String(),
		Kind:      calc.Kind(),
		Error:     v.IsError(),
		Snapshot:  calc.Snapshot(),
	}
}
