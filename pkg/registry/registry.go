// Package registry owns the id → machine-instance mapping. It creates and
// destroys sessions, validates inputs, serializes mutations per session, and
// projects internal machine state into external snapshots.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/framepilot/internal/logging"
	"github.com/aretw0/framepilot/pkg/domain"
	"github.com/aretw0/framepilot/pkg/machine"
	"github.com/aretw0/framepilot/pkg/ports"
)

// session is one machine instance. Never shared or aliased across sessions;
// mutated only while the session's lock entry is held.
type session struct {
	state domain.State
	fctx  domain.FrameContext
}

// lockEntry holds the per-session mutex and its reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Registry instantiates, isolates, and routes events to one navigation
// machine per session. Operations against different session IDs proceed
// concurrently; mutations to the same ID are serialized through a
// reference-counted lock map so unused locks are garbage collected.
type Registry struct {
	mu       sync.RWMutex // Guards the sessions map
	sessions map[string]*session

	lmu   sync.Mutex // Guards the lock map
	locks map[string]*lockEntry

	logger *slog.Logger
	hooks  domain.LifecycleHooks
	mirror ports.SnapshotStore
}

// Option configures the Registry.
type Option func(*Registry)

// WithLogger configures a logger for internal events (like mirror failures).
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithHooks registers observability callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Registry) {
		r.hooks = hooks
	}
}

// WithMirror enables the snapshot mirror: after every successful mutation
// the session's snapshot is written to the store, and removal deletes it.
// Mirror failures are logged, never surfaced; the projection must not fail
// a dispatch.
func WithMirror(store ports.SnapshotStore) Option {
	return func(r *Registry) {
		r.mirror = store
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*session),
		locks:    make(map[string]*lockEntry),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock entry.mu, and call release(sessionID) after unlocking.
func (r *Registry) acquire(sessionID string) *lockEntry {
	r.lmu.Lock()
	defer r.lmu.Unlock()

	entry, exists := r.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		r.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (r *Registry) release(sessionID string) {
	r.lmu.Lock()
	defer r.lmu.Unlock()

	entry, exists := r.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(r.locks, sessionID)
	}
}

// withLock executes fn while holding the session's lock.
func (r *Registry) withLock(sessionID string, fn func() error) error {
	entry := r.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		r.release(sessionID)
	}()
	return fn()
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("session id must not be blank: %w", domain.ErrInvalidArgument)
	}
	return nil
}

// Create instantiates a fresh machine at Inactive with a default context.
// An existing session with the same ID is silently stopped and discarded
// first, so recreation is idempotent.
func (r *Registry) Create(ctx context.Context, id string) (domain.Snapshot, error) {
	if err := validateID(id); err != nil {
		return domain.Snapshot{}, err
	}

	var snap domain.Snapshot
	err := r.withLock(id, func() error {
		r.mu.Lock()
		_, replaced := r.sessions[id]
		s := &session{state: domain.Initial(), fctx: domain.NewFrameContext()}
		r.sessions[id] = s
		snap = project(id, s)
		r.mu.Unlock()

		if replaced {
			r.emitRemove(ctx, id, snap.CurrentState)
		}
		r.emitCreate(ctx, id, snap.CurrentState)
		r.mirrorSave(ctx, id, &snap)
		return nil
	})
	return snap, err
}

// Remove discards the session if present. Deletion is idempotent: a missing
// session reports false, never an error.
func (r *Registry) Remove(ctx context.Context, id string) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}

	var removed bool
	err := r.withLock(id, func() error {
		r.mu.Lock()
		s, ok := r.sessions[id]
		var lastState string
		if ok {
			lastState = s.state.Path()
			delete(r.sessions, id)
		}
		r.mu.Unlock()

		removed = ok
		if ok {
			r.emitRemove(ctx, id, lastState)
			r.mirrorDelete(ctx, id)
		}
		return nil
	})
	return removed, err
}

// Get returns the session's snapshot if it exists. Absence is reported via
// the bool, not as an error.
func (r *Registry) Get(ctx context.Context, id string) (domain.Snapshot, bool, error) {
	if err := validateID(id); err != nil {
		return domain.Snapshot{}, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return domain.Snapshot{}, false, nil
	}
	return project(id, s), true, nil
}

// StateOf returns the current snapshot without mutating.
// Unlike Get, an unknown session is a hard ErrSessionNotFound failure.
func (r *Registry) StateOf(ctx context.Context, id string) (domain.Snapshot, error) {
	snap, ok, err := r.Get(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if !ok {
		return domain.Snapshot{}, fmt.Errorf("session %q: %w", id, domain.ErrSessionNotFound)
	}
	return snap, nil
}

// Dispatch delivers one event to the session's machine, runs it to
// completion, and returns the resulting snapshot. A failing transition
// leaves the session at its pre-event state.
func (r *Registry) Dispatch(ctx context.Context, id string, ev domain.Event) (domain.Snapshot, error) {
	if err := validateID(id); err != nil {
		return domain.Snapshot{}, err
	}
	if err := ev.Validate(); err != nil {
		return domain.Snapshot{}, err
	}

	var snap domain.Snapshot
	err := r.withLock(id, func() error {
		r.mu.RLock()
		s, ok := r.sessions[id]
		r.mu.RUnlock()
		if !ok {
			return fmt.Errorf("session %q: %w", id, domain.ErrSessionNotFound)
		}

		from := s.state.Path()
		started := time.Now()

		nextState, nextCtx, err := step(s.state, s.fctx, ev)
		if err != nil {
			return err
		}

		// Commit the whole new pair at once. The per-session lock makes
		// this the only writer; the map lock keeps Get/List from observing
		// a torn entry.
		r.mu.Lock()
		s.state = nextState
		s.fctx = nextCtx
		snap = project(id, s)
		r.mu.Unlock()

		r.emitDispatch(ctx, id, ev.Type, from, snap.CurrentState, time.Since(started))
		r.mirrorSave(ctx, id, &snap)
		return nil
	})
	return snap, err
}

// List returns a snapshot for every active session, in map iteration order.
func (r *Registry) List(ctx context.Context) ([]domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snaps := make([]domain.Snapshot, 0, len(r.sessions))
	for id, s := range r.sessions {
		snaps = append(snaps, project(id, s))
	}
	return snaps, nil
}

// Len reports the number of active sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// step evaluates the transition, converting a panic inside the evaluator
// into ErrInternal so one bad event cannot take the process down.
func step(st domain.State, fc domain.FrameContext, ev domain.Event) (nextState domain.State, nextCtx domain.FrameContext, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("transition for event %s panicked: %v: %w", ev.Type, p, domain.ErrInternal)
		}
	}()
	nextState, nextCtx = machine.Step(st, fc, ev)
	return nextState, nextCtx, nil
}

// project builds the external snapshot. The context is deep-copied so the
// caller can never alias the machine's own slices.
func project(id string, s *session) domain.Snapshot {
	return domain.Snapshot{
		SessionID:    id,
		CurrentState: s.state.Path(),
		CurrentFrame: s.fctx.CurrentFrame,
		Context:      s.fctx.Clone(),
	}
}

func (r *Registry) emitCreate(ctx context.Context, id, state string) {
	if r.hooks.OnSessionCreate != nil {
		r.hooks.OnSessionCreate(ctx, &domain.SessionEvent{
			Timestamp: time.Now(),
			SessionID: id,
			State:     state,
		})
	}
}

func (r *Registry) emitRemove(ctx context.Context, id, state string) {
	if r.hooks.OnSessionRemove != nil {
		r.hooks.OnSessionRemove(ctx, &domain.SessionEvent{
			Timestamp: time.Now(),
			SessionID: id,
			State:     state,
		})
	}
}

func (r *Registry) emitDispatch(ctx context.Context, id string, evType domain.EventType, from, to string, d time.Duration) {
	if r.hooks.OnDispatch != nil {
		r.hooks.OnDispatch(ctx, &domain.DispatchEvent{
			Timestamp: time.Now(),
			SessionID: id,
			EventType: evType,
			FromState: from,
			ToState:   to,
			Duration:  d,
		})
	}
}

func (r *Registry) mirrorSave(ctx context.Context, id string, snap *domain.Snapshot) {
	if r.mirror == nil {
		return
	}
	if err := r.mirror.Save(ctx, id, snap); err != nil {
		r.logger.Warn("failed to mirror snapshot",
			"session_id", id,
			"err", err,
		)
	}
}

func (r *Registry) mirrorDelete(ctx context.Context, id string) {
	if r.mirror == nil {
		return
	}
	if err := r.mirror.Delete(ctx, id); err != nil {
		r.logger.Warn("failed to remove mirrored snapshot",
			"session_id", id,
			"err", err,
		)
	}
}
