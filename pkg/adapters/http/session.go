package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/identify-labs/marquee"
	"github.com/identify-labs/marquee/pkg/adapters/memory"
	"github.com/identify-labs/marquee/pkg/domain"
	"github.com/identify-labs/marquee/pkg/ports"
)

// sessionLockTTL bounds how long one replica may hold a session's lock.
const sessionLockTTL = 5 * time.Second

type session struct {
	id     string
	player *marquee.Player
	ctx    context.Context
	cancel context.CancelFunc
	dirty  chan struct{}
	// done is closed once nothing will write this session to the store again.
	done chan struct{}

	saveMu sync.Mutex

	idleMu sync.Mutex
	idle   *time.Timer
}

func (s *session) markDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// SessionManager owns one hero Player per visitor session.
// Sequencer timers are bound to the session's context, not to the request
// that started them.
//
// With a snapshot store, any replica can serve any session: one it does not
// hold is restored from its last snapshot. Every mutation then runs under the
// session's distributed lock and saves before releasing it, so the next
// replica to take the lock sees its effect.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*session

	base    context.Context
	store   ports.SnapshotStore
	locker  ports.DistributedLocker
	streams *StreamManager
	hooks   domain.LifecycleHooks
	opts    []marquee.Option
	ttl     time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func newSessionManager(base context.Context, streams *StreamManager, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*session),
		base:     base,
		streams:  streams,
		logger:   logger,
	}
}

// Create starts a new idle session and returns its ID.
func (m *SessionManager) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	s := m.newSession(id, memory.NewStage())

	if m.store != nil {
		if err := m.store.Save(ctx, id, m.snapshot(s)); err != nil {
			m.release(s)
			return "", fmt.Errorf("failed to persist session: %w", err)
		}
	}

	m.mu.Lock()
	m.holdLocked(s)
	m.mu.Unlock()

	m.logger.Info("hero session created", "session_id", id)
	return id, nil
}

// Start plays the session's timeline.
func (m *SessionManager) Start(ctx context.Context, id string, reducedMotion bool) (domain.Snapshot, error) {
	return m.mutate(ctx, id, func(s *session) {
		s.player.Start(s.ctx, reducedMotion)
	})
}

// Skip jumps the session to its final scene.
func (m *SessionManager) Skip(ctx context.Context, id string) (domain.Snapshot, error) {
	return m.mutate(ctx, id, func(s *session) {
		s.player.Skip(s.ctx)
	})
}

// Replay resets the session and plays it again after the replay delay.
func (m *SessionManager) Replay(ctx context.Context, id string) (domain.Snapshot, error) {
	return m.mutate(ctx, id, func(s *session) {
		s.player.Replay(s.ctx)
	})
}

// Snapshot returns the live session view, falling back to the store for
// sessions this replica does not hold.
func (m *SessionManager) Snapshot(ctx context.Context, id string) (domain.Snapshot, error) {
	s, err := m.get(id)
	if err == nil {
		m.touch(s)
		return m.snapshot(s), nil
	}
	if m.store == nil {
		return domain.Snapshot{}, err
	}
	return m.store.Load(ctx, id)
}

// Ensure makes the session live on this replica, restoring it from the
// store when another replica (or an expired one) last held it.
func (m *SessionManager) Ensure(ctx context.Context, id string) error {
	s, err := m.acquire(ctx, id)
	if err != nil {
		return err
	}
	m.touch(s)
	return nil
}

// Delete stops the session and forgets it. Once it returns, no pending save
// can bring the session back.
func (m *SessionManager) Delete(ctx context.Context, id string) error {
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, lockKey(id), sessionLockTTL)
		if err != nil {
			return fmt.Errorf("failed to lock session %s: %w", id, err)
		}
		defer m.unlock(id, unlock)
	}

	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		m.release(s)
	}
	if m.store != nil {
		if err := m.store.Delete(ctx, id); err != nil {
			return err
		}
	} else if !ok {
		return domain.ErrSessionNotFound
	}
	m.logger.Info("hero session deleted", "session_id", id)
	return nil
}

// Has reports whether the session is live on this replica.
func (m *SessionManager) Has(id string) bool {
	_, err := m.get(id)
	return err == nil
}

// Len returns the number of sessions live on this replica.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close cancels every session and waits for pending persistence to stop.
func (m *SessionManager) Close() {
	m.mu.Lock()
	held := make([]*session, 0, len(m.sessions))
	for id, s := range m.sessions {
		held = append(held, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range held {
		m.release(s)
	}
	m.wg.Wait()
}

func (m *SessionManager) newSession(id string, stage *memory.Stage) *session {
	sctx, cancel := context.WithCancel(m.base)
	s := &session{
		id:     id,
		ctx:    sctx,
		cancel: cancel,
		dirty:  make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	hooks := domain.ComposeHooks(m.hooks, m.streamHooks(id), persistHooks(s))
	opts := append([]marquee.Option{}, m.opts...)
	opts = append(opts,
		marquee.WithStage(stage),
		marquee.WithLifecycleHooks(hooks),
		marquee.WithLogger(m.logger.With("session_id", id)),
	)
	s.player = marquee.New(opts...)

	if m.store != nil {
		m.wg.Add(1)
		go m.persistLoop(s)
	} else {
		close(s.done)
	}
	return s
}

// holdLocked publishes the session and arms its expiry. Callers hold m.mu.
func (m *SessionManager) holdLocked(s *session) {
	m.sessions[s.id] = s
	if m.ttl > 0 {
		s.idleMu.Lock()
		s.idle = time.AfterFunc(m.ttl, func() { m.expire(s) })
		s.idleMu.Unlock()
	}
}

// mutate applies fn to the session under its lock and saves the result
// before the lock is released.
func (m *SessionManager) mutate(ctx context.Context, id string, fn func(*session)) (domain.Snapshot, error) {
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, lockKey(id), sessionLockTTL)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("failed to lock session %s: %w", id, err)
		}
		defer m.unlock(id, unlock)
	}

	s, err := m.acquire(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	fn(s)
	m.touch(s)

	if m.store != nil {
		if err := m.save(ctx, s); err != nil {
			return domain.Snapshot{}, fmt.Errorf("failed to persist session: %w", err)
		}
	}
	return m.snapshot(s), nil
}

// acquire returns the live session, restoring it from the store if needed.
func (m *SessionManager) acquire(ctx context.Context, id string) (*session, error) {
	if s, err := m.get(id); err == nil || m.store == nil {
		return s, err
	}

	snap, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	s := m.newSession(id, memory.NewStage(memory.WithScene(snap.Scene)))
	s.player.Restore(s.ctx, snap)

	m.mu.Lock()
	if held, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		m.release(s)
		return held, nil
	}
	m.holdLocked(s)
	m.mu.Unlock()

	m.logger.Info("hero session restored", "session_id", id, "phase", snap.Phase)
	return s, nil
}

// touch pushes back the session's expiry.
func (m *SessionManager) touch(s *session) {
	s.idleMu.Lock()
	defer s.idleMu.Unlock()
	if s.idle != nil {
		s.idle.Reset(m.ttl)
	}
}

// expire drops an idle session from this replica. Its snapshot stays in the
// store, so a later request restores it. Running sessions are kept.
func (m *SessionManager) expire(s *session) {
	snap := s.player.Snapshot()
	if snap.ReplayPending || (snap.State.Started && !snap.State.Finalized) {
		m.touch(s)
		return
	}

	m.mu.Lock()
	if m.sessions[s.id] != s {
		m.mu.Unlock()
		return
	}
	delete(m.sessions, s.id)
	m.mu.Unlock()

	m.release(s)
	m.logger.Info("hero session expired", "session_id", s.id, "phase", snap.Phase)
}

// release stops the session and waits until it can no longer write to the store.
func (m *SessionManager) release(s *session) {
	s.cancel()

	s.idleMu.Lock()
	if s.idle != nil {
		s.idle.Stop()
	}
	s.idleMu.Unlock()

	<-s.done
	// A save started by mutate before cancel may still be in flight.
	s.saveMu.Lock()
	s.saveMu.Unlock()
}

func (m *SessionManager) unlock(id string, unlock ports.UnlockFunc) {
	if err := unlock(context.Background()); err != nil {
		m.logger.Warn("session unlock failed", "session_id", id, "err", err)
	}
}

func (m *SessionManager) get(id string) (*session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return s, nil
}

func (m *SessionManager) snapshot(s *session) domain.Snapshot {
	snap := s.player.Snapshot()
	snap.SessionID = s.id
	return snap
}

// save writes the current snapshot unless the session has been released.
// Saves are serialised per session, so a later save never carries an older view.
func (m *SessionManager) save(ctx context.Context, s *session) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if s.ctx.Err() != nil {
		return nil
	}
	return m.store.Save(ctx, s.id, m.snapshot(s))
}

// persistLoop saves the snapshot whenever a hook marks the session dirty.
// Hooks run under the sequencer lock, so the snapshot is taken here instead.
func (m *SessionManager) persistLoop(s *session) {
	defer m.wg.Done()
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.dirty:
			if err := m.save(s.ctx, s); err != nil && !errors.Is(err, context.Canceled) {
				m.logger.Error("failed to persist hero session", "session_id", s.id, "err", err)
			}
		}
	}
}

func lockKey(id string) string {
	return "session:" + id
}

func persistHooks(s *session) domain.LifecycleHooks {
	seq := func(context.Context, *domain.SequenceEvent) { s.markDirty() }
	step := func(context.Context, *domain.StepEvent) { s.markDirty() }
	return domain.LifecycleHooks{
		OnStart:       seq,
		OnStepApplied: step,
		OnStepFailed:  step,
		OnSkip:        seq,
		OnFinalize:    seq,
		OnReplay:      seq,
	}
}

// streamHooks broadcasts every event as JSON to the session's subscribers.
func (m *SessionManager) streamHooks(id string) domain.LifecycleHooks {
	send := func(v any) {
		data, err := json.Marshal(v)
		if err != nil {
			m.logger.Error("failed to encode hero event", "session_id", id, "err", err)
			return
		}
		m.streams.Broadcast(id, string(data))
	}
	seq := func(_ context.Context, e *domain.SequenceEvent) { send(e) }
	step := func(_ context.Context, e *domain.StepEvent) { send(e) }
	return domain.LifecycleHooks{
		OnStart:       seq,
		OnStepApplied: step,
		OnStepFailed:  step,
		OnSkip:        seq,
		OnFinalize:    seq,
		OnReplay:      seq,
	}
}
