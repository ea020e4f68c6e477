package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/coach-cli/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Workspace owns the active-session pointer and the per-session in-flight
// state. Components receive it explicitly instead of sharing globals.
type Workspace struct {
	store  *SessionStore
	logger *zap.Logger

	mu       sync.Mutex
	active   domain.SessionID
	inflight map[domain.SessionID]*semaphore.Weighted
	awaiting map[domain.SessionID]bool
}

func NewWorkspace(store *SessionStore, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Workspace{
		store:    store,
		logger:   logger,
		inflight: map[domain.SessionID]*semaphore.Weighted{},
		awaiting: map[domain.SessionID]bool{},
	}
}

func (w *Workspace) Store() *SessionStore {
	return w.store
}

// Restore loads the persisted active session, falling back to the most
// recent session.
func (w *Workspace) Restore(ctx context.Context) (domain.SessionID, error) {
	sessions, err := w.store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load sessions: %w", err)
	}

	active, err := w.store.ActiveID(ctx)
	if err != nil {
		return "", fmt.Errorf("load active session: %w", err)
	}
	if active == "" && len(sessions) > 0 {
		active = sessions[0].ID
	}

	w.setActive(active)
	return active, nil
}

func (w *Workspace) Sessions(ctx context.Context) ([]domain.Session, error) {
	return w.store.Load(ctx)
}

func (w *Workspace) ActiveID() domain.SessionID {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.active
}

// Activate makes id the active session and returns its current projection.
// Requests in flight for the previously active session keep running.
func (w *Workspace) Activate(ctx context.Context, id domain.SessionID) (ChatSession, error) {
	id = domain.NormalizeSessionID(string(id))
	if err := w.store.SetActive(ctx, id); err != nil {
		return ChatSession{}, err
	}
	w.setActive(id)

	w.logger.Debug("activated session", zap.String("session", string(id)))
	return w.Session(ctx, id)
}

func (w *Workspace) Active(ctx context.Context) (ChatSession, bool, error) {
	id := w.ActiveID()
	if id == "" {
		return ChatSession{}, false, nil
	}

	session, err := w.Session(ctx, id)
	if err != nil {
		return ChatSession{}, false, err
	}

	return session, true, nil
}

func (w *Workspace) Session(ctx context.Context, id domain.SessionID) (ChatSession, error) {
	id = domain.NormalizeSessionID(string(id))
	session, err := w.store.Get(ctx, id)
	if err != nil {
		return ChatSession{}, err
	}

	messages, err := w.store.LoadLog(ctx, id)
	if err != nil {
		return ChatSession{}, err
	}

	return ChatSession{Session: session, Messages: messages, Awaiting: w.Awaiting(id)}, nil
}

// Register stores a new session with its seed log and activates it.
func (w *Workspace) Register(ctx context.Context, session domain.Session, seed []domain.Message) error {
	session.ID = domain.NormalizeSessionID(string(session.ID))
	if err := w.store.Register(ctx, session, seed); err != nil {
		return err
	}
	w.setActive(session.ID)

	return nil
}

// Delete removes the session and its log. Deleting the active session
// activates the most recent remaining one.
func (w *Workspace) Delete(ctx context.Context, id domain.SessionID) error {
	id = domain.NormalizeSessionID(string(id))
	if err := w.store.Remove(ctx, id); err != nil {
		return err
	}

	if w.ActiveID() != id {
		return nil
	}

	sessions, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	var next domain.SessionID
	if len(sessions) > 0 {
		next = sessions[0].ID
	}
	if err := w.store.SetActive(ctx, next); err != nil {
		return err
	}
	w.setActive(next)

	return nil
}

func (w *Workspace) ClearLog(ctx context.Context, id domain.SessionID) error {
	return w.store.SaveLog(ctx, id, nil)
}

func (w *Workspace) Awaiting(id domain.SessionID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.awaiting[id]
}

// acquire claims the single in-flight slot of id. The returned release also
// clears the awaiting flag.
func (w *Workspace) acquire(id domain.SessionID) (func(), bool) {
	w.mu.Lock()
	gate, ok := w.inflight[id]
	if !ok {
		gate = semaphore.NewWeighted(1)
		w.inflight[id] = gate
	}
	w.mu.Unlock()

	if !gate.TryAcquire(1) {
		return nil, false
	}

	return func() {
		w.mu.Lock()
		delete(w.awaiting, id)
		w.mu.Unlock()
		gate.Release(1)
	}, true
}

func (w *Workspace) markAwaiting(id domain.SessionID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.awaiting[id] = true
}

func (w *Workspace) setActive(id domain.SessionID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.active = id
}
