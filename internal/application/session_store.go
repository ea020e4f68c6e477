package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/coach-cli/internal/domain"
	"github.com/bnema/coach-cli/internal/ports"
	"go.uber.org/zap"
)

const (
	sessionsKey      = "sessions"
	activeSessionKey = "activeSession"
	logKeyPrefix     = "chatHistory_"

	legacyUserIDKey  = "userId"
	legacyHistoryKey = "chatHistory"

	importedSessionLabel = "Imported session"
)

var errEmptySessionID = errors.New("session id is required")

// SessionStore is the only writer of session state. Each mutating call is a
// single KeyValueStore batch, so a crash leaves either the old or the new
// state behind.
type SessionStore struct {
	kv     ports.KeyValueStore
	clock  ports.Clock
	logger *zap.Logger

	mu sync.Mutex
}

func NewSessionStore(kv ports.KeyValueStore, clock ports.Clock, logger *zap.Logger) *SessionStore {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SessionStore{kv: kv, clock: clock, logger: logger}
}

func LogKey(id domain.SessionID) string {
	return logKeyPrefix + string(id)
}

// Load returns the registry, most recent first. When no registry exists yet
// a session saved by the single-session format is imported.
func (s *SessionStore) Load(ctx context.Context) ([]domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked(ctx)
}

func (s *SessionStore) Has(ctx context.Context, id domain.SessionID) (bool, error) {
	id = domain.NormalizeSessionID(string(id))
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found, err := s.findLocked(ctx, id)
	return found, err
}

func (s *SessionStore) Get(ctx context.Context, id domain.SessionID) (domain.Session, error) {
	id = domain.NormalizeSessionID(string(id))
	s.mu.Lock()
	defer s.mu.Unlock()

	session, found, err := s.findLocked(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if !found {
		return domain.Session{}, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	return session, nil
}

// Upsert inserts or replaces session and moves it to the front.
func (s *SessionStore) Upsert(ctx context.Context, session domain.Session) error {
	session.ID = domain.NormalizeSessionID(string(session.ID))
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, err := s.upsertBatchLocked(ctx, session)
	if err != nil {
		return err
	}

	logKey := LogKey(session.ID)
	if _, err := s.kv.Get(ctx, logKey); err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			return fmt.Errorf("read session log: %w", err)
		}
		batch.Set[logKey] = "[]"
	}

	if err := s.kv.Apply(ctx, batch); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

// Register upserts session, replaces its log with seed and makes it the
// active session in one write.
func (s *SessionStore) Register(ctx context.Context, session domain.Session, seed []domain.Message) error {
	session.ID = domain.NormalizeSessionID(string(session.ID))
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, err := s.upsertBatchLocked(ctx, session)
	if err != nil {
		return err
	}

	encodedLog, err := encodeMessages(seed)
	if err != nil {
		return err
	}
	batch.Set[LogKey(session.ID)] = encodedLog
	batch.Set[activeSessionKey] = string(session.ID)

	if err := s.kv.Apply(ctx, batch); err != nil {
		return fmt.Errorf("register session: %w", err)
	}

	return nil
}

// Remove deletes the session and its log together. Removing an unknown id is
// a no-op.
func (s *SessionStore) Remove(ctx context.Context, id domain.SessionID) error {
	id = domain.NormalizeSessionID(string(id))
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}

	remaining := make([]domain.Session, 0, len(sessions))
	for _, session := range sessions {
		if session.ID != id {
			remaining = append(remaining, session)
		}
	}

	logKey := LogKey(id)
	logExists, err := s.keyExists(ctx, logKey)
	if err != nil {
		return err
	}
	if len(remaining) == len(sessions) && !logExists {
		return nil
	}

	batch := ports.Batch{Set: map[string]string{}, Delete: []string{logKey}}
	if len(remaining) != len(sessions) {
		encoded, err := encodeSessions(remaining)
		if err != nil {
			return err
		}
		batch.Set[sessionsKey] = encoded
	}

	active, err := s.activeLocked(ctx)
	if err != nil {
		return err
	}
	if active == id {
		batch.Delete = append(batch.Delete, activeSessionKey)
	}

	if err := s.kv.Apply(ctx, batch); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}

	return nil
}

func (s *SessionStore) LoadLog(ctx context.Context, id domain.SessionID) ([]domain.Message, error) {
	id = domain.NormalizeSessionID(string(id))
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLogLocked(ctx, id)
}

// SaveLog overwrites the log of a registered session.
func (s *SessionStore) SaveLog(ctx context.Context, id domain.SessionID, messages []domain.Message) error {
	id = domain.NormalizeSessionID(string(id))
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found, err := s.findLocked(ctx, id); err != nil {
		return err
	} else if !found {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	return s.writeLogLocked(ctx, id, messages)
}

// AppendLog appends msg to the log of a registered session and returns the
// stored message. A message stamped earlier than the current tail is
// re-stamped with the tail's time.
func (s *SessionStore) AppendLog(ctx context.Context, id domain.SessionID, msg domain.Message) (domain.Message, error) {
	id = domain.NormalizeSessionID(string(id))
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found, err := s.findLocked(ctx, id); err != nil {
		return domain.Message{}, err
	} else if !found {
		return domain.Message{}, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	messages, err := s.loadLogLocked(ctx, id)
	if err != nil {
		return domain.Message{}, err
	}

	msg.Time = msg.Time.UTC()
	if n := len(messages); n > 0 && msg.Time.Before(messages[n-1].Time) {
		msg.Time = messages[n-1].Time
	}

	if err := s.writeLogLocked(ctx, id, append(messages, msg)); err != nil {
		return domain.Message{}, err
	}

	return msg, nil
}

// ActiveID returns the persisted active session, or "" when none is set or
// the pointer names a session that no longer exists.
func (s *SessionStore) ActiveID(ctx context.Context) (domain.SessionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := s.activeLocked(ctx)
	if err != nil || active == "" {
		return "", err
	}

	if _, found, err := s.findLocked(ctx, active); err != nil {
		return "", err
	} else if !found {
		return "", nil
	}

	return active, nil
}

// SetActive persists the active pointer; an empty id clears it.
func (s *SessionStore) SetActive(ctx context.Context, id domain.SessionID) error {
	id = domain.NormalizeSessionID(string(id))
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		if err := s.kv.Apply(ctx, ports.Batch{Delete: []string{activeSessionKey}}); err != nil {
			return fmt.Errorf("clear active session: %w", err)
		}
		return nil
	}

	if _, found, err := s.findLocked(ctx, id); err != nil {
		return err
	} else if !found {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	if err := s.kv.Apply(ctx, ports.Batch{Set: map[string]string{activeSessionKey: string(id)}}); err != nil {
		return fmt.Errorf("save active session: %w", err)
	}

	return nil
}

func (s *SessionStore) loadLocked(ctx context.Context) ([]domain.Session, error) {
	raw, err := s.kv.Get(ctx, sessionsKey)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return s.migrateLegacyLocked(ctx)
		}
		return nil, fmt.Errorf("read sessions: %w", err)
	}

	sessions, err := decodeSessions(raw)
	if err != nil {
		s.logger.Warn("session registry unreadable, starting empty", zap.Error(err))
		return []domain.Session{}, nil
	}

	return sessions, nil
}

func (s *SessionStore) findLocked(ctx context.Context, id domain.SessionID) (domain.Session, bool, error) {
	sessions, err := s.loadLocked(ctx)
	if err != nil {
		return domain.Session{}, false, err
	}

	for _, session := range sessions {
		if session.ID == id {
			return session, true, nil
		}
	}

	return domain.Session{}, false, nil
}

func (s *SessionStore) upsertBatchLocked(ctx context.Context, session domain.Session) (ports.Batch, error) {
	if session.ID == "" {
		return ports.Batch{}, errEmptySessionID
	}

	sessions, err := s.loadLocked(ctx)
	if err != nil {
		return ports.Batch{}, err
	}

	next := make([]domain.Session, 0, len(sessions)+1)
	next = append(next, session)
	for _, existing := range sessions {
		if existing.ID != session.ID {
			next = append(next, existing)
		}
	}

	encoded, err := encodeSessions(next)
	if err != nil {
		return ports.Batch{}, err
	}

	return ports.Batch{Set: map[string]string{sessionsKey: encoded}}, nil
}

func (s *SessionStore) loadLogLocked(ctx context.Context, id domain.SessionID) ([]domain.Message, error) {
	raw, err := s.kv.Get(ctx, LogKey(id))
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session log: %w", err)
	}

	messages, err := decodeMessages(raw)
	if err != nil {
		s.logger.Warn("session log unreadable, starting empty", zap.String("session", string(id)), zap.Error(err))
		return nil, nil
	}

	return messages, nil
}

func (s *SessionStore) writeLogLocked(ctx context.Context, id domain.SessionID, messages []domain.Message) error {
	encoded, err := encodeMessages(messages)
	if err != nil {
		return err
	}

	if err := s.kv.Apply(ctx, ports.Batch{Set: map[string]string{LogKey(id): encoded}}); err != nil {
		return fmt.Errorf("save session log: %w", err)
	}

	return nil
}

func (s *SessionStore) activeLocked(ctx context.Context) (domain.SessionID, error) {
	raw, err := s.kv.Get(ctx, activeSessionKey)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("read active session: %w", err)
	}

	return domain.NormalizeSessionID(raw), nil
}

func (s *SessionStore) keyExists(ctx context.Context, key string) (bool, error) {
	if _, err := s.kv.Get(ctx, key); err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}

	return true, nil
}

// migrateLegacyLocked imports the session of the single-session format. The
// legacy keys are read but never written.
func (s *SessionStore) migrateLegacyLocked(ctx context.Context) ([]domain.Session, error) {
	rawUserID, err := s.kv.Get(ctx, legacyUserIDKey)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return []domain.Session{}, nil
		}
		return nil, fmt.Errorf("read legacy user id: %w", err)
	}

	id := domain.NormalizeSessionID(strings.Trim(rawUserID, `"`))
	if id == "" {
		return []domain.Session{}, nil
	}

	var history []domain.Message
	rawHistory, err := s.kv.Get(ctx, legacyHistoryKey)
	switch {
	case err == nil:
		history, err = decodeMessages(rawHistory)
		if err != nil {
			s.logger.Warn("legacy chat history unreadable, importing empty log", zap.Error(err))
			history = nil
		}
	case !errors.Is(err, domain.ErrKeyNotFound):
		return nil, fmt.Errorf("read legacy chat history: %w", err)
	}

	sessions := []domain.Session{{ID: id, Label: importedSessionLabel, CreatedAt: s.clock.Now()}}
	encodedSessions, err := encodeSessions(sessions)
	if err != nil {
		return nil, err
	}
	encodedLog, err := encodeMessages(history)
	if err != nil {
		return nil, err
	}

	err = s.kv.Apply(ctx, ports.Batch{Set: map[string]string{
		sessionsKey:      encodedSessions,
		LogKey(id):       encodedLog,
		activeSessionKey: string(id),
	}})
	if err != nil {
		return nil, fmt.Errorf("migrate legacy session: %w", err)
	}

	s.logger.Info("imported legacy session", zap.String("session", string(id)), zap.Int("messages", len(history)))
	return sessions, nil
}
