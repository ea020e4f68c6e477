package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bnema/coach-cli/internal/domain"
	"github.com/bnema/coach-cli/internal/ports"
	"github.com/gofrs/flock"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	StatePathKey    = "storage.path"
	stateFileMode   = 0o600
	stateDirMode    = 0o700
	stateConfigDir  = ".coach"
	stateConfigFile = "state.toml"
	tempFilePattern = ".state-*.toml.tmp"
	lockFileSuffix  = ".lock"
	lockRetryDelay  = 25 * time.Millisecond
)

// Store keeps every key in one TOML file. A batch rewrites the file through
// a temp file and a rename, so readers see the whole batch or none of it.
// Writers are serialized by an in-process lock and by an advisory lock on a
// sibling .lock file, which covers other coach processes.
type Store struct {
	statePath string
	mu        *sync.RWMutex
	now       func() time.Time
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.KeyValueStore = (*Store)(nil)

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.SetDefault(StatePathKey, filepath.Join(homeDir, stateConfigDir, stateConfigFile))

	statePath := cfg.GetString(StatePathKey)
	if statePath == "" {
		return nil, errors.New("state path is empty")
	}
	statePath, err = normalizeStatePath(statePath)
	if err != nil {
		return nil, err
	}

	return &Store{statePath: statePath, mu: lockForPath(statePath), now: time.Now}, nil
}

func (s *Store) Path() string {
	return s.statePath
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.readSchema()
	if err != nil {
		return "", err
	}

	for _, entry := range file.Entries {
		if entry.Key == key {
			return entry.Value, nil
		}
	}

	return "", fmt.Errorf("%w: %s", domain.ErrKeyNotFound, key)
}

func (s *Store) Apply(ctx context.Context, batch ports.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if batch.Empty() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockFile(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}

	entries := make(map[string]entrySchema, len(file.Entries)+len(batch.Set))
	for _, entry := range file.Entries {
		entries[entry.Key] = entry
	}
	for _, key := range batch.Delete {
		delete(entries, key)
	}
	stamp := s.now().UTC().Format(time.RFC3339)
	for key, value := range batch.Set {
		entries[key] = entrySchema{Key: key, Value: value, UpdatedAt: stamp}
	}

	file.Entries = file.Entries[:0]
	for _, entry := range entries {
		file.Entries = append(file.Entries, entry)
	}
	sort.Slice(file.Entries, func(i, j int) bool {
		return file.Entries[i].Key < file.Entries[j].Key
	})

	if err := ctx.Err(); err != nil {
		return err
	}

	return s.writeSchema(file)
}

// lockFile takes the advisory write lock shared by every process using this
// state file.
func (s *Store) lockFile(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.statePath), stateDirMode); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	fileLock := flock.New(s.statePath+lockFileSuffix, flock.SetPermissions(stateFileMode))
	locked, err := fileLock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock state file: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("lock state file: %s is held by another process", fileLock.Path())
	}

	return func() { _ = fileLock.Unlock() }, nil
}

func (s *Store) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{Version: currentSchemaVersion}, nil
		}
		return fileSchema{}, fmt.Errorf("read state file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode state file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (s *Store) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.statePath), stateDirMode); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.statePath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}

	if err := tempFile.Chmod(stateFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp state file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("sync temp state file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tempName, s.statePath); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	cleanup = false
	return nil
}

func normalizeStatePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve state path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
