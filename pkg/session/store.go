// Package session holds one mutable roster buffer plus its backup
// snapshots per browser session, serializing access behind a single
// mutex and evicting sessions idle past a timeout.
//
// Snapshot payloads are spilled to a pebble store rather than held in
// memory: a session accumulates one full roster copy per backup, and the
// sweep releases them by deleting the session's key range. The store is
// wiped on startup, so a crashed process never leaks orphaned snapshots.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/calradia/rosterkit/pkg/codec"
)

// DefaultTimeout is how long a session may sit idle before the sweep
// evicts it.
const DefaultTimeout = 2 * time.Hour

var (
	// ErrNotFound means the session id is unknown or already evicted.
	ErrNotFound = errors.New("session: not found")

	// ErrNoBackups means a restore was requested on a session that has
	// never been backed up.
	ErrNoBackups = errors.New("session: no backups")

	// ErrBackupRange means the backup index does not exist.
	ErrBackupRange = errors.New("session: backup index out of range")
)

// Config configures a Store.
type Config struct {
	// DataDir is the pebble store location for snapshot payloads.
	DataDir string

	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration

	Logger zerolog.Logger
}

// Info is a point-in-time description of a session.
type Info struct {
	ID           string
	CreatedAt    time.Time
	LastAccessed time.Time
	BackupCount  int
}

// BackupInfo describes one stored snapshot.
type BackupInfo struct {
	Index int
	Size  int
}

type state struct {
	profiles     []byte
	createdAt    time.Time
	lastAccessed time.Time
	backups      int
}

// Store is the session registry. All operations serialize on one mutex;
// the core codecs underneath never share mutable state, so this is the
// only lock in the system.
type Store struct {
	mu       sync.Mutex
	db       *pebble.DB
	sessions map[string]*state
	timeout  time.Duration
	log      zerolog.Logger
}

// New opens the snapshot store and wipes any payloads a previous process
// left behind.
func New(cfg Config) (*Store, error) {
	db, err := pebble.Open(cfg.DataDir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("session: open snapshot store: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	s := &Store{
		db:       db,
		sessions: make(map[string]*state),
		timeout:  timeout,
		log:      cfg.Logger,
	}
	if err := s.wipe(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the snapshot store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Create registers a new session seeded with profiles, or with an empty
// header-only roster when profiles is nil. The input is copied.
func (s *Store) Create(profiles []byte) (string, error) {
	if profiles == nil {
		profiles = codec.NewHeader(0)
	} else {
		profiles = append([]byte(nil), profiles...)
	}

	id := ksuid.New().String()
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &state{
		profiles:     profiles,
		createdAt:    now,
		lastAccessed: now,
	}
	return id, nil
}

// Info returns session metadata and refreshes its access time.
func (s *Store) Info(id string) (Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return Info{}, ErrNotFound
	}
	st.lastAccessed = time.Now()
	return Info{
		ID:           id,
		CreatedAt:    st.createdAt,
		LastAccessed: st.lastAccessed,
		BackupCount:  st.backups,
	}, nil
}

// Data returns a copy of the session's roster buffer.
func (s *Store) Data(id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	st.lastAccessed = time.Now()
	return append([]byte(nil), st.profiles...), nil
}

// Update replaces the session's roster buffer.
func (s *Store) Update(id string, profiles []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	st.profiles = append([]byte(nil), profiles...)
	st.lastAccessed = time.Now()
	return nil
}

// Mutate runs fn on the session's buffer and installs its result, holding
// the lock for the whole read-modify-write so concurrent requests against
// one session cannot interleave.
func (s *Store) Mutate(id string, fn func([]byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	out, err := fn(append([]byte(nil), st.profiles...))
	if err != nil {
		return err
	}
	st.profiles = out
	st.lastAccessed = time.Now()
	return nil
}

// Delete evicts a session and releases its snapshots.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return s.dropBackups(id, st.backups)
}

// AddBackup snapshots the session's current buffer and returns the new
// backup's index.
func (s *Store) AddBackup(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return 0, ErrNotFound
	}
	idx := st.backups
	if err := s.db.Set(backupKey(id, idx), st.profiles, pebble.NoSync); err != nil {
		return 0, fmt.Errorf("session: store snapshot: %w", err)
	}
	st.backups++
	st.lastAccessed = time.Now()
	return idx, nil
}

// Backups lists the session's snapshots.
func (s *Store) Backups(id string) ([]BackupInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	st.lastAccessed = time.Now()

	infos := make([]BackupInfo, 0, st.backups)
	for i := 0; i < st.backups; i++ {
		data, closer, err := s.db.Get(backupKey(id, i))
		if err != nil {
			return nil, fmt.Errorf("session: read snapshot %d: %w", i, err)
		}
		infos = append(infos, BackupInfo{Index: i, Size: len(data)})
		closer.Close()
	}
	return infos, nil
}

// RestoreBackup replaces the session's buffer with the snapshot at index;
// -1 means the most recent.
func (s *Store) RestoreBackup(id string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	if st.backups == 0 {
		return ErrNoBackups
	}
	if index == -1 {
		index = st.backups - 1
	}
	if index < 0 || index >= st.backups {
		return fmt.Errorf("%w: %d", ErrBackupRange, index)
	}

	data, closer, err := s.db.Get(backupKey(id, index))
	if err != nil {
		return fmt.Errorf("session: read snapshot %d: %w", index, err)
	}
	st.profiles = append([]byte(nil), data...)
	closer.Close()
	st.lastAccessed = time.Now()
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts every session idle past the timeout and returns how many
// went.
func (s *Store) Sweep() int {
	cutoff := time.Now().Add(-s.timeout)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, st := range s.sessions {
		if st.lastAccessed.After(cutoff) {
			continue
		}
		delete(s.sessions, id)
		if err := s.dropBackups(id, st.backups); err != nil {
			s.log.Warn().Err(err).Str("session", id).Msg("failed to release snapshots")
		}
		evicted++
	}
	if evicted > 0 {
		s.log.Info().Int("evicted", evicted).Msg("swept idle sessions")
	}
	return evicted
}

// StartSweeper runs Sweep on a ticker until ctx is done. onSweep, when
// non-nil, receives each pass's eviction count.
func (s *Store) StartSweeper(ctx context.Context, every time.Duration, onSweep func(evicted int)) {
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				evicted := s.Sweep()
				if onSweep != nil {
					onSweep(evicted)
				}
			}
		}
	}()
}

func (s *Store) dropBackups(id string, count int) error {
	for i := 0; i < count; i++ {
		if err := s.db.Delete(backupKey(id, i), pebble.NoSync); err != nil {
			return fmt.Errorf("session: drop snapshot %d: %w", i, err)
		}
	}
	return nil
}

// wipe clears every key in the snapshot store.
func (s *Store) wipe() error {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("session: scan snapshot store: %w", err)
	}
	var keys [][]byte
	for iter.First(); iter.Valid(); iter.Next() {
		keys = append(keys, append([]byte(nil), iter.Key()...))
	}
	if err := iter.Close(); err != nil {
		return err
	}
	for _, k := range keys {
		if err := s.db.Delete(k, pebble.NoSync); err != nil {
			return err
		}
	}
	return nil
}

func backupKey(id string, seq int) []byte {
	return []byte(fmt.Sprintf("session/%s/backup/%08d", id, seq))
}
