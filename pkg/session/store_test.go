package session

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calradia/rosterkit/pkg/codec"
)

func newTestStore(t *testing.T, timeout time.Duration) *Store {
	t.Helper()
	s, err := New(Config{
		DataDir: t.TempDir(),
		Timeout: timeout,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndData(t *testing.T) {
	s := newTestStore(t, 0)

	buf := codec.NewHeader(3)
	id, err := s.Create(buf)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.Data(id)
	require.NoError(t, err)
	assert.Equal(t, buf, got)

	// The stored buffer is a copy in both directions.
	buf[0] = 0xFF
	got2, err := s.Data(id)
	require.NoError(t, err)
	assert.NotEqual(t, buf[0], got2[0])
	got2[4] = 0xFF
	got3, err := s.Data(id)
	require.NoError(t, err)
	assert.NotEqual(t, got2[4], got3[4])
}

func TestCreateNilSeedsEmptyRoster(t *testing.T) {
	s := newTestStore(t, 0)

	id, err := s.Create(nil)
	require.NoError(t, err)

	got, err := s.Data(id)
	require.NoError(t, err)

	ros, err := codec.Parse(got)
	require.NoError(t, err)
	assert.Zero(t, ros.Count())
	assert.Empty(t, ros.Records)
}

func TestInfo(t *testing.T) {
	s := newTestStore(t, 0)

	id, err := s.Create(nil)
	require.NoError(t, err)

	info, err := s.Info(id)
	require.NoError(t, err)
	assert.Equal(t, id, info.ID)
	assert.Zero(t, info.BackupCount)
	assert.False(t, info.CreatedAt.IsZero())

	_, err = s.Info("unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAndMutate(t *testing.T) {
	s := newTestStore(t, 0)

	id, err := s.Create(nil)
	require.NoError(t, err)

	require.NoError(t, s.Update(id, codec.NewHeader(5)))
	got, err := s.Data(id)
	require.NoError(t, err)
	a, b, err := codec.HeaderCounts(got)
	require.NoError(t, err)
	assert.EqualValues(t, 5, a)
	assert.EqualValues(t, 5, b)

	require.NoError(t, s.Mutate(id, func(buf []byte) ([]byte, error) {
		return codec.NewHeader(9), nil
	}))
	got, err = s.Data(id)
	require.NoError(t, err)
	a, _, err = codec.HeaderCounts(got)
	require.NoError(t, err)
	assert.EqualValues(t, 9, a)

	// A failing mutation leaves the buffer alone.
	boom := errors.New("boom")
	err = s.Mutate(id, func(buf []byte) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	got, err = s.Data(id)
	require.NoError(t, err)
	a, _, err = codec.HeaderCounts(got)
	require.NoError(t, err)
	assert.EqualValues(t, 9, a)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t, 0)

	id, err := s.Create(nil)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(id))
	assert.Zero(t, s.Len())
	assert.ErrorIs(t, s.Delete(id), ErrNotFound)
	_, err = s.Data(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBackupRestore(t *testing.T) {
	s := newTestStore(t, 0)

	first := codec.NewHeader(1)
	id, err := s.Create(first)
	require.NoError(t, err)

	idx, err := s.AddBackup(id)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	require.NoError(t, s.Update(id, codec.NewHeader(2)))
	idx, err = s.AddBackup(id)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	infos, err := s.Backups(id)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, codec.HeaderSize, infos[0].Size)

	// Restore the first snapshot explicitly.
	require.NoError(t, s.RestoreBackup(id, 0))
	got, err := s.Data(id)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	// -1 restores the most recent.
	require.NoError(t, s.RestoreBackup(id, -1))
	got, err = s.Data(id)
	require.NoError(t, err)
	assert.Equal(t, codec.NewHeader(2), got)
}

func TestRestoreErrors(t *testing.T) {
	s := newTestStore(t, 0)

	id, err := s.Create(nil)
	require.NoError(t, err)

	assert.ErrorIs(t, s.RestoreBackup(id, -1), ErrNoBackups)

	_, err = s.AddBackup(id)
	require.NoError(t, err)
	assert.ErrorIs(t, s.RestoreBackup(id, 5), ErrBackupRange)
	assert.ErrorIs(t, s.RestoreBackup(id, -2), ErrBackupRange)
	assert.ErrorIs(t, s.RestoreBackup("unknown", 0), ErrNotFound)
}

func TestSweep(t *testing.T) {
	s := newTestStore(t, time.Nanosecond)

	id, err := s.Create(nil)
	require.NoError(t, err)
	_, err = s.AddBackup(id)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, s.Sweep())
	assert.Zero(t, s.Len())
	_, err = s.Data(id)
	assert.ErrorIs(t, err, ErrNotFound)

	// A fresh session survives a sweep with a generous timeout.
	s2 := newTestStore(t, time.Hour)
	_, err = s2.Create(nil)
	require.NoError(t, err)
	assert.Zero(t, s2.Sweep())
	assert.Equal(t, 1, s2.Len())
}

func TestWipeOnOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := New(Config{DataDir: dir, Logger: zerolog.Nop()})
	require.NoError(t, err)
	id, err := s.Create(nil)
	require.NoError(t, err)
	_, err = s.AddBackup(id)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening the same directory starts from a clean store: the old
	// session is gone and its snapshot payload has been cleared.
	s2, err := New(Config{DataDir: dir, Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer s2.Close()
	assert.Zero(t, s2.Len())
	_, err = s2.Backups(id)
	assert.ErrorIs(t, err, ErrNotFound)
}
