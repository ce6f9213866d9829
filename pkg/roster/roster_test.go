package roster

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "profiles.dat")
	buf := []byte{0x0a, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}

	require.NoError(t, Save(path, buf))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, buf, got)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.dat"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfilesDir(t *testing.T) {
	home := "/home/player"
	cases := []struct {
		goos string
		wse2 bool
		want string
	}{
		{"windows", false, filepath.Join(home, "AppData", "Roaming", "Mount&Blade Warband")},
		{"windows", true, filepath.Join(home, "AppData", "Roaming", "Mount&Blade Warband WSE2")},
		{"linux", false, filepath.Join(home, ".local", "share", "Mount&Blade Warband")},
		{"darwin", false, filepath.Join(home, "Library", "Application Support", "Mount&Blade Warband")},
		{"plan9", false, filepath.Join(home, "Mount&Blade Warband")},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, profilesDir(tc.goos, home, tc.wse2), "goos=%s wse2=%v", tc.goos, tc.wse2)
	}
}

func TestNormalizeBackupName(t *testing.T) {
	cases := map[string]string{
		"save1":          "save1.dat",
		"save1.dat":      "save1.dat",
		"save1.bak":      "save1.dat",
		"save1.tar.gz":   "save1.dat",
		"before-restore": "before-restore.dat",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeBackupName(in), "input %q", in)
	}
}

func TestBackupRestore(t *testing.T) {
	dir := t.TempDir()
	profiles := filepath.Join(dir, "profiles.dat")
	backups := filepath.Join(dir, "backups")

	original := []byte("original roster bytes")
	require.NoError(t, Save(profiles, original))

	dest, err := Backup(profiles, backups, "save1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(backups, "save1.dat"), dest)

	// Clobber the live file, then restore.
	require.NoError(t, Save(profiles, []byte("clobbered")))
	require.NoError(t, Restore(dest, profiles))

	got, err := Load(profiles)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestBackupMissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := Backup(filepath.Join(dir, "missing.dat"), dir, "save1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListBackups(t *testing.T) {
	dir := t.TempDir()

	// Missing directory is an empty list.
	names, err := ListBackups(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "beta.dat"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.dat"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.dat"), 0o755))

	names, err = ListBackups(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)
}

func TestSaveErrorWrapsPath(t *testing.T) {
	// Saving under a path whose parent is a regular file must fail.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := Save(filepath.Join(blocker, "profiles.dat"), []byte("y"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
