package roster

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// BackupExt is forced onto every on-disk backup name.
const BackupExt = ".dat"

// NormalizeBackupName forces a .dat extension, replacing whatever
// extension the caller supplied.
func NormalizeBackupName(name string) string {
	if strings.HasSuffix(name, BackupExt) {
		return name
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return name + BackupExt
}

// Backup copies the roster at profilesPath into backupDir under name.
func Backup(profilesPath, backupDir, name string) (string, error) {
	buf, err := Load(profilesPath)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(backupDir, NormalizeBackupName(name))
	if err := Save(dest, buf); err != nil {
		return "", err
	}
	return dest, nil
}

// Restore copies the backup at backupPath over the roster at profilesPath.
func Restore(backupPath, profilesPath string) error {
	buf, err := Load(backupPath)
	if err != nil {
		return err
	}
	return Save(profilesPath, buf)
}

// ListBackups returns the backup names (without extension) found in dir,
// sorted. A missing directory is an empty list, not an error.
func ListBackups(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), BackupExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), BackupExt))
	}
	sort.Strings(names)
	return names, nil
}
