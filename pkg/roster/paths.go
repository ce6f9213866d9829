package roster

import (
	"os"
	"path/filepath"
	"runtime"
)

// ProfilesFileName is the roster file's name inside the game data dir.
const ProfilesFileName = "profiles.dat"

// DirName returns the game data directory name. WSE2 installs keep a
// separate directory; the file format is identical.
func DirName(wse2 bool) string {
	if wse2 {
		return "Mount&Blade Warband WSE2"
	}
	return "Mount&Blade Warband"
}

// ProfilesDir resolves the platform's game data directory.
func ProfilesDir(wse2 bool) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return profilesDir(runtime.GOOS, home, wse2), nil
}

// ProfilesPath resolves the full path of the roster file.
func ProfilesPath(wse2 bool) (string, error) {
	dir, err := ProfilesDir(wse2)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ProfilesFileName), nil
}

func profilesDir(goos, home string, wse2 bool) string {
	name := DirName(wse2)
	switch goos {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", name)
	case "linux":
		return filepath.Join(home, ".local", "share", name)
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", name)
	default:
		return filepath.Join(home, name)
	}
}
