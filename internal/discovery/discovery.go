package discovery

import (
	"fmt"
	"os"
	"path/filepath"
)

const dirName = ".pocketpet"

// FindDataFile walks up from startDir looking for a .pocketpet/pet.db,
// so a pet can live with a project directory the way dotfiles do.
func FindDataFile(startDir string) (string, bool, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}

	for {
		dataPath := filepath.Join(dir, dirName, "pet.db")
		if _, err := os.Stat(dataPath); err == nil {
			return dataPath, true, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", false, nil
}

// GlobalDataPath is the home-directory fallback location.
func GlobalDataPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, dirName, "pet.db")
}

// ConfigPathFromData returns the balance-config path next to the data
// file. The file is optional; built-in defaults apply when absent.
func ConfigPathFromData(dataPath string) string {
	return filepath.Join(filepath.Dir(dataPath), "config.toml")
}
