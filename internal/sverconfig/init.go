package sverconfig

import (
	"os"
	"path/filepath"
)

const initialConfigStub = "[default]\ndependencies = []\nexcludes = []\n"

// writeInitialConfig writes a stub sver.toml to absDir's working tree
// unless a file already sits there, returning whether it created one.
func writeInitialConfig(absDir string) (bool, error) {
	path := filepath.Join(absDir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}

	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(initialConfigStub), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
