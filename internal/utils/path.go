package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

const appDir = "typesearch"

// PathResolver finds writable locations for the config file and the index
// snapshot cache.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
	cacheDir      string
}

// NewPathResolver determines the platform config and cache directories.
func NewPathResolver() (*PathResolver, error) {
	execDir, err := GetExecutableDir()
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: execDir,
		homeDir:       homeDir,
		configDir:     getConfigDir(homeDir),
		cacheDir:      getCacheDir(homeDir),
	}

	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s, cacheDir=%s",
		pr.executableDir, pr.configDir, pr.cacheDir)

	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", appDir)
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, appDir)
		}
		return filepath.Join(homeDir, ".config", appDir)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appDir)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", appDir)
	default:
		return filepath.Join(homeDir, "."+appDir)
	}
}

// getCacheDir prefers the platform cache dir and falls back to ~/.typesearch/cache.
func getCacheDir(homeDir string) string {
	if cacheHome, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cacheHome, appDir)
	}
	return filepath.Join(homeDir, "."+appDir, "cache")
}

// GetConfigPath returns the full path for a config file, falling back to
// ~/.typesearch, the temp dir and finally the executable dir when the
// preferred directory is not writable.
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	return pr.writablePath(pr.configDir, filename, []string{
		filepath.Join(pr.homeDir, "."+appDir),
		filepath.Join(os.TempDir(), appDir),
		pr.executableDir,
	})
}

// GetCachePath returns the full path for a file in the cache directory.
func (pr *PathResolver) GetCachePath(filename string) (string, error) {
	return pr.writablePath(pr.cacheDir, filename, []string{
		filepath.Join(pr.homeDir, "."+appDir, "cache"),
		filepath.Join(os.TempDir(), appDir),
	})
}

func (pr *PathResolver) writablePath(preferred, filename string, fallbacks []string) (string, error) {
	if CheckDirStatus(preferred).Writable {
		return filepath.Join(preferred, filename), nil
	}
	for _, dir := range fallbacks {
		if CheckDirStatus(dir).Writable {
			path := filepath.Join(dir, filename)
			log.Warnf("Using fallback location: %s", path)
			return path, nil
		}
	}
	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary file: %s", tempPath)
	return tempPath, nil
}

// GetCacheDir returns the cache directory
func (pr *PathResolver) GetCacheDir() string {
	return pr.cacheDir
}
