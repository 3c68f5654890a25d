package utils

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// DirCheckResult describes a directory topserve wants to keep files in
type DirCheckResult struct {
	Exists   bool
	Writable bool
	Error    error
}

// FileExists reports whether anything can be stat'ed at path
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir makes dirPath and any missing parents
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// SaveTOMLFile encodes data next to filePath and renames it into place,
// so readers never observe a half-written file.
func SaveTOMLFile(data any, filePath string) error {
	tmp, err := os.CreateTemp(filepath.Dir(filePath), "."+filepath.Base(filePath)+".*")
	if err != nil {
		log.Errorf("Failed to create file: %v", err)
		return err
	}
	if err := toml.NewEncoder(tmp).Encode(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		log.Warnf("Failed to set permissions on %s: %v", tmp.Name(), err)
	}
	return os.Rename(tmp.Name(), filePath)
}

// GetAbsolutePath resolves configPath for display, "unknown" when empty
func GetAbsolutePath(configPath string) string {
	if configPath == "" {
		return "unknown"
	}
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return configPath
	}
	return absPath
}

// testWriteAccess creates and removes a throwaway file inside dirPath
func testWriteAccess(dirPath string) bool {
	f, err := os.CreateTemp(dirPath, ".write_test.*")
	if err != nil {
		log.Warnf("Directory %s is not writable: %v", dirPath, err)
		return false
	}
	name := f.Name()
	f.Close()
	if err := os.Remove(name); err != nil {
		log.Debugf("Leaving write check file %s behind: %v", name, err)
	}
	return true
}

// GetExecutableDir is the directory holding the running binary
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// CheckDirStatus makes sure dirPath exists, creating it when missing,
// and reports whether files can be written there.
func CheckDirStatus(dirPath string) DirCheckResult {
	if err := EnsureDir(dirPath); err != nil {
		log.Warnf("Cannot create directory %s: %v", dirPath, err)
		return DirCheckResult{Error: err}
	}
	return DirCheckResult{Exists: true, Writable: testWriteAccess(dirPath)}
}
