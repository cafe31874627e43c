package cryptox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	pepperMu sync.RWMutex
	pepper   string
)

// LoadPepper reads the password pepper from path, generating and persisting a
// fresh one on first run. An empty path disables peppering, which is the mode
// tests run in. Must be called before any password is hashed; changing the
// pepper afterwards invalidates every stored hash.
func LoadPepper(path string) error {
	if path == "" {
		setPepper("")
		return nil
	}

	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("cryptox: prepare pepper dir: %w", err)
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		setPepper(strings.TrimSpace(string(raw)))
		return nil
	case !os.IsNotExist(err):
		return fmt.Errorf("cryptox: read pepper: %w", err)
	}

	fresh := MustGenerateToken(TokenSize256)
	if err := os.WriteFile(path, []byte(fresh), 0o600); err != nil {
		return fmt.Errorf("cryptox: write pepper: %w", err)
	}

	setPepper(fresh)
	return nil
}

func setPepper(p string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepper = p
}

func currentPepper() string {
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	return pepper
}
