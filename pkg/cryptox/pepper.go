package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
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
// new one when the file does not exist yet. Hashes created before a pepper is
// loaded use an empty pepper.
func LoadPepper(path string) error {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create pepper dir: %w", err)
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		buf := make([]byte, keyLength)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generate pepper: %w", err)
		}
		value := base64.RawURLEncoding.EncodeToString(buf)
		if err := os.WriteFile(path, []byte(value), 0o600); err != nil {
			return fmt.Errorf("write pepper: %w", err)
		}
		setPepper(value)
		return nil
	case err != nil:
		return fmt.Errorf("read pepper: %w", err)
	}

	setPepper(strings.TrimSpace(string(data)))
	return nil
}

func setPepper(v string) {
	pepperMu.Lock()
	pepper = v
	pepperMu.Unlock()
}

func currentPepper() string {
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	return pepper
}
