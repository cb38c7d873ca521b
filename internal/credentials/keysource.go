package credentials

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// FileKeySource reads an OpenSSH public key from disk.
type FileKeySource struct {
	path string
}

// NewFileKeySource returns a key source for path; a leading ~ is expanded
// to the user's home directory.
func NewFileKeySource(path string) *FileKeySource {
	return &FileKeySource{path: path}
}

// Path returns the configured, unexpanded path.
func (k *FileKeySource) Path() string { return k.path }

// Read loads the key. Every failure wraps ErrKeyMaterialRead.
func (k *FileKeySource) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := homedir.Expand(k.path)
	if err != nil {
		return "", fmt.Errorf("%w: expand %q: %v", ErrKeyMaterialRead, k.path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyMaterialRead, err)
	}

	key := strings.TrimSpace(string(data))
	switch {
	case key == "":
		return "", fmt.Errorf("%w: %s is empty", ErrKeyMaterialRead, path)
	case strings.Contains(key, "PRIVATE KEY"):
		return "", fmt.Errorf("%w: %s holds a private key, point --key at the .pub file", ErrKeyMaterialRead, path)
	}
	return key, nil
}
