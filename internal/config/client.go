package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const ClientIDFile = "client-id"

// ResolveClientID returns the configured client id, or the one kept in
// <dir>/client-id, generating and writing a new one on first use.
// The resolved id is stored back into c.
func (c *StorageConfig) ResolveClientID() (string, error) {
	if id := strings.TrimSpace(c.ClientID); id != "" {
		c.ClientID = id
		return id, nil
	}

	path := filepath.Join(c.Dir, ClientIDFile)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		id := strings.TrimSpace(string(data))
		if _, perr := uuid.Parse(id); perr == nil {
			c.ClientID = id
			return id, nil
		}
		configLogger.Warn().Str("path", path).Msg("Invalid client id file, generating a new id")
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("read client id: %w", err)
	}

	id := uuid.New().String()
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write client id: %w", err)
	}

	configLogger.Info().Str("client_id", id).Msg("Generated client id")
	c.ClientID = id
	return id, nil
}
