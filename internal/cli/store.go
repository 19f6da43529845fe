package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/client"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	"gopkg.in/yaml.v3"
)

// SessionStore persists a client.Session as YAML
type SessionStore struct {
	Path string
}

type sessionFile struct {
	Token string      `yaml:"token"`
	User  *storedUser `yaml:"user,omitempty"`
}

type storedUser struct {
	ID        uint64    `yaml:"id"`
	Email     string    `yaml:"email"`
	CreatedAt time.Time `yaml:"created_at"`
}

// DefaultSessionPath returns $TASKCTL_SESSION or ~/.taskctl/session.yaml
func DefaultSessionPath() (string, error) {
	if path := os.Getenv("TASKCTL_SESSION"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".taskctl", "session.yaml"), nil
}

// Load reads the stored session. A missing file is an empty session.
func (s SessionStore) Load() (*client.Session, error) {
	session := client.NewSession()

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return session, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var file sessionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", s.Path, err)
	}
	if file.Token == "" {
		return session, nil
	}

	var user *dto.UserDTO
	if file.User != nil {
		user = &dto.UserDTO{ID: file.User.ID, Email: file.User.Email, CreatedAt: file.User.CreatedAt}
	}
	session.Set(file.Token, user)
	return session, nil
}

// Save writes the session, or removes the file once the session is cleared
func (s SessionStore) Save(session *client.Session) error {
	if !session.IsAuthenticated() {
		if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove session file: %w", err)
		}
		return nil
	}

	file := sessionFile{Token: session.Token()}
	if user := session.User(); user != nil {
		file.User = &storedUser{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt}
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	// WriteFile keeps the mode of an existing file
	return os.Chmod(s.Path, 0o600)
}
