package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// fileDocument is the on-disk layout: one key, one string.
type fileDocument struct {
	AccessToken string `json:"access_token"`
}

// FileStore persists the credential in a JSON file readable only by its owner.
type FileStore struct {
	mu     sync.Mutex
	path   string
	sealer *sealer
	logger *zap.Logger
}

// FileOption customizes a FileStore.
type FileOption func(*FileStore) error

// WithSecret seals the stored credential with a key derived from secret.
func WithSecret(secret string) FileOption {
	return func(s *FileStore) error {
		if secret == "" {
			return nil
		}
		sl, err := newSealer(secret)
		if err != nil {
			return err
		}
		s.sealer = sl
		return nil
	}
}

// WithFileLogger sets the logger used for unreadable files.
func WithFileLogger(logger *zap.Logger) FileOption {
	return func(s *FileStore) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// NewFileStore builds a store backed by path.
func NewFileStore(path string, opts ...FileOption) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("credential file path required")
	}
	s := &FileStore{path: path, logger: zap.NewNop()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Get reads the credential. Missing, corrupt or unsealable files read as empty.
func (s *FileStore) Get(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) read() (string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read credential file: %w", err)
	}

	var doc fileDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.logger.Warn("credential file is not valid json, ignoring", zap.String("path", s.path))
		return "", nil
	}

	switch {
	case doc.AccessToken == "":
		return "", nil
	case s.sealer != nil && isSealed(doc.AccessToken):
		plain, err := s.sealer.open(doc.AccessToken)
		if err != nil {
			s.logger.Warn("credential file cannot be unsealed, ignoring", zap.String("path", s.path))
			return "", nil
		}
		return plain, nil
	case isSealed(doc.AccessToken):
		s.logger.Warn("credential file is sealed but no secret is configured", zap.String("path", s.path))
		return "", nil
	default:
		return doc.AccessToken, nil
	}
}

// Set writes the credential atomically with mode 0600.
func (s *FileStore) Set(_ context.Context, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := credential
	if s.sealer != nil {
		sealed, err := s.sealer.seal(credential)
		if err != nil {
			return fmt.Errorf("seal credential: %w", err)
		}
		value = sealed
	}

	payload, err := json.Marshal(fileDocument{AccessToken: value})
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credential-*")
	if err != nil {
		return fmt.Errorf("create credential temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write credential: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

// Clear deletes the credential file.
func (s *FileStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove()
}

// ClearIf deletes the credential file while it still holds expected.
func (s *FileStore) ClearIf(_ context.Context, expected string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return false, err
	}
	if current == "" || current != expected {
		return false, nil
	}
	if err := s.remove(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileStore) remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}
