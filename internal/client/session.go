package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Session holds the current credential.
type Session interface {
	// Credential returns the bearer credential, false when signed out.
	Credential() (string, bool)
	// Clear drops the credential after the server rejected it.
	Clear() error
}

// StaticSession is an in-memory session, used by tests and one-shot tools.
type StaticSession struct {
	mu    sync.RWMutex
	token string
}

func NewStaticSession(token string) *StaticSession {
	return &StaticSession{token: token}
}

func (s *StaticSession) Credential() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *StaticSession) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *StaticSession) Clear() error {
	s.Set("")
	return nil
}

// FileSession persists the credential and a device id as JSON, so the CLI
// keeps its login across runs. The file is written with mode 0600.
type FileSession struct {
	path string

	mu   sync.Mutex
	data sessionFile
}

type sessionFile struct {
	Credential string `json:"credential,omitempty"`
	DeviceID   string `json:"deviceId"`
}

// OpenFileSession loads path, or starts an empty session with a fresh device
// id when the file does not exist yet.
func OpenFileSession(path string) (*FileSession, error) {
	s := &FileSession{path: path}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read session %s: %w", path, err)
	default:
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("failed to parse session %s: %w", path, err)
		}
	}

	if s.data.DeviceID == "" {
		s.data.DeviceID = uuid.NewString()
		if err := s.saveLocked(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *FileSession) Path() string { return s.path }

func (s *FileSession) Credential() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Credential, s.data.Credential != ""
}

// DeviceID identifies this installation in anonymous feedback.
func (s *FileSession) DeviceID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.DeviceID
}

func (s *FileSession) SetCredential(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Credential = token
	return s.saveLocked()
}

func (s *FileSession) Clear() error {
	return s.SetCredential("")
}

// saveLocked replaces the file through a temp file and a rename.
func (s *FileSession) saveLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace session: %w", err)
	}
	return nil
}
