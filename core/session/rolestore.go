package session

import (
	"os"
	"strings"
	"sync"
)

// ActiveRoleStore persists the dashboard role selection outside the session
// lifecycle, so it survives logout and process restarts.
type ActiveRoleStore interface {
	Load() (Role, error)
	Save(role Role) error
}

type memoryRoleStore struct {
	mu   sync.Mutex
	role Role
}

var _ ActiveRoleStore = (*memoryRoleStore)(nil)

// NewMemoryRoleStore keeps the selection for the process lifetime only.
func NewMemoryRoleStore() ActiveRoleStore {
	return &memoryRoleStore{role: RoleStudent}
}

func (s *memoryRoleStore) Load() (Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role, nil
}

func (s *memoryRoleStore) Save(role Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.role = role
	return nil
}

type fileRoleStore struct {
	mu   sync.Mutex
	path string
}

var _ ActiveRoleStore = (*fileRoleStore)(nil)

// NewFileRoleStore persists the selection to a plain file at path.
func NewFileRoleStore(path string) ActiveRoleStore {
	return &fileRoleStore{path: path}
}

func (s *fileRoleStore) Load() (Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return RoleStudent, nil
		}
		return RoleStudent, err
	}
	role, err := ParseRole(strings.TrimSpace(string(data)))
	if err != nil {
		return RoleStudent, nil // corrupt selection falls back to default
	}
	return role, nil
}

func (s *fileRoleStore) Save(role Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.WriteFile(s.path, []byte(role.String()+"\n"), 0o600)
}
