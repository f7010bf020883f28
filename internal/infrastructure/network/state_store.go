package network

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"gateway-console/internal/domain/constants"
	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"
	"gateway-console/internal/domain/netconf"

	"gopkg.in/yaml.v3"
)

const stateFileName = "interfaces.yaml"

type stateFile struct {
	Interfaces []netconf.InterfaceState `yaml:"interfaces"`
}

// StateStore keeps the last applied configuration of every interface in a
// single YAML file
type StateStore struct {
	mu         sync.Mutex
	path       string
	fileSystem interfaces.FileSystem
}

// NewStateStore creates a StateStore below stateDir
func NewStateStore(stateDir string, fs interfaces.FileSystem) *StateStore {
	return &StateStore{
		path:       filepath.Join(stateDir, stateFileName),
		fileSystem: fs,
	}
}

// Path returns the state file location
func (s *StateStore) Path() string {
	return s.path
}

// List returns every stored interface state sorted by name
func (s *StateStore) List() ([]netconf.InterfaceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Get returns the stored state of name
func (s *StateStore) Get(name string) (netconf.InterfaceState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	states, err := s.load()
	if err != nil {
		return netconf.InterfaceState{}, false, err
	}
	for _, st := range states {
		if st.Name == name {
			return st, true, nil
		}
	}
	return netconf.InterfaceState{}, false, nil
}

// Put stores state, replacing an entry with the same name
func (s *StateStore) Put(state netconf.InterfaceState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	states, err := s.load()
	if err != nil {
		return err
	}

	replaced := false
	for i := range states {
		if states[i].Name == state.Name {
			states[i] = state
			replaced = true
			break
		}
	}
	if !replaced {
		states = append(states, state)
	}

	return s.save(states)
}

func (s *StateStore) load() ([]netconf.InterfaceState, error) {
	if !s.fileSystem.Exists(s.path) {
		return nil, nil
	}

	data, err := s.fileSystem.ReadFile(s.path)
	if err != nil {
		return nil, errors.NewSystemError(fmt.Sprintf("failed to read interface state %s", s.path), err)
	}

	var file stateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.NewSystemError(fmt.Sprintf("failed to parse interface state %s", s.path), err)
	}

	sort.Slice(file.Interfaces, func(i, j int) bool {
		return file.Interfaces[i].Name < file.Interfaces[j].Name
	})
	return file.Interfaces, nil
}

func (s *StateStore) save(states []netconf.InterfaceState) error {
	sort.Slice(states, func(i, j int) bool {
		return states[i].Name < states[j].Name
	})

	data, err := yaml.Marshal(stateFile{Interfaces: states})
	if err != nil {
		return errors.NewSystemError("failed to marshal interface state", err)
	}
	if err := s.fileSystem.WriteFile(s.path, data, constants.SecretFilePermission); err != nil {
		return errors.NewSystemError(fmt.Sprintf("failed to write interface state %s", s.path), err)
	}
	return nil
}
