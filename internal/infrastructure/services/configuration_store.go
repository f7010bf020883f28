package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gateway-console/internal/domain/constants"
	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	componentsFileName = "components.yaml"
	snapshotPrefix     = "snapshot_"
	snapshotSuffix     = ".yaml"

	// SeedSnapshotID is the snapshot written when the store starts empty.
	// It is never pruned.
	SeedSnapshotID int64 = 0

	DefaultMaxSnapshots = constants.DefaultMaxSnapshots
)

type componentsDocument struct {
	Components []entities.ComponentConfiguration `yaml:"components"`
}

// snapshotDocument is one snapshot file: the component configurations plus
// one entry per registered section
type snapshotDocument struct {
	Components []entities.ComponentConfiguration `yaml:"components"`
	Sections   map[string]*yaml.Node              `yaml:"sections,omitempty"`
}

// ConfigurationStore keeps component configurations in a YAML file and
// snapshots of the device configuration in a snapshot directory. A snapshot
// holds the components and the captured state of every section. Snapshot
// ids are creation times in Unix milliseconds.
type ConfigurationStore struct {
	mu           sync.Mutex
	fileSystem   interfaces.FileSystem
	clock        interfaces.Clock
	logger       *logrus.Logger
	stateDir     string
	snapshotDir  string
	maxSnapshots int
	sections     []interfaces.SnapshotSection
	lastID       int64
}

// NewConfigurationStore opens the store and writes the seed snapshot when no
// snapshot exists yet. Sections are restored in the given order on rollback.
func NewConfigurationStore(
	fs interfaces.FileSystem,
	clock interfaces.Clock,
	logger *logrus.Logger,
	stateDir string,
	snapshotDir string,
	maxSnapshots int,
	sections ...interfaces.SnapshotSection,
) (*ConfigurationStore, error) {
	if maxSnapshots <= 0 {
		maxSnapshots = DefaultMaxSnapshots
	}
	s := &ConfigurationStore{
		fileSystem:   fs,
		clock:        clock,
		logger:       logger,
		stateDir:     stateDir,
		snapshotDir:  snapshotDir,
		maxSnapshots: maxSnapshots,
		sections:     sections,
	}

	for _, dir := range []string{stateDir, snapshotDir} {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return nil, errors.NewSystemError(fmt.Sprintf("failed to create directory %s", dir), err)
		}
	}

	ids, err := s.snapshotIDs()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		doc, err := s.capture(context.Background())
		if err != nil {
			return nil, err
		}
		if err := s.writeSnapshot(SeedSnapshotID, doc); err != nil {
			return nil, err
		}
		logger.WithField("snapshot_dir", snapshotDir).Info("Seed snapshot created")
	} else {
		s.lastID = ids[len(ids)-1]
	}

	return s, nil
}

// GetSnapshots returns the ids of all stored snapshots
func (s *ConfigurationStore) GetSnapshots(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotIDs()
}

// Snapshot saves the current device configuration as a new snapshot
func (s *ConfigurationStore) Snapshot(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot(ctx)
}

// Rollback replaces the component configurations with snapshot id and
// re-applies every section it captured. Sections missing from the snapshot
// keep their current state.
func (s *ConfigurationStore) Rollback(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.snapshotPath(id)
	if !s.fileSystem.Exists(path) {
		return errors.NewNotFoundError(fmt.Sprintf("snapshot %d not found", id))
	}

	doc, err := s.readSnapshot(path)
	if err != nil {
		return err
	}
	if err := s.saveComponents(doc.Components); err != nil {
		return err
	}

	for _, section := range s.sections {
		name := section.SectionName()
		node, ok := doc.Sections[name]
		if !ok {
			s.logger.WithFields(logrus.Fields{
				"snapshot_id": id,
				"section":     name,
			}).Warn("Snapshot has no data for section, keeping current state")
			continue
		}
		if err := section.Restore(ctx, node.Decode); err != nil {
			return errors.WrapCollaborator(err, fmt.Sprintf("failed to restore %s from snapshot %d", name, id))
		}
	}

	s.logger.WithFields(logrus.Fields{
		"snapshot_id": id,
		"components":  len(doc.Components),
		"sections":    len(doc.Sections),
	}).Info("Configuration rolled back")
	return nil
}

// GetComponentConfigurations returns every component configuration sorted by pid
func (s *ConfigurationStore) GetComponentConfigurations(ctx context.Context) ([]entities.ComponentConfiguration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadComponents()
}

// UpdateConfiguration replaces the properties of pid and snapshots the result
func (s *ConfigurationStore) UpdateConfiguration(ctx context.Context, pid string, properties map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	components, err := s.loadComponents()
	if err != nil {
		return err
	}

	replaced := false
	for i := range components {
		if components[i].PID == pid {
			components[i].Properties = properties
			replaced = true
			break
		}
	}
	if !replaced {
		components = append(components, entities.ComponentConfiguration{PID: pid, Properties: properties})
	}

	if err := s.saveComponents(components); err != nil {
		return err
	}

	id, err := s.snapshot(ctx)
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"pid":         pid,
		"snapshot_id": id,
	}).Info("Component configuration updated")
	return nil
}

// Check verifies that the snapshot directory is readable
func (s *ConfigurationStore) Check(ctx context.Context) error {
	if _, err := s.fileSystem.ListFiles(s.snapshotDir); err != nil {
		return errors.NewUnavailableError("snapshot directory unreadable", err)
	}
	return nil
}

func (s *ConfigurationStore) snapshot(ctx context.Context) (int64, error) {
	doc, err := s.capture(ctx)
	if err != nil {
		return 0, err
	}

	id := s.clock.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	if err := s.writeSnapshot(id, doc); err != nil {
		return 0, err
	}
	s.lastID = id

	if err := s.prune(); err != nil {
		s.logger.WithError(err).Warn("Failed to prune old snapshots")
	}

	s.logger.WithField("snapshot_id", id).Debug("Snapshot created")
	return id, nil
}

// capture collects the components and the current state of every section
func (s *ConfigurationStore) capture(ctx context.Context) (snapshotDocument, error) {
	components, err := s.loadComponents()
	if err != nil {
		return snapshotDocument{}, err
	}

	doc := snapshotDocument{Components: components}
	for _, section := range s.sections {
		value, err := section.Capture(ctx)
		if err != nil {
			return snapshotDocument{}, errors.WrapCollaborator(err, fmt.Sprintf("failed to capture %s", section.SectionName()))
		}
		node := &yaml.Node{}
		if err := node.Encode(value); err != nil {
			return snapshotDocument{}, errors.NewSystemError(fmt.Sprintf("failed to encode %s", section.SectionName()), err)
		}
		if doc.Sections == nil {
			doc.Sections = make(map[string]*yaml.Node, len(s.sections))
		}
		doc.Sections[section.SectionName()] = node
	}
	return doc, nil
}

// prune keeps the seed snapshot plus the newest maxSnapshots others
func (s *ConfigurationStore) prune() error {
	ids, err := s.snapshotIDs()
	if err != nil {
		return err
	}

	var regular []int64
	for _, id := range ids {
		if id != SeedSnapshotID {
			regular = append(regular, id)
		}
	}
	if len(regular) <= s.maxSnapshots {
		return nil
	}

	for _, id := range regular[:len(regular)-s.maxSnapshots] {
		if err := s.fileSystem.Remove(s.snapshotPath(id)); err != nil {
			return errors.NewSystemError(fmt.Sprintf("failed to remove snapshot %d", id), err)
		}
	}
	return nil
}

// snapshotIDs lists snapshot ids in ascending order
func (s *ConfigurationStore) snapshotIDs() ([]int64, error) {
	files, err := s.fileSystem.ListFiles(s.snapshotDir)
	if err != nil {
		return nil, errors.NewSystemError("failed to read snapshot directory", err)
	}

	ids := []int64{}
	for _, name := range files {
		if !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotSuffix) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(name, snapshotPrefix), snapshotSuffix), 10, 64)
		if err != nil || id < 0 {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *ConfigurationStore) snapshotPath(id int64) string {
	return filepath.Join(s.snapshotDir, fmt.Sprintf("%s%d%s", snapshotPrefix, id, snapshotSuffix))
}

func (s *ConfigurationStore) componentsPath() string {
	return filepath.Join(s.stateDir, componentsFileName)
}

func (s *ConfigurationStore) loadComponents() ([]entities.ComponentConfiguration, error) {
	path := s.componentsPath()
	if !s.fileSystem.Exists(path) {
		return []entities.ComponentConfiguration{}, nil
	}
	return s.readComponents(path)
}

func (s *ConfigurationStore) readComponents(path string) ([]entities.ComponentConfiguration, error) {
	data, err := s.fileSystem.ReadFile(path)
	if err != nil {
		return nil, errors.NewSystemError(fmt.Sprintf("failed to read %s", path), err)
	}

	var doc componentsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewSystemError(fmt.Sprintf("failed to parse %s", path), err)
	}
	if doc.Components == nil {
		doc.Components = []entities.ComponentConfiguration{}
	}

	sort.Slice(doc.Components, func(i, j int) bool { return doc.Components[i].PID < doc.Components[j].PID })
	return doc.Components, nil
}

func (s *ConfigurationStore) readSnapshot(path string) (snapshotDocument, error) {
	data, err := s.fileSystem.ReadFile(path)
	if err != nil {
		return snapshotDocument{}, errors.NewSystemError(fmt.Sprintf("failed to read %s", path), err)
	}

	var doc snapshotDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return snapshotDocument{}, errors.NewSystemError(fmt.Sprintf("failed to parse %s", path), err)
	}
	if doc.Components == nil {
		doc.Components = []entities.ComponentConfiguration{}
	}
	return doc, nil
}

func (s *ConfigurationStore) saveComponents(components []entities.ComponentConfiguration) error {
	sortComponents(components)
	return s.writeYAML(s.componentsPath(), componentsDocument{Components: components})
}

func (s *ConfigurationStore) writeSnapshot(id int64, doc snapshotDocument) error {
	sortComponents(doc.Components)
	return s.writeYAML(s.snapshotPath(id), doc)
}

func (s *ConfigurationStore) writeYAML(path string, doc interface{}) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.NewSystemError(fmt.Sprintf("failed to marshal %s", path), err)
	}
	if err := s.fileSystem.WriteFile(path, data, constants.SecretFilePermission); err != nil {
		return errors.NewSystemError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

func sortComponents(components []entities.ComponentConfiguration) {
	sort.Slice(components, func(i, j int) bool { return components[i].PID < components[j].PID })
}

var _ interfaces.ConfigurationService = (*ConfigurationStore)(nil)
