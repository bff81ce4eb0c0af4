package datasource

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	pieces "badc0de.net/pkg/go-pieces"
)

// Memory is an in-memory Source and Sink.
type Memory struct {
	mu      sync.RWMutex
	labels  map[string][]byte
	sprites map[string][]byte
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{
		labels:  make(map[string][]byte),
		sprites: make(map[string][]byte),
	}
}

// Put stores both files of a place.
func (m *Memory) Put(placeID string, labels, sprite []byte) {
	m.WriteLabels(placeID, labels)
	m.WriteSprite(placeID, sprite)
}

// PlaceIDs implements Source.
func (m *Memory) PlaceIDs() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id := range m.labels {
		if _, ok := m.sprites[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Memory) read(files map[string][]byte, placeID, kind string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := files[placeID]
	if !ok {
		return nil, errors.Wrapf(pieces.ErrNotFound, "%s for %q", kind, placeID)
	}
	return append([]byte(nil), b...), nil
}

// ReadLabels implements Source.
func (m *Memory) ReadLabels(placeID string) ([]byte, error) {
	return m.read(m.labels, placeID, "labels")
}

// ReadSprite implements Source.
func (m *Memory) ReadSprite(placeID string) ([]byte, error) {
	return m.read(m.sprites, placeID, "sprite")
}

// WriteLabels implements Sink.
func (m *Memory) WriteLabels(placeID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.labels[placeID] = append([]byte(nil), data...)
	return nil
}

// WriteSprite implements Sink.
func (m *Memory) WriteSprite(placeID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sprites[placeID] = append([]byte(nil), data...)
	return nil
}
