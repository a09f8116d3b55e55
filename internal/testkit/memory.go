package testkit

import (
	"context"
	"fmt"
	"sync"

	"wearprep/domain/core"
	"wearprep/domain/sensor"
	apperrors "wearprep/internal/errors"
)

type unitKey struct {
	participant core.ParticipantID
	kind        sensor.Kind
}

// MemorySource serves raw tables from memory
type MemorySource struct {
	mu     sync.RWMutex
	tables map[unitKey]sensor.RawTable
}

// NewMemorySource creates an empty source
func NewMemorySource() *MemorySource {
	return &MemorySource{tables: make(map[unitKey]sensor.RawTable)}
}

// NewMemorySourceFrom fills a source with every participant × kind of g
func NewMemorySourceFrom(g *WearableDataGenerator) *MemorySource {
	s := NewMemorySource()
	for _, p := range g.Participants() {
		for _, k := range sensor.AllKinds() {
			s.Put(g.RawTable(p, k))
		}
	}
	return s
}

// Put stores raw under its participant and kind
func (s *MemorySource) Put(raw sensor.RawTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[unitKey{raw.Participant, raw.Kind}] = raw
}

// Load implements ports.SensorSource
func (s *MemorySource) Load(ctx context.Context, participant core.ParticipantID, kind sensor.Kind) (sensor.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return sensor.RawTable{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.tables[unitKey{participant, kind}]
	if !ok {
		return sensor.RawTable{}, apperrors.NotFound(fmt.Sprintf("%s/%s", participant, kind.FileName()), core.ErrSensorFileNotFound)
	}
	return raw, nil
}

type storeKey struct {
	run core.RunID
	unitKey
}

// MemoryStore keeps saved signals in memory
type MemoryStore struct {
	mu      sync.RWMutex
	signals map[storeKey]*sensor.CleanedSignal
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{signals: make(map[storeKey]*sensor.CleanedSignal)}
}

// Save implements ports.SignalStore
func (s *MemoryStore) Save(ctx context.Context, runID core.RunID, sig *sensor.CleanedSignal) error {
	if sig == nil {
		return fmt.Errorf("cannot save a nil signal")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signals[storeKey{runID, unitKey{sig.Participant, sig.Kind}}] = sig
	return nil
}

// Load implements ports.SignalStore
func (s *MemoryStore) Load(ctx context.Context, runID core.RunID, participant core.ParticipantID, kind sensor.Kind) (*sensor.CleanedSignal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sig, ok := s.signals[storeKey{runID, unitKey{participant, kind}}]
	if !ok {
		return nil, core.NewNotFoundError("cleaned signal", fmt.Sprintf("%s/%s/%s", runID, participant, kind))
	}
	return sig, nil
}

// Len returns the number of stored signals
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.signals)
}
