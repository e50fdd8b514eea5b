package gazetteer

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Store holds the current gazetteer snapshot and swaps in a fresh one on
// reload. Serving reads are lock-free: the snapshot itself is immutable, so
// an atomic pointer is all the coordination a reload needs.
type Store struct {
	path   string
	logger *zap.Logger
	snap   atomic.Pointer[Gazetteer]
}

// NewStore loads the dataset at path and returns a store over it. A missing
// or malformed dataset is a DataLoadError; this is fatal at startup.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	g, err := Load(path, logger)
	if err != nil {
		return nil, err
	}
	s := &Store{path: path, logger: logger}
	s.snap.Store(g)
	return s, nil
}

// Gazetteer returns the current snapshot.
func (s *Store) Gazetteer() *Gazetteer {
	return s.snap.Load()
}

// Reload re-reads the dataset file and swaps in the new snapshot. On failure
// the previous snapshot stays in service.
func (s *Store) Reload() error {
	g, err := Load(s.path, s.logger)
	if err != nil {
		s.logger.Error("gazetteer reload failed, keeping previous snapshot",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return err
	}
	old := s.snap.Swap(g)
	s.logger.Info("gazetteer reloaded",
		zap.Int("entries_before", old.Len()),
		zap.Int("entries_after", g.Len()),
	)
	return nil
}
