package gazetteer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/twigaride/service-geo/internal/domain/geo"
	"go.uber.org/zap"
)

// ReadDataset loads the persisted location dataset from path. Entries missing
// a name or carrying an out-of-range coordinate are dropped with a warning;
// a missing or malformed file is a DataLoadError.
func ReadDataset(path string, logger *zap.Logger) ([]geo.Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, geo.NewDataLoadError(path, err)
	}

	var raw []geo.Location
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, geo.NewDataLoadError(path, err)
	}

	locations := make([]geo.Location, 0, len(raw))
	for _, loc := range raw {
		if err := loc.Validate(); err != nil {
			logger.Warn("dropping invalid dataset entry",
				zap.String("id", loc.ID),
				zap.String("name", loc.Name),
				zap.Error(err),
			)
			continue
		}
		locations = append(locations, loc)
	}

	return locations, nil
}

// WriteDataset persists the full location set to path as a single atomic
// write: the records land in a temp file in the same directory which is then
// renamed over the target, so a killed process never leaves a half-written
// dataset behind.
func WriteDataset(path string, locations []geo.Location) error {
	data, err := json.MarshalIndent(locations, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dataset file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp dataset file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp dataset file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace dataset file: %w", err)
	}
	return nil
}
