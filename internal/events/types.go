package events

import "time"

// TopicGeoEvents carries dataset lifecycle events.
const TopicGeoEvents = "geo.events"

// GeoDatasetUpdated is published by the harvester after an atomic dataset
// write; the serving process reacts by reloading its gazetteer.
const GeoDatasetUpdated = "geo.dataset.updated"

// DatasetUpdatedEvent describes a completed harvest.
type DatasetUpdatedEvent struct {
	DatasetPath string    `json:"dataset_path"`
	Total       int       `json:"total"`
	Added       int       `json:"added"`
	TilesOK     int       `json:"tiles_ok"`
	TilesFailed int       `json:"tiles_failed"`
	OccurredAt  time.Time `json:"occurred_at"`
}
