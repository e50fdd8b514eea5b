// Package config reads service configuration from the environment with the
// GEO_ prefix, with defaults suitable for local development.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// GeocodingConfig holds the external forward-geocoding service settings.
type GeocodingConfig struct {
	BaseURL      string
	Token        string
	Country      string
	ProximityLat float64
	ProximityLng float64
	Limit        int
	Timeout      time.Duration
}

// DirectionsConfig holds the external directions service settings.
type DirectionsConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// KafkaConfig holds the event bus settings. An empty broker list disables
// eventing; the service then relies on restarts or the admin reload endpoint.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// Enabled reports whether a broker is configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.Brokers[0] != ""
}

// ServiceConfig holds all configuration for the geo service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	DatasetPath string
	Geocoding   GeocodingConfig
	Directions  DirectionsConfig
	Kafka       KafkaConfig
}

// HarvestConfig holds all configuration for the harvester job.
type HarvestConfig struct {
	DatasetPath   string
	OverpassURL   string
	Timeout       time.Duration
	MinLat        float64
	MinLng        float64
	MaxLat        float64
	MaxLng        float64
	Rows          int
	Cols          int
	TileDelay     time.Duration
	AddressSuffix string
	Kafka         KafkaConfig
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("GEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the geo service configuration from environment variables.
func Load() (*ServiceConfig, error) {
	v := newViper()

	v.SetDefault("service_port", ":8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("dataset_path", "data/gazetteer.json")

	v.SetDefault("geocoding_base_url", "https://api.mapbox.com")
	v.SetDefault("geocoding_token", "")
	v.SetDefault("geocoding_country", "ke")
	// Proximity bias: Nairobi CBD.
	v.SetDefault("geocoding_proximity_lat", -1.2864)
	v.SetDefault("geocoding_proximity_lng", 36.8172)
	v.SetDefault("geocoding_limit", 5)
	v.SetDefault("geocoding_timeout_ms", 5000)

	v.SetDefault("directions_base_url", "https://api.mapbox.com")
	v.SetDefault("directions_token", "")
	v.SetDefault("directions_timeout_ms", 5000)

	v.SetDefault("kafka_brokers", "")
	v.SetDefault("kafka_group_prefix", "twigaride.")

	return &ServiceConfig{
		Port:        v.GetString("service_port"),
		AppEnv:      v.GetString("app_env"),
		DatasetPath: v.GetString("dataset_path"),
		Geocoding: GeocodingConfig{
			BaseURL:      v.GetString("geocoding_base_url"),
			Token:        v.GetString("geocoding_token"),
			Country:      v.GetString("geocoding_country"),
			ProximityLat: v.GetFloat64("geocoding_proximity_lat"),
			ProximityLng: v.GetFloat64("geocoding_proximity_lng"),
			Limit:        v.GetInt("geocoding_limit"),
			Timeout:      time.Duration(v.GetInt("geocoding_timeout_ms")) * time.Millisecond,
		},
		Directions: DirectionsConfig{
			BaseURL: v.GetString("directions_base_url"),
			Token:   v.GetString("directions_token"),
			Timeout: time.Duration(v.GetInt("directions_timeout_ms")) * time.Millisecond,
		},
		Kafka: loadKafka(v),
	}, nil
}

// LoadHarvest reads the harvester configuration from environment variables.
func LoadHarvest() (*HarvestConfig, error) {
	v := newViper()

	v.SetDefault("dataset_path", "data/gazetteer.json")
	v.SetDefault("overpass_url", "https://overpass-api.de/api/interpreter")
	v.SetDefault("overpass_timeout_ms", 30000)

	// Default bounding box: the Nairobi metro, roughly 50km x 50km.
	v.SetDefault("harvest_min_lat", -1.52)
	v.SetDefault("harvest_min_lng", 36.60)
	v.SetDefault("harvest_max_lat", -1.07)
	v.SetDefault("harvest_max_lng", 37.05)
	v.SetDefault("harvest_rows", 3)
	v.SetDefault("harvest_cols", 3)
	v.SetDefault("harvest_tile_delay_ms", 1500)
	v.SetDefault("harvest_address_suffix", "Nairobi, Kenya")

	v.SetDefault("kafka_brokers", "")
	v.SetDefault("kafka_group_prefix", "twigaride.")

	return &HarvestConfig{
		DatasetPath:   v.GetString("dataset_path"),
		OverpassURL:   v.GetString("overpass_url"),
		Timeout:       time.Duration(v.GetInt("overpass_timeout_ms")) * time.Millisecond,
		MinLat:        v.GetFloat64("harvest_min_lat"),
		MinLng:        v.GetFloat64("harvest_min_lng"),
		MaxLat:        v.GetFloat64("harvest_max_lat"),
		MaxLng:        v.GetFloat64("harvest_max_lng"),
		Rows:          v.GetInt("harvest_rows"),
		Cols:          v.GetInt("harvest_cols"),
		TileDelay:     time.Duration(v.GetInt("harvest_tile_delay_ms")) * time.Millisecond,
		AddressSuffix: v.GetString("harvest_address_suffix"),
		Kafka:         loadKafka(v),
	}, nil
}

func loadKafka(v *viper.Viper) KafkaConfig {
	brokers := strings.Split(v.GetString("kafka_brokers"), ",")
	cleaned := make([]string, 0, len(brokers))
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			cleaned = append(cleaned, b)
		}
	}
	return KafkaConfig{
		Brokers:     cleaned,
		GroupPrefix: v.GetString("kafka_group_prefix"),
	}
}
