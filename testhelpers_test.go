//go:build integration

package main_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/twigaride/service-geo/internal/domain/geo"
	"github.com/twigaride/service-geo/internal/events"
	"github.com/twigaride/service-geo/internal/gazetteer"
	"github.com/twigaride/service-geo/internal/harvester"
	"go.uber.org/zap"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	KafkaBrokers []string
}

// setupKafka starts a Kafka testcontainer and pre-creates the geo topic.
func setupKafka(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	testcontainers.CleanupContainer(t, kafkaContainer)
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, events.TopicGeoEvents)

	return &testInfra{
		KafkaBrokers: kafkaBrokers,
	}
}

// seedDataset writes a dataset with a single curated entry and returns its path.
func seedDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gazetteer.json")
	curated := []geo.Location{{
		ID:          geo.LocationID(geo.SourceCurated, "jkia"),
		Name:        "Jomo Kenyatta International Airport",
		FullAddress: "Jomo Kenyatta International Airport, Mombasa Road, Nairobi, Kenya",
		Coordinate:  geo.Coordinate{Lat: -1.3192, Lng: 36.9275},
		Source:      geo.SourceCurated,
	}}
	require.NoError(t, gazetteer.WriteDataset(path, curated))
	return path
}

// startOverpassStub serves a fixed set of elements for any tile query.
func startOverpassStub(t *testing.T) *httptest.Server {
	t.Helper()
	elements := []harvester.Element{
		{
			Type: "node", ID: 1, Lat: -1.2567, Lon: 36.8034,
			Tags: map[string]string{"name": "Westgate Mall", "shop": "mall"},
		},
		{
			Type: "way", ID: 2,
			Center: &harvester.ElementCenter{Lat: -1.2921, Lon: 36.8219},
			Tags:   map[string]string{"name": "Kenyatta International Convention Centre", "building": "yes"},
		},
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"elements": elements})
	}))
}

// newHarvester wires a harvester against the stub Overpass server and the
// real Kafka producer.
func newHarvester(t *testing.T, overpassURL, datasetPath string, brokers []string) (*harvester.Harvester, func()) {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	producer := events.NewProducer(brokers, logger)
	overpass := harvester.NewOverpassClient(harvester.OverpassConfig{
		BaseURL: overpassURL,
		Timeout: 5 * time.Second,
	}, logger)

	job := harvester.New(overpass, producer, harvester.Config{
		DatasetPath:   datasetPath,
		Box:           geo.BoundingBox{MinLat: -1.52, MinLng: 36.60, MaxLat: -1.07, MaxLng: 37.05},
		Rows:          1,
		Cols:          1,
		TileDelay:     time.Millisecond,
		AddressSuffix: "Nairobi, Kenya",
	}, logger)

	return job, func() { _ = producer.Close() }
}

// startDatasetConsumer starts the reload consumer against the store.
func startDatasetConsumer(t *testing.T, ctx context.Context, brokers []string, store *gazetteer.Store) *events.DatasetEventConsumer {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	groupID := fmt.Sprintf("test-geo-%s", uuid.New().String()[:8])
	consumer := events.NewDatasetEventConsumer(brokers, groupID, store, logger)

	go func() { _ = consumer.Start(ctx) }()
	return consumer
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
