//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/rainfall-normals/internal/adapter/kafka"
	"github.com/couchcryptid/rainfall-normals/internal/adapter/smn"
	"github.com/couchcryptid/rainfall-normals/internal/config"
	"github.com/couchcryptid/rainfall-normals/internal/domain"
	"github.com/couchcryptid/rainfall-normals/internal/observability"
	"github.com/couchcryptid/rainfall-normals/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testTopic = "test-rainfall-rankings"

// publishedMessage holds a deserialized message read from the rankings topic.
type publishedMessage struct {
	Result  domain.Result
	Key     string
	Headers map[string]string
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("rainfall-test"),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// readPublished reads a single message from the rankings topic and deserializes it.
func readPublished(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from rankings topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var res domain.Result
	require.NoError(t, json.Unmarshal(msg.Value, &res), "unmarshal ranking message")

	return publishedMessage{Result: res, Key: string(msg.Key), Headers: headers}
}

func stationReport(status string, from, to int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SITUACIÓN             : %s\n\n", status)
	b.WriteString("LLUVIA MÁXIMA 24 H.\n")
	b.WriteString("AÑO      ENE   MÁXIMA  MES  MESES\n")
	b.WriteString("         MM\n")
	for y := from; y <= to; y++ {
		fmt.Fprintf(&b, "%d     1.0   %.1f  AGO  12\n", y, 20.0+float64(y-from))
	}
	b.WriteString("\n")
	return b.String()
}

// TestPipelinePublishesReadyRanking runs lookups against a fake SMN server and
// checks that only the READY ranking reaches the Kafka topic.
func TestPipelinePublishesReadyRanking(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Mensuales/jal/mes14066.txt":
			_, _ = w.Write([]byte(stationReport("OPERANDO", 1970, 2025)))
		case "/Mensuales/jal/mes14067.txt":
			_, _ = w.Write([]byte(stationReport("NO OPERANDO", 1970, 2025)))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(upstream.Close)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaTopic: testTopic}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	client := smn.NewClient(upstream.URL, 5*time.Second, 50, metrics, discardLogger())
	p := pipeline.New(client, writer, discardLogger(), metrics)

	inactive, err := p.Run(ctx, domain.NewRequest("Jalisco", "14067"))
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeStationInactive, inactive.Outcome)

	ready, err := p.Run(ctx, domain.NewRequest("Jalisco", "14066"))
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeReady, ready.Outcome)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		StartOffset: kafkago.FirstOffset,
		MaxWait:     500 * time.Millisecond,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	msg := readPublished(ctx, t, consumer)
	assert.Equal(t, "jal-14066", msg.Key)
	assert.Equal(t, string(domain.OutcomeReady), msg.Headers["outcome"])
	assert.NotEmpty(t, msg.Headers["generated_at"])
	assert.Equal(t, domain.OutcomeReady, msg.Result.Outcome)
	require.Len(t, msg.Result.Ranked, 46)
	assert.Equal(t, 2025, msg.Result.Ranked[0].Year)
	assert.Equal(t, 1, msg.Result.Ranked[0].Rank)

	// The inactive station was never published, so the topic holds one message.
	lag, err := consumer.ReadLag(ctx)
	require.NoError(t, err)
	assert.Zero(t, lag)
}
