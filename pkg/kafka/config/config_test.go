package kafka_config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, DefaultProducerCompression, cfg.ProducerCompression)
	assert.Equal(t, DefaultProducerRequireAcks, cfg.ProducerRequireAcks)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "kafka-1:9092, kafka-2:9092")
	t.Setenv(EnvKafkaProducerCompression, "GZIP")
	t.Setenv(EnvKafkaProducerRequireAcks, "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
	assert.Equal(t, "gzip", cfg.ProducerCompression)
	assert.Equal(t, 1, cfg.ProducerRequireAcks)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "kafka-1:9092,")
	t.Setenv(EnvKafkaProducerCompression, "brotli")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broker 1 cannot be empty")
	assert.Contains(t, err.Error(), "ProducerCompression")
}
