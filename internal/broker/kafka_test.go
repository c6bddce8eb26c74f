package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConsumer(t *testing.T) {
	c := NewConsumer(&Config{
		Brokers: []string{"localhost:9092"},
		Topic:   "catalog.sales",
		GroupID: "catalog",
	})

	assert.Equal(t, "catalog.sales", c.Topic())
	assert.Equal(t, "catalog", c.reader.Config().GroupID)
	require.NoError(t, c.Close())
}
