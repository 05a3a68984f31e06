package api

import (
	"fmt"
	"testing"

	"bank-ledger-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestLog(t *testing.T) {
	disabled, err := NewRequestLog(0, 1)
	require.NoError(t, err)
	assert.Nil(t, disabled)

	_, err = NewRequestLog(-1, 1)
	assert.Error(t, err)

	_, err = NewRequestLog(5, 5000)
	assert.Error(t, err, "node id outside snowflake range")
}

func TestRequestLog_Wraps(t *testing.T) {
	log, err := NewRequestLog(3, 1)
	require.NoError(t, err)

	assert.Empty(t, log.Recent())

	for i := 0; i < 5; i++ {
		log.Record(models.RequestLogEntry{Path: fmt.Sprintf("/p%d", i)})
	}

	entries := log.Recent()
	require.Len(t, entries, 3)
	assert.Equal(t, "/p2", entries[0].Path)
	assert.Equal(t, "/p3", entries[1].Path)
	assert.Equal(t, "/p4", entries[2].Path)

	// returned slice is a copy
	entries[0].Path = "mutated"
	assert.Equal(t, "/p2", log.Recent()[0].Path)
}
