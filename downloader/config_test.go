package downloader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithDefaults_FillsOnlyZeroValues(t *testing.T) {
	cfg := Config{
		UserAgent:      "custom-agent/1.0",
		SegmentsAmount: 16,
	}
	filled := cfg.withDefaults()

	require.Equal(t, "custom-agent/1.0", filled.UserAgent)
	require.Equal(t, 16, filled.SegmentsAmount)
	require.Equal(t, 32, filled.RetryTimes)
	require.Equal(t, 8192, filled.ChunkSize)
	require.Equal(t, 3600*time.Second, filled.Timeout)
	require.Equal(t, 3*time.Second, filled.RetryBackoff)
}

func TestDefaultConfig_MatchesDocumentedDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, 64, cfg.SegmentsAmount)
	require.Equal(t, 32, cfg.RetryTimes)
	require.Equal(t, 8192, cfg.ChunkSize)
	require.Equal(t, 3*time.Second, cfg.RetryBackoff)
}
