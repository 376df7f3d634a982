package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKDL_Defaults(t *testing.T) {
	cfg, err := parseKDL("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 50, cfg.Pipeline.ReplayTickMs)
	assert.Equal(t, 3, cfg.Assets.HydrationRetries)
	assert.Equal(t, []string{"java", "gradle"}, cfg.Languages.Enabled)
	assert.Equal(t, "java", cfg.Languages.Primary)
	assert.NotEmpty(t, cfg.Exclude)
}

func TestParseKDL_PipelineConfig(t *testing.T) {
	kdlContent := `
pipeline {
    intake_channel_size 512
    high_watermark 4000
    low_watermark 1000
    replay_tick_ms 25
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 512, cfg.Pipeline.IntakeChannelSize)
	assert.Equal(t, 4000, cfg.Pipeline.HighWatermark)
	assert.Equal(t, 1000, cfg.Pipeline.LowWatermark)
	assert.Equal(t, 25, cfg.Pipeline.ReplayTickMs)
}

func TestParseKDL_AssetsConfig(t *testing.T) {
	kdlContent := `
assets {
    stub_cache_dir ".cache/stubs"
    hydration_retries 5
    hydration_delay_ms 50
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, ".cache/stubs", cfg.Assets.StubCacheDir)
	assert.Equal(t, 5, cfg.Assets.HydrationRetries)
	assert.Equal(t, 50, cfg.Assets.HydrationDelayMs)
}

func TestParseKDL_LanguagesConfig(t *testing.T) {
	kdlContent := `
languages {
    enabled "java" "gradle" "kotlin"
    primary "java"
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, []string{"java", "gradle", "kotlin"}, cfg.Languages.Enabled)
	assert.Equal(t, "java", cfg.Languages.Primary)
}

func TestParseKDL_FullConfig(t *testing.T) {
	kdlContent := `
project {
    root "."
    name "test-project"
}

index {
    max_file_size "5MB"
    max_file_count 5000
    respect_gitignore true
}

performance {
    max_memory_mb 256
    max_goroutines 8
}

pipeline {
    high_watermark 3000
    low_watermark 500
}

languages {
    enabled "java"
}

exclude "**/.git/**" "**/node_modules/**"
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "test-project", cfg.Project.Name)
	assert.Equal(t, int64(5*1024*1024), cfg.Index.MaxFileSize)
	assert.Equal(t, 5000, cfg.Index.MaxFileCount)
	assert.Equal(t, 256, cfg.Performance.MaxMemoryMB)
	assert.Equal(t, 8, cfg.Performance.MaxGoroutines)
	assert.Equal(t, 3000, cfg.Pipeline.HighWatermark)
	assert.Equal(t, []string{"java"}, cfg.Languages.Enabled)
	assert.Contains(t, cfg.Exclude, "**/.git/**")
	assert.Contains(t, cfg.Exclude, "**/node_modules/**")
}
