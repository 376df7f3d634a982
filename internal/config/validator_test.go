package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validPipeline() Pipeline {
	return Pipeline{
		IntakeChannelSize:   32,
		DeferredChannelSize: 64,
		MaxInFlightMessages: 8,
		HighWatermark:       100,
		LowWatermark:        10,
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	cfg := &Config{
		Project: Project{Root: "/test/root"},
		Index: Index{
			MaxFileSize:    1024 * 1024,
			MaxTotalSizeMB: 1000,
			MaxFileCount:   10000,
		},
		Performance: Performance{
			MaxMemoryMB:         2048,
			MaxGoroutines:       1,
			ParallelFileWorkers: 1,
		},
		Pipeline:  validPipeline(),
		Languages: Languages{Enabled: []string{"java"}},
	}

	validator := NewValidator()
	assert.NoError(t, validator.ValidateAndSetDefaults(cfg))

	assert.NotZero(t, cfg.Performance.MaxGoroutines)
	assert.NotZero(t, cfg.Performance.ParallelFileWorkers)
	assert.True(t, cfg.Index.SmartSizeControl)
	assert.NotEmpty(t, cfg.Index.PriorityMode)
	assert.Equal(t, "java", cfg.Languages.Primary)
}

func TestValidateProjectConfig(t *testing.T) {
	validator := NewValidator()

	assert.NoError(t, validator.validateProjectConfig(&Project{Root: "/test/root"}))
	assert.Error(t, validator.validateProjectConfig(&Project{Root: ""}))
}

func TestValidateIndexConfig(t *testing.T) {
	validator := NewValidator()

	assert.NoError(t, validator.validateIndexConfig(&Index{
		MaxFileSize: 1024 * 1024, MaxTotalSizeMB: 1000, MaxFileCount: 10000,
	}))
	assert.Error(t, validator.validateIndexConfig(&Index{
		MaxFileSize: 0, MaxTotalSizeMB: 1000, MaxFileCount: 10000,
	}))
	assert.Error(t, validator.validateIndexConfig(&Index{
		MaxFileSize: 1024 * 1024, MaxTotalSizeMB: 0, MaxFileCount: 10000,
	}))
	assert.Error(t, validator.validateIndexConfig(&Index{
		MaxFileSize: 1024 * 1024, MaxTotalSizeMB: 1000, MaxFileCount: 0,
	}))
	assert.Error(t, validator.validateIndexConfig(&Index{
		MaxFileSize: 200 * 1024 * 1024, MaxTotalSizeMB: 1000, MaxFileCount: 10000,
	}))
}

func TestValidatePerformanceConfig(t *testing.T) {
	validator := NewValidator()

	assert.NoError(t, validator.validatePerformanceConfig(&Performance{
		MaxMemoryMB: 2048, MaxGoroutines: 4, ParallelFileWorkers: 8,
	}))
	assert.Error(t, validator.validatePerformanceConfig(&Performance{
		MaxMemoryMB: 50, MaxGoroutines: 4, ParallelFileWorkers: 8,
	}))
	assert.NoError(t, validator.validatePerformanceConfig(&Performance{
		MaxMemoryMB: 2048, MaxGoroutines: 0, ParallelFileWorkers: 8,
	}))
	assert.NoError(t, validator.validatePerformanceConfig(&Performance{
		MaxMemoryMB: 2048, MaxGoroutines: 4, ParallelFileWorkers: 0,
	}))
	assert.Error(t, validator.validatePerformanceConfig(&Performance{
		MaxMemoryMB: 2048, MaxGoroutines: -1, ParallelFileWorkers: 8,
	}))
	assert.Error(t, validator.validatePerformanceConfig(&Performance{
		MaxMemoryMB: 2048, MaxGoroutines: 4, ParallelFileWorkers: -1,
	}))
}

func TestValidatePipelineConfig(t *testing.T) {
	validator := NewValidator()

	assert.NoError(t, validator.validatePipelineConfig(&Pipeline{
		IntakeChannelSize: 32, MaxInFlightMessages: 8, HighWatermark: 100, LowWatermark: 10,
	}))
	assert.Error(t, validator.validatePipelineConfig(&Pipeline{
		IntakeChannelSize: 0, MaxInFlightMessages: 8, HighWatermark: 100, LowWatermark: 10,
	}))
	assert.Error(t, validator.validatePipelineConfig(&Pipeline{
		IntakeChannelSize: 32, MaxInFlightMessages: 8, HighWatermark: 10, LowWatermark: 10,
	}))
}

func TestValidateLanguagesConfig(t *testing.T) {
	validator := NewValidator()

	assert.NoError(t, validator.validateLanguagesConfig(&Languages{Enabled: []string{"java"}, Primary: "java"}))
	assert.Error(t, validator.validateLanguagesConfig(&Languages{Enabled: nil}))
	assert.Error(t, validator.validateLanguagesConfig(&Languages{Enabled: []string{"java"}, Primary: "python"}))
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{
		Project: Project{Root: "/test/root"},
		Index: Index{
			MaxFileSize:    1024 * 1024,
			MaxTotalSizeMB: 1000,
			MaxFileCount:   10000,
		},
		Performance: Performance{
			MaxMemoryMB:         2048,
			MaxGoroutines:       1,
			ParallelFileWorkers: 1,
		},
		Pipeline:  validPipeline(),
		Languages: Languages{Enabled: []string{"java"}},
	}
	assert.NoError(t, ValidateConfig(cfg))

	invalidCfg := &Config{Project: Project{Root: ""}}
	assert.Error(t, ValidateConfig(invalidCfg))
}

func TestSetSmartDefaults(t *testing.T) {
	cfg := &Config{
		Project: Project{Root: "/test/root"},
		Index: Index{
			MaxFileSize:    1024 * 1024,
			MaxTotalSizeMB: 1000,
			MaxFileCount:   10000,
		},
		Performance: Performance{MaxMemoryMB: 0},
		Languages:   Languages{Enabled: []string{"java"}},
	}

	validator := NewValidator()
	validator.setSmartDefaults(cfg)

	assert.NotZero(t, cfg.Performance.MaxMemoryMB)
	assert.NotEmpty(t, cfg.Index.PriorityMode)
	assert.Equal(t, "java", cfg.Languages.Primary)
}

func BenchmarkValidateAndSetDefaults(b *testing.B) {
	cfg := &Config{
		Project: Project{Root: "/test/root"},
		Index: Index{
			MaxFileSize:    1024 * 1024,
			MaxTotalSizeMB: 1000,
			MaxFileCount:   10000,
		},
		Performance: Performance{MaxMemoryMB: 2048},
		Pipeline:    validPipeline(),
		Languages:   Languages{Enabled: []string{"java"}},
	}

	validator := NewValidator()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		testCfg := *cfg
		_ = validator.ValidateAndSetDefaults(&testCfg)
	}
}
