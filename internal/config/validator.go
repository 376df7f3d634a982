package config

import (
	"errors"
	"fmt"
	"runtime"

	naverrors "github.com/naviscope/naviscope/internal/errors"
)

// Validator validates configuration and sets smart defaults.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart
// defaults. Returns an error if validation fails.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateProjectConfig(&cfg.Project); err != nil {
		return naverrors.NewConfigError("project", "", err)
	}

	if err := v.validateIndexConfig(&cfg.Index); err != nil {
		return naverrors.NewConfigError("index", "", err)
	}

	if err := v.validatePerformanceConfig(&cfg.Performance); err != nil {
		return naverrors.NewConfigError("performance", "", err)
	}

	if err := v.validatePipelineConfig(&cfg.Pipeline); err != nil {
		return naverrors.NewConfigError("pipeline", "", err)
	}

	if err := v.validateLanguagesConfig(&cfg.Languages); err != nil {
		return naverrors.NewConfigError("languages", "", err)
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateProjectConfig(project *Project) error {
	if project.Root == "" {
		return errors.New("project root cannot be empty")
	}
	return nil
}

func (v *Validator) validateIndexConfig(index *Index) error {
	if index.MaxFileSize <= 0 {
		return fmt.Errorf("MaxFileSize must be positive, got %d", index.MaxFileSize)
	}
	if index.MaxTotalSizeMB <= 0 {
		return fmt.Errorf("MaxTotalSizeMB must be positive, got %d", index.MaxTotalSizeMB)
	}
	if index.MaxFileCount <= 0 {
		return fmt.Errorf("MaxFileCount must be positive, got %d", index.MaxFileCount)
	}
	if index.MaxFileSize > 100*1024*1024 {
		return fmt.Errorf("MaxFileSize should not exceed 100MB, got %d", index.MaxFileSize)
	}
	return nil
}

func (v *Validator) validatePerformanceConfig(perf *Performance) error {
	if perf.MaxMemoryMB < 100 {
		return fmt.Errorf("MaxMemoryMB must be at least 100MB, got %d", perf.MaxMemoryMB)
	}
	if perf.MaxGoroutines < 0 {
		return fmt.Errorf("MaxGoroutines cannot be negative, got %d", perf.MaxGoroutines)
	}
	if perf.ParallelFileWorkers < 0 {
		return fmt.Errorf("ParallelFileWorkers cannot be negative, got %d", perf.ParallelFileWorkers)
	}
	return nil
}

func (v *Validator) validatePipelineConfig(p *Pipeline) error {
	if p.IntakeChannelSize <= 0 {
		return fmt.Errorf("IntakeChannelSize must be positive, got %d", p.IntakeChannelSize)
	}
	if p.MaxInFlightMessages <= 0 {
		return fmt.Errorf("MaxInFlightMessages must be positive, got %d", p.MaxInFlightMessages)
	}
	if p.HighWatermark <= p.LowWatermark {
		return fmt.Errorf("HighWatermark (%d) must exceed LowWatermark (%d)", p.HighWatermark, p.LowWatermark)
	}
	return nil
}

func (v *Validator) validateLanguagesConfig(l *Languages) error {
	if len(l.Enabled) == 0 {
		return errors.New("languages.enabled must list at least one plugin")
	}
	if l.Primary != "" {
		found := false
		for _, name := range l.Enabled {
			if name == l.Primary {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("languages.primary %q is not in languages.enabled", l.Primary)
		}
	}
	return nil
}

// setSmartDefaults applies smart defaults based on system capabilities.
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Performance.MaxGoroutines == 0 {
		cfg.Performance.MaxGoroutines = max(1, runtime.NumCPU()-1)
	}
	if cfg.Performance.ParallelFileWorkers == 0 {
		cfg.Performance.ParallelFileWorkers = max(1, runtime.NumCPU()-1)
	}
	if cfg.Performance.MaxMemoryMB == 0 {
		cfg.Performance.MaxMemoryMB = 1024
	}
	if !cfg.Index.SmartSizeControl {
		cfg.Index.SmartSizeControl = true
	}
	if cfg.Index.PriorityMode == "" {
		cfg.Index.PriorityMode = "recent"
	}
	if cfg.Languages.Primary == "" && len(cfg.Languages.Enabled) > 0 {
		cfg.Languages.Primary = cfg.Languages.Enabled[0]
	}
}

// ValidateConfig is a convenience function for quick validation.
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}
