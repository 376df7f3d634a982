package config

import (
	"fmt"
	"os"
	"runtime"
)

// Config is naviscope's merged runtime configuration: project scope, file
// scanning limits, ingest pipeline flow control, the asset/stub cache,
// and which language plugins are active.
type Config struct {
	Version     int
	Project     Project
	Index       Index
	Performance Performance
	Pipeline    Pipeline
	Assets      Assets
	Languages   Languages
	Include     []string
	Exclude     []string
}

type Project struct {
	Root string
	Name string
}

// Index controls which files the ingest pipeline (C6/C7) considers part
// of the source tree.
type Index struct {
	MaxFileSize      int64
	MaxTotalSizeMB   int64
	MaxFileCount     int
	FollowSymlinks   bool
	SmartSizeControl bool
	PriorityMode     string // "recent", "small", "important"
	RespectGitignore bool
	WatchMode        bool
	WatchDebounceMs  int

	// StorePath is where internal/storage persists the committed graph
	// between process restarts (spec §6). Relative to Project.Root when
	// not absolute; empty disables persistence (in-memory-only graph).
	StorePath string
}

type Performance struct {
	MaxMemoryMB         int
	MaxGoroutines       int
	ParallelFileWorkers int // 0 = auto-detect (NumCPU)
	IndexingTimeoutSec  int
	StartupDelayMs      int
}

// Pipeline tunes the message-driven ingest runtime (C6): channel depths,
// the in-flight cap and the replay tick. HighWatermark and LowWatermark
// are parsed and validated (high must exceed low), but no component reads
// them: intake is never paused or resumed on a watermark.
type Pipeline struct {
	IntakeChannelSize   int
	DeferredChannelSize int
	MaxInFlightMessages int
	HighWatermark       int // parsed and validated only
	LowWatermark        int // parsed and validated only
	ReplayTickMs        int
}

// Assets configures the asset discovery and stub cache (C8).
type Assets struct {
	StubCacheDir    string
	StubCacheTTLSec int
	HydrationRetries int
	HydrationDelayMs int
}

// Languages lists which language plugins (C5) are registered, and the
// primary plugin naming convention used when a convention isn't
// otherwise specified by the resolving query.
type Languages struct {
	Enabled []string
	Primary string
}

func Load(path string) (*Config, error) {
	return LoadWithRoot(path, "")
}

func LoadWithRoot(path string, rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}

	homeDir, err := os.UserHomeDir()
	var baseConfig *Config
	if err == nil {
		if globalCfg, err := LoadKDL(homeDir); err == nil && globalCfg != nil {
			baseConfig = globalCfg
		}
	}

	var projectConfig *Config
	if kdlCfg, err := LoadKDL(searchDir); err == nil && kdlCfg != nil {
		projectConfig = kdlCfg
	} else if err != nil {
		return nil, err
	}

	if baseConfig != nil && projectConfig != nil {
		return mergeConfigs(baseConfig, projectConfig), nil
	} else if projectConfig != nil {
		return projectConfig, nil
	} else if baseConfig != nil {
		baseConfig.Project.Root = searchDir
		return baseConfig, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	cfg := defaultConfig(cwd)
	cfg.EnrichExclusionsWithBuildArtifacts()
	return cfg, nil
}

func defaultConfig(root string) *Config {
	return &Config{
		Version: 1,
		Project: Project{Root: root},
		Index: Index{
			MaxFileSize:      10 * 1024 * 1024,
			MaxTotalSizeMB:   500,
			MaxFileCount:     50000,
			FollowSymlinks:   false,
			SmartSizeControl: true,
			PriorityMode:     "recent",
			RespectGitignore: true,
			WatchMode:        true,
			WatchDebounceMs:  500,
			StorePath:        ".naviscope/index.msgpack",
		},
		Performance: Performance{
			MaxMemoryMB:         1500,
			MaxGoroutines:       runtime.NumCPU(),
			ParallelFileWorkers: 0,
			IndexingTimeoutSec:  180,
			StartupDelayMs:      0,
		},
		Pipeline: Pipeline{
			IntakeChannelSize:   256,
			DeferredChannelSize: 1024,
			MaxInFlightMessages: 64,
			HighWatermark:       2000,
			LowWatermark:        500,
			ReplayTickMs:        50,
		},
		Assets: Assets{
			StubCacheDir:     ".naviscope/stubs",
			StubCacheTTLSec:  0, // 0 = never expire on mtime/size match
			HydrationRetries: 3,
			HydrationDelayMs: 25,
		},
		Languages: Languages{
			Enabled: []string{"java", "gradle"},
			Primary: "java",
		},
		Include: []string{},
		Exclude: getDefaultExclusions(),
	}
}

func mergeConfigs(base, project *Config) *Config {
	merged := *project

	if len(base.Exclude) > 0 {
		excludeMap := make(map[string]bool)
		for _, pattern := range base.Exclude {
			excludeMap[pattern] = true
		}
		for _, pattern := range project.Exclude {
			excludeMap[pattern] = true
		}
		merged.Exclude = make([]string, 0, len(excludeMap))
		for pattern := range excludeMap {
			merged.Exclude = append(merged.Exclude, pattern)
		}
	}

	if len(project.Include) == 0 && len(base.Include) > 0 {
		merged.Include = base.Include
	}
	if len(project.Languages.Enabled) == 0 && len(base.Languages.Enabled) > 0 {
		merged.Languages = base.Languages
	}

	return &merged
}

// EnrichExclusionsWithBuildArtifacts detects build output directories
// declared by JavaScript (package.json, tsconfig, vite), Rust (Cargo.toml)
// and Python (pyproject.toml) projects under the root and adds them to
// the exclusion list. Gradle/Maven output directories are not detected.
func (c *Config) EnrichExclusionsWithBuildArtifacts() {
	if c.Project.Root == "" {
		return
	}

	detector := NewBuildArtifactDetector(c.Project.Root)
	detectedPatterns := detector.DetectOutputDirectories()

	if len(detectedPatterns) > 0 {
		c.Exclude = append(c.Exclude, detectedPatterns...)
		c.Exclude = DeduplicatePatterns(c.Exclude)
	}
}

// Validate reports the first configuration error found, e.g. a pipeline
// high watermark that does not exceed the low watermark.
func (c *Config) Validate() error {
	if c.Pipeline.HighWatermark <= c.Pipeline.LowWatermark {
		return fmt.Errorf("pipeline.high_watermark (%d) must exceed pipeline.low_watermark (%d)",
			c.Pipeline.HighWatermark, c.Pipeline.LowWatermark)
	}
	if len(c.Languages.Enabled) == 0 {
		return fmt.Errorf("languages.enabled must list at least one plugin")
	}
	return nil
}
