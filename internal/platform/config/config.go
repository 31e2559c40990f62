package config

import "time"

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Task     TaskConfig     `yaml:"task"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// PipelineConfig carries every policy knob of the validation pipeline.
// Timeouts are expressed in seconds so the YAML stays driver-agnostic.
type PipelineConfig struct {
	ProbeTimeout        int   `yaml:"probe_timeout"`
	MaxImageBytes       int64 `yaml:"max_image_bytes"`
	MinImageBytes       int64 `yaml:"min_image_bytes"`
	MinImageWidth       int   `yaml:"min_image_width"`
	MinImageHeight      int   `yaml:"min_image_height"`
	BatchSize           int   `yaml:"batch_size"`
	ProgressEvery       int   `yaml:"progress_every"`
	ProbeConcurrency    int   `yaml:"probe_concurrency"`
	RevalidateAfterDays int   `yaml:"revalidate_after_days"`
	RevalidateBatchSize int   `yaml:"revalidate_batch_size"`
}

// ProbeTimeoutDuration returns the reachability probe budget.
func (p PipelineConfig) ProbeTimeoutDuration() time.Duration {
	return time.Duration(p.ProbeTimeout) * time.Second
}

// DownloadTimeoutDuration returns the deep-check budget, scaled to 1.5x the probe budget.
func (p PipelineConfig) DownloadTimeoutDuration() time.Duration {
	return time.Duration(p.ProbeTimeout) * time.Second * 3 / 2
}

type TaskConfig struct {
	MaxWorkers         int `yaml:"max_workers"`
	QueueSize          int `yaml:"queue_size"`
	MaxRetries         int `yaml:"max_retries"`
	RetryDelay         int `yaml:"retry_delay"`
	ValidateInterval   int `yaml:"validate_interval_minutes"`
	RevalidateInterval int `yaml:"revalidate_interval_minutes"`
}

// RetryDelayDuration returns the fixed backoff between task retries.
func (t TaskConfig) RetryDelayDuration() time.Duration {
	return time.Duration(t.RetryDelay) * time.Second
}
