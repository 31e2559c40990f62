package config

// DefaultConfig returns the baseline configuration applied before the YAML
// file and environment overrides are read.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "INFO",
			Dir:   "data/logs",
			File:  "server.log",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "data/lookbook.db",
		},
		Pipeline: PipelineConfig{
			ProbeTimeout:        10,
			MaxImageBytes:       10 * 1024 * 1024,
			MinImageBytes:       1000,
			MinImageWidth:       100,
			MinImageHeight:      100,
			BatchSize:           50,
			ProgressEvery:       10,
			ProbeConcurrency:    4,
			RevalidateAfterDays: 7,
			RevalidateBatchSize: 100,
		},
		Task: TaskConfig{
			MaxWorkers:         4,
			QueueSize:          64,
			MaxRetries:         2,
			RetryDelay:         300,
			ValidateInterval:   0,
			RevalidateInterval: 0,
		},
	}
}
