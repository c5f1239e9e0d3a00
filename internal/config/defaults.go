package config

import "github.com/hyperjump/chikai/internal/metric"

// DefaultExtensions lists the file types ingested from watched directories.
var DefaultExtensions = []string{".txt", ".md", ".csv", ".xlsx", ".pdf", ".docx", ".odt", ".rtf"}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Search.DefaultK == 0 {
		cfg.Search.DefaultK = 10
	}
	if cfg.Search.DefaultMetric == "" {
		cfg.Search.DefaultMetric = metric.Default.String()
	}
	if cfg.Demo.Count == 0 {
		cfg.Demo.Count = 7000
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = append([]string(nil), DefaultExtensions...)
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
