package config

import "time"

// Config holds runtime settings for the blogging client.
type Config struct {
	ServerURL      string
	SessionDBPath  string
	RequestTimeout time.Duration
	// UploadTimeout bounds a single file upload. Zero means no limit.
	UploadTimeout time.Duration
	LogLevel      string
	LogFormat     string

	// CancelSiblingUploads aborts in-flight uploads of a post once one fails.
	CancelSiblingUploads bool
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.SessionDBPath = "chyrp-session.db"
	c.RequestTimeout = 30 * time.Second
	c.UploadTimeout = 10 * time.Minute
	c.LogLevel = "warn"
	c.LogFormat = "console"
	c.CancelSiblingUploads = false
}

// LoadConfig applies defaults, then the optional config file, then flags.
// Later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
