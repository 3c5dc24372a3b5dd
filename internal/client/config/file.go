package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/chyrp/internal/flagx"
	"github.com/dmitrijs2005/chyrp/internal/timex"
)

// FileConfig is the on-disk shape of Config. Absent fields leave the
// current value alone.
type FileConfig struct {
	ServerURL            string          `json:"server_url" yaml:"server_url"`
	SessionDBPath        string          `json:"session_db_path" yaml:"session_db_path"`
	RequestTimeout       *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	UploadTimeout        *timex.Duration `json:"upload_timeout" yaml:"upload_timeout"`
	LogLevel             string          `json:"log_level" yaml:"log_level"`
	LogFormat            string          `json:"log_format" yaml:"log_format"`
	CancelSiblingUploads *bool           `json:"cancel_sibling_uploads" yaml:"cancel_sibling_uploads"`
}

// parseFile overlays cfg with the file named by -c/-config. It panics on
// read or decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	fc, err := readFile(path)
	if err != nil {
		panic(err)
	}
	fc.apply(cfg)
}

func readFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return &fc, nil
}

func (fc *FileConfig) apply(cfg *Config) {
	if fc.ServerURL != "" {
		cfg.ServerURL = fc.ServerURL
	}
	if fc.SessionDBPath != "" {
		cfg.SessionDBPath = fc.SessionDBPath
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.UploadTimeout != nil {
		cfg.UploadTimeout = fc.UploadTimeout.Duration
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		cfg.LogFormat = fc.LogFormat
	}
	if fc.CancelSiblingUploads != nil {
		cfg.CancelSiblingUploads = *fc.CancelSiblingUploads
	}
}
