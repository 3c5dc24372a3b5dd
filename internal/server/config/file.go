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

// FileConfig is the on-disk shape of Config. Durations accept "1s" or
// integer nanoseconds; absent fields keep their current value.
type FileConfig struct {
	ListenAddr                   string          `json:"listen_addr" yaml:"listen_addr"`
	DatabaseDSN                  string          `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                    string          `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`
	S3RootUser                   string          `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword               string          `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                     string          `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                     string          `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint               string          `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	RedisAddr                    *string         `json:"redis_addr" yaml:"redis_addr"`
	MaxUploadSize                *int64          `json:"max_upload_size" yaml:"max_upload_size"`
	ShutdownTimeout              *timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel                     string          `json:"log_level" yaml:"log_level"`
	LogFormat                    string          `json:"log_format" yaml:"log_format"`
}

// parseFile overlays cfg with the file named by -c/-config. YAML is used
// for .yaml/.yml, JSON otherwise. It panics on read or decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(fmt.Errorf("decode config %s: %w", path, err))
	}

	fc.apply(cfg)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.ListenAddr, fc.ListenAddr)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.SecretKey, fc.SecretKey)
	setString(&cfg.S3RootUser, fc.S3RootUser)
	setString(&cfg.S3RootPassword, fc.S3RootPassword)
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)

	if fc.AccessTokenValidityDuration != nil {
		cfg.AccessTokenValidityDuration = fc.AccessTokenValidityDuration.Duration
	}
	if fc.RefreshTokenValidityDuration != nil {
		cfg.RefreshTokenValidityDuration = fc.RefreshTokenValidityDuration.Duration
	}
	if fc.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
	if fc.RedisAddr != nil {
		cfg.RedisAddr = *fc.RedisAddr
	}
	if fc.MaxUploadSize != nil {
		cfg.MaxUploadSize = *fc.MaxUploadSize
	}
}
