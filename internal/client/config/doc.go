// Package config loads runtime configuration for the blogging client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the blogging service
//	-f string   path of the local session database
//	-t int      per-request timeout (seconds)
//	-l string   log level: debug, info, warn, error
//	-o string   log format: console or json
//
// # File schema
//
// Durations accept "30s" style strings or integer nanoseconds:
//
//	server_url: http://127.0.0.1:8000
//	session_db_path: ~/.chyrp/session.db
//	request_timeout: 30s
//	log_level: info
//	log_format: console
//	cancel_sibling_uploads: true
package config
