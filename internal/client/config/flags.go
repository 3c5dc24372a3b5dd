package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/chyrp/internal/flagx"
)

// parseFlags overlays cfg with command-line flags. os.Args is filtered to
// the flags handled here so -c/-config and unrelated flags pass through.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f", "-t", "-u", "-l", "-o"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the blogging service")
	fs.StringVar(&cfg.SessionDBPath, "f", cfg.SessionDBPath, "path of the local session database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	uploadTimeout := fs.Int("u", int(cfg.UploadTimeout.Seconds()), "upload timeout per file (in seconds, 0 for none)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "o", cfg.LogFormat, "log format (console|json)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.UploadTimeout = time.Duration(*uploadTimeout) * time.Second
}
