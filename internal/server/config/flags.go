package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/chyrp/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-s", "-t", "-r", "-u", "-p", "-b", "-g", "-e", "-k", "-m", "-l", "-o"}

// parseFlags overrides Config fields from the command line.
//
//	-a  listen address            -u  S3 user
//	-d  PostgreSQL DSN            -p  S3 password
//	-s  JWT secret                -b  S3 bucket
//	-t  access token lifetime     -g  S3 region
//	-r  refresh token lifetime    -e  S3 endpoint
//	-k  Redis address             -m  max upload size, bytes
//	-l  log level                 -o  log format (console|json)
//
// Lifetimes take Go durations such as "30m" or "168h".
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("chyrp-server", flag.ContinueOnError)

	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "HTTP listen address")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "JWT signing secret")
	fs.DurationVar(&cfg.AccessTokenValidityDuration, "t", cfg.AccessTokenValidityDuration, "access token lifetime")
	fs.DurationVar(&cfg.RefreshTokenValidityDuration, "r", cfg.RefreshTokenValidityDuration, "refresh token lifetime")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 access key")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 secret key")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket for media")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 endpoint URL")
	fs.StringVar(&cfg.RedisAddr, "k", cfg.RedisAddr, "Redis address for revoked tokens, empty keeps them in memory")
	fs.Int64Var(&cfg.MaxUploadSize, "m", cfg.MaxUploadSize, "largest accepted upload in bytes")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "o", cfg.LogFormat, "log format (console|json)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
