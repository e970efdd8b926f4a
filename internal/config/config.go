// Package config binds server configuration from flags and environment.
// Every flag can also be set via a TIMESUP_-prefixed variable, with an
// optional .env file loaded before anything is read.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Bind    string
	Port    int
	BaseURL string

	// SnapshotDir is where file-backed session snapshots live. Ignored
	// when SnapshotDSN selects the Postgres store instead.
	SnapshotDir string
	SnapshotDSN string

	Verbose bool
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.BaseURL == "" {
		return errors.New("base-url must not be empty")
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	return nil
}

// Bind registers flags for cfg and wires viper env overrides. Call once
// on the root command's flag set.
func Bind(fs *pflag.FlagSet, cfg *Config) {
	// Missing .env is fine; explicit env always wins over the file.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TIMESUP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: TIMESUP_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", 8080, "port to listen on (env: TIMESUP_PORT)")
	fs.StringVar(&cfg.BaseURL, "base-url", "http://localhost:8080", "public base URL embedded in join links (env: TIMESUP_BASE_URL)")
	fs.StringVar(&cfg.SnapshotDir, "snapshot-dir", "./snapshots", "directory for file-backed session snapshots (env: TIMESUP_SNAPSHOT_DIR)")
	fs.StringVar(&cfg.SnapshotDSN, "snapshot-dsn", "", "postgres DSN for db-backed snapshots; empty selects the file store (env: TIMESUP_SNAPSHOT_DSN)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "enable debug logging (env: TIMESUP_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}
