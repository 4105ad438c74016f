// Package config holds the server configuration, populated from flags
// and CARDTABLE_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Bind        string
	Port        int
	DatabaseURL string
	CardsFile   string
	RedisAddr   string
	RedisDB     int
	CacheTTL    time.Duration
	Verbose     bool
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("database-url must not be empty")
	}
	if strings.TrimSpace(c.CardsFile) == "" {
		return fmt.Errorf("cards-file must not be empty")
	}
	return nil
}

// BindFlags registers flags on cmd and wires viper env binding so every flag
// can also be set via CARDTABLE_<FLAG> with dashes as underscores.
func (c *Config) BindFlags(cmd *cobra.Command) {
	v := viper.New()
	v.SetEnvPrefix("CARDTABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := cmd.Flags()

	fs.StringVarP(&c.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: CARDTABLE_BIND)")
	fs.IntVarP(&c.Port, "port", "p", 8080, "port to listen on (env: CARDTABLE_PORT)")
	fs.StringVar(&c.DatabaseURL, "database-url", "cards.db", "session store connection string: a sqlite file path, postgres://..., or memory: (env: CARDTABLE_DATABASE_URL)")
	fs.StringVar(&c.CardsFile, "cards-file", "cards.tsv", "card data file, .tsv or .toml deck (env: CARDTABLE_CARDS_FILE)")
	fs.StringVar(&c.RedisAddr, "redis-addr", "", "redis address for the session read cache; empty disables caching (env: CARDTABLE_REDIS_ADDR)")
	fs.IntVar(&c.RedisDB, "redis-db", 0, "redis database index (env: CARDTABLE_REDIS_DB)")
	fs.DurationVar(&c.CacheTTL, "cache-ttl", 2*time.Second, "session cache TTL; keep below the 4s client poll interval (env: CARDTABLE_CACHE_TTL)")
	fs.BoolVarP(&c.Verbose, "verbose", "v", false, "debug-level logging (env: CARDTABLE_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}
