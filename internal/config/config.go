package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "VB_"

type (
	Config struct {
		TelegramAPIToken string   `env:"TOKEN,required"`
		Admins           []int64  `env:"ADMINS"`
		DefaultLanguage  string   `env:"LANG,default=en"`
		EnabledHandlers  []string `env:"HANDLERS,default=verify_panel,basic"`
		LogLevel         int      `env:"LOG_LEVEL,default=4"`
		DotPath          string   `env:"DOT_PATH,default=~/.verifybot"`
		DBFile           string   `env:"DB_FILE,default=bot.db"`
		Pending          Pending
		Metrics          Metrics
	}

	// Pending configures where armed panel inputs live.
	Pending struct {
		TTL           time.Duration `env:"PENDING_TTL,default=0s"`
		RedisAddr     string        `env:"REDIS_ADDR"`
		RedisPassword string        `env:"REDIS_PASSWORD"`
		RedisDB       int           `env:"REDIS_DB,default=0"`
	}

	Metrics struct {
		Listen string `env:"METRICS_LISTEN"`
	}
)

var (
	once         sync.Once
	globalConfig = &Config{}
	globalErr    error
)

func Load() (Config, error) {
	once.Do(func() {
		cfg, err := Process(context.Background(), envconfig.OsLookuper())
		if err != nil {
			globalErr = err
			return
		}
		log.Traceln("loaded config")
		globalConfig = cfg
	})
	return *globalConfig, globalErr
}

// Process reads the configuration from lookuper without touching the process-wide copy.
func Process(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	envcfg := envconfig.Config{
		Lookuper: envconfig.PrefixLookuper(envPrefix, lookuper),
		Target:   cfg,
	}
	if err := envconfig.ProcessWith(ctx, &envcfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}
	dotPath, err := homedir.Expand(cfg.DotPath)
	if err != nil {
		return nil, fmt.Errorf("expand dot path: %w", err)
	}
	cfg.DotPath = dotPath
	if cfg.Pending.TTL < 0 {
		return nil, fmt.Errorf("pending ttl must not be negative: %s", cfg.Pending.TTL)
	}
	return cfg, nil
}
