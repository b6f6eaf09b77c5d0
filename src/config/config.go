/*
Copyright (c) YugabyteDB, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package config

import (
	"strconv"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	goerrors "github.com/go-errors/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/medrecords/csv-anonymizer/src/anon"
)

const (
	TRACE = "trace"
	DEBUG = "debug"
	INFO  = "info"
	WARN  = "warn"
	ERROR = "error"
	FATAL = "fatal"
	PANIC = "panic"

	ENV_PREFIX = "ANONYMIZER"

	KEY_LOG_LEVEL         = "log-level"
	KEY_LOG_DIR           = "log-dir"
	KEY_NAME_SEED         = "name-seed"
	KEY_AS_OF             = "as-of"
	KEY_LISTEN_ADDR       = "listen-addr"
	KEY_METRICS_PORT      = "metrics-port"
	KEY_FETCH_TIMEOUT     = "fetch-timeout"
	KEY_FETCH_MAX_RETRIES = "fetch-max-retries"
)

var validLogLevels = []string{TRACE, DEBUG, INFO, WARN, ERROR, FATAL, PANIC}

var allowedConfigKeys = mapset.NewThreadUnsafeSet[string](
	KEY_LOG_LEVEL, KEY_LOG_DIR, KEY_NAME_SEED, KEY_AS_OF, KEY_LISTEN_ADDR,
	KEY_METRICS_PORT, KEY_FETCH_TIMEOUT, KEY_FETCH_MAX_RETRIES,
)

type Config struct {
	LogLevel string
	LogDir   string

	// NameSeed selects the seeded corpus name source when non-zero,
	// the faker name source otherwise.
	NameSeed int64
	// AsOf pins the reference date for ages (YYYY-MM-DD). Empty means the
	// date the process started.
	AsOf string

	ListenAddr      string
	MetricsPort     string
	FetchTimeout    time.Duration
	FetchMaxRetries int
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KEY_LOG_LEVEL, INFO)
	v.SetDefault(KEY_LOG_DIR, "")
	v.SetDefault(KEY_NAME_SEED, 0)
	v.SetDefault(KEY_AS_OF, "")
	v.SetDefault(KEY_LISTEN_ADDR, ":8080")
	v.SetDefault(KEY_METRICS_PORT, "")
	v.SetDefault(KEY_FETCH_TIMEOUT, 30*time.Second)
	v.SetDefault(KEY_FETCH_MAX_RETRIES, 3)
}

// BindEnv makes every key readable from ANONYMIZER_<KEY> with dashes as underscores.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	if err := validateConfigKeys(v); err != nil {
		return nil, err
	}
	cfg := &Config{
		LogLevel:        strings.ToLower(v.GetString(KEY_LOG_LEVEL)),
		LogDir:          v.GetString(KEY_LOG_DIR),
		NameSeed:        v.GetInt64(KEY_NAME_SEED),
		AsOf:            v.GetString(KEY_AS_OF),
		ListenAddr:      v.GetString(KEY_LISTEN_ADDR),
		MetricsPort:     v.GetString(KEY_METRICS_PORT),
		FetchTimeout:    v.GetDuration(KEY_FETCH_TIMEOUT),
		FetchMaxRetries: v.GetInt(KEY_FETCH_MAX_RETRIES),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfigKeys(v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		return nil
	}
	unknown := lo.Filter(v.AllKeys(), func(key string, _ int) bool {
		return !allowedConfigKeys.Contains(key)
	})
	if len(unknown) > 0 {
		return goerrors.Errorf("unknown keys in config file %s: %v", v.ConfigFileUsed(), unknown)
	}
	return nil
}

func (c *Config) Validate() error {
	if !lo.Contains(validLogLevels, c.LogLevel) {
		return goerrors.Errorf("invalid log level: %s. Valid log levels = %v", c.LogLevel, validLogLevels)
	}
	if c.AsOf != "" {
		if _, err := anon.ParseBirthdate(c.AsOf); err != nil {
			return goerrors.Errorf("invalid %s %q: expected YYYY-MM-DD", KEY_AS_OF, c.AsOf)
		}
	}
	if c.MetricsPort != "" {
		port, err := strconv.Atoi(c.MetricsPort)
		if err != nil || port <= 0 || port > 65535 {
			return goerrors.Errorf("invalid %s: %s", KEY_METRICS_PORT, c.MetricsPort)
		}
	}
	if c.FetchTimeout <= 0 {
		return goerrors.Errorf("%s must be positive, got %s", KEY_FETCH_TIMEOUT, c.FetchTimeout)
	}
	if c.FetchMaxRetries < 0 {
		return goerrors.Errorf("%s must not be negative, got %d", KEY_FETCH_MAX_RETRIES, c.FetchMaxRetries)
	}
	return nil
}

// ReferenceDate returns the date ages are computed against: AsOf when set,
// else startDate.
func (c *Config) ReferenceDate(startDate time.Time) time.Time {
	if c.AsOf == "" {
		return startDate
	}
	asOf, _ := anon.ParseBirthdate(c.AsOf) // validated in Load
	return asOf
}

func (c *Config) NameSource() anon.NameSource {
	if c.NameSeed != 0 {
		return anon.NewCorpusNameSource(c.NameSeed)
	}
	return anon.NewFakerNameSource()
}

func (c *Config) ParsedLogLevel() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func (c *Config) IsLogLevelDebugOrBelow() bool {
	return lo.Contains([]string{TRACE, DEBUG}, c.LogLevel)
}
