// Package config implements the flat key/value configuration contract
// of spec.md §3 and §6: a small set of recognised keys with defaults,
// validation, and store-backed persistence, optionally seeded once from
// a config.json file via viper.
package config

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aidarkhanov/queuectl/store"
)

// Recognised configuration keys.
const (
	KeyMaxRetries     = "max_retries"
	KeyBackoffBase    = "backoff_base"
	KeyPollIntervalMs = "worker_poll_interval_ms"
	KeyJobTimeoutSecs = "job_timeout_seconds"
	KeyLogLevel       = "log_level"
)

// Defaults mirror config.py's DEFAULTS in the system this was modeled
// on, translated to this queue's key names.
var Defaults = map[string]string{
	KeyMaxRetries:     "3",
	KeyBackoffBase:    "2",
	KeyPollIntervalMs: "100",
	KeyJobTimeoutSecs: "3600",
	KeyLogLevel:       "INFO",
}

// ErrUnknownKey is returned by Set for any key outside the recognised
// set.
var ErrUnknownKey = errors.New("config: unknown key")

// ErrInvalidValue is returned by Set when value fails validation for
// its key.
var ErrInvalidValue = errors.New("config: invalid value")

func isRecognised(key string) bool {
	_, ok := Defaults[key]
	return ok
}

func validate(key, value string) error {
	switch key {
	case KeyMaxRetries, KeyPollIntervalMs, KeyJobTimeoutSecs:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", ErrInvalidValue, key)
		}
		if n < 0 {
			return fmt.Errorf("%w: %s must be non-negative", ErrInvalidValue, key)
		}
	case KeyBackoffBase:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: backoff_base must be a positive integer", ErrInvalidValue)
		}
	case KeyLogLevel:
		switch value {
		case "DEBUG", "INFO", "WARN", "ERROR":
		default:
			return fmt.Errorf("%w: log_level must be DEBUG, INFO, WARN, or ERROR", ErrInvalidValue)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// Config wraps a store.ConfigStore with the defaults and validation
// rules applied on top of the raw key/value table.
type Config struct {
	store store.ConfigStore
}

// New wraps st as a Config.
func New(st store.ConfigStore) *Config {
	return &Config{store: st}
}

// Get returns the effective value of key: the stored override if
// present, else the built-in default. It returns ErrUnknownKey for an
// unrecognised key.
func (c *Config) Get(ctx context.Context, key string) (string, error) {
	if !isRecognised(key) {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if v, ok, err := c.store.GetConfig(ctx, key); err != nil {
		return "", err
	} else if ok {
		return v, nil
	}
	return Defaults[key], nil
}

// Set validates value for key and persists it. It returns ErrUnknownKey
// or ErrInvalidValue without touching the store on a validation
// failure.
func (c *Config) Set(ctx context.Context, key, value string) error {
	if err := validate(key, value); err != nil {
		return err
	}
	return c.store.SetConfig(ctx, key, value)
}

// All returns the effective value of every recognised key, applying
// defaults for anything not explicitly overridden in the store.
func (c *Config) All(ctx context.Context) (map[string]string, error) {
	stored, err := c.store.AllConfig(ctx)
	if err != nil {
		return nil, err
	}
	ret := make(map[string]string, len(Defaults))
	for k, v := range Defaults {
		ret[k] = v
	}
	for k, v := range stored {
		if isRecognised(k) {
			ret[k] = v
		}
	}
	return ret, nil
}

// SeedFromFile writes every key in seed into the store, but only for
// keys that have no existing stored override — it never clobbers a
// value the store already authoritatively holds. Per spec.md §6, the
// store and the config file must never both be authoritative at once;
// this is how a config.json is allowed to seed first-run defaults
// without becoming a second source of truth afterwards.
func (c *Config) SeedFromFile(ctx context.Context, seed map[string]string) error {
	for k, v := range seed {
		if !isRecognised(k) {
			continue
		}
		_, ok, err := c.store.GetConfig(ctx, k)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if err := c.Set(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}
