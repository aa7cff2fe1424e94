// Package config provides persistent configuration for the salah CLI.
//
// Configuration is stored as JSON at ~/.config/salah/config.json
// (XDG-compliant). The merge priority is: CLI flags > environment >
// config file > defaults. Environment values are read from SALAH_<KEY>
// variables and from an optional .env file in the working directory.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/smokyabdulrahman/salah/internal/method"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

const (
	configDirName  = "salah"
	configFileName = "config.json"

	// EnvPrefix prefixes the upper-cased key of every environment override.
	EnvPrefix = "SALAH_"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"latitude", "longitude", "utc_offset",
	"method", "madhab", "summer_time",
	"hijri_correction",
	"time_format",
	"prayers",
	"cache_dir",
	"mqtt_broker", "mqtt_topic",
	"listen",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults or auto-detect).
type Config struct {
	Latitude        *float64 `json:"latitude,omitempty"` // pointer so the equator is distinguishable from "not set"
	Longitude       *float64 `json:"longitude,omitempty"`
	UTCOffset       *int     `json:"utc_offset,omitempty"`
	Method          string   `json:"method,omitempty"` // method slug, e.g. "mwl"
	Madhab          string   `json:"madhab,omitempty"` // "shafi" or "hanafi"
	SummerTime      *bool    `json:"summer_time,omitempty"`
	HijriCorrection *int     `json:"hijri_correction,omitempty"`
	TimeFormat      string   `json:"time_format,omitempty"` // "12h" or "24h"
	Prayers         string   `json:"prayers,omitempty"`     // comma-separated list
	CacheDir        string   `json:"cache_dir,omitempty"`
	MQTTBroker      string   `json:"mqtt_broker,omitempty"`
	MQTTTopic       string   `json:"mqtt_topic,omitempty"`
	Listen          string   `json:"listen,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	return Config{
		Method:     method.MuslimWorldLeague.Slug(),
		Madhab:     method.Shafi.String(),
		TimeFormat: "24h",
		MQTTTopic:  "salah/state",
		Listen:     ":8080",
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
// If the file exists but is invalid JSON, it returns an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Config{}
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "latitude":
		v, err := parseCoordinate("latitude", value, 90)
		if err != nil {
			return err
		}
		c.Latitude = &v
	case "longitude":
		v, err := parseCoordinate("longitude", value, 180)
		if err != nil {
			return err
		}
		c.Longitude = &v
	case "utc_offset":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid utc_offset %q: must be an integer", value)
		}
		if v < -12 || v > 14 {
			return fmt.Errorf("invalid utc_offset %q: must be between -12 and 14", value)
		}
		c.UTCOffset = &v
	case "method":
		m, err := method.ParseMethod(value)
		if err != nil {
			return err
		}
		c.Method = m.Slug()
	case "madhab":
		m, err := method.ParseMadhab(value)
		if err != nil {
			return err
		}
		c.Madhab = m.String()
	case "summer_time":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid summer_time %q: must be true or false", value)
		}
		c.SummerTime = &v
	case "hijri_correction":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid hijri_correction %q: must be an integer", value)
		}
		if v < -2 || v > 2 {
			return fmt.Errorf("invalid hijri_correction %q: must be between -2 and 2", value)
		}
		c.HijriCorrection = &v
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "prayers":
		for _, n := range strings.Split(value, ",") {
			if strings.TrimSpace(n) == "" {
				return fmt.Errorf("empty prayer name in prayers list %q", value)
			}
		}
		if _, err := prayer.ParsePrayerList(value); err != nil {
			return fmt.Errorf("invalid prayers list: %w", err)
		}
		c.Prayers = value
	case "cache_dir":
		c.CacheDir = value
	case "mqtt_broker":
		if !strings.Contains(value, "://") {
			return fmt.Errorf("invalid mqtt_broker %q: must be a URL such as tcp://host:1883", value)
		}
		c.MQTTBroker = value
	case "mqtt_topic":
		if value == "" || strings.ContainsAny(value, "#+") {
			return fmt.Errorf("invalid mqtt_topic %q: must be non-empty without wildcards", value)
		}
		c.MQTTTopic = value
	case "listen":
		c.Listen = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

func parseCoordinate(key, value string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", key, value)
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("invalid %s %q: must be between %g and %g", key, value, -limit, limit)
	}
	return v, nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "latitude":
		return formatFloat(c.Latitude), nil
	case "longitude":
		return formatFloat(c.Longitude), nil
	case "utc_offset":
		return formatInt(c.UTCOffset), nil
	case "method":
		return c.Method, nil
	case "madhab":
		return c.Madhab, nil
	case "summer_time":
		if c.SummerTime == nil {
			return "", nil
		}
		return strconv.FormatBool(*c.SummerTime), nil
	case "hijri_correction":
		return formatInt(c.HijriCorrection), nil
	case "time_format":
		return c.TimeFormat, nil
	case "prayers":
		return c.Prayers, nil
	case "cache_dir":
		return c.CacheDir, nil
	case "mqtt_broker":
		return c.MQTTBroker, nil
	case "mqtt_topic":
		return c.MQTTTopic, nil
	case "listen":
		return c.Listen, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// Merge returns a copy of c with every key set in over taking precedence.
func (c Config) Merge(over *Config) Config {
	if over == nil {
		return c
	}
	if over.Latitude != nil {
		c.Latitude = over.Latitude
	}
	if over.Longitude != nil {
		c.Longitude = over.Longitude
	}
	if over.UTCOffset != nil {
		c.UTCOffset = over.UTCOffset
	}
	if over.Method != "" {
		c.Method = over.Method
	}
	if over.Madhab != "" {
		c.Madhab = over.Madhab
	}
	if over.SummerTime != nil {
		c.SummerTime = over.SummerTime
	}
	if over.HijriCorrection != nil {
		c.HijriCorrection = over.HijriCorrection
	}
	if over.TimeFormat != "" {
		c.TimeFormat = over.TimeFormat
	}
	if over.Prayers != "" {
		c.Prayers = over.Prayers
	}
	if over.CacheDir != "" {
		c.CacheDir = over.CacheDir
	}
	if over.MQTTBroker != "" {
		c.MQTTBroker = over.MQTTBroker
	}
	if over.MQTTTopic != "" {
		c.MQTTTopic = over.MQTTTopic
	}
	if over.Listen != "" {
		c.Listen = over.Listen
	}
	return c
}

// LoadEnv collects SALAH_<KEY> overrides. Values from the dotenv file at
// path (skipped when it does not exist) are overridden by the process
// environment. The returned map is keyed by config key.
func LoadEnv(path string) (map[string]string, error) {
	fileVars := map[string]string{}
	if path != "" {
		vars, err := godotenv.Read(path)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("invalid env file %s: %w", path, err)
		}
	}

	env := make(map[string]string)
	for _, key := range ValidKeys {
		name := EnvPrefix + strings.ToUpper(key)
		if v, ok := os.LookupEnv(name); ok {
			env[key] = v
		} else if v, ok := fileVars[name]; ok {
			env[key] = v
		}
	}
	return env, nil
}

// ApplyEnv sets every key in env, in ValidKeys order.
func (c *Config) ApplyEnv(env map[string]string) error {
	for _, key := range ValidKeys {
		v, ok := env[key]
		if !ok || v == "" {
			continue
		}
		if err := c.Set(key, v); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, strings.ToUpper(key), err)
		}
	}
	return nil
}

// Engine returns the computation config selected by the method, madhab
// and summer_time keys. Unset keys fall back to Defaults.
func (c *Config) Engine() (method.Config, error) {
	d := Defaults()

	slug := c.Method
	if slug == "" {
		slug = d.Method
	}
	m, err := method.ParseMethod(slug)
	if err != nil {
		return method.Config{}, err
	}

	school := c.Madhab
	if school == "" {
		school = d.Madhab
	}
	madhab, err := method.ParseMadhab(school)
	if err != nil {
		return method.Config{}, err
	}

	cfg := m.Config().WithMadhab(madhab)
	if c.SummerTime != nil {
		cfg = cfg.WithSummerTime(*c.SummerTime)
	}
	return cfg, nil
}

// Location returns the configured location. ok is false when latitude or
// longitude is unset.
func (c *Config) Location() (loc prayer.Location, ok bool, err error) {
	if c.Latitude == nil || c.Longitude == nil {
		return prayer.Location{}, false, nil
	}
	offset := 0
	if c.UTCOffset != nil {
		offset = *c.UTCOffset
	}
	loc, err = prayer.NewLocation(*c.Latitude, *c.Longitude, offset)
	if err != nil {
		return prayer.Location{}, false, err
	}
	return loc, true, nil
}

// PrayerList returns the configured prayers, or nil when unset.
func (c *Config) PrayerList() ([]prayer.Prayer, error) {
	if c.Prayers == "" {
		return nil, nil
	}
	return prayer.ParsePrayerList(c.Prayers)
}

// HijriCorrectionOrDefault returns the Hijri day correction, falling back
// to the given default.
func (c *Config) HijriCorrectionOrDefault(def int) int {
	if c.HijriCorrection != nil {
		return *c.HijriCorrection
	}
	return def
}
