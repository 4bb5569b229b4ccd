// Package config holds the startup options of the bridge.
package config

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/robotalks/ampbridge/pkg/serialport"
)

// EnvMQTTURL overrides the default broker URL.
const EnvMQTTURL = "AMPBRIDGE_MQTT_URL"

// Config defines the configurations for the bridge.
type Config struct {
	Module  serialport.Config
	Display serialport.Config

	// DisplayOffset is added to the position shown to compensate
	// rendering lag. It never affects the tracked position.
	DisplayOffset time.Duration
	// PowerOn powers the module on at start instead of adopting it.
	PowerOn bool

	// MQTTBrokerURL enables the input reporter,
	// e.g. mqtt://host:port/topic-prefix/
	MQTTBrokerURL string
	HoldTime      time.Duration

	MaxFrames int
	MaxTokens int
	MaxDrain  int
	Idle      time.Duration

	// File is an optional TOML file read by Load.
	File string
}

var defaultConfig = Config{
	Module:        serialport.Config{Path: "/dev/ttyS1", Baud: 115200},
	Display:       serialport.Config{Path: "/dev/ttyS2", Baud: 9600},
	DisplayOffset: 0,
	HoldTime:      20 * time.Millisecond,
	MaxFrames:     8,
	MaxTokens:     6,
	MaxDrain:      4,
	Idle:          5 * time.Millisecond,
}

func init() {
	if val := os.Getenv(EnvMQTTURL); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	SetupFlagSet(flag.CommandLine, &defaultConfig)
}

// SetupFlagSet registers flags bound to c.
func SetupFlagSet(fs *flag.FlagSet, c *Config) {
	fs.StringVar(&c.File, "config", c.File, "TOML config file, flags set explicitly win.")
	fs.StringVar(&c.Module.Path, "module-port", c.Module.Path, "BM83 serial port.")
	fs.IntVar(&c.Module.Baud, "module-baud", c.Module.Baud, "BM83 baud rate.")
	fs.StringVar(&c.Display.Path, "display-port", c.Display.Path, "Nextion serial port.")
	fs.IntVar(&c.Display.Baud, "display-baud", c.Display.Baud, "Nextion baud rate.")
	fs.DurationVar(&c.DisplayOffset, "display-offset", c.DisplayOffset, "Lag compensation added to the displayed position.")
	fs.BoolVar(&c.PowerOn, "power-on", c.PowerOn, "Power the module on at start.")
	fs.StringVar(&c.MQTTBrokerURL, "mqtt", c.MQTTBrokerURL, "MQTT broker URL for input reports, empty disables.")
	fs.DurationVar(&c.HoldTime, "hold", c.HoldTime, "Key hold time of input reports.")
	fs.IntVar(&c.MaxFrames, "max-frames", c.MaxFrames, "Module frames handled per iteration.")
	fs.IntVar(&c.MaxTokens, "max-tokens", c.MaxTokens, "Display tokens handled per iteration.")
	fs.IntVar(&c.MaxDrain, "max-drain", c.MaxDrain, "Display instructions written per iteration.")
	fs.DurationVar(&c.Idle, "idle", c.Idle, "Idle time of an iteration without activity.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Load returns the default config merged with the config file if
// given. Flags set on the command line are kept.
func Load() (*Config, error) {
	conf := NewConfig()
	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	if err := conf.Resolve(explicit); err != nil {
		return nil, err
	}
	return conf, nil
}

// Resolve merges File, if set, and validates the result.
func (c *Config) Resolve(explicit map[string]bool) error {
	if c.File != "" {
		if err := c.LoadFile(c.File, explicit); err != nil {
			return err
		}
	}
	return c.Validate()
}

// LoadFile merges a TOML file.
func (c *Config) LoadFile(path string, explicit map[string]bool) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config: %v", err)
	}
	if err := c.Merge(string(data), explicit); err != nil {
		return fmt.Errorf("load config %s: %v", path, err)
	}
	return nil
}

type fileConfig struct {
	ModulePort    string `toml:"module_port"`
	ModuleBaud    int    `toml:"module_baud"`
	DisplayPort   string `toml:"display_port"`
	DisplayBaud   int    `toml:"display_baud"`
	DisplayOffset string `toml:"display_offset"`
	PowerOn       bool   `toml:"power_on"`
	MQTT          string `toml:"mqtt"`
	Hold          string `toml:"hold"`
	MaxFrames     int    `toml:"max_frames"`
	MaxTokens     int    `toml:"max_tokens"`
	MaxDrain      int    `toml:"max_drain"`
	Idle          string `toml:"idle"`
}

// Merge applies TOML content. Keys whose flag name is in explicit
// are skipped.
func (c *Config) Merge(data string, explicit map[string]bool) error {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys %v", undecoded)
	}
	use := func(key string) bool {
		return meta.IsDefined(key) && !explicit[strings.Replace(key, "_", "-", -1)]
	}
	if use("module_port") {
		c.Module.Path = strings.TrimSpace(raw.ModulePort)
	}
	if use("module_baud") {
		c.Module.Baud = raw.ModuleBaud
	}
	if use("display_port") {
		c.Display.Path = strings.TrimSpace(raw.DisplayPort)
	}
	if use("display_baud") {
		c.Display.Baud = raw.DisplayBaud
	}
	if use("power_on") {
		c.PowerOn = raw.PowerOn
	}
	if use("mqtt") {
		c.MQTTBrokerURL = strings.TrimSpace(raw.MQTT)
	}
	if use("max_frames") {
		c.MaxFrames = raw.MaxFrames
	}
	if use("max_tokens") {
		c.MaxTokens = raw.MaxTokens
	}
	if use("max_drain") {
		c.MaxDrain = raw.MaxDrain
	}
	durations := []struct {
		key string
		val string
		dst *time.Duration
	}{
		{"display_offset", raw.DisplayOffset, &c.DisplayOffset},
		{"hold", raw.Hold, &c.HoldTime},
		{"idle", raw.Idle, &c.Idle},
	}
	for _, d := range durations {
		if !use(d.key) {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(d.val))
		if err != nil {
			return fmt.Errorf("parse %s: %v", d.key, err)
		}
		*d.dst = v
	}
	return c.Validate()
}

// Validate checks the limits.
func (c *Config) Validate() error {
	if c.MaxFrames <= 0 || c.MaxTokens <= 0 || c.MaxDrain <= 0 {
		return fmt.Errorf("per-iteration limits must be positive")
	}
	if c.Idle < 0 || c.Idle > 100*time.Millisecond {
		return fmt.Errorf("idle %v out of range", c.Idle)
	}
	return nil
}
