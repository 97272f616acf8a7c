package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"sigs.k8s.io/yaml"

	"github.com/blixt/tagstream/tagstream"
	"github.com/blixt/tagstream/tool"
)

type Config struct {
	// Tools are recognized in addition to the default tools. A tool with the
	// same name as a default one replaces it.
	Tools []tool.Def `json:"tools,omitempty" toml:"tools"`
	// DisableDefaults makes Tools the only recognized tools.
	DisableDefaults bool `json:"disableDefaults,omitempty" toml:"disable_defaults"`
	// Unescape decodes backslash escapes in the stream. Defaults to true.
	Unescape *bool `json:"unescape,omitempty" toml:"unescape"`
	// RandomIDs gives tags random UUIDs instead of IDs based on their offset.
	RandomIDs bool `json:"randomIDs,omitempty" toml:"random_ids"`

	Server ServerConfig `json:"server" toml:"server"`
	Log    LogConfig    `json:"log" toml:"log"`
}

type ServerConfig struct {
	Addr string `json:"addr,omitempty" toml:"addr"`
	// BufferSize is how many bytes of a connection's stream may be waiting to
	// be parsed before reading from the connection pauses.
	BufferSize int `json:"bufferSize,omitempty" toml:"buffer_size"`
}

type LogConfig struct {
	Level string `json:"level,omitempty" toml:"level"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       "localhost:8080",
			BufferSize: 64 * 1024,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the config file at path on top of the defaults and then applies
// environment overrides. The format is picked from the file extension: .toml,
// or .yaml, .yml and .json. A path that doesn't exist, or an empty path, gives
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(cfg, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(cfg *Config, path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("failed to decode TOML file: %w", err)
		}
	case ".yaml", ".yml", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode %s file: %w", strings.TrimPrefix(ext, "."), err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	return nil
}

// ApplyEnvOverrides applies the TAGSTREAM_* environment variables.
func (c *Config) ApplyEnvOverrides() error {
	if level := os.Getenv("TAGSTREAM_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if addr := os.Getenv("TAGSTREAM_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if tags := os.Getenv("TAGSTREAM_EXTRA_TAGS"); tags != "" {
		for _, name := range strings.Split(tags, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.Tools = append(c.Tools, tool.Def{Name: name})
			}
		}
	}
	if random := os.Getenv("TAGSTREAM_RANDOM_IDS"); random != "" {
		v, err := strconv.ParseBool(random)
		if err != nil {
			return fmt.Errorf("invalid TAGSTREAM_RANDOM_IDS: %w", err)
		}
		c.RandomIDs = v
	}
	return nil
}

// Validate checks the values that would otherwise fail later on.
func (c *Config) Validate() error {
	for _, def := range c.Tools {
		name := def.FuncName()
		if name == "" {
			return errors.New("tool without a name")
		}
		for i := 0; i < len(name); i++ {
			if !tool.IsNameByte(name[i]) {
				return fmt.Errorf("invalid tool name %q", def.Name)
			}
		}
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.Server.BufferSize < 0 {
		return fmt.Errorf("invalid buffer size %d", c.Server.BufferSize)
	}
	return nil
}

// LogLevel returns the configured log level, or info if it can't be parsed.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Toolbox returns the tools that parsers should recognize.
func (c *Config) Toolbox() *tool.Toolbox {
	base := tool.Box()
	if !c.DisableDefaults {
		base = tool.Default()
	}
	return base.With(c.Tools...)
}

// ParserOptions returns the options for a parser that follows the config.
func (c *Config) ParserOptions(log zerolog.Logger) []tagstream.Option {
	opts := []tagstream.Option{
		tagstream.WithToolbox(c.Toolbox()),
		tagstream.WithLogger(log),
	}
	if c.Unescape != nil && !*c.Unescape {
		opts = append(opts, tagstream.WithoutUnescape())
	}
	if c.RandomIDs {
		opts = append(opts, tagstream.WithRandomIDs())
	}
	return opts
}
