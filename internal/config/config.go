package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/bitsctl/internal/logging"
	"github.com/danmuck/bitsctl/internal/protocol/packet"
)

type Config struct {
	Decode DecodeConfig `toml:"decode"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

type DecodeConfig struct {
	MaxDepth        int `toml:"max_depth"`
	MaxPackets      int `toml:"max_packets"`
	MaxInputNibbles int `toml:"max_input_nibbles"`
}

type ServerConfig struct {
	Name        string   `toml:"name"`
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func Default() Config {
	limits := packet.DefaultLimits()
	return Config{
		Decode: DecodeConfig{
			MaxDepth:        limits.MaxDepth,
			MaxPackets:      limits.MaxPackets,
			MaxInputNibbles: limits.MaxInputNibbles,
		},
		Server: ServerConfig{
			Name: "bitsctl",
			Addr: ":9400",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Limits converts the decode section into parser limits.
func (c DecodeConfig) Limits() packet.Limits {
	return packet.Limits{
		MaxDepth:        c.MaxDepth,
		MaxPackets:      c.MaxPackets,
		MaxInputNibbles: c.MaxInputNibbles,
	}
}

// Load reads path over Default. Keys absent from the file keep their
// defaults; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("config parse failed (%s): unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Server.Name = strings.TrimSpace(cfg.Server.Name)
	cfg.Server.Addr = strings.TrimSpace(cfg.Server.Addr)
	cfg.Server.CorsOrigins = normalizeOrigins(cfg.Server.CorsOrigins)
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if cfg.Decode.MaxDepth < 0 || cfg.Decode.MaxPackets < 0 || cfg.Decode.MaxInputNibbles < 0 {
		return fmt.Errorf("decode limits must not be negative")
	}
	if cfg.Server.Name == "" {
		return fmt.Errorf("server config missing name")
	}
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server config missing addr")
	}
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok && strings.TrimSpace(cfg.Log.Level) != "" {
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}
	return nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
