package launcher

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/urfave/cli.v1"

	"github.com/elxr-labs/go-elxr-ecc/ecc"
)

// Config aggregates everything the launcher needs to run one command.
type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Codec   CodecConfig   `toml:"codec"`
	Archive ArchiveConfig `toml:"archive"`
}

type LoggingConfig struct {
	Verbosity int    `toml:"verbosity"`
	Format    string `toml:"format"`
	Color     bool   `toml:"color"`
	SentryDSN string `toml:"sentry_dsn"`
}

type CodecConfig struct {
	Tier                string `toml:"tier"`
	ClassicalRedundancy int    `toml:"classical_redundancy"`
	BridgeRedundancy    int    `toml:"bridge_redundancy"`
	BridgeVotes         int    `toml:"bridge_votes"`
	QuantumDistance     int    `toml:"quantum_distance"`
	QuantumSyndromes    int    `toml:"quantum_syndromes"`
}

type ArchiveConfig struct {
	Path     string `toml:"path"`
	Compress bool   `toml:"compress"`
}

func defaultConfig() Config {
	d := DefaultConfig()
	return Config{
		Logging: LoggingConfig{
			Verbosity: d.Logging.Verbosity,
			Format:    d.Logging.Format,
			Color:     d.Logging.Color,
			SentryDSN: d.Logging.SentryDSN,
		},
		Codec: CodecConfig{
			Tier:                d.Codec.Tier,
			ClassicalRedundancy: d.Codec.ClassicalRedundancy,
			BridgeRedundancy:    d.Codec.BridgeRedundancy,
			BridgeVotes:         d.Codec.BridgeVotes,
			QuantumDistance:     d.Codec.QuantumDistance,
			QuantumSyndromes:    d.Codec.QuantumSyndromes,
		},
		Archive: ArchiveConfig{
			Path:     d.Archive.Path,
			Compress: d.Archive.Compress,
		},
	}
}

// MakeAllConfigs merges defaults, the optional config file, then CLI flag
// overrides into a single config struct.

func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if file := ctx.GlobalString("config"); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", file, err)
		}
	}

	applyCLIOverrides(ctx, &cfg)

	if _, err := ecc.ParseCorrectionType(cfg.Codec.Tier); err != nil {
		return Config{}, fmt.Errorf("unknown correction tier %q", cfg.Codec.Tier)
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config keys: %v", undecoded)
	}
	return nil
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.GlobalIsSet("log.verbosity") {
		cfg.Logging.Verbosity = ctx.GlobalInt("log.verbosity")
	}
	if ctx.GlobalIsSet("log.format") {
		cfg.Logging.Format = ctx.GlobalString("log.format")
	}
	if ctx.GlobalIsSet("log.color") {
		cfg.Logging.Color = ctx.GlobalBool("log.color")
	}
	if ctx.GlobalIsSet("sentry.dsn") {
		cfg.Logging.SentryDSN = ctx.GlobalString("sentry.dsn")
	}

	if ctx.IsSet("tier") {
		cfg.Codec.Tier = ctx.String("tier")
	}
	if ctx.IsSet("classical.redundancy") {
		cfg.Codec.ClassicalRedundancy = ctx.Int("classical.redundancy")
	}
	if ctx.IsSet("bridge.redundancy") {
		cfg.Codec.BridgeRedundancy = ctx.Int("bridge.redundancy")
	}
	if ctx.IsSet("bridge.votes") {
		cfg.Codec.BridgeVotes = ctx.Int("bridge.votes")
	}
	if ctx.IsSet("quantum.distance") {
		cfg.Codec.QuantumDistance = ctx.Int("quantum.distance")
	}
	if ctx.IsSet("quantum.syndromes") {
		cfg.Codec.QuantumSyndromes = ctx.Int("quantum.syndromes")
	}

	if ctx.IsSet("archive") {
		cfg.Archive.Path = ctx.String("archive")
	}
	if ctx.IsSet("compress") {
		cfg.Archive.Compress = ctx.Bool("compress")
	}
}

// makeCodec builds the configured correction codec. Out-of-range parameters
// are clamped by the constructors, never rejected.
func makeCodec(cfg CodecConfig) (ecc.ErrorCorrection, error) {
	tier, err := ecc.ParseCorrectionType(cfg.Tier)
	if err != nil {
		return nil, err
	}

	switch tier {
	case ecc.Classical:
		return ecc.NewClassical(uint8(cfg.ClassicalRedundancy)), nil
	case ecc.Bridge:
		return ecc.BridgeWithParams(uint8(cfg.BridgeRedundancy), uint8(cfg.BridgeVotes)), nil
	case ecc.Quantum:
		return ecc.QuantumWithParams(uint8(cfg.QuantumDistance), uint8(cfg.QuantumSyndromes)), nil
	default:
		return ecc.NewComprehensive(), nil
	}
}
