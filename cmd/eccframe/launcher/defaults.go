package launcher

// Defaults bundles the baseline configuration values the launcher uses
// before config files and flags override them.

type Defaults struct {
	Logging LoggingDefaults
	Codec   CodecDefaults
	Archive ArchiveDefaults
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    // Log level numeric (0=fatal, 1=error, 2=warn, 3=info, 4=debug, 5=trace).
	Format    string // Log output format (text vs json).
	Color     bool   // Whether to use ANSI color codes in logs.
	SentryDSN string // Error-reporting endpoint; empty disables the hook.
}

// CodecDefaults picks the correction tier and its tuning knobs.
type CodecDefaults struct {
	Tier                string // classical, bridge, quantum or comprehensive.
	ClassicalRedundancy int    // Parity size as a percentage of the payload (5-30).
	BridgeRedundancy    int    // How many times each block is repeated (1-5).
	BridgeVotes         int    // Verification passes over the repeated blocks (1-5).
	QuantumDistance     int    // Simulated code distance, odd (3-15).
	QuantumSyndromes    int    // Syndrome measurements per 8-byte chunk (1-10).
}

// ArchiveDefaults configures the optional frame archive.
type ArchiveDefaults struct {
	Path     string // SQLite database location; empty disables archiving.
	Compress bool   // Compress payloads before protection.
}

// DefaultConfig returns a fully populated Defaults instance.

func DefaultConfig() Defaults {
	return Defaults{
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
			Color:     true,
		},
		Codec: CodecDefaults{
			Tier:                "comprehensive",
			ClassicalRedundancy: 8,
			BridgeRedundancy:    3,
			BridgeVotes:         2,
			QuantumDistance:     5,
			QuantumSyndromes:    4,
		},
		Archive: ArchiveDefaults{
			Path:     "",
			Compress: false,
		},
	}
}
