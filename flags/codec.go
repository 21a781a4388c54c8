package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// CodecFlags selects the correction tier and tunes the per-tier parameters.

func CodecFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "tier",
			Usage: "Correction tier (classical|bridge|quantum|comprehensive)",
			Value: "comprehensive",
		},
		cli.IntFlag{
			Name:  "classical.redundancy",
			Usage: "Classical parity redundancy percentage (5-30)",
			Value: 8,
		},
		cli.IntFlag{
			Name:  "bridge.redundancy",
			Usage: "Bridge block repetition count (1-5)",
			Value: 3,
		},
		cli.IntFlag{
			Name:  "bridge.votes",
			Usage: "Bridge verification iterations (1-5)",
			Value: 2,
		},
		cli.IntFlag{
			Name:  "quantum.distance",
			Usage: "Quantum code distance, odd (3-15)",
			Value: 5,
		},
		cli.IntFlag{
			Name:  "quantum.syndromes",
			Usage: "Quantum syndrome measurements per chunk (1-10)",
			Value: 4,
		},
	}
}
