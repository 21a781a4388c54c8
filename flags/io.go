package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// IOFlags covers input/output handling and the optional frame archive.

func IOFlags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{
			Name:  "hex",
			Usage: "Read and write serialized envelopes as hex strings (payload bytes stay raw)",
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "Output file (stdout when empty)",
		},
		cli.StringFlag{
			Name:  "archive",
			Usage: "Path to the SQLite frame archive (archiving disabled when empty)",
		},
		cli.StringFlag{
			Name:  "id",
			Usage: "Hex ID of an archived envelope to load instead of a file",
		},
		cli.BoolFlag{
			Name:  "compress",
			Usage: "Compress the payload before protection",
		},
	}
}
