// Package launcher wires the eccframe CLI: flag parsing, logging setup and
// the encode/decode/check/inspect commands.
package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/urfave/cli.v1"

	"github.com/elxr-labs/go-elxr-ecc/ecc"
	"github.com/elxr-labs/go-elxr-ecc/flags"
	"github.com/elxr-labs/go-elxr-ecc/msg"
	"github.com/elxr-labs/go-elxr-ecc/store"
)

var app = flags.NewApp()

var (
	encodeCommand = cli.Command{
		Name:      "encode",
		Usage:     "Protect payloads into error-correction envelopes",
		ArgsUsage: "[payload files...]",
		Flags:     append(flags.CodecFlags(), flags.IOFlags()...),
		Action:    encode,
	}
	decodeCommand = cli.Command{
		Name:      "decode",
		Usage:     "Recover the payload from an envelope",
		ArgsUsage: "[envelope file]",
		Flags:     flags.IOFlags(),
		Action:    decode,
	}
	checkCommand = cli.Command{
		Name:      "check",
		Usage:     "Report whether an envelope's frame shows errors",
		ArgsUsage: "[envelope file]",
		Flags:     flags.IOFlags(),
		Action:    check,
	}
	inspectCommand = cli.Command{
		Name:      "inspect",
		Usage:     "Print envelope metadata, or list the archive when no file is given",
		ArgsUsage: "[envelope file]",
		Flags:     flags.IOFlags(),
		Action:    inspect,
	}
)

func init() {
	app.Flags = flags.CommonFlags()
	app.Commands = []cli.Command{
		encodeCommand,
		decodeCommand,
		checkCommand,
		inspectCommand,
	}
}

// Launch parses the command line and runs the selected command.
func Launch(args []string) error {
	return app.Run(args)
}

// Verbosity values map onto logrus levels one to one.
var verbosityLevels = []logrus.Level{
	logrus.FatalLevel,
	logrus.ErrorLevel,
	logrus.WarnLevel,
	logrus.InfoLevel,
	logrus.DebugLevel,
	logrus.TraceLevel,
}

func setupLogging(cfg LoggingConfig) error {
	v := cfg.Verbosity
	if v < 0 {
		v = 0
	}
	if v >= len(verbosityLevels) {
		v = len(verbosityLevels) - 1
	}
	logrus.SetLevel(verbosityLevels[v])

	switch cfg.Format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Color,
			DisableColors: !cfg.Color,
		})
	}

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return fmt.Errorf("sentry hook: %w", err)
		}
		logrus.AddHook(hook)
	}
	return nil
}

func prepare(ctx *cli.Context) (Config, error) {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return Config{}, err
	}
	return cfg, setupLogging(cfg.Logging)
}

func encode(ctx *cli.Context) error {
	cfg, err := prepare(ctx)
	if err != nil {
		return err
	}
	codec, err := makeCodec(cfg.Codec)
	if err != nil {
		return err
	}

	var archive *store.Store
	if cfg.Archive.Path != "" {
		archive, err = store.Open(cfg.Archive.Path)
		if err != nil {
			return err
		}
		defer archive.Close()
	}

	if len(ctx.Args()) == 0 {
		payload, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		raw, err := protectOne(context.Background(), codec, payload, cfg.Archive.Compress, archive)
		if err != nil {
			return err
		}
		return writeOutput(ctx.String("out"), raw, ctx.Bool("hex"))
	}

	// Batch mode: every input file gets a sibling .eccf envelope. The codecs
	// are stateless, so files are processed concurrently.
	g, gctx := errgroup.WithContext(context.Background())
	for _, path := range ctx.Args() {
		path := path
		g.Go(func() error {
			payload, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			raw, err := protectOne(gctx, codec, payload, cfg.Archive.Compress, archive)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return os.WriteFile(path+".eccf", raw, 0o644)
		})
	}
	return g.Wait()
}

func protectOne(ctx context.Context, codec ecc.ErrorCorrection, payload []byte, compress bool, archive *store.Store) ([]byte, error) {
	env, err := msg.Protect(codec, payload, compress)
	if err != nil {
		return nil, err
	}
	if archive != nil {
		id, err := archive.Put(ctx, env)
		if err != nil {
			return nil, err
		}
		logrus.WithField("id", id.Hex()).Debug("envelope archived")
	}
	logrus.WithFields(logrus.Fields{
		"tier":  env.Tier.String(),
		"raw":   env.RawLen,
		"frame": len(env.Frame),
	}).Info("payload protected")
	return env.MarshalBinary()
}

func decode(ctx *cli.Context) error {
	cfg, err := prepare(ctx)
	if err != nil {
		return err
	}

	env, err := loadEnvelope(ctx, cfg)
	if err != nil {
		return err
	}

	// Frames carry everything the decoder needs, so the configured
	// parameters do not have to match the encoding side.
	codec, err := ecc.New(env.Tier)
	if err != nil {
		return err
	}
	payload, err := env.Open(codec)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"tier": env.Tier.String(),
		"raw":  len(payload),
	}).Info("payload recovered")
	return writeOutput(ctx.String("out"), payload, false)
}

func check(ctx *cli.Context) error {
	cfg, err := prepare(ctx)
	if err != nil {
		return err
	}

	env, err := loadEnvelope(ctx, cfg)
	if err != nil {
		return err
	}
	codec, err := ecc.New(env.Tier)
	if err != nil {
		return err
	}

	if codec.HasErrors(env.Frame) {
		logrus.WithField("tier", env.Tier.String()).Error("frame shows errors")
		return fmt.Errorf("frame shows errors")
	}
	fmt.Fprintln(ctx.App.Writer, "frame is clean")
	return nil
}

func inspect(ctx *cli.Context) error {
	cfg, err := prepare(ctx)
	if err != nil {
		return err
	}

	if len(ctx.Args()) == 0 && ctx.String("id") == "" && cfg.Archive.Path != "" {
		return listArchive(ctx, cfg.Archive.Path)
	}

	env, err := loadEnvelope(ctx, cfg)
	if err != nil {
		return err
	}
	id, err := env.ID()
	if err != nil {
		return err
	}

	w := ctx.App.Writer
	fmt.Fprintf(w, "id:         %s\n", id.Hex())
	fmt.Fprintf(w, "version:    %d\n", env.Version)
	fmt.Fprintf(w, "tier:       %s\n", env.Tier)
	fmt.Fprintf(w, "compressed: %v\n", env.Compressed)
	fmt.Fprintf(w, "raw size:   %d\n", env.RawLen)
	fmt.Fprintf(w, "frame size: %d\n", len(env.Frame))
	return nil
}

func listArchive(ctx *cli.Context, path string) error {
	archive, err := store.Open(path)
	if err != nil {
		return err
	}
	defer archive.Close()

	ids, err := archive.List(context.Background(), 100)
	if err != nil {
		return err
	}
	for _, id := range ids {
		env, err := archive.Get(context.Background(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "%s %s\n", id.Hex(), env)
	}
	return nil
}

// loadEnvelope resolves the command's envelope source: the archive when an
// --id is given, otherwise a file argument or stdin.
func loadEnvelope(ctx *cli.Context, cfg Config) (*msg.Envelope, error) {
	if idHex := ctx.String("id"); idHex != "" {
		if cfg.Archive.Path == "" {
			return nil, fmt.Errorf("--id requires --archive")
		}
		archive, err := store.Open(cfg.Archive.Path)
		if err != nil {
			return nil, err
		}
		defer archive.Close()
		return archive.Get(context.Background(), hash.HexToHash(idHex))
	}
	return readEnvelope(ctx)
}

// readEnvelope loads a serialized envelope from the command's file argument,
// or stdin when none is given. With --hex the input is a hex string.
func readEnvelope(ctx *cli.Context) (*msg.Envelope, error) {
	var (
		raw []byte
		err error
	)
	if len(ctx.Args()) == 0 {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(ctx.Args()[0])
	}
	if err != nil {
		return nil, err
	}

	if ctx.Bool("hex") {
		raw, err = parseHexInput(raw)
		if err != nil {
			return nil, fmt.Errorf("decode hex input: %w", err)
		}
	}

	env := new(msg.Envelope)
	if err := env.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return env, nil
}

// parseHexInput decodes a hex string through hexutil, tolerating surrounding
// whitespace and a missing 0x prefix.
func parseHexInput(raw []byte) ([]byte, error) {
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}

func writeOutput(path string, data []byte, asHex bool) error {
	if asHex {
		data = []byte(hexutil.Encode(data) + "\n")
	}
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
