package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/ironsheep/image-strip-mcp/internal/config"
	"github.com/ironsheep/image-strip-mcp/internal/imaging"
	"github.com/ironsheep/image-strip-mcp/internal/logging"
	"github.com/ironsheep/image-strip-mcp/internal/server"
	"github.com/ironsheep/image-strip-mcp/internal/strip"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const pipeName = "-"

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed, color.Bold)
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(stderr, "warning: %v\n", err)
	}

	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "image-strip %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return 0
		case "help":
			usage(stdout, newFlagSet(stdout, &cliOptions{}))
			return 0
		case "mcp":
			return runServer(stdin, stdout, stderr)
		}
	}

	var opts cliOptions
	fs := newFlagSet(stderr, &opts)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	log := newLogger(stderr)
	defer log.Sync() //nolint:errcheck

	if err := merge(fs, &opts, log, stdout, stderr); err != nil {
		var se *strip.StageError
		if !errors.As(err, &se) {
			err = &strip.StageError{Stage: strip.StageParameters, Err: err}
		}
		errorColor.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

type cliOptions struct {
	out         string
	orientation string
	alignment   string
	resize      string
	keepAspect  bool
	border      int
	borderColor string
	format      string
	quality     int
	preset      string
	timeout     time.Duration
	quiet       bool
}

func newFlagSet(output io.Writer, o *cliOptions) *flag.FlagSet {
	fs := flag.NewFlagSet("image-strip", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&o.out, "out", "", "Destination file, or - for stdout (default merged.<ext>)")
	fs.StringVar(&o.orientation, config.KeyOrientation, strip.DefaultOrientation, "horizontal or vertical")
	fs.StringVar(&o.alignment, config.KeyAlignment, strip.DefaultAlignment, "start, center or end")
	fs.StringVar(&o.resize, config.KeyResize, strip.DefaultResize, "none, magnify_smaller, reduce_larger or crop_larger")
	fs.BoolVar(&o.keepAspect, config.KeyKeepAspect, true, "Scale the main axis proportionally when resampling")
	fs.IntVar(&o.border, config.KeyBorder, 0, "Border thickness in pixels")
	fs.StringVar(&o.borderColor, config.KeyBorderColor, strip.DefaultBorderColor, "Border color: hex, CSS name, rgb(), rgba() or hsl()")
	fs.StringVar(&o.format, config.KeyFormat, "", "webp, jpg, jpeg or png (default from -out, else webp)")
	fs.IntVar(&o.quality, config.KeyQuality, strip.DefaultQuality, "Lossy quality 1-100")
	fs.StringVar(&o.preset, "config", "", "YAML preset with default options")
	fs.DurationVar(&o.timeout, config.KeyTimeout, 0, "Deadline for loading the images (0 = none)")
	fs.BoolVar(&o.quiet, "quiet", false, "Do not print the summary line")
	fs.Usage = func() { usage(output, fs) }
	return fs
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "image-strip - merge images into a horizontal or vertical strip")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  image-strip [flags] <image> <image> [<image>...]")
	fmt.Fprintln(w, "  image-strip mcp        Run the MCP tool server on stdin/stdout")
	fmt.Fprintln(w, "  image-strip version    Print version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Images are local paths or http(s) URLs.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables (also read from .env):")
	fmt.Fprintf(w, "  %s=debug    Log level (debug, info, warn, error)\n", logging.EnvLevel)
	fmt.Fprintf(w, "  %s=path      Also write JSON logs to a rotating file\n", logging.EnvFile)
}

// buildRequest combines the preset and the flags into a request. Flags set
// on the command line take precedence over the preset.
func buildRequest(fs *flag.FlagSet, o *cliOptions) (strip.Request, time.Duration, error) {
	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	req := strip.Request{
		Images:      fs.Args(),
		Orientation: o.orientation,
		Alignment:   o.alignment,
		Resize:      o.resize,
		KeepAspect:  o.keepAspect,
		Border:      o.border,
		BorderColor: o.borderColor,
		Format:      o.format,
		Quality:     o.quality,
	}
	timeout := o.timeout

	formatChosen := explicit[config.KeyFormat]
	if o.preset != "" {
		preset, err := config.LoadPreset(o.preset)
		if err != nil {
			return req, 0, err
		}
		preset.Apply(&req, func(key string) bool { return explicit[key] })
		if preset.Timeout != nil && !explicit[config.KeyTimeout] {
			timeout = *preset.Timeout
		}
		formatChosen = formatChosen || preset.Format != nil
	}

	if !formatChosen {
		req.Format = strip.DefaultFormat
		if o.out != "" && o.out != pipeName {
			if f, err := imaging.ParseFormat(filepath.Ext(o.out)); err == nil {
				req.Format = f.String()
			}
		}
	}
	return req, timeout, nil
}

func merge(fs *flag.FlagSet, o *cliOptions, log *zap.Logger, stdout, stderr io.Writer) error {
	req, timeout, err := buildRequest(fs, o)
	if err != nil {
		return err
	}
	settings, err := req.Validate()
	if err != nil {
		return err
	}

	out := o.out
	if out == "" {
		out = "merged." + settings.Output.Format.Extension()
	}
	if out == pipeName {
		if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return errors.New("`-` should be used with a pipe for stdout")
		}
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	p := strip.New(imaging.NewSource(), log)
	var summary *strip.Summary
	if out == pipeName {
		summary, err = p.Run(ctx, req, stdout)
	} else {
		summary, err = p.RunToFile(ctx, req, out)
	}
	if err != nil {
		return err
	}

	if !o.quiet {
		dest := out
		if out == pipeName {
			dest = "stdout"
		}
		successColor.Fprintf(stderr, "%s → %s\n", summary, dest)
	}
	return nil
}

// newLogger sends console log entries to the same writer as the status lines.
func newLogger(stderr io.Writer) *zap.Logger {
	cfg := logging.ConfigFromEnv()
	cfg.Console = zapcore.Lock(zapcore.AddSync(stderr))
	return logging.New(cfg)
}

func runServer(stdin io.Reader, stdout, stderr io.Writer) int {
	log := newLogger(stderr)
	defer log.Sync() //nolint:errcheck

	log.Debug("starting MCP server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(log, server.WithVersion(Version))
	if err := srv.Run(ctx, stdin, stdout); err != nil && !errors.Is(err, context.Canceled) {
		errorColor.Fprintf(stderr, "server error: %v\n", err)
		return 1
	}
	return 0
}
