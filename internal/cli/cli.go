// Package cli implements the metaread command line.
package cli

import (
	"errors"

	"github.com/juho05/log"
	"github.com/spf13/cobra"

	"github.com/llehouerou/metaread/internal/config"
	"github.com/llehouerou/metaread/internal/decode"
	"github.com/llehouerou/metaread/internal/errmsg"
	"github.com/llehouerou/metaread/internal/library"
	"github.com/llehouerou/metaread/internal/reader"
	"github.com/llehouerou/metaread/internal/source"
)

// errFailed marks a command that already reported its errors.
var errFailed = errors.New("one or more files failed")

// Option overrides a collaborator of the commands.
type Option func(*app)

// WithConfig skips config file and environment loading.
func WithConfig(cfg *config.Config) Option {
	return func(a *app) { a.cfg = cfg }
}

// WithSource replaces the composite tag source.
func WithSource(src source.Source) Option {
	return func(a *app) { a.src = src }
}

// WithDecoder replaces the native decoder.
func WithDecoder(dec decode.Decoder) Option {
	return func(a *app) { a.dec = dec }
}

// app holds what every subcommand needs once the config is loaded.
type app struct {
	cfg        *config.Config
	configPath string
	logLevel   int

	src source.Source
	dec decode.Decoder

	reader *reader.Reader
}

// New returns the root command.
func New(opts ...Option) *cobra.Command {
	a := &app{logLevel: -1}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:           "metaread",
		Short:         "Read canonical metadata from audio files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Additional config file (TOML)")
	root.PersistentFlags().IntVar(&a.logLevel, "log-level", -1, "Log level from 0 (none) to 5 (trace)")

	root.AddCommand(
		newReadCommand(a),
		newScanCommand(a),
		newArtCommand(a),
		newChainCommand(a),
	)
	return root
}

func (a *app) init() error {
	if a.cfg == nil {
		var extra []string
		if a.configPath != "" {
			extra = append(extra, a.configPath)
		}
		cfg, err := config.Load(extra...)
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
		}
		a.cfg = cfg
	}

	severity := a.cfg.LogLevel()
	if a.logLevel >= int(log.NONE) && a.logLevel <= int(log.TRACE) {
		severity = log.Severity(a.logLevel)
	}
	log.SetSeverity(severity)

	if a.src == nil {
		a.src = a.newSource()
	}
	if a.dec == nil {
		a.dec = decode.New()
	}
	a.reader = reader.New(a.src, a.dec,
		reader.WithFolderArt(a.cfg.Scan.FolderArt),
		reader.WithSidecarLyrics(a.cfg.Scan.SidecarLyrics),
	)
	return nil
}

func (a *app) newSource() source.Source {
	var opts []source.CompositeOption
	if a.cfg.FFprobeEnabled() {
		ff, err := source.NewFFprobe(a.cfg.FFprobe.Path)
		if err != nil {
			log.Tracef("ffprobe disabled: %s", err)
		} else {
			opts = append(opts, source.WithFFprobe(ff))
		}
	}
	return source.NewComposite(opts...)
}

func (a *app) newList(secondary bool) *library.List {
	return library.New(a.reader,
		library.WithWorkers(a.cfg.Workers()),
		library.WithDurationWorkers(a.cfg.DurationWorkers()),
		library.WithProgressEvery(a.cfg.ProgressEvery()),
		library.WithSecondary(secondary),
	)
}
