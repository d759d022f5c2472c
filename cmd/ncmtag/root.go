package main

import (
	"errors"
	"os"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llehouerou/ncmtag/internal/catalog"
	"github.com/llehouerou/ncmtag/internal/config"
	"github.com/llehouerou/ncmtag/internal/errmsg"
	"github.com/llehouerou/ncmtag/internal/tagger"
)

// app carries what every subcommand needs once the root command has run.
type app struct {
	cfg     *config.Config
	logger  *log.Entry
	verbose bool
	noColor bool
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ncmtag",
		Short: "Tag downloaded NetEase Cloud Music tracks.",
		Long: `ncmtag writes catalog metadata into MP3 (ID3v2.3) and FLAC (Vorbis comment)
files: title, artists, album, album-artist, track and disc positions,
composer, genres, release date, aliases, publisher, lyrics with their
translation, and a resized front cover.

Catalog responses are read from local JSON files; nothing is fetched
over the network.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newTagCommand(a),
		newAlbumCommand(a),
		newPlaylistCommand(a),
		newSongsCommand(a),
		newInspectCommand(a),
	)
	return root
}

func (a *app) init() error {
	color.NoColor = a.noColor || !isatty.IsTerminal(os.Stdout.Fd())

	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	a.cfg = cfg

	setupLogging(cfg.LogLevel(), a.verbose, a.noColor || !isatty.IsTerminal(os.Stderr.Fd()))
	a.logger = log.WithFields(log.Fields{"module": "cli"})
	return nil
}

func setupLogging(level string, verbose, noColors bool) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&nested.Formatter{
		HideKeys:        true,
		FieldsOrder:     []string{"module", "path"},
		TimestampFormat: "15:04:05",
		NoColors:        noColors,
	})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("Unknown log level, using info")
		lvl = log.InfoLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	log.SetLevel(lvl)
}

// taggerOptions builds tagger options from the configuration. workers > 0
// overrides the configured worker count.
func (a *app) taggerOptions(workers int) tagger.Options {
	t := a.cfg.TaggingOptions()
	if workers > 0 {
		t.Workers = workers
	}
	return tagger.Options{
		Cover:        a.cfg.CoverOptions(),
		CoverEnabled: a.cfg.CoverEnabled(),
		Workers:      t.Workers,
		Location:     t.Location,
	}
}

// catalogSource returns the directory-backed catalog named by dir, falling
// back to the configured catalog_dir. It returns nil when neither is set.
func (a *app) catalogSource(dir string) tagger.Catalog {
	if dir == "" {
		dir = a.cfg.CatalogDir
	}
	if dir == "" {
		return nil
	}
	return catalog.NewDirSource(dir)
}
