package main

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llehouerou/ncmtag/internal/catalog"
	"github.com/llehouerou/ncmtag/internal/errmsg"
	"github.com/llehouerou/ncmtag/internal/tagger"
)

type batchFlags struct {
	manifest   string
	cover      string
	catalogDir string
	workers    int
}

func newAlbumCommand(a *app) *cobra.Command {
	f := &batchFlags{}

	cmd := &cobra.Command{
		Use:   "album <album listing>",
		Short: "Tag every downloaded track of an album.",
		Long: `Tag every downloaded track of an album listing. Disc numbers and per-disc
track totals are derived from the whole listing, so tracks of a multi-disc
album get consistent positions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAlbum(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.manifest, "manifest", "m", "", "Manifest JSON mapping song ids to audio and cover files (required)")
	cmd.Flags().StringVarP(&f.cover, "cover", "c", "", "Cover image for tracks without one in the manifest")
	cmd.Flags().StringVar(&f.catalogDir, "catalog", "", "Catalog directory used to look up lyrics")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "Files tagged concurrently (default from config)")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

func (a *app) runAlbum(cmd *cobra.Command, listing string, f *batchFlags) error {
	songs, err := catalog.ReadSongs(listing)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpListingLoad, listing, err))
	}
	m, err := loadManifest(f.manifest)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpManifestLoad, f.manifest, err))
	}

	jobs, missing := buildJobs(songs, m, tagger.AlbumHints(songs), f.cover, false)
	printMissing(cmd.OutOrStdout(), missing)
	a.logger.WithFields(log.Fields{
		"songs": len(songs),
		"jobs":  len(jobs),
	}).Debug("Album listing loaded")

	t := tagger.New(a.catalogSource(f.catalogDir), nil, a.taggerOptions(f.workers))
	if err := runBatch(cmd.Context(), cmd.OutOrStdout(), t, jobs, "Album"); err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpTagAlbum, listing, err))
	}
	return nil
}
