package main

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llehouerou/ncmtag/internal/catalog"
	"github.com/llehouerou/ncmtag/internal/errmsg"
	"github.com/llehouerou/ncmtag/internal/tagger"
)

type songsFlags struct {
	batchFlags
	limit int
}

func newSongsCommand(a *app) *cobra.Command {
	f := &songsFlags{}

	cmd := &cobra.Command{
		Use:   "songs <song listing>",
		Short: "Tag a loose list of downloaded songs.",
		Long: `Tag a list of unrelated songs, such as a set of song ids or an artist's hot
songs. Each track is tagged from its own record: disc and track positions
come from the record alone and no album listing is consulted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSongs(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.manifest, "manifest", "m", "", "Manifest JSON mapping song ids to audio and cover files (required)")
	cmd.Flags().StringVarP(&f.cover, "cover", "c", "", "Cover image for tracks without one in the manifest")
	cmd.Flags().StringVar(&f.catalogDir, "catalog", "", "Catalog directory used to look up lyrics")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "Files tagged concurrently (default from config)")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "Tag only the first N songs of the listing (0 tags all)")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

func (a *app) runSongs(cmd *cobra.Command, listing string, f *songsFlags) error {
	songs, err := catalog.ReadSongs(listing)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpListingLoad, listing, err))
	}
	m, err := loadManifest(f.manifest)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpManifestLoad, f.manifest, err))
	}

	songs = firstSongs(songs, f.limit)
	jobs, missing := buildJobs(songs, m, nil, f.cover, false)
	printMissing(cmd.OutOrStdout(), missing)
	a.logger.WithFields(log.Fields{
		"songs": len(songs),
		"jobs":  len(jobs),
	}).Debug("Song listing loaded")

	t := tagger.New(a.catalogSource(f.catalogDir), nil, a.taggerOptions(f.workers))
	if err := runBatch(cmd.Context(), cmd.OutOrStdout(), t, jobs, "Songs"); err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpTagSongs, listing, err))
	}
	return nil
}

// firstSongs keeps the first n songs; n <= 0 keeps them all.
func firstSongs(songs []catalog.Song, n int) []catalog.Song {
	if n <= 0 || n >= len(songs) {
		return songs
	}
	return songs[:n]
}
