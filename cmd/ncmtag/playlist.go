package main

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llehouerou/ncmtag/internal/catalog"
	"github.com/llehouerou/ncmtag/internal/discmap"
	"github.com/llehouerou/ncmtag/internal/errmsg"
	"github.com/llehouerou/ncmtag/internal/tagger"
)

func newPlaylistCommand(a *app) *cobra.Command {
	f := &batchFlags{}

	cmd := &cobra.Command{
		Use:   "playlist <playlist listing>",
		Short: "Tag downloaded playlist entries.",
		Long: `Tag downloaded playlist entries. Each entry's album listing is read from the
catalog directory (<catalog>/albums/<album id>.json) once, however many
entries share the album, to derive disc numbers and per-disc track totals.
Lyrics are read from <catalog>/lyrics/<song id>.json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPlaylist(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.manifest, "manifest", "m", "", "Manifest JSON mapping song ids to audio and cover files (required)")
	cmd.Flags().StringVarP(&f.cover, "cover", "c", "", "Cover image for tracks without one in the manifest")
	cmd.Flags().StringVar(&f.catalogDir, "catalog", "", "Catalog directory (default: catalog_dir from config)")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "Files tagged concurrently (default from config)")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

func (a *app) runPlaylist(cmd *cobra.Command, listing string, f *batchFlags) error {
	src := a.catalogSource(f.catalogDir)
	if src == nil {
		return errors.New(errmsg.Format(errmsg.OpCatalogOpen, errors.New("no catalog directory; use --catalog or set catalog_dir")))
	}

	songs, err := catalog.ReadSongs(listing)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpListingLoad, listing, err))
	}
	m, err := loadManifest(f.manifest)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpManifestLoad, f.manifest, err))
	}

	jobs, missing := buildJobs(songs, m, nil, f.cover, true)
	printMissing(cmd.OutOrStdout(), missing)

	cache := discmap.NewCache(src.AlbumSongs)
	t := tagger.New(src, cache, a.taggerOptions(f.workers))
	err = runBatch(cmd.Context(), cmd.OutOrStdout(), t, jobs, "Playlist")
	a.logger.WithFields(log.Fields{
		"entries": len(songs),
		"albums":  cache.Len(),
	}).Debug("Playlist done")
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpTagPlaylist, listing, err))
	}
	return nil
}
