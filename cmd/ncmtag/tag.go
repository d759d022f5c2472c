package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/llehouerou/ncmtag/internal/catalog"
	"github.com/llehouerou/ncmtag/internal/errmsg"
	"github.com/llehouerou/ncmtag/internal/metadata"
	"github.com/llehouerou/ncmtag/internal/tagger"
	"github.com/llehouerou/ncmtag/internal/tags"
)

type tagFlags struct {
	record     string
	lyrics     string
	cover      string
	catalogDir string
	program    bool
	noCover    bool
	hint       metadata.Hint
}

func newTagCommand(a *app) *cobra.Command {
	f := &tagFlags{}

	cmd := &cobra.Command{
		Use:   "tag <audio file>",
		Short: "Tag one file from a song or program record.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTag(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.record, "record", "r", "", "Song or program record JSON (required)")
	cmd.Flags().StringVarP(&f.lyrics, "lyrics", "l", "", "Lyric response JSON")
	cmd.Flags().StringVarP(&f.cover, "cover", "c", "", "Cover image (default: cover file next to the audio file)")
	cmd.Flags().StringVar(&f.catalogDir, "catalog", "", "Catalog directory used to look up lyrics")
	cmd.Flags().BoolVar(&f.program, "program", false, "Record is a radio program episode")
	cmd.Flags().BoolVar(&f.noCover, "no-cover", false, "Do not embed a cover")
	cmd.Flags().IntVar(&f.hint.TrackNumber, "track", 0, "Track number override")
	cmd.Flags().IntVar(&f.hint.TrackTotal, "track-total", 0, "Track total override")
	cmd.Flags().IntVar(&f.hint.DiscNumber, "disc", 0, "Disc number override")
	cmd.Flags().IntVar(&f.hint.DiscTotal, "disc-total", 0, "Disc total override")
	_ = cmd.MarkFlagRequired("record")

	return cmd
}

func (a *app) runTag(cmd *cobra.Command, audioPath string, f *tagFlags) error {
	job, err := buildTagJob(audioPath, f)
	if err != nil {
		return err
	}

	t := tagger.New(a.catalogSource(f.catalogDir), nil, a.taggerOptions(1))
	if err := t.TagTrack(cmd.Context(), job); err != nil {
		if errors.Is(err, tags.ErrInvalidContainer) {
			_, _ = colorWarning.Fprintf(cmd.OutOrStdout(), "Skipped %s: not a valid audio file\n", audioPath)
			return nil
		}
		return errors.New(errmsg.FormatWith(errmsg.OpTagFile, audioPath, err))
	}

	_, _ = colorSuccess.Fprintf(cmd.OutOrStdout(), "Tagged %s\n", audioPath)
	return nil
}

// buildTagJob reads the records named by f into a single-track job.
func buildTagJob(audioPath string, f *tagFlags) (tagger.Job, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return tagger.Job{}, errors.New(errmsg.FormatWith(errmsg.OpTagFile, audioPath, err))
	}

	song, err := catalog.ReadSong(f.record)
	if err != nil {
		return tagger.Job{}, errors.New(errmsg.FormatWith(errmsg.OpRecordLoad, f.record, err))
	}

	job := tagger.Job{
		Song:      song,
		IsProgram: f.program,
		AudioPath: audioPath,
		Hint:      f.hint,
	}

	if f.lyrics != "" {
		data, err := os.ReadFile(f.lyrics)
		if err != nil {
			return tagger.Job{}, errors.New(errmsg.FormatWith(errmsg.OpLyricsLoad, f.lyrics, err))
		}
		lyrics, err := catalog.ParseLyrics(data)
		if err != nil {
			return tagger.Job{}, errors.New(errmsg.FormatWith(errmsg.OpLyricsLoad, f.lyrics, err))
		}
		job.Lyrics = lyrics
	}

	if !f.noCover {
		job.CoverPath = f.cover
		if job.CoverPath == "" {
			job.CoverPath = tags.FindFolderCover(filepath.Dir(audioPath))
		}
	}

	return job, nil
}
