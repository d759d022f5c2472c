package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/ncmtag/internal/errmsg"
	"github.com/llehouerou/ncmtag/internal/lyrics"
	"github.com/llehouerou/ncmtag/internal/metadata"
	"github.com/llehouerou/ncmtag/internal/tags"
)

func newInspectCommand(a *app) *cobra.Command {
	var saveCover bool

	cmd := &cobra.Command{
		Use:   "inspect <audio file or directory>...",
		Short: "Print the tags stored in audio files.",
		Long: `Print the tags stored in audio files. Directories are searched
recursively for MP3 and FLAC files.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInspect(cmd.OutOrStdout(), args, saveCover)
		},
	}

	cmd.Flags().BoolVar(&saveCover, "save-cover", false, "Write the embedded cover next to each file")
	return cmd
}

func (a *app) runInspect(w io.Writer, args []string, saveCover bool) error {
	paths, err := expandPaths(args)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInspectTags, err))
	}
	a.logger.WithField("files", len(paths)).Debug("Inspecting")

	failed := 0
	for i, path := range paths {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		if err := inspectFile(w, path, saveCover); err != nil {
			_, _ = colorError.Fprintln(w, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be read", failed, len(paths))
	}
	return nil
}

// expandPaths replaces directories with the music files below them, sorted.
// Other arguments are kept as given.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && tags.IsMusicFile(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}

func inspectFile(w io.Writer, path string, saveCover bool) error {
	ft, err := tags.Read(path)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpInspectTags, path, err))
	}

	var size uint64
	if st, err := os.Stat(path); err == nil {
		size = uint64(st.Size()) //nolint:gosec // file sizes are non-negative
	}

	info, err := tags.ReadAudioInfo(path)
	if err != nil {
		_, _ = colorWarning.Fprintln(w, errmsg.FormatWith(errmsg.OpInspectAudio, path, err))
	}

	printTags(w, ft, info, size)

	if saveCover && ft.HasCover {
		out, err := writeEmbeddedCover(path)
		if err != nil {
			return errors.New(errmsg.FormatWith(errmsg.OpCoverExtract, path, err))
		}
		_, _ = colorSuccess.Fprintf(w, "Cover saved to %s\n", out)
	}
	return nil
}

// printTags writes the owned fields of ft, one per line, skipping absent ones.
func printTags(w io.Writer, ft *tags.FileTags, info *tags.AudioInfo, size uint64) {
	_, _ = colorInfo.Fprintln(w, ft.Path)

	field := func(label, value string) {
		if value == "" {
			return
		}
		_, _ = colorLabel.Fprintf(w, "  %-12s", label)
		_, _ = fmt.Fprintln(w, value)
	}

	format := ft.Format
	if info != nil {
		format = fmt.Sprintf("%s, %s, %d Hz", format, formatDuration(info.Duration), info.SampleRate)
		if info.BitDepth > 0 {
			format += fmt.Sprintf(", %d-bit", info.BitDepth)
		}
	}
	if size > 0 {
		format += ", " + humanize.Bytes(size)
	}
	field("Format", format)

	m := &ft.Metadata
	field("Title", m.Title)
	field("Artist", strings.Join(m.Artists, metadata.ArtistSeparator))
	field("Album", m.Album)
	field("Album artist", m.AlbumArtist)
	field("Track", m.TrackPosition())
	field("Disc", m.DiscPosition())
	field("Composer", m.Composer)
	field("Genre", m.Genre())
	date := m.Date
	if date == "" {
		date = m.Year
	}
	field("Date", date)
	field("Aliases", strings.Join(m.Aliases, metadata.ArtistSeparator))
	field("Comment", m.Comment)
	field("Lyrics", lyricSummary(m.Lyrics, m.TranslatedLyrics))
	if ft.HasCover {
		field("Cover", ft.CoverMIME)
	}
}

// lyricSummary describes stored lyric text, e.g. "42 lines, synced, 40 translated".
func lyricSummary(text, translation string) string {
	if text == "" {
		return ""
	}
	lrc, err := lyrics.Parse(text)
	if err != nil || len(lrc.Lines) == 0 {
		lines := strings.Count(strings.TrimRight(text, "\n"), "\n") + 1
		return humanize.Comma(int64(lines)) + " lines, unsynced"
	}

	parts := []string{humanize.Comma(int64(len(lrc.Lines))) + " lines"}
	if lrc.IsSynced() {
		parts = append(parts, "synced")
	}
	if translation != "" {
		tr, _ := lyrics.Parse(translation)
		parts = append(parts, humanize.Comma(int64(lrc.Translated(tr)))+" translated")
	}
	return strings.Join(parts, ", ")
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// writeEmbeddedCover saves the embedded picture of path as <path>.cover.<ext>.
func writeEmbeddedCover(path string) (string, error) {
	data, mime, err := tags.ExtractCoverArt(path)
	if err != nil {
		return "", err
	}
	if data == nil {
		return "", errors.New("no embedded cover")
	}

	ext := ".jpg"
	if mime == "image/png" {
		ext = ".png"
	}
	out := path + ".cover" + ext
	if err := os.WriteFile(out, data, 0o644); err != nil { //nolint:gosec // image file is meant to be readable
		return "", err
	}
	return out, nil
}
