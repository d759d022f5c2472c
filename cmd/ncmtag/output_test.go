package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/ncmtag/internal/metadata"
	"github.com/llehouerou/ncmtag/internal/tagger"
	"github.com/llehouerou/ncmtag/internal/tags"
)

func disableColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestPrintReport(t *testing.T) {
	disableColor(t)

	var buf bytes.Buffer
	printReport(&buf, &tagger.Report{
		Tagged:  3,
		Skipped: []string{"/a/bad.mp3"},
		Failed:  []tagger.Failure{{Path: "/a/locked.flac", Err: errors.New("permission denied")}},
	})

	out := buf.String()
	assert.Contains(t, out, "Tagged 3 of 5 files")
	assert.Contains(t, out, "Skipped 1 files")
	assert.Contains(t, out, "/a/bad.mp3")
	assert.Contains(t, out, "/a/locked.flac: permission denied")
}

func TestPrintReport_AllTagged(t *testing.T) {
	disableColor(t)

	var buf bytes.Buffer
	printReport(&buf, &tagger.Report{Tagged: 2})

	assert.Equal(t, "Tagged 2 of 2 files\n", buf.String())
}

func TestPrintMissing(t *testing.T) {
	disableColor(t)

	var buf bytes.Buffer
	printMissing(&buf, nil)
	assert.Empty(t, buf.String())

	printMissing(&buf, []int64{7, 9})
	assert.Equal(t, "2 songs not in manifest: 7 9\n", buf.String())
}

func TestPrintTags(t *testing.T) {
	disableColor(t)

	ft := &tags.FileTags{
		Path:   "/music/song.flac",
		Format: tags.FormatFLAC,
		Metadata: metadata.Metadata{
			Title:            "Song A",
			Artists:          []string{"X", "Y"},
			Album:            "Album",
			TrackNumber:      3,
			TrackTotal:       12,
			DiscNumber:       2,
			DiscTotal:        2,
			Year:             "2021",
			Lyrics:           "[00:01.00]a\n[00:02.00]b\n",
			TranslatedLyrics: "[00:01.00]x\n",
		},
		HasCover:  true,
		CoverMIME: "image/jpeg",
	}
	info := &tags.AudioInfo{Duration: 185 * time.Second, SampleRate: 44100, BitDepth: 16}

	var buf bytes.Buffer
	printTags(&buf, ft, info, 2_500_000)
	out := buf.String()

	assert.Contains(t, out, "/music/song.flac\n")
	assert.Contains(t, out, "3:05, 44100 Hz, 16-bit, 2.5 MB")
	assert.Contains(t, out, "X / Y")
	assert.Contains(t, out, "3/12")
	assert.Contains(t, out, "2/2")
	assert.Contains(t, out, "2021")
	assert.Contains(t, out, "2 lines, synced, 1 translated")
	assert.Contains(t, out, "image/jpeg")
	assert.NotContains(t, out, "Composer", "absent fields are not printed")
}

func TestLyricSummary(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		translation string
		want        string
	}{
		{"no lyrics", "", "", ""},
		{"plain text", "one\ntwo\n", "", "2 lines, unsynced"},
		{"synced", "[00:01.00]a\n[00:02.00]b", "", "2 lines, synced"},
		{"translated", "[00:01.00]a\n[00:02.00]b", "[00:02.00]B", "2 lines, synced, 1 translated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lyricSummary(tt.text, tt.translation))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", formatDuration(0))
	assert.Equal(t, "3:05", formatDuration(185*time.Second))
	assert.Equal(t, "61:01", formatDuration(time.Hour+61*time.Second))
}

func TestWriteEmbeddedCover_MissingFile(t *testing.T) {
	_, err := writeEmbeddedCover(filepath.Join(t.TempDir(), "missing.mp3"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildTagJob(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "song.mp3")
	record := filepath.Join(dir, "song.json")
	lyrics := filepath.Join(dir, "lyrics.json")
	folderCover := filepath.Join(dir, "cover.jpg")

	require.NoError(t, os.WriteFile(audio, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(record, []byte(`{"id": 5, "name": "Song"}`), 0o600))
	require.NoError(t, os.WriteFile(lyrics, []byte(`{"lrc": {"lyric": "la"}, "tlyric": {"lyric": "tr"}}`), 0o600))
	require.NoError(t, os.WriteFile(folderCover, []byte("img"), 0o600))

	f := &tagFlags{record: record, lyrics: lyrics, hint: metadata.Hint{TrackNumber: 4}}
	job, err := buildTagJob(audio, f)
	require.NoError(t, err)

	assert.Equal(t, int64(5), job.Song.ID)
	assert.Equal(t, audio, job.AudioPath)
	assert.Equal(t, folderCover, job.CoverPath)
	assert.Equal(t, 4, job.Hint.TrackNumber)
	require.NotNil(t, job.Lyrics)
	assert.Equal(t, "la", job.Lyrics.Lyric)
	assert.Equal(t, "tr", job.Lyrics.Translation)

	f.noCover = true
	job, err = buildTagJob(audio, f)
	require.NoError(t, err)
	assert.Empty(t, job.CoverPath)
}

func TestBuildTagJob_Errors(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "song.mp3")
	require.NoError(t, os.WriteFile(audio, []byte("x"), 0o600))

	_, err := buildTagJob(filepath.Join(dir, "missing.mp3"), &tagFlags{})
	assert.ErrorContains(t, err, "Failed to tag file")

	_, err = buildTagJob(audio, &tagFlags{record: filepath.Join(dir, "none.json")})
	assert.ErrorContains(t, err, "Failed to load song record")
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "CD2")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	for _, name := range []string{"b.flac", "a.mp3", "cover.jpg", "CD2/c.MP3"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	got, err := expandPaths([]string{dir, "/not/there.mp3"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "CD2", "c.MP3"),
		filepath.Join(dir, "a.mp3"),
		filepath.Join(dir, "b.flac"),
		"/not/there.mp3",
	}, got)
}
