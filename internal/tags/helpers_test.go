package tags

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"github.com/llehouerou/ncmtag/internal/metadata"
)

// Test file creation helpers

// createTestMP3 creates a minimal MP3 file with optional tags.
func createTestMP3(t *testing.T, dir string, m *metadata.Metadata) string {
	t.Helper()
	path := filepath.Join(dir, "test.mp3")

	if err := os.WriteFile(path, mp3Frame(), 0o600); err != nil {
		t.Fatalf("failed to create test MP3: %v", err)
	}

	if m != nil {
		if err := (&ID3Encoder{}).Encode(path, m, nil); err != nil {
			t.Fatalf("failed to write MP3 tags: %v", err)
		}
	}

	return path
}

// mp3Frame returns a single MPEG1 Layer3 frame (128kbps, 44100Hz, stereo).
func mp3Frame() []byte {
	frame := make([]byte, 417)
	frame[0] = 0xff
	frame[1] = 0xfb
	frame[2] = 0x90
	frame[3] = 0x00
	return frame
}

// createTestFLAC creates a test FLAC file using ffmpeg.
func createTestFLAC(t *testing.T, dir string, m *metadata.Metadata) string {
	t.Helper()
	path := filepath.Join(dir, "test.flac")

	cmd := exec.Command("ffmpeg", "-y", "-f", "lavfi", "-i", "sine=frequency=440:duration=1", "-c:a", "flac", path)
	cmd.Stderr = nil
	cmd.Stdout = nil
	if err := cmd.Run(); err != nil {
		t.Skipf("ffmpeg not available: %v", err)
	}

	if m != nil {
		if err := (&FLACEncoder{}).Encode(path, m, nil); err != nil {
			t.Fatalf("failed to write FLAC tags: %v", err)
		}
	}

	return path
}

// setRawComments replaces the Vorbis comment block of a FLAC file with the
// given "KEY=value" entries, bypassing the encoder.
func setRawComments(t *testing.T, path string, comments ...string) {
	t.Helper()
	f, err := flac.ParseFile(path)
	if err != nil {
		t.Fatalf("parse FLAC: %v", err)
	}

	cmts := flacvorbis.New()
	cmts.Comments = comments
	block := cmts.Marshal()

	replaced := false
	for i, meta := range f.Meta {
		if meta.Type == flac.VorbisComment {
			f.Meta[i] = &block
			replaced = true
		}
	}
	if !replaced {
		f.Meta = append(f.Meta, &block)
	}
	if err := f.Save(path); err != nil {
		t.Fatalf("save FLAC: %v", err)
	}
}

// fullTestMetadata returns Metadata with all fields populated for testing.
func fullTestMetadata() *metadata.Metadata {
	return &metadata.Metadata{
		Title:            "Test Title",
		Album:            "Test Album",
		Artists:          []string{"Artist One", "Artist Two"},
		AlbumArtist:      "Artist One / Artist Two",
		TrackNumber:      3,
		TrackTotal:       12,
		DiscNumber:       1,
		DiscTotal:        2,
		Composer:         "Composer",
		Genres:           []string{"Pop", "Rock"},
		Date:             "2021-06-01",
		Year:             "2021",
		Aliases:          []string{"Alias One", "Alias Two"},
		Comment:          "Test Label",
		Lyrics:           "[00:01.00]hello",
		TranslatedLyrics: "[00:01.00]bonjour",
	}
}

// testArtwork returns a small decodable PNG cover.
func testArtwork(t *testing.T) *Artwork {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return &Artwork{Data: buf.Bytes(), MIME: mimePNG}
}

func assertEqual[T comparable](t *testing.T, field string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", field, got, want)
	}
}

func assertStrings(t *testing.T, field string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s = %q, want %q", field, got, want)
		return
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("%s = %q, want %q", field, got, want)
			return
		}
	}
}

// verifyMetadataMatch compares every owned field.
func verifyMetadataMatch(t *testing.T, got, want *metadata.Metadata) {
	t.Helper()
	assertEqual(t, "Title", got.Title, want.Title)
	assertEqual(t, "Album", got.Album, want.Album)
	assertStrings(t, "Artists", got.Artists, want.Artists)
	assertEqual(t, "AlbumArtist", got.AlbumArtist, want.AlbumArtist)
	assertEqual(t, "TrackNumber", got.TrackNumber, want.TrackNumber)
	assertEqual(t, "TrackTotal", got.TrackTotal, want.TrackTotal)
	assertEqual(t, "DiscNumber", got.DiscNumber, want.DiscNumber)
	assertEqual(t, "DiscTotal", got.DiscTotal, want.DiscTotal)
	assertEqual(t, "Composer", got.Composer, want.Composer)
	assertStrings(t, "Genres", got.Genres, want.Genres)
	assertEqual(t, "Date", got.Date, want.Date)
	assertEqual(t, "Year", got.Year, want.Year)
	assertStrings(t, "Aliases", got.Aliases, want.Aliases)
	assertEqual(t, "Comment", got.Comment, want.Comment)
	assertEqual(t, "Lyrics", got.Lyrics, want.Lyrics)
	assertEqual(t, "TranslatedLyrics", got.TranslatedLyrics, want.TranslatedLyrics)
}

func assertTaglibTag(t *testing.T, tags map[string][]string, key, want string) {
	t.Helper()
	got := tags[key]
	if len(got) == 0 || got[0] != want {
		t.Errorf("%s = %v, want [%s]", key, got, want)
	}
}
