// Package metadata builds the canonical tag values of a track from a raw
// catalog record and optional position hints.
package metadata

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/llehouerou/ncmtag/internal/catalog"
)

// ArtistSeparator joins several artists into a single display value.
const ArtistSeparator = " / "

// Metadata is the canonical tag set written into audio files.
// Zero values mean absent: the encoders skip them.
type Metadata struct {
	Title       string
	Album       string
	Artists     []string
	AlbumArtist string

	TrackNumber int
	TrackTotal  int
	DiscNumber  int
	DiscTotal   int

	Composer string
	Genres   []string

	Date string // YYYY-MM-DD
	Year string // YYYY

	Aliases          []string
	Comment          string
	Lyrics           string
	TranslatedLyrics string
}

// Hint overrides positions derived from the record. Zero fields are absent.
type Hint struct {
	TrackNumber int
	TrackTotal  int
	DiscNumber  int
	DiscTotal   int
}

// IsZero reports whether the hint carries no override.
func (h Hint) IsZero() bool {
	return h == Hint{}
}

// Genre returns the genres joined for single-valued tag fields.
func (m *Metadata) Genre() string {
	return strings.Join(m.Genres, ArtistSeparator)
}

// HasLyrics reports whether original lyrics are present.
func (m *Metadata) HasLyrics() bool {
	return m.Lyrics != ""
}

// HasTranslation reports whether translated lyrics are present.
func (m *Metadata) HasTranslation() bool {
	return m.TranslatedLyrics != ""
}

// TrackPosition formats the track position as "N", "N/M" or "".
func (m *Metadata) TrackPosition() string {
	return FormatPosition(m.TrackNumber, m.TrackTotal)
}

// DiscPosition formats the disc position as "N", "N/M" or "".
func (m *Metadata) DiscPosition() string {
	return FormatPosition(m.DiscNumber, m.DiscTotal)
}

// FormatPosition renders a position pair. A total without a number is dropped
// because "/M" is not a valid position.
func FormatPosition(number, total int) string {
	switch {
	case number <= 0:
		return ""
	case total <= 0:
		return strconv.Itoa(number)
	default:
		return fmt.Sprintf("%d/%d", number, total)
	}
}

// Normalizer maps raw catalog records to Metadata.
type Normalizer struct {
	// Location is the time zone publish dates are rendered in. Nil means time.Local.
	Location *time.Location
}

// Normalize builds the Metadata of a record. It never fails: missing or
// malformed optional fields are left absent. The record is not modified.
func (n *Normalizer) Normalize(song *catalog.Song, isProgram bool, lyrics *catalog.Lyrics, hint Hint) *Metadata {
	if song == nil {
		song = &catalog.Song{}
	}
	album := song.AlbumInfo()

	m := &Metadata{Title: song.Name}

	if isProgram {
		if host := song.Host(); host != "" {
			m.Artists = []string{host}
			m.AlbumArtist = host
		}
		m.Album = song.Brand()
		m.TrackNumber = hint.TrackNumber
		m.TrackTotal = hint.TrackTotal
	} else {
		m.Artists = song.ArtistNames()
		m.Album = album.Name
		m.AlbumArtist = albumArtist(album, m.Artists)
		m.TrackNumber = firstPositive(hint.TrackNumber, song.TrackNumber())
		m.TrackTotal = firstPositive(hint.TrackTotal, album.TrackCount())

		number, total := song.DiscPosition()
		m.DiscNumber = firstPositive(hint.DiscNumber, number)
		m.DiscTotal = firstPositive(hint.DiscTotal, total, album.DiscCount())
		m.Comment = album.Publisher()
	}

	m.Composer = song.ComposerName()
	if m.Composer == "" && len(m.Artists) > 0 {
		m.Composer = m.Artists[0]
	}
	m.Genres = album.Genres()
	m.Date, m.Year = n.publishDate(album)
	m.Aliases = song.Aliases()

	if lyrics != nil {
		m.Lyrics = lyrics.Lyric
		m.TranslatedLyrics = lyrics.Translation
	}
	return m
}

func (n *Normalizer) location() *time.Location {
	if n == nil || n.Location == nil {
		return time.Local
	}
	return n.Location
}

// publishDate renders the album publish time. Values that do not map to a
// four-digit year are treated as absent.
func (n *Normalizer) publishDate(album *catalog.Album) (date, year string) {
	ms, ok := album.PublishedAt()
	if !ok {
		return "", ""
	}
	t := time.UnixMilli(ms).In(n.location())
	if t.Year() < 1 || t.Year() > 9999 {
		return "", ""
	}
	return t.Format("2006-01-02"), t.Format("2006")
}

// albumArtist resolves the album-level artist: the album's own artist
// fields when present, else the track artists joined.
func albumArtist(album *catalog.Album, artists []string) string {
	if names := album.ArtistNames(); len(names) > 0 {
		return strings.Join(names, ArtistSeparator)
	}
	return strings.Join(artists, ArtistSeparator)
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
