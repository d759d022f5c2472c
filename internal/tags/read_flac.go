package tags

import (
	"strconv"
	"strings"

	"github.com/go-flac/flacpicture"
	goflac "github.com/go-flac/go-flac"
	"go.senan.xyz/taglib"

	"github.com/llehouerou/ncmtag/internal/metadata"
)

// vorbisTags holds Vorbis comments keyed by upper-case field name.
// Both the raw comment parser and TagLib produce this shape.
type vorbisTags map[string][]string

// get returns the first value for any of the given keys, or empty string if not found.
func (t vorbisTags) get(keys ...string) string {
	for _, key := range keys {
		if values, ok := t[key]; ok && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// getInt returns the first value as an integer, or 0 if not found or invalid.
func (t vorbisTags) getInt(keys ...string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(t.get(keys...)))
	return n
}

// readFLACTags reads the owned Vorbis comments of a FLAC file.
// TagLib is used when go-flac cannot parse the stream.
func readFLACTags(path string) (*FileTags, error) {
	f, _, err := parseFLACFile(path)
	if err != nil {
		return readFLACWithTaglib(path)
	}

	ft := &FileTags{Path: path, Format: FormatFLAC}
	comments := vorbisTags{}
	for _, meta := range f.Meta {
		switch meta.Type {
		case goflac.VorbisComment:
			comments = parseVorbisComments(meta.Data)
		case goflac.Picture:
			if !ft.HasCover {
				ft.HasCover = true
				if pic, err := flacpicture.ParseFromMetaDataBlock(*meta); err == nil {
					ft.CoverMIME = pic.MIME
				}
			}
		}
	}
	ft.Metadata = comments.metadata()
	return ft, nil
}

// readFLACWithTaglib reads FLAC metadata using TagLib as fallback.
func readFLACWithTaglib(path string) (*FileTags, error) {
	rawTags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, err
	}
	ft := &FileTags{Path: path, Format: FormatFLAC}
	ft.Metadata = vorbisTags(rawTags).metadata()
	return ft, nil
}

func (t vorbisTags) metadata() metadata.Metadata {
	track, trackTotal := parseNumberPair(t.get(vcTrackNumber))
	if trackTotal == 0 {
		trackTotal = t.getInt(vcTrackTotal, "TOTALTRACKS")
	}
	disc, discTotal := parseNumberPair(t.get(vcDiscNumber))
	if discTotal == 0 {
		discTotal = t.getInt(vcDiscTotal, "TOTALDISCS")
	}
	date, year := splitDate(t.get(vcDate, "YEAR"))

	return metadata.Metadata{
		Title:            t.get(vcTitle),
		Album:            t.get(vcAlbum),
		Artists:          t[vcArtist],
		AlbumArtist:      t.get(vcAlbumArtist),
		TrackNumber:      track,
		TrackTotal:       trackTotal,
		DiscNumber:       disc,
		DiscTotal:        discTotal,
		Composer:         t.get(vcComposer),
		Genres:           splitNonEmpty(t.get(vcGenre), metadata.ArtistSeparator),
		Date:             date,
		Year:             year,
		Aliases:          t[vcAlias],
		Comment:          t.get(vcComment),
		Lyrics:           t.get(vcLyrics),
		TranslatedLyrics: t.get(vcLyricTranslation),
	}
}

// parseVorbisComments parses raw Vorbis comment data. Keys are upper-cased and
// repeated keys keep every value in order.
func parseVorbisComments(data []byte) vorbisTags {
	comments := make(vorbisTags)

	if len(data) < 4 {
		return comments
	}

	// Skip vendor string
	vendorLen := int(le32(data))
	pos := 4 + vendorLen
	if vendorLen < 0 || pos+4 > len(data) {
		return comments
	}

	// Read comment count
	commentCount := int(le32(data[pos:]))
	pos += 4

	// Read each comment
	for i := 0; i < commentCount && pos+4 <= len(data); i++ {
		commentLen := int(le32(data[pos:]))
		pos += 4

		if commentLen < 0 || pos+commentLen > len(data) {
			break
		}

		comment := string(data[pos : pos+commentLen])
		pos += commentLen

		// Split on first '='
		if idx := strings.Index(comment, "="); idx > 0 {
			key := strings.ToUpper(comment[:idx])
			comments[key] = append(comments[key], comment[idx+1:])
		}
	}

	return comments
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
