package tags

import (
	"strings"

	"github.com/bogem/id3v2/v2"

	"github.com/llehouerou/ncmtag/internal/metadata"
)

// readMP3Tags reads the owned ID3v2 frames of an MP3 file.
func readMP3Tags(path string) (*FileTags, error) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer id3tag.Close()

	ft := &FileTags{Path: path, Format: FormatMP3}
	m := &ft.Metadata

	m.Title = getID3TextFrame(id3tag, "TIT2")
	m.Album = getID3TextFrame(id3tag, "TALB")
	m.Artists = splitID3Multi(getID3TextFrame(id3tag, "TPE1"))
	m.AlbumArtist = getID3TextFrame(id3tag, "TPE2")
	m.TrackNumber, m.TrackTotal = parseNumberPair(getID3TextFrame(id3tag, "TRCK"))
	m.DiscNumber, m.DiscTotal = parseNumberPair(getID3TextFrame(id3tag, "TPOS"))
	m.Composer = getID3TextFrame(id3tag, "TCOM")
	m.Genres = splitNonEmpty(getID3TextFrame(id3tag, "TCON"), metadata.ArtistSeparator)
	m.Date, m.Year = readID3Date(id3tag)
	m.Aliases = splitID3Multi(getID3TXXXFrame(id3tag, txxxAlias))
	m.TranslatedLyrics = getID3TXXXFrame(id3tag, txxxTranslation)

	for _, frame := range id3tag.GetFrames("COMM") {
		if comm, ok := frame.(id3v2.CommentFrame); ok && comm.Description == "" {
			m.Comment = comm.Text
			break
		}
	}
	for _, frame := range id3tag.GetFrames("USLT") {
		if uslt, ok := frame.(id3v2.UnsynchronisedLyricsFrame); ok {
			m.Lyrics = uslt.Lyrics
			break
		}
	}
	for _, frame := range id3tag.GetFrames("APIC") {
		if pic, ok := frame.(id3v2.PictureFrame); ok && pic.PictureType == id3v2.PTFrontCover {
			ft.HasCover = true
			ft.CoverMIME = pic.MimeType
			break
		}
	}

	return ft, nil
}

// readID3Date reads TDRC (ID3v2.4) or TYER with TDAT (ID3v2.3).
func readID3Date(id3tag *id3v2.Tag) (date, year string) {
	if tdrc := getID3TextFrame(id3tag, "TDRC"); tdrc != "" {
		return splitDate(tdrc)
	}
	year = getID3TextFrame(id3tag, "TYER")
	if year == "" {
		return "", ""
	}
	// TDAT is DDMM format, convert to YYYY-MM-DD
	if tdat := getID3TextFrame(id3tag, "TDAT"); len(tdat) == 4 {
		return year + "-" + tdat[2:4] + "-" + tdat[0:2], year
	}
	return "", year
}

// splitID3Multi splits a multi-valued text frame. ID3v2.3 joins values with
// "/", ID3v2.4 with NUL.
func splitID3Multi(s string) []string {
	s = strings.ReplaceAll(s, "\x00", id3MultiSeparator)
	return splitNonEmpty(s, id3MultiSeparator)
}

// getID3TextFrame reads a text frame value from an ID3v2 tag.
func getID3TextFrame(id3tag *id3v2.Tag, frameID string) string {
	frames := id3tag.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return strings.TrimRight(tf.Text, "\x00")
	}
	return ""
}

// getID3TXXXFrame reads a user-defined text frame (TXXX) value.
func getID3TXXXFrame(id3tag *id3v2.Tag, description string) string {
	frames := id3tag.GetFrames("TXXX")
	for _, frame := range frames {
		if txxx, ok := frame.(id3v2.UserDefinedTextFrame); ok {
			if strings.EqualFold(txxx.Description, description) {
				return strings.TrimRight(txxx.Value, "\x00")
			}
		}
	}
	return ""
}
