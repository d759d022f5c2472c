package tags

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/ncmtag/internal/metadata"
)

// Vorbis comment keys owned by the FLAC encoder.
const (
	vcArtist           = "ARTIST"
	vcAlbumArtist      = "ALBUMARTIST"
	vcTitle            = "TITLE"
	vcAlbum            = "ALBUM"
	vcTrackNumber      = "TRACKNUMBER"
	vcTrackTotal       = "TRACKTOTAL"
	vcDiscNumber       = "DISCNUMBER"
	vcDiscTotal        = "DISCTOTAL"
	vcComposer         = "COMPOSER"
	vcGenre            = "GENRE"
	vcDate             = "DATE"
	vcComment          = "COMMENT"
	vcAlias            = "ALIAS"
	vcLyrics           = "LYRICS"
	vcLyricTranslation = "LYRICS-TRANSLATION"
)

var ownedVorbisKeys = []string{
	vcArtist, vcAlbumArtist, vcTitle, vcAlbum, vcTrackNumber, vcTrackTotal,
	vcDiscNumber, vcDiscTotal, vcComposer, vcGenre, vcDate, vcComment,
	vcAlias, vcLyrics, vcLyricTranslation,
}

// FLACEncoder writes Vorbis comments and a front-cover picture into FLAC files.
type FLACEncoder struct {
	Log *log.Entry
}

// Encode replaces the owned Vorbis comments and every picture block. Comments
// the encoder does not own are kept in their original order. A file that is
// not a FLAC stream yields ErrInvalidContainer before any change.
func (e *FLACEncoder) Encode(path string, m *metadata.Metadata, art *Artwork) error {
	f, id3Size, err := parseFLACFile(path)
	if err != nil {
		return err
	}
	logger := loggerOrDefault(e.Log).WithField("path", path)
	if id3Size > 0 {
		logger.WithField("bytes", id3Size).Debug("Dropping ID3v2 header in front of FLAC stream")
	}

	cmts, cmtIdx, err := existingComments(f)
	if err != nil {
		return fmt.Errorf("parse vorbis comments: %w", err)
	}
	cmts.Comments = slices.DeleteFunc(cmts.Comments, isOwnedComment)
	if err := addVorbisComments(cmts, m); err != nil {
		return err
	}

	cmtBlock := cmts.Marshal()
	if cmtIdx >= 0 {
		f.Meta[cmtIdx] = &cmtBlock
	} else {
		f.Meta = append(f.Meta, &cmtBlock)
	}

	// Remove existing picture blocks
	f.Meta = slices.DeleteFunc(f.Meta, func(meta *flac.MetaDataBlock) bool {
		return meta.Type == flac.Picture
	})

	if art != nil && len(art.Data) > 0 {
		picBlock := newPictureBlock(art, logger)
		f.Meta = append(f.Meta, &picBlock)
	}

	// Saving the parsed stream also drops any ID3v2 header in front of it
	if err := f.Save(path); err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return nil
}

// parseFLACFile parses a FLAC file, skipping an ID3v2 header if present.
// Returns the parsed stream and the size of the skipped header.
func parseFLACFile(path string) (*flac.File, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read file: %w", err)
	}

	id3Size := id3v2TagSize(data)
	if id3Size > len(data) {
		return nil, 0, fmt.Errorf("%w: %s: ID3v2 header exceeds file size", ErrInvalidContainer, path)
	}
	stream := data[id3Size:]
	if !bytes.HasPrefix(stream, []byte(flacMagic)) {
		return nil, 0, fmt.Errorf("%w: %s: no fLaC marker", ErrInvalidContainer, path)
	}

	f, err := flac.ParseBytes(bytes.NewReader(stream))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrInvalidContainer, path, err)
	}
	return f, id3Size, nil
}

// existingComments returns the Vorbis comment block and its index, or a new
// block and -1 when the file has none.
func existingComments(f *flac.File) (*flacvorbis.MetaDataBlockVorbisComment, int, error) {
	for i, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return nil, -1, err
		}
		return cmts, i, nil
	}
	return flacvorbis.New(), -1, nil
}

func isOwnedComment(comment string) bool {
	key, _, ok := strings.Cut(comment, "=")
	if !ok {
		return false
	}
	for _, owned := range ownedVorbisKeys {
		if strings.EqualFold(key, owned) {
			return true
		}
	}
	return false
}

func addVorbisComments(cmts *flacvorbis.MetaDataBlockVorbisComment, m *metadata.Metadata) error {
	var errs []error

	// Helper to add tag if non-empty
	add := func(key, value string) {
		if value == "" {
			return
		}
		if err := cmts.Add(key, value); err != nil {
			errs = append(errs, fmt.Errorf("add %s: %w", strings.ToLower(key), err))
		}
	}
	addInt := func(key string, value int) {
		if value > 0 {
			add(key, strconv.Itoa(value))
		}
	}

	for _, artist := range m.Artists {
		add(vcArtist, artist)
	}
	add(vcAlbumArtist, m.AlbumArtist)
	add(vcTitle, m.Title)
	add(vcAlbum, m.Album)
	addInt(vcTrackNumber, m.TrackNumber)
	addInt(vcTrackTotal, m.TrackTotal)
	addInt(vcDiscNumber, m.DiscNumber)
	addInt(vcDiscTotal, m.DiscTotal)
	add(vcComposer, m.Composer)
	add(vcGenre, m.Genre())
	if m.Date != "" {
		add(vcDate, m.Date)
	} else {
		add(vcDate, m.Year)
	}
	add(vcComment, m.Comment)
	for _, alias := range m.Aliases {
		add(vcAlias, alias)
	}
	add(vcLyrics, m.Lyrics)
	add(vcLyricTranslation, m.TranslatedLyrics)

	return errors.Join(errs...)
}

// newPictureBlock builds a front-cover picture block. Image dimensions are
// filled in when the data decodes; undecodable data is embedded as is.
func newPictureBlock(art *Artwork, logger *log.Entry) flac.MetaDataBlock {
	pic, err := flacpicture.NewFromImageData(
		flacpicture.PictureTypeFrontCover,
		coverDescription,
		art.Data,
		art.MIME,
	)
	if err != nil {
		logger.WithError(err).Warn("Cover dimensions unknown, embedding raw picture")
		pic = &flacpicture.MetadataBlockPicture{
			PictureType: flacpicture.PictureTypeFrontCover,
			MIME:        art.MIME,
			Description: coverDescription,
			ImageData:   art.Data,
		}
	}
	return pic.Marshal()
}
